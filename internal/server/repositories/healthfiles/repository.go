// Package healthfiles stores the per-user ledger of uploaded health documents.
package healthfiles

import (
	"context"

	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

type Repository interface {
	// Append adds f to the end of the owner's list, creating the list if needed.
	Append(ctx context.Context, email string, f *models.HealthFile) error
	// List returns the owner's records in upload order; unknown owners have none.
	List(ctx context.Context, email string) ([]*models.HealthFile, error)
	// Get returns common.ErrorNotFound unless the owner has a record with filename.
	Get(ctx context.Context, email, filename string) (*models.HealthFile, error)
	// Remove drops the record and then calls commit with it. The removal is only
	// persisted when commit returns nil; otherwise commit's error is returned and
	// the stored ledger is left unchanged. A missing owner list or record yields
	// common.ErrorNotFound without calling commit.
	Remove(ctx context.Context, email, filename string, commit func(*models.HealthFile) error) error
}
