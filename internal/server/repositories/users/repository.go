// Package users stores user accounts keyed by email.
package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

type Repository interface {
	// Create inserts user. It fails with common.ErrorAlreadyExists when the
	// email is taken, leaving the existing record untouched.
	Create(ctx context.Context, user *models.User) error
	// GetByEmail returns common.ErrorNotFound for unknown emails.
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	// UpdateProfile overwrites age, sex, race and updated_at and returns the
	// updated record, or common.ErrorNotFound for unknown emails.
	UpdateProfile(ctx context.Context, email string, p models.Profile, updatedAt time.Time) (*models.User, error)
}
