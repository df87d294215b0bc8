package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/server/blobstore"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/healthfiles"
)

// Ledger keeps each user's health-file records together with the stored bytes.
type Ledger struct {
	files  healthfiles.Repository
	blobs  blobstore.Store
	logger logging.Logger
	now    func() time.Time
}

func NewLedger(files healthfiles.Repository, blobs blobstore.Store, logger logging.Logger) *Ledger {
	return &Ledger{
		files:  files,
		blobs:  blobs,
		logger: logger.With("module", "ledger"),
		now:    time.Now,
	}
}

// Append records an upload whose bytes are already stored under storedFilename.
func (l *Ledger) Append(ctx context.Context, email, storedFilename, originalFilename string) (*models.HealthFile, error) {
	f := &models.HealthFile{
		Filename:         storedFilename,
		OriginalFilename: originalFilename,
		UploadedAt:       l.now().UTC(),
	}
	if err := l.files.Append(ctx, normalizeEmail(email), f); err != nil {
		return nil, err
	}
	return f, nil
}

// List returns the records of email in upload order.
func (l *Ledger) List(ctx context.Context, email string) ([]*models.HealthFile, error) {
	return l.files.List(ctx, normalizeEmail(email))
}

func (l *Ledger) Get(ctx context.Context, email, storedFilename string) (*models.HealthFile, error) {
	return l.files.Get(ctx, normalizeEmail(email), storedFilename)
}

// Open returns the record together with its content. Only the owner's
// records are visible.
func (l *Ledger) Open(ctx context.Context, email, storedFilename string) (*models.HealthFile, io.ReadCloser, error) {
	f, err := l.files.Get(ctx, normalizeEmail(email), storedFilename)
	if err != nil {
		return nil, nil, err
	}

	rc, err := l.blobs.Open(ctx, f.Filename)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: open %s: %v", common.ErrorStorage, f.Filename, err)
	}
	return f, rc, nil
}

// Delete removes the record and its stored bytes. A missing record yields
// common.ErrorNotFound. When the bytes cannot be removed the record is kept
// and common.ErrorStorage is returned.
func (l *Ledger) Delete(ctx context.Context, email, storedFilename string) error {
	err := l.files.Remove(ctx, normalizeEmail(email), storedFilename, func(f *models.HealthFile) error {
		if err := l.blobs.Remove(ctx, f.Filename); err != nil {
			return fmt.Errorf("%w: remove %s: %v", common.ErrorStorage, f.Filename, err)
		}
		return nil
	})
	if err != nil {
		l.logger.Warn(ctx, "delete failed", "email", email, "filename", storedFilename, "error", err)
		return err
	}

	l.logger.Info(ctx, "file deleted", "email", email, "filename", storedFilename)
	return nil
}
