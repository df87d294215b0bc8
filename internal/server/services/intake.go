package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/server/blobstore"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"golang.org/x/text/unicode/norm"
)

const (
	storedNameLayout = "20060102_150405"
	fallbackName     = "upload"
	maxNameAttempts  = 5
)

// Intake turns an uploaded stream into a stored blob plus a ledger record.
type Intake struct {
	ledger *Ledger
	blobs  blobstore.Store
	logger logging.Logger
	now    func() time.Time
	suffix func() (string, error)
}

func NewIntake(ledger *Ledger, blobs blobstore.Store, logger logging.Logger) *Intake {
	return &Intake{
		ledger: ledger,
		blobs:  blobs,
		logger: logger.With("module", "intake"),
		now:    time.Now,
		suffix: func() (string, error) { return common.MakeRandHexString(4) },
	}
}

// SanitizeFilename reduces name to a safe ASCII file name: accents are
// decomposed and dropped, path separators and whitespace runs become "_",
// anything outside [A-Za-z0-9_.-] is removed and leading or trailing dots
// and underscores are trimmed.
func SanitizeFilename(name string) string {
	name = norm.NFKD.String(name)
	name = strings.Map(func(r rune) rune {
		switch {
		case r > unicode.MaxASCII:
			return -1
		case r == '/' || r == '\\':
			return ' '
		}
		return r
	}, name)

	name = strings.Join(strings.Fields(name), "_")
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '_' || r == '.' || r == '-':
			return r
		}
		return -1
	}, name)

	name = strings.Trim(name, "._")
	if name == "" {
		return fallbackName
	}
	return name
}

// StoredName prefixes the sanitized name with a YYYYMMDD_HHMMSS_ timestamp.
func StoredName(t time.Time, original string) string {
	return t.Format(storedNameLayout) + "_" + SanitizeFilename(original)
}

func suffixedName(t time.Time, suffix, original string) string {
	return t.Format(storedNameLayout) + "_" + suffix + "_" + SanitizeFilename(original)
}

// Store writes r under a fresh stored name and appends the ledger record. A
// name already taken within the same second is retried with a random suffix
// so two uploads never share a record. If the ledger append fails the written
// bytes are removed again.
func (in *Intake) Store(ctx context.Context, email, originalName string, r io.ReadSeeker) (*models.HealthFile, error) {
	start, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("seek upload: %w", err)
	}

	// Stored names carry the server's wall-clock time.
	now := in.now()
	name := StoredName(now, originalName)

	var size int64
	for attempt := 1; ; attempt++ {
		size, err = in.blobs.Create(ctx, name, r)
		if err == nil {
			break
		}
		if !errors.Is(err, common.ErrorAlreadyExists) || attempt >= maxNameAttempts {
			return nil, fmt.Errorf("%w: store %s: %v", common.ErrorStorage, name, err)
		}

		suffix, serr := in.suffix()
		if serr != nil {
			return nil, fmt.Errorf("name suffix: %w", serr)
		}
		name = suffixedName(now, suffix, originalName)
		if _, err := r.Seek(start, io.SeekStart); err != nil {
			return nil, fmt.Errorf("seek upload: %w", err)
		}
		in.logger.Debug(ctx, "stored name taken, retrying", "filename", name, "attempt", attempt+1)
	}

	f, err := in.ledger.Append(ctx, email, name, originalName)
	if err != nil {
		if rerr := in.blobs.Remove(ctx, name); rerr != nil {
			in.logger.Error(ctx, "orphaned upload", "filename", name, "error", rerr)
		}
		return nil, fmt.Errorf("error appending record: %w", err)
	}

	in.logger.Info(ctx, "file uploaded", "email", email, "filename", name, "size", size)
	return f, nil
}
