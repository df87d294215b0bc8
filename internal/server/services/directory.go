// Package services contains the server-side business logic shared by the
// HTTP and gRPC transports: the user directory, the health-file ledger and
// upload intake.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/logging"
	"github.com/dmitrijs2005/healthkeeper/internal/server/auth"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
	"github.com/dmitrijs2005/healthkeeper/internal/server/repositories/users"
)

// Directory manages user accounts keyed by email.
type Directory struct {
	users  users.Repository
	logger logging.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

func NewDirectory(repo users.Repository, logger logging.Logger) *Directory {
	return &Directory{
		users:  repo,
		logger: logger.With("module", "directory"),
		now:    time.Now,
	}
}

// FindByEmail returns common.ErrorNotFound for unknown emails.
func (d *Directory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.users.GetByEmail(ctx, normalizeEmail(email))
}

// Create registers a new account. Name, email and password are required; the
// profile fields may be nil. An existing email yields common.ErrorAlreadyExists
// and leaves the stored record as it was.
func (d *Directory) Create(ctx context.Context, in models.NewUser) (*models.User, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: All fields are required", common.ErrorValidation)
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Name:      in.Name,
		Email:     in.Email,
		Password:  hash,
		Profile:   in.Profile,
		CreatedAt: d.now().UTC(),
	}

	if err := d.users.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	d.logger.Info(ctx, "user created", "email", user.Email)
	return user, nil
}

// UpdateProfile overwrites age, sex and race and stamps updated_at. Values are
// stored as given; range checks belong to the caller.
func (d *Directory) UpdateProfile(ctx context.Context, email string, p models.Profile) (*models.User, error) {
	email = normalizeEmail(email)
	user, err := d.users.UpdateProfile(ctx, email, p, d.now().UTC())
	if err != nil {
		return nil, err
	}
	d.logger.Info(ctx, "profile updated", "email", email)
	return user, nil
}

// ValidateCredentials returns the account when password matches. Unknown
// emails and wrong passwords both yield common.ErrorUnauthorized, and both
// pay for a bcrypt comparison.
func (d *Directory) ValidateCredentials(ctx context.Context, email, password string) (*models.User, error) {
	user, err := d.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			auth.CheckPassword(d.fakeHash(), password)
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	if !auth.CheckPassword(user.Password, password) {
		return nil, common.ErrorUnauthorized
	}
	return user, nil
}

// normalizeEmail is applied on every entry point so that lookups match the
// stored key.
func normalizeEmail(email string) string {
	return strings.TrimSpace(email)
}

func (d *Directory) fakeHash() string {
	d.dummyOnce.Do(func() {
		h, err := auth.HashPassword("healthkeeper-no-such-user")
		if err == nil {
			d.dummyHash = h
		}
	})
	return d.dummyHash
}
