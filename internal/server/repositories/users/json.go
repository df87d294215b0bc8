package users

import (
	"context"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/docstore"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

// JSONRepository keeps users in a single JSON document mapping email to record.
type JSONRepository struct {
	doc *docstore.Document[models.User]
}

func NewJSONRepository(path string) *JSONRepository {
	return &JSONRepository{doc: docstore.NewDocument[models.User](path)}
}

func (r *JSONRepository) Create(ctx context.Context, user *models.User) error {
	return r.doc.Update(ctx, func(doc map[string]models.User) error {
		if _, ok := doc[user.Email]; ok {
			return common.ErrorAlreadyExists
		}
		doc[user.Email] = *user
		return nil
	})
}

func (r *JSONRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user *models.User
	err := r.doc.View(ctx, func(doc map[string]models.User) error {
		u, ok := doc[email]
		if !ok {
			return common.ErrorNotFound
		}
		user = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *JSONRepository) UpdateProfile(ctx context.Context, email string, p models.Profile, updatedAt time.Time) (*models.User, error) {
	var user *models.User
	err := r.doc.Update(ctx, func(doc map[string]models.User) error {
		u, ok := doc[email]
		if !ok {
			return common.ErrorNotFound
		}
		u.Profile = p
		u.UpdatedAt = &updatedAt
		doc[email] = u
		user = &u
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}
