package healthfiles

import (
	"context"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/docstore"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

// JSONRepository keeps the ledger in a JSON document mapping email to an
// ordered list of records.
type JSONRepository struct {
	doc *docstore.Document[[]models.HealthFile]
}

func NewJSONRepository(path string) *JSONRepository {
	return &JSONRepository{doc: docstore.NewDocument[[]models.HealthFile](path)}
}

func (r *JSONRepository) Append(ctx context.Context, email string, f *models.HealthFile) error {
	return r.doc.Update(ctx, func(doc map[string][]models.HealthFile) error {
		doc[email] = append(doc[email], *f)
		return nil
	})
}

func (r *JSONRepository) List(ctx context.Context, email string) ([]*models.HealthFile, error) {
	result := []*models.HealthFile{}
	err := r.doc.View(ctx, func(doc map[string][]models.HealthFile) error {
		for _, f := range doc[email] {
			result = append(result, &f)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (r *JSONRepository) Get(ctx context.Context, email, filename string) (*models.HealthFile, error) {
	var found *models.HealthFile
	err := r.doc.View(ctx, func(doc map[string][]models.HealthFile) error {
		for _, f := range doc[email] {
			if f.Filename == filename {
				found = &f
				return nil
			}
		}
		return common.ErrorNotFound
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

func (r *JSONRepository) Remove(ctx context.Context, email, filename string, commit func(*models.HealthFile) error) error {
	return r.doc.Update(ctx, func(doc map[string][]models.HealthFile) error {
		list, ok := doc[email]
		if !ok {
			return common.ErrorNotFound
		}

		idx := -1
		for i, f := range list {
			if f.Filename == filename {
				idx = i
				break
			}
		}
		if idx < 0 {
			return common.ErrorNotFound
		}

		removed := list[idx]
		rest := make([]models.HealthFile, 0, len(list)-1)
		rest = append(rest, list[:idx]...)
		rest = append(rest, list[idx+1:]...)
		doc[email] = rest

		return commit(&removed)
	})
}
