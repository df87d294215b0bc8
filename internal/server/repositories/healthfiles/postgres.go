package healthfiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/dbx"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

// PostgresRepository keeps the ledger in the health_files table; the
// insertion order is the serial id.
type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Append(ctx context.Context, email string, f *models.HealthFile) error {

	query :=
		`INSERT INTO health_files (email, filename, original_filename, uploaded_at)
		 VALUES ($1, $2, $3, $4)
		 `

	_, err := r.db.ExecContext(ctx, query, email, f.Filename, f.OriginalFilename, f.UploadedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("db error: %w", err)
	}

	return nil
}

func (r *PostgresRepository) List(ctx context.Context, email string) ([]*models.HealthFile, error) {
	query := `SELECT filename, original_filename, uploaded_at FROM health_files
		WHERE email = $1
		ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("failed to select health files: %w", err)
	}
	defer rows.Close()

	result := []*models.HealthFile{}
	for rows.Next() {
		var item models.HealthFile
		if err := rows.Scan(&item.Filename, &item.OriginalFilename, &item.UploadedAt); err != nil {
			return nil, err
		}
		result = append(result, &item)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) Get(ctx context.Context, email, filename string) (*models.HealthFile, error) {
	query := `SELECT filename, original_filename, uploaded_at FROM health_files
		WHERE email = $1 AND filename = $2`

	var item models.HealthFile
	err := r.db.QueryRowContext(ctx, query, email, filename).Scan(&item.Filename, &item.OriginalFilename, &item.UploadedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &item, nil
}

func (r *PostgresRepository) Remove(ctx context.Context, email, filename string, commit func(*models.HealthFile) error) error {
	query := `DELETE FROM health_files
		WHERE email = $1 AND filename = $2
		RETURNING filename, original_filename, uploaded_at`

	return dbx.WithTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		var item models.HealthFile
		err := tx.QueryRowContext(ctx, query, email, filename).Scan(&item.Filename, &item.OriginalFilename, &item.UploadedAt)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("db error: %w", err)
		}
		return commit(&item)
	})
}
