package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/healthkeeper/internal/common"
	"github.com/dmitrijs2005/healthkeeper/internal/dbx"
	"github.com/dmitrijs2005/healthkeeper/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) error {

	query :=
		`INSERT INTO users (email, name, password, age, sex, race, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (email) DO NOTHING
		 `

	res, err := r.db.ExecContext(ctx, query,
		user.Email, user.Name, user.Password, user.Age, user.Sex, user.Race, user.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorAlreadyExists
	}

	return nil
}

const selectColumns = `email, name, password, age, sex, race, created_at, updated_at`

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + selectColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, email string, p models.Profile, updatedAt time.Time) (*models.User, error) {
	query :=
		`UPDATE users SET age = $2, sex = $3, race = $4, updated_at = $5
		 WHERE email = $1
		 RETURNING ` + selectColumns

	user, err := scanUser(r.db.QueryRowContext(ctx, query, email, p.Age, p.Sex, p.Race, updatedAt))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func scanUser(row *sql.Row) (*models.User, error) {
	var (
		user      models.User
		age       sql.NullInt64
		sex, race sql.NullString
		updatedAt sql.NullTime
	)

	if err := row.Scan(&user.Email, &user.Name, &user.Password, &age, &sex, &race, &user.CreatedAt, &updatedAt); err != nil {
		return nil, err
	}

	if age.Valid {
		user.Age = common.Ptr(int(age.Int64))
	}
	if sex.Valid {
		user.Sex = common.Ptr(sex.String)
	}
	if race.Valid {
		user.Race = common.Ptr(race.String)
	}
	if updatedAt.Valid {
		user.UpdatedAt = common.Ptr(updatedAt.Time)
	}

	return &user, nil
}
