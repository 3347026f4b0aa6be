package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/model"
)

type UserRepositoryInterface interface {
	Upsert(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
}

type UserRepository struct {
	DB *sql.DB
}

// Upsert creates the internal row for an identity-provider user, or refreshes
// its email and name when the provider sent non-empty values.
func (r *UserRepository) Upsert(ctx context.Context, u *model.User) (*model.User, error) {
	query := `
        INSERT INTO users (id, email, name)
        VALUES ($1, $2, $3)
        ON CONFLICT (id) DO UPDATE SET
            email = COALESCE(NULLIF(EXCLUDED.email, ''), users.email),
            name  = COALESCE(NULLIF(EXCLUDED.name, ''), users.name)
        RETURNING id, email, name, created_at
    `
	var out model.User
	err := r.DB.QueryRowContext(ctx, query, u.ID, u.Email, u.Name).Scan(&out.ID, &out.Email, &out.Name, &out.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &out, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	query := `SELECT id, email, name, created_at FROM users WHERE id = $1`
	var u model.User
	err := r.DB.QueryRowContext(ctx, query, id).Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return &u, nil
}

var _ UserRepositoryInterface = (*UserRepository)(nil)
