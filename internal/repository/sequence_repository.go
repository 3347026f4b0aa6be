package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/model"
)

type SequenceRepositoryInterface interface {
	Create(ctx context.Context, s *model.Sequence) error
	Replace(ctx context.Context, s *model.Sequence) error
	GetByID(ctx context.Context, userID, id string) (*model.Sequence, error)
	ListByUser(ctx context.Context, userID string) ([]*model.Sequence, error)
}

type SequenceRepository struct {
	DB *sql.DB
}

const sequenceColumns = `id, user_id, name, steps, created_at, updated_at`

func (r *SequenceRepository) Create(ctx context.Context, s *model.Sequence) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.CreatedAt = time.Now().UTC()

	steps, err := encodeSteps(s.Steps)
	if err != nil {
		return err
	}
	query := `
        INSERT INTO sequences (id, user_id, name, steps, created_at)
        VALUES ($1, $2, $3, $4, $5)
    `
	if _, err := r.DB.ExecContext(ctx, query, s.ID, s.UserID, s.Name, steps, s.CreatedAt); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

// Replace overwrites the name and the whole step list of an existing sequence.
func (r *SequenceRepository) Replace(ctx context.Context, s *model.Sequence) error {
	steps, err := encodeSteps(s.Steps)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	query := `
        UPDATE sequences SET name=$1, steps=$2, updated_at=$3
        WHERE id=$4 AND user_id=$5
        RETURNING created_at
    `
	err = r.DB.QueryRowContext(ctx, query, s.Name, steps, now, s.ID, s.UserID).Scan(&s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.NewSequenceNotFound(s.ID)
		}
		return fmt.Errorf("db error: %w", err)
	}
	s.UpdatedAt = &now
	return nil
}

func (r *SequenceRepository) GetByID(ctx context.Context, userID, id string) (*model.Sequence, error) {
	query := `SELECT ` + sequenceColumns + ` FROM sequences WHERE id=$1 AND user_id=$2`
	s, err := scanSequence(r.DB.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.NewSequenceNotFound(id)
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return s, nil
}

func (r *SequenceRepository) ListByUser(ctx context.Context, userID string) ([]*model.Sequence, error) {
	query := `SELECT ` + sequenceColumns + ` FROM sequences WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	sequences := []*model.Sequence{}
	for rows.Next() {
		s, err := scanSequence(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		sequences = append(sequences, s)
	}
	return sequences, rows.Err()
}

func encodeSteps(steps []model.SequenceStep) (string, error) {
	if steps == nil {
		steps = []model.SequenceStep{}
	}
	b, err := json.Marshal(steps)
	if err != nil {
		return "", fmt.Errorf("encode steps: %w", err)
	}
	return string(b), nil
}

func scanSequence(row rowScanner) (*model.Sequence, error) {
	var (
		s   model.Sequence
		raw []byte
	)
	if err := row.Scan(&s.ID, &s.UserID, &s.Name, &raw, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Steps = []model.SequenceStep{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s.Steps); err != nil {
			return nil, fmt.Errorf("decode steps: %w", err)
		}
	}
	return &s, nil
}

var _ SequenceRepositoryInterface = (*SequenceRepository)(nil)
