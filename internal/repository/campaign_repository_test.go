package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/unclebandit/coldreach-backend/internal/errors"
	"github.com/unclebandit/coldreach-backend/internal/model"
)

var campaignCols = []string{"id", "user_id", "name", "audience", "status", "sequence_id", "created_at", "updated_at"}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return db, mock
}

func TestCampaignRepository_Create(t *testing.T) {
	db, mock := newMock(t)
	repo := &CampaignRepository{DB: db}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO campaigns")).
		WithArgs(sqlmock.AnyArg(), "user-1", "Founders", "Seed-stage CEOs", "ongoing", nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	c := &model.Campaign{UserID: "user-1", Name: "Founders", Audience: "Seed-stage CEOs", Status: "ongoing"}
	require.NoError(t, repo.Create(context.Background(), c))
	assert.NotEmpty(t, c.ID)
	assert.False(t, c.CreatedAt.IsZero())
}

func TestCampaignRepository_ListByUserNewestFirst(t *testing.T) {
	db, mock := newMock(t)
	repo := &CampaignRepository{DB: db}

	newer := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)
	mock.ExpectQuery(regexp.QuoteMeta("FROM campaigns WHERE user_id=$1 ORDER BY created_at DESC")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows(campaignCols).
			AddRow("c2", "user-1", "B", "", "halted", nil, newer, nil).
			AddRow("c1", "user-1", "A", "", "", "seq-1", older, newer))

	got, err := repo.ListByUser(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c2", got[0].ID)
	assert.Nil(t, got[0].SequenceID)
	require.NotNil(t, got[1].SequenceID)
	assert.Equal(t, "seq-1", *got[1].SequenceID)
	require.NotNil(t, got[1].UpdatedAt)
}

func TestCampaignRepository_UpdateStatusNotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := &CampaignRepository{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("UPDATE campaigns SET status=$1")).
		WithArgs("completed", sqlmock.AnyArg(), "missing", "user-1").
		WillReturnRows(sqlmock.NewRows(campaignCols))

	_, err := repo.UpdateStatus(context.Background(), "user-1", "missing", "completed")
	require.Error(t, err)
	assert.True(t, appErrors.IsNotFound(err))
}

func TestCampaignRepository_CountByUser(t *testing.T) {
	db, mock := newMock(t)
	repo := &CampaignRepository{DB: db}

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM campaigns")).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	n, err := repo.CountByUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}
