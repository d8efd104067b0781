package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velvetlive/golang_services/internal/livestream_service/domain"
)

func setupStreamRepoTest(t *testing.T) (pgxmock.PgxPoolIface, domain.StreamRepository) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mockPool, NewPgStreamRepository(mockPool, logger)
}

func TestPgStreamRepository_GetByID(t *testing.T) {
	mockPool, repo := setupStreamRepoTest(t)
	streamID := uuid.New()
	userID := uuid.New()
	now := time.Now().UTC()

	columns := []string{"id", "title", "user_id", "status", "platform_stream_id", "assets", "total_views", "unique_viewers", "created_at", "updated_at"}
	mockPool.ExpectQuery("SELECT id, title, user_id, status, platform_stream_id, assets, total_views, unique_viewers, created_at, updated_at").
		WithArgs(streamID).
		WillReturnRows(mockPool.NewRows(columns).
			AddRow(streamID, "Friday Drop", userID, domain.StreamStatusLive, "plt_abc", []string{"asset_1"}, int64(10), int64(4), now, now))

	stream, err := repo.GetByID(context.Background(), streamID)
	require.NoError(t, err)
	assert.Equal(t, streamID, stream.ID)
	assert.Equal(t, "Friday Drop", stream.Title)
	assert.Equal(t, domain.StreamStatusLive, stream.Status)
	assert.Equal(t, []string{"asset_1"}, stream.Assets)
	assert.Equal(t, int64(10), stream.TotalViews)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgStreamRepository_GetByID_NotFound(t *testing.T) {
	mockPool, repo := setupStreamRepoTest(t)
	streamID := uuid.New()

	mockPool.ExpectQuery("SELECT id, title, user_id, status").
		WithArgs(streamID).
		WillReturnError(pgx.ErrNoRows)

	stream, err := repo.GetByID(context.Background(), streamID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Nil(t, stream)
}

func TestPgStreamRepository_FinishStream_Transitions(t *testing.T) {
	mockPool, repo := setupStreamRepoTest(t)
	streamID := uuid.New()

	mockPool.ExpectExec("UPDATE live_streams SET status").
		WithArgs(domain.StreamStatusFinished, pgxmock.AnyArg(), streamID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	transitioned, err := repo.FinishStream(context.Background(), streamID)
	require.NoError(t, err)
	assert.True(t, transitioned)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgStreamRepository_FinishStream_AlreadyFinished(t *testing.T) {
	mockPool, repo := setupStreamRepoTest(t)
	streamID := uuid.New()

	// The compare-and-swap predicate matched no rows: someone else won.
	mockPool.ExpectExec("UPDATE live_streams SET status").
		WithArgs(domain.StreamStatusFinished, pgxmock.AnyArg(), streamID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	transitioned, err := repo.FinishStream(context.Background(), streamID)
	require.NoError(t, err)
	assert.False(t, transitioned)
}

func TestPgStreamRepository_FinishStream_DBError(t *testing.T) {
	mockPool, repo := setupStreamRepoTest(t)
	streamID := uuid.New()

	mockPool.ExpectExec("UPDATE live_streams SET status").
		WithArgs(domain.StreamStatusFinished, pgxmock.AnyArg(), streamID).
		WillReturnError(errors.New("connection refused"))

	transitioned, err := repo.FinishStream(context.Background(), streamID)
	require.Error(t, err)
	assert.False(t, transitioned)
}

func TestPgStreamRepository_UpdateViewerMetrics(t *testing.T) {
	mockPool, repo := setupStreamRepoTest(t)
	streamID := uuid.New()

	mockPool.ExpectExec("UPDATE live_streams SET total_views").
		WithArgs(int64(300), int64(120), pgxmock.AnyArg(), streamID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := repo.UpdateViewerMetrics(context.Background(), streamID, domain.ViewerMetrics{TotalViews: 300, UniqueViewers: 120})
	require.NoError(t, err)
	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgStreamRepository_UpdateViewerMetrics_NotFound(t *testing.T) {
	mockPool, repo := setupStreamRepoTest(t)
	streamID := uuid.New()

	mockPool.ExpectExec("UPDATE live_streams SET total_views").
		WithArgs(int64(1), int64(1), pgxmock.AnyArg(), streamID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := repo.UpdateViewerMetrics(context.Background(), streamID, domain.ViewerMetrics{TotalViews: 1, UniqueViewers: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
