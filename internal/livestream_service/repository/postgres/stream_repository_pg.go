package postgres

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/velvetlive/golang_services/internal/livestream_service/domain"
)

// PGXQuerier is the subset of pgxpool.Pool the repository uses; pgxmock's
// pool interface satisfies it in tests.
type PGXQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgStreamRepository struct {
	db     PGXQuerier
	logger *slog.Logger
}

func NewPgStreamRepository(db PGXQuerier, logger *slog.Logger) domain.StreamRepository {
	return &PgStreamRepository{db: db, logger: logger.With("component", "stream_repository_pg")}
}

func (r *PgStreamRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Stream, error) {
	query := `SELECT id, title, user_id, status, platform_stream_id, assets, total_views, unique_viewers, created_at, updated_at
	          FROM live_streams WHERE id = $1`
	r.logger.DebugContext(ctx, "Getting stream by ID", "stream_id", id)

	var s domain.Stream
	err := r.db.QueryRow(ctx, query, id).Scan(
		&s.ID,
		&s.Title,
		&s.UserID,
		&s.Status,
		&s.PlatformStreamID,
		&s.Assets,
		&s.TotalViews,
		&s.UniqueViewers,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.WarnContext(ctx, "Stream not found", "stream_id", id)
			return nil, domain.ErrNotFound
		}
		r.logger.ErrorContext(ctx, "Error getting stream by ID", "error", err, "stream_id", id)
		return nil, err
	}
	return &s, nil
}

// FinishStream performs the compare-and-swap terminal transition. A zero
// rows-affected result means another invocation already finished the stream.
func (r *PgStreamRepository) FinishStream(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `UPDATE live_streams SET status = $1, updated_at = $2 WHERE id = $3 AND status <> $1`
	tag, err := r.db.Exec(ctx, query, domain.StreamStatusFinished, time.Now().UTC(), id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error finishing stream", "error", err, "stream_id", id)
		return false, err
	}
	transitioned := tag.RowsAffected() > 0
	r.logger.InfoContext(ctx, "Stream terminal status persisted", "stream_id", id, "transitioned", transitioned)
	return transitioned, nil
}

func (r *PgStreamRepository) UpdateViewerMetrics(ctx context.Context, id uuid.UUID, metrics domain.ViewerMetrics) error {
	query := `UPDATE live_streams SET total_views = $1, unique_viewers = $2, updated_at = $3 WHERE id = $4`
	tag, err := r.db.Exec(ctx, query, metrics.TotalViews, metrics.UniqueViewers, time.Now().UTC(), id)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error updating stream viewer metrics", "error", err, "stream_id", id)
		return err
	}
	if tag.RowsAffected() == 0 {
		r.logger.WarnContext(ctx, "Stream not found for viewer metrics update", "stream_id", id)
		return domain.ErrNotFound
	}
	return nil
}
