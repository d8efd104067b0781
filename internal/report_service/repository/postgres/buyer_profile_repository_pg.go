package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

type PgBuyerProfileRepository struct {
	db     PGXQuerier
	logger *slog.Logger
}

func NewPgBuyerProfileRepository(db PGXQuerier, logger *slog.Logger) domain.BuyerProfileRepository {
	return &PgBuyerProfileRepository{db: db, logger: logger.With("component", "buyer_profile_repository_pg")}
}

// GetByID returns (nil, nil) when no profile exists; the aggregator treats a
// missing profile as "skip this order", not as a failure.
func (r *PgBuyerProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.BuyerProfile, error) {
	query := `SELECT id, username, display_name FROM users WHERE id = $1`

	var p domain.BuyerProfile
	err := r.db.QueryRow(ctx, query, id).Scan(&p.ID, &p.Username, &p.DisplayName)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			r.logger.InfoContext(ctx, "Buyer profile not found", "buyer_id", id)
			return nil, nil
		}
		r.logger.ErrorContext(ctx, "Error getting buyer profile by ID", "error", err, "buyer_id", id)
		return nil, err
	}
	return &p, nil
}
