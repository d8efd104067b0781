package postgres

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

// PGXQuerier is the subset of pgxpool.Pool these repositories use; pgxmock's
// pool interface satisfies it in tests.
type PGXQuerier interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PgOrderRepository struct {
	db     PGXQuerier
	logger *slog.Logger
}

func NewPgOrderRepository(db PGXQuerier, logger *slog.Logger) domain.OrderRepository {
	return &PgOrderRepository{db: db, logger: logger.With("component", "order_repository_pg")}
}

func (r *PgOrderRepository) ListSuccessfulByStream(ctx context.Context, streamID uuid.UUID) ([]*domain.OrderRecord, error) {
	query := `SELECT id, stream_id, status, buyer_id, payment_id, product_name, product_sku, product_price_cents, created_at
	          FROM orders
	          WHERE status = $1 AND stream_id = $2
	          ORDER BY created_at ASC, id ASC`
	r.logger.DebugContext(ctx, "Listing successful orders for stream", "stream_id", streamID)

	rows, err := r.db.Query(ctx, query, domain.OrderStatusSuccess, streamID)
	if err != nil {
		r.logger.ErrorContext(ctx, "Error querying orders for stream", "error", err, "stream_id", streamID)
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.OrderRecord
	for rows.Next() {
		var o domain.OrderRecord
		var buyerID uuid.NullUUID
		err := rows.Scan(
			&o.ID,
			&o.StreamID,
			&o.Status,
			&buyerID,
			&o.PaymentID,
			&o.Product.Name,
			&o.Product.SKU,
			&o.Product.PriceCents,
			&o.CreatedAt,
		)
		if err != nil {
			r.logger.ErrorContext(ctx, "Error scanning order row", "error", err, "stream_id", streamID)
			return nil, err
		}
		if buyerID.Valid {
			o.BuyerID = buyerID.UUID
		}
		orders = append(orders, &o)
	}
	if err := rows.Err(); err != nil {
		r.logger.ErrorContext(ctx, "Error iterating order rows", "error", err, "stream_id", streamID)
		return nil, err
	}

	r.logger.InfoContext(ctx, "Fetched successful orders for stream", "stream_id", streamID, "count", len(orders))
	return orders, nil
}
