package postgres

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

var orderColumns = []string{"id", "stream_id", "status", "buyer_id", "payment_id", "product_name", "product_sku", "product_price_cents", "created_at"}

func setupOrderRepoTest(t *testing.T) (pgxmock.PgxPoolIface, domain.OrderRepository) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return mockPool, NewPgOrderRepository(mockPool, logger)
}

func TestPgOrderRepository_ListSuccessfulByStream(t *testing.T) {
	mockPool, repo := setupOrderRepoTest(t)
	streamID := uuid.New()
	buyerID := uuid.New()
	orderA := uuid.New()
	orderB := uuid.New()
	now := time.Now().UTC()

	rows := mockPool.NewRows(orderColumns).
		AddRow(orderA, streamID, domain.OrderStatusSuccess, uuid.NullUUID{UUID: buyerID, Valid: true}, "pi_1", "Velvet Hoodie", "VH-01", int64(1000), now.Add(-2*time.Minute)).
		AddRow(orderB, streamID, domain.OrderStatusSuccess, uuid.NullUUID{}, "pi_2", "Velvet Cap", "VC-02", int64(2500), now.Add(-time.Minute))

	mockPool.ExpectQuery("SELECT id, stream_id, status, buyer_id, payment_id, product_name, product_sku, product_price_cents, created_at").
		WithArgs(domain.OrderStatusSuccess, streamID).
		WillReturnRows(rows)

	orders, err := repo.ListSuccessfulByStream(context.Background(), streamID)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.Equal(t, orderA, orders[0].ID)
	assert.Equal(t, buyerID, orders[0].BuyerID)
	assert.Equal(t, "Velvet Hoodie", orders[0].Product.Name)
	assert.Equal(t, int64(1000), orders[0].Product.PriceCents)

	// Guest order carries the zero buyer identity.
	assert.Equal(t, uuid.Nil, orders[1].BuyerID)
	assert.Equal(t, "pi_2", orders[1].PaymentID)

	assert.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPgOrderRepository_ListSuccessfulByStream_Empty(t *testing.T) {
	mockPool, repo := setupOrderRepoTest(t)
	streamID := uuid.New()

	mockPool.ExpectQuery("SELECT id, stream_id, status, buyer_id").
		WithArgs(domain.OrderStatusSuccess, streamID).
		WillReturnRows(mockPool.NewRows(orderColumns))

	orders, err := repo.ListSuccessfulByStream(context.Background(), streamID)
	require.NoError(t, err)
	assert.Empty(t, orders)
}

func TestPgOrderRepository_ListSuccessfulByStream_DBError(t *testing.T) {
	mockPool, repo := setupOrderRepoTest(t)
	streamID := uuid.New()

	mockPool.ExpectQuery("SELECT id, stream_id, status, buyer_id").
		WithArgs(domain.OrderStatusSuccess, streamID).
		WillReturnError(errors.New("connection refused"))

	orders, err := repo.ListSuccessfulByStream(context.Background(), streamID)
	require.Error(t, err)
	assert.Nil(t, orders)
}
