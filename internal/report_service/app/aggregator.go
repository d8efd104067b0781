package app

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

// Aggregator scans the order ledger for a stream and resolves each order into
// a report row plus a running total.
type Aggregator struct {
	orders   domain.OrderRepository
	profiles domain.BuyerProfileRepository
	gateway  domain.PaymentGateway
	logger   *slog.Logger
}

func NewAggregator(
	orders domain.OrderRepository,
	profiles domain.BuyerProfileRepository,
	gateway domain.PaymentGateway,
	logger *slog.Logger,
) *Aggregator {
	return &Aggregator{
		orders:   orders,
		profiles: profiles,
		gateway:  gateway,
		logger:   logger.With("service_component", "Aggregator"),
	}
}

// AggregationResult bundles the rows (in ledger scan order) with the running
// total in major currency units.
type AggregationResult struct {
	Rows        []domain.ReportRow
	TotalAmount float64
	OrdersSeen  int // successful orders scanned, including skipped ones
}

// Aggregate selects successful orders for the stream and resolves each one.
//
// Skip policy: an order is skipped silently when it has no buyer identity or
// no buyer profile exists. A failed payment-gateway lookup is skipped and
// logged per-row rather than aborting the whole report, consistent with the
// profile-missing behavior.
func (a *Aggregator) Aggregate(ctx context.Context, streamID uuid.UUID) (*AggregationResult, error) {
	orders, err := a.orders.ListSuccessfulByStream(ctx, streamID)
	if err != nil {
		return nil, err
	}

	result := &AggregationResult{OrdersSeen: len(orders)}

	for _, order := range orders {
		if order.BuyerID == uuid.Nil {
			continue
		}

		profile, err := a.profiles.GetByID(ctx, order.BuyerID)
		if err != nil {
			return nil, err
		}
		if profile == nil {
			continue
		}

		details, err := a.gateway.GetPaymentDetails(ctx, order.PaymentID)
		if err != nil {
			a.logger.WarnContext(ctx, "Skipping order, payment detail lookup failed",
				"order_id", order.ID, "payment_ref", order.PaymentID, "error", err)
			aggregatorSkippedOrdersCounter.WithLabelValues("payment_lookup_failed").Inc()
			continue
		}

		result.Rows = append(result.Rows, domain.ReportRow{
			OrderID:      order.ID,
			ProductName:  order.Product.Name,
			ProductSKU:   order.Product.SKU,
			BuyerAddress: details.FormatAddress(),
			BuyerPhone:   details.FormatPhone(),
			Username:     profile.Username,
			DisplayName:  profile.DisplayName,
		})
		result.TotalAmount += float64(order.Product.PriceCents) / 100
	}

	a.logger.InfoContext(ctx, "Aggregated orders for stream",
		"stream_id", streamID, "orders_seen", result.OrdersSeen, "rows", len(result.Rows), "total_amount", result.TotalAmount)
	return result, nil
}
