package paymentgateway

import (
	"context"
	"errors"
	"log/slog"

	"github.com/velvetlive/golang_services/internal/report_service/domain"
)

// MockPaymentGatewayAdapter simulates the payment gateway for tests and local
// runs. Details are keyed by payment reference; FailingRefs force a lookup
// failure for specific references.
type MockPaymentGatewayAdapter struct {
	logger                *slog.Logger
	SimulateLookupFailure bool
	Details               map[string]*domain.PaymentDetails
	FailingRefs           map[string]bool
}

func NewMockPaymentGatewayAdapter(logger *slog.Logger, lookupFail bool) *MockPaymentGatewayAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockPaymentGatewayAdapter{
		logger:                logger.With("adapter", "mock_payment_gateway"),
		SimulateLookupFailure: lookupFail,
		Details:               make(map[string]*domain.PaymentDetails),
		FailingRefs:           make(map[string]bool),
	}
}

var _ domain.PaymentGateway = (*MockPaymentGatewayAdapter)(nil)

func (m *MockPaymentGatewayAdapter) GetPaymentDetails(ctx context.Context, paymentRef string) (*domain.PaymentDetails, error) {
	m.logger.InfoContext(ctx, "MockPaymentGatewayAdapter: GetPaymentDetails called", "payment_ref", paymentRef)

	if m.SimulateLookupFailure || m.FailingRefs[paymentRef] {
		return nil, errors.New("mock gateway simulated payment lookup failure")
	}

	if details, ok := m.Details[paymentRef]; ok {
		detailsCopy := *details
		return &detailsCopy, nil
	}

	// Default canned detail so tests don't have to seed every reference.
	return &domain.PaymentDetails{
		Address: domain.ShippingAddress{
			Line1:      "1 Mock Street",
			City:       "Mocktown",
			State:      "MK",
			Country:    "US",
			PostalCode: "00001",
		},
		Phone: "+10000000000",
	}, nil
}
