package domain

import (
	"context"

	"github.com/google/uuid"

	streamDomain "github.com/velvetlive/golang_services/internal/livestream_service/domain"
)

// OrderRepository reads the order ledger.
type OrderRepository interface {
	// ListSuccessfulByStream returns successful orders for the stream in
	// ledger scan order. Row order is preserved into the rendered report.
	ListSuccessfulByStream(ctx context.Context, streamID uuid.UUID) ([]*OrderRecord, error)
}

// BuyerProfileRepository looks up buyer profiles.
type BuyerProfileRepository interface {
	// GetByID returns (nil, nil) when no profile exists for the id; absence
	// excludes the buyer's orders from the report rather than failing it.
	GetByID(ctx context.Context, id uuid.UUID) (*BuyerProfile, error)
}

// StreamReader is the report service's read-side view of the stream entity.
type StreamReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*streamDomain.Stream, error)
}

// PaymentGateway fetches shipping/billing detail by payment reference
// (external collaborator).
type PaymentGateway interface {
	GetPaymentDetails(ctx context.Context, paymentRef string) (*PaymentDetails, error)
}

// IdentityDirectory resolves a user's contact email via the identity/auth
// system (external collaborator).
type IdentityDirectory interface {
	ResolveEmail(ctx context.Context, userID uuid.UUID) (string, error)
}

// EmailSender delivers the templated orders-report email. Delivery is
// at-least-once end to end; a duplicate email is the accepted tradeoff.
type EmailSender interface {
	SendOrdersReport(ctx context.Context, to string, summary ReportSummary, reportLink string) error
}

// ArtifactStore persists the rendered report and returns a public,
// token-gated download link (external collaborator).
type ArtifactStore interface {
	Upload(ctx context.Context, localPath, objectName, contentType, token string) (string, error)
}
