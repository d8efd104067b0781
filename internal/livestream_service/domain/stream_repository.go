package domain

import (
	"context"

	"github.com/google/uuid"
)

// StreamRepository defines the interface for managing Stream data.
type StreamRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Stream, error)

	// FinishStream persists the terminal status using an atomic conditional
	// update (status is only changed when it is not already 'finished').
	// It returns true when this call performed the transition, false when the
	// stream was already finished. Losing that race is equivalent to the
	// idempotent no-op.
	FinishStream(ctx context.Context, id uuid.UUID) (bool, error)

	// UpdateViewerMetrics updates only the metrics fields, never the full
	// row, so concurrent writers of unrelated fields are not clobbered.
	UpdateViewerMetrics(ctx context.Context, id uuid.UUID, metrics ViewerMetrics) error
}
