package analytics

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/velvetlive/golang_services/internal/livestream_service/domain"
)

// MockAnalyticsProvider simulates the external viewing-analytics platform.
type MockAnalyticsProvider struct {
	logger               *slog.Logger
	SimulateFetchFailure bool
	Metrics              domain.ViewerMetrics
}

func NewMockAnalyticsProvider(logger *slog.Logger, fetchFail bool, metrics domain.ViewerMetrics) *MockAnalyticsProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockAnalyticsProvider{
		logger:               logger.With("adapter", "mock_analytics_provider"),
		SimulateFetchFailure: fetchFail,
		Metrics:              metrics,
	}
}

var _ domain.AnalyticsProvider = (*MockAnalyticsProvider)(nil)

func (m *MockAnalyticsProvider) OverallViewerMetrics(ctx context.Context, videoID uuid.UUID) (*domain.ViewerMetrics, error) {
	m.logger.InfoContext(ctx, "MockAnalyticsProvider: OverallViewerMetrics called", "video_id", videoID)
	if m.SimulateFetchFailure {
		return nil, errors.New("mock analytics simulated metrics fetch failure")
	}
	metrics := m.Metrics
	return &metrics, nil
}
