package videoplatform

import (
	"context"
	"errors"
	"log/slog"

	"github.com/velvetlive/golang_services/internal/livestream_service/domain"
)

// MockVideoController simulates the external video platform's live-stream
// lifecycle API (disable + signal completion).
type MockVideoController struct {
	logger                  *slog.Logger
	SimulateDisableFailure  bool
	SimulateCompleteFailure bool
	DisabledStreams         []string
	CompletedStreams        []string
}

func NewMockVideoController(logger *slog.Logger, disableFail, completeFail bool) *MockVideoController {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockVideoController{
		logger:                  logger.With("adapter", "mock_video_controller"),
		SimulateDisableFailure:  disableFail,
		SimulateCompleteFailure: completeFail,
	}
}

var _ domain.VideoController = (*MockVideoController)(nil)

func (m *MockVideoController) DisableLiveStream(ctx context.Context, platformStreamID string) error {
	m.logger.InfoContext(ctx, "MockVideoController: DisableLiveStream called", "platform_stream_id", platformStreamID)
	if m.SimulateDisableFailure {
		return errors.New("mock video platform simulated disable failure")
	}
	m.DisabledStreams = append(m.DisabledStreams, platformStreamID)
	return nil
}

func (m *MockVideoController) SignalComplete(ctx context.Context, platformStreamID string) error {
	m.logger.InfoContext(ctx, "MockVideoController: SignalComplete called", "platform_stream_id", platformStreamID)
	if m.SimulateCompleteFailure {
		return errors.New("mock video platform simulated signal-complete failure")
	}
	m.CompletedStreams = append(m.CompletedStreams, platformStreamID)
	return nil
}
