package chat

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/velvetlive/golang_services/internal/livestream_service/domain"
)

// MockChannelService simulates the external chat/channel provider.
// The real provider SDK is an external collaborator; this adapter exists so
// the workflow can be exercised without it.
type MockChannelService struct {
	logger                *slog.Logger
	SimulateFreezeFailure bool
	FrozenChannels        []uuid.UUID
}

func NewMockChannelService(logger *slog.Logger, freezeFail bool) *MockChannelService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MockChannelService{
		logger:                logger.With("adapter", "mock_channel_service"),
		SimulateFreezeFailure: freezeFail,
	}
}

var _ domain.ChannelService = (*MockChannelService)(nil)

func (m *MockChannelService) FreezeChannel(ctx context.Context, streamID uuid.UUID) error {
	m.logger.InfoContext(ctx, "MockChannelService: FreezeChannel called", "stream_id", streamID)
	if m.SimulateFreezeFailure {
		return errors.New("mock channel service simulated freeze failure")
	}
	m.FrozenChannels = append(m.FrozenChannels, streamID)
	return nil
}
