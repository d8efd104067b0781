package app

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/velvetlive/golang_services/internal/livestream_service/adapters/analytics"
	"github.com/velvetlive/golang_services/internal/livestream_service/adapters/chat"
	"github.com/velvetlive/golang_services/internal/livestream_service/adapters/videoplatform"
	"github.com/velvetlive/golang_services/internal/livestream_service/domain"
)

// MockStreamRepository is a mock implementation of domain.StreamRepository.
type MockStreamRepository struct {
	mock.Mock
}

func (m *MockStreamRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Stream, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Stream), args.Error(1)
}

func (m *MockStreamRepository) FinishStream(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockStreamRepository) UpdateViewerMetrics(ctx context.Context, id uuid.UUID, metrics domain.ViewerMetrics) error {
	args := m.Called(ctx, id, metrics)
	return args.Error(0)
}

// MockTaskScheduler is a mock implementation of domain.TaskScheduler.
type MockTaskScheduler struct {
	mock.Mock
}

func (m *MockTaskScheduler) ScheduleReportTask(ctx context.Context, streamID uuid.UUID) error {
	args := m.Called(ctx, streamID)
	return args.Error(0)
}

type finalizationFixture struct {
	service   *FinalizationService
	repo      *MockStreamRepository
	channels  *chat.MockChannelService
	video     *videoplatform.MockVideoController
	analytics *analytics.MockAnalyticsProvider
	scheduler *MockTaskScheduler
}

func setupFinalizationTest(t *testing.T, freezeFail, teardownFail bool) *finalizationFixture {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := new(MockStreamRepository)
	scheduler := new(MockTaskScheduler)
	channels := chat.NewMockChannelService(logger, freezeFail)
	video := videoplatform.NewMockVideoController(logger, teardownFail, teardownFail)
	metrics := analytics.NewMockAnalyticsProvider(logger, false, domain.ViewerMetrics{TotalViews: 120, UniqueViewers: 45})

	service := NewFinalizationService(repo, channels, video, metrics, scheduler, logger)
	return &finalizationFixture{
		service:   service,
		repo:      repo,
		channels:  channels,
		video:     video,
		analytics: metrics,
		scheduler: scheduler,
	}
}

func liveStreamWithAssets(id uuid.UUID) *domain.Stream {
	return &domain.Stream{
		ID:               id,
		Title:            "Friday Drop",
		UserID:           uuid.New(),
		Status:           domain.StreamStatusLive,
		PlatformStreamID: "plt_abc123",
		Assets:           []string{"asset_1"},
	}
}

func TestFinalizationService_CompleteStream_Success(t *testing.T) {
	f := setupFinalizationTest(t, false, false)
	streamID := uuid.New()
	stream := liveStreamWithAssets(streamID)

	f.repo.On("GetByID", mock.Anything, streamID).Return(stream, nil).Once()
	f.repo.On("FinishStream", mock.Anything, streamID).Return(true, nil).Once()
	f.repo.On("UpdateViewerMetrics", mock.Anything, streamID, domain.ViewerMetrics{TotalViews: 120, UniqueViewers: 45}).Return(nil).Once()
	f.scheduler.On("ScheduleReportTask", mock.Anything, streamID).Return(nil).Once()

	err := f.service.CompleteStream(context.Background(), streamID)
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{streamID}, f.channels.FrozenChannels)
	assert.Equal(t, []string{"plt_abc123"}, f.video.DisabledStreams)
	assert.Equal(t, []string{"plt_abc123"}, f.video.CompletedStreams)
	f.repo.AssertExpectations(t)
	f.scheduler.AssertExpectations(t)
}

func TestFinalizationService_CompleteStream_AlreadyFinishedIsNoop(t *testing.T) {
	f := setupFinalizationTest(t, false, false)
	streamID := uuid.New()
	stream := liveStreamWithAssets(streamID)
	stream.Status = domain.StreamStatusFinished

	f.repo.On("GetByID", mock.Anything, streamID).Return(stream, nil).Once()

	err := f.service.CompleteStream(context.Background(), streamID)
	require.NoError(t, err)

	// No channel freeze, no teardown, no persistence, no scheduling.
	assert.Empty(t, f.channels.FrozenChannels)
	assert.Empty(t, f.video.DisabledStreams)
	f.repo.AssertNotCalled(t, "FinishStream", mock.Anything, mock.Anything)
	f.scheduler.AssertNotCalled(t, "ScheduleReportTask", mock.Anything, mock.Anything)
}

func TestFinalizationService_CompleteStream_NoAssets(t *testing.T) {
	f := setupFinalizationTest(t, false, false)
	streamID := uuid.New()
	stream := liveStreamWithAssets(streamID)
	stream.Assets = nil

	f.repo.On("GetByID", mock.Anything, streamID).Return(stream, nil).Once()

	err := f.service.CompleteStream(context.Background(), streamID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoAssets)
	assert.True(t, IsPreconditionFailure(err))

	// Never reaches teardown, state persistence or task scheduling.
	assert.Empty(t, f.video.DisabledStreams)
	f.repo.AssertNotCalled(t, "FinishStream", mock.Anything, mock.Anything)
	f.scheduler.AssertNotCalled(t, "ScheduleReportTask", mock.Anything, mock.Anything)
}

func TestFinalizationService_CompleteStream_BestEffortFailuresAreIsolated(t *testing.T) {
	// Channel freeze and platform teardown both blow up; terminal status must
	// still be persisted and the report task still scheduled.
	f := setupFinalizationTest(t, true, true)
	streamID := uuid.New()
	stream := liveStreamWithAssets(streamID)

	f.repo.On("GetByID", mock.Anything, streamID).Return(stream, nil).Once()
	f.repo.On("FinishStream", mock.Anything, streamID).Return(true, nil).Once()
	f.repo.On("UpdateViewerMetrics", mock.Anything, streamID, mock.Anything).Return(nil).Once()
	f.scheduler.On("ScheduleReportTask", mock.Anything, streamID).Return(nil).Once()

	err := f.service.CompleteStream(context.Background(), streamID)
	require.NoError(t, err)

	f.repo.AssertExpectations(t)
	f.scheduler.AssertExpectations(t)
}

func TestFinalizationService_CompleteStream_AnalyticsFailureIsIsolated(t *testing.T) {
	f := setupFinalizationTest(t, false, false)
	f.analytics.SimulateFetchFailure = true
	streamID := uuid.New()
	stream := liveStreamWithAssets(streamID)

	f.repo.On("GetByID", mock.Anything, streamID).Return(stream, nil).Once()
	f.repo.On("FinishStream", mock.Anything, streamID).Return(true, nil).Once()
	f.scheduler.On("ScheduleReportTask", mock.Anything, streamID).Return(nil).Once()

	err := f.service.CompleteStream(context.Background(), streamID)
	require.NoError(t, err)

	f.repo.AssertNotCalled(t, "UpdateViewerMetrics", mock.Anything, mock.Anything, mock.Anything)
	f.scheduler.AssertExpectations(t)
}

func TestFinalizationService_CompleteStream_SchedulingFailureDoesNotPropagate(t *testing.T) {
	f := setupFinalizationTest(t, false, false)
	streamID := uuid.New()
	stream := liveStreamWithAssets(streamID)

	f.repo.On("GetByID", mock.Anything, streamID).Return(stream, nil).Once()
	f.repo.On("FinishStream", mock.Anything, streamID).Return(true, nil).Once()
	f.repo.On("UpdateViewerMetrics", mock.Anything, streamID, mock.Anything).Return(nil).Once()
	f.scheduler.On("ScheduleReportTask", mock.Anything, streamID).Return(errors.New("queue unreachable")).Once()

	err := f.service.CompleteStream(context.Background(), streamID)
	require.NoError(t, err)
	f.scheduler.AssertExpectations(t)
}

func TestFinalizationService_CompleteStream_PersistFailureIsFatal(t *testing.T) {
	f := setupFinalizationTest(t, false, false)
	streamID := uuid.New()
	stream := liveStreamWithAssets(streamID)

	f.repo.On("GetByID", mock.Anything, streamID).Return(stream, nil).Once()
	f.repo.On("FinishStream", mock.Anything, streamID).Return(false, errors.New("db down")).Once()

	err := f.service.CompleteStream(context.Background(), streamID)
	require.Error(t, err)
	assert.False(t, IsPreconditionFailure(err))
	f.scheduler.AssertNotCalled(t, "ScheduleReportTask", mock.Anything, mock.Anything)
}

func TestFinalizationService_CompleteStream_LostRaceSkipsRemainingSteps(t *testing.T) {
	f := setupFinalizationTest(t, false, false)
	streamID := uuid.New()
	stream := liveStreamWithAssets(streamID)

	f.repo.On("GetByID", mock.Anything, streamID).Return(stream, nil).Once()
	f.repo.On("FinishStream", mock.Anything, streamID).Return(false, nil).Once()

	err := f.service.CompleteStream(context.Background(), streamID)
	require.NoError(t, err)

	f.repo.AssertNotCalled(t, "UpdateViewerMetrics", mock.Anything, mock.Anything, mock.Anything)
	f.scheduler.AssertNotCalled(t, "ScheduleReportTask", mock.Anything, mock.Anything)
}
