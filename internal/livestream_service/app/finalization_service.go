package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/velvetlive/golang_services/internal/livestream_service/domain"
)

// FinalizationService runs the stream finalization workflow. Each external
// side effect is attempted in isolation: a failure in one best-effort step is
// logged and never prevents attempts at subsequent steps. Only the no-assets
// precondition and errors from the terminal-status persistence escape to the
// caller.
type FinalizationService struct {
	streams   domain.StreamRepository
	channels  domain.ChannelService
	video     domain.VideoController
	analytics domain.AnalyticsProvider
	scheduler domain.TaskScheduler
	logger    *slog.Logger
}

func NewFinalizationService(
	streams domain.StreamRepository,
	channels domain.ChannelService,
	video domain.VideoController,
	analytics domain.AnalyticsProvider,
	scheduler domain.TaskScheduler,
	logger *slog.Logger,
) *FinalizationService {
	return &FinalizationService{
		streams:   streams,
		channels:  channels,
		video:     video,
		analytics: analytics,
		scheduler: scheduler,
		logger:    logger.With("service_component", "FinalizationService"),
	}
}

// CompleteStream finalizes a live stream.
//
// Sequencing: the terminal-status persistence happens only after the
// asset-presence check passes, and the reporting task is scheduled only after
// the terminal status is durable, so a report is never scheduled for a stream
// whose finalization failed partway.
//
// Idempotence: a stream already in terminal status returns immediately with
// no further effects; retry-delivered triggers therefore cannot cause
// duplicate analytics pulls or duplicate report emails via this path.
func (s *FinalizationService) CompleteStream(ctx context.Context, streamID uuid.UUID) error {
	timer := prometheus.NewTimer(finalizationDurationHist)
	defer timer.ObserveDuration()

	stream, err := s.streams.GetByID(ctx, streamID)
	if err != nil {
		finalizationsCounter.WithLabelValues("error_load").Inc()
		return fmt.Errorf("failed to load stream %s: %w", streamID, err)
	}

	if stream.Status == domain.StreamStatusFinished {
		s.logger.InfoContext(ctx, "Stream already finished, finalization is a no-op", "stream_id", streamID)
		finalizationsCounter.WithLabelValues("noop_already_finished").Inc()
		return nil
	}

	// Best-effort: freeze the chat channel before anything else.
	if err := s.channels.FreezeChannel(ctx, streamID); err != nil {
		s.logger.WarnContext(ctx, "Error freezing channel for stream", "stream_id", streamID, "error", err)
		bestEffortFailuresCounter.WithLabelValues("channel_freeze").Inc()
	}

	if !stream.HasAssets() {
		s.logger.WarnContext(ctx, "Stream has no recorded assets, refusing to finalize", "stream_id", streamID)
		finalizationsCounter.WithLabelValues("no_assets").Inc()
		return domain.ErrNoAssets
	}

	// Best-effort: tear down the live stream on the video platform.
	if err := s.teardownPlatformStream(ctx, stream); err != nil {
		s.logger.WarnContext(ctx, "Error finalizing stream on video platform",
			"platform_stream_id", stream.PlatformStreamID, "stream_id", streamID, "error", err)
		bestEffortFailuresCounter.WithLabelValues("platform_teardown").Inc()
	}

	// State durability takes priority over upstream service health: persist
	// the terminal status regardless of the outcomes above.
	transitioned, err := s.streams.FinishStream(ctx, streamID)
	if err != nil {
		finalizationsCounter.WithLabelValues("error_persist").Inc()
		return fmt.Errorf("failed to persist terminal status for stream %s: %w", streamID, err)
	}
	if !transitioned {
		// A concurrent trigger won the compare-and-swap; treat like the
		// idempotent no-op and leave the rest to the winner.
		s.logger.InfoContext(ctx, "Stream was finished concurrently, skipping remaining steps", "stream_id", streamID)
		finalizationsCounter.WithLabelValues("noop_lost_race").Inc()
		return nil
	}

	// Best-effort: pull viewer analytics and persist them onto the entity.
	if metrics, err := s.analytics.OverallViewerMetrics(ctx, streamID); err != nil {
		s.logger.WarnContext(ctx, "Error getting views for livestream", "stream_id", streamID, "error", err)
		bestEffortFailuresCounter.WithLabelValues("analytics_fetch").Inc()
	} else if err := s.streams.UpdateViewerMetrics(ctx, streamID, *metrics); err != nil {
		s.logger.WarnContext(ctx, "Error persisting viewer metrics", "stream_id", streamID, "error", err)
		bestEffortFailuresCounter.WithLabelValues("analytics_persist").Inc()
	}

	// Best-effort: schedule the deferred reporting task. A failure here
	// silently drops the report, so it must at least be observable in logs,
	// but it must not re-raise past the workflow boundary.
	if err := s.scheduler.ScheduleReportTask(ctx, streamID); err != nil {
		s.logger.ErrorContext(ctx, "Failed to add the report task to the queue", "stream_id", streamID, "error", err)
		bestEffortFailuresCounter.WithLabelValues("task_schedule").Inc()
	}

	finalizationsCounter.WithLabelValues("finished").Inc()
	s.logger.InfoContext(ctx, "Stream finalized", "stream_id", streamID)
	return nil
}

func (s *FinalizationService) teardownPlatformStream(ctx context.Context, stream *domain.Stream) error {
	if err := s.video.DisableLiveStream(ctx, stream.PlatformStreamID); err != nil {
		return err
	}
	return s.video.SignalComplete(ctx, stream.PlatformStreamID)
}

// IsPreconditionFailure reports whether err is an expected, user-facing
// precondition failure rather than an internal fault.
func IsPreconditionFailure(err error) bool {
	return errors.Is(err, domain.ErrNoAssets)
}
