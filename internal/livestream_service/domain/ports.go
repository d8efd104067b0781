package domain

import (
	"context"

	"github.com/google/uuid"
)

// ChannelService controls the chat/communication channel attached to a live
// stream (external collaborator).
type ChannelService interface {
	// FreezeChannel prevents further messages in the stream's channel.
	FreezeChannel(ctx context.Context, streamID uuid.UUID) error
}

// VideoController drives the live-stream lifecycle on the external video
// platform (external collaborator).
type VideoController interface {
	DisableLiveStream(ctx context.Context, platformStreamID string) error
	SignalComplete(ctx context.Context, platformStreamID string) error
}

// AnalyticsProvider exposes aggregate viewer metrics for a finished stream
// (external collaborator).
type AnalyticsProvider interface {
	OverallViewerMetrics(ctx context.Context, videoID uuid.UUID) (*ViewerMetrics, error)
}

// TaskScheduler enqueues a named unit of work for deferred execution via the
// durable task queue. Implemented by the taskqueue dispatcher.
type TaskScheduler interface {
	ScheduleReportTask(ctx context.Context, streamID uuid.UUID) error
}
