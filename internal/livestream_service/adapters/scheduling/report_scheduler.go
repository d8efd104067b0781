package scheduling

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/velvetlive/golang_services/internal/livestream_service/domain"
	"github.com/velvetlive/golang_services/internal/taskqueue"
)

// ReportTaskPayload is the deferred-task payload carrying the stream to report on.
type ReportTaskPayload struct {
	StreamID uuid.UUID `json:"stream_id"`
}

// ReportScheduler implements domain.TaskScheduler on top of the taskqueue
// dispatcher with the reporting queue/handler/delay fixed at construction.
type ReportScheduler struct {
	dispatcher *taskqueue.Dispatcher
	logger     *slog.Logger
	queueName  string
	handlerID  string
	delay      time.Duration
}

func NewReportScheduler(dispatcher *taskqueue.Dispatcher, logger *slog.Logger, queueName, handlerID string, delay time.Duration) *ReportScheduler {
	return &ReportScheduler{
		dispatcher: dispatcher,
		logger:     logger.With("component", "report_scheduler"),
		queueName:  queueName,
		handlerID:  handlerID,
		delay:      delay,
	}
}

var _ domain.TaskScheduler = (*ReportScheduler)(nil)

func (s *ReportScheduler) ScheduleReportTask(ctx context.Context, streamID uuid.UUID) error {
	payload, err := json.Marshal(ReportTaskPayload{StreamID: streamID})
	if err != nil {
		return fmt.Errorf("failed to marshal report task payload: %w", err)
	}

	task := taskqueue.Task{
		Queue:     s.queueName,
		HandlerID: s.handlerID,
		Payload:   payload,
		RunAfter:  s.delay,
	}
	if err := s.dispatcher.Schedule(ctx, task); err != nil {
		return fmt.Errorf("failed to schedule report task for stream %s: %w", streamID, err)
	}

	s.logger.InfoContext(ctx, "Report task scheduled", "stream_id", streamID, "queue", s.queueName, "delay", s.delay.String())
	return nil
}
