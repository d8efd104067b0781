package app

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/velvetlive/golang_services/internal/platform/messagebroker"
)

const (
	// NATSStreamEndedV1 carries stream-ended events published by the ingest edge.
	NATSStreamEndedV1 = "livestream.ended.v1"
	// StreamEndedQueueGroup load-balances event handling across service instances.
	StreamEndedQueueGroup = "livestream_finalizers"
)

// StreamEndedEvent is the payload of a stream-ended event.
type StreamEndedEvent struct {
	StreamID uuid.UUID `json:"stream_id"`
}

// EventConsumer consumes stream-ended events from NATS and runs the
// finalization workflow for each. Delivery is at-least-once; the workflow's
// own idempotence guard makes redelivered events harmless.
type EventConsumer struct {
	finalization *FinalizationService
	natsClient   *messagebroker.NATSClient
	logger       *slog.Logger
}

func NewEventConsumer(finalization *FinalizationService, natsClient *messagebroker.NATSClient, logger *slog.Logger) *EventConsumer {
	return &EventConsumer{
		finalization: finalization,
		natsClient:   natsClient,
		logger:       logger.With("component", "stream_ended_consumer"),
	}
}

// StartConsuming subscribes to the stream-ended subject and blocks until the
// context is cancelled.
func (c *EventConsumer) StartConsuming(ctx context.Context) error {
	msgHandler := func(msg *nats.Msg) {
		natsStreamEndedReceivedCounter.WithLabelValues(msg.Subject).Inc()
		c.logger.InfoContext(ctx, "Received NATS message", "subject", msg.Subject, "data_len", len(msg.Data))

		var event StreamEndedEvent
		if err := json.Unmarshal(msg.Data, &event); err != nil {
			c.logger.ErrorContext(ctx, "Failed to deserialize stream-ended event",
				"error", err, "subject", msg.Subject, "data", string(msg.Data))
			return
		}
		if event.StreamID == uuid.Nil {
			c.logger.ErrorContext(ctx, "Stream-ended event carries no stream id", "subject", msg.Subject)
			return
		}

		procCtx, cancel := context.WithTimeout(ctx, 2*time.Minute)
		defer cancel()

		if err := c.finalization.CompleteStream(procCtx, event.StreamID); err != nil {
			// Event delivery has no caller to surface errors to; the
			// precondition outcome is expected and logged at warn.
			if IsPreconditionFailure(err) {
				c.logger.WarnContext(procCtx, "Finalization precondition failed for event-delivered trigger",
					"stream_id", event.StreamID, "error", err)
				return
			}
			c.logger.ErrorContext(procCtx, "Finalization failed for event-delivered trigger",
				"stream_id", event.StreamID, "error", err)
		}
	}

	c.logger.InfoContext(ctx, "Starting NATS subscription", "subject", NATSStreamEndedV1, "queue_group", StreamEndedQueueGroup)
	return c.natsClient.SubscribeWithQueue(ctx, NATSStreamEndedV1, StreamEndedQueueGroup, msgHandler)
}
