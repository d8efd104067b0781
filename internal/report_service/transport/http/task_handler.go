package http

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/velvetlive/golang_services/internal/report_service/app"
)

// ReportHandlerID is the handler identifier the dispatcher targets for
// post-stream sales reports.
const ReportHandlerID = "postLiveStreamReport"

// TaskHandler receives queue-delivered task invocations. The queue POSTs the
// base64-encoded JSON envelope {"data":{"stream_id":"..."}}.
type TaskHandler struct {
	reportTasks *app.ReportTaskService
	logger      *slog.Logger
	validate    *validator.Validate
}

func NewTaskHandler(reportTasks *app.ReportTaskService, logger *slog.Logger, validate *validator.Validate) *TaskHandler {
	return &TaskHandler{
		reportTasks: reportTasks,
		logger:      logger,
		validate:    validate,
	}
}

// RegisterRoutes mounts the queue-in routes on the given router.
func (h *TaskHandler) RegisterRoutes(r chi.Router) {
	r.Post("/tasks/{handlerID}", h.HandleTask)
}

type taskEnvelopeDTO struct {
	Data taskPayloadDTO `json:"data"`
}

type taskPayloadDTO struct {
	StreamID string `json:"stream_id" validate:"required,uuid"`
}

// HandleTask handles POST /tasks/{handlerID}.
//
// It replies 200 for every decodable invocation, including ones whose
// processing failed: the queue retries on non-2xx responses, and the
// reporting pipeline's failures are not resolved by redelivery. Undecodable
// payloads get a 400 so a misconfigured queue shows up in its own metrics.
func (h *TaskHandler) HandleTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	handlerID := chi.URLParam(r, "handlerID")
	taskRequestsReceivedCounter.WithLabelValues(handlerID).Inc()

	if handlerID != ReportHandlerID {
		h.logger.WarnContext(ctx, "Unknown task handler requested", "handler_id", handlerID)
		http.Error(w, "Unknown task handler", http.StatusNotFound)
		return
	}

	payload, err := decodeTaskBody(r.Body)
	if err != nil {
		h.logger.ErrorContext(ctx, "Failed to decode task payload", "handler_id", handlerID, "error", err)
		http.Error(w, "Invalid task payload", http.StatusBadRequest)
		return
	}

	if err := h.validate.StructCtx(ctx, payload); err != nil {
		h.logger.ErrorContext(ctx, "Task payload validation failed", "handler_id", handlerID, "error", err)
		http.Error(w, fmt.Sprintf("Validation error: %s", err.Error()), http.StatusBadRequest)
		return
	}

	streamID, err := uuid.Parse(payload.StreamID)
	if err != nil {
		http.Error(w, "Invalid stream_id", http.StatusBadRequest)
		return
	}

	// Run swallows its own failures; delivery is at-least-once and the
	// handler is safe to re-run.
	h.reportTasks.Run(ctx, streamID)

	w.WriteHeader(http.StatusOK)
}

// decodeTaskBody reads the request body, strips the queue's base64 transport
// encoding, and unmarshals the task envelope. Plain JSON bodies are accepted
// too so the handler can be invoked directly in development.
func decodeTaskBody(body io.Reader) (*taskPayloadDTO, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read task body: %w", err)
	}

	jsonBytes := raw
	if decoded, err := base64.StdEncoding.DecodeString(string(raw)); err == nil {
		jsonBytes = decoded
	}

	var envelope taskEnvelopeDTO
	if err := json.Unmarshal(jsonBytes, &envelope); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task envelope: %w", err)
	}
	return &envelope.Data, nil
}
