package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/velvetlive/golang_services/internal/livestream_service/app"
	"github.com/velvetlive/golang_services/internal/livestream_service/domain"
)

// StreamHandler exposes the stream finalization trigger over HTTP.
type StreamHandler struct {
	finalization *app.FinalizationService
	logger       *slog.Logger
	validate     *validator.Validate
}

func NewStreamHandler(finalization *app.FinalizationService, logger *slog.Logger, validate *validator.Validate) *StreamHandler {
	return &StreamHandler{
		finalization: finalization,
		logger:       logger,
		validate:     validate,
	}
}

// RegisterRoutes mounts the handler's routes on the given router.
func (h *StreamHandler) RegisterRoutes(r chi.Router) {
	r.Post("/streams/complete", h.CompleteStream)
}

// CompleteStream handles POST /streams/complete.
// The caller only ever sees success or one of two error classes:
// "precondition-failed" for the no-assets outcome, "internal" otherwise.
func (h *StreamHandler) CompleteStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO CompleteStreamRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		h.logger.WarnContext(ctx, "Failed to decode request body for CompleteStream", "error", err)
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validate.StructCtx(ctx, reqDTO); err != nil {
		h.logger.WarnContext(ctx, "Validation failed for CompleteStream", "error", err)
		http.Error(w, fmt.Sprintf("Validation error: %s", err.Error()), http.StatusBadRequest)
		return
	}

	streamID, err := uuid.Parse(reqDTO.StreamID)
	if err != nil {
		http.Error(w, "Invalid stream_id", http.StatusBadRequest)
		return
	}

	if err := h.finalization.CompleteStream(ctx, streamID); err != nil {
		h.writeWorkflowError(w, streamID, err)
		return
	}

	writeJSON(w, http.StatusOK, CompleteStreamResponseDTO{
		StreamID: streamID.String(),
		Status:   string(domain.StreamStatusFinished),
	})
}

func (h *StreamHandler) writeWorkflowError(w http.ResponseWriter, streamID uuid.UUID, err error) {
	switch {
	case app.IsPreconditionFailure(err):
		h.logger.Warn("Stream finalization precondition failed", "stream_id", streamID, "error", err)
		writeJSON(w, http.StatusPreconditionFailed, ErrorResponseDTO{
			Error:   "precondition-failed",
			Message: err.Error(),
		})
	case errors.Is(err, domain.ErrNotFound):
		h.logger.Warn("Stream not found for finalization", "stream_id", streamID)
		writeJSON(w, http.StatusNotFound, ErrorResponseDTO{
			Error:   "not-found",
			Message: "stream not found",
		})
	default:
		h.logger.Error("Stream finalization failed", "stream_id", streamID, "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponseDTO{
			Error: "internal",
		})
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
