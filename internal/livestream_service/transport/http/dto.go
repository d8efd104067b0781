package http

// CompleteStreamRequestDTO is the trigger-in payload for stream finalization.
type CompleteStreamRequestDTO struct {
	StreamID string `json:"stream_id" validate:"required,uuid"`
}

// CompleteStreamResponseDTO acknowledges a finalization request.
type CompleteStreamResponseDTO struct {
	StreamID string `json:"stream_id"`
	Status   string `json:"status"`
}

// ErrorResponseDTO is the error envelope returned by the trigger-in endpoint.
type ErrorResponseDTO struct {
	Error   string `json:"error"` // "precondition-failed" or "internal"
	Message string `json:"message,omitempty"`
}
