package domain

import (
	"database/sql/driver"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// StreamStatus defines the lifecycle state of a live stream.
// The transition live -> finished is one-way and idempotent.
type StreamStatus string

const (
	StreamStatusLive     StreamStatus = "live"
	StreamStatusFinished StreamStatus = "finished"
)

// Value implements the driver.Valuer interface for StreamStatus.
func (s StreamStatus) Value() (driver.Value, error) {
	return string(s), nil
}

// Scan implements the sql.Scanner interface for StreamStatus.
func (s *StreamStatus) Scan(value interface{}) error {
	strVal, ok := value.(string)
	if !ok {
		bytesVal, ok := value.([]byte)
		if !ok {
			return fmt.Errorf("failed to scan StreamStatus: value is not string or []byte, it is %T", value)
		}
		strVal = string(bytesVal)
	}
	*s = StreamStatus(strVal)
	switch *s {
	case StreamStatusLive, StreamStatusFinished:
		return nil
	default:
		return fmt.Errorf("unknown StreamStatus value: %s", strVal)
	}
}

// Stream represents a live broadcast entity tracked from start through
// finalization. PlatformStreamID is the identifier used to control the
// underlying stream on the external video platform. Assets are opaque
// references to recordings produced during the session; a stream without at
// least one asset cannot be finalized into a report-eligible state.
type Stream struct {
	ID               uuid.UUID    `json:"id"`
	Title            string       `json:"title"`
	UserID           uuid.UUID    `json:"user_id"` // Owning seller
	Status           StreamStatus `json:"status"`
	PlatformStreamID string       `json:"platform_stream_id"`
	Assets           []string     `json:"assets,omitempty"`
	TotalViews       int64        `json:"total_views"`
	UniqueViewers    int64        `json:"unique_viewers"`
	CreatedAt        time.Time    `json:"created_at"`
	UpdatedAt        time.Time    `json:"updated_at"`
}

// HasAssets reports whether at least one recorded asset exists.
func (s *Stream) HasAssets() bool {
	return len(s.Assets) > 0
}

// ViewerMetrics holds aggregate viewing figures pulled from the analytics
// platform after a stream ends.
type ViewerMetrics struct {
	TotalViews    int64 `json:"total_views"`
	UniqueViewers int64 `json:"unique_viewers"`
}
