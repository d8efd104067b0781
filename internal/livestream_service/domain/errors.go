package domain

import "errors"

var (
	// ErrNotFound indicates that a requested stream was not found.
	ErrNotFound = errors.New("stream not found")
	// ErrNoAssets indicates a finalize request for a stream that produced no
	// recorded assets. This is an expected precondition failure, not a system
	// fault; callers map it to a precondition-failed response.
	ErrNoAssets = errors.New("stream has no recorded assets")
)
