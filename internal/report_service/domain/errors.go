package domain

import "errors"

// Renderer stage failures are distinct kinds so operators can tell which
// stage broke; collectively they degrade the report to "no link" rather than
// aborting the notification email.
var (
	ErrStoreFile  = errors.New("unable to store report file")
	ErrUploadFile = errors.New("unable to upload report file")
	ErrDeleteFile = errors.New("unable to delete local report file")

	// ErrNotFound indicates that a referenced entity was not found.
	ErrNotFound = errors.New("resource not found")
)
