package library

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var (
	ErrTrackNotFound   = errors.New("track not found")
	ErrRejected        = errors.New("track rejected")
	ErrUploadTooLarge  = errors.New("upload too large")
	ErrInvalidFilename = errors.New("invalid file name")
	ErrSpotifyDisabled = errors.New("spotify import is not configured")
)

// RejectedError carries the code of the filter that refused a track.
type RejectedError struct {
	Code string
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("track rejected: %s", e.Code)
}

func (e *RejectedError) Unwrap() error {
	return ErrRejected
}

// RejectionCode returns the filter code carried by err, or "" if err is not
// a rejection.
func RejectionCode(err error) string {
	var rejected *RejectedError
	if errors.As(err, &rejected) {
		return rejected.Code
	}
	return ""
}
