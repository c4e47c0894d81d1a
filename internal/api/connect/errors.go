package connect

import (
	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	"github.com/osa030/tunedeck/internal/app/library"
)

// toConnectError maps library errors onto Connect status codes.
func toConnectError(err error) error {
	switch {
	case errors.Is(err, library.ErrTrackNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, library.ErrSpotifyDisabled):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, library.ErrInvalidFilename):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, library.ErrUploadTooLarge):
		return connect.NewError(connect.CodeResourceExhausted, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
