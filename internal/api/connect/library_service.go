package connect

import (
	"context"
	"fmt"
	"net/http"

	"connectrpc.com/connect"
	"github.com/cockroachdb/errors"

	"github.com/osa030/tunedeck/internal/app/library"
	"github.com/osa030/tunedeck/internal/infra/config"
)

// LibraryService implements the LibraryService RPC: operations that rewrite
// the playlist. Every call requires the admin token.
type LibraryService struct {
	library *library.Manager
	config  *config.Config
}

// NewLibraryService creates a new LibraryService.
func NewLibraryService(lib *library.Manager, cfg *config.Config) *LibraryService {
	return &LibraryService{
		library: lib,
		config:  cfg,
	}
}

// NewLibraryServiceHandler builds an HTTP handler serving every
// LibraryService procedure behind the admin token check.
func NewLibraryServiceHandler(svc *LibraryService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts,
		connect.WithCodec(Codec{}),
		connect.WithInterceptors(NewAdminAuthInterceptor(svc.config)),
	)

	removeTrack := connect.NewUnaryHandler(LibraryServiceRemoveTrackProcedure, svc.RemoveTrack, opts...)
	shuffle := connect.NewUnaryHandler(LibraryServiceShuffleProcedure, svc.Shuffle, opts...)
	sortByTitle := connect.NewUnaryHandler(LibraryServiceSortByTitleProcedure, svc.SortByTitle, opts...)
	sortByDate := connect.NewUnaryHandler(LibraryServiceSortByDateProcedure, svc.SortByDate, opts...)
	moveTrack := connect.NewUnaryHandler(LibraryServiceMoveTrackProcedure, svc.MoveTrack, opts...)
	importSpotify := connect.NewUnaryHandler(LibraryServiceImportSpotifyPlaylistProcedure, svc.ImportSpotifyPlaylist, opts...)

	return "/" + LibraryServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LibraryServiceRemoveTrackProcedure:
			removeTrack.ServeHTTP(w, r)
		case LibraryServiceShuffleProcedure:
			shuffle.ServeHTTP(w, r)
		case LibraryServiceSortByTitleProcedure:
			sortByTitle.ServeHTTP(w, r)
		case LibraryServiceSortByDateProcedure:
			sortByDate.ServeHTTP(w, r)
		case LibraryServiceMoveTrackProcedure:
			moveTrack.ServeHTTP(w, r)
		case LibraryServiceImportSpotifyPlaylistProcedure:
			importSpotify.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// RemoveTrack removes a track from the playlist.
func (s *LibraryService) RemoveTrack(
	ctx context.Context,
	req *connect.Request[TrackRequest],
) (*connect.Response[ResultResponse], error) {
	return resultResponse(s.config, s.library.Remove(ctx, req.Msg.TrackID))
}

// Shuffle randomly reorders the playlist.
func (s *LibraryService) Shuffle(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[ResultResponse], error) {
	return resultResponse(s.config, s.library.Shuffle(ctx))
}

// SortByTitle sorts the playlist by title.
func (s *LibraryService) SortByTitle(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[ResultResponse], error) {
	return resultResponse(s.config, s.library.SortByTitle(ctx))
}

// SortByDate sorts the playlist newest first.
func (s *LibraryService) SortByDate(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[ResultResponse], error) {
	return resultResponse(s.config, s.library.SortByDate(ctx))
}

// MoveTrack moves a track to a new position.
func (s *LibraryService) MoveTrack(
	ctx context.Context,
	req *connect.Request[MoveTrackRequest],
) (*connect.Response[ResultResponse], error) {
	return resultResponse(s.config, s.library.Move(ctx, req.Msg.TrackID, req.Msg.Position))
}

// ImportSpotifyPlaylist appends the tracks of a Spotify playlist.
func (s *LibraryService) ImportSpotifyPlaylist(
	ctx context.Context,
	req *connect.Request[ImportSpotifyPlaylistRequest],
) (*connect.Response[ImportSpotifyPlaylistResponse], error) {
	if req.Msg.PlaylistURL == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("playlist_url is required"))
	}

	res, err := s.library.ImportSpotify(ctx, req.Msg.PlaylistURL)
	if err != nil {
		return nil, toConnectError(err)
	}

	skipped := 0
	for _, n := range res.Rejected {
		skipped += n
	}
	return connect.NewResponse(&ImportSpotifyPlaylistResponse{
		Added:    res.Added,
		Rejected: res.Rejected,
		Message:  fmt.Sprintf("%d added, %d skipped", len(res.Added), skipped),
	}), nil
}
