package connect

import (
	"context"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunedeck/internal/app/library"
	"github.com/osa030/tunedeck/internal/app/notification"
	"github.com/osa030/tunedeck/internal/infra/config"
	"github.com/osa030/tunedeck/internal/metrics"
)

// PlaylistService implements the PlaylistService RPC. It is open to every
// client: browsing, cursor movement and play history.
type PlaylistService struct {
	library *library.Manager
	config  *config.Config
}

// NewPlaylistService creates a new PlaylistService.
func NewPlaylistService(lib *library.Manager, cfg *config.Config) *PlaylistService {
	return &PlaylistService{
		library: lib,
		config:  cfg,
	}
}

// NewPlaylistServiceHandler builds an HTTP handler serving every
// PlaylistService procedure. It returns the path to mount the handler on.
func NewPlaylistServiceHandler(svc *PlaylistService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append(opts, connect.WithCodec(Codec{}))

	listTracks := connect.NewUnaryHandler(PlaylistServiceListTracksProcedure, svc.ListTracks, opts...)
	getCurrent := connect.NewUnaryHandler(PlaylistServiceGetCurrentProcedure, svc.GetCurrent, opts...)
	next := connect.NewUnaryHandler(PlaylistServiceNextProcedure, svc.Next, opts...)
	previous := connect.NewUnaryHandler(PlaylistServicePreviousProcedure, svc.Previous, opts...)
	selectTrack := connect.NewUnaryHandler(PlaylistServiceSelectProcedure, svc.Select, opts...)
	listFavorites := connect.NewUnaryHandler(PlaylistServiceListFavoritesProcedure, svc.ListFavorites, opts...)
	toggleFavorite := connect.NewUnaryHandler(PlaylistServiceToggleFavoriteProcedure, svc.ToggleFavorite, opts...)
	listRecent := connect.NewUnaryHandler(PlaylistServiceListRecentProcedure, svc.ListRecent, opts...)
	markPlayed := connect.NewUnaryHandler(PlaylistServiceMarkPlayedProcedure, svc.MarkPlayed, opts...)
	getStatus := connect.NewUnaryHandler(PlaylistServiceGetStatusProcedure, svc.GetStatus, opts...)
	subscribeChanges := connect.NewServerStreamHandler(PlaylistServiceSubscribeChangesProcedure, svc.SubscribeChanges, opts...)

	return "/" + PlaylistServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PlaylistServiceListTracksProcedure:
			listTracks.ServeHTTP(w, r)
		case PlaylistServiceGetCurrentProcedure:
			getCurrent.ServeHTTP(w, r)
		case PlaylistServiceNextProcedure:
			next.ServeHTTP(w, r)
		case PlaylistServicePreviousProcedure:
			previous.ServeHTTP(w, r)
		case PlaylistServiceSelectProcedure:
			selectTrack.ServeHTTP(w, r)
		case PlaylistServiceListFavoritesProcedure:
			listFavorites.ServeHTTP(w, r)
		case PlaylistServiceToggleFavoriteProcedure:
			toggleFavorite.ServeHTTP(w, r)
		case PlaylistServiceListRecentProcedure:
			listRecent.ServeHTTP(w, r)
		case PlaylistServiceMarkPlayedProcedure:
			markPlayed.ServeHTTP(w, r)
		case PlaylistServiceGetStatusProcedure:
			getStatus.ServeHTTP(w, r)
		case PlaylistServiceSubscribeChangesProcedure:
			subscribeChanges.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// ListTracks returns the whole playlist in order.
func (s *PlaylistService) ListTracks(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[TracksResponse], error) {
	status := s.library.GetStatus()
	return connect.NewResponse(&TracksResponse{
		Tracks:       s.library.Tracks(),
		CurrentIndex: status.CurrentIndex,
	}), nil
}

// GetCurrent returns the track under the cursor.
func (s *PlaylistService) GetCurrent(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[CurrentResponse], error) {
	return connect.NewResponse(&CurrentResponse{Track: s.library.Current()}), nil
}

// Next advances the cursor.
func (s *PlaylistService) Next(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[CurrentResponse], error) {
	return connect.NewResponse(&CurrentResponse{Track: s.library.Next()}), nil
}

// Previous moves the cursor back.
func (s *PlaylistService) Previous(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[CurrentResponse], error) {
	return connect.NewResponse(&CurrentResponse{Track: s.library.Prev()}), nil
}

// Select moves the cursor to a given track.
func (s *PlaylistService) Select(
	ctx context.Context,
	req *connect.Request[TrackRequest],
) (*connect.Response[CurrentResponse], error) {
	current, err := s.library.Select(req.Msg.TrackID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CurrentResponse{Track: current}), nil
}

// ListFavorites returns the favorite tracks.
func (s *PlaylistService) ListFavorites(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[TracksResponse], error) {
	return connect.NewResponse(&TracksResponse{
		Tracks:       s.library.Favorites(),
		CurrentIndex: -1,
	}), nil
}

// ToggleFavorite flips a track's favorite flag.
func (s *PlaylistService) ToggleFavorite(
	ctx context.Context,
	req *connect.Request[TrackRequest],
) (*connect.Response[ResultResponse], error) {
	return s.result(s.library.ToggleFavorite(ctx, req.Msg.TrackID))
}

// ListRecent returns the most recently played tracks.
func (s *PlaylistService) ListRecent(
	ctx context.Context,
	req *connect.Request[ListRecentRequest],
) (*connect.Response[TracksResponse], error) {
	return connect.NewResponse(&TracksResponse{
		Tracks:       s.library.Recent(req.Msg.Limit),
		CurrentIndex: -1,
	}), nil
}

// MarkPlayed records a playback.
func (s *PlaylistService) MarkPlayed(
	ctx context.Context,
	req *connect.Request[TrackRequest],
) (*connect.Response[ResultResponse], error) {
	return s.result(s.library.MarkPlayed(ctx, req.Msg.TrackID))
}

// GetStatus returns the playlist summary.
func (s *PlaylistService) GetStatus(
	ctx context.Context,
	req *connect.Request[Empty],
) (*connect.Response[StatusResponse], error) {
	status := s.library.GetStatus()
	return connect.NewResponse(&StatusResponse{
		Size:           status.Size,
		Favorites:      status.Favorites,
		CurrentIndex:   status.CurrentIndex,
		Current:        status.Current,
		SpotifyEnabled: status.SpotifyEnabled,
		Subscribers:    status.Subscribers,
	}), nil
}

// SubscribeChanges streams playlist change events. The first message is an
// INITIAL_STATE event describing the playlist at subscription time.
func (s *PlaylistService) SubscribeChanges(
	ctx context.Context,
	req *connect.Request[Empty],
	stream *connect.ServerStream[Event],
) error {
	notifManager := s.library.Notifications()
	status := s.library.GetStatus()

	initial := &Event{
		Type:       notification.EventInitialState,
		SequenceNo: notifManager.NextSequenceNo(),
		Size:       status.Size,
	}
	if status.Current != nil {
		initial.TrackID = status.Current.ID
	}
	if err := stream.Send(initial); err != nil {
		return err
	}

	adapter := &notificationStreamAdapter{stream: stream}
	subscriptionID := notifManager.Subscribe(adapter)
	metrics.NotificationSubscribers.Inc()
	zlog.Debug().Msgf("change subscriber joined: id=%s", subscriptionID)

	select {
	case <-ctx.Done():
	case <-notifManager.Done():
	}

	notifManager.Unsubscribe(subscriptionID)
	metrics.NotificationSubscribers.Dec()
	zlog.Debug().Msgf("change subscriber left: id=%s", subscriptionID)

	return nil
}

// result converts a mutation error into a ResultResponse. Not-found and
// internal failures become RPC errors.
func (s *PlaylistService) result(err error) (*connect.Response[ResultResponse], error) {
	return resultResponse(s.config, err)
}

func resultResponse(cfg *config.Config, err error) (*connect.Response[ResultResponse], error) {
	if err == nil {
		return connect.NewResponse(&ResultResponse{
			Success: true,
			Message: cfg.GetMessage("success"),
		}), nil
	}
	if code := library.RejectionCode(err); code != "" {
		return connect.NewResponse(&ResultResponse{
			Success: false,
			Code:    code,
			Message: cfg.GetMessage(code),
		}), nil
	}
	return nil, toConnectError(err)
}

// notificationStreamAdapter adapts connect.ServerStream to notification.Stream.
// Sends are serialised since broadcasts may overlap.
type notificationStreamAdapter struct {
	mu     sync.Mutex
	stream *connect.ServerStream[Event]
}

func (a *notificationStreamAdapter) Send(event *notification.Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stream.Send(event)
}
