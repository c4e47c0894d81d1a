package connect

import (
	"context"

	"connectrpc.com/connect"
)

// PlaylistClient is a client for the PlaylistService.
type PlaylistClient struct {
	listTracks       *connect.Client[Empty, TracksResponse]
	getCurrent       *connect.Client[Empty, CurrentResponse]
	next             *connect.Client[Empty, CurrentResponse]
	previous         *connect.Client[Empty, CurrentResponse]
	selectTrack      *connect.Client[TrackRequest, CurrentResponse]
	listFavorites    *connect.Client[Empty, TracksResponse]
	toggleFavorite   *connect.Client[TrackRequest, ResultResponse]
	listRecent       *connect.Client[ListRecentRequest, TracksResponse]
	markPlayed       *connect.Client[TrackRequest, ResultResponse]
	getStatus        *connect.Client[Empty, StatusResponse]
	subscribeChanges *connect.Client[Empty, Event]
}

// NewPlaylistClient constructs a client for the PlaylistService at baseURL
// (e.g. "http://localhost:8080").
func NewPlaylistClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *PlaylistClient {
	opts = append(opts, connect.WithCodec(Codec{}))
	return &PlaylistClient{
		listTracks:       connect.NewClient[Empty, TracksResponse](httpClient, baseURL+PlaylistServiceListTracksProcedure, opts...),
		getCurrent:       connect.NewClient[Empty, CurrentResponse](httpClient, baseURL+PlaylistServiceGetCurrentProcedure, opts...),
		next:             connect.NewClient[Empty, CurrentResponse](httpClient, baseURL+PlaylistServiceNextProcedure, opts...),
		previous:         connect.NewClient[Empty, CurrentResponse](httpClient, baseURL+PlaylistServicePreviousProcedure, opts...),
		selectTrack:      connect.NewClient[TrackRequest, CurrentResponse](httpClient, baseURL+PlaylistServiceSelectProcedure, opts...),
		listFavorites:    connect.NewClient[Empty, TracksResponse](httpClient, baseURL+PlaylistServiceListFavoritesProcedure, opts...),
		toggleFavorite:   connect.NewClient[TrackRequest, ResultResponse](httpClient, baseURL+PlaylistServiceToggleFavoriteProcedure, opts...),
		listRecent:       connect.NewClient[ListRecentRequest, TracksResponse](httpClient, baseURL+PlaylistServiceListRecentProcedure, opts...),
		markPlayed:       connect.NewClient[TrackRequest, ResultResponse](httpClient, baseURL+PlaylistServiceMarkPlayedProcedure, opts...),
		getStatus:        connect.NewClient[Empty, StatusResponse](httpClient, baseURL+PlaylistServiceGetStatusProcedure, opts...),
		subscribeChanges: connect.NewClient[Empty, Event](httpClient, baseURL+PlaylistServiceSubscribeChangesProcedure, opts...),
	}
}

func (c *PlaylistClient) ListTracks(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[TracksResponse], error) {
	return c.listTracks.CallUnary(ctx, req)
}

func (c *PlaylistClient) GetCurrent(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[CurrentResponse], error) {
	return c.getCurrent.CallUnary(ctx, req)
}

func (c *PlaylistClient) Next(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[CurrentResponse], error) {
	return c.next.CallUnary(ctx, req)
}

func (c *PlaylistClient) Previous(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[CurrentResponse], error) {
	return c.previous.CallUnary(ctx, req)
}

func (c *PlaylistClient) Select(ctx context.Context, req *connect.Request[TrackRequest]) (*connect.Response[CurrentResponse], error) {
	return c.selectTrack.CallUnary(ctx, req)
}

func (c *PlaylistClient) ListFavorites(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[TracksResponse], error) {
	return c.listFavorites.CallUnary(ctx, req)
}

func (c *PlaylistClient) ToggleFavorite(ctx context.Context, req *connect.Request[TrackRequest]) (*connect.Response[ResultResponse], error) {
	return c.toggleFavorite.CallUnary(ctx, req)
}

func (c *PlaylistClient) ListRecent(ctx context.Context, req *connect.Request[ListRecentRequest]) (*connect.Response[TracksResponse], error) {
	return c.listRecent.CallUnary(ctx, req)
}

func (c *PlaylistClient) MarkPlayed(ctx context.Context, req *connect.Request[TrackRequest]) (*connect.Response[ResultResponse], error) {
	return c.markPlayed.CallUnary(ctx, req)
}

func (c *PlaylistClient) GetStatus(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[StatusResponse], error) {
	return c.getStatus.CallUnary(ctx, req)
}

func (c *PlaylistClient) SubscribeChanges(ctx context.Context, req *connect.Request[Empty]) (*connect.ServerStreamForClient[Event], error) {
	return c.subscribeChanges.CallServerStream(ctx, req)
}

// LibraryClient is a client for the LibraryService. Pass WithAdminToken to
// authenticate.
type LibraryClient struct {
	removeTrack   *connect.Client[TrackRequest, ResultResponse]
	shuffle       *connect.Client[Empty, ResultResponse]
	sortByTitle   *connect.Client[Empty, ResultResponse]
	sortByDate    *connect.Client[Empty, ResultResponse]
	moveTrack     *connect.Client[MoveTrackRequest, ResultResponse]
	importSpotify *connect.Client[ImportSpotifyPlaylistRequest, ImportSpotifyPlaylistResponse]
}

// NewLibraryClient constructs a client for the LibraryService at baseURL.
func NewLibraryClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *LibraryClient {
	opts = append(opts, connect.WithCodec(Codec{}))
	return &LibraryClient{
		removeTrack:   connect.NewClient[TrackRequest, ResultResponse](httpClient, baseURL+LibraryServiceRemoveTrackProcedure, opts...),
		shuffle:       connect.NewClient[Empty, ResultResponse](httpClient, baseURL+LibraryServiceShuffleProcedure, opts...),
		sortByTitle:   connect.NewClient[Empty, ResultResponse](httpClient, baseURL+LibraryServiceSortByTitleProcedure, opts...),
		sortByDate:    connect.NewClient[Empty, ResultResponse](httpClient, baseURL+LibraryServiceSortByDateProcedure, opts...),
		moveTrack:     connect.NewClient[MoveTrackRequest, ResultResponse](httpClient, baseURL+LibraryServiceMoveTrackProcedure, opts...),
		importSpotify: connect.NewClient[ImportSpotifyPlaylistRequest, ImportSpotifyPlaylistResponse](httpClient, baseURL+LibraryServiceImportSpotifyPlaylistProcedure, opts...),
	}
}

func (c *LibraryClient) RemoveTrack(ctx context.Context, req *connect.Request[TrackRequest]) (*connect.Response[ResultResponse], error) {
	return c.removeTrack.CallUnary(ctx, req)
}

func (c *LibraryClient) Shuffle(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ResultResponse], error) {
	return c.shuffle.CallUnary(ctx, req)
}

func (c *LibraryClient) SortByTitle(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ResultResponse], error) {
	return c.sortByTitle.CallUnary(ctx, req)
}

func (c *LibraryClient) SortByDate(ctx context.Context, req *connect.Request[Empty]) (*connect.Response[ResultResponse], error) {
	return c.sortByDate.CallUnary(ctx, req)
}

func (c *LibraryClient) MoveTrack(ctx context.Context, req *connect.Request[MoveTrackRequest]) (*connect.Response[ResultResponse], error) {
	return c.moveTrack.CallUnary(ctx, req)
}

func (c *LibraryClient) ImportSpotifyPlaylist(ctx context.Context, req *connect.Request[ImportSpotifyPlaylistRequest]) (*connect.Response[ImportSpotifyPlaylistResponse], error) {
	return c.importSpotify.CallUnary(ctx, req)
}
