package connect

import (
	"github.com/osa030/tunedeck/internal/app/notification"
	"github.com/osa030/tunedeck/internal/domain/track"
)

const (
	// PlaylistServiceName is the fully-qualified name of the PlaylistService.
	PlaylistServiceName = "tunedeck.v1.PlaylistService"
	// LibraryServiceName is the fully-qualified name of the LibraryService.
	LibraryServiceName = "tunedeck.v1.LibraryService"
)

// Procedure paths.
const (
	PlaylistServiceListTracksProcedure       = "/" + PlaylistServiceName + "/ListTracks"
	PlaylistServiceGetCurrentProcedure       = "/" + PlaylistServiceName + "/GetCurrent"
	PlaylistServiceNextProcedure             = "/" + PlaylistServiceName + "/Next"
	PlaylistServicePreviousProcedure         = "/" + PlaylistServiceName + "/Previous"
	PlaylistServiceSelectProcedure           = "/" + PlaylistServiceName + "/Select"
	PlaylistServiceListFavoritesProcedure    = "/" + PlaylistServiceName + "/ListFavorites"
	PlaylistServiceToggleFavoriteProcedure   = "/" + PlaylistServiceName + "/ToggleFavorite"
	PlaylistServiceListRecentProcedure       = "/" + PlaylistServiceName + "/ListRecent"
	PlaylistServiceMarkPlayedProcedure       = "/" + PlaylistServiceName + "/MarkPlayed"
	PlaylistServiceGetStatusProcedure        = "/" + PlaylistServiceName + "/GetStatus"
	PlaylistServiceSubscribeChangesProcedure = "/" + PlaylistServiceName + "/SubscribeChanges"

	LibraryServiceRemoveTrackProcedure           = "/" + LibraryServiceName + "/RemoveTrack"
	LibraryServiceShuffleProcedure               = "/" + LibraryServiceName + "/Shuffle"
	LibraryServiceSortByTitleProcedure           = "/" + LibraryServiceName + "/SortByTitle"
	LibraryServiceSortByDateProcedure            = "/" + LibraryServiceName + "/SortByDate"
	LibraryServiceMoveTrackProcedure             = "/" + LibraryServiceName + "/MoveTrack"
	LibraryServiceImportSpotifyPlaylistProcedure = "/" + LibraryServiceName + "/ImportSpotifyPlaylist"
)

type Empty struct{}

type TrackRequest struct {
	TrackID string `json:"track_id"`
}

type ListRecentRequest struct {
	Limit int `json:"limit,omitempty"`
}

type MoveTrackRequest struct {
	TrackID  string `json:"track_id"`
	Position int    `json:"position"`
}

type ImportSpotifyPlaylistRequest struct {
	PlaylistURL string `json:"playlist_url"`
}

type TracksResponse struct {
	Tracks       []track.Record `json:"tracks"`
	CurrentIndex int            `json:"current_index"`
}

// CurrentResponse carries the track under the cursor; Track is nil when the
// playlist is empty.
type CurrentResponse struct {
	Track *track.Record `json:"track"`
}

// ResultResponse reports the outcome of a mutation. Code is set when a
// filter refused the change.
type ResultResponse struct {
	Success bool   `json:"success"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type StatusResponse struct {
	Size           int           `json:"size"`
	Favorites      int           `json:"favorites"`
	CurrentIndex   int           `json:"current_index"`
	Current        *track.Record `json:"current,omitempty"`
	SpotifyEnabled bool          `json:"spotify_enabled"`
	Subscribers    int           `json:"subscribers"`
}

type ImportSpotifyPlaylistResponse struct {
	Added    []track.Record `json:"added"`
	Rejected map[string]int `json:"rejected,omitempty"`
	Message  string         `json:"message"`
}

// Event is a playlist change delivered by SubscribeChanges.
type Event = notification.Event
