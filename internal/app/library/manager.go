// Package library owns the playlist and coordinates persistence, imports and
// change notifications around it.
package library

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunedeck/internal/app/filter"
	"github.com/osa030/tunedeck/internal/app/notification"
	"github.com/osa030/tunedeck/internal/domain/playlist"
	"github.com/osa030/tunedeck/internal/domain/track"
	"github.com/osa030/tunedeck/internal/infra/config"
	"github.com/osa030/tunedeck/internal/infra/spotify"
	"github.com/osa030/tunedeck/internal/infra/store"
	"github.com/osa030/tunedeck/internal/metrics"
)

// SpotifyClient fetches the entries of a Spotify playlist.
type SpotifyClient interface {
	GetPlaylistTracks(ctx context.Context, playlistURL string) ([]spotify.Item, error)
}

// Manager serialises access to the playlist. Every mutation is saved to the
// store and announced to subscribers.
type Manager struct {
	mu sync.Mutex

	playlist     *playlist.Playlist
	store        store.Store
	filterChain  *filter.Chain
	notification *notification.Manager
	spotify      SpotifyClient

	musicDir    string
	maxUpload   int64
	recentLimit int
}

// Option configures a Manager.
type Option func(*Manager)

// WithSpotify enables Spotify playlist import.
func WithSpotify(c SpotifyClient) Option {
	return func(m *Manager) { m.spotify = c }
}

// WithPlaylist replaces the empty playlist the manager starts from.
func WithPlaylist(p *playlist.Playlist) Option {
	return func(m *Manager) { m.playlist = p }
}

// NewManager creates a manager and loads the saved playlist from st.
func NewManager(ctx context.Context, cfg *config.Config, st store.Store, opts ...Option) (*Manager, error) {
	m := &Manager{
		playlist:     playlist.New(),
		store:        st,
		notification: notification.NewManager(),
		musicDir:     cfg.Library.MusicDir,
		maxUpload:    cfg.MaxUploadBytes(),
		recentLimit:  cfg.Library.RecentLimit,
	}
	for _, opt := range opts {
		opt(m)
	}

	if err := os.MkdirAll(m.musicDir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "failed to create music directory %s", m.musicDir)
	}

	if err := m.setupFilters(cfg); err != nil {
		return nil, err
	}

	if err := m.load(ctx); err != nil {
		return nil, err
	}

	return m, nil
}

// setupFilters initializes the import filter chain.
func (m *Manager) setupFilters(cfg *config.Config) error {
	// DuplicateLocationFilter (always on)
	m.filterChain = filter.NewChain()
	m.filterChain.Add(filter.NewDuplicateLocationFilter(m.playlist))

	// ExtensionFilter (always on for uploads)
	ext := filter.NewExtensionFilter(cfg.Library.AllowedExtensions...)
	if err := ext.ValidateConfig(cfg.Filters[ext.Name()].Settings); err != nil {
		return errors.Wrap(err, "invalid extension filter settings")
	}
	m.filterChain.Add(ext)

	// DuplicateTitleFilter
	if cfg.IsFilterEnabled("duplicate_title_filter") {
		m.filterChain.Add(filter.NewDuplicateTitleFilter(m.playlist))
	}

	for _, f := range m.filterChain.Filters() {
		zlog.Debug().Msgf("filter enabled: name=%s", f.Name())
	}
	return nil
}

// load appends the stored records. Records that cannot be decoded are
// logged and skipped.
func (m *Manager) load(ctx context.Context) error {
	records, err := m.store.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load playlist")
	}

	for _, r := range records {
		t, err := track.FromRecord(r)
		if err != nil {
			zlog.Warn().Err(err).Str("id", r.ID).Msg("skipping unreadable track record")
			continue
		}
		m.playlist.Append(t)
	}

	m.updateGauges()
	zlog.Info().Msgf("playlist loaded: tracks=%d", m.playlist.Len())
	return nil
}

// Notifications returns the change notification manager.
func (m *Manager) Notifications() *notification.Manager {
	return m.notification
}

// SpotifyEnabled reports whether Spotify import is available.
func (m *Manager) SpotifyEnabled() bool {
	return m.spotify != nil
}

// Tracks returns every track in playlist order.
func (m *Manager) Tracks() []track.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playlist.Snapshot()
}

// Favorites returns the favorite tracks in playlist order.
func (m *Manager) Favorites() []track.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playlist.Favorites()
}

// Recent returns the most recently played tracks. limit <= 0 uses the
// configured default.
func (m *Manager) Recent(limit int) []track.Record {
	if limit <= 0 {
		limit = m.recentLimit
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playlist.RecentlyPlayed(limit)
}

// Current returns the track under the cursor, or nil when the playlist is empty.
func (m *Manager) Current() *track.Record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return recordOf(m.playlist.Current())
}

// Next advances the cursor and returns the new current track.
func (m *Manager) Next() *track.Record {
	return m.moveCursor("next", m.playlist.Next)
}

// Prev moves the cursor back and returns the new current track.
func (m *Manager) Prev() *track.Record {
	return m.moveCursor("prev", m.playlist.Prev)
}

func (m *Manager) moveCursor(op string, step func() *track.Track) *track.Record {
	m.mu.Lock()
	before := m.playlist.Current()
	after := step()
	size := m.playlist.Len()
	m.mu.Unlock()

	observe(op, "ok")
	if after != nil && after != before {
		m.publish(notification.Event{Type: notification.EventCursorChanged, TrackID: after.ID(), Size: size})
	}
	return recordOf(after)
}

// Select moves the cursor to the given track.
func (m *Manager) Select(id string) (*track.Record, error) {
	m.mu.Lock()
	ok := m.playlist.Select(id)
	current := m.playlist.Current()
	size := m.playlist.Len()
	m.mu.Unlock()

	if !ok {
		observe("select", "not_found")
		return nil, errors.Wrapf(ErrTrackNotFound, "id=%s", id)
	}
	observe("select", "ok")
	m.publish(notification.Event{Type: notification.EventCursorChanged, TrackID: id, Size: size})
	return recordOf(current), nil
}

// Remove deletes a track from the playlist. The audio file is left in place.
func (m *Manager) Remove(ctx context.Context, id string) error {
	return m.mutate(ctx, "remove", func() (notification.Event, bool) {
		return notification.Event{Type: notification.EventTrackRemoved, TrackID: id}, m.playlist.Remove(id)
	})
}

// ToggleFavorite flips the favorite flag of a track.
func (m *Manager) ToggleFavorite(ctx context.Context, id string) error {
	return m.mutate(ctx, "toggle_favorite", func() (notification.Event, bool) {
		return notification.Event{Type: notification.EventFavoriteToggle, TrackID: id}, m.playlist.ToggleFavorite(id)
	})
}

// MarkPlayed records a playback of a track.
func (m *Manager) MarkPlayed(ctx context.Context, id string) error {
	return m.mutate(ctx, "mark_played", func() (notification.Event, bool) {
		return notification.Event{Type: notification.EventTrackPlayed, TrackID: id}, m.playlist.MarkPlayed(id)
	})
}

// Move relocates a track to position, clamped to the playlist bounds.
func (m *Manager) Move(ctx context.Context, id string, position int) error {
	return m.mutate(ctx, "move", func() (notification.Event, bool) {
		return notification.Event{Type: notification.EventTrackMoved, TrackID: id}, m.playlist.Move(id, position)
	})
}

// Shuffle randomly reorders the playlist and rewinds the cursor.
func (m *Manager) Shuffle(ctx context.Context) error {
	return m.reorder(ctx, "shuffle", m.playlist.Shuffle)
}

// SortByTitle orders the playlist by title and rewinds the cursor.
func (m *Manager) SortByTitle(ctx context.Context) error {
	return m.reorder(ctx, "sort_by_title", m.playlist.SortByTitle)
}

// SortByDate orders the playlist newest first and rewinds the cursor.
func (m *Manager) SortByDate(ctx context.Context) error {
	return m.reorder(ctx, "sort_by_date", m.playlist.SortByDate)
}

func (m *Manager) reorder(ctx context.Context, op string, fn func()) error {
	return m.mutate(ctx, op, func() (notification.Event, bool) {
		fn()
		return notification.Event{Type: notification.EventReordered}, true
	})
}

// Status summarises the playlist.
type Status struct {
	Size           int
	Favorites      int
	CurrentIndex   int
	Current        *track.Record
	SpotifyEnabled bool
	Subscribers    int
}

// GetStatus returns the current playlist status.
func (m *Manager) GetStatus() *Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	return &Status{
		Size:           m.playlist.Len(),
		Favorites:      len(m.playlist.Favorites()),
		CurrentIndex:   m.playlist.CurrentIndex(),
		Current:        recordOf(m.playlist.Current()),
		SpotifyEnabled: m.spotify != nil,
		Subscribers:    m.notification.SubscriberCount(),
	}
}

// Close removes all change subscribers.
func (m *Manager) Close() {
	m.notification.Close()
}

// mutate runs fn under the lock. When fn reports a change the playlist is
// saved and the event published; otherwise ErrTrackNotFound is returned.
func (m *Manager) mutate(ctx context.Context, op string, fn func() (notification.Event, bool)) error {
	m.mu.Lock()
	event, ok := fn()
	if !ok {
		m.mu.Unlock()
		observe(op, "not_found")
		return errors.Wrapf(ErrTrackNotFound, "id=%s", event.TrackID)
	}
	event.Size = m.playlist.Len()
	err := m.saveLocked(ctx)
	m.updateGauges()
	m.mu.Unlock()

	m.publish(event)
	if err != nil {
		observe(op, "error")
		return err
	}
	observe(op, "ok")
	zlog.Debug().Msgf("playlist %s: track_id=%s size=%d", op, event.TrackID, event.Size)
	return nil
}

// saveLocked writes the playlist to the store. The caller holds m.mu.
func (m *Manager) saveLocked(ctx context.Context) error {
	start := time.Now()
	err := m.store.Save(ctx, m.playlist.Snapshot())
	status := "ok"
	if err != nil {
		status = "error"
		zlog.Error().Err(err).Msg("failed to save playlist")
	}
	metrics.StoreSaveDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())
	return errors.Wrap(err, "failed to save playlist")
}

// updateGauges refreshes the playlist gauges. The caller holds m.mu.
func (m *Manager) updateGauges() {
	metrics.PlaylistTracks.Set(float64(m.playlist.Len()))
	metrics.PlaylistFavorites.Set(float64(len(m.playlist.Favorites())))
}

func (m *Manager) publish(event notification.Event) {
	m.notification.Broadcast(event)
}

func observe(op, result string) {
	metrics.PlaylistOperationsTotal.WithLabelValues(op, result).Inc()
}

func recordOf(t *track.Track) *track.Record {
	if t == nil {
		return nil
	}
	r := t.ToRecord()
	return &r
}
