package library

import (
	"bytes"
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osa030/tunedeck/internal/app/notification"
	"github.com/osa030/tunedeck/internal/domain/playlist"
	"github.com/osa030/tunedeck/internal/domain/track"
	"github.com/osa030/tunedeck/internal/infra/config"
	"github.com/osa030/tunedeck/internal/infra/spotify"
	"github.com/osa030/tunedeck/internal/infra/store"
)

type fakeSpotify struct {
	items []spotify.Item
	err   error
}

func (f *fakeSpotify) GetPlaylistTracks(ctx context.Context, playlistURL string) ([]spotify.Item, error) {
	return f.items, f.err
}

type eventRecorder struct {
	mu     sync.Mutex
	events []notification.Event
}

func (r *eventRecorder) Send(e *notification.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, *e)
	return nil
}

func (r *eventRecorder) types() []notification.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]notification.EventType, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fixture struct {
	manager  *Manager
	store    *store.JSONStore
	musicDir string
	events   *eventRecorder
}

func testConfig(t *testing.T, musicDir string, extra string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte(fmt.Sprintf(`
admin:
  token: secret
library:
  music_dir: %q
  max_upload_mb: 1
  recent_limit: 2
%s`, musicDir, extra)))
	require.NoError(t, err)
	return cfg
}

func newFixture(t *testing.T, records []track.Record, opts ...Option) *fixture {
	t.Helper()
	dir := t.TempDir()
	musicDir := filepath.Join(dir, "music")

	st := store.NewJSON(filepath.Join(dir, "playlist.json"))
	if records != nil {
		require.NoError(t, st.Save(context.Background(), records))
	}

	opts = append([]Option{WithPlaylist(playlist.New(playlist.WithRand(rand.New(rand.NewPCG(1, 2)))))}, opts...)
	m, err := NewManager(context.Background(), testConfig(t, musicDir, ""), st, opts...)
	require.NoError(t, err)
	t.Cleanup(m.Close)

	events := &eventRecorder{}
	m.Notifications().Subscribe(events)

	return &fixture{manager: m, store: st, musicDir: musicDir, events: events}
}

func seed() []track.Record {
	return []track.Record{
		{ID: "z", Title: "Zebra", Artist: "Z", Location: "music/z.mp3", AddedAt: "2024-01-01T00:00:00Z"},
		{ID: "a", Title: "apple", Artist: "A", Location: "music/a.mp3", AddedAt: "2024-03-01T00:00:00Z"},
		{ID: "m", Title: "Mango", Artist: "M", Location: "music/m.mp3", AddedAt: "2024-02-01T00:00:00Z"},
	}
}

func ids(records []track.Record) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.ID
	}
	return out
}

func storedIDs(t *testing.T, st store.Store) []string {
	t.Helper()
	records, err := st.Load(context.Background())
	require.NoError(t, err)
	return ids(records)
}

func TestNewManager_LoadsAndSkipsBadRecords(t *testing.T) {
	records := append(seed(), track.Record{ID: "bad", Title: "Broken", Location: "music/x.mp3", AddedAt: "yesterday"})
	f := newFixture(t, records)

	assert.Equal(t, []string{"z", "a", "m"}, ids(f.manager.Tracks()))
	current := f.manager.Current()
	require.NotNil(t, current)
	assert.Equal(t, "z", current.ID)
}

func TestNewManager_EmptyStore(t *testing.T) {
	f := newFixture(t, nil)

	assert.Empty(t, f.manager.Tracks())
	assert.Nil(t, f.manager.Current())
	assert.Nil(t, f.manager.Next())

	status := f.manager.GetStatus()
	assert.Equal(t, 0, status.Size)
	assert.Equal(t, -1, status.CurrentIndex)
	assert.False(t, status.SpotifyEnabled)
	assert.DirExists(t, f.musicDir)
}

func TestManager_CursorNavigation(t *testing.T) {
	f := newFixture(t, seed())

	assert.Equal(t, "a", f.manager.Next().ID)
	assert.Equal(t, "m", f.manager.Next().ID)
	assert.Equal(t, "m", f.manager.Next().ID, "no wraparound at the tail")
	assert.Equal(t, "a", f.manager.Prev().ID)

	selected, err := f.manager.Select("z")
	require.NoError(t, err)
	assert.Equal(t, "z", selected.ID)
	assert.Equal(t, "z", f.manager.Prev().ID, "no wraparound at the head")

	_, err = f.manager.Select("missing")
	assert.True(t, errors.Is(err, ErrTrackNotFound))

	assert.Equal(t, []notification.EventType{
		notification.EventCursorChanged,
		notification.EventCursorChanged,
		notification.EventCursorChanged,
		notification.EventCursorChanged,
	}, f.events.types(), "only actual cursor moves are announced")
}

func TestManager_MutationsPersist(t *testing.T) {
	tests := []struct {
		name   string
		run    func(ctx context.Context, m *Manager) error
		want   []string
		event  notification.EventType
		verify func(t *testing.T, m *Manager)
	}{
		{
			name:  "remove",
			run:   func(ctx context.Context, m *Manager) error { return m.Remove(ctx, "a") },
			want:  []string{"z", "m"},
			event: notification.EventTrackRemoved,
		},
		{
			name:  "move to front",
			run:   func(ctx context.Context, m *Manager) error { return m.Move(ctx, "m", 0) },
			want:  []string{"m", "z", "a"},
			event: notification.EventTrackMoved,
		},
		{
			name:  "move clamps past the end",
			run:   func(ctx context.Context, m *Manager) error { return m.Move(ctx, "z", 99) },
			want:  []string{"a", "m", "z"},
			event: notification.EventTrackMoved,
		},
		{
			name:  "sort by title",
			run:   func(ctx context.Context, m *Manager) error { return m.SortByTitle(ctx) },
			want:  []string{"a", "m", "z"},
			event: notification.EventReordered,
		},
		{
			name:  "sort by date",
			run:   func(ctx context.Context, m *Manager) error { return m.SortByDate(ctx) },
			want:  []string{"a", "m", "z"},
			event: notification.EventReordered,
		},
		{
			name:  "toggle favorite",
			run:   func(ctx context.Context, m *Manager) error { return m.ToggleFavorite(ctx, "m") },
			want:  []string{"z", "a", "m"},
			event: notification.EventFavoriteToggle,
			verify: func(t *testing.T, m *Manager) {
				assert.Equal(t, []string{"m"}, ids(m.Favorites()))
				assert.Equal(t, 1, m.GetStatus().Favorites)
			},
		},
		{
			name:  "mark played",
			run:   func(ctx context.Context, m *Manager) error { return m.MarkPlayed(ctx, "a") },
			want:  []string{"z", "a", "m"},
			event: notification.EventTrackPlayed,
			verify: func(t *testing.T, m *Manager) {
				recent := m.Recent(0)
				require.Len(t, recent, 1)
				assert.Equal(t, 1, recent[0].PlayCount)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, seed())
			require.NoError(t, tt.run(context.Background(), f.manager))

			assert.Equal(t, tt.want, ids(f.manager.Tracks()))
			assert.Equal(t, tt.want, storedIDs(t, f.store))
			assert.Equal(t, []notification.EventType{tt.event}, f.events.types())
			if tt.verify != nil {
				tt.verify(t, f.manager)
			}
		})
	}
}

func TestManager_NotFound(t *testing.T) {
	f := newFixture(t, seed())
	ctx := context.Background()

	for name, err := range map[string]error{
		"remove":   f.manager.Remove(ctx, "missing"),
		"favorite": f.manager.ToggleFavorite(ctx, "missing"),
		"played":   f.manager.MarkPlayed(ctx, "missing"),
		"move":     f.manager.Move(ctx, "missing", 0),
	} {
		assert.True(t, errors.Is(err, ErrTrackNotFound), name)
	}
	assert.Empty(t, f.events.types())
}

func TestManager_Shuffle(t *testing.T) {
	f := newFixture(t, seed())
	f.manager.Next()

	require.NoError(t, f.manager.Shuffle(context.Background()))

	assert.ElementsMatch(t, []string{"z", "a", "m"}, ids(f.manager.Tracks()))
	assert.Equal(t, ids(f.manager.Tracks()), storedIDs(t, f.store))
	assert.Equal(t, 0, f.manager.GetStatus().CurrentIndex, "cursor rewinds to the head")
}

func TestManager_RecentDefaultLimit(t *testing.T) {
	f := newFixture(t, seed())
	ctx := context.Background()
	for _, id := range []string{"z", "a", "m"} {
		require.NoError(t, f.manager.MarkPlayed(ctx, id))
	}

	assert.Len(t, f.manager.Recent(0), 2, "configured recent_limit applies")
	assert.Len(t, f.manager.Recent(10), 3)
}

func TestManager_AddUpload(t *testing.T) {
	f := newFixture(t, nil)
	ctx := context.Background()

	rec, err := f.manager.AddUpload(ctx, "../My Song!.mp3", bytes.NewReader([]byte("not really audio")), "", "")
	require.NoError(t, err)
	assert.Equal(t, "music/My_Song_.mp3", rec.Location)
	assert.Equal(t, "My_Song_", rec.Title)
	assert.Equal(t, "Unknown Artist", rec.Artist)
	assert.FileExists(t, filepath.Join(f.musicDir, "My_Song_.mp3"))

	rec, err = f.manager.AddUpload(ctx, "other.mp3", bytes.NewReader([]byte("x")), " Given ", "Someone")
	require.NoError(t, err)
	assert.Equal(t, "Given", rec.Title)
	assert.Equal(t, "Someone", rec.Artist)

	assert.Len(t, storedIDs(t, f.store), 2)
	assert.Equal(t, []notification.EventType{notification.EventTrackAdded, notification.EventTrackAdded}, f.events.types())

	entries, err := os.ReadDir(f.musicDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2, "temporary upload directories are removed")
}

func TestManager_AddUploadRejected(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int
		code     string
		wantErr  error
	}{
		{"duplicate location", "existing.mp3", 10, "duplicate_track", ErrRejected},
		{"unsupported extension", "virus.exe", 10, "unsupported_format", ErrRejected},
		{"too large", "big.mp3", 1<<20 + 1, "", ErrUploadTooLarge},
		{"empty name", "...", 10, "", ErrInvalidFilename},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, []track.Record{
				{ID: "e", Title: "Existing", Artist: "E", Location: "music/existing.mp3", AddedAt: "2024-01-01T00:00:00Z"},
			})

			_, err := f.manager.AddUpload(context.Background(), tt.filename, bytes.NewReader(make([]byte, tt.size)), "T", "A")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr))
			assert.Equal(t, tt.code, RejectionCode(err))
			assert.Equal(t, []string{"e"}, ids(f.manager.Tracks()))
			assert.Empty(t, f.events.types())
		})
	}
}

func TestManager_ImportSpotify(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		f := newFixture(t, nil)
		_, err := f.manager.ImportSpotify(context.Background(), "https://open.spotify.com/playlist/x")
		assert.True(t, errors.Is(err, ErrSpotifyDisabled))
	})

	t.Run("fetch error", func(t *testing.T) {
		f := newFixture(t, nil, WithSpotify(&fakeSpotify{err: errors.New("boom")}))
		_, err := f.manager.ImportSpotify(context.Background(), "x")
		assert.Error(t, err)
	})

	t.Run("appends accepted entries", func(t *testing.T) {
		client := &fakeSpotify{items: []spotify.Item{
			{Title: "One", Artist: "A", URL: "https://open.spotify.com/track/1"},
			{Title: "Two", Artist: "B", URL: "https://open.spotify.com/track/2"},
			{Title: "One again", Artist: "A", URL: "https://open.spotify.com/track/1"},
		}}
		f := newFixture(t, nil, WithSpotify(client))
		assert.True(t, f.manager.SpotifyEnabled())

		res, err := f.manager.ImportSpotify(context.Background(), "https://open.spotify.com/playlist/x")
		require.NoError(t, err)

		assert.Len(t, res.Added, 2)
		assert.Equal(t, map[string]int{"duplicate_track": 1}, res.Rejected)
		assert.Len(t, storedIDs(t, f.store), 2)
		assert.Equal(t, []notification.EventType{notification.EventTracksImported}, f.events.types())
	})
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"song.mp3", "song.mp3", false},
		{"My Song.mp3", "My_Song.mp3", false},
		{"../../etc/passwd", "passwd", false},
		{`C:\Users\me\track.flac`, "track.flac", false},
		{".hidden.mp3", "hidden.mp3", false},
		{"", "", true},
		{"..", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := SanitizeFilename(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
