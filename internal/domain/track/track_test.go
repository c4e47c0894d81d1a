package track

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	before := time.Now()
	tr := New("Song", "Artist", "music/song.mp3")

	assert.NotEmpty(t, tr.ID())
	assert.Equal(t, "Song", tr.Title)
	assert.Equal(t, "Artist", tr.Artist)
	assert.Equal(t, "music/song.mp3", tr.Location())
	assert.False(t, tr.IsFavorite())
	assert.Zero(t, tr.PlayCount())
	assert.Nil(t, tr.LastPlayed())
	assert.False(t, tr.AddedAt().Before(before))
}

func TestNew_UniqueIDs(t *testing.T) {
	a := New("A", "X", "a.mp3")
	b := New("A", "X", "a.mp3")
	assert.NotEqual(t, a.ID(), b.ID())
}

func TestNew_Options(t *testing.T) {
	added := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	played := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)

	tr := New("Song", "Artist", "loc",
		WithID("fixed-id"),
		WithAddedAt(added),
		WithFavorite(true),
		WithPlayCount(7),
		WithLastPlayed(played),
	)

	assert.Equal(t, "fixed-id", tr.ID())
	assert.Equal(t, added, tr.AddedAt())
	assert.True(t, tr.IsFavorite())
	assert.Equal(t, 7, tr.PlayCount())
	require.NotNil(t, tr.LastPlayed())
	assert.Equal(t, played, *tr.LastPlayed())
}

func TestWithPlayCount_IgnoresNegative(t *testing.T) {
	tr := New("Song", "Artist", "loc", WithPlayCount(-3))
	assert.Zero(t, tr.PlayCount())
}

func TestTrack_ToggleFavorite(t *testing.T) {
	tr := New("Song", "Artist", "loc")
	tr.ToggleFavorite()
	assert.True(t, tr.IsFavorite())
	tr.ToggleFavorite()
	assert.False(t, tr.IsFavorite())
}

func TestTrack_MarkPlayed(t *testing.T) {
	tr := New("Song", "Artist", "loc")
	first := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	second := first.Add(time.Minute)

	tr.MarkPlayed(first)
	assert.Equal(t, 1, tr.PlayCount())
	assert.Equal(t, first, *tr.LastPlayed())

	tr.MarkPlayed(second)
	assert.Equal(t, 2, tr.PlayCount())
	assert.Equal(t, second, *tr.LastPlayed())
}

func TestTrack_LastPlayedReturnsCopy(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	tr := New("Song", "Artist", "loc", WithLastPlayed(at))

	p := tr.LastPlayed()
	*p = p.Add(time.Hour)

	assert.Equal(t, at, *tr.LastPlayed())
}

func TestTrack_ToRecord(t *testing.T) {
	added := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	t.Run("never played", func(t *testing.T) {
		tr := New("Song", "Artist", "music/song.mp3", WithID("id1"), WithAddedAt(added))
		r := tr.ToRecord()

		assert.Equal(t, "id1", r.ID)
		assert.Equal(t, "Song", r.Title)
		assert.Equal(t, "Artist", r.Artist)
		assert.Equal(t, "music/song.mp3", r.Location)
		assert.Equal(t, "2024-01-02T03:04:05Z", r.AddedAt)
		assert.False(t, r.IsFavorite)
		assert.Nil(t, r.LastPlayed)
		assert.Zero(t, r.PlayCount)
	})

	t.Run("played favorite", func(t *testing.T) {
		tr := New("Song", "Artist", "loc", WithAddedAt(added), WithFavorite(true))
		tr.MarkPlayed(added.Add(90 * time.Second))
		r := tr.ToRecord()

		assert.True(t, r.IsFavorite)
		require.NotNil(t, r.LastPlayed)
		assert.Equal(t, "2024-01-02T03:05:35Z", *r.LastPlayed)
		assert.Equal(t, 1, r.PlayCount)
	})
}

func TestFromRecord(t *testing.T) {
	played := "2024-03-01T12:00:00Z"

	tests := []struct {
		name    string
		record  Record
		wantErr bool
		check   func(t *testing.T, tr *Track)
	}{
		{
			name: "full record",
			record: Record{
				ID: "abc", Title: "T", Artist: "A", Location: "music/t.mp3",
				AddedAt: "2024-01-01T00:00:00Z", IsFavorite: true, LastPlayed: &played, PlayCount: 4,
			},
			check: func(t *testing.T, tr *Track) {
				assert.Equal(t, "abc", tr.ID())
				assert.Equal(t, "music/t.mp3", tr.Location())
				assert.True(t, tr.IsFavorite())
				assert.Equal(t, 4, tr.PlayCount())
				require.NotNil(t, tr.LastPlayed())
				assert.Equal(t, 2024, tr.LastPlayed().Year())
			},
		},
		{
			name:   "legacy file_path and naive timestamp",
			record: Record{ID: "old", Title: "T", FilePath: "music/old.mp3", AddedAt: "2023-11-20T08:15:30.123456"},
			check: func(t *testing.T, tr *Track) {
				assert.Equal(t, "music/old.mp3", tr.Location())
				assert.Equal(t, 2023, tr.AddedAt().Year())
				assert.Nil(t, tr.LastPlayed())
			},
		},
		{
			name:   "missing id gets a fresh one",
			record: Record{Title: "T", Location: "x"},
			check: func(t *testing.T, tr *Track) {
				assert.NotEmpty(t, tr.ID())
			},
		},
		{
			name:    "bad added_at",
			record:  Record{ID: "x", AddedAt: "yesterday"},
			wantErr: true,
		},
		{
			name:    "bad last_played",
			record:  Record{ID: "x", LastPlayed: func() *string { s := "soon"; return &s }()},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr, err := FromRecord(tt.record)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, tr)
		})
	}
}

func TestFromRecord_RoundTrip(t *testing.T) {
	orig := New("Song", "Artist", "music/song.mp3", WithFavorite(true))
	orig.MarkPlayed(time.Now())

	restored, err := FromRecord(orig.ToRecord())
	require.NoError(t, err)

	assert.Equal(t, orig.ToRecord(), restored.ToRecord())
}
