// Package track provides the Track domain entity.
package track

import (
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

// TimeFormat is the ISO-8601 layout used for timestamps in records.
const TimeFormat = time.RFC3339Nano

// Track represents one song in a playlist.
// Identity fields (id, location, addedAt) are fixed at construction;
// play-history metadata is updated in place.
type Track struct {
	Title  string // Display title
	Artist string // Display artist

	id       string     // Unique identifier
	location string     // Reference to the audio content (e.g. "music/song.mp3")
	addedAt  time.Time  // Creation time
	favorite bool       // Favorite flag
	played   *time.Time // Last playback time (nil until first play)
	plays    int        // Play counter
}

// Option overrides a default during construction.
type Option func(*Track)

// WithID restores a previously assigned identifier.
func WithID(id string) Option {
	return func(t *Track) { t.id = id }
}

// WithAddedAt restores the creation time.
func WithAddedAt(at time.Time) Option {
	return func(t *Track) { t.addedAt = at }
}

// WithFavorite restores the favorite flag.
func WithFavorite(favorite bool) Option {
	return func(t *Track) { t.favorite = favorite }
}

// WithPlayCount restores the play counter. Negative values are ignored.
func WithPlayCount(n int) Option {
	return func(t *Track) {
		if n >= 0 {
			t.plays = n
		}
	}
}

// WithLastPlayed restores the last playback time.
func WithLastPlayed(at time.Time) Option {
	return func(t *Track) { t.played = &at }
}

// New creates a track with a fresh identifier and the current time as added-at.
func New(title, artist, location string, opts ...Option) *Track {
	t := &Track{
		Title:    title,
		Artist:   artist,
		id:       uuid.New().String(),
		location: location,
		addedAt:  time.Now(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// ID returns the track identifier.
func (t *Track) ID() string { return t.id }

// Location returns the audio content reference.
func (t *Track) Location() string { return t.location }

// AddedAt returns the creation time.
func (t *Track) AddedAt() time.Time { return t.addedAt }

// IsFavorite reports whether the track is marked as favorite.
func (t *Track) IsFavorite() bool { return t.favorite }

// PlayCount returns how many times the track was played.
func (t *Track) PlayCount() int { return t.plays }

// LastPlayed returns the last playback time, or nil if never played.
func (t *Track) LastPlayed() *time.Time {
	if t.played == nil {
		return nil
	}
	at := *t.played
	return &at
}

// ToggleFavorite flips the favorite flag.
func (t *Track) ToggleFavorite() {
	t.favorite = !t.favorite
}

// MarkPlayed records a playback at the given time.
func (t *Track) MarkPlayed(at time.Time) {
	t.played = &at
	t.plays++
}

// Record is the flat, serializable projection of a Track.
type Record struct {
	ID         string  `json:"id" yaml:"id"`
	Title      string  `json:"title" yaml:"title"`
	Artist     string  `json:"artist" yaml:"artist"`
	Location   string  `json:"location" yaml:"location"`
	AddedAt    string  `json:"added_at" yaml:"added_at"`
	IsFavorite bool    `json:"is_favorite" yaml:"is_favorite"`
	LastPlayed *string `json:"last_played" yaml:"last_played"`
	PlayCount  int     `json:"play_count" yaml:"play_count"`

	// FilePath is the legacy name of Location in older data files.
	FilePath string `json:"file_path,omitempty" yaml:"file_path,omitempty"`
}

// ToRecord projects all fields into a Record.
func (t *Track) ToRecord() Record {
	r := Record{
		ID:         t.id,
		Title:      t.Title,
		Artist:     t.Artist,
		Location:   t.location,
		AddedAt:    t.addedAt.Format(TimeFormat),
		IsFavorite: t.favorite,
		PlayCount:  t.plays,
	}
	if t.played != nil {
		s := t.played.Format(TimeFormat)
		r.LastPlayed = &s
	}
	return r
}

// FromRecord rebuilds a Track from a stored Record, preserving its identity and history.
func FromRecord(r Record) (*Track, error) {
	location := r.Location
	if location == "" {
		location = r.FilePath
	}

	opts := []Option{
		WithFavorite(r.IsFavorite),
		WithPlayCount(r.PlayCount),
	}
	if r.ID != "" {
		opts = append(opts, WithID(r.ID))
	}
	if r.AddedAt != "" {
		at, err := parseTime(r.AddedAt)
		if err != nil {
			return nil, errors.Wrapf(err, "track %s: invalid added_at", r.ID)
		}
		opts = append(opts, WithAddedAt(at))
	}
	if r.LastPlayed != nil && *r.LastPlayed != "" {
		at, err := parseTime(*r.LastPlayed)
		if err != nil {
			return nil, errors.Wrapf(err, "track %s: invalid last_played", r.ID)
		}
		opts = append(opts, WithLastPlayed(at))
	}

	return New(r.Title, r.Artist, location, opts...), nil
}

// parseTime accepts RFC 3339 as well as the zone-less ISO-8601 form
// ("2006-01-02T15:04:05.999999") found in older data files.
func parseTime(s string) (time.Time, error) {
	if t, err := time.Parse(TimeFormat, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02T15:04:05.999999999", s, time.Local)
	if err != nil {
		return time.Time{}, errors.Newf("unrecognized timestamp %q", s)
	}
	return t, nil
}
