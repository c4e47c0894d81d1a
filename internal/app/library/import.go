package library

import (
	"context"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/cockroachdb/errors"
	zlog "github.com/rs/zerolog/log"

	"github.com/osa030/tunedeck/internal/app/filter"
	"github.com/osa030/tunedeck/internal/app/notification"
	"github.com/osa030/tunedeck/internal/domain/track"
	"github.com/osa030/tunedeck/internal/infra/tags"
	"github.com/osa030/tunedeck/internal/metrics"
)

// LocationPrefix is prepended to uploaded file names to form the track
// location served under /music/.
const LocationPrefix = "music"

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SanitizeFilename reduces an uploaded file name to a safe base name.
// Path components are dropped and runs of other characters become "_".
func SanitizeFilename(name string) (string, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(strings.TrimSpace(name))
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return "", ErrInvalidFilename
	}
	return name, nil
}

// AddUpload stores an uploaded audio file and appends it to the playlist.
// Missing title or artist are read from the file's tags.
func (m *Manager) AddUpload(ctx context.Context, filename string, r io.Reader, title, artist string) (*track.Record, error) {
	name, err := SanitizeFilename(filename)
	if err != nil {
		observe("upload", "error")
		return nil, errors.Wrapf(err, "filename=%q", filename)
	}
	location := path.Join(LocationPrefix, name)

	tmpDir, err := os.MkdirTemp(m.musicDir, ".upload-")
	if err != nil {
		return nil, errors.Wrap(err, "failed to create upload directory")
	}
	defer os.RemoveAll(tmpDir)

	tmpPath := filepath.Join(tmpDir, name)
	if err := writeLimited(tmpPath, r, m.maxUpload); err != nil {
		observe("upload", "error")
		return nil, err
	}

	title, artist = tags.Fill(tmpPath, strings.TrimSpace(title), strings.TrimSpace(artist))

	m.mu.Lock()
	result := m.filterChain.Execute(ctx, filter.Candidate{
		Title:    title,
		Artist:   artist,
		Location: location,
		Source:   filter.SourceUpload,
	})
	zlog.Info().Msgf("upload: file=%s title=%s artist=%s result=%t code=%s", name, title, artist, result.Accepted, result.Code)
	if !result.Accepted {
		m.mu.Unlock()
		reject(filter.SourceUpload, result.Code)
		return nil, &RejectedError{Code: result.Code}
	}

	if err := os.Rename(tmpPath, filepath.Join(m.musicDir, name)); err != nil {
		m.mu.Unlock()
		observe("upload", "error")
		return nil, errors.Wrap(err, "failed to store uploaded file")
	}

	t := track.New(title, artist, location)
	m.playlist.Append(t)
	size := m.playlist.Len()
	saveErr := m.saveLocked(ctx)
	m.updateGauges()
	m.mu.Unlock()

	m.publish(notification.Event{Type: notification.EventTrackAdded, TrackID: t.ID(), Size: size})
	if saveErr != nil {
		observe("upload", "error")
		return nil, saveErr
	}
	observe("upload", "ok")
	return recordOf(t), nil
}

// writeLimited copies r into a new file at dst, failing with
// ErrUploadTooLarge once more than limit bytes arrive.
func writeLimited(dst string, r io.Reader, limit int64) error {
	f, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "failed to create upload file")
	}
	defer f.Close()

	n, err := io.Copy(f, io.LimitReader(r, limit+1))
	if err != nil {
		return errors.Wrap(err, "failed to write upload file")
	}
	if n > limit {
		return errors.Wrapf(ErrUploadTooLarge, "limit=%d bytes", limit)
	}
	return f.Close()
}

// ImportResult reports the outcome of a Spotify playlist import.
type ImportResult struct {
	Added    []track.Record
	Rejected map[string]int // filter code -> count
}

// ImportSpotify appends the tracks of a Spotify playlist. Entries refused by
// a filter are counted per code and skipped.
func (m *Manager) ImportSpotify(ctx context.Context, playlistURL string) (*ImportResult, error) {
	if m.spotify == nil {
		observe("import_spotify", "error")
		return nil, ErrSpotifyDisabled
	}

	items, err := m.spotify.GetPlaylistTracks(ctx, playlistURL)
	if err != nil {
		observe("import_spotify", "error")
		return nil, errors.Wrap(err, "failed to fetch spotify playlist")
	}

	res := &ImportResult{Rejected: make(map[string]int)}

	m.mu.Lock()
	for _, item := range items {
		result := m.filterChain.Execute(ctx, filter.Candidate{
			Title:    item.Title,
			Artist:   item.Artist,
			Location: item.URL,
			Source:   filter.SourceSpotify,
		})
		if !result.Accepted {
			res.Rejected[result.Code]++
			reject(filter.SourceSpotify, result.Code)
			continue
		}
		t := track.New(item.Title, item.Artist, item.URL)
		m.playlist.Append(t)
		res.Added = append(res.Added, t.ToRecord())
	}

	size := m.playlist.Len()
	var saveErr error
	if len(res.Added) > 0 {
		saveErr = m.saveLocked(ctx)
		m.updateGauges()
	}
	m.mu.Unlock()

	zlog.Info().Msgf("spotify import: url=%s fetched=%d added=%d rejected=%v", playlistURL, len(items), len(res.Added), res.Rejected)

	if len(res.Added) > 0 {
		m.publish(notification.Event{Type: notification.EventTracksImported, Size: size})
	}
	if saveErr != nil {
		observe("import_spotify", "error")
		return nil, saveErr
	}
	observe("import_spotify", "ok")
	return res, nil
}

func reject(source filter.Source, code string) {
	metrics.ImportRejectionsTotal.WithLabelValues(string(source), code).Inc()
	metrics.PlaylistOperationsTotal.WithLabelValues("import", "rejected").Inc()
}
