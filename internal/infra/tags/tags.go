// Package tags reads title and artist metadata from audio files.
package tags

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dhowden/tag"
	zlog "github.com/rs/zerolog/log"
)

// UnknownArtist is used when a file carries no artist tag.
const UnknownArtist = "Unknown Artist"

// Metadata holds the display fields extracted from a file.
type Metadata struct {
	Title  string
	Artist string
}

// ReadFile extracts metadata from the file at path. Missing or unreadable
// tags fall back to the file name and UnknownArtist; it never fails.
func ReadFile(path string) Metadata {
	f, err := os.Open(path)
	if err != nil {
		zlog.Debug().Err(err).Str("path", path).Msg("cannot open audio file for tags")
		return fallback(path)
	}
	defer f.Close()

	return Read(f, path)
}

// Read extracts metadata from r. name is used for the title fallback.
func Read(r io.ReadSeeker, name string) Metadata {
	md := fallback(name)

	m, err := tag.ReadFrom(r)
	if err != nil {
		zlog.Debug().Err(err).Str("file", name).Msg("no readable tags")
		return md
	}

	if title := strings.TrimSpace(m.Title()); title != "" {
		md.Title = title
	}

	artist := strings.TrimSpace(m.Artist())
	if artist == "" {
		artist = strings.TrimSpace(m.AlbumArtist())
	}
	if artist != "" {
		md.Artist = artist
	}
	return md
}

// Fill returns title and artist, reading tags from path only for whichever
// of the two is empty.
func Fill(path, title, artist string) (string, string) {
	if title != "" && artist != "" {
		return title, artist
	}
	md := ReadFile(path)
	if title == "" {
		title = md.Title
	}
	if artist == "" {
		artist = md.Artist
	}
	return title, artist
}

func fallback(name string) Metadata {
	base := filepath.Base(name)
	return Metadata{
		Title:  strings.TrimSuffix(base, filepath.Ext(base)),
		Artist: UnknownArtist,
	}
}
