package filter

import (
	"context"
	"regexp"
	"strings"

	"github.com/osa030/tunedeck/internal/domain/track"
)

// TrackLister exposes the tracks already in the playlist.
type TrackLister interface {
	Snapshot() []track.Record
}

// DuplicateTitleFilter rejects candidates that are another version of a
// track already in the playlist.
// Detects:
// - Remasters and edits (normalized title + same artist)
// Excludes:
// - Cover songs (same title but different artist)
type DuplicateTitleFilter struct {
	lister TrackLister
}

// NewDuplicateTitleFilter creates a new duplicate title filter.
func NewDuplicateTitleFilter(lister TrackLister) *DuplicateTitleFilter {
	return &DuplicateTitleFilter{lister: lister}
}

func (f *DuplicateTitleFilter) Name() string {
	return "duplicate_title_filter"
}

func (f *DuplicateTitleFilter) Description() string {
	return "Rejects remasters and alternate versions of songs already in the playlist; covers are allowed"
}

func (f *DuplicateTitleFilter) ReturnCodes() []string {
	return []string{"duplicate_track"}
}

func (f *DuplicateTitleFilter) ValidateConfig(settings map[string]any) error {
	return nil
}

func (f *DuplicateTitleFilter) AppliesTo(source Source) bool {
	return true
}

func (f *DuplicateTitleFilter) Check(ctx context.Context, c Candidate) Result {
	if f.lister == nil {
		return Accept()
	}

	name := normalizeTitle(c.Title)
	for _, r := range f.lister.Snapshot() {
		if normalizeTitle(r.Title) == name && isSameArtist(r.Artist, c.Artist) {
			return Reject("duplicate_track")
		}
	}
	return Accept()
}

var (
	versionPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\s*-?\s*\d{4}\s+remaster(ed)?`),         // "- 2011 Remaster"
		regexp.MustCompile(`\s*[\(\[][^\)\]]*remaster[^\)\]]*[\)\]]`), // "(Remastered 2023)", "[Remastered]"
		regexp.MustCompile(`\s*-\s*remaster(ed)?(\s+version)?$`),     // "- Remastered"
		regexp.MustCompile(`\s*\([^\)]*version\)`),                   // "(Single Version)"
		regexp.MustCompile(`\s*\([^\)]*edit\)`),                      // "(Radio Edit)"
		regexp.MustCompile(`\s*\(live\)`),                            // "(Live)"
		regexp.MustCompile(`\s*-\s*live$`),                           // "- Live"
		regexp.MustCompile(`\s*-\s*radio\s+edit$`),                   // "- Radio Edit"
		regexp.MustCompile(`\s*-\s*single\s+version$`),               // "- Single Version"
	}
	spaces = regexp.MustCompile(`\s+`)
)

// normalizeTitle lowercases a title and strips remaster and version suffixes.
func normalizeTitle(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))

	for _, pattern := range versionPatterns {
		normalized = pattern.ReplaceAllString(normalized, "")
	}

	normalized = spaces.ReplaceAllString(strings.TrimSpace(normalized), " ")
	return strings.TrimRight(normalized, " -")
}

// isSameArtist compares the main (first listed) artist, case-insensitive.
func isSameArtist(a, b string) bool {
	a, b = mainArtist(a), mainArtist(b)
	if a == "" || b == "" {
		return false
	}
	return strings.EqualFold(a, b)
}

func mainArtist(s string) string {
	if i := strings.IndexAny(s, ",&"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

func init() {
	Register("duplicate_title_filter", func() Filter { return NewDuplicateTitleFilter(nil) })
}
