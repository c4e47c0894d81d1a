package filter

import "context"

// LocationLookup reports whether a location is already in the playlist.
type LocationLookup interface {
	Contains(location string) bool
}

// DuplicateLocationFilter rejects candidates whose location is already imported.
type DuplicateLocationFilter struct {
	lookup LocationLookup
}

// NewDuplicateLocationFilter creates a new duplicate location filter.
func NewDuplicateLocationFilter(lookup LocationLookup) *DuplicateLocationFilter {
	return &DuplicateLocationFilter{lookup: lookup}
}

func (f *DuplicateLocationFilter) Name() string {
	return "duplicate_location_filter"
}

func (f *DuplicateLocationFilter) Description() string {
	return "Rejects files or URLs that are already in the playlist (always on)"
}

func (f *DuplicateLocationFilter) ReturnCodes() []string {
	return []string{"duplicate_track"}
}

func (f *DuplicateLocationFilter) ValidateConfig(settings map[string]any) error {
	return nil
}

func (f *DuplicateLocationFilter) AppliesTo(source Source) bool {
	return true
}

func (f *DuplicateLocationFilter) Check(ctx context.Context, c Candidate) Result {
	if f.lookup != nil && f.lookup.Contains(c.Location) {
		return Reject("duplicate_track")
	}
	return Accept()
}

func init() {
	Register("duplicate_location_filter", func() Filter { return NewDuplicateLocationFilter(nil) })
}
