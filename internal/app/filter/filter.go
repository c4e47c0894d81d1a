// Package filter provides the acceptance chain run before a track is imported.
package filter

import (
	"context"
	"sort"
)

// Source identifies where an import candidate comes from.
type Source string

const (
	SourceUpload  Source = "UPLOAD"
	SourceSpotify Source = "SPOTIFY"
)

// Candidate is a track about to be appended to the playlist.
type Candidate struct {
	Title    string
	Artist   string
	Location string
	Source   Source
}

// Result represents the result of a filter check.
type Result struct {
	Accepted bool
	Code     string // e.g., "duplicate_track", "unsupported_format"
}

// Accept returns an accepted result.
func Accept() Result {
	return Result{Accepted: true}
}

// Reject returns a rejected result with the given code.
func Reject(code string) Result {
	return Result{Accepted: false, Code: code}
}

// Filter is the interface for import filters.
type Filter interface {
	// Name returns the filter name (used in config).
	Name() string
	// Description returns a human-readable description.
	Description() string
	// ReturnCodes returns the codes this filter can return.
	ReturnCodes() []string
	// ValidateConfig validates the filter configuration.
	ValidateConfig(settings map[string]any) error
	// AppliesTo returns true if this filter should run for the given source.
	AppliesTo(source Source) bool
	// Check performs the filter check.
	Check(ctx context.Context, c Candidate) Result
}

// registry holds registered filter factories.
var registry = make(map[string]func() Filter)

// Register registers a filter factory.
func Register(name string, factory func() Filter) {
	registry[name] = factory
}

// GetRegistered returns all registered filter factories.
func GetRegistered() map[string]func() Filter {
	return registry
}

// RegisteredNames returns the registered filter names in sorted order.
func RegisteredNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
