package playlist

import (
	"slices"

	"github.com/osa030/tunedeck/internal/domain/track"
)

// DefaultRecentLimit is the number of entries RecentlyPlayed returns
// when no positive limit is given.
const DefaultRecentLimit = 20

// Snapshot returns every track, head to tail, as records.
func (p *Playlist) Snapshot() []track.Record {
	records := make([]track.Record, 0, p.size)
	for i := p.head; i != none; i = p.nodes[i].next {
		records = append(records, p.nodes[i].track.ToRecord())
	}
	return records
}

// Favorites returns the favorite tracks in playlist order.
func (p *Playlist) Favorites() []track.Record {
	records := make([]track.Record, 0)
	for i := p.head; i != none; i = p.nodes[i].next {
		if t := p.nodes[i].track; t.IsFavorite() {
			records = append(records, t.ToRecord())
		}
	}
	return records
}

// ToggleFavorite flips the favorite flag of the matching track.
func (p *Playlist) ToggleFavorite(id string) bool {
	t := p.Find(id)
	if t == nil {
		return false
	}
	t.ToggleFavorite()
	return true
}

// MarkPlayed stamps the matching track with the current time and bumps its play count.
func (p *Playlist) MarkPlayed(id string) bool {
	t := p.Find(id)
	if t == nil {
		return false
	}
	t.MarkPlayed(p.now())
	return true
}

// RecentlyPlayed returns played tracks, most recent first, truncated to limit.
// Tracks played at the same instant keep their playlist order.
func (p *Playlist) RecentlyPlayed(limit int) []track.Record {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	played := make([]*track.Track, 0)
	for i := p.head; i != none; i = p.nodes[i].next {
		if t := p.nodes[i].track; t.LastPlayed() != nil {
			played = append(played, t)
		}
	}

	slices.SortStableFunc(played, func(a, b *track.Track) int {
		return b.LastPlayed().Compare(*a.LastPlayed())
	})

	if len(played) > limit {
		played = played[:limit]
	}

	records := make([]track.Record, len(played))
	for i, t := range played {
		records[i] = t.ToRecord()
	}
	return records
}
