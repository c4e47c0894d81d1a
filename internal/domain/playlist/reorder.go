package playlist

import "github.com/osa030/tunedeck/internal/domain/track"

// Shuffle rebuilds the playlist in a uniformly random order (Fisher-Yates)
// and resets the cursor to the new head. No-op for fewer than two tracks.
func (p *Playlist) Shuffle() {
	if p.size < 2 {
		return
	}

	tracks := make([]*track.Track, 0, p.size)
	for i := p.head; i != none; i = p.nodes[i].next {
		tracks = append(tracks, p.nodes[i].track)
	}

	for i := len(tracks) - 1; i > 0; i-- {
		j := p.rng.IntN(i + 1)
		tracks[i], tracks[j] = tracks[j], tracks[i]
	}

	p.reset()
	for _, t := range tracks {
		p.Append(t)
	}
	p.cursor = p.head
}

// Move repositions the matching track so that its 0-based index becomes
// position, clamped to the valid range. The cursor keeps pointing at the
// same track. Returns false if no track matches.
func (p *Playlist) Move(id string, position int) bool {
	i := p.find(id)
	if i == none {
		return false
	}

	p.unlink(i)

	switch {
	case position <= 0:
		p.linkFirst(i)
	case position >= p.size:
		p.linkLast(i)
	default:
		at := p.head
		for k := 0; k < position-1; k++ {
			at = p.nodes[at].next
		}
		p.linkAfter(at, i)
	}
	return true
}
