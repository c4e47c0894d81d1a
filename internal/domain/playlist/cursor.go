package playlist

import "github.com/osa030/tunedeck/internal/domain/track"

// Current returns the track under the cursor, or nil when empty.
func (p *Playlist) Current() *track.Track {
	if p.cursor == none {
		return nil
	}
	return p.nodes[p.cursor].track
}

// Next moves the cursor forward and returns the current track.
// At the tail the cursor stays put; there is no wraparound.
func (p *Playlist) Next() *track.Track {
	if p.cursor != none && p.nodes[p.cursor].next != none {
		p.cursor = p.nodes[p.cursor].next
	}
	return p.Current()
}

// Prev moves the cursor backward and returns the current track.
// At the head the cursor stays put.
func (p *Playlist) Prev() *track.Track {
	if p.cursor != none && p.nodes[p.cursor].prev != none {
		p.cursor = p.nodes[p.cursor].prev
	}
	return p.Current()
}

// Select moves the cursor to the track with the given id.
// Returns false if no track matches; the cursor is then unchanged.
func (p *Playlist) Select(id string) bool {
	i := p.find(id)
	if i == none {
		return false
	}
	p.cursor = i
	return true
}

// CurrentIndex returns the 0-based position of the cursor, or -1 when empty.
func (p *Playlist) CurrentIndex() int {
	pos := 0
	for i := p.head; i != none; i = p.nodes[i].next {
		if i == p.cursor {
			return pos
		}
		pos++
	}
	return -1
}
