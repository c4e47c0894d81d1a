// Package playlist provides the Playlist domain entity: an ordered,
// doubly linked sequence of tracks with a "now playing" cursor.
//
// Nodes live in an arena and are addressed by index. Freed slots are
// recycled through a free list, so indices held by head, tail and cursor
// stay valid for as long as the node is linked.
//
// A Playlist is not safe for concurrent use; callers serialize access.
package playlist

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"time"

	"github.com/osa030/tunedeck/internal/domain/track"
)

// none marks the absence of a node index.
const none = -1

// node is one arena slot. A free slot has a nil track.
type node struct {
	track *track.Track
	prev  int
	next  int
}

// Playlist is an ordered collection of tracks with a cursor.
type Playlist struct {
	nodes []node
	free  []int

	head   int
	tail   int
	cursor int
	size   int

	now func() time.Time
	rng *rand.Rand
}

// Option configures a Playlist.
type Option func(*Playlist)

// WithClock sets the time source used by MarkPlayed.
func WithClock(now func() time.Time) Option {
	return func(p *Playlist) { p.now = now }
}

// WithRand sets the random source used by Shuffle.
func WithRand(rng *rand.Rand) Option {
	return func(p *Playlist) { p.rng = rng }
}

// New creates an empty playlist.
func New(opts ...Option) *Playlist {
	p := &Playlist{
		head:   none,
		tail:   none,
		cursor: none,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = newRand()
	}
	return p
}

// newRand returns a PCG source seeded from crypto/rand, falling back to the clock.
func newRand() *rand.Rand {
	var buf [16]byte
	if _, err := cryptoRand.Read(buf[:]); err != nil {
		ns := uint64(time.Now().UnixNano())
		return rand.New(rand.NewPCG(ns, ns>>1|1))
	}
	return rand.New(rand.NewPCG(
		binary.LittleEndian.Uint64(buf[:8]),
		binary.LittleEndian.Uint64(buf[8:]),
	))
}

// Len returns the number of tracks.
func (p *Playlist) Len() int {
	return p.size
}

// IsEmpty reports whether the playlist has no tracks.
func (p *Playlist) IsEmpty() bool {
	return p.size == 0
}

// Contains reports whether any track references the given location.
func (p *Playlist) Contains(location string) bool {
	for i := p.head; i != none; i = p.nodes[i].next {
		if p.nodes[i].track.Location() == location {
			return true
		}
	}
	return false
}

// Append inserts a track at the tail. The first track appended to an
// empty playlist also becomes the cursor.
func (p *Playlist) Append(t *track.Track) {
	i := p.alloc(t)
	p.linkLast(i)
	if p.cursor == none {
		p.cursor = i
	}
}

// Remove unlinks the track with the given id. If it was current, the
// cursor moves to the next track, else the previous one, else none.
// Returns false if no track matches.
func (p *Playlist) Remove(id string) bool {
	i := p.find(id)
	if i == none {
		return false
	}

	if p.cursor == i {
		if n := p.nodes[i].next; n != none {
			p.cursor = n
		} else {
			p.cursor = p.nodes[i].prev
		}
	}

	p.unlink(i)
	p.release(i)
	return true
}

// Find returns the track with the given id, or nil.
func (p *Playlist) Find(id string) *track.Track {
	i := p.find(id)
	if i == none {
		return nil
	}
	return p.nodes[i].track
}

// find returns the node index of the track with the given id.
func (p *Playlist) find(id string) int {
	for i := p.head; i != none; i = p.nodes[i].next {
		if p.nodes[i].track.ID() == id {
			return i
		}
	}
	return none
}

// alloc stores t in a free slot (or a new one) and returns its index.
func (p *Playlist) alloc(t *track.Track) int {
	if n := len(p.free); n > 0 {
		i := p.free[n-1]
		p.free = p.free[:n-1]
		p.nodes[i] = node{track: t, prev: none, next: none}
		return i
	}
	p.nodes = append(p.nodes, node{track: t, prev: none, next: none})
	return len(p.nodes) - 1
}

// release returns a detached slot to the free list.
func (p *Playlist) release(i int) {
	p.nodes[i] = node{prev: none, next: none}
	p.free = append(p.free, i)
}

// linkLast attaches a detached node after the tail.
func (p *Playlist) linkLast(i int) {
	p.nodes[i].prev = p.tail
	p.nodes[i].next = none
	if p.tail == none {
		p.head = i
	} else {
		p.nodes[p.tail].next = i
	}
	p.tail = i
	p.size++
}

// linkFirst attaches a detached node before the head.
func (p *Playlist) linkFirst(i int) {
	p.nodes[i].prev = none
	p.nodes[i].next = p.head
	if p.head == none {
		p.tail = i
	} else {
		p.nodes[p.head].prev = i
	}
	p.head = i
	p.size++
}

// linkAfter attaches a detached node right after at, which must be linked.
func (p *Playlist) linkAfter(at, i int) {
	if at == p.tail {
		p.linkLast(i)
		return
	}
	n := p.nodes[at].next
	p.nodes[i].prev = at
	p.nodes[i].next = n
	p.nodes[at].next = i
	p.nodes[n].prev = i
	p.size++
}

// unlink detaches node i, patching its neighbours and the endpoints.
// The cursor is left untouched.
func (p *Playlist) unlink(i int) {
	prev, next := p.nodes[i].prev, p.nodes[i].next

	if prev == none {
		p.head = next
	} else {
		p.nodes[prev].next = next
	}
	if next == none {
		p.tail = prev
	} else {
		p.nodes[next].prev = prev
	}

	p.nodes[i].prev = none
	p.nodes[i].next = none
	p.size--
}

// reset drops every node and the cursor.
func (p *Playlist) reset() {
	p.nodes = p.nodes[:0]
	p.free = p.free[:0]
	p.head, p.tail, p.cursor = none, none, none
	p.size = 0
}
