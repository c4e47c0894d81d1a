package playlist

import (
	"strings"

	"github.com/osa030/tunedeck/internal/domain/track"
)

// lessFunc reports whether a must be ordered strictly before b.
type lessFunc func(a, b *track.Track) bool

func byTitle(a, b *track.Track) bool {
	return strings.ToLower(a.Title) < strings.ToLower(b.Title)
}

func byNewest(a, b *track.Track) bool {
	return a.AddedAt().After(b.AddedAt())
}

// SortByTitle orders tracks by title, case-insensitive, ascending.
// The sort is stable. The cursor is reset to the head.
func (p *Playlist) SortByTitle() {
	p.sort(byTitle)
}

// SortByDate orders tracks by added time, newest first.
// The sort is stable. The cursor is reset to the head.
func (p *Playlist) SortByDate() {
	p.sort(byNewest)
}

func (p *Playlist) sort(less lessFunc) {
	if p.size < 2 {
		return
	}
	p.head = p.mergeSort(p.head, less)
	p.relink()
}

// mergeSort sorts the chain starting at head using forward links only.
// Recursion depth is O(log n); prev links are stale until relink.
func (p *Playlist) mergeSort(head int, less lessFunc) int {
	if head == none || p.nodes[head].next == none {
		return head
	}
	second := p.split(head)
	return p.merge(p.mergeSort(head, less), p.mergeSort(second, less), less)
}

// split cuts the chain after its middle node and returns the second half.
// slow steps one node, fast steps two.
func (p *Playlist) split(head int) int {
	slow, fast := head, head
	for {
		n := p.nodes[fast].next
		if n == none || p.nodes[n].next == none {
			break
		}
		fast = p.nodes[n].next
		slow = p.nodes[slow].next
	}
	second := p.nodes[slow].next
	p.nodes[slow].next = none
	return second
}

// merge splices two sorted chains into one. On ties the node from a wins,
// which keeps the sort stable.
func (p *Playlist) merge(a, b int, less lessFunc) int {
	head, last := none, none
	take := func(i int) {
		if last == none {
			head = i
		} else {
			p.nodes[last].next = i
		}
		last = i
	}

	for a != none && b != none {
		if less(p.nodes[b].track, p.nodes[a].track) {
			take(b)
			b = p.nodes[b].next
		} else {
			take(a)
			a = p.nodes[a].next
		}
	}
	if a != none {
		take(a)
	} else {
		take(b)
	}
	return head
}

// relink recomputes prev links, tail and size from the forward chain
// and resets the cursor to the head.
func (p *Playlist) relink() {
	prev := none
	p.size = 0
	for i := p.head; i != none; i = p.nodes[i].next {
		p.nodes[i].prev = prev
		prev = i
		p.size++
	}
	p.tail = prev
	p.cursor = p.head
}
