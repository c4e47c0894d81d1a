package playlist

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/osa030/tunedeck/internal/domain/track"
)

// fruits appends Zebra, Apple, Mango with strictly increasing added times.
func fruits() *Playlist {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := New()
	for i, title := range []string{"Zebra", "Apple", "Mango"} {
		p.Append(track.New(title, "Artist", "path"+title,
			track.WithAddedAt(base.Add(time.Duration(i)*time.Second))))
	}
	return p
}

func TestPlaylist_SortByTitle(t *testing.T) {
	p := fruits()
	p.Next()

	p.SortByTitle()

	assert.Equal(t, []string{"Apple", "Mango", "Zebra"}, titles(p.Snapshot()))
	assert.Equal(t, "Apple", p.nodes[p.head].track.Title)
	assert.Equal(t, "Zebra", p.nodes[p.tail].track.Title)
	assert.Equal(t, "Apple", p.Current().Title, "cursor resets to head")
	assertLinks(t, p)
}

func TestPlaylist_SortByDate(t *testing.T) {
	p := fruits()

	p.SortByDate()

	assert.Equal(t, []string{"Mango", "Apple", "Zebra"}, titles(p.Snapshot()))
	assert.Equal(t, "Mango", p.nodes[p.head].track.Title)
	assert.Equal(t, "Zebra", p.nodes[p.tail].track.Title)
	assert.Equal(t, "Mango", p.Current().Title)
	assertLinks(t, p)
}

func TestPlaylist_SortIsIdempotent(t *testing.T) {
	p := fruits()

	p.SortByTitle()
	once := ids(p.Snapshot())
	p.SortByTitle()
	assert.Equal(t, once, ids(p.Snapshot()))

	p.SortByDate()
	once = ids(p.Snapshot())
	p.SortByDate()
	assert.Equal(t, once, ids(p.Snapshot()))
	assertLinks(t, p)
}

func TestPlaylist_SortByTitleCaseInsensitive(t *testing.T) {
	p := New()
	for _, title := range []string{"banana", "Apple", "cherry", "apricot"} {
		p.Append(track.New(title, "A", title))
	}

	p.SortByTitle()

	assert.Equal(t, []string{"Apple", "apricot", "banana", "cherry"}, titles(p.Snapshot()))
}

func TestPlaylist_SortByTitleStable(t *testing.T) {
	p := New()
	for i, title := range []string{"same", "Other", "SAME", "Same", "other"} {
		p.Append(track.New(title, "A", fmt.Sprint(i), track.WithID(fmt.Sprintf("id%d", i))))
	}

	p.SortByTitle()

	assert.Equal(t, []string{"id1", "id4", "id0", "id2", "id3"}, ids(p.Snapshot()))
	assertLinks(t, p)
}

func TestPlaylist_SortByDateStable(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p := New()
	p.Append(track.New("a", "A", "a", track.WithID("a"), track.WithAddedAt(at)))
	p.Append(track.New("b", "A", "b", track.WithID("b"), track.WithAddedAt(at.Add(time.Hour))))
	p.Append(track.New("c", "A", "c", track.WithID("c"), track.WithAddedAt(at)))

	p.SortByDate()

	assert.Equal(t, []string{"b", "a", "c"}, ids(p.Snapshot()))
}

func TestPlaylist_SortSmall(t *testing.T) {
	empty := New()
	empty.SortByTitle()
	empty.SortByDate()
	assertLinks(t, empty)

	single := filled(1)
	single.SortByTitle()
	assert.Equal(t, []string{"id1"}, ids(single.Snapshot()))
	assertLinks(t, single)
}

func TestPlaylist_SortMatchesSlicesSort(t *testing.T) {
	rng := rand.New(rand.NewPCG(5, 8))
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	for _, n := range []int{2, 3, 7, 64, 257} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			p := New()
			for i := 0; i < n; i++ {
				title := fmt.Sprintf("T%03d", rng.IntN(n))
				added := base.Add(time.Duration(rng.IntN(n)) * time.Minute)
				p.Append(track.New(title, "A", fmt.Sprint(i),
					track.WithID(fmt.Sprint(i)), track.WithAddedAt(added)))
			}

			// Remove a few to leave holes in the arena.
			p.Remove("0")
			p.Remove(fmt.Sprint(n / 2))

			want := p.Snapshot()
			slices.SortStableFunc(want, func(a, b track.Record) int {
				return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
			})
			p.SortByTitle()
			assert.Equal(t, ids(want), ids(p.Snapshot()))
			assertLinks(t, p)

			want = p.Snapshot()
			slices.SortStableFunc(want, func(a, b track.Record) int {
				return strings.Compare(b.AddedAt, a.AddedAt)
			})
			p.SortByDate()
			assert.Equal(t, ids(want), ids(p.Snapshot()))
			assertLinks(t, p)
		})
	}
}
