package playlist

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlaylist_Shuffle(t *testing.T) {
	p := filled(10, WithRand(rand.New(rand.NewPCG(42, 7))))
	p.Next()
	p.Next()

	original := ids(p.Snapshot())
	p.Shuffle()
	shuffled := ids(p.Snapshot())

	assert.Equal(t, 10, p.Len())
	assert.ElementsMatch(t, original, shuffled)
	assert.NotEqual(t, original, shuffled)
	assert.Equal(t, shuffled[0], p.Current().ID(), "cursor resets to the new head")
	assertLinks(t, p)
}

func TestPlaylist_ShuffleSmall(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		p := New()
		p.Shuffle()
		assertLinks(t, p)
	})

	t.Run("single keeps cursor", func(t *testing.T) {
		p := filled(1)
		p.Shuffle()
		assert.Equal(t, "id1", p.Current().ID())
		assertLinks(t, p)
	})
}

func TestPlaylist_ShuffleHeadDistribution(t *testing.T) {
	const (
		n    = 5
		runs = 5000
	)
	p := filled(n, WithRand(rand.New(rand.NewPCG(3, 9))))

	counts := map[string]int{}
	for i := 0; i < runs; i++ {
		p.Shuffle()
		counts[p.Current().ID()]++
	}

	require.Len(t, counts, n, "every track should reach the head")
	expected := runs / n
	for id, c := range counts {
		assert.InDelta(t, expected, c, float64(expected)*0.2, "head frequency of %s", id)
	}
	assertLinks(t, p)
}

func TestPlaylist_ShuffleReachesAllPermutations(t *testing.T) {
	p := filled(3, WithRand(rand.New(rand.NewPCG(11, 13))))

	seen := map[string]bool{}
	for i := 0; i < 600; i++ {
		p.Shuffle()
		seen[fmt.Sprint(ids(p.Snapshot()))] = true
	}
	assert.Len(t, seen, 6)
}

func TestPlaylist_Move(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		position int
		want     []string
	}{
		{"to head", "id3", 0, []string{"id3", "id1", "id2", "id4", "id5"}},
		{"negative clamps to head", "id4", -7, []string{"id4", "id1", "id2", "id3", "id5"}},
		{"to tail", "id2", 4, []string{"id1", "id3", "id4", "id5", "id2"}},
		{"past end clamps to tail", "id1", 99, []string{"id2", "id3", "id4", "id5", "id1"}},
		{"forward into middle", "id1", 2, []string{"id2", "id3", "id1", "id4", "id5"}},
		{"backward into middle", "id5", 1, []string{"id1", "id5", "id2", "id3", "id4"}},
		{"same position", "id3", 2, []string{"id1", "id2", "id3", "id4", "id5"}},
		{"head to tail-1", "id1", 3, []string{"id2", "id3", "id4", "id1", "id5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := filled(5)
			assert.True(t, p.Move(tt.id, tt.position))
			got := ids(p.Snapshot())
			assert.Equal(t, tt.want, got)

			wantIndex := min(max(tt.position, 0), p.Len()-1)
			assert.Equal(t, wantIndex, slices.Index(got, tt.id))
			assertLinks(t, p)
		})
	}
}

func TestPlaylist_MoveKeepsCursor(t *testing.T) {
	t.Run("other track moves", func(t *testing.T) {
		p := filled(4)
		p.Select("id2")
		p.Move("id4", 0)
		assert.Equal(t, "id2", p.Current().ID())
		assertLinks(t, p)
	})

	t.Run("current track moves", func(t *testing.T) {
		p := filled(4)
		p.Select("id2")
		p.Move("id2", 3)
		assert.Equal(t, "id2", p.Current().ID())
		assert.Equal(t, 3, p.CurrentIndex())
		assertLinks(t, p)
	})
}

func TestPlaylist_MoveSingle(t *testing.T) {
	p := filled(1)
	assert.True(t, p.Move("id1", 5))
	assert.Equal(t, []string{"id1"}, ids(p.Snapshot()))
	assertLinks(t, p)
}

func TestPlaylist_MoveNotFound(t *testing.T) {
	p := filled(3)
	assert.False(t, p.Move("missing", 0))
	assert.Equal(t, []string{"id1", "id2", "id3"}, ids(p.Snapshot()))
	assertLinks(t, p)
}
