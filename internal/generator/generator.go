// Package generator builds randomized game content.
package generator

import (
	"math/rand"
	"time"
)

// Generator produces sequences, decks and target sets.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic Generator.
func NewSeeded(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Sequence draws count symbols uniformly from [0, alphabet). Repeats are allowed.
func (g *Generator) Sequence(count, alphabet int) []int {
	if count <= 0 || alphabet <= 0 {
		return nil
	}
	result := make([]int, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, g.rnd.Intn(alphabet))
	}
	return result
}

// Deck returns every symbol in [0, pairs) twice, shuffled.
func (g *Generator) Deck(pairs int) []int {
	if pairs <= 0 {
		return nil
	}
	deck := make([]int, 0, pairs*2)
	for i := 0; i < pairs; i++ {
		deck = append(deck, i, i)
	}
	g.rnd.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// Targets picks count distinct cells out of cells by rejection sampling, in
// draw order. count is capped at cells.
func (g *Generator) Targets(count, cells int) []int {
	if count <= 0 || cells <= 0 {
		return nil
	}
	if count > cells {
		count = cells
	}
	seen := make(map[int]struct{}, count)
	result := make([]int, 0, count)
	for len(result) < count {
		cell := g.rnd.Intn(cells)
		if _, ok := seen[cell]; ok {
			continue
		}
		seen[cell] = struct{}{}
		result = append(result, cell)
	}
	return result
}
