package engine

import (
	"time"

	"github.com/verte-zerg/tuimind/internal/model"
)

// MismatchDelay is how long a mismatched pair stays face up.
const MismatchDelay = 1000 * time.Millisecond

// Card is one grid cell of the matching game.
type Card struct {
	Symbol  int
	FaceUp  bool
	Matched bool
	// Empty marks a cell without a card (odd grids).
	Empty bool
}

// Matching is the matching-pairs game.
type Matching struct {
	base

	cards    []Card
	open     []int
	attempts int
	matched  int
	waiting  bool
}

// NewMatching returns an idle matching engine.
func NewMatching(deps Deps) *Matching {
	return &Matching{base: newBase(model.GameMatching, deps)}
}

// Start implements Engine.
func (m *Matching) Start(level int) {
	if !m.begin(level) {
		return
	}
	cells := m.params.GridSize * m.params.GridSize
	deck := m.deps.Generator.Deck(m.params.TotalPairs)
	m.cards = make([]Card, cells)
	for i := range m.cards {
		if i < len(deck) {
			m.cards[i] = Card{Symbol: deck[i]}
		} else {
			m.cards[i] = Card{Symbol: -1, Empty: true}
		}
	}
	m.phase = PhasePlaying
}

// Flip turns the card at cell face up. Flips on open, matched or empty cells
// and flips while a mismatched pair is still showing are ignored.
func (m *Matching) Flip(cell int) {
	if m.phase != PhasePlaying || m.waiting || cell < 0 || cell >= len(m.cards) {
		return
	}
	card := &m.cards[cell]
	if card.Empty || card.FaceUp || card.Matched {
		return
	}
	card.FaceUp = true
	m.open = append(m.open, cell)
	if len(m.open) < 2 {
		return
	}

	m.attempts++
	first, second := m.open[0], m.open[1]
	m.open = m.open[:0]
	if m.cards[first].Symbol == m.cards[second].Symbol {
		m.cards[first].Matched = true
		m.cards[second].Matched = true
		m.matched++
		if m.matched == m.params.TotalPairs {
			m.complete()
		}
		return
	}

	m.waiting = true
	m.after(MismatchDelay, func() {
		m.cards[first].FaceUp = false
		m.cards[second].FaceUp = false
		m.waiting = false
	})
}

func (m *Matching) complete() {
	m.finish(model.Result{
		Score:     rate(m.params.TotalPairs, m.attempts),
		Accuracy:  percent(m.params.TotalPairs, atLeastOne(m.attempts)),
		TimeSpent: m.elapsedSeconds(m.startedAt),
	})
}

// Cards returns a copy of the grid.
func (m *Matching) Cards() []Card {
	return append([]Card(nil), m.cards...)
}

// Attempts returns the number of pairs compared so far.
func (m *Matching) Attempts() int { return m.attempts }

// MatchedPairs returns the number of pairs found.
func (m *Matching) MatchedPairs() int { return m.matched }

// Waiting reports whether a mismatched pair is about to flip back.
func (m *Matching) Waiting() bool { return m.waiting }
