package engine

import (
	"time"

	"github.com/verte-zerg/tuimind/internal/model"
)

// SequenceSymbols is the size of the sequence alphabet.
const SequenceSymbols = 4

// Sequence is the sequence-recall game: watch the pads light up, then repeat
// the order.
type Sequence struct {
	base

	sequence []int
	entered  int
	lit      int
}

// NewSequence returns an idle sequence engine.
func NewSequence(deps Deps) *Sequence {
	return &Sequence{base: newBase(model.GameSequence, deps), lit: -1}
}

// Start implements Engine.
func (s *Sequence) Start(level int) {
	if !s.begin(level) {
		return
	}
	s.sequence = s.deps.Generator.Sequence(s.params.SequenceLength, SequenceSymbols)
	s.phase = PhaseShowing

	speed := ms(s.params.DisplaySpeedMs)
	for i, sym := range s.sequence {
		s.after(speed*2*time.Duration(i), func() { s.lit = sym })
		s.after(speed*(2*time.Duration(i)+1), func() { s.lit = -1 })
	}
	s.after(speed*2*time.Duration(len(s.sequence)), func() {
		s.lit = -1
		s.phase = PhasePlaying
	})
}

// Press handles a tap on pad symbol. Taps outside the input phase or on
// unknown pads are ignored.
func (s *Sequence) Press(symbol int) {
	if s.phase != PhasePlaying || symbol < 0 || symbol >= SequenceSymbols {
		return
	}
	if s.sequence[s.entered] != symbol {
		s.finish(model.Result{
			Score:     0,
			Accuracy:  percent(s.entered, len(s.sequence)),
			TimeSpent: s.elapsedSeconds(s.startedAt),
		})
		return
	}
	s.entered++
	if s.entered == len(s.sequence) {
		spent := s.elapsedSeconds(s.startedAt)
		s.finish(model.Result{
			Score:     rate(len(s.sequence), spent),
			Accuracy:  100,
			TimeSpent: spent,
		})
	}
}

// Lit returns the pad currently highlighted, or -1.
func (s *Sequence) Lit() int { return s.lit }

// Length returns the length of the sequence to repeat.
func (s *Sequence) Length() int { return len(s.sequence) }

// Entered returns how many symbols were repeated correctly so far.
func (s *Sequence) Entered() int { return s.entered }

// Symbols returns a copy of the generated sequence.
func (s *Sequence) Symbols() []int {
	return append([]int(nil), s.sequence...)
}
