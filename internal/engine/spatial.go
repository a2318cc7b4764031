package engine

import (
	"time"

	"github.com/verte-zerg/tuimind/internal/model"
)

const (
	// SpatialRounds is the number of rounds in a spatial game.
	SpatialRounds = 3
	// RevealPause separates the last reveal from the input phase.
	RevealPause = 500 * time.Millisecond
	// RoundDelay separates a perfect round from the next one.
	RoundDelay = 1000 * time.Millisecond
)

// Spatial is the spatial-recall game: remember which cells lit up, then pick
// them, over several rounds.
type Spatial struct {
	base

	round        int
	targets      []int
	targetSet    map[int]struct{}
	selected     []int
	selectedSet  map[int]struct{}
	lit          int
	score        int
	roundStarted time.Time
}

// NewSpatial returns an idle spatial engine.
func NewSpatial(deps Deps) *Spatial {
	return &Spatial{base: newBase(model.GameSpatial, deps), lit: -1}
}

// Start implements Engine.
func (s *Spatial) Start(level int) {
	if !s.begin(level) {
		return
	}
	s.startRound(1)
}

func (s *Spatial) startRound(round int) {
	cells := s.params.GridSize * s.params.GridSize
	s.round = round
	s.targets = s.deps.Generator.Targets(s.params.NumTargets, cells)
	s.targetSet = make(map[int]struct{}, len(s.targets))
	for _, c := range s.targets {
		s.targetSet[c] = struct{}{}
	}
	s.selected = nil
	s.selectedSet = map[int]struct{}{}
	s.lit = -1
	s.phase = PhaseShowing

	each := ms(s.params.DisplayTimeMs / s.params.NumTargets)
	for i, cell := range s.targets {
		s.after(each*time.Duration(i), func() { s.lit = cell })
	}
	revealEnd := each * time.Duration(len(s.targets))
	s.after(revealEnd, func() { s.lit = -1 })
	s.after(revealEnd+RevealPause, func() {
		s.phase = PhasePlaying
		s.roundStarted = s.deps.Clock.Now()
	})
}

// Select picks cell. Selections outside the input phase, out of range or
// repeating an earlier pick are ignored.
func (s *Spatial) Select(cell int) {
	if s.phase != PhasePlaying || cell < 0 || cell >= s.params.GridSize*s.params.GridSize {
		return
	}
	if _, ok := s.selectedSet[cell]; ok {
		return
	}
	s.selectedSet[cell] = struct{}{}
	s.selected = append(s.selected, cell)
	if len(s.selected) < s.params.NumTargets {
		return
	}

	correct := 0
	for _, c := range s.selected {
		if _, ok := s.targetSet[c]; ok {
			correct++
		}
	}
	accuracy := percent(correct, s.params.NumTargets)
	if correct < s.params.NumTargets {
		s.finish(model.Result{
			Score:     s.score,
			Accuracy:  accuracy,
			TimeSpent: s.elapsedSeconds(s.startedAt),
		})
		return
	}

	s.score += rate(s.params.NumTargets, s.elapsedSeconds(s.roundStarted))
	if s.round >= SpatialRounds {
		s.finish(model.Result{
			Score:     s.score,
			Accuracy:  accuracy,
			TimeSpent: s.elapsedSeconds(s.startedAt),
		})
		return
	}
	s.phase = PhaseShowing
	next := s.round + 1
	s.after(RoundDelay, func() { s.startRound(next) })
}

// Round returns the current round, starting at 1.
func (s *Spatial) Round() int { return s.round }

// Rounds returns the number of rounds in a game.
func (s *Spatial) Rounds() int { return SpatialRounds }

// Lit returns the cell currently revealed, or -1.
func (s *Spatial) Lit() int { return s.lit }

// Score returns the cumulative score of the perfect rounds so far.
func (s *Spatial) Score() int { return s.score }

// Targets returns a copy of this round's target cells.
func (s *Spatial) Targets() []int {
	return append([]int(nil), s.targets...)
}

// Selected returns a copy of this round's selections in order.
func (s *Spatial) Selected() []int {
	return append([]int(nil), s.selected...)
}

// IsSelected reports whether cell was picked this round.
func (s *Spatial) IsSelected(cell int) bool {
	_, ok := s.selectedSet[cell]
	return ok
}
