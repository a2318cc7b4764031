package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceRevealTiming(t *testing.T) {
	h := newHarness()
	s := NewSequence(h.deps(11))
	s.Start(1)
	require.Equal(t, PhaseShowing, s.Phase())
	syms := s.Symbols()
	require.Len(t, syms, 4)

	h.advance(0)
	assert.Equal(t, syms[0], s.Lit())
	h.advance(750 * time.Millisecond)
	assert.Equal(t, -1, s.Lit())
	h.advance(750 * time.Millisecond)
	assert.Equal(t, syms[1], s.Lit())

	// total reveal is 2 * 4 * 750ms
	h.advance(6000*time.Millisecond - 1500*time.Millisecond - time.Millisecond)
	assert.Equal(t, PhaseShowing, s.Phase())
	h.advance(time.Millisecond)
	assert.Equal(t, PhasePlaying, s.Phase())
	assert.Equal(t, -1, s.Lit())
	assert.Equal(t, 0, h.queue.Len())
}

func TestSequenceIgnoresInputWhileShowing(t *testing.T) {
	h := newHarness()
	s := NewSequence(h.deps(11))
	s.Start(1)
	s.Press(s.Symbols()[0])
	assert.Equal(t, 0, s.Entered())
	assert.Equal(t, PhaseShowing, s.Phase())
}

func TestSequencePerfectRun(t *testing.T) {
	h := newHarness()
	s := NewSequence(h.deps(5))
	h.record(s)
	s.Start(1)
	h.advance(6 * time.Second)
	require.Equal(t, PhasePlaying, s.Phase())

	h.advance(4 * time.Second)
	s.Press(7)
	for _, sym := range s.Symbols() {
		s.Press(sym)
	}
	require.Equal(t, PhaseComplete, s.Phase())
	require.Len(t, h.results, 1)
	r := h.results[0]
	assert.Equal(t, 100, r.Accuracy)
	assert.Equal(t, 10, r.TimeSpent)
	assert.Equal(t, 40, r.Score)

	s.Press(s.Symbols()[0])
	assert.Len(t, h.results, 1)
}

func TestSequenceMismatchEndsGame(t *testing.T) {
	h := newHarness()
	s := NewSequence(h.deps(9))
	h.record(s)
	s.Start(1)
	h.advance(6 * time.Second)
	syms := s.Symbols()

	s.Press(syms[0])
	s.Press(syms[1])
	s.Press((syms[2] + 1) % SequenceSymbols)

	require.Equal(t, PhaseComplete, s.Phase())
	require.Len(t, h.results, 1)
	assert.Equal(t, 50, h.results[0].Accuracy)
	assert.Equal(t, 0, h.results[0].Score)
	assert.Equal(t, 6, h.results[0].TimeSpent)
}

func TestSequenceCancelDuringReveal(t *testing.T) {
	h := newHarness()
	s := NewSequence(h.deps(3))
	h.record(s)
	s.Start(5)
	h.advance(time.Second)
	s.Cancel()

	assert.Equal(t, PhaseCancelled, s.Phase())
	assert.Equal(t, 0, h.queue.Len())
	h.advance(time.Minute)
	assert.Equal(t, PhaseCancelled, s.Phase())
	s.Press(s.Symbols()[0])
	assert.Empty(t, h.results)
}
