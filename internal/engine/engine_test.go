package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuimind/internal/generator"
	"github.com/verte-zerg/tuimind/internal/model"
	"github.com/verte-zerg/tuimind/internal/sched"
)

type harness struct {
	clock   *sched.ManualClock
	queue   *sched.Queue
	results []model.Result
}

func newHarness() *harness {
	clock := sched.NewManualClock(time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC))
	return &harness{clock: clock, queue: sched.NewQueue(clock)}
}

func (h *harness) deps(seed int64) Deps {
	return Deps{Scheduler: h.queue, Clock: h.clock, Generator: generator.NewSeeded(seed)}
}

func (h *harness) record(e Engine) {
	e.OnComplete(func(r model.Result) { h.results = append(h.results, r) })
}

func (h *harness) advance(d time.Duration) {
	h.clock.Advance(d)
	h.queue.RunDue(h.clock.Now())
}

func TestNewRejectsMissingSchedulerAndUnknownGame(t *testing.T) {
	_, err := New(model.GameSequence, Deps{})
	require.ErrorIs(t, err, ErrNoScheduler)

	h := newHarness()
	_, err = New(model.GameType("chess"), h.deps(1))
	require.Error(t, err)

	for _, g := range model.AllGameTypes() {
		e, err := New(g, h.deps(1))
		require.NoError(t, err)
		assert.Equal(t, g, e.GameType())
		assert.Equal(t, PhaseIdle, e.Phase())
	}
}

func TestStartClampsLevelAndIgnoresRestart(t *testing.T) {
	h := newHarness()
	s := NewSequence(h.deps(1))
	s.Start(0)
	assert.Equal(t, 1, s.Params().Level)
	assert.Equal(t, 4, s.Length())

	s.Start(20)
	assert.Equal(t, 1, s.Params().Level)
}

func TestPhaseString(t *testing.T) {
	assert.Equal(t, "showing", PhaseShowing.String())
	assert.Equal(t, "phase(42)", Phase(42).String())
}
