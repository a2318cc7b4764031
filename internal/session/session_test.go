package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/tuimind/internal/engine"
	"github.com/verte-zerg/tuimind/internal/generator"
	"github.com/verte-zerg/tuimind/internal/model"
	"github.com/verte-zerg/tuimind/internal/sched"
)

type fixture struct {
	clock *sched.ManualClock
	queue *sched.Queue
}

func newFixture() *fixture {
	clock := sched.NewManualClock(time.Date(2026, 1, 2, 8, 0, 0, 0, time.UTC))
	return &fixture{clock: clock, queue: sched.NewQueue(clock)}
}

func (f *fixture) factory(game model.GameType) (engine.Engine, error) {
	return engine.New(game, engine.Deps{
		Scheduler: f.queue,
		Clock:     f.clock,
		Generator: generator.NewSeeded(21),
	})
}

func (f *fixture) advance(d time.Duration) {
	f.clock.Advance(d)
	f.queue.RunDue(f.clock.Now())
}

func playMatching(t *testing.T, s *Session) {
	t.Helper()
	m, ok := s.Engine().(*engine.Matching)
	require.True(t, ok)
	pairs := map[int][]int{}
	for i, c := range m.Cards() {
		if !c.Empty {
			pairs[c.Symbol] = append(pairs[c.Symbol], i)
		}
	}
	for _, cells := range pairs {
		m.Flip(cells[0])
		m.Flip(cells[1])
	}
}

func TestSessionLifecycle(t *testing.T) {
	f := newFixture()
	var got []model.Result
	s := New(model.GameMatching, 1, f.factory, func(r model.Result) { got = append(got, r) })
	require.Equal(t, PhaseIntro, s.Phase())
	assert.Contains(t, s.Instructions(), "8 pairs")
	assert.Nil(t, s.Engine())

	s.Continue()
	assert.Empty(t, got)

	require.NoError(t, s.Start())
	require.Equal(t, PhasePlaying, s.Phase())
	playMatching(t, s)

	require.Equal(t, PhaseSummary, s.Phase())
	assert.Equal(t, 100, s.Result().Score)
	assert.Empty(t, got, "continue handler must wait for the summary to be dismissed")

	s.Exit()
	require.Equal(t, PhaseSummary, s.Phase())

	s.Continue()
	s.Continue()
	require.Len(t, got, 1)
	assert.Equal(t, model.Result{Score: 100, Accuracy: 100, TimeSpent: 1}, got[0])
	assert.Equal(t, PhaseClosed, s.Phase())
}

func TestSessionExitDuringReveal(t *testing.T) {
	f := newFixture()
	called := false
	s := New(model.GameSequence, 3, f.factory, func(model.Result) { called = true })
	require.NoError(t, s.Start())
	f.advance(500 * time.Millisecond)
	require.Positive(t, f.queue.Len())

	s.Exit()
	assert.Equal(t, PhaseExited, s.Phase())
	assert.Equal(t, 0, f.queue.Len())
	assert.Equal(t, engine.PhaseCancelled, s.Engine().Phase())

	f.advance(time.Minute)
	s.Continue()
	assert.False(t, called)
	require.NoError(t, s.Start())
	assert.Equal(t, PhaseExited, s.Phase())
}

func TestSessionExitFromIntro(t *testing.T) {
	f := newFixture()
	s := New(model.GameSpatial, -4, f.factory, nil)
	assert.Equal(t, 1, s.Level())
	s.Exit()
	assert.Equal(t, PhaseExited, s.Phase())
	assert.False(t, s.Phase().Active())
}

func TestSessionFactoryError(t *testing.T) {
	boom := errors.New("boom")
	s := New(model.GameSequence, 1, func(model.GameType) (engine.Engine, error) { return nil, boom }, nil)
	err := s.Start()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, PhaseIntro, s.Phase())
}

func TestManagerKeepsOneActiveSession(t *testing.T) {
	f := newFixture()
	mgr := NewManager(f.factory)
	first := mgr.StartSession(model.GameSpatial, 2, nil)
	require.NoError(t, first.Start())
	require.Positive(t, f.queue.Len())

	second := mgr.StartSession(model.GameSequence, 1, nil)
	assert.Equal(t, PhaseExited, first.Phase())
	assert.Equal(t, 0, f.queue.Len())
	assert.Same(t, second, mgr.Current())
	assert.Equal(t, PhaseIntro, second.Phase())
}

func TestManagerDiscardsPendingSummary(t *testing.T) {
	f := newFixture()
	mgr := NewManager(f.factory)
	called := false
	first := mgr.StartSession(model.GameMatching, 1, func(model.Result) { called = true })
	require.NoError(t, first.Start())
	playMatching(t, first)
	require.Equal(t, PhaseSummary, first.Phase())

	mgr.StartSession(model.GameMatching, 1, nil)
	first.Continue()
	assert.False(t, called)
}
