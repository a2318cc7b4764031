// Package engine implements the game state machines.
//
// Engines never block: every reveal step and delay is a timer on the injected
// scheduler, and Cancel drops all of them so nothing fires into a torn-down game.
package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/verte-zerg/tuimind/internal/difficulty"
	"github.com/verte-zerg/tuimind/internal/generator"
	"github.com/verte-zerg/tuimind/internal/model"
	"github.com/verte-zerg/tuimind/internal/sched"
)

// Phase is the lifecycle state of an engine.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseShowing
	PhasePlaying
	PhaseComplete
	PhaseCancelled
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseShowing:
		return "showing"
	case PhasePlaying:
		return "playing"
	case PhaseComplete:
		return "complete"
	case PhaseCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Engine is the contract shared by all games.
type Engine interface {
	GameType() model.GameType
	// Start derives the parameters for level and begins the game. It has no
	// effect once the engine has left the idle phase.
	Start(level int)
	// Cancel drops all pending timers. No completion fires afterwards.
	Cancel()
	Phase() Phase
	Level() int
	Params() difficulty.Params
	// OnComplete registers the callback fired exactly once when the game ends.
	OnComplete(fn func(model.Result))
}

// Deps are the collaborators an engine needs.
type Deps struct {
	Scheduler sched.Scheduler
	Clock     sched.Clock
	Generator *generator.Generator
}

// ErrNoScheduler is returned when Deps has no scheduler.
var ErrNoScheduler = errors.New("engine requires a scheduler")

// New builds the engine for game.
func New(game model.GameType, deps Deps) (Engine, error) {
	if deps.Scheduler == nil {
		return nil, ErrNoScheduler
	}
	if deps.Clock == nil {
		deps.Clock = sched.SystemClock{}
	}
	if deps.Generator == nil {
		deps.Generator = generator.New()
	}
	switch game {
	case model.GameSequence:
		return NewSequence(deps), nil
	case model.GameMatching:
		return NewMatching(deps), nil
	case model.GameSpatial:
		return NewSpatial(deps), nil
	default:
		return nil, fmt.Errorf("unknown game type %q", game)
	}
}

// base holds the lifecycle and timer bookkeeping common to every engine.
type base struct {
	deps       Deps
	game       model.GameType
	params     difficulty.Params
	phase      Phase
	startedAt  time.Time
	timers     map[sched.Token]struct{}
	onComplete func(model.Result)
}

func newBase(game model.GameType, deps Deps) base {
	if deps.Clock == nil {
		deps.Clock = sched.SystemClock{}
	}
	if deps.Generator == nil {
		deps.Generator = generator.New()
	}
	return base{
		deps:   deps,
		game:   game,
		timers: map[sched.Token]struct{}{},
	}
}

func (b *base) GameType() model.GameType         { return b.game }
func (b *base) Phase() Phase                     { return b.phase }
func (b *base) Level() int                       { return b.params.Level }
func (b *base) Params() difficulty.Params        { return b.params }
func (b *base) OnComplete(fn func(model.Result)) { b.onComplete = fn }

// Cancel implements Engine.
func (b *base) Cancel() {
	b.cancelTimers()
	if b.phase != PhaseComplete {
		b.phase = PhaseCancelled
	}
}

// begin moves an idle engine to running state. It reports false when the
// engine was already started.
func (b *base) begin(level int) bool {
	if b.phase != PhaseIdle {
		return false
	}
	b.params = difficulty.For(b.game, level)
	b.startedAt = b.deps.Clock.Now()
	return true
}

// after schedules fn and tracks its token until it fires.
func (b *base) after(d time.Duration, fn func()) {
	var tok sched.Token
	tok = b.deps.Scheduler.Schedule(d, func() {
		delete(b.timers, tok)
		fn()
	})
	b.timers[tok] = struct{}{}
}

func (b *base) cancelTimers() {
	for tok := range b.timers {
		b.deps.Scheduler.Cancel(tok)
	}
	b.timers = map[sched.Token]struct{}{}
}

func (b *base) finish(res model.Result) {
	if b.phase == PhaseComplete || b.phase == PhaseCancelled {
		return
	}
	b.phase = PhaseComplete
	b.cancelTimers()
	if b.onComplete != nil {
		b.onComplete(res)
	}
}

// elapsedSeconds is the whole seconds since start, never below 1.
func (b *base) elapsedSeconds(since time.Time) int {
	return atLeastOne(int(b.deps.Clock.Now().Sub(since) / time.Second))
}

func atLeastOne(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// percent returns round(part/whole*100), clamped to [0,100].
func percent(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	p := int(math.Round(float64(part) / float64(whole) * 100))
	return max(0, min(p, 100))
}

// rate returns round(units*100/divisor) with the divisor clamped to 1.
func rate(units, divisor int) int {
	return int(math.Round(float64(units) * 100 / float64(atLeastOne(divisor))))
}

func ms(n int) time.Duration {
	return time.Duration(n) * time.Millisecond
}
