// Package session wraps one engine per play session and drives the
// intro -> playing -> summary lifecycle.
package session

import (
	"fmt"
	"log/slog"

	"github.com/verte-zerg/tuimind/internal/difficulty"
	"github.com/verte-zerg/tuimind/internal/engine"
	"github.com/verte-zerg/tuimind/internal/model"
)

// Phase is the lifecycle state of a session.
type Phase int

const (
	PhaseIntro Phase = iota
	PhasePlaying
	PhaseSummary
	PhaseClosed
	PhaseExited
)

func (p Phase) String() string {
	switch p {
	case PhaseIntro:
		return "intro"
	case PhasePlaying:
		return "playing"
	case PhaseSummary:
		return "summary"
	case PhaseClosed:
		return "closed"
	case PhaseExited:
		return "exited"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Active reports whether the session still holds a game.
func (p Phase) Active() bool {
	return p == PhaseIntro || p == PhasePlaying || p == PhaseSummary
}

// Factory builds the engine for a game type.
type Factory func(model.GameType) (engine.Engine, error)

// Session is one play-through of a single game at a single level.
type Session struct {
	game       model.GameType
	level      int
	factory    Factory
	onContinue func(model.Result)
	logger     *slog.Logger

	phase  Phase
	engine engine.Engine
	result model.Result
}

// New returns a session in the intro phase. onContinue is called once, when
// the player dismisses the summary.
func New(game model.GameType, level int, factory Factory, onContinue func(model.Result)) *Session {
	return &Session{
		game:       game,
		level:      difficulty.ClampLevel(level),
		factory:    factory,
		onContinue: onContinue,
		logger:     slog.Default(),
	}
}

// GameType returns the game of this session.
func (s *Session) GameType() model.GameType { return s.game }

// Level returns the clamped level of this session.
func (s *Session) Level() int { return s.level }

// Phase returns the lifecycle state.
func (s *Session) Phase() Phase { return s.phase }

// Engine returns the running engine, or nil before Start.
func (s *Session) Engine() engine.Engine { return s.engine }

// Result returns the captured result. Only meaningful in the summary phase.
func (s *Session) Result() model.Result { return s.result }

// Params returns the difficulty parameters of this session.
func (s *Session) Params() difficulty.Params {
	return difficulty.For(s.game, s.level)
}

// Instructions returns the static intro text for the game.
func (s *Session) Instructions() string {
	p := s.Params()
	switch s.game {
	case model.GameSequence:
		return fmt.Sprintf("Watch %d pads light up one after another, then repeat the order. One wrong pad ends the game.", p.SequenceLength)
	case model.GameMatching:
		return fmt.Sprintf("Flip two cards at a time to find all %d pairs on the %dx%d grid. Fewer attempts score higher.", p.TotalPairs, p.GridSize, p.GridSize)
	case model.GameSpatial:
		return fmt.Sprintf("Memorize the %d highlighted cells on the %dx%d grid, then pick them. Three rounds; a miss ends the game.", p.NumTargets, p.GridSize, p.GridSize)
	default:
		return ""
	}
}

// Start builds the engine and begins play. It is a no-op outside the intro
// phase. A factory error leaves the session in the intro phase.
func (s *Session) Start() error {
	if s.phase != PhaseIntro {
		return nil
	}
	eng, err := s.factory(s.game)
	if err != nil {
		return fmt.Errorf("failed to create %s engine: %w", s.game, err)
	}
	s.engine = eng
	s.phase = PhasePlaying
	eng.OnComplete(s.complete)
	eng.Start(s.level)
	s.logger.Debug("session started", "game", s.game, "level", s.level)
	return nil
}

func (s *Session) complete(res model.Result) {
	if s.phase != PhasePlaying {
		return
	}
	s.result = res
	s.phase = PhaseSummary
	s.logger.Debug("session complete", "game", s.game, "level", s.level,
		"score", res.Score, "accuracy", res.Accuracy, "time_spent", res.TimeSpent)
}

// Exit aborts the session from the intro or playing phase. Pending engine
// timers are cancelled and the continue handler is never called.
func (s *Session) Exit() {
	if s.phase != PhaseIntro && s.phase != PhasePlaying {
		return
	}
	if s.engine != nil {
		s.engine.Cancel()
	}
	s.phase = PhaseExited
	s.logger.Debug("session exited", "game", s.game, "level", s.level)
}

// Continue dismisses the summary and hands the result to the caller.
func (s *Session) Continue() {
	if s.phase != PhaseSummary {
		return
	}
	s.phase = PhaseClosed
	if s.onContinue != nil {
		s.onContinue(s.result)
	}
}

// Manager keeps at most one session active.
type Manager struct {
	factory Factory
	current *Session
}

// NewManager returns a manager creating engines through factory.
func NewManager(factory Factory) *Manager {
	return &Manager{factory: factory}
}

// StartSession opens a session for game at level. A still active session is
// exited first.
func (m *Manager) StartSession(game model.GameType, level int, onContinue func(model.Result)) *Session {
	if m.current != nil && m.current.Phase().Active() {
		if m.current.Phase() == PhaseSummary {
			m.current.phase = PhaseExited
		} else {
			m.current.Exit()
		}
	}
	m.current = New(game, level, m.factory, onContinue)
	return m.current
}

// Current returns the most recent session, or nil.
func (m *Manager) Current() *Session { return m.current }
