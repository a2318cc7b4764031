// Package tui provides the Bubble Tea game interface.
package tui

import (
	"context"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuimind/internal/engine"
	"github.com/verte-zerg/tuimind/internal/generator"
	"github.com/verte-zerg/tuimind/internal/model"
	"github.com/verte-zerg/tuimind/internal/sched"
	"github.com/verte-zerg/tuimind/internal/session"
)

const tickInterval = 30 * time.Millisecond

// ProgressTracker reads and records per-game progress.
type ProgressTracker interface {
	Profile() string
	Progress(ctx context.Context, game model.GameType) model.GameProgress
	Update(ctx context.Context, game model.GameType, level, score, accuracy, timeSpent int) (model.GameProgress, error)
	Streak(ctx context.Context) int
}

// SessionRecorder stores finished sessions in the history.
type SessionRecorder interface {
	InsertSession(ctx context.Context, rec model.SessionRecord) (string, error)
}

// Options configures the game UI.
type Options struct {
	Tracker   ProgressTracker
	Recorder  SessionRecorder
	Queue     *sched.Queue
	Clock     sched.Clock
	Generator *generator.Generator
	Logger    *slog.Logger

	// Game opens a session for this game right away when set.
	Game model.GameType
	// Level overrides the saved level of the first session when > 0.
	Level int
}

type tickMsg time.Time

type menuRow struct {
	game     model.GameType
	progress model.GameProgress
}

type outcome struct {
	game      model.GameType
	level     int
	result    model.Result
	leveledUp bool
}

// Model implements the Bubble Tea game UI.
type Model struct {
	tracker  ProgressTracker
	recorder SessionRecorder
	queue    *sched.Queue
	clock    sched.Clock
	logger   *slog.Logger
	manager  *session.Manager

	keys keyMap
	help help.Model

	width  int
	height int

	menu          []menuRow
	streak        int
	menuCursor    int
	cursor        int
	levelOverride int
	startedAt     time.Time
	last          *outcome
	status        string
	quitting      bool
}

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#C89A3A"))
	textStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	footerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs the game UI model.
func NewModel(opts Options) *Model {
	if opts.Clock == nil {
		opts.Clock = sched.SystemClock{}
	}
	if opts.Queue == nil {
		opts.Queue = sched.NewQueue(opts.Clock)
	}
	if opts.Generator == nil {
		opts.Generator = generator.New()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	deps := engine.Deps{Scheduler: opts.Queue, Clock: opts.Clock, Generator: opts.Generator}
	m := &Model{
		tracker:       opts.Tracker,
		recorder:      opts.Recorder,
		queue:         opts.Queue,
		clock:         opts.Clock,
		logger:        opts.Logger,
		keys:          defaultKeyMap(),
		help:          help.New(),
		levelOverride: opts.Level,
	}
	m.manager = session.NewManager(func(g model.GameType) (engine.Engine, error) {
		return engine.New(g, deps)
	})
	m.refreshMenu()
	if opts.Game != "" {
		for i, row := range m.menu {
			if row.game == opts.Game {
				m.menuCursor = i
			}
		}
		m.openSession(opts.Game)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	case tickMsg:
		m.queue.RunDue(m.clock.Now())
		return m, tick()
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.quit()
			return m, tea.Quit
		}
		sess := m.current()
		if sess == nil {
			m.updateMenu(msg)
			return m, nil
		}
		switch sess.Phase() {
		case session.PhaseIntro:
			m.updateIntro(sess, msg)
		case session.PhasePlaying:
			m.updatePlaying(sess, msg)
		case session.PhaseSummary:
			m.updateSummary(sess, msg)
		}
		return m, nil
	default:
		return m, nil
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	var body string
	var keys bindings
	sess := m.current()
	switch {
	case sess == nil:
		body, keys = m.renderMenu(), m.keys.menuHelp()
	case sess.Phase() == session.PhaseIntro:
		body, keys = m.renderIntro(sess), m.keys.introHelp()
	case sess.Phase() == session.PhaseSummary:
		body, keys = m.renderSummary(sess), m.keys.summaryHelp()
	default:
		body = m.renderPlaying(sess)
		keys = m.keys.gridHelp()
		if sess.GameType() == model.GameSequence {
			keys = m.keys.sequenceHelp()
		}
	}
	if m.status != "" {
		body += "\n\n" + errorStyle.Render(m.status)
	}
	footer := footerStyle.Render(m.help.View(keys))
	if m.width == 0 || m.height < 3 {
		return body + "\n\n" + footer
	}
	bodyHeight := m.height - 1
	content := lipgloss.Place(m.width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return content + "\n" + footerLine
}

// current returns the session still holding a game, if any.
func (m *Model) current() *session.Session {
	sess := m.manager.Current()
	if sess == nil || !sess.Phase().Active() {
		return nil
	}
	return sess
}

func (m *Model) updateMenu(msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Up):
		m.menuCursor = (m.menuCursor + len(m.menu) - 1) % len(m.menu)
	case key.Matches(msg, m.keys.Down):
		m.menuCursor = (m.menuCursor + 1) % len(m.menu)
	case key.Matches(msg, m.keys.Select):
		m.openSession(m.menu[m.menuCursor].game)
	}
}

func (m *Model) updateIntro(sess *session.Session, msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Back):
		sess.Exit()
		m.refreshMenu()
	case key.Matches(msg, m.keys.Select):
		m.startedAt = m.clock.Now()
		if err := sess.Start(); err != nil {
			m.logger.Error("failed to start session", "game", sess.GameType(), "err", err)
			m.status = err.Error()
			return
		}
		m.status = ""
	}
}

func (m *Model) updatePlaying(sess *session.Session, msg tea.KeyMsg) {
	if key.Matches(msg, m.keys.Back) {
		sess.Exit()
		m.refreshMenu()
		return
	}
	switch eng := sess.Engine().(type) {
	case *engine.Sequence:
		if key.Matches(msg, m.keys.Pads) {
			eng.Press(int(msg.String()[0] - '1'))
		}
	case *engine.Matching:
		if key.Matches(msg, m.keys.Select) {
			eng.Flip(m.cursor)
			return
		}
		m.moveCursor(msg, eng.Params().GridSize)
	case *engine.Spatial:
		if key.Matches(msg, m.keys.Select) {
			eng.Select(m.cursor)
			return
		}
		m.moveCursor(msg, eng.Params().GridSize)
	}
}

func (m *Model) updateSummary(sess *session.Session, msg tea.KeyMsg) {
	switch {
	case key.Matches(msg, m.keys.Select), key.Matches(msg, m.keys.Back):
		sess.Continue()
		m.refreshMenu()
	case key.Matches(msg, m.keys.Again):
		sess.Continue()
		m.refreshMenu()
		m.openSession(sess.GameType())
	}
}

func (m *Model) moveCursor(msg tea.KeyMsg, size int) {
	if size <= 0 {
		return
	}
	row, col := m.cursor/size, m.cursor%size
	switch {
	case key.Matches(msg, m.keys.Up):
		row = max(row-1, 0)
	case key.Matches(msg, m.keys.Down):
		row = min(row+1, size-1)
	case key.Matches(msg, m.keys.Left):
		col = max(col-1, 0)
	case key.Matches(msg, m.keys.Right):
		col = min(col+1, size-1)
	default:
		return
	}
	m.cursor = row*size + col
}

func (m *Model) openSession(game model.GameType) {
	level := m.levelFor(game)
	m.cursor = 0
	m.manager.StartSession(game, level, func(res model.Result) {
		m.record(game, level, res)
	})
}

func (m *Model) levelFor(game model.GameType) int {
	if m.levelOverride > 0 {
		level := m.levelOverride
		m.levelOverride = 0
		return level
	}
	return m.tracker.Progress(context.Background(), game).CurrentLevel
}

func (m *Model) record(game model.GameType, level int, res model.Result) {
	ctx := context.Background()
	p, err := m.tracker.Update(ctx, game, level, res.Score, res.Accuracy, res.TimeSpent)
	if err != nil {
		m.logger.Error("failed to save progress", "game", game, "err", err)
		m.status = "progress was not saved"
	}
	m.last = &outcome{game: game, level: level, result: res, leveledUp: p.CurrentLevel > level}

	if m.recorder == nil {
		return
	}
	rec := model.SessionRecord{
		Profile:   m.tracker.Profile(),
		GameType:  game,
		Level:     level,
		Score:     res.Score,
		Accuracy:  res.Accuracy,
		TimeSpent: res.TimeSpent,
		StartedAt: m.startedAt,
		EndedAt:   m.clock.Now(),
	}
	if _, err := m.recorder.InsertSession(ctx, rec); err != nil {
		m.logger.Error("failed to save session history", "game", game, "err", err)
	}
}

func (m *Model) refreshMenu() {
	ctx := context.Background()
	games := model.AllGameTypes()
	m.menu = make([]menuRow, len(games))
	for i, g := range games {
		m.menu[i] = menuRow{game: g, progress: m.tracker.Progress(ctx, g)}
	}
	m.streak = m.tracker.Streak(ctx)
}

func (m *Model) quit() {
	if sess := m.current(); sess != nil {
		if sess.Phase() == session.PhaseSummary {
			sess.Continue()
		} else {
			sess.Exit()
		}
	}
	m.quitting = true
}
