package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/tuimind/internal/engine"
	"github.com/verte-zerg/tuimind/internal/progress"
	"github.com/verte-zerg/tuimind/internal/session"
	"github.com/verte-zerg/tuimind/internal/stats"
)

const (
	cellWidth   = 3
	textWidth   = 48
	cardSymbols = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	hiddenCard  = "·"
)

var (
	padStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6E6E6E")).
			Foreground(lipgloss.Color("#8C8C8C")).
			Padding(0, 1)
	litPadStyle = padStyle.
			BorderForeground(lipgloss.Color("#C89A3A")).
			Foreground(lipgloss.Color("#1F1F1F")).
			Background(lipgloss.Color("#C89A3A"))
	cellStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	litCellStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#1F1F1F")).Background(lipgloss.Color("#C89A3A"))
	pickCellStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#1F1F1F")).Background(lipgloss.Color("#52C41A"))
	faceUpStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0F0F0"))
	matchedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	cursorStyle   = lipgloss.NewStyle().Reverse(true)
)

func (m *Model) renderMenu() string {
	lines := []string{titleStyle.Render("tuimind"), ""}
	days := "days"
	if m.streak == 1 {
		days = "day"
	}
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("Profile %s · streak %d %s", m.tracker.Profile(), m.streak, days)), "")

	nameWidth := 0
	for _, row := range m.menu {
		nameWidth = max(nameWidth, len(row.game.Title()))
	}
	for i, row := range m.menu {
		prefix := "  "
		style := textStyle
		if i == m.menuCursor {
			prefix = "> "
			style = titleStyle
		}
		name := fmt.Sprintf("%-*s", nameWidth, row.game.Title())
		detail := fmt.Sprintf("level %2d  best %d", row.progress.CurrentLevel, row.progress.BestScore)
		lines = append(lines, style.Render(prefix+name)+"  "+mutedStyle.Render(detail))
	}

	if m.last != nil {
		last := fmt.Sprintf("Last: %s L%d · score %d · %d%%",
			m.last.game.Title(), m.last.level, m.last.result.Score, m.last.result.Accuracy)
		style := mutedStyle
		if m.last.leveledUp {
			last += " · level up!"
			style = successStyle
		}
		lines = append(lines, "", style.Render(last))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderIntro(sess *session.Session) string {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s · level %d", sess.GameType().Title(), sess.Level())),
		"",
		textStyle.Render(wrapText(sess.Instructions(), textWidth)),
		"",
		mutedStyle.Render("Press enter to start."),
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderPlaying(sess *session.Session) string {
	header := titleStyle.Render(fmt.Sprintf("%s · level %d", sess.GameType().Title(), sess.Level()))
	var board, info string
	switch eng := sess.Engine().(type) {
	case *engine.Sequence:
		board = renderPads(eng)
		info = fmt.Sprintf("%d / %d", eng.Entered(), eng.Length())
	case *engine.Matching:
		board = m.renderCards(eng)
		info = fmt.Sprintf("Pairs %d / %d · attempts %d", eng.MatchedPairs(), eng.Params().TotalPairs, eng.Attempts())
	case *engine.Spatial:
		board = m.renderSpatial(eng)
		info = fmt.Sprintf("Round %d / %d · picked %d / %d · score %d",
			eng.Round(), eng.Rounds(), len(eng.Selected()), eng.Params().NumTargets, eng.Score())
	}
	return strings.Join([]string{header, mutedStyle.Render(phaseHint(sess)), "", board, "", mutedStyle.Render(info)}, "\n")
}

func phaseHint(sess *session.Session) string {
	eng := sess.Engine()
	if eng == nil {
		return ""
	}
	if eng.Phase() == engine.PhaseShowing {
		return "Watch closely..."
	}
	return "Your turn."
}

func renderPads(eng *engine.Sequence) string {
	pads := make([]string, 0, engine.SequenceSymbols)
	for i := 0; i < engine.SequenceSymbols; i++ {
		style := padStyle
		if eng.Lit() == i {
			style = litPadStyle
		}
		pads = append(pads, style.Render(padCell(fmt.Sprintf("%d", i+1), cellWidth)))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, pads...)
}

func (m *Model) renderCards(eng *engine.Matching) string {
	cards := eng.Cards()
	return m.renderGrid(eng.Params().GridSize, func(cell int) string {
		card := cards[cell]
		switch {
		case card.Empty:
			return cellStyle.Render(padCell("", cellWidth))
		case card.Matched:
			return matchedStyle.Render(padCell(cardGlyph(card.Symbol), cellWidth))
		case card.FaceUp:
			return faceUpStyle.Render(padCell(cardGlyph(card.Symbol), cellWidth))
		default:
			return cellStyle.Render(padCell(hiddenCard, cellWidth))
		}
	}, eng.Phase() == engine.PhasePlaying)
}

func (m *Model) renderSpatial(eng *engine.Spatial) string {
	return m.renderGrid(eng.Params().GridSize, func(cell int) string {
		switch {
		case eng.Lit() == cell:
			return litCellStyle.Render(padCell("", cellWidth))
		case eng.IsSelected(cell):
			return pickCellStyle.Render(padCell("", cellWidth))
		default:
			return cellStyle.Render(padCell(hiddenCard, cellWidth))
		}
	}, eng.Phase() == engine.PhasePlaying)
}

func (m *Model) renderGrid(size int, render func(cell int) string, showCursor bool) string {
	rows := make([]string, 0, size)
	for r := 0; r < size; r++ {
		var b strings.Builder
		for c := 0; c < size; c++ {
			cell := r*size + c
			s := render(cell)
			if showCursor && cell == m.cursor {
				s = cursorStyle.Render(s)
			}
			b.WriteString(s)
			if c < size-1 {
				b.WriteString(" ")
			}
		}
		rows = append(rows, b.String())
	}
	return strings.Join(rows, "\n")
}

func cardGlyph(symbol int) string {
	if symbol < 0 || symbol >= len(cardSymbols) {
		return "?"
	}
	return string(cardSymbols[symbol])
}

func (m *Model) renderSummary(sess *session.Session) string {
	res := sess.Result()
	lines := []string{
		titleStyle.Render(fmt.Sprintf("%s · level %d complete", sess.GameType().Title(), sess.Level())),
		"",
		textStyle.Render(fmt.Sprintf("Score     %d", res.Score)),
		textStyle.Render(fmt.Sprintf("Accuracy  %d%%", res.Accuracy)),
		textStyle.Render(fmt.Sprintf("Time      %s", stats.FormatDuration(res.TimeSpent))),
		"",
	}
	if res.Accuracy >= progress.LevelUpAccuracy {
		lines = append(lines, successStyle.Render(fmt.Sprintf("Accuracy %d%% or better unlocks the next level.", progress.LevelUpAccuracy)))
	} else {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("Reach %d%% accuracy to level up.", progress.LevelUpAccuracy)))
	}
	return strings.Join(lines, "\n")
}
