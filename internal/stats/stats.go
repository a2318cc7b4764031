// Package stats contains progress reporting and rendering.
package stats

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/verte-zerg/tuimind/internal/model"
)

const (
	sparkChars          = " .:-=+*#%@"
	trendLabelWidth     = 18
	minTrendWidth       = 10
	trendWindow         = 5
	terminalWidthBackup = 80
)

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// Sparkline renders a single-line ASCII sparkline for the values.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	minVal, maxVal := values[0], values[0]
	for _, v := range values[1:] {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	if math.Abs(maxVal-minVal) < 1e-9 {
		return strings.Repeat(string(sparkChars[len(sparkChars)/2]), len(values))
	}
	var b strings.Builder
	for _, v := range values {
		pos := (v - minVal) / (maxVal - minVal)
		idx := int(math.Round(pos * float64(len(sparkChars)-1)))
		idx = max(0, min(idx, len(sparkChars)-1))
		b.WriteByte(sparkChars[idx])
	}
	return b.String()
}

// FormatDuration renders seconds as a short human duration.
func FormatDuration(seconds int) string {
	if seconds <= 0 {
		return "0s"
	}
	h := seconds / 3600
	m := seconds % 3600 / 60
	s := seconds % 60
	switch {
	case h > 0:
		return fmt.Sprintf("%dh%02dm", h, m)
	case m > 0:
		return fmt.Sprintf("%dm%02ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

// RenderSummary prints the streak and today's aggregate.
func RenderSummary(w io.Writer, r Report) error {
	days := "days"
	if r.Streak == 1 {
		days = "day"
	}
	lines := []string{
		"Summary",
		fmt.Sprintf("Profile: %s", r.Profile),
		fmt.Sprintf("Streak: %d %s", r.Streak, days),
		fmt.Sprintf("Today (%s): %d games, avg score %d, %s played",
			r.Daily.Date, r.Daily.GamesCompleted, r.Daily.AverageScore, FormatDuration(r.Daily.TimeSpent)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderProgressTable prints one row per game.
func RenderProgressTable(w io.Writer, book model.ProgressBook, games []model.GameType) error {
	headers := []string{"Game", "Level", "Cleared", "Best", "Played", "Avg Acc", "Time", "Last Played"}
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		p := book.Get(g)
		last := "never"
		if p.LastPlayed != nil {
			last = p.LastPlayed.Local().Format("2006-01-02 15:04")
		}
		rows = append(rows, []string{
			g.Title(),
			fmt.Sprintf("%d", p.CurrentLevel),
			fmt.Sprintf("%d", p.CompletedLevels),
			fmt.Sprintf("%d", p.BestScore),
			fmt.Sprintf("%d", p.TotalGamesPlayed),
			fmt.Sprintf("%d%%", p.AverageAccuracy),
			FormatDuration(p.TotalTimeSpent),
			last,
		})
	}
	if _, err := fmt.Fprintln(w, "Progress"); err != nil {
		return err
	}
	rightAlign := map[int]bool{1: true, 2: true, 3: true, 4: true, 5: true, 6: true}
	for _, line := range formatTable(headers, rows, rightAlign) {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderTrends prints score and accuracy sparklines per game, fitted to
// totalWidth columns (0 means the terminal width).
func RenderTrends(w io.Writer, sessions []model.SessionRecord, games []model.GameType, totalWidth int) error {
	if len(sessions) == 0 {
		_, err := fmt.Fprintln(w, "No sessions found.")
		return err
	}
	if totalWidth <= 0 {
		totalWidth = terminalWidth(w)
	}
	width := max(totalWidth-trendLabelWidth, minTrendWidth)

	if _, err := fmt.Fprintln(w, "Trends (oldest to newest)"); err != nil {
		return err
	}
	for _, g := range games {
		var scores, accs []float64
		for _, s := range sessions {
			if s.GameType != g {
				continue
			}
			scores = append(scores, float64(s.Score))
			accs = append(accs, float64(s.Accuracy))
		}
		if len(scores) == 0 {
			continue
		}
		if len(scores) > width {
			scores = scores[len(scores)-width:]
			accs = accs[len(accs)-width:]
		}
		if _, err := fmt.Fprintf(w, "%s (%d)\n", g.Title(), len(scores)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  %-*s%s\n", trendLabelWidth-2, "score", Sparkline(scores)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  %-*s%s\n", trendLabelWidth-2, "score avg", Sparkline(MovingAverage(scores, trendWindow))); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "  %-*s%s\n", trendLabelWidth-2, "accuracy", Sparkline(accs)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

func terminalWidth(w io.Writer) int {
	file, ok := w.(*os.File)
	if !ok {
		return terminalWidthBackup
	}
	width, _, err := term.GetSize(int(file.Fd()))
	if err != nil || width <= 0 {
		return terminalWidthBackup
	}
	return width
}
