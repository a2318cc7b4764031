package stats

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/tuimind/internal/model"
)

func TestSparkline(t *testing.T) {
	if got := Sparkline(nil); got != "" {
		t.Fatalf("expected empty sparkline, got %q", got)
	}
	if got := Sparkline([]float64{0, 9}); got != " @" {
		t.Fatalf("unexpected sparkline %q", got)
	}
	if got := Sparkline([]float64{3, 3, 3}); got != "+++" {
		t.Fatalf("expected flat sparkline, got %q", got)
	}
}

func TestMovingAverage(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4}, 2)
	want := []float64{1, 1.5, 2.5, 3.5}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	same := MovingAverage([]float64{5, 6}, 1)
	if same[0] != 5 || same[1] != 6 {
		t.Fatalf("expected copy for window 1, got %v", same)
	}
}

func TestFormatDuration(t *testing.T) {
	cases := map[int]string{
		-3:   "0s",
		0:    "0s",
		45:   "45s",
		185:  "3m05s",
		3720: "1h02m",
	}
	for in, want := range cases {
		if got := FormatDuration(in); got != want {
			t.Fatalf("FormatDuration(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	r := Report{
		Profile: "default",
		Streak:  1,
		Daily:   model.DailyStats{Date: "2026-02-03", GamesCompleted: 2, AverageScore: 35, TimeSpent: 70},
	}
	if err := RenderSummary(&buf, r); err != nil {
		t.Fatalf("render summary: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Streak: 1 day\n") {
		t.Fatalf("expected singular streak line, got %q", out)
	}
	if !strings.Contains(out, "Today (2026-02-03): 2 games, avg score 35, 1m10s played") {
		t.Fatalf("unexpected daily line in %q", out)
	}
}

func TestRenderTrends(t *testing.T) {
	base := time.Date(2026, 2, 3, 12, 0, 0, 0, time.UTC)
	var sessions []model.SessionRecord
	for i := 0; i < 30; i++ {
		sessions = append(sessions, model.SessionRecord{
			GameType:  model.GameSequence,
			Score:     i,
			Accuracy:  100,
			StartedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}

	var buf bytes.Buffer
	if err := RenderTrends(&buf, sessions, model.AllGameTypes(), 40); err != nil {
		t.Fatalf("render trends: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Sequence Recall (22)") {
		t.Fatalf("expected trimmed sequence trend, got %q", out)
	}
	if strings.Contains(out, "Matching Pairs") {
		t.Fatalf("did not expect games without sessions, got %q", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 40 {
			t.Fatalf("line exceeds width: %q", line)
		}
	}

	buf.Reset()
	if err := RenderTrends(&buf, nil, model.AllGameTypes(), 40); err != nil {
		t.Fatalf("render empty trends: %v", err)
	}
	if buf.String() != "No sessions found.\n" {
		t.Fatalf("unexpected empty output %q", buf.String())
	}
}
