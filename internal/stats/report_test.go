package stats

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuimind/internal/model"
	"github.com/verte-zerg/tuimind/internal/progress"
	"github.com/verte-zerg/tuimind/internal/sched"
	"github.com/verte-zerg/tuimind/internal/store"
)

func seedReport(t *testing.T) (*progress.Tracker, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "tuimind.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	clock := sched.NewManualClock(time.Date(2026, 2, 3, 12, 0, 0, 0, time.Local))
	tr := progress.New(st, progress.WithClock(clock))
	games := []model.GameType{model.GameSequence, model.GameMatching, model.GameSequence}
	for i, g := range games {
		score := 10 * (i + 1)
		if _, err := tr.Update(ctx, g, 1, score, 90, 20); err != nil {
			t.Fatalf("update: %v", err)
		}
		start := clock.Now().Add(time.Duration(i) * time.Minute)
		if _, err := st.InsertSession(ctx, model.SessionRecord{
			Profile:   tr.Profile(),
			GameType:  g,
			Level:     1,
			Score:     score,
			Accuracy:  90,
			TimeSpent: 20,
			StartedAt: start,
			EndedAt:   start.Add(20 * time.Second),
		}); err != nil {
			t.Fatalf("insert session: %v", err)
		}
	}
	return tr, st
}

func TestBuildReport(t *testing.T) {
	tr, st := seedReport(t)
	ctx := context.Background()

	report, err := BuildReport(ctx, tr, st, model.StatsConfig{Game: model.GameSequence, Last: 1})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if report.Profile != progress.DefaultProfile {
		t.Fatalf("unexpected profile %q", report.Profile)
	}
	if len(report.Games) != 1 || report.Games[0] != model.GameSequence {
		t.Fatalf("expected sequence only, got %v", report.Games)
	}
	if len(report.Sessions) != 1 || report.Sessions[0].Score != 30 {
		t.Fatalf("expected the latest sequence session, got %+v", report.Sessions)
	}
	if report.Daily.GamesCompleted != 3 || report.Daily.AverageScore != 20 {
		t.Fatalf("unexpected daily stats: %+v", report.Daily)
	}
	if report.Streak != 1 {
		t.Fatalf("expected streak 1, got %d", report.Streak)
	}
	if report.Book.Get(model.GameSequence).TotalGamesPlayed != 2 {
		t.Fatalf("unexpected book: %+v", report.Book)
	}

	var buf bytes.Buffer
	if err := Render(&buf, report, 60); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "Sequence Recall") || strings.Contains(buf.String(), "Matching Pairs") {
		t.Fatalf("unexpected rendered report %q", buf.String())
	}
}

func TestExport(t *testing.T) {
	tr, st := seedReport(t)
	report, err := BuildReport(context.Background(), tr, st, model.StatsConfig{})
	if err != nil {
		t.Fatalf("build report: %v", err)
	}

	var js bytes.Buffer
	if err := Export(&js, report, "json"); err != nil {
		t.Fatalf("export json: %v", err)
	}
	var fromJSON exportDoc
	if err := json.Unmarshal(js.Bytes(), &fromJSON); err != nil {
		t.Fatalf("decode json: %v", err)
	}
	if len(fromJSON.Sessions) != 3 || len(fromJSON.Progress) != 3 {
		t.Fatalf("unexpected json export: %+v", fromJSON)
	}
	if fromJSON.Progress["sequence"].CurrentLevel != 2 {
		t.Fatalf("expected sequence level 2, got %+v", fromJSON.Progress["sequence"])
	}

	var ym bytes.Buffer
	if err := Export(&ym, report, "yaml"); err != nil {
		t.Fatalf("export yaml: %v", err)
	}
	if !strings.Contains(ym.String(), "gameProgress:") {
		t.Fatalf("expected camelCase keys in yaml, got %q", ym.String())
	}
	var fromYAML exportDoc
	if err := yaml.Unmarshal(ym.Bytes(), &fromYAML); err != nil {
		t.Fatalf("decode yaml: %v", err)
	}
	if fromYAML.Streak != 1 || fromYAML.Daily.GamesCompleted != 3 {
		t.Fatalf("unexpected yaml export: %+v", fromYAML)
	}

	if err := Export(&bytes.Buffer{}, report, "xml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}
