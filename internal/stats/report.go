package stats

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/tuimind/internal/model"
)

// ProgressSource reads the aggregate progress of one profile.
type ProgressSource interface {
	Profile() string
	Book(ctx context.Context) model.ProgressBook
	Daily(ctx context.Context) model.DailyStats
	Streak(ctx context.Context) int
}

// HistorySource reads completed sessions.
type HistorySource interface {
	ListSessions(ctx context.Context, filter model.SessionFilter) ([]model.SessionRecord, error)
}

// Report contains precomputed data for stats rendering.
type Report struct {
	Profile  string
	Games    []model.GameType
	Book     model.ProgressBook
	Daily    model.DailyStats
	Streak   int
	Sessions []model.SessionRecord
}

// BuildReport loads and prepares data for stats rendering.
func BuildReport(ctx context.Context, tracker ProgressSource, history HistorySource, cfg model.StatsConfig) (Report, error) {
	profile := tracker.Profile()
	if cfg.Profile != "" {
		profile = cfg.Profile
	}
	sessions, err := history.ListSessions(ctx, model.SessionFilter{
		Profile:  profile,
		GameType: cfg.Game,
		Since:    cfg.Since,
		Last:     cfg.Last,
	})
	if err != nil {
		return Report{}, fmt.Errorf("failed to list sessions: %w", err)
	}

	games := model.AllGameTypes()
	if cfg.Game != "" {
		games = []model.GameType{cfg.Game}
	}
	return Report{
		Profile:  profile,
		Games:    games,
		Book:     tracker.Book(ctx),
		Daily:    tracker.Daily(ctx),
		Streak:   tracker.Streak(ctx),
		Sessions: sessions,
	}, nil
}

// Render writes the full text report.
func Render(w io.Writer, r Report, width int) error {
	if err := RenderSummary(w, r); err != nil {
		return err
	}
	if err := RenderProgressTable(w, r.Book, r.Games); err != nil {
		return err
	}
	return RenderTrends(w, r.Sessions, r.Games, width)
}

type exportDoc struct {
	Profile  string                        `json:"profile" yaml:"profile"`
	Streak   int                           `json:"streak" yaml:"streak"`
	Daily    model.DailyStats              `json:"dailyStats" yaml:"dailyStats"`
	Progress map[string]model.GameProgress `json:"gameProgress" yaml:"gameProgress"`
	Sessions []exportSession               `json:"sessions" yaml:"sessions"`
}

type exportSession struct {
	ID        string    `json:"id" yaml:"id"`
	Game      string    `json:"game" yaml:"game"`
	Level     int       `json:"level" yaml:"level"`
	Score     int       `json:"score" yaml:"score"`
	Accuracy  int       `json:"accuracy" yaml:"accuracy"`
	TimeSpent int       `json:"timeSpent" yaml:"timeSpent"`
	StartedAt time.Time `json:"startedAt" yaml:"startedAt"`
	EndedAt   time.Time `json:"endedAt" yaml:"endedAt"`
}

// Export writes the report as json or yaml.
func Export(w io.Writer, r Report, format string) error {
	doc := exportDoc{
		Profile:  r.Profile,
		Streak:   r.Streak,
		Daily:    r.Daily,
		Progress: make(map[string]model.GameProgress, len(r.Games)),
		Sessions: make([]exportSession, 0, len(r.Sessions)),
	}
	for _, g := range r.Games {
		doc.Progress[string(g)] = r.Book.Get(g)
	}
	for _, s := range r.Sessions {
		doc.Sessions = append(doc.Sessions, exportSession{
			ID:        s.ID,
			Game:      string(s.GameType),
			Level:     s.Level,
			Score:     s.Score,
			Accuracy:  s.Accuracy,
			TimeSpent: s.TimeSpent,
			StartedAt: s.StartedAt.UTC(),
			EndedAt:   s.EndedAt.UTC(),
		})
	}

	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case "yaml", "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown export format %q (available: json, yaml)", format)
	}
}
