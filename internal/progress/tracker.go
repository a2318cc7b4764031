// Package progress tracks per-game progress, daily stats and the day streak.
package progress

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/verte-zerg/tuimind/internal/difficulty"
	"github.com/verte-zerg/tuimind/internal/model"
	"github.com/verte-zerg/tuimind/internal/sched"
)

// LevelUpAccuracy is the accuracy needed to clear a level.
const LevelUpAccuracy = 80

const dateLayout = "2006-01-02"

// DefaultProfile namespaces keys when no profile is configured.
const DefaultProfile = "default"

// KV is the persistence collaborator. Values are opaque JSON blobs.
type KV interface {
	Load(ctx context.Context, key string) ([]byte, bool, error)
	Save(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Tracker owns the persisted progress of one profile.
type Tracker struct {
	kv      KV
	clock   sched.Clock
	logger  *slog.Logger
	profile string
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock sets the clock used for lastPlayed, daily stats and the streak.
func WithClock(c sched.Clock) Option {
	return func(t *Tracker) { t.clock = c }
}

// WithLogger sets the logger for recoverable storage problems.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithProfile namespaces the stored keys.
func WithProfile(profile string) Option {
	return func(t *Tracker) {
		if profile != "" {
			t.profile = profile
		}
	}
}

// New returns a Tracker over kv.
func New(kv KV, opts ...Option) *Tracker {
	t := &Tracker{
		kv:      kv,
		clock:   sched.SystemClock{},
		logger:  slog.Default(),
		profile: DefaultProfile,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Profile returns the profile the tracker writes to.
func (t *Tracker) Profile() string { return t.profile }

func (t *Tracker) progressKey() string { return t.profile + "/game_progress" }
func (t *Tracker) dailyKey() string    { return t.profile + "/daily_stats" }
func (t *Tracker) streakKey() string   { return t.profile + "/streak" }

// Update records one completed session and returns the new progress record
// for game.
func (t *Tracker) Update(ctx context.Context, game model.GameType, level, score, accuracy, timeSpent int) (model.GameProgress, error) {
	now := t.clock.Now()
	level = difficulty.ClampLevel(level)
	score = max(score, 0)
	accuracy = max(0, min(accuracy, 100))
	timeSpent = max(timeSpent, 0)

	book := t.loadBook(ctx)
	p := normalize(book.Get(game))

	if accuracy >= LevelUpAccuracy && level == p.CurrentLevel {
		p.CurrentLevel = min(level+1, difficulty.MaxLevel)
		p.CompletedLevels = max(p.CompletedLevels, level)
	}
	p.BestScore = max(p.BestScore, score)
	p.AverageAccuracy = runningMean(p.AverageAccuracy, p.TotalGamesPlayed, accuracy)
	p.TotalGamesPlayed++
	p.TotalTimeSpent += timeSpent
	played := now
	p.LastPlayed = &played

	book[game] = p
	if err := t.save(ctx, t.progressKey(), book); err != nil {
		return p, err
	}

	daily := t.loadDaily(ctx, now)
	daily.AverageScore = runningMean(daily.AverageScore, daily.GamesCompleted, score)
	daily.GamesCompleted++
	daily.TimeSpent += timeSpent
	if err := t.save(ctx, t.dailyKey(), daily); err != nil {
		return p, err
	}

	streak := advanceStreak(t.loadStreak(ctx), now)
	if err := t.save(ctx, t.streakKey(), streak); err != nil {
		return p, err
	}

	t.logger.Info("progress updated",
		"profile", t.profile,
		"game", game,
		"level", level,
		"current_level", p.CurrentLevel,
		"best_score", p.BestScore,
		"streak", streak.Count)
	return p, nil
}

// Progress returns the stored record for game, or the default record.
func (t *Tracker) Progress(ctx context.Context, game model.GameType) model.GameProgress {
	return normalize(t.loadBook(ctx).Get(game))
}

// Book returns the records of every game, defaults included.
func (t *Tracker) Book(ctx context.Context) model.ProgressBook {
	stored := t.loadBook(ctx)
	book := make(model.ProgressBook, len(model.AllGameTypes()))
	for _, g := range model.AllGameTypes() {
		book[g] = normalize(stored.Get(g))
	}
	return book
}

// Daily returns today's aggregate stats.
func (t *Tracker) Daily(ctx context.Context) model.DailyStats {
	return t.loadDaily(ctx, t.clock.Now())
}

// Streak returns the current day streak. A streak whose last day is before
// yesterday has lapsed and reads as zero.
func (t *Tracker) Streak(ctx context.Context) int {
	s := t.loadStreak(ctx)
	if s.LastDate == "" {
		return 0
	}
	now := t.clock.Now()
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	if s.LastDate != today && s.LastDate != yesterday {
		return 0
	}
	return s.Count
}

// Reset deletes every stored record of the profile.
func (t *Tracker) Reset(ctx context.Context) error {
	for _, key := range []string{t.progressKey(), t.dailyKey(), t.streakKey()} {
		if err := t.kv.Delete(ctx, key); err != nil {
			return fmt.Errorf("failed to delete %s: %w", key, err)
		}
	}
	return nil
}

func (t *Tracker) loadBook(ctx context.Context) model.ProgressBook {
	book := model.ProgressBook{}
	if !t.load(ctx, t.progressKey(), &book) || book == nil {
		return model.ProgressBook{}
	}
	return book
}

func (t *Tracker) loadDaily(ctx context.Context, now time.Time) model.DailyStats {
	today := now.Format(dateLayout)
	var daily model.DailyStats
	if !t.load(ctx, t.dailyKey(), &daily) || daily.Date != today {
		return model.DailyStats{Date: today}
	}
	return daily
}

func (t *Tracker) loadStreak(ctx context.Context) model.Streak {
	var s model.Streak
	if !t.load(ctx, t.streakKey(), &s) || s.Count < 0 {
		return model.Streak{}
	}
	return s
}

// load decodes key into dst. Missing keys, storage errors and corrupt values
// all report false; the last two are logged.
func (t *Tracker) load(ctx context.Context, key string, dst any) bool {
	raw, ok, err := t.kv.Load(ctx, key)
	if err != nil {
		t.logger.Warn("failed to load progress state, using defaults", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		t.logger.Warn("corrupt progress state, using defaults", "key", key, "error", err)
		return false
	}
	return true
}

func (t *Tracker) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	if err := t.kv.Save(ctx, key, raw); err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// advanceStreak applies one completed game on now's calendar day.
func advanceStreak(s model.Streak, now time.Time) model.Streak {
	today := now.Format(dateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(dateLayout)
	switch s.LastDate {
	case today:
		if s.Count < 1 {
			s.Count = 1
		}
	case yesterday:
		s.Count++
	default:
		s.Count = 1
	}
	s.LastDate = today
	return s
}

// normalize repairs records that break the stored invariants.
func normalize(p model.GameProgress) model.GameProgress {
	p.CurrentLevel = difficulty.ClampLevel(p.CurrentLevel)
	p.CompletedLevels = max(0, min(p.CompletedLevels, difficulty.MaxLevel))
	p.BestScore = max(p.BestScore, 0)
	p.TotalGamesPlayed = max(p.TotalGamesPlayed, 0)
	p.AverageAccuracy = max(0, min(p.AverageAccuracy, 100))
	p.TotalTimeSpent = max(p.TotalTimeSpent, 0)
	return p
}

func runningMean(mean, count, value int) int {
	return int(math.Round(float64(mean*count+value) / float64(count+1)))
}
