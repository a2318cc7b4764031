// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// GameType identifies one of the mini-games.
type GameType string

const (
	GameSequence GameType = "sequence"
	GameMatching GameType = "matching"
	GameSpatial  GameType = "spatial"
)

// AllGameTypes lists the games in menu order.
func AllGameTypes() []GameType {
	return []GameType{GameSequence, GameMatching, GameSpatial}
}

// ParseGameType parses a game name case-insensitively.
func ParseGameType(s string) (GameType, error) {
	switch GameType(strings.ToLower(strings.TrimSpace(s))) {
	case GameSequence:
		return GameSequence, nil
	case GameMatching:
		return GameMatching, nil
	case GameSpatial:
		return GameSpatial, nil
	}
	return "", fmt.Errorf("unknown game %q (available: sequence, matching, spatial)", s)
}

// Title returns the display name of the game.
func (g GameType) Title() string {
	switch g {
	case GameSequence:
		return "Sequence Recall"
	case GameMatching:
		return "Matching Pairs"
	case GameSpatial:
		return "Spatial Recall"
	default:
		return string(g)
	}
}

// Result is the outcome of one completed session.
type Result struct {
	Score     int
	Accuracy  int
	TimeSpent int // seconds
}

// GameProgress is the persisted progress for one game type.
type GameProgress struct {
	CurrentLevel     int        `json:"currentLevel" yaml:"currentLevel"`
	CompletedLevels  int        `json:"completedLevels" yaml:"completedLevels"`
	BestScore        int        `json:"bestScore" yaml:"bestScore"`
	TotalGamesPlayed int        `json:"totalGamesPlayed" yaml:"totalGamesPlayed"`
	AverageAccuracy  int        `json:"averageAccuracy" yaml:"averageAccuracy"`
	TotalTimeSpent   int        `json:"totalTimeSpent" yaml:"totalTimeSpent"`
	LastPlayed       *time.Time `json:"lastPlayed,omitempty" yaml:"lastPlayed,omitempty"`
}

// DefaultProgress returns the record used when nothing is stored yet.
func DefaultProgress() GameProgress {
	return GameProgress{CurrentLevel: 1}
}

// ProgressBook holds one progress record per game type.
type ProgressBook map[GameType]GameProgress

// Get returns the record for the game or the default record.
func (b ProgressBook) Get(g GameType) GameProgress {
	if p, ok := b[g]; ok {
		return p
	}
	return DefaultProgress()
}

// DailyStats aggregates completed sessions of one calendar day.
type DailyStats struct {
	Date           string `json:"date" yaml:"date"`
	GamesCompleted int    `json:"gamesCompleted" yaml:"gamesCompleted"`
	AverageScore   int    `json:"averageScore" yaml:"averageScore"`
	TimeSpent      int    `json:"timeSpent" yaml:"timeSpent"`
}

// Streak counts consecutive days with at least one completed game.
type Streak struct {
	Count    int    `json:"count" yaml:"count"`
	LastDate string `json:"lastDate,omitempty" yaml:"lastDate,omitempty"`
}

// SessionRecord is a completed session stored in the history table.
type SessionRecord struct {
	ID        string
	Profile   string
	GameType  GameType
	Level     int
	Score     int
	Accuracy  int
	TimeSpent int
	StartedAt time.Time
	EndedAt   time.Time
}

// SessionFilter selects history rows.
type SessionFilter struct {
	Profile  string
	GameType GameType
	Since    *time.Time
	Last     int
}

// PlayConfig defines settings for the play command.
type PlayConfig struct {
	Game    GameType
	Level   int
	Profile string
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Profile string
	Game    GameType
	Last    int
	Since   *time.Time
}
