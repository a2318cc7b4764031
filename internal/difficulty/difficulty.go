// Package difficulty maps a game type and level to game parameters.
package difficulty

import "github.com/verte-zerg/tuimind/internal/model"

const (
	MinLevel = 1
	MaxLevel = 50
)

// Params holds the derived knobs for one (game, level) pair. Only the fields of
// the requested game are set.
type Params struct {
	Level int

	// sequence
	SequenceLength int
	DisplaySpeedMs int

	// matching and spatial
	GridSize int

	// matching
	TotalPairs int

	// spatial
	NumTargets    int
	DisplayTimeMs int
}

// ClampLevel forces level into [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	if level < MinLevel {
		return MinLevel
	}
	if level > MaxLevel {
		return MaxLevel
	}
	return level
}

// For returns the parameters of game at level.
func For(game model.GameType, level int) Params {
	level = ClampLevel(level)
	switch game {
	case model.GameSequence:
		return Sequence(level)
	case model.GameMatching:
		return Matching(level)
	case model.GameSpatial:
		return Spatial(level)
	default:
		return Params{Level: level}
	}
}

// Sequence returns sequence-recall parameters.
func Sequence(level int) Params {
	level = ClampLevel(level)
	return Params{
		Level:          level,
		SequenceLength: min(3+level, 12),
		DisplaySpeedMs: max(800-level*50, 300),
	}
}

// Matching returns matching-pairs parameters.
func Matching(level int) Params {
	level = ClampLevel(level)
	grid := min(4+level/3, 6)
	return Params{
		Level:      level,
		GridSize:   grid,
		TotalPairs: grid * grid / 2,
	}
}

// Spatial returns spatial-recall parameters.
func Spatial(level int) Params {
	level = ClampLevel(level)
	return Params{
		Level:         level,
		GridSize:      min(3+level/4, 6),
		NumTargets:    min(2+level/2, 8),
		DisplayTimeMs: max(2000-level*100, 1000),
	}
}
