package metrics

import (
	"time"

	"tei/searcher"
)

// AgentConfig describes the search settings shared by both sides of a
// self-play game.
type AgentConfig struct {
	ID       int
	Size     int
	MoveTime time.Duration
	Cutoff   int
	MaxNodes int
}

type MoveMetric struct {
	Ply    int
	Player string // "white" or "black"
	Move   string
	searcher.SearchMetric
}

type GameMetric struct {
	Winner     string // "white", "black" or "none"
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
	TotalMoves int
	Truncated  bool // stopped at the ply cap before the game was decided
}

type GameRecord struct {
	ID    int
	Agent int // AgentConfig.ID
	GameMetric
}

type MoveRecord struct {
	Game int // GameRecord.ID
	MoveMetric
}
