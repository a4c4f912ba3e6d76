package engine

import (
	"time"

	"tei/game"
)

// Budget decides when a search started by "go" must end.
type Budget interface {
	budget()
}

// MoveTime searches for a fraction of a fixed limit.
type MoveTime struct {
	Limit time.Duration
}

// Clock derives a per-move allotment from the remaining time and increment of
// the side to move. Fields that were not given on the go line stay unset.
type Clock struct {
	WhiteTime, WhiteInc time.Duration
	BlackTime, BlackInc time.Duration
	HasWhiteTime        bool
	HasBlackTime        bool
}

// Infinite searches until stopped.
type Infinite struct{}

func (MoveTime) budget() {}
func (Clock) budget()    {}
func (Infinite) budget() {}

// Exceeded reports whether elapsed is past margin times the limit. The margin
// leaves room to emit the move before the limit itself runs out.
func (m MoveTime) Exceeded(elapsed time.Duration, margin float64) bool {
	return float64(elapsed) > float64(m.Limit)*margin
}

// Allotment is own remaining time / 5 + own increment / 2 for side.
func (c Clock) Allotment(side game.Color) (time.Duration, error) {
	if side == game.White {
		if !c.HasWhiteTime {
			return 0, invalidInput("go without wtime while white is to move")
		}
		return c.WhiteTime/5 + c.WhiteInc/2, nil
	}
	if !c.HasBlackTime {
		return 0, invalidInput("go without btime while black is to move")
	}
	return c.BlackTime/5 + c.BlackInc/2, nil
}
