package game

import "github.com/nelhage/taktician/tak"

// Move is a single Tak move as understood by the taktician move generator.
type Move = tak.Move

// Color identifies a side. tak.NoColor stands for "nobody", e.g. a drawn game.
type Color = tak.Color

const (
	White   = tak.White
	Black   = tak.Black
	NoColor = tak.NoColor
)

// Outcome describes whether a position is decided and, if so, who won.
type Outcome struct {
	Over   bool
	Winner Color // NoColor on a draw
}

// Evaluates a position to the probability that white wins, between 0 and 1.
// Used where a rollout is cut off before the game is decided.
type Evaluate func(tps string, komi Komi) float64

// Opponent returns the other side.
func Opponent(c Color) Color {
	if c == White {
		return Black
	}
	return White
}

// ColorName renders a side for logs and experiment records.
func ColorName(c Color) string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}
