package searcher

import "math"

// Hyperparameters for MCTS

const CSquared = 2.0 // Default exploration constant

// Rewards are credited to the side that made the move into a node
const WIN = 1.0
const DRAW = 0.5
const LOSS = 0.0

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}
