package searcher

import (
	"tei/game"
)

type node struct {
	parent   *node
	move     game.Move   // Move that led here from parent
	mover    game.Color  // Side that played move
	untried  []game.Move // nil until expanded and again once drained
	expanded bool
	children []*node
	rewards  float64
	visits   float64
	terminal bool
	winner   game.Color // Only meaningful on terminal nodes
}

func (n *node) pickChild(cSquared float64) *node {
	if n.visits == 0 {
		panic("node has children but no visits")
	}

	policy := newUCT(cSquared, n.visits)

	var best *node
	maxScore := -1.0
	for _, child := range n.children {
		if score := policy.evaluate(child.rewards, child.visits); score > maxScore {
			maxScore = score
			best = child
		}
	}
	return best
}

func (n *node) mostVisited() *node {
	var best *node
	for _, child := range n.children {
		if best == nil || child.visits > best.visits {
			best = child
		}
	}
	return best
}

// backup credits a white-perspective score to every node from n up to the root.
func (n *node) backup(white float64) {
	for node := n; node != nil; node = node.parent {
		node.visits++
		if node.mover == game.White {
			node.rewards += white
		} else {
			node.rewards += 1 - white
		}
	}
}

func whiteScore(winner game.Color) float64 {
	switch winner {
	case game.White:
		return WIN
	case game.Black:
		return LOSS
	default:
		return DRAW
	}
}
