package searcher

import (
	"time"

	"tei/game"
	"tei/meta"

	"golang.org/x/exp/rand"
)

type Option func(c *config)

type config struct {
	cSquared float64
	cutoff   int
	maxNodes int
	seed     uint64
	evaluate game.Evaluate
	metrics  Collector
}

func WithExploration(cSquared float64) Option {
	return func(c *config) {
		if cSquared > 0 {
			c.cSquared = cSquared
		}
	}
}

// WithCutoff sets how many random moves a rollout plays before the position
// is scored statically. Zero scores the expanded position directly.
func WithCutoff(depth int) Option {
	return func(c *config) {
		if depth >= 0 {
			c.cutoff = depth
		}
	}
}

// WithMaxNodes caps the number of nodes the tree may allocate. Once it is
// reached, Select reports exhaustion instead of growing the tree.
func WithMaxNodes(nodes int) Option {
	return func(c *config) {
		if nodes > 0 {
			c.maxNodes = nodes
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(c *config) {
		c.seed = seed
	}
}

func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(c *config) {
		if evaluate != nil {
			c.evaluate = evaluate
		}
	}
}

func WithMetrics() Option {
	return func(c *config) {
		c.metrics = NewCollector()
	}
}

// Tree is a single-threaded UCT search over positions on an S board. It is
// owned by exactly one caller for its lifetime.
type Tree[S game.Size] struct {
	config
	position *game.Position[S]
	root     *node
	nodes    int
	rng      *rand.Rand
	moves    []game.Move // Scratch buffer for rollouts
}

func NewTree[S game.Size](position *game.Position[S], options ...Option) *Tree[S] {
	t := &Tree[S]{
		config: config{ // Default values
			cSquared: CSquared,
			maxNodes: meta.MAX_NODES,
			seed:     uint64(time.Now().UnixNano()),
			evaluate: game.EvaluateFlats,
			metrics:  NewDummyCollector(),
		},
		position: position,
	}
	for _, option := range options {
		option(&t.config)
	}
	t.rng = rand.New(rand.NewSource(t.seed))
	t.root = t.newNode(nil, game.Move{}, game.Opponent(position.ToMove()), position)
	t.metrics.Start(t.cutoff)
	return t
}

// Select runs one search step: descend, expand one node, score it and back the
// score up to the root. It returns false without touching the tree once the
// node budget is spent.
func (t *Tree[S]) Select() bool {
	if t.nodes >= t.maxNodes {
		t.metrics.SetExhausted()
		return false
	}
	leaf, position := t.selectThenExpand()
	leaf.backup(t.rollout(leaf, position))
	t.metrics.AddEpisode()
	return true
}

// SearchUntil runs search steps until the deadline passes, the tree is
// exhausted, or progress returns false. The deadline is checked after every
// step; progress is called after every interval steps. The result reports
// whether the tree ran out of nodes.
func (t *Tree[S]) SearchUntil(deadline time.Time, interval int, progress func() bool) (exhausted bool) {
	interval = max(interval, 1)
	for steps := 1; time.Now().Before(deadline); steps++ {
		if !t.Select() {
			return true
		}
		if steps%interval == 0 && !progress() {
			return false
		}
	}
	return false
}

// Visits is the number of completed search steps.
func (t *Tree[S]) Visits() int {
	return int(t.root.visits)
}

// Nodes is the number of nodes allocated so far.
func (t *Tree[S]) Nodes() int {
	return t.nodes
}

// BestMove returns the most visited root move and its average score, between
// 0 and 1, from the point of view of the side to move. ok is false when the
// root has no searched moves.
func (t *Tree[S]) BestMove() (move game.Move, score float64, ok bool) {
	best := t.root.mostVisited()
	if best == nil {
		return game.Move{}, 0, false
	}
	return best.move, best.rewards / best.visits, true
}

// PV follows the most visited child from the root.
func (t *Tree[S]) PV() []game.Move {
	var pv []game.Move
	for n := t.root.mostVisited(); n != nil; n = n.mostVisited() {
		pv = append(pv, n.move)
	}
	return pv
}

func (t *Tree[S]) Metrics() SearchMetric {
	return t.metrics.Complete(t.nodes)
}

// newNode allocates a node for position. Its moves are generated on first
// expansion, so leaves that are never expanded hold no move list.
func (t *Tree[S]) newNode(parent *node, move game.Move, mover game.Color, position *game.Position[S]) *node {
	t.nodes++
	n := &node{parent: parent, move: move, mover: mover}
	if outcome := position.Outcome(); outcome.Over {
		n.terminal = true
		n.winner = outcome.Winner
	}
	return n
}

func (t *Tree[S]) selectThenExpand() (*node, *game.Position[S]) {
	n, position := t.root, t.position
	for !n.terminal {
		if child, next := t.expand(n, position); child != nil {
			return child, next
		}
		if len(n.children) == 0 { // No playable move at all
			n.terminal = true
			n.winner = game.NoColor
			break
		}
		child := n.pickChild(t.cSquared)
		next, err := position.Play(child.move)
		if err != nil {
			panic("previously expanded move became illegal: " + err.Error())
		}
		n, position = child, next
	}
	return n, position
}

// expand adds one untried move of n as a new child. Moves the rules reject are
// discarded. The move list is released once every move has been tried.
func (t *Tree[S]) expand(n *node, position *game.Position[S]) (*node, *game.Position[S]) {
	if !n.expanded {
		n.expanded = true
		n.untried = position.LegalMoves(nil)
		t.rng.Shuffle(len(n.untried), func(i, j int) {
			n.untried[i], n.untried[j] = n.untried[j], n.untried[i]
		})
	}
	for len(n.untried) > 0 {
		last := len(n.untried) - 1
		move := n.untried[last]
		n.untried = n.untried[:last]
		if len(n.untried) == 0 {
			n.untried = nil
		}

		next, err := position.Play(move)
		if err != nil {
			continue
		}
		child := t.newNode(n, move, position.ToMove(), next)
		n.children = append(n.children, child)
		return child, next
	}
	return nil, nil
}

// rollout plays random moves from the leaf for up to the cutoff depth and
// returns white's score for the result.
func (t *Tree[S]) rollout(leaf *node, position *game.Position[S]) float64 {
	if leaf.terminal {
		return whiteScore(leaf.winner)
	}
	for depth := 0; depth < t.cutoff; depth++ {
		next := t.randomMove(position)
		if next == nil {
			break
		}
		position = next
		if outcome := position.Outcome(); outcome.Over {
			t.metrics.AddFullPlayout()
			return whiteScore(outcome.Winner)
		}
	}
	return position.Evaluate(t.evaluate)
}

func (t *Tree[S]) randomMove(position *game.Position[S]) *game.Position[S] {
	t.moves = position.LegalMoves(t.moves)
	for len(t.moves) > 0 {
		i := t.rng.Intn(len(t.moves))
		if next, err := position.Play(t.moves[i]); err == nil {
			return next
		}
		t.moves[i] = t.moves[len(t.moves)-1]
		t.moves = t.moves[:len(t.moves)-1]
	}
	return nil
}
