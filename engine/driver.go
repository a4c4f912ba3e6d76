package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"strings"
	"time"

	"tei/communication"
	"tei/game"
	"tei/searcher"

	"github.com/samber/lo"
)

type pollResult int

const (
	keepSearching pollResult = iota
	stopSearching
	quitSession
)

// Progress is one info line.
type Progress struct {
	Depth    int
	SelDepth int
	Nodes    int
	ScoreCP  int
	Elapsed  time.Duration
	NPS      float64
	PV       []string
}

func (p Progress) String() string {
	return fmt.Sprintf("info depth %d seldepth %d nodes %d score cp %d time %d nps %.0f pv %s",
		p.Depth, p.SelDepth, p.Nodes, p.ScoreCP, p.Elapsed.Milliseconds(), p.NPS, strings.Join(p.PV, " "))
}

// driver runs one go command. It owns its tree and only reads the position.
type driver[S game.Size] struct {
	*Engine
	ctx      context.Context
	position *game.Position[S]
	tree     *searcher.Tree[S]
	start    time.Time
	steps    int
}

// search runs a go command to completion. quit is true when a quit arrived
// during the search, in which case no bestmove is sent.
func search[S game.Size](ctx context.Context, e *Engine, position *game.Position[S], budget Budget) (quit bool, err error) {
	if position == nil {
		return false, invalidInput("Received go without receiving position string")
	}
	if position.Outcome().Over {
		return false, invalidInput("Received go for a finished game %q", position.TPS())
	}

	d := &driver[S]{
		Engine:   e,
		ctx:      ctx,
		position: position,
		start:    time.Now(),
	}

	var result pollResult
	switch b := budget.(type) {
	case MoveTime:
		d.tree = searcher.NewTree(position, e.cfg.SearchOptions()...)
		result, err = d.runBatches(func(elapsed time.Duration) bool {
			return b.Exceeded(elapsed, e.cfg.SafetyMargin)
		})
	case Infinite:
		d.tree = searcher.NewTree(position, e.cfg.SearchOptions()...)
		result, err = d.runBatches(func(time.Duration) bool { return false })
	case Clock:
		allotment, aerr := b.Allotment(position.ToMove())
		if aerr != nil {
			return false, aerr
		}
		d.log.Debug().Dur("allotment", allotment).Msg("clock budget")
		d.tree = searcher.NewTree(position, e.cfg.SearchOptions()...)
		result, err = d.runClock(allotment)
	default:
		panic(fmt.Sprintf("unexpected budget %T", budget))
	}
	if err != nil {
		return false, err
	}

	metric := d.tree.Metrics()
	d.log.Debug().
		Dur("duration", metric.Duration).
		Int("episodes", metric.Episodes).
		Int("fullPlayouts", metric.FullPlayouts).
		Int("nodes", metric.Nodes).
		Bool("exhausted", metric.Exhausted).
		Msg("search complete")

	if result == quitSession {
		return true, nil
	}
	return false, d.finish()
}

// runBatches searches in geometrically growing batches, polling for input
// every PollInterval steps and reporting after every batch, until exceeded
// says the budget is spent, a stop arrives, or the tree is exhausted.
func (d *driver[S]) runBatches(exceeded func(elapsed time.Duration) bool) (pollResult, error) {
	for i := 0; ; i++ {
		size := int(d.cfg.BatchBase * math.Pow(d.cfg.BatchGrowth, float64(i)))
		exit := false
	batch:
		for j := 0; j < size; j++ {
			if d.steps%d.cfg.PollInterval == 0 {
				result, err := d.poll()
				if err != nil {
					return 0, err
				}
				switch result {
				case quitSession:
					return quitSession, nil
				case stopSearching:
					exit = true
					break batch
				}
			}
			d.steps++
			if !d.tree.Select() {
				d.log.Warn().Int("nodes", d.tree.Nodes()).Msg("search stopped early, tree is out of nodes")
				exit = true
				break
			}
		}
		if err := d.report(); err != nil {
			return 0, err
		}
		if exit || exceeded(time.Since(d.start)) {
			return stopSearching, nil
		}
	}
}

// runClock hands the deadline to the tree and polls from its progress
// callback. Info lines follow the same batch schedule as runBatches.
func (d *driver[S]) runClock(allotment time.Duration) (pollResult, error) {
	interval := max(d.cfg.PollInterval/10, 1)
	threshold := d.cfg.BatchBase
	batch := 0
	result := stopSearching
	var failure error

	exhausted := d.tree.SearchUntil(d.start.Add(allotment), interval, func() bool {
		r, err := d.poll()
		if err != nil {
			failure = err
			return false
		}
		switch r {
		case quitSession:
			result = quitSession
			return false
		case stopSearching:
			return false
		}
		if float64(d.tree.Visits()) >= threshold {
			if err := d.report(); err != nil {
				failure = err
				return false
			}
			batch++
			threshold += d.cfg.BatchBase * math.Pow(d.cfg.BatchGrowth, float64(batch))
		}
		return true
	})
	if failure != nil {
		return 0, failure
	}
	if result == quitSession {
		return quitSession, nil
	}
	if exhausted {
		d.log.Warn().Int("nodes", d.tree.Nodes()).Msg("search stopped early, tree is out of nodes")
	}
	return stopSearching, d.report()
}

// poll yields to the scheduler, then handles at most one queued line without
// blocking.
func (d *driver[S]) poll() (pollResult, error) {
	runtime.Gosched()
	if err := d.ctx.Err(); err != nil {
		return 0, err
	}

	line, err := d.in.TryRecv()
	switch {
	case errors.Is(err, communication.ErrEmpty):
		return keepSearching, nil
	case errors.Is(err, communication.ErrClosed):
		return 0, &Error{Kind: NoInput}
	case err != nil:
		return 0, err
	}

	d.log.Debug().Str("line", line).Msg("received during search")
	if strings.TrimSpace(line) == "" {
		return keepSearching, nil
	}
	cmd, err := ParseCommand(line)
	if err != nil {
		return 0, err
	}
	switch cmd.(type) {
	case Stop:
		return stopSearching, nil
	case Quit:
		return quitSession, nil
	case IsReady:
		return keepSearching, d.send("readyok")
	default:
		return 0, invalidInput("%s", line)
	}
}

func (d *driver[S]) progress() Progress {
	visits := d.tree.Visits()
	score := searcher.DRAW
	if _, s, ok := d.tree.BestMove(); ok {
		score = s
	}
	pv := lo.Map(d.tree.PV(), func(m game.Move, _ int) string {
		return d.position.MoveToNotation(m)
	})
	elapsed := time.Since(d.start)

	depth := 0
	if visits >= 100 {
		depth = int(math.Log2(float64(visits) / 100))
	}
	return Progress{
		Depth:    depth,
		SelDepth: len(pv),
		Nodes:    visits,
		ScoreCP:  int(score*200 - 100),
		Elapsed:  elapsed,
		NPS:      float64(visits) * 1000 / float64(max(elapsed.Milliseconds(), 1)),
		PV:       pv,
	}
}

func (d *driver[S]) report() error {
	return d.send(d.progress().String())
}

// finish announces the best move found. A search that never completed a step
// still answers with a playable move.
func (d *driver[S]) finish() error {
	move, _, ok := d.tree.BestMove()
	if !ok {
		if move, ok = d.position.AnyMove(); !ok {
			return invalidInput("No legal move in %q", d.position.TPS())
		}
		d.log.Warn().Msg("no search results, playing the first legal move")
	}
	return d.send("bestmove " + d.position.MoveToNotation(move))
}
