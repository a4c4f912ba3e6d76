package experiments

import (
	"context"
	"fmt"
	"time"

	"tei/engine"
	"tei/experiments/metrics"
	"tei/game"
	"tei/meta"
	"tei/searcher"

	"github.com/rs/zerolog/log"
)

// Options configures a self-play throughput run.
type Options struct {
	Dir      string // records are written under <Dir>/throughput/<timestamp>
	Sizes    []int
	Games    int // per size
	MoveTime time.Duration
	Komi     game.Komi
	// Search is shared by both sides. A nonzero seed is offset by the ply so
	// every move searches a different tree.
	Search engine.Config
}

// RunThroughput plays Games self-play games on each board size, searching
// every move for MoveTime, and writes agent, game and move records as CSV.
// It returns the directory the records were written to.
func RunThroughput(ctx context.Context, opts Options) (string, error) {
	if opts.Search.PollInterval <= 0 {
		opts.Search.PollInterval = meta.POLL_INTERVAL
	}
	if opts.Search.MaxNodes <= 0 {
		opts.Search.MaxNodes = meta.MAX_NODES
	}

	configs := []metrics.AgentConfig{}
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}
	count := 0

	log.Info().Msgf("starting throughput experiment on sizes %v...", opts.Sizes)

	for si, size := range opts.Sizes {
		config := metrics.AgentConfig{
			ID:       si + 1,
			Size:     size,
			MoveTime: opts.MoveTime,
			Cutoff:   opts.Search.Cutoff(),
			MaxNodes: opts.Search.MaxNodes,
		}
		configs = append(configs, config)

		for i := 0; i < opts.Games; i++ {
			log.Info().Msgf("starting size %d game %d of %d...", size, i+1, opts.Games)

			gameMetric, moveMetrics, err := runGame(ctx, size, opts)
			if err != nil {
				return "", err
			}
			count++
			gameRecords = append(gameRecords, metrics.GameRecord{
				ID:         count,
				Agent:      config.ID,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       count,
					MoveMetric: mm,
				})
			}

			log.Info().Msgf("completed size %d game %d after %d moves with winner: %s", size, i+1, gameMetric.TotalMoves, gameMetric.Winner)
		}
	}

	log.Info().Msg("completed throughput experiment")

	writer, err := metrics.NewWriter(opts.Dir, "throughput")
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}
	if err := writer.WriteAgentConfigs(configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Str("dir", writer.Dir()).Msg("stored experiment records")

	return writer.Dir(), nil
}

func runGame(ctx context.Context, size int, opts Options) (metrics.GameMetric, []metrics.MoveMetric, error) {
	switch size {
	case 4:
		return playGame[game.Size4](ctx, opts)
	case 5:
		return playGame[game.Size5](ctx, opts)
	case 6:
		return playGame[game.Size6](ctx, opts)
	default:
		return metrics.GameMetric{}, nil, fmt.Errorf("unsupported board size %d", size)
	}
}

// playGame plays one game against itself, building a fresh tree for every
// move. Games still undecided after meta.MAX_PLIES are recorded as truncated
// draws.
func playGame[S game.Size](ctx context.Context, opts Options) (metrics.GameMetric, []metrics.MoveMetric, error) {
	position := game.StartPosition[S](opts.Komi)
	gameMetric := metrics.GameMetric{StartTime: time.Now()}
	moveMetrics := []metrics.MoveMetric{}

	ply := 0
	for ; ply < meta.MAX_PLIES && !position.Outcome().Over; ply++ {
		if err := ctx.Err(); err != nil {
			return gameMetric, nil, err
		}

		search := opts.Search
		if search.Seed != 0 {
			search.Seed += uint64(ply)
		}
		tree := searcher.NewTree(position, search.SearchOptions()...)
		tree.SearchUntil(time.Now().Add(opts.MoveTime), search.PollInterval, func() bool {
			return ctx.Err() == nil
		})

		move, _, ok := tree.BestMove()
		if !ok {
			// Nothing searched in time
			if move, ok = position.AnyMove(); !ok {
				break
			}
		}
		next, err := position.Play(move)
		if err != nil {
			return gameMetric, nil, fmt.Errorf("self-play move %s at ply %d: %w", position.MoveToNotation(move), ply, err)
		}

		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Ply:          ply,
			Player:       game.ColorName(position.ToMove()),
			Move:         position.MoveToNotation(move),
			SearchMetric: tree.Metrics(),
		})
		position = next
	}

	outcome := position.Outcome()
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = ply
	gameMetric.Winner = game.ColorName(outcome.Winner)
	gameMetric.Truncated = !outcome.Over
	return gameMetric, moveMetrics, nil
}
