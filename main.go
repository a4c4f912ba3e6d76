package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"tei/communication"
	"tei/config"
	"tei/engine"
	"tei/experiments"
	"tei/game"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}

	// stdout belongs to the protocol, so logs go to stderr
	var logger zerolog.Logger
	switch cfg.GetString("log-level") {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(os.Stderr).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	case "disabled":
		zerolog.SetGlobalLevel(zerolog.Disabled)
		logger = zerolog.New(os.Stderr).Level(zerolog.Disabled)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	logger.Debug().Msgf("loaded config: %v", cfg.AllSettings())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	if cfg.GetBool("throughput") {
		err = runThroughput(ctx, cfg)
	} else {
		err = run(ctx, cfg.Engine(), logger)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("exiting")
		stop()
		os.Exit(1)
	}
	logger.Debug().Msg("bye")
}

// run serves TEI on stdin and stdout until quit, end of input or
// cancellation.
func run(ctx context.Context, cfg engine.Config, logger zerolog.Logger) error {
	input := communication.NewQueue()
	output := communication.NewQueue()

	// Never joined: a read on stdin cannot be interrupted
	go func() {
		if err := communication.Pump(os.Stdin, input); err != nil {
			logger.Debug().Err(err).Msg("stdin reader stopped")
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer output.Close()
		return engine.New(cfg, input, output, logger).Run(gctx)
	})
	g.Go(func() error {
		// The output queue is drained to the end even after the engine stops
		return communication.Drain(context.Background(), output, os.Stdout)
	})
	return g.Wait()
}

func runThroughput(ctx context.Context, cfg *config.Config) error {
	komi, err := game.FromHalfKomi(cfg.GetInt("throughput-komi"))
	if err != nil {
		return err
	}
	_, err = experiments.RunThroughput(ctx, experiments.Options{
		Dir:      cfg.GetString("throughput-dir"),
		Sizes:    cfg.GetIntSlice("throughput-sizes"),
		Games:    cfg.GetInt("throughput-games"),
		MoveTime: cfg.GetDuration("throughput-movetime"),
		Komi:     komi,
		Search:   cfg.Engine(),
	})
	return err
}
