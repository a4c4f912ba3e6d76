package config

import (
	"strings"
	"time"

	"tei/engine"
	"tei/meta"
	"tei/searcher"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config layers command-line flags over TEI_* environment variables over
// built-in defaults.
type Config struct {
	*viper.Viper
}

func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("tei", pflag.ContinueOnError)
	fs.Bool("slatebot", false, "use the deeper-rollout search profile")
	fs.String("log-level", "info", "log level: debug, info or disabled")
	fs.Int("poll-interval", meta.POLL_INTERVAL, "search steps between input polls")
	fs.Float64("batch-base", meta.BATCH_BASE, "search steps in the first batch")
	fs.Float64("batch-growth", meta.BATCH_GROWTH, "size factor between consecutive batches")
	fs.Float64("safety-margin", meta.SAFETY_MARGIN, "fraction of a movetime limit to search for")
	fs.Float64("exploration", searcher.CSquared, "UCT exploration constant c squared")
	fs.Int("max-nodes", meta.MAX_NODES, "tree node budget per search")
	fs.Int("rollout-depth", 0, "random moves per rollout before static evaluation")
	fs.Uint64("seed", 0, "search seed, 0 to seed from the clock")

	fs.Bool("throughput", false, "run the self-play throughput experiment instead of TEI")
	fs.String("throughput-dir", "experiments", "directory for experiment records")
	fs.Int("throughput-games", 2, "self-play games per board size")
	fs.Duration("throughput-movetime", 100*time.Millisecond, "search time per self-play move")
	fs.Int("throughput-komi", 0, "half komi for self-play games")
	fs.IntSlice("throughput-sizes", meta.SUPPORTED_SIZES, "board sizes to play")

	if err := fs.Parse(args); err != nil {
		return err
	}

	c.Viper = viper.New()
	c.SetEnvPrefix("tei")
	c.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	c.AutomaticEnv()
	return c.BindPFlags(fs)
}

// Engine returns the protocol engine settings.
func (c *Config) Engine() engine.Config {
	return engine.Config{
		Name:         meta.ENGINE_NAME,
		Author:       meta.ENGINE_AUTHOR,
		Slatebot:     c.GetBool("slatebot"),
		PollInterval: c.GetInt("poll-interval"),
		BatchBase:    c.GetFloat64("batch-base"),
		BatchGrowth:  c.GetFloat64("batch-growth"),
		SafetyMargin: c.GetFloat64("safety-margin"),
		Exploration:  c.GetFloat64("exploration"),
		MaxNodes:     c.GetInt("max-nodes"),
		RolloutDepth: c.GetInt("rollout-depth"),
		Seed:         c.GetUint64("seed"),
	}
}
