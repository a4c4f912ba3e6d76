package engine

import (
	"tei/meta"
	"tei/searcher"
)

// Config is fixed for the lifetime of an Engine.
type Config struct {
	Name   string
	Author string

	// Slatebot selects the deeper-rollout search profile.
	Slatebot bool

	// PollInterval is the number of search steps between input polls.
	PollInterval int
	// The i-th batch runs BatchBase * BatchGrowth^i steps and ends with an
	// info line.
	BatchBase   float64
	BatchGrowth float64
	// SafetyMargin is the fraction of a movetime limit the search may use.
	SafetyMargin float64

	// Exploration is the UCT constant c²; 0 keeps the tree default.
	Exploration  float64
	MaxNodes     int
	RolloutDepth int
	Seed         uint64 // 0 seeds from the clock
}

func DefaultConfig() Config {
	return Config{
		Name:         meta.ENGINE_NAME,
		Author:       meta.ENGINE_AUTHOR,
		PollInterval: meta.POLL_INTERVAL,
		BatchBase:    meta.BATCH_BASE,
		BatchGrowth:  meta.BATCH_GROWTH,
		SafetyMargin: meta.SAFETY_MARGIN,
		MaxNodes:     meta.MAX_NODES,
	}
}

// withDefaults fills every unset or unusable field from DefaultConfig.
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Name == "" {
		c.Name = d.Name
	}
	if c.Author == "" {
		c.Author = d.Author
	}
	if c.PollInterval <= 0 {
		c.PollInterval = d.PollInterval
	}
	if c.BatchBase < 1 {
		c.BatchBase = d.BatchBase
	}
	if c.BatchGrowth < 1 {
		c.BatchGrowth = d.BatchGrowth
	}
	if c.SafetyMargin <= 0 || c.SafetyMargin > 1 {
		c.SafetyMargin = d.SafetyMargin
	}
	if c.MaxNodes <= 0 {
		c.MaxNodes = d.MaxNodes
	}
	return c
}

// Cutoff is the rollout depth of the selected profile.
func (c Config) Cutoff() int {
	if c.Slatebot {
		return c.RolloutDepth + meta.SLATEBOT_ROLLOUT_DEPTH
	}
	return c.RolloutDepth
}

// SearchOptions are the tree settings for one go command.
func (c Config) SearchOptions() []searcher.Option {
	options := []searcher.Option{
		searcher.WithCutoff(c.Cutoff()),
		searcher.WithExploration(c.Exploration),
		searcher.WithMaxNodes(c.MaxNodes),
		searcher.WithMetrics(),
	}
	if c.Seed != 0 {
		options = append(options, searcher.WithSeed(c.Seed))
	}
	return options
}
