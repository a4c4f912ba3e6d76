package searcher

import (
	"sync/atomic"
	"time"
)

type SearchMetric struct {
	Duration     time.Duration
	Episodes     int
	FullPlayouts int
	Nodes        int
	Cutoff       int
	Exhausted    bool
}

type Collector interface {
	Start(cutoff int)
	AddEpisode()
	AddFullPlayout()
	SetExhausted()
	Complete(nodes int) SearchMetric
}

type collector struct {
	cutoff       int
	startTime    time.Time
	episodes     atomic.Int64
	fullPlayouts atomic.Int64
	exhausted    atomic.Bool
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(cutoff int) {
	m.startTime = time.Now()
	m.cutoff = cutoff
}

func (m *collector) AddEpisode() {
	m.episodes.Add(1)
}

func (m *collector) AddFullPlayout() {
	m.fullPlayouts.Add(1)
}

func (m *collector) SetExhausted() {
	m.exhausted.Store(true)
}

func (m *collector) Complete(nodes int) SearchMetric {
	return SearchMetric{
		Duration:     time.Since(m.startTime),
		Episodes:     int(m.episodes.Load()),
		FullPlayouts: int(m.fullPlayouts.Load()),
		Nodes:        nodes,
		Cutoff:       m.cutoff,
		Exhausted:    m.exhausted.Load(),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(cutoff int)                {}
func (m *dummyCollector) AddEpisode()                     {}
func (m *dummyCollector) AddFullPlayout()                 {}
func (m *dummyCollector) SetExhausted()                   {}
func (m *dummyCollector) Complete(nodes int) SearchMetric { return SearchMetric{} }
