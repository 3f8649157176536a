// Package memory implements an in-process storage backend. It keeps the
// latest sample per parameter and a bounded history per parameter, and is
// what the REST controller reads from.
package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/powersim/solarparam/internal/log"
	"github.com/powersim/solarparam/internal/types"
)

// DefaultSeriesLimit bounds how many samples per parameter the store retains.
const DefaultSeriesLimit = 10000

// Storage is an in-memory sample store safe for concurrent use.
type Storage struct {
	mu          sync.RWMutex
	latest      map[string]types.Sample
	series      map[string][]types.Sample
	seriesLimit int
}

// New creates an in-memory storage backend. limit bounds per-parameter
// history; zero or negative means DefaultSeriesLimit.
func New(limit int) *Storage {
	if limit <= 0 {
		limit = DefaultSeriesLimit
	}
	return &Storage{
		latest:      make(map[string]types.Sample),
		series:      make(map[string][]types.Sample),
		seriesLimit: limit,
	}
}

// StartStorageEngine creates a goroutine loop to receive samples and fold
// them into the in-memory maps
func (m *Storage) StartStorageEngine(ctx context.Context, wg *sync.WaitGroup) chan<- types.Sample {
	log.Info("starting in-memory storage engine...")
	sampleChan := make(chan types.Sample, 10)
	wg.Add(1)
	go m.processSamples(wg, sampleChan)
	return sampleChan
}

// processSamples folds samples into the maps until the distributor closes the
// channel, so nothing buffered at shutdown gets dropped.
func (m *Storage) processSamples(wg *sync.WaitGroup, schan <-chan types.Sample) {
	defer wg.Done()

	for s := range schan {
		m.store(s)
	}
	log.Info("sample channel closed. Stopping sample processor.")
}

func (m *Storage) store(s types.Sample) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.latest[s.Parameter] = s

	history := append(m.series[s.Parameter], s)
	if len(history) > m.seriesLimit {
		history = history[len(history)-m.seriesLimit:]
	}
	m.series[s.Parameter] = history
}

// Latest returns the most recent sample for every parameter, ordered by
// parameter name.
func (m *Storage) Latest() []types.Sample {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]types.Sample, 0, len(m.latest))
	for _, s := range m.latest {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Parameter < out[j].Parameter })
	return out
}

// Series returns the retained history for one parameter, oldest first. The
// second return reports whether any samples exist for that parameter.
func (m *Storage) Series(parameter string) ([]types.Sample, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history, ok := m.series[parameter]
	if !ok {
		return nil, false
	}
	out := make([]types.Sample, len(history))
	copy(out, history)
	return out, true
}

// Parameters returns the names of all parameters with stored samples, sorted.
func (m *Storage) Parameters() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.series))
	for name := range m.series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
