package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/powersim/solarparam/internal/types"
)

func sampleAt(param string, minute int, value float64) types.Sample {
	return types.Sample{
		Time:      time.Date(2025, 6, 21, 12, minute, 0, 0, time.UTC),
		RunID:     "run-1",
		Parameter: param,
		Value:     value,
	}
}

func TestStorageLatestAndSeries(t *testing.T) {
	m := New(0)
	m.store(sampleAt("array", 0, 100))
	m.store(sampleAt("array", 15, 250))
	m.store(sampleAt("profile", 0, 1.5))

	latest := m.Latest()
	if len(latest) != 2 {
		t.Fatalf("Latest() returned %d samples, want 2", len(latest))
	}
	// Sorted by parameter name.
	if latest[0].Parameter != "array" || latest[0].Value != 250 {
		t.Errorf("latest[0] = %+v", latest[0])
	}
	if latest[1].Parameter != "profile" || latest[1].Value != 1.5 {
		t.Errorf("latest[1] = %+v", latest[1])
	}

	series, ok := m.Series("array")
	if !ok || len(series) != 2 {
		t.Fatalf("Series(array) = %v, %v", series, ok)
	}
	if series[0].Value != 100 || series[1].Value != 250 {
		t.Errorf("series out of order: %+v", series)
	}

	if _, ok := m.Series("unknown"); ok {
		t.Error("Series(unknown) reported samples")
	}

	params := m.Parameters()
	if len(params) != 2 || params[0] != "array" || params[1] != "profile" {
		t.Errorf("Parameters() = %v", params)
	}
}

func TestStorageSeriesLimit(t *testing.T) {
	m := New(3)
	for i := 0; i < 10; i++ {
		m.store(sampleAt("array", i, float64(i)))
	}

	series, _ := m.Series("array")
	if len(series) != 3 {
		t.Fatalf("retained %d samples, want 3", len(series))
	}
	if series[0].Value != 7 || series[2].Value != 9 {
		t.Errorf("retained wrong window: %+v", series)
	}
}

func TestStorageEngineChannel(t *testing.T) {
	m := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	var wg sync.WaitGroup

	ch := m.StartStorageEngine(ctx, &wg)
	for i := 0; i < 5; i++ {
		ch <- sampleAt("array", i, float64(i))
	}

	// Closing the channel stops the engine, but only after everything
	// buffered has been folded in.
	close(ch)
	wg.Wait()

	series, ok := m.Series("array")
	if !ok || len(series) != 5 {
		t.Fatalf("Series(array) retained %d samples, want 5", len(series))
	}
	latest := m.Latest()
	if len(latest) != 1 || latest[0].Value != 4 {
		t.Errorf("latest = %+v", latest)
	}
}
