package sim

import (
	"context"
	"testing"
	"time"

	"github.com/powersim/solarparam/internal/managers"
	"github.com/powersim/solarparam/internal/types"
	"github.com/powersim/solarparam/pkg/config"
	"go.uber.org/zap"
)

func testManager(t *testing.T, defs []config.ParameterData) *managers.ParameterManager {
	t.Helper()
	pm, err := managers.NewParameterManager(defs, nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewParameterManager() returned error: %v", err)
	}
	return pm
}

func TestRunnerRun(t *testing.T) {
	pm := testManager(t, []config.ParameterData{
		{Name: "baseline", Type: "constant", Value: 500, Output: true},
	})

	sim := config.SimulationData{
		Start:     time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2025, 6, 21, 2, 0, 0, 0, time.UTC),
		Interval:  time.Hour,
		Scenarios: 2,
	}

	distributor := make(chan types.Sample, 64)
	runner, err := NewRunner(sim, pm, distributor, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewRunner() returned error: %v", err)
	}

	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}

	// [00:00, 02:00] at 1h is three timesteps, both endpoints included.
	if report.Steps != 3 {
		t.Errorf("Steps = %d, want 3", report.Steps)
	}
	if report.RunID == "" {
		t.Error("RunID is empty")
	}

	if len(report.Summaries) != 1 {
		t.Fatalf("got %d summaries, want 1", len(report.Summaries))
	}
	s := report.Summaries[0]
	if s.Parameter != "baseline" || s.Samples != 6 {
		t.Errorf("summary = %+v, want 6 baseline samples", s)
	}
	if s.Mean != 500 || s.Max != 500 {
		t.Errorf("summary = %+v, want mean and max of 500", s)
	}
	// 6 samples of 500 W at one-hour spacing.
	if s.EnergyWh != 3000 {
		t.Errorf("EnergyWh = %v, want 3000", s.EnergyWh)
	}

	close(distributor)
	var got []types.Sample
	for sample := range distributor {
		got = append(got, sample)
	}
	if len(got) != 6 {
		t.Fatalf("distributor received %d samples, want 6", len(got))
	}
	for _, sample := range got {
		if sample.RunID != report.RunID {
			t.Errorf("sample RunID = %q, want %q", sample.RunID, report.RunID)
		}
		if sample.Parameter != "baseline" || sample.Value != 500 {
			t.Errorf("unexpected sample: %+v", sample)
		}
	}
}

func TestRunnerDiurnalMidnight(t *testing.T) {
	pm := testManager(t, []config.ParameterData{
		{Name: "profile", Type: "hourly-diurnal", Output: true,
			Values: []float64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19, 20, 21, 22, 23, 24, 25, 26, 27, 28, 29, 30, 31, 32, 33}},
	})

	sim := config.SimulationData{
		Start:    time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2025, 6, 21, 4, 0, 0, 0, time.UTC),
		Interval: time.Hour,
	}
	runner, err := NewRunner(sim, pm, nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewRunner() returned error: %v", err)
	}
	report, err := runner.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() returned error: %v", err)
	}
	// Midnight resolves to the 24th table entry, the following hours to the
	// first entries.
	s := report.Summaries[0]
	if s.Max != 33 {
		t.Errorf("Max = %v, want 33 (midnight entry)", s.Max)
	}
}

func TestNewRunnerValidation(t *testing.T) {
	pm := testManager(t, []config.ParameterData{
		{Name: "baseline", Type: "constant", Value: 1, Output: true},
	})
	logger := zap.NewNop().Sugar()
	start := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		sim  config.SimulationData
	}{
		{"zero interval", config.SimulationData{Start: start, End: start.Add(time.Hour)}},
		{"end before start", config.SimulationData{Start: start, End: start.Add(-time.Hour), Interval: time.Hour}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRunner(tt.sim, pm, nil, logger); err == nil {
				t.Error("NewRunner() succeeded, want error")
			}
		})
	}
}

func TestRunnerCancellation(t *testing.T) {
	pm := testManager(t, []config.ParameterData{
		{Name: "baseline", Type: "constant", Value: 1, Output: true},
	})
	sim := config.SimulationData{
		Start:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:      time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Interval: time.Minute,
	}
	runner, err := NewRunner(sim, pm, nil, zap.NewNop().Sugar())
	if err != nil {
		t.Fatalf("NewRunner() returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := runner.Run(ctx); err != context.Canceled {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}
