// Package sim drives the timestep loop: it evaluates every output parameter
// at each timestep for each scenario, pushes the samples to the storage
// distributor, and summarizes the run.
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/powersim/solarparam/internal/managers"
	"github.com/powersim/solarparam/internal/types"
	"github.com/powersim/solarparam/pkg/config"
	"go.uber.org/zap"
)

// Runner iterates the configured simulation window and records samples.
type Runner struct {
	sim         config.SimulationData
	pm          *managers.ParameterManager
	distributor chan<- types.Sample
	logger      *zap.SugaredLogger
}

// NewRunner validates the simulation window and builds a runner. distributor
// may be nil for dry runs that only want the report.
func NewRunner(sim config.SimulationData, pm *managers.ParameterManager, distributor chan<- types.Sample, logger *zap.SugaredLogger) (*Runner, error) {
	if sim.Interval <= 0 {
		return nil, fmt.Errorf("simulation interval must be positive, got %v", sim.Interval)
	}
	if !sim.End.After(sim.Start) {
		return nil, fmt.Errorf("simulation end %v is not after start %v", sim.End, sim.Start)
	}
	if sim.Scenarios < 1 {
		sim.Scenarios = 1
	}
	return &Runner{
		sim:         sim,
		pm:          pm,
		distributor: distributor,
		logger:      logger,
	}, nil
}

// Run executes the timestep loop over [start, end], inclusive of both
// endpoints. Each output parameter is evaluated once per timestep per
// scenario; an evaluation error aborts the run.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	outputs := r.pm.Outputs()
	if len(outputs) == 0 {
		return nil, fmt.Errorf("no output parameters configured")
	}

	runID := uuid.New().String()
	r.logger.Infof("starting simulation run %s: %v to %v every %v, %d scenario(s), %d output(s)",
		runID, r.sim.Start, r.sim.End, r.sim.Interval, r.sim.Scenarios, len(outputs))

	collected := make(map[string][]float64, len(outputs))
	steps := 0

	for t := r.sim.Start; !t.After(r.sim.End); t = t.Add(r.sim.Interval) {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		for scenario := 0; scenario < r.sim.Scenarios; scenario++ {
			for _, p := range outputs {
				v, err := p.Value(t, scenario)
				if err != nil {
					return nil, fmt.Errorf("evaluating %s at %v (scenario %d): %w", p.Name(), t, scenario, err)
				}

				collected[p.Name()] = append(collected[p.Name()], v)

				if r.distributor != nil {
					r.distributor <- types.Sample{
						Time:      t,
						RunID:     runID,
						Parameter: p.Name(),
						Scenario:  scenario,
						Value:     v,
					}
				}
			}
		}
		steps++
	}

	report := &Report{
		RunID:     runID,
		Start:     r.sim.Start,
		End:       r.sim.End,
		Interval:  r.sim.Interval,
		Scenarios: r.sim.Scenarios,
		Steps:     steps,
	}
	for _, p := range outputs {
		report.Summaries = append(report.Summaries, summarize(p.Name(), collected[p.Name()], r.sim.Interval))
	}

	r.logger.Infof("simulation run %s complete: %d timesteps", runID, steps)
	return report, nil
}

// Report describes one completed simulation run.
type Report struct {
	RunID     string        `json:"run_id"`
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Interval  time.Duration `json:"interval"`
	Scenarios int           `json:"scenarios"`
	Steps     int           `json:"steps"`
	Summaries []Summary     `json:"summaries"`
}
