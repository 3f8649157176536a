package sim

import (
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary aggregates one output parameter's values over a whole run, all
// scenarios pooled.
type Summary struct {
	Parameter string  `json:"parameter"`
	Samples   int     `json:"samples"`
	Mean      float64 `json:"mean"`
	Max       float64 `json:"max"`
	// EnergyWh is the time integral of the sampled power, treating each
	// sample as constant over its interval. Meaningful when the parameter is
	// a power in watts; otherwise it is just value-hours.
	EnergyWh float64 `json:"energy_wh"`
}

func summarize(name string, values []float64, interval time.Duration) Summary {
	s := Summary{Parameter: name, Samples: len(values)}
	if len(values) == 0 {
		return s
	}
	s.Mean = stat.Mean(values, nil)
	s.Max = floats.Max(values)
	s.EnergyWh = floats.Sum(values) * interval.Hours()
	return s
}
