package params

import (
	"fmt"
	"time"

	"github.com/powersim/solarparam/pkg/config"
)

func init() {
	Register("hourly-diurnal", func(data config.ParameterData, deps Dependencies) (Parameter, error) {
		return NewHourlyDiurnal(data.Name, data.Values)
	})
}

// HourlyDiurnal is a repeating 24-hour lookup profile: a fixed table of 24
// values keyed by clock hour, with no interpolation and no calendar awareness
// beyond hour-of-day.
//
// The table uses a 1-based hour convention: hour 1 covers 01:00, hour 24
// covers midnight. Mapping midnight to the 24th entry reproduces the
// wrap-to-last-entry behavior the profile has always had for hour zero.
type HourlyDiurnal struct {
	name   string
	values [24]float64
}

// NewHourlyDiurnal builds a diurnal profile from exactly 24 ordered values,
// index 0 holding the value for clock hour 1.
func NewHourlyDiurnal(name string, values []float64) (*HourlyDiurnal, error) {
	if len(values) != 24 {
		return nil, &ConfigError{
			Parameter: name,
			Field:     "values",
			Reason:    fmt.Sprintf("need exactly 24 hourly values, got %d", len(values)),
		}
	}
	p := &HourlyDiurnal{name: name}
	copy(p.values[:], values)
	return p, nil
}

func (p *HourlyDiurnal) Name() string { return p.name }

func (p *HourlyDiurnal) Setup() error { return nil }

// AtHour returns the profile value for a 1-based clock hour. Hours outside
// [1, 24] are a RangeError, propagated to the caller with no silent default.
func (p *HourlyDiurnal) AtHour(hour int) (float64, error) {
	if hour < 1 || hour > 24 {
		return 0, &RangeError{Parameter: p.name, Value: hour, Min: 1, Max: 24}
	}
	return p.values[hour-1], nil
}

// Value returns the table entry for the wall-clock hour of t, treating
// midnight as hour 24.
func (p *HourlyDiurnal) Value(t time.Time, scenario int) (float64, error) {
	hour := t.Hour()
	if hour == 0 {
		hour = 24
	}
	return p.AtHour(hour)
}
