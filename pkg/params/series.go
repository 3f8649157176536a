package params

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/powersim/solarparam/pkg/config"
	"gonum.org/v1/gonum/interp"
)

func init() {
	Register("csv-series", func(data config.ParameterData, deps Dependencies) (Parameter, error) {
		if data.CSVFile == "" {
			return nil, &ConfigError{Parameter: data.Name, Field: "csv_file", Reason: "required field missing"}
		}
		column := data.CSVColumn
		if column == "" {
			column = "value"
		}
		return NewCSVSeries(data.Name, data.CSVFile, column, data.Interpolate)
	})
}

// CSVSeries is a time-indexed scalar series loaded from a CSV file with a
// "time" column (RFC 3339) and one or more value columns. Lookups either
// step to the most recent sample at or before t, or interpolate linearly
// between neighboring samples; timestamps outside the series clamp to the
// nearest endpoint either way.
type CSVSeries struct {
	name  string
	times []time.Time
	// xs mirrors times as Unix seconds for the interpolator.
	xs          []float64
	ys          []float64
	interpolate bool
	pl          interp.PiecewiseLinear
}

// NewCSVSeries loads the series from path, reading values out of the named
// column. Rows must be unique in time; they are sorted on load.
func NewCSVSeries(name, path, column string, interpolate bool) (*CSVSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ConfigError{Parameter: name, Field: "csv_file", Reason: err.Error()}
	}
	defer f.Close()

	rows, err := gocsv.CSVToMaps(f)
	if err != nil {
		return nil, &ConfigError{Parameter: name, Field: "csv_file", Reason: fmt.Sprintf("parsing %s: %v", path, err)}
	}
	if len(rows) == 0 {
		return nil, &ConfigError{Parameter: name, Field: "csv_file", Reason: "series is empty"}
	}

	p := &CSVSeries{name: name, interpolate: interpolate}
	for i, row := range rows {
		ts, ok := row["time"]
		if !ok {
			return nil, &ConfigError{Parameter: name, Field: "csv_file", Reason: `missing "time" column`}
		}
		t, err := time.Parse(time.RFC3339, ts)
		if err != nil {
			return nil, &ConfigError{Parameter: name, Field: "csv_file", Reason: fmt.Sprintf("row %d: bad timestamp %q", i+1, ts)}
		}
		raw, ok := row[column]
		if !ok {
			return nil, &ConfigError{Parameter: name, Field: "csv_column", Reason: fmt.Sprintf("no column %q in %s", column, path)}
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, &ConfigError{Parameter: name, Field: "csv_file", Reason: fmt.Sprintf("row %d: bad value %q", i+1, raw)}
		}
		p.times = append(p.times, t)
		p.ys = append(p.ys, v)
	}

	sort.Sort(bySeriesTime{p})

	p.xs = make([]float64, len(p.times))
	for i, t := range p.times {
		p.xs[i] = float64(t.Unix())
		if i > 0 && p.xs[i] <= p.xs[i-1] {
			return nil, &ConfigError{Parameter: name, Field: "csv_file", Reason: fmt.Sprintf("duplicate timestamp %s", p.times[i].Format(time.RFC3339))}
		}
	}

	if interpolate && len(p.xs) > 1 {
		if err := p.pl.Fit(p.xs, p.ys); err != nil {
			return nil, &ConfigError{Parameter: name, Field: "csv_file", Reason: fmt.Sprintf("fitting interpolator: %v", err)}
		}
	}

	return p, nil
}

func (p *CSVSeries) Name() string { return p.name }

func (p *CSVSeries) Setup() error { return nil }

func (p *CSVSeries) Value(t time.Time, scenario int) (float64, error) {
	x := float64(t.Unix())

	// Clamp to the series range before any lookup.
	if x <= p.xs[0] {
		return p.ys[0], nil
	}
	if x >= p.xs[len(p.xs)-1] {
		return p.ys[len(p.ys)-1], nil
	}

	if p.interpolate && len(p.xs) > 1 {
		return p.pl.Predict(x), nil
	}

	// Step lookup: the most recent sample at or before t.
	i := sort.SearchFloat64s(p.xs, x)
	if i < len(p.xs) && p.xs[i] == x {
		return p.ys[i], nil
	}
	return p.ys[i-1], nil
}

// bySeriesTime sorts the parallel time/value slices together.
type bySeriesTime struct{ p *CSVSeries }

func (s bySeriesTime) Len() int           { return len(s.p.times) }
func (s bySeriesTime) Less(i, j int) bool { return s.p.times[i].Before(s.p.times[j]) }
func (s bySeriesTime) Swap(i, j int) {
	s.p.times[i], s.p.times[j] = s.p.times[j], s.p.times[i]
	s.p.ys[i], s.p.ys[j] = s.p.ys[j], s.p.ys[i]
}
