package params

import (
	"time"

	"github.com/powersim/solarparam/pkg/config"
)

func init() {
	Register("constant", func(data config.ParameterData, deps Dependencies) (Parameter, error) {
		return NewConstant(data.Name, data.Value), nil
	})
}

// Constant is a fixed scalar, the simplest input a simulation can reference.
type Constant struct {
	name  string
	value float64
}

func NewConstant(name string, value float64) *Constant {
	return &Constant{name: name, value: value}
}

func (p *Constant) Name() string { return p.name }

func (p *Constant) Setup() error { return nil }

func (p *Constant) Value(t time.Time, scenario int) (float64, error) {
	return p.value, nil
}
