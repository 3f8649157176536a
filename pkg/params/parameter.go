// Package params implements the parameter types the simulation runner
// evaluates each timestep: solar PV generation, repeating diurnal profiles,
// constants, CSV-backed series, and live device feeds. Parameter types
// register themselves under a type name so the loader can instantiate them
// from declarative configuration.
package params

import (
	"fmt"
	"sort"
	"time"

	"github.com/powersim/solarparam/pkg/config"
	"github.com/powersim/solarparam/pkg/ephemeris"
	"go.uber.org/zap"
)

// Parameter is a scalar value provider driven by the simulation runner. The
// runner calls Value once per timestep per scenario index; implementations
// must not assume any particular ordering of timesteps beyond what their
// documentation states.
type Parameter interface {
	Name() string

	// Setup acquires any expensive resources the parameter needs before the
	// first Value call. It is called once, before the timestep loop, and must
	// be idempotent.
	Setup() error

	// Value returns the parameter's value at t for the given scenario index.
	// t is interpreted as UTC wall-clock time.
	Value(t time.Time, scenario int) (float64, error)
}

// Dependencies carries the collaborators a parameter factory may need.
// Ephemeris is injected explicitly rather than held as process-global state
// so that estimators sharing one dataset load do so by shared reference.
type Dependencies struct {
	// Resolve returns the live parameter registered under name, constructing
	// it first if necessary. Factories use it to resolve nested parameter
	// references at load time.
	Resolve func(name string) (Parameter, error)

	// Ephemeris opens sun-position sessions for solar parameters.
	Ephemeris ephemeris.Opener

	Logger *zap.SugaredLogger
}

// Factory builds a parameter from its configuration data.
type Factory func(data config.ParameterData, deps Dependencies) (Parameter, error)

var registry = map[string]Factory{}

// Register makes a parameter type available to New under typeName. It is
// intended to be called from package init functions and panics on duplicate
// registration.
func Register(typeName string, factory Factory) {
	if _, dup := registry[typeName]; dup {
		panic(fmt.Sprintf("params: Register called twice for type %q", typeName))
	}
	registry[typeName] = factory
}

// New instantiates a parameter from its configuration data using the factory
// registered for data.Type.
func New(data config.ParameterData, deps Dependencies) (Parameter, error) {
	factory, ok := registry[data.Type]
	if !ok {
		return nil, &ConfigError{
			Parameter: data.Name,
			Field:     "type",
			Reason:    fmt.Sprintf("unknown parameter type %q (registered: %v)", data.Type, Types()),
		}
	}
	return factory(data, deps)
}

// Types returns the registered parameter type names, sorted.
func Types() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
