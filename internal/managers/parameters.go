// Package managers wires configuration into running components: the
// parameter graph, storage backends, controllers, and measurement devices.
package managers

import (
	"fmt"

	"github.com/powersim/solarparam/pkg/config"
	"github.com/powersim/solarparam/pkg/ephemeris"
	"github.com/powersim/solarparam/pkg/params"
	"go.uber.org/zap"
)

// ParameterManager builds the parameter graph from configuration and owns the
// built parameters for the life of the run.
type ParameterManager struct {
	defs   map[string]config.ParameterData
	built  map[string]params.Parameter
	order  []string
	logger *zap.SugaredLogger
}

// NewParameterManager constructs every configured parameter, resolving nested
// references between them. References are resolved at load time so a broken
// reference fails here, before the simulation starts.
func NewParameterManager(defs []config.ParameterData, opener ephemeris.Opener, logger *zap.SugaredLogger) (*ParameterManager, error) {
	pm := &ParameterManager{
		defs:   make(map[string]config.ParameterData, len(defs)),
		built:  make(map[string]params.Parameter, len(defs)),
		logger: logger,
	}
	for _, def := range defs {
		if def.Name == "" {
			return nil, fmt.Errorf("parameter with empty name in configuration")
		}
		if _, dup := pm.defs[def.Name]; dup {
			return nil, fmt.Errorf("duplicate parameter name %q", def.Name)
		}
		pm.defs[def.Name] = def
		pm.order = append(pm.order, def.Name)
	}

	// building tracks the resolution stack for cycle detection.
	building := make(map[string]bool)

	deps := params.Dependencies{Ephemeris: opener, Logger: logger}
	var resolve func(name string) (params.Parameter, error)
	resolve = func(name string) (params.Parameter, error) {
		if p, ok := pm.built[name]; ok {
			return p, nil
		}
		if building[name] {
			return nil, fmt.Errorf("parameter %q references itself (directly or through a cycle)", name)
		}
		def, ok := pm.defs[name]
		if !ok {
			return nil, fmt.Errorf("parameter %q referenced but not defined", name)
		}
		building[name] = true
		defer delete(building, name)

		p, err := params.New(def, deps)
		if err != nil {
			return nil, err
		}
		pm.built[name] = p
		return p, nil
	}
	deps.Resolve = resolve

	for _, name := range pm.order {
		if _, err := resolve(name); err != nil {
			return nil, fmt.Errorf("building parameter %q: %w", name, err)
		}
	}

	return pm, nil
}

// Get returns the built parameter registered under name.
func (pm *ParameterManager) Get(name string) (params.Parameter, bool) {
	p, ok := pm.built[name]
	return p, ok
}

// Outputs returns, in configuration order, the parameters the runner records
// each timestep.
func (pm *ParameterManager) Outputs() []params.Parameter {
	var out []params.Parameter
	for _, name := range pm.order {
		if pm.defs[name].Output {
			out = append(out, pm.built[name])
		}
	}
	return out
}

// LiveFeeds returns every live-feed parameter so the device manager can bind
// incoming readings to them.
func (pm *ParameterManager) LiveFeeds() []*params.LiveFeed {
	var feeds []*params.LiveFeed
	for _, name := range pm.order {
		if feed, ok := pm.built[name].(*params.LiveFeed); ok {
			feeds = append(feeds, feed)
		}
	}
	return feeds
}

// Names returns the names of all configured parameters, in configuration
// order.
func (pm *ParameterManager) Names() []string {
	out := make([]string, len(pm.order))
	copy(out, pm.order)
	return out
}

// SetupAll runs the expensive second lifecycle phase for every parameter:
// ephemeris sessions are acquired here, before the timestep loop.
func (pm *ParameterManager) SetupAll() error {
	for _, name := range pm.order {
		pm.logger.Debugf("setting up parameter %s", name)
		if err := pm.built[name].Setup(); err != nil {
			return err
		}
	}
	return nil
}

// CloseAll releases any resources parameters acquired in Setup.
func (pm *ParameterManager) CloseAll() {
	for _, name := range pm.order {
		if closer, ok := pm.built[name].(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				pm.logger.Warnf("closing parameter %s: %v", name, err)
			}
		}
	}
}
