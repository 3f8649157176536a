package params

import (
	"sync"
	"time"

	"github.com/powersim/solarparam/pkg/config"
)

func init() {
	Register("live-feed", func(data config.ParameterData, deps Dependencies) (Parameter, error) {
		if data.Device == "" {
			return nil, &ConfigError{Parameter: data.Name, Field: "device", Reason: "required field missing"}
		}
		field := data.Field
		if field == "" {
			field = "value"
		}
		return NewLiveFeed(data.Name, data.Device, field), nil
	})
}

// LiveFeed holds the most recent reading pushed by a device manager. The
// device side calls Set from its read loop; the simulation side reads the
// latest value regardless of the timestep being evaluated. Before the first
// reading arrives the feed reports zero.
type LiveFeed struct {
	name   string
	device string
	field  string

	mu   sync.RWMutex
	last float64
}

func NewLiveFeed(name, device, field string) *LiveFeed {
	return &LiveFeed{name: name, device: device, field: field}
}

func (p *LiveFeed) Name() string { return p.name }

// Device names the configured device this feed is bound to.
func (p *LiveFeed) Device() string { return p.device }

// Field names the reading field within the device's packets.
func (p *LiveFeed) Field() string { return p.field }

func (p *LiveFeed) Setup() error { return nil }

// Set records a new reading from the device side.
func (p *LiveFeed) Set(v float64) {
	p.mu.Lock()
	p.last = v
	p.mu.Unlock()
}

func (p *LiveFeed) Value(t time.Time, scenario int) (float64, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last, nil
}
