package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/powersim/solarparam/internal/devices/serialgauge"
	"github.com/powersim/solarparam/pkg/config"
	"go.uber.org/zap"
)

// DeviceManager owns the measurement devices that feed live readings into
// live-feed parameters.
type DeviceManager struct {
	gauges []*serialgauge.Gauge
	logger *zap.SugaredLogger
}

// NewDeviceManager creates the configured devices and binds them to the
// parameter manager's live feeds.
func NewDeviceManager(ctx context.Context, wg *sync.WaitGroup, devices []config.DeviceData, pm *ParameterManager, logger *zap.SugaredLogger) (*DeviceManager, error) {
	dm := &DeviceManager{logger: logger}

	feeds := pm.LiveFeeds()
	for _, dev := range devices {
		if !dev.Enabled {
			logger.Infof("device [%s] is disabled, skipping", dev.Name)
			continue
		}
		switch dev.Type {
		case "serial-gauge", "":
			gauge, err := serialgauge.New(ctx, wg, dev, feeds, logger)
			if err != nil {
				return nil, fmt.Errorf("error creating device [%s]: %v", dev.Name, err)
			}
			dm.gauges = append(dm.gauges, gauge)
		default:
			return nil, fmt.Errorf("unknown device type: %s", dev.Type)
		}
	}

	return dm, nil
}

// StartDevices starts every configured device.
func (dm *DeviceManager) StartDevices() error {
	for _, gauge := range dm.gauges {
		if err := gauge.Start(); err != nil {
			return fmt.Errorf("error starting device [%s]: %v", gauge.Name(), err)
		}
	}
	dm.logger.Infof("Started %d devices successfully", len(dm.gauges))
	return nil
}
