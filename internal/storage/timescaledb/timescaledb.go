// Package timescaledb implements the TimescaleDB storage backend: samples go
// into a hypertable with continuous aggregates for per-run energy totals.
package timescaledb

import (
	"context"
	"sync"

	"github.com/powersim/solarparam/internal/database"
	"github.com/powersim/solarparam/internal/log"
	"github.com/powersim/solarparam/internal/types"
	"github.com/powersim/solarparam/pkg/config"
	"gorm.io/gorm"
)

// Storage holds the configuration for a TimescaleDB storage backend
type Storage struct {
	DBConn *gorm.DB
}

// StartStorageEngine creates a goroutine loop to receive samples and send
// them off to TimescaleDB
func (t *Storage) StartStorageEngine(ctx context.Context, wg *sync.WaitGroup) chan<- types.Sample {
	log.Info("starting TimescaleDB storage engine...")
	sampleChan := make(chan types.Sample, 10)
	wg.Add(1)
	go t.processSamples(wg, sampleChan)
	return sampleChan
}

// processSamples stores samples until the distributor closes the channel, so
// buffered rows still reach the database at shutdown.
func (t *Storage) processSamples(wg *sync.WaitGroup, schan <-chan types.Sample) {
	defer wg.Done()

	for s := range schan {
		if err := t.StoreSample(s); err != nil {
			log.Error("could not store sample:", err)
		}
	}
	log.Info("sample channel closed. Stopping sample processor.")
}

// StoreSample stores one sample row in TimescaleDB
func (t *Storage) StoreSample(s types.Sample) error {
	return t.DBConn.Create(&s).Error
}

// New sets up a new TimescaleDB storage backend
func New(ctx context.Context, c *config.TimescaleDBData) (*Storage, error) {
	var err error
	t := Storage{}

	t.DBConn, err = database.CreateConnection(c.ConnectionString)
	if err != nil {
		log.Warn("warning: unable to create a TimescaleDB connection:", err)
		return &Storage{}, err
	}

	// Create the samples table
	log.Info("creating samples table...")
	err = t.DBConn.WithContext(ctx).Exec(createTableSQL).Error
	if err != nil {
		log.Warn("warning: could not create samples table")
		return &Storage{}, err
	}

	// Create the TimescaleDB extension
	log.Info("creating TimescaleDB extension...")
	err = t.DBConn.WithContext(ctx).Exec(createExtensionSQL).Error
	if err != nil {
		log.Warn("warning: could not create TimescaleDB extension")
		return &Storage{}, err
	}

	// Create the hypertable
	log.Info("creating hypertable...")
	err = t.DBConn.WithContext(ctx).Exec(createHypertableSQL).Error
	if err != nil {
		log.Warn("warning: could not create hypertable")
		return &Storage{}, err
	}

	// Create the hourly energy view
	log.Info("creating hourly energy view...")
	err = t.DBConn.WithContext(ctx).Exec(createEnergy1hViewSQL).Error
	if err != nil {
		log.Warn("warning: could not create hourly energy view")
		return &Storage{}, err
	}

	// Create the daily energy view
	log.Info("creating daily energy view...")
	err = t.DBConn.WithContext(ctx).Exec(createEnergy1dViewSQL).Error
	if err != nil {
		log.Warn("warning: could not create daily energy view")
		return &Storage{}, err
	}

	// Add the hourly aggregation policy
	log.Info("adding hourly aggregation policy...")
	err = t.DBConn.WithContext(ctx).Exec(addAggregationPolicy1hSQL).Error
	if err != nil {
		log.Warn("warning: could not add hourly aggregation policy")
		return &Storage{}, err
	}

	// Add the daily aggregation policy
	log.Info("adding daily aggregation policy...")
	err = t.DBConn.WithContext(ctx).Exec(addAggregationPolicy1dSQL).Error
	if err != nil {
		log.Warn("warning: could not add daily aggregation policy")
		return &Storage{}, err
	}

	t.startHealthMonitor(ctx)

	return &t, nil
}
