package managers

import (
	"context"
	"fmt"
	"sync"

	"github.com/powersim/solarparam/internal/storage"
	"github.com/powersim/solarparam/internal/storage/csvfile"
	"github.com/powersim/solarparam/internal/storage/memory"
	"github.com/powersim/solarparam/internal/storage/timescaledb"
	"github.com/powersim/solarparam/internal/types"
	"github.com/powersim/solarparam/pkg/config"
)

// StorageManager holds our active storage backends
type StorageManager struct {
	Engines           []StorageEngine
	SampleDistributor chan types.Sample

	// Memory is always enabled; the REST controller reads from it.
	Memory *memory.Storage

	distributorDone chan struct{}
	shutdownOnce    sync.Once
}

// StorageEngine holds a backend storage engine's interface as well as
// a channel for passing samples to the engine
type StorageEngine struct {
	Engine storage.StorageEngineInterface
	C      chan<- types.Sample
}

// NewStorageManager creates a StorageManager object, populated with all configured StorageEngines
func NewStorageManager(ctx context.Context, wg *sync.WaitGroup, c *config.StorageData) (*StorageManager, error) {
	s := StorageManager{}

	// Initialize our channel for passing samples to the distributor
	s.SampleDistributor = make(chan types.Sample, 20)
	s.distributorDone = make(chan struct{})

	// Start our sample distributor to fan received samples out to storage
	// backends
	wg.Add(1)
	go s.startSampleDistributor(ctx, wg)

	// The in-memory engine always runs so the REST controller has data to
	// serve.
	s.Memory = memory.New(0)
	s.Engines = append(s.Engines, StorageEngine{
		Engine: s.Memory,
		C:      s.Memory.StartStorageEngine(ctx, wg),
	})

	// Check the configuration for the optional persistent backends and
	// enable them if found

	if c != nil && c.TimescaleDB != nil && c.TimescaleDB.ConnectionString != "" {
		engine, err := timescaledb.New(ctx, c.TimescaleDB)
		if err != nil {
			return &s, fmt.Errorf("could not add TimescaleDB storage backend: %v", err)
		}
		s.Engines = append(s.Engines, StorageEngine{
			Engine: engine,
			C:      engine.StartStorageEngine(ctx, wg),
		})
	}

	if c != nil && c.CSVFile != nil && c.CSVFile.Path != "" {
		engine, err := csvfile.New(c.CSVFile)
		if err != nil {
			return &s, fmt.Errorf("could not add CSV file storage backend: %v", err)
		}
		s.Engines = append(s.Engines, StorageEngine{
			Engine: engine,
			C:      engine.StartStorageEngine(ctx, wg),
		})
	}

	return &s, nil
}

// GetSampleDistributor returns the sample distributor channel
func (s *StorageManager) GetSampleDistributor() chan types.Sample {
	return s.SampleDistributor
}

// Shutdown closes the sample distributor and blocks until every buffered
// sample has been handed off to the storage engines. Safe to call more than
// once.
func (s *StorageManager) Shutdown() {
	s.shutdownOnce.Do(func() { close(s.SampleDistributor) })
	<-s.distributorDone
}

// startSampleDistributor receives samples from the runner and fans them out
// to the various storage backends. When the distributor channel is closed it
// drains the remaining buffered samples, then closes every engine channel so
// the engines drain in turn. Context cancellation is the forced-abort path
// and may drop buffered samples.
func (s *StorageManager) startSampleDistributor(ctx context.Context, wg *sync.WaitGroup) {
	defer wg.Done()
	defer close(s.distributorDone)
	defer func() {
		for _, e := range s.Engines {
			close(e.C)
		}
	}()

	for {
		select {
		case sample, ok := <-s.SampleDistributor:
			if !ok {
				return
			}
			for _, e := range s.Engines {
				select {
				case e.C <- sample:
				case <-ctx.Done():
					return
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
