// Package csvfile implements a storage backend that appends samples to a CSV
// file, one row per sample. The file gets a header when newly created so the
// output loads straight back into a csv-series parameter.
package csvfile

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/powersim/solarparam/internal/log"
	"github.com/powersim/solarparam/internal/types"
	"github.com/powersim/solarparam/pkg/config"
)

// sampleRow is the CSV projection of a sample.
type sampleRow struct {
	Time      string  `csv:"time"`
	RunID     string  `csv:"run_id"`
	Parameter string  `csv:"parameter"`
	Scenario  int     `csv:"scenario"`
	Value     float64 `csv:"value"`
}

// Storage holds the configuration for a CSV file storage backend
type Storage struct {
	path string
	file *os.File
}

// New sets up a new CSV file storage backend, creating or appending to the
// configured path.
func New(c *config.CSVFileData) (*Storage, error) {
	if c.Path == "" {
		return nil, fmt.Errorf("csvfile storage: path is required")
	}

	info, err := os.Stat(c.Path)
	fresh := os.IsNotExist(err) || (err == nil && info.Size() == 0)

	f, err := os.OpenFile(c.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("csvfile storage: opening %s: %w", c.Path, err)
	}

	if fresh {
		if err := gocsv.MarshalFile(&[]sampleRow{}, f); err != nil {
			f.Close()
			return nil, fmt.Errorf("csvfile storage: writing header: %w", err)
		}
	}

	return &Storage{path: c.Path, file: f}, nil
}

// StartStorageEngine creates a goroutine loop to receive samples and append
// them to the CSV file
func (s *Storage) StartStorageEngine(ctx context.Context, wg *sync.WaitGroup) chan<- types.Sample {
	log.Info("starting CSV file storage engine...")
	sampleChan := make(chan types.Sample, 10)
	wg.Add(1)
	go s.processSamples(wg, sampleChan)
	return sampleChan
}

// processSamples appends samples until the distributor closes the channel,
// then closes the file. Draining on close keeps the tail of a run from being
// dropped at shutdown.
func (s *Storage) processSamples(wg *sync.WaitGroup, schan <-chan types.Sample) {
	defer wg.Done()

	for sample := range schan {
		if err := s.appendSample(sample); err != nil {
			log.Error("could not append sample:", err)
		}
	}
	log.Info("sample channel closed. Closing CSV file.")
	s.file.Close()
}

func (s *Storage) appendSample(sample types.Sample) error {
	rows := []sampleRow{{
		Time:      sample.Time.UTC().Format(time.RFC3339),
		RunID:     sample.RunID,
		Parameter: sample.Parameter,
		Scenario:  sample.Scenario,
		Value:     sample.Value,
	}}
	return gocsv.MarshalWithoutHeaders(&rows, s.file)
}
