// Package storage defines the interface and implementations for simulation
// sample storage backends.
package storage

import (
	"context"
	"sync"

	"github.com/powersim/solarparam/internal/types"
)

// StorageEngineInterface is an interface that provides a few standardized
// methods for various storage backends
type StorageEngineInterface interface {
	StartStorageEngine(context.Context, *sync.WaitGroup) chan<- types.Sample
}
