// Package restserver exposes the simulation's live results over HTTP: the
// configured parameters, the latest sample per parameter, and the retained
// per-parameter history.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/powersim/solarparam/internal/log"
	"github.com/powersim/solarparam/internal/storage/memory"
	"github.com/powersim/solarparam/pkg/config"
	"go.uber.org/zap"
)

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server
	store      *memory.Storage
	parameters []config.ParameterData
	logger     *zap.SugaredLogger
	handlers   *Handlers
}

// NewController creates a new REST server controller serving results out of
// the in-memory sample store.
func NewController(ctx context.Context, wg *sync.WaitGroup, rc config.RESTServerData, parameters []config.ParameterData, store *memory.Storage, logger *zap.SugaredLogger) (*Controller, error) {
	if store == nil {
		return nil, fmt.Errorf("REST server requires the in-memory sample store")
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		store:      store,
		parameters: parameters,
		logger:     logger,
	}

	// If a listen address was not provided, listen on all interfaces
	if rc.ListenAddr == "" {
		logger.Info("rest.listen_addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		rc.ListenAddr = "0.0.0.0"
	}

	if rc.Port == 0 {
		logger.Info("rest.port not provided; defaulting to 8080")
		rc.Port = 8080
	}

	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", rc.ListenAddr, rc.Port)
	ctrl.Server.Handler = ctrl.setupRouter()

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Info("Starting REST server controller...")
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
			log.Errorf("REST server error: %v", err)
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		c.Server.Shutdown(context.Background())
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/api/parameters", c.handlers.GetParameters)
	router.HandleFunc("/api/latest", c.handlers.GetLatest)
	router.HandleFunc("/api/series/{name}", c.handlers.GetSeries)

	return router
}
