// Package resultserver serves stored segmentation results over HTTP. It is a
// read-only API: trials and segments are written by the batch tooling, the
// server only lists and fetches them.
package resultserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/jmontp/LocoHub-sub016/internal/database"
)

// Config holds the result server settings.
type Config struct {
	// ListenAddr is the host:port to bind, e.g. ":8080".
	ListenAddr string
}

// Controller represents the result server controller.
type Controller struct {
	ctx      context.Context
	wg       *sync.WaitGroup
	cfg      Config
	Server   http.Server
	Store    *database.Client
	logger   *zap.SugaredLogger
	handlers *Handlers
}

// NewController creates a result server over the given trial store.
func NewController(ctx context.Context, wg *sync.WaitGroup, cfg Config, store *database.Client, logger *zap.SugaredLogger) (*Controller, error) {
	if cfg.ListenAddr == "" {
		return nil, fmt.Errorf("result server listen address must be set")
	}
	if store == nil {
		return nil, fmt.Errorf("result server requires a trial store")
	}

	ctrl := &Controller{
		ctx:    ctx,
		wg:     wg,
		cfg:    cfg,
		Store:  store,
		logger: logger,
	}
	ctrl.handlers = NewHandlers(ctrl)

	router := mux.NewRouter()
	router.HandleFunc("/api/trials", ctrl.handlers.ListTrials).Methods(http.MethodGet)
	router.HandleFunc("/api/trials/{id}", ctrl.handlers.GetTrial).Methods(http.MethodGet)
	router.HandleFunc("/api/trials/{id}/segments", ctrl.handlers.GetSegments).Methods(http.MethodGet)
	router.HandleFunc("/api/trials/{id}/summary", ctrl.handlers.GetSummary).Methods(http.MethodGet)
	router.HandleFunc("/api/health", ctrl.handlers.Health).Methods(http.MethodGet)

	ctrl.Server = http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	return ctrl, nil
}

// StartController starts serving and shuts down cleanly when the parent
// context is cancelled.
func (c *Controller) StartController() error {
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.logger.Infof("Result server listening on %s", c.cfg.ListenAddr)
		if err := c.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			c.logger.Errorf("result server error: %v", err)
		}
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-c.ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Server.Shutdown(shutdownCtx); err != nil {
			c.logger.Errorf("result server shutdown: %v", err)
		}
	}()

	return nil
}
