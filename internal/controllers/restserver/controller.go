// Package restserver serves a read-only HTTP API over the catalog: parcels,
// hourly metrics, latest depletion, deficit projections and run summaries.
package restserver

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/chrissnell/fastclime/internal/log"
	"github.com/chrissnell/fastclime/internal/simulation"
	"github.com/chrissnell/fastclime/pkg/config"
)

// Reader is the part of the catalog the API reads from
type Reader interface {
	Parcels(ctx context.Context) ([]config.ParcelData, error)
	Parcel(ctx context.Context, id string) (simulation.Parcel, error)
	MetricsBetween(ctx context.Context, parcelID string, start, end time.Time) ([]simulation.HourlyMetric, error)
	LatestMetric(ctx context.Context, parcelID string) (simulation.HourlyMetric, error)
	Projections(ctx context.Context, parcelID string) ([]simulation.DeficitProjection, error)
}

// Controller represents the REST server controller
type Controller struct {
	ctx        context.Context
	wg         *sync.WaitGroup
	restConfig config.RESTServerData
	Server     http.Server
	store      Reader
	logger     *zap.SugaredLogger
	handlers   *Handlers
}

// NewController creates a new REST server controller
func NewController(ctx context.Context, wg *sync.WaitGroup, store Reader, rc config.RESTServerData, logger *zap.SugaredLogger) (*Controller, error) {
	if store == nil {
		return nil, fmt.Errorf("REST server requires a catalog")
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	// If a ListenAddr was not provided, listen on all interfaces
	if rc.ListenAddr == "" {
		logger.Info("rest.listen-addr not provided; defaulting to 0.0.0.0 (all interfaces)")
		rc.ListenAddr = "0.0.0.0"
	}

	// Set default HTTP port if not specified
	if rc.Port == 0 {
		logger.Info("rest.port not provided; defaulting to 8080")
		rc.Port = 8080
	}

	ctrl := &Controller{
		ctx:        ctx,
		wg:         wg,
		restConfig: rc,
		store:      store,
		logger:     logger,
	}
	ctrl.handlers = NewHandlers(ctrl)

	ctrl.Server.Addr = fmt.Sprintf("%v:%v", rc.ListenAddr, rc.Port)
	ctrl.Server.Handler = ctrl.setupRouter()
	ctrl.Server.ReadHeaderTimeout = 10 * time.Second

	return ctrl, nil
}

// StartController starts the REST server
func (c *Controller) StartController() error {
	log.Infof("Starting REST server on %s...", c.Server.Addr)
	c.wg.Add(1)

	go func() {
		defer c.wg.Done()

		if c.restConfig.Cert != "" && c.restConfig.Key != "" {
			if err := c.Server.ListenAndServeTLS(c.restConfig.Cert, c.restConfig.Key); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		} else {
			if err := c.Server.ListenAndServe(); err != http.ErrServerClosed {
				log.Errorf("REST server error: %v", err)
			}
		}
	}()

	go func() {
		<-c.ctx.Done()
		log.Info("Shutting down the REST server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		c.Server.Shutdown(shutdownCtx)
	}()

	return nil
}

// setupRouter configures the HTTP router with all endpoints
func (c *Controller) setupRouter() *mux.Router {
	router := mux.NewRouter()
	router.Use(log.HTTPMiddleware)

	router.HandleFunc("/parcels", c.handlers.GetParcels).Methods(http.MethodGet)
	router.HandleFunc("/parcels/{parcel}/metrics", c.handlers.GetMetrics).Methods(http.MethodGet)
	router.HandleFunc("/parcels/{parcel}/depletion", c.handlers.GetDepletion).Methods(http.MethodGet)
	router.HandleFunc("/parcels/{parcel}/projection", c.handlers.GetProjection).Methods(http.MethodGet)
	router.HandleFunc("/parcels/{parcel}/summary", c.handlers.GetSummary).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		c.handlers.formatter.WriteError(w, req, http.StatusNotFound, "no such endpoint")
	})

	return router
}
