// Package httpapi exposes the shop board and the operator intents over HTTP.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/catalog"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/constants"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/logger"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/projection"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/scheduler"
)

// Shop defines the methods required by the HTTP API layer.
// *scheduler.Scheduler satisfies it.
type Shop interface {
	Catalog() *catalog.Catalog
	Read() (models.State, projection.Projection)
	StartSequential(serviceID string, speed models.Speed) (scheduler.Result, error)
	EnqueueSequential(serviceID string, speed models.Speed) (scheduler.Result, error)
	StartParallel(serviceID string) (scheduler.Result, error)
	FinishActive() (scheduler.Result, error)
	StartNext() (scheduler.Result, error)
	FinishParallel(id string) (scheduler.Result, error)
	RemoveQueued(id string) (scheduler.Result, error)
	MoveQueuedUp(id string) (scheduler.Result, error)
	MoveQueuedDown(id string) (scheduler.Result, error)
	ResetAll() (scheduler.Result, error)
}

// Options tunes the router
type Options struct {
	CORSOrigins  []string
	Tick         time.Duration
	MaxBodyBytes int64
	LogRequests  bool
}

func (o Options) withDefaults() Options {
	if o.Tick <= 0 {
		o.Tick = constants.DefaultTickInterval
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = 1 << 20
	}
	return o
}

type server struct {
	shop Shop
	opts Options
}

// NewMux builds the router for shop
func NewMux(shop Shop, opts Options) http.Handler {
	s := &server{shop: shop, opts: opts.withDefaults()}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(MetricsMiddleware)
	if s.opts.LogRequests {
		r.Use(accessLog)
	}
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})
	if len(s.opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.opts.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
			MaxAge:         300,
		}))
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/services", s.handleServices)
		r.Get("/state", s.handleState)
		r.Get("/projection", s.handleProjection)
		r.Get("/events", s.handleEvents)

		r.Post("/jobs", s.handleAddJob)
		r.Post("/parallel", s.handleStartParallel)
		r.Post("/parallel/{id}/finish", s.byID("finish-parallel", shop.FinishParallel))
		r.Post("/active/finish", s.simple("finish", shop.FinishActive))
		r.Post("/next", s.simple("next", shop.StartNext))
		r.Delete("/queue/{id}", s.byID("remove", shop.RemoveQueued))
		r.Post("/queue/{id}/up", s.byID("up", shop.MoveQueuedUp))
		r.Post("/queue/{id}/down", s.byID("down", shop.MoveQueuedDown))
		r.Post("/reset", s.simple("reset", shop.ResetAll))
	})

	return r
}

// Run serves handler on addr until ctx is canceled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := newHTTPServer(ctx, addr, handler)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer cancel()
	logger.Info("HTTP server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// newHTTPServer derives every request context from ctx, so open event streams end as soon as
// ctx is cancelled and Shutdown does not wait on them.
func newHTTPServer(ctx context.Context, addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}
