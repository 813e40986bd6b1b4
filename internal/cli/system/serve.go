package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/cli"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/config"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/httpapi"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/logger"
)

type ServeCmd struct {
	File         string   `help:"Server config file (.yaml, .yml, .json or .toml)." type:"existingfile" short:"f"`
	Addr         string   `help:"Listen address (default ${default_addr})."`
	CORSOrigin   []string `help:"Allowed CORS origin, repeatable." name:"cors-origin"`
	TickMs       int      `help:"Interval between pushed projections, in milliseconds."`
	NoRequestLog bool     `help:"Disable the HTTP access log."`
}

// Config merges the config file with the flags, flags winning
func (c *ServeCmd) Config() (config.Config, error) {
	var cfg config.Config
	if c.File != "" {
		loaded, err := config.Load(c.File)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}
	if c.Addr != "" {
		cfg.Addr = c.Addr
	}
	if len(c.CORSOrigin) > 0 {
		cfg.CORSOrigins = c.CORSOrigin
	}
	if c.TickMs > 0 {
		cfg.TickMillis = c.TickMs
	}
	if c.NoRequestLog {
		off := false
		cfg.LogRequests = &off
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	cfg, err := c.Config()
	if err != nil {
		return fmt.Errorf("failed to load server config: %w", err)
	}

	if cfg.Store != "" && cfg.Store != ctx.Store.GetConfigPath() {
		store, err := cli.OpenStore(cfg.Store)
		if err != nil {
			return err
		}
		if err := store.Load(); err != nil {
			return fmt.Errorf("failed to load store %s: %w", cfg.Store, err)
		}
		defer store.Close()
		ctx.Store = store
	}

	sched, err := ctx.OpenScheduler()
	if err != nil {
		return err
	}

	httpapi.SetLogger(zerolog.New(logger.Writer()).With().Timestamp().Str("component", "http").Logger())

	handler := httpapi.NewMux(sched, httpapi.Options{
		CORSOrigins:  cfg.CORSOrigins,
		Tick:         cfg.Tick(),
		MaxBodyBytes: cfg.MaxBodyBytes,
		LogRequests:  *cfg.LogRequests,
	})

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(ctx.Stdout(), "Serving %s on http://%s\n", ctx.Store.GetConfigPath(), cfg.Addr)
	if err := httpapi.Run(runCtx, cfg.Addr, handler); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	logger.Info("HTTP server stopped")
	return nil
}
