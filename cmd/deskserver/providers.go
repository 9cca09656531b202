package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fortune/internal/config"
	"github.com/cory-johannsen/fortune/internal/frontend/handlers"
	"github.com/cory-johannsen/fortune/internal/frontend/httpapi"
	"github.com/cory-johannsen/fortune/internal/frontend/telnet"
	"github.com/cory-johannsen/fortune/internal/game/animation"
	"github.com/cory-johannsen/fortune/internal/game/dice"
	"github.com/cory-johannsen/fortune/internal/game/locale"
	"github.com/cory-johannsen/fortune/internal/game/widget"
	"github.com/cory-johannsen/fortune/internal/observability"
	"github.com/cory-johannsen/fortune/internal/server"
	"github.com/cory-johannsen/fortune/internal/storage"
)

// app is what main runs, with the logger it reports through.
type app struct {
	lifecycle *server.Lifecycle
	logger    *zap.Logger
}

func provideApp(lc *server.Lifecycle, logger *zap.Logger) *app {
	return &app{lifecycle: lc, logger: logger}
}

func provideLogger(cfg config.Config) (*zap.Logger, func(), error) {
	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("initializing logger: %w", err)
	}
	return logger, func() { _ = logger.Sync() }, nil
}

func provideStorage(ctx context.Context, cfg config.Config, logger *zap.Logger) (storage.Backend, error) {
	return storage.Open(ctx, cfg, logger)
}

func provideSource(cfg config.Config, logger *zap.Logger) dice.Source {
	if cfg.Desk.Source == "crypto" {
		logger.Info("using crypto/rand source")
		return dice.NewCryptoSource()
	}
	if cfg.Desk.Seed != 0 {
		logger.Info("using seeded pcg source", zap.Uint64("seed", cfg.Desk.Seed))
		return dice.NewPCGSource(cfg.Desk.Seed)
	}
	return dice.NewSeededSource()
}

func provideLocales() *locale.Table {
	return locale.Default()
}

func dialOptions(a config.AnimationConfig) (widget.DialOptions, error) {
	ease, err := animation.EasingByName(a.Easing)
	if err != nil {
		return widget.DialOptions{}, err
	}
	return widget.DialOptions{
		Profile: animation.Profile{
			MinTurns: a.MinTurns,
			MaxTurns: a.MaxTurns,
			Base:     a.Base,
			PerTurn:  a.PerTurn,
			Jitter:   a.Jitter,
			Max:      a.Max,
		},
		Easing: ease,
	}, nil
}

func provideWidgetOptions(cfg config.Config) (widget.Options, error) {
	wheel, err := dialOptions(cfg.Wheel.Animation)
	if err != nil {
		return widget.Options{}, fmt.Errorf("wheel animation: %w", err)
	}
	coin, err := dialOptions(cfg.Coin.Animation)
	if err != nil {
		return widget.Options{}, fmt.Errorf("coin animation: %w", err)
	}
	return widget.Options{
		Wheel: widget.WheelOptions{DialOptions: wheel, Pointer: cfg.Wheel.PointerDeg, Origin: cfg.Wheel.OriginDeg},
		Coin:  coin,
	}, nil
}

func provideRegistry(backend storage.Backend, table *locale.Table, sampler *dice.Sampler, opts widget.Options, logger *zap.Logger) *widget.Registry {
	return widget.NewRegistry(backend.For, table, sampler, opts, logger)
}

func provideDeskHandler(registry *widget.Registry, cfg config.Config, logger *zap.Logger) *handlers.DeskHandler {
	return handlers.NewDeskHandler(registry, cfg.Desk, logger.Named("telnet"))
}

func provideHTTPHandler(registry *widget.Registry, backend storage.Backend, logger *zap.Logger) *httpapi.Handler {
	return httpapi.NewHandler(registry, backend, logger.Named("http"))
}

func provideLifecycle(cfg config.Config, backend storage.Backend, desk *handlers.DeskHandler, api *httpapi.Handler, logger *zap.Logger) *server.Lifecycle {
	lc := server.NewLifecycle(logger)

	if cfg.Telnet.Enabled {
		acc := telnet.NewAcceptor(cfg.Telnet, desk, logger.Named("telnet"))
		lc.Add("telnet", &server.FuncService{StartFn: acc.ListenAndServe, StopFn: acc.Stop})
	}

	if cfg.HTTP.Enabled {
		srv := &http.Server{
			Addr:              cfg.HTTP.Addr(),
			Handler:           api.Router(cfg.HTTP.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}
		lc.Add("http", &server.FuncService{
			StartFn: func() error {
				logger.Info("http api listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			},
			StopFn: func() {
				ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					logger.Warn("http shutdown", zap.Error(err))
				}
			},
		})
	}

	lc.OnShutdown("storage", backend.Close)
	return lc
}
