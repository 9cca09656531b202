//go:build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/fortune/internal/config"
	"github.com/cory-johannsen/fortune/internal/game/dice"
)

func initializeServer(ctx context.Context, cfg config.Config) (*app, func(), error) {
	wire.Build(
		provideLogger,
		provideStorage,
		provideSource,
		dice.NewSampler,
		provideLocales,
		provideWidgetOptions,
		provideRegistry,
		provideDeskHandler,
		provideHTTPHandler,
		provideLifecycle,
		provideApp,
	)
	return nil, nil, nil
}
