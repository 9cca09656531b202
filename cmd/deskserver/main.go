// Package main runs the desk server: the Telnet desk and the JSON API over
// one shared set of per-profile desks.
package main

import (
	"context"
	"flag"
	"log"

	"go.uber.org/zap"

	"github.com/cory-johannsen/fortune/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	a, cleanup, err := initializeServer(context.Background(), cfg)
	if err != nil {
		log.Fatalf("initializing server: %v", err)
	}

	if err := a.lifecycle.Run(context.Background()); err != nil {
		a.logger.Fatal("server stopped", zap.Error(err))
	}
	cleanup()
}
