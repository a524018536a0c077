// cmd/meshbot/main.go
package main

import (
	"context"
	"flag"
	"log"

	"github.com/mfreeman451/meshbot/pkg/bot"
	"github.com/mfreeman451/meshbot/pkg/config"
	"github.com/mfreeman451/meshbot/pkg/lifecycle"
)

const serviceName = "meshbot"

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := run(); err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run() error {
	configPath := flag.String("config", "", "Path to config file (JSON or YAML)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	b, err := bot.New(cfg)
	if err != nil {
		return err
	}

	opts := &lifecycle.ServerOptions{
		ServiceName: serviceName,
		Service:     b,
	}

	if cfg.Health.Enabled {
		opts.HealthAddr = cfg.Health.ListenAddr
	}

	return lifecycle.RunServer(context.Background(), opts)
}
