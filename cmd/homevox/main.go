package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	log "log/slog"

	cli "github.com/spf13/pflag"

	"homevox/internal/config"
	"homevox/internal/homevox"
	"homevox/internal/vox"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	url := cli.StringP("url", "u", "", "Url of hub (overrides HOMEVOX_BUS_URL)")
	name := cli.StringP("name", "n", "vox", "Shard name on the bus")
	reconn := cli.DurationP("reconnect", "r", 2*time.Second, "Pause between reconnect attempts")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	homevox.SetupLogger(*logLevel)

	log.Info("Starting Vox shard")

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}
	if *url != "" {
		cfg.BusURL = *url
	}

	svc, err := homevox.Build(cfg)
	if err != nil {
		log.Error("Failed to start", "err", err)
		os.Exit(1)
	}

	bus, err := vox.NewBus(cfg.BusURL, *reconn)
	if err != nil {
		log.Error("Failed to connect to bus", "url", cfg.BusURL, "err", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	v := vox.NewVox(*name, bus, svc.Executor, svc.Asker())
	if err := v.Run(ctx); err != nil {
		log.Error("Shard stopped", "err", err)
		os.Exit(1)
	}
}
