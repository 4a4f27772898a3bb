package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "log/slog"

	cli "github.com/spf13/pflag"

	"homevox/internal/config"
	"homevox/internal/homevox"
	"homevox/internal/ipc"
)

func main() {
	envFile := cli.StringP("env", "e", ".env", "Env file path")
	socket := cli.StringP("socket", "s", "", "Control socket path (overrides HOMEVOX_SOCKET)")
	logLevel := cli.StringP("log", "l", "info", "Log level")
	cli.Parse()

	homevox.SetupLogger(*logLevel)

	log.Info("Booting up")

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Error("Invalid configuration", "err", err)
		os.Exit(1)
	}
	if *socket != "" {
		cfg.SocketPath = *socket
	}

	svc, err := homevox.Build(cfg)
	if err != nil {
		log.Error("Failed to start", "err", err)
		os.Exit(1)
	}

	log.Info("Loaded commands", "count", svc.Commands.Len(), "questions", svc.Assistant != nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := ipc.StartServer(cfg.SocketPath, svc.ControlHandler(ctx))
	if err != nil {
		log.Error("Failed ipc server", "socket", cfg.SocketPath, "err", err)
		os.Exit(1)
	}
	defer srv.Close()

	log.Info("Boot up - successful", "socket", cfg.SocketPath)

	<-ctx.Done()
	log.Info("Shutting down")
}
