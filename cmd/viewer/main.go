package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"

	"github.com/exotic24-7/zephyrax.io/internal/app"
	"github.com/exotic24-7/zephyrax.io/internal/config"
	"github.com/exotic24-7/zephyrax.io/internal/viewer"
)

func main() {
	configDir := flag.String("config", ".", "directory containing zephyrax.json")
	server := flag.String("server", "", "websocket endpoint, overrides viewer.server")
	logPath := flag.String("log", "", "file for viewer logs; the terminal is taken over by the renderer")
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		fmt.Fprintf(os.Stderr, "viewer: %v\n", err)
		os.Exit(1)
	}

	log := zerolog.Nop()
	if *logPath != "" {
		f, err := os.OpenFile(*logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "viewer: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		log = app.NewLogger(f, app.ParseLevel(config.GetString("logLevel")))
	}

	endpoint := *server
	if endpoint == "" {
		endpoint = config.GetString("viewer.server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	v := viewer.New(viewer.Config{Server: endpoint, Logger: log})
	if err := v.Run(ctx); err != nil {
		log.Error().Err(err).Msg("viewer stopped")
		fmt.Fprintf(os.Stderr, "viewer: %v\n", err)
		os.Exit(1)
	}
}
