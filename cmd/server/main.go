package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/exotic24-7/zephyrax.io/internal/app"
)

func main() {
	configDir := flag.String("config", ".", "directory containing zephyrax.json")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, app.Config{ConfigDir: *configDir}); err != nil {
		fmt.Fprintf(os.Stderr, "zephyrax: %v\n", err)
		os.Exit(1)
	}
}
