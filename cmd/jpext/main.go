package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jacoelho/jpext/internal/config"
	"github.com/jacoelho/jpext/internal/exit"
	"github.com/jacoelho/jpext/internal/log"
	"github.com/jacoelho/jpext/internal/runner"
)

func main() {
	exitCode := run()
	os.Exit(exitCode)
}

func run() int {
	cfg, exitResult := config.Parse(os.Args)
	if exitResult != nil {
		return exitResult.Report()
	}

	logger, err := log.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return exit.Usagef("Error: %v\n", err).Report()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	ctx = log.IntoContext(ctx, logger)

	r, exitResult := runner.New(ctx, cfg)
	if exitResult != nil {
		return exitResult.Report()
	}

	return r.Run(ctx)
}
