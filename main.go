package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/dnldd/terminal/service"
	"github.com/rs/zerolog/log"
)

// handleTermination processes context cancellation signals or interrupt signals from the OS.
func handleTermination(ctx context.Context, cancel context.CancelFunc) {
	// Listen for interrupt signals.
	signals := []os.Signal{os.Interrupt}
	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, signals...)

	// Wait for the context to be cancelled or an interrupt signal.
	for {
		select {
		case <-ctx.Done():
			return

		case <-interrupt:
			cancel()
		}
	}
}

func main() {
	var cfg Config
	err := loadConfig(&cfg, "")
	if err != nil {
		log.Error().Msgf("loading config: %v", err)
		os.Exit(1)
	}

	err = setupLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Error().Msgf("setting up logger: %v", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	terminalCfg := service.TerminalConfig{
		BarsFilepath:     cfg.Bars,
		GesturesFilepath: cfg.Gestures,
		OutputFilepath:   cfg.Output,
		FramesDir:        cfg.FramesDir,
		Width:            cfg.Width,
		Height:           cfg.Height,
		OldestFirst:      cfg.OldestFirst,
		Cancel:           cancel,
	}
	terminal, err := service.NewTerminal(&terminalCfg)
	if err != nil {
		log.Error().Msgf("creating terminal service: %v", err)
		os.Exit(1)
	}

	go handleTermination(ctx, cancel)

	err = terminal.Run(ctx)
	if err != nil {
		os.Exit(1)
	}
}
