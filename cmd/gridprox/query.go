package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/kailas-cloud/gridprox/internal/config"
	logpkg "github.com/kailas-cloud/gridprox/internal/logger"
	proximityuc "github.com/kailas-cloud/gridprox/internal/usecase/proximity"
)

type queryCommand struct {
	Address string  `short:"a" long:"address" description:"Address to look up" required:"true"`
	Verbose bool    `short:"v" long:"verbose" description:"Log every step at debug level"`
	Radius  float64 `short:"r" long:"radius"  description:"Suburb search radius in metres (default from config)"`
	Export  string  `short:"e" long:"export"  description:"Write the scene to this directory"`
}

// Execute runs a single proximity query and prints the highlights.
func (c *queryCommand) Execute(_ []string) error {
	cfg, err := config.Load(opts.Env)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logpkg.NewLogger("cli", logpkg.Level(c.Verbose, cfg.Logging.Level))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to start", zap.Error(err))
		return err
	}
	defer a.Close()

	exportDir := c.Export
	if exportDir == "" {
		exportDir = cfg.Export.Dir
	}

	report, err := a.proximity.Query(ctx, c.Address, proximityuc.Options{
		RadiusM:   c.Radius,
		ExportDir: exportDir,
	})
	if err != nil {
		logger.Error("Query failed", zap.String("address", c.Address), zap.Error(err))
		return err
	}

	logger.Info("Address located",
		zap.String("address", report.Address.DisplayName),
		zap.Int("postcode", report.Postcode),
		zap.String("home_suburb", report.HomeSuburb),
	)
	logger.Debug("Suburbs searched", zap.Strings("suburbs", report.Suburbs))

	highlights := report.Highlights()
	if len(highlights) == 0 {
		logger.Info("No power lines found nearby")
	}
	for _, d := range highlights {
		logger.Info(d.String())
	}
	for _, f := range report.ExportedFiles {
		logger.Debug("Exported", zap.String("file", f))
	}
	return nil
}
