// Command export builds the unified dataset from the configured sources and
// writes it to a CSV or Excel file, without starting the dashboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/komalvinayak/Ecommerce-Analysis/internal/app"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/config"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/dataprocessing"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/exporter"
	"github.com/komalvinayak/Ecommerce-Analysis/internal/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		slog.Error("Export failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(stdout)
	formatFlag := fs.String("format", "csv", "output format: csv | xlsx")
	out := fs.String("out", "", "output directory (defaults to the configured export dir)")
	file := fs.String("file", "", "output file name (defaults to a timestamped name)")
	version := fs.String("version", "", "only export rows of this product version")
	if err := fs.Parse(args); err != nil {
		return err
	}

	format, err := exporter.ParseFormat(*formatFlag)
	if err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	paths, err := config.GetPaths(cfg)
	if err != nil {
		return fmt.Errorf("resolve paths: %w", err)
	}

	cfg.Logging.FilePath = paths.LogFile
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	logger = logger.With(slog.String("command", "export"))

	dir := *out
	if dir == "" {
		dir = paths.ExportDir
	}

	sources, err := app.CatalogSources(paths)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}
	reader, err := app.NewTableReader(ctx, cfg, paths)
	if err != nil {
		return fmt.Errorf("create reader: %w", err)
	}

	logger.Info("Building dataset",
		slog.Int("sources", len(sources)),
		slog.String("source", cfg.Data.Source),
		slog.String("data_dir", paths.DataDir))

	start := time.Now()
	ds, err := dataprocessing.Build(ctx, reader, sources, cfg.Data.Parallelism, logger)
	if err != nil {
		return err
	}

	records := ds.Records()
	if *version != "" {
		records = dataprocessing.FilterByVersion(ds, *version)
		if len(records) == 0 {
			return fmt.Errorf("no rows for version %q", *version)
		}
	}

	writer := exporter.NewWriter(dir)
	var path string
	if *file != "" {
		path, err = writer.ExportTo(*file, format, records)
	} else {
		path, err = writer.ExportFile(format, records, time.Now())
	}
	if err != nil {
		return err
	}

	logger.Info("Export complete",
		slog.String("path", path),
		slog.Int("records", len(records)),
		slog.Duration("duration", time.Since(start)))
	fmt.Fprintf(stdout, "Exported %d rows to %s\n", len(records), path)
	return nil
}
