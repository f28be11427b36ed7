package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/riskibarqy/nba-dashboard/internal/config"
	"github.com/riskibarqy/nba-dashboard/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/nba-dashboard/internal/infrastructure/source/csvfile"
	"github.com/riskibarqy/nba-dashboard/internal/platform/database"
	"github.com/riskibarqy/nba-dashboard/internal/platform/logging"
	"github.com/riskibarqy/nba-dashboard/internal/usecase"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	csvPath := flag.String("csv", cfg.DataCSVPath, "path of the games CSV to import")
	batchSize := flag.Int("batch-size", cfg.ImportBatchSize, "rows per upsert statement")
	workers := flag.Int("workers", cfg.ImportWorkers, "concurrent upsert workers")
	flag.Parse()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat).Named("importer")
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.OpenPostgres(ctx, database.Options{
		URL:                         cfg.DBURL,
		DisablePreparedBinaryResult: cfg.DBDisablePreparedBinary,
		MaxOpenConns:                max(cfg.DBMaxOpenConns, *workers),
	})
	if err != nil {
		return err
	}
	defer db.Close()

	service := usecase.NewImportService(
		csvfile.NewSource(*csvPath, logger),
		postgres.NewGameRepository(db),
		*batchSize,
		*workers,
		logger,
	)

	summary, err := service.Run(ctx)
	if err != nil {
		return fmt.Errorf("import %s: %w", *csvPath, err)
	}

	fmt.Printf("rows=%d kept=%d dropped=%d batches=%d upserted=%d duration_ms=%d\n",
		summary.Rows, summary.Kept, summary.Dropped, summary.Batches, summary.Upserted, summary.DurationMs)
	return nil
}
