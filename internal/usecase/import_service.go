package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
	"github.com/riskibarqy/nba-dashboard/internal/platform/logging"
)

const (
	defaultImportBatchSize = 500
	defaultImportWorkers   = 4
)

type ImportSummary struct {
	Rows       int
	Kept       int
	Dropped    int
	Batches    int
	Upserted   int64
	DurationMs int64
}

// ImportService copies a dataset from one source into a game writer in
// fixed-size batches spread across a worker pool.
type ImportService struct {
	source    game.Source
	writer    game.Writer
	batchSize int
	workers   int
	logger    *logging.Logger
}

func NewImportService(source game.Source, writer game.Writer, batchSize, workers int, logger *logging.Logger) *ImportService {
	if batchSize <= 0 {
		batchSize = defaultImportBatchSize
	}
	if workers <= 0 {
		workers = defaultImportWorkers
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &ImportService{
		source:    source,
		writer:    writer,
		batchSize: batchSize,
		workers:   workers,
		logger:    logger,
	}
}

func (s *ImportService) Run(ctx context.Context) (summary ImportSummary, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ImportService.Run")
	defer func() { endUsecaseSpan(span, err) }()

	start := time.Now()
	dataset, report, err := s.source.Load(ctx)
	if err != nil {
		if errors.Is(err, game.ErrSourceNotFound) {
			return ImportSummary{}, fmt.Errorf("%w: %w", ErrSourceNotFound, err)
		}
		return ImportSummary{}, fmt.Errorf("%w: load games: %w", ErrDependencyUnavailable, err)
	}

	batches := splitBatches(dataset.Records, s.batchSize)
	summary = ImportSummary{
		Rows:    report.Rows,
		Kept:    report.Kept,
		Dropped: report.Dropped,
		Batches: len(batches),
	}
	if len(batches) == 0 {
		return summary, nil
	}

	pool, err := ants.NewPool(min(s.workers, len(batches)))
	if err != nil {
		return ImportSummary{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var (
		upserted atomic.Int64
		workers  sync.WaitGroup
		mu       sync.Mutex
		failures []error
	)
	for i, batch := range batches {
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			affected, err := s.writer.UpsertGames(ctx, batch)
			if err != nil {
				mu.Lock()
				failures = append(failures, fmt.Errorf("batch %d (source_row %d..%d): %w", i, batch[0].SourceRow, batch[len(batch)-1].SourceRow, err))
				mu.Unlock()
				return
			}
			upserted.Add(affected)
		}); err != nil {
			workers.Done()
			workers.Wait()
			return ImportSummary{}, fmt.Errorf("submit batch to worker pool: %w", err)
		}
	}
	workers.Wait()

	summary.Upserted = upserted.Load()
	summary.DurationMs = time.Since(start).Milliseconds()

	if len(failures) > 0 {
		s.logger.ErrorContext(ctx, "game import finished with failures",
			"failed_batches", len(failures),
			"batches", summary.Batches,
		)
		return summary, fmt.Errorf("%w: upsert games: %w", ErrDependencyUnavailable, errors.Join(failures...))
	}

	s.logger.InfoContext(ctx, "game import finished",
		"rows", summary.Rows,
		"kept", summary.Kept,
		"dropped", summary.Dropped,
		"batches", summary.Batches,
		"upserted", summary.Upserted,
		"duration_ms", summary.DurationMs,
	)

	return summary, nil
}

func splitBatches(records []game.Record, size int) [][]game.Record {
	if len(records) == 0 || size <= 0 {
		return nil
	}

	out := make([][]game.Record, 0, (len(records)+size-1)/size)
	for start := 0; start < len(records); start += size {
		end := min(start+size, len(records))
		out = append(out, records[start:end:end])
	}
	return out
}
