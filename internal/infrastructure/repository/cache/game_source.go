package cache

import (
	"context"

	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
	basecache "github.com/riskibarqy/nba-dashboard/internal/platform/cache"
	"github.com/riskibarqy/nba-dashboard/internal/platform/logging"
)

const datasetKeyPrefix = "game:dataset:"

// GameSource caches the loaded dataset per source version. Cached records are
// shared between callers and must be treated as read-only.
type GameSource struct {
	next   game.Source
	cache  *basecache.Store
	logger *logging.Logger
}

func NewGameSource(next game.Source, cache *basecache.Store, logger *logging.Logger) *GameSource {
	if logger == nil {
		logger = logging.Default()
	}
	return &GameSource{next: next, cache: cache, logger: logger}
}

func (s *GameSource) Load(ctx context.Context) (game.Dataset, game.LoadReport, error) {
	version, err := s.next.Version(ctx)
	if err != nil {
		return game.Dataset{}, game.LoadReport{}, err
	}

	key := datasetKeyPrefix + version
	v, err := s.cache.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		dataset, report, err := s.next.Load(ctx)
		if err != nil {
			return nil, err
		}
		return cachedDataset{dataset: dataset, report: report}, nil
	})
	if err != nil {
		return game.Dataset{}, game.LoadReport{}, err
	}

	if evicted := s.cache.DeletePrefix(ctx, datasetKeyPrefix, key); evicted > 0 {
		s.logger.DebugContext(ctx, "evicted stale game datasets", "count", evicted, "version", version)
	}

	cached, _ := v.(cachedDataset)
	return cached.dataset, cached.report, nil
}

func (s *GameSource) Version(ctx context.Context) (string, error) {
	return s.next.Version(ctx)
}

type cachedDataset struct {
	dataset game.Dataset
	report  game.LoadReport
}
