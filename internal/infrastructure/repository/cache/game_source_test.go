package cache

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
	gamemock "github.com/riskibarqy/nba-dashboard/internal/mocks/domain/game"
	basecache "github.com/riskibarqy/nba-dashboard/internal/platform/cache"
	"github.com/riskibarqy/nba-dashboard/internal/platform/logging"
	"github.com/stretchr/testify/mock"
)

func TestGameSource_LoadCachesPerVersion(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := gamemock.NewSource(t)
	store := basecache.NewStore(0)
	source := NewGameSource(next, store, logging.NewNop())

	first := game.Dataset{Records: []game.Record{{SourceRow: 1, TeamID: "NYK", Result: game.ResultWin}}}
	second := game.Dataset{Records: []game.Record{{SourceRow: 1, TeamID: "NYK", Result: game.ResultLoss}}}

	next.On("Version", mock.Anything).Return("v1", nil).Twice()
	next.On("Load", mock.Anything).Return(first, game.LoadReport{Rows: 1, Kept: 1}, nil).Once()

	for i := 0; i < 2; i++ {
		got, report, err := source.Load(ctx)
		if err != nil {
			t.Fatalf("load #%d: %v", i, err)
		}
		if got.Records[0].Result != game.ResultWin || report.Kept != 1 {
			t.Fatalf("load #%d: unexpected dataset %+v report %+v", i, got, report)
		}
	}

	next.On("Version", mock.Anything).Return("v2", nil).Once()
	next.On("Load", mock.Anything).Return(second, game.LoadReport{Rows: 1, Kept: 1}, nil).Once()

	got, _, err := source.Load(ctx)
	if err != nil {
		t.Fatalf("load after version change: %v", err)
	}
	if got.Records[0].Result != game.ResultLoss {
		t.Fatalf("expected reloaded dataset, got %+v", got)
	}
	if store.Len() != 1 {
		t.Fatalf("expected stale version evicted, cache has %d entries", store.Len())
	}
}

func TestGameSource_LoadErrorsAreNotCached(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	next := gamemock.NewSource(t)
	source := NewGameSource(next, basecache.NewStore(0), logging.NewNop())
	loadErr := errors.New("disk gone")

	next.On("Version", mock.Anything).Return("v1", nil).Twice()
	next.On("Load", mock.Anything).Return(game.Dataset{}, game.LoadReport{}, loadErr).Once()
	next.On("Load", mock.Anything).Return(game.Dataset{}, game.LoadReport{}, nil).Once()

	if _, _, err := source.Load(ctx); !errors.Is(err, loadErr) {
		t.Fatalf("expected load error, got %v", err)
	}
	if _, _, err := source.Load(ctx); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
}

func TestGameSource_VersionErrorSkipsLoad(t *testing.T) {
	t.Parallel()

	next := gamemock.NewSource(t)
	source := NewGameSource(next, basecache.NewStore(0), logging.NewNop())

	next.On("Version", mock.Anything).Return("", game.ErrSourceNotFound).Once()

	if _, _, err := source.Load(context.Background()); !errors.Is(err, game.ErrSourceNotFound) {
		t.Fatalf("expected source not found, got %v", err)
	}
}
