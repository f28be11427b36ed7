package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/riskibarqy/nba-dashboard/internal/config"
	"github.com/riskibarqy/nba-dashboard/internal/domain/game"
	cacherepo "github.com/riskibarqy/nba-dashboard/internal/infrastructure/repository/cache"
	"github.com/riskibarqy/nba-dashboard/internal/infrastructure/repository/postgres"
	"github.com/riskibarqy/nba-dashboard/internal/infrastructure/source/csvfile"
	"github.com/riskibarqy/nba-dashboard/internal/interfaces/httpapi"
	basecache "github.com/riskibarqy/nba-dashboard/internal/platform/cache"
	"github.com/riskibarqy/nba-dashboard/internal/platform/database"
	"github.com/riskibarqy/nba-dashboard/internal/platform/logging"
	"github.com/riskibarqy/nba-dashboard/internal/usecase"
)

// App is the wired HTTP server together with the resources it owns.
type App struct {
	Server  *http.Server
	closers []func() error
}

func New(ctx context.Context, cfg config.Config, logger *logging.Logger) (*App, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http server addr cannot be empty")
	}

	app := &App{}
	source, err := app.newGameSource(ctx, cfg, logger)
	if err != nil {
		_ = app.Close()
		return nil, err
	}

	dashboardSvc := usecase.NewDashboardService(source, cfg.DashboardDefaultTeam, logger)
	handler := httpapi.NewHandler(dashboardSvc, logger)
	router := httpapi.NewRouter(handler, logger, cfg.SwaggerEnabled, cfg.CORSAllowedOrigins)

	app.Server = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return app, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

func (a *App) newGameSource(ctx context.Context, cfg config.Config, logger *logging.Logger) (game.Source, error) {
	var source game.Source
	switch cfg.DataSource {
	case config.DataSourcePostgres:
		db, err := database.OpenPostgres(ctx, database.Options{
			URL:                         cfg.DBURL,
			DisablePreparedBinaryResult: cfg.DBDisablePreparedBinary,
			MaxOpenConns:                cfg.DBMaxOpenConns,
		})
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		source = postgres.NewGameRepository(db)
		logger.Info("game source configured", "source", config.DataSourcePostgres, "database", database.NameFromURL(cfg.DBURL))
	default:
		source = csvfile.NewSource(cfg.DataCSVPath, logger)
		logger.Info("game source configured", "source", config.DataSourceCSV, "path", cfg.DataCSVPath)
	}

	if !cfg.CacheEnabled {
		return source, nil
	}
	return cacherepo.NewGameSource(source, basecache.NewStore(cfg.CacheTTL), logger), nil
}
