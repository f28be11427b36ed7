package observability

import (
	"context"
	"strings"

	"github.com/riskibarqy/nba-dashboard/internal/config"
	"github.com/riskibarqy/nba-dashboard/internal/platform/logging"
	"github.com/uptrace/uptrace-go/uptrace"
	"go.opentelemetry.io/otel/attribute"
)

// InitUptrace installs the global OpenTelemetry providers. Without a DSN it
// leaves the no-op providers in place.
func InitUptrace(cfg config.Config, logger *logging.Logger) (func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}
	noop := func(context.Context) error { return nil }

	dsn := strings.TrimSpace(cfg.UptraceDSN)
	switch {
	case !cfg.UptraceEnabled:
		logger.Debug("uptrace disabled")
		return noop, nil
	case dsn == "":
		logger.Warn("uptrace enabled without dsn, tracing stays local")
		return noop, nil
	}

	uptrace.ConfigureOpentelemetry(
		uptrace.WithDSN(dsn),
		uptrace.WithServiceName(cfg.ServiceName),
		uptrace.WithServiceVersion(cfg.ServiceVersion),
		uptrace.WithDeploymentEnvironment(cfg.AppEnv),
		uptrace.WithLoggingEnabled(cfg.UptraceLogsEnabled),
		uptrace.WithResourceAttributes(resourceAttributes(cfg)...),
	)

	logger.Info("uptrace enabled", "data_source", cfg.DataSource, "logs_enabled", cfg.UptraceLogsEnabled)
	return uptrace.Shutdown, nil
}

func resourceAttributes(cfg config.Config) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String("nba.data_source", cfg.DataSource),
		attribute.Bool("nba.cache_enabled", cfg.CacheEnabled),
	}
	if cfg.DataSource == config.DataSourceCSV {
		attrs = append(attrs, attribute.String("nba.csv_path", cfg.DataCSVPath))
	}
	return attrs
}
