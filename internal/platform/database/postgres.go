package database

import (
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
)

const maxTracedQueryLength = 512

var queryWhitespaceRegex = regexp.MustCompile(`\s+`)

type Options struct {
	URL                         string
	DisablePreparedBinaryResult bool
	MaxOpenConns                int
	PingTimeout                 time.Duration
}

// OpenPostgres opens a traced sqlx handle and verifies it with a ping.
func OpenPostgres(ctx context.Context, opts Options) (*sqlx.DB, error) {
	raw := strings.TrimSpace(opts.URL)
	if raw == "" {
		return nil, fmt.Errorf("database url is required")
	}

	db, err := otelsqlx.Open(
		"postgres",
		NormalizeURL(raw, opts.DisablePreparedBinaryResult),
		otelsql.WithDBName(NameFromURL(raw)),
		otelsql.WithQueryFormatter(FormatQueryForTrace),
	)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
		db.SetMaxIdleConns(opts.MaxOpenConns)
	}

	timeout := opts.PingTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return db, nil
}

// NormalizeURL adds disable_prepared_binary_result=yes for poolers that
// cannot handle binary results of unnamed statements.
func NormalizeURL(raw string, disablePreparedBinaryResult bool) string {
	if !disablePreparedBinaryResult {
		return raw
	}

	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil || parsed.Scheme == "" {
		return raw
	}

	query := parsed.Query()
	if query.Get("disable_prepared_binary_result") != "" {
		return raw
	}
	query.Set("disable_prepared_binary_result", "yes")
	parsed.RawQuery = query.Encode()
	return parsed.String()
}

// NameFromURL extracts the database name from either a URL or a key=value DSN.
func NameFromURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if parsed, err := url.Parse(trimmed); err == nil && parsed.Scheme != "" {
		if name := strings.TrimSpace(strings.TrimPrefix(parsed.Path, "/")); name != "" {
			return name
		}
	}

	for _, token := range strings.Fields(trimmed) {
		name, ok := strings.CutPrefix(token, "dbname=")
		if !ok {
			continue
		}
		if name = strings.Trim(strings.TrimSpace(name), `"'`); name != "" {
			return name
		}
	}

	return ""
}

func FormatQueryForTrace(query string) string {
	normalized := queryWhitespaceRegex.ReplaceAllString(strings.TrimSpace(query), " ")
	if len(normalized) <= maxTracedQueryLength {
		return normalized
	}
	return normalized[:maxTracedQueryLength] + "..."
}
