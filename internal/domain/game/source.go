package game

import "context"

// Source loads the complete dataset from its backing store.
type Source interface {
	Load(ctx context.Context) (Dataset, LoadReport, error)
	// Version identifies the current content of the source. It changes when
	// the underlying data changes.
	Version(ctx context.Context) (string, error)
}

// Writer persists records keyed by their source row.
type Writer interface {
	UpsertGames(ctx context.Context, records []Record) (int64, error)
}
