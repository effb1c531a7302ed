package services

import "context"

// Source produces the raw records of one profile. A returned error means the
// whole profile is unreadable; per-record problems are left to ingestion.
type Source interface {
	Load(ctx context.Context, req LoadRequest) (LoadResult, error)
}
