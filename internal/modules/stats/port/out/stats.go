package out

import (
	"context"

	"stillness/internal/modules/stats/domain"
)

type HistorySource interface {
	LoadAll(ctx context.Context) ([]domain.Entry, error)
}

type SnapshotCache interface {
	Load(ctx context.Context) (domain.CacheState, error)
	Save(ctx context.Context, state domain.CacheState) error
}
