package out

import (
	"context"

	"stillness/internal/modules/catalog/domain"
)

// CatalogStore loads and replaces the whole catalog. Load falls back to the
// built-in meditations until the first Save.
type CatalogStore interface {
	Load(ctx context.Context) ([]domain.Meditation, error)
	Save(ctx context.Context, meditations []domain.Meditation) error
}
