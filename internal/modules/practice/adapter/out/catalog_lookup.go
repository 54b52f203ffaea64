package out

import (
	"context"

	catalogin "stillness/internal/modules/catalog/port/in"
	practiceout "stillness/internal/modules/practice/port/out"
)

type CatalogLookup struct {
	catalog catalogin.Usecase
}

var _ practiceout.MeditationLookup = CatalogLookup{}

func NewCatalogLookup(catalog catalogin.Usecase) CatalogLookup {
	return CatalogLookup{catalog: catalog}
}

func (l CatalogLookup) MeditationMinutes(ctx context.Context, id string) (int, error) {
	m, err := l.catalog.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	return m.DurationMinutes, nil
}
