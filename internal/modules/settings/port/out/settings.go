package out

import (
	"context"

	"stillness/internal/modules/settings/domain"
)

type PreferenceStore interface {
	Load(ctx context.Context) (domain.Preferences, error)
	Save(ctx context.Context, prefs domain.Preferences) error
}
