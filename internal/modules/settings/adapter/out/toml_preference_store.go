package out

import (
	"context"
	"fmt"
	"os"

	toml "github.com/pelletier/go-toml/v2"

	"stillness/internal/modules/settings/domain"
	settingsout "stillness/internal/modules/settings/port/out"
	"stillness/internal/platform/fsutil"
)

const settingsFileMode = 0o644

type TOMLPreferenceStore struct {
	path string
}

var _ settingsout.PreferenceStore = (*TOMLPreferenceStore)(nil)

func NewTOMLPreferenceStore(path string) *TOMLPreferenceStore {
	return &TOMLPreferenceStore{path: path}
}

// Load decodes over the defaults, so keys missing from the file keep their
// default values.
func (s *TOMLPreferenceStore) Load(ctx context.Context) (domain.Preferences, error) {
	if err := ctx.Err(); err != nil {
		return domain.Preferences{}, err
	}
	prefs := domain.Defaults()
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return prefs, fmt.Errorf("read settings: %w", err)
	}
	if err := toml.Unmarshal(raw, &prefs); err != nil {
		return domain.Defaults(), fmt.Errorf("decode settings: %w", err)
	}
	return prefs.Normalize(), nil
}

func (s *TOMLPreferenceStore) Save(ctx context.Context, prefs domain.Preferences) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := toml.Marshal(prefs.Normalize())
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.path, data, settingsFileMode); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
