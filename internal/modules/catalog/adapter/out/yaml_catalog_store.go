package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"stillness/internal/modules/catalog/domain"
	catalogout "stillness/internal/modules/catalog/port/out"
	"stillness/internal/platform/fsutil"
)

type catalogFile struct {
	Meditations []domain.Meditation `yaml:"meditations"`
}

// YAMLCatalogStore reads catalog.yaml, falling back to the built-in
// meditations when the file does not exist. The first Save therefore writes
// the built-ins along with the change.
type YAMLCatalogStore struct {
	path string
}

func NewYAMLCatalogStore(path string) catalogout.CatalogStore {
	return &YAMLCatalogStore{path: path}
}

func (s *YAMLCatalogStore) Load(_ context.Context) ([]domain.Meditation, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.BuiltIn(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", s.path, err)
	}
	seen := map[string]bool{}
	for _, m := range file.Meditations {
		if err := m.Validate(); err != nil {
			return nil, fmt.Errorf("catalog %s: %w", s.path, err)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("catalog %s: duplicate meditation id %s", s.path, m.ID)
		}
		seen[m.ID] = true
	}
	return file.Meditations, nil
}

func (s *YAMLCatalogStore) Save(_ context.Context, meditations []domain.Meditation) error {
	data, err := yaml.Marshal(catalogFile{Meditations: meditations})
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := fsutil.WriteFileAtomic(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write catalog: %w", err)
	}
	return nil
}
