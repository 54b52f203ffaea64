package out

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"stillness/internal/modules/stats/domain"
	statsout "stillness/internal/modules/stats/port/out"
	"stillness/internal/platform/fsutil"
)

type FileSnapshotCache struct {
	path string
}

func NewFileSnapshotCache(path string) statsout.SnapshotCache {
	return &FileSnapshotCache{path: path}
}

func (c *FileSnapshotCache) Load(_ context.Context) (domain.CacheState, error) {
	raw, err := os.ReadFile(c.path)
	if err != nil {
		return domain.CacheState{}, fmt.Errorf("read stats cache: %w", err)
	}
	var state domain.CacheState
	if err := json.Unmarshal(raw, &state); err != nil {
		return domain.CacheState{}, fmt.Errorf("decode stats cache: %w", err)
	}
	return state, nil
}

func (c *FileSnapshotCache) Save(_ context.Context, state domain.CacheState) error {
	raw, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats cache: %w", err)
	}
	return fsutil.WriteFileAtomic(c.path, append(raw, '\n'), 0o644)
}
