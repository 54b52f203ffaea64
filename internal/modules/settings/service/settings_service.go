package service

import (
	"context"
	"errors"
	"io/fs"
	"sync"

	hclog "github.com/hashicorp/go-hclog"

	"stillness/internal/modules/settings/domain"
	settingsout "stillness/internal/modules/settings/port/out"
	"stillness/internal/platform/logging"
)

type SettingsService struct {
	store settingsout.PreferenceStore
	log   hclog.Logger
	mu    sync.Mutex
}

func NewSettingsService(store settingsout.PreferenceStore, logger hclog.Logger) *SettingsService {
	return &SettingsService{store: store, log: logging.OrNull(logger).Named("settings")}
}

// Load never fails: unreadable or missing settings yield the defaults.
func (s *SettingsService) Load(ctx context.Context) domain.Preferences {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *SettingsService) loadLocked(ctx context.Context) domain.Preferences {
	prefs, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.log.Warn("settings unreadable, using defaults", "error", err)
		}
		return domain.Defaults()
	}
	return prefs
}

func (s *SettingsService) Get(ctx context.Context, key string) (string, error) {
	return s.Load(ctx).Get(key)
}

// Set applies one key and persists the result. The effective, clamped value
// is returned even when the write fails.
func (s *SettingsService) Set(ctx context.Context, key, value string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.loadLocked(ctx).Set(key, value)
	if err != nil {
		return "", err
	}
	effective, _ := next.Get(key)
	if err := s.store.Save(ctx, next); err != nil {
		s.log.Warn("settings not saved", "key", key, "error", err)
		return effective, err
	}
	return effective, nil
}
