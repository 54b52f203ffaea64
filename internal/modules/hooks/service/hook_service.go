package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"stillness/internal/modules/hooks/domain"
	hooksout "stillness/internal/modules/hooks/port/out"
	"stillness/internal/platform/clock"
)

type DoctorReport struct {
	Name            string
	ChecksumValid   bool
	BinaryReachable bool
	LifecycleOK     bool
	Err             error
}

type DispatchReport struct {
	Delivered []string
	Failed    []string
}

type verified struct {
	size    int64
	modTime time.Time
	sum     string
}

type HookService struct {
	clock  clock.Clock
	store  hooksout.ManifestStore
	host   hooksout.Host
	logger hclog.Logger

	mu     sync.Mutex
	hashes map[string]verified
}

func NewHookService(clk clock.Clock, store hooksout.ManifestStore, host hooksout.Host, logger hclog.Logger) *HookService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &HookService{
		clock:  clk,
		store:  store,
		host:   host,
		logger: logger,
		hashes: map[string]verified{},
	}
}

func (s *HookService) List(ctx context.Context) ([]domain.Manifest, error) {
	return s.loadValidated(ctx)
}

func (s *HookService) Doctor(ctx context.Context) ([]DoctorReport, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	reports := make([]DoctorReport, 0, len(manifests))
	for _, m := range manifests {
		report := DoctorReport{Name: m.Name}
		if err := m.Validate(); err != nil {
			report.Err = err
			reports = append(reports, report)
			continue
		}
		report.BinaryReachable = fileExists(m.Binary)
		if !report.BinaryReachable {
			report.Err = fmt.Errorf("binary does not exist: %s", m.Binary)
			reports = append(reports, report)
			continue
		}
		if err := s.checksumMatches(m.Binary, m.SHA256); err != nil {
			report.Err = err
			reports = append(reports, report)
			continue
		}
		report.ChecksumValid = true
		if m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				report.Err = err
			} else {
				report.LifecycleOK = true
			}
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// Dispatch delivers event to every enabled hook subscribed to its type. A hook
// that fails is logged and reported; the others still receive the event.
func (s *HookService) Dispatch(ctx context.Context, event domain.Event) (DispatchReport, error) {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = s.clock.Now()
	}
	if err := event.Validate(); err != nil {
		return DispatchReport{}, err
	}
	manifests, err := s.loadValidated(ctx)
	if err != nil {
		return DispatchReport{}, err
	}

	report := DispatchReport{}
	var errs []error
	for _, m := range manifests {
		if !m.Enabled || !m.Subscribes(event.Type) {
			continue
		}
		if err := s.deliver(ctx, m, event); err != nil {
			s.logger.Warn("hook delivery failed", "hook", m.Name, "event", string(event.Type), "error", err)
			report.Failed = append(report.Failed, m.Name)
			errs = append(errs, fmt.Errorf("%s: %w", m.Name, err))
			continue
		}
		report.Delivered = append(report.Delivered, m.Name)
	}
	return report, errors.Join(errs...)
}

func (s *HookService) deliver(ctx context.Context, m domain.Manifest, event domain.Event) error {
	if err := s.checksumMatches(m.Binary, m.SHA256); err != nil {
		return err
	}
	if s.host == nil {
		return fmt.Errorf("no hook host configured")
	}
	ack, err := s.host.Notify(ctx, m, event)
	if err != nil {
		return err
	}
	if !ack.Accepted {
		return fmt.Errorf("hook rejected event: %s", ack.Message)
	}
	return nil
}

func (s *HookService) loadValidated(ctx context.Context) ([]domain.Manifest, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	seenNames := map[string]struct{}{}
	for _, manifest := range manifests {
		if err := manifest.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seenNames[manifest.Name]; ok {
			return nil, fmt.Errorf("duplicate hook name: %s", manifest.Name)
		}
		seenNames[manifest.Name] = struct{}{}
	}
	return manifests, nil
}

// checksumMatches hashes the binary once per (size, mtime) so phase events do
// not reread it every few seconds.
func (s *HookService) checksumMatches(path string, expected string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat hook binary: %w", err)
	}

	s.mu.Lock()
	cached, ok := s.hashes[path]
	s.mu.Unlock()

	actual := cached.sum
	if !ok || cached.size != info.Size() || !cached.modTime.Equal(info.ModTime()) {
		payload, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read hook binary: %w", err)
		}
		hash := sha256.Sum256(payload)
		actual = hex.EncodeToString(hash[:])
		s.mu.Lock()
		s.hashes[path] = verified{size: info.Size(), modTime: info.ModTime(), sum: actual}
		s.mu.Unlock()
	}
	if actual != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
