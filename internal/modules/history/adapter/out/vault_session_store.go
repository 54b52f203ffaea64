package out

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"stillness/internal/modules/history/domain"
	historyout "stillness/internal/modules/history/port/out"
	"stillness/internal/platform/calendar"
	apperrors "stillness/internal/platform/errors"
	"stillness/internal/platform/markdown"
	"stillness/internal/platform/slug"
)

type noteMeta struct {
	SchemaVersion   int    `yaml:"schema_version"`
	ID              string `yaml:"id"`
	Kind            string `yaml:"kind"`
	DurationMinutes int    `yaml:"duration_minutes"`
	CompletedAt     string `yaml:"completed_at"`
	CompletionDate  string `yaml:"completion_date"`
	MeditationID    string `yaml:"meditation_id,omitempty"`
	Technique       string `yaml:"technique,omitempty"`
}

// VaultSessionStore writes one markdown note per session under
// sessions/YYYY/MM/DD, bucketed by the local completion date.
type VaultSessionStore struct {
	vaultPath string
	loc       *time.Location
}

func NewVaultSessionStore(vaultPath string, loc *time.Location) historyout.SessionStore {
	if loc == nil {
		loc = time.Local
	}
	return &VaultSessionStore{vaultPath: vaultPath, loc: loc}
}

func (s *VaultSessionStore) root() string {
	return filepath.Join(s.vaultPath, "sessions")
}

func (s *VaultSessionStore) Save(_ context.Context, record domain.SessionRecord) (string, error) {
	local := record.CompletedAt.In(s.loc)
	dir := filepath.Join(s.root(), local.Format("2006"), local.Format("01"), local.Format("02"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create session dir: %w", err)
	}
	shortID := record.ID
	if len(shortID) > 8 {
		shortID = shortID[:8]
	}
	name := fmt.Sprintf("%s-%s.md", local.Format("150405"), slug.Make(record.Title()+" "+shortID, "session"))
	path := filepath.Join(dir, name)

	meta := noteMeta{
		SchemaVersion:   domain.SchemaVersion,
		ID:              record.ID,
		Kind:            string(record.Kind),
		DurationMinutes: record.DurationMinutes,
		CompletedAt:     record.CompletedAt.UTC().Format(time.RFC3339Nano),
		CompletionDate:  record.CompletionDate.String(),
		MeditationID:    record.MeditationID,
		Technique:       record.Technique,
	}
	body := fmt.Sprintf("# %s session\n\n- Duration: %d minutes\n- Completed: %s\n", record.Kind, record.DurationMinutes, local.Format("2006-01-02 15:04"))
	if record.MeditationID != "" {
		body += fmt.Sprintf("- Meditation: %s\n", record.MeditationID)
	}
	if record.Technique != "" {
		body += fmt.Sprintf("- Technique: %s\n", record.Technique)
	}
	body += "\n## Notes\n\n" + record.Notes
	if !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	rendered, err := markdown.Render(meta, body)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write session note: %w", err)
	}
	return path, nil
}

func (s *VaultSessionStore) FindByID(ctx context.Context, id string) (domain.SessionRecord, error) {
	records, err := s.List(ctx)
	if err != nil {
		return domain.SessionRecord{}, err
	}
	for _, record := range records {
		if record.ID == id {
			return record, nil
		}
	}
	return domain.SessionRecord{}, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
}

// List returns every note in path order, which is chronological.
func (s *VaultSessionStore) List(ctx context.Context) ([]domain.SessionRecord, error) {
	var paths []string
	err := filepath.WalkDir(s.root(), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
			paths = append(paths, path)
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("walk session notes: %w", err)
	}
	sort.Strings(paths)

	out := make([]domain.SessionRecord, 0, len(paths))
	for _, path := range paths {
		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil, fmt.Errorf("read %s: %w", path, readErr)
		}
		var meta noteMeta
		body, decodeErr := markdown.Decode(string(content), &meta)
		if decodeErr != nil {
			return nil, fmt.Errorf("parse %s: %w", path, decodeErr)
		}
		record, convErr := fromMeta(meta, body, path)
		if convErr != nil {
			return nil, fmt.Errorf("decode session %s: %w", path, convErr)
		}
		out = append(out, record)
	}
	return out, nil
}

func (s *VaultSessionStore) Delete(ctx context.Context, id string) error {
	record, err := s.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := os.Remove(record.NotePath); err != nil {
		return fmt.Errorf("remove session note: %w", err)
	}
	return nil
}

func fromMeta(meta noteMeta, body, notePath string) (domain.SessionRecord, error) {
	completedAt, err := time.Parse(time.RFC3339Nano, meta.CompletedAt)
	if err != nil {
		return domain.SessionRecord{}, fmt.Errorf("completed_at: %w", err)
	}
	date, err := calendar.Parse(meta.CompletionDate)
	if err != nil {
		return domain.SessionRecord{}, err
	}
	record := domain.SessionRecord{
		ID:              meta.ID,
		Kind:            domain.Kind(meta.Kind),
		DurationMinutes: meta.DurationMinutes,
		CompletedAt:     completedAt,
		CompletionDate:  date,
		MeditationID:    meta.MeditationID,
		Technique:       meta.Technique,
		Notes:           notesSection(body),
		NotePath:        notePath,
	}
	if err := record.Validate(); err != nil {
		return domain.SessionRecord{}, err
	}
	return record, nil
}

func notesSection(body string) string {
	const heading = "## Notes\n"
	idx := strings.Index(body, heading)
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(body[idx+len(heading):])
}
