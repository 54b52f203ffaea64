package out

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"stillness/internal/modules/history/domain"
	historyout "stillness/internal/modules/history/port/out"
	"stillness/internal/platform/calendar"
	apperrors "stillness/internal/platform/errors"

	_ "modernc.org/sqlite"
)

type SQLiteSessionIndex struct {
	db *sql.DB
}

var _ historyout.SessionIndex = (*SQLiteSessionIndex)(nil)

func NewSQLiteSessionIndex(dbPath string) (*SQLiteSessionIndex, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	index := &SQLiteSessionIndex{db: db}
	if err := index.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return index, nil
}

func (s *SQLiteSessionIndex) Close() error {
	return s.db.Close()
}

func (s *SQLiteSessionIndex) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  id TEXT PRIMARY KEY,
  kind TEXT NOT NULL,
  duration_minutes INTEGER NOT NULL CHECK (duration_minutes > 0),
  completed_at_ms INTEGER NOT NULL,
  completion_date TEXT NOT NULL,
  meditation_id TEXT NOT NULL DEFAULT '',
  technique TEXT NOT NULL DEFAULT '',
  note_path TEXT NOT NULL DEFAULT '',
  notes TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_sessions_completion_date ON sessions (completion_date);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create sessions table: %w", err)
	}
	return s.addMissingColumn(ctx, "notes", `ALTER TABLE sessions ADD COLUMN notes TEXT NOT NULL DEFAULT ''`)
}

// addMissingColumn upgrades indexes created before column existed.
func (s *SQLiteSessionIndex) addMissingColumn(ctx context.Context, column, alter string) error {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM pragma_table_info('sessions')`)
	if err != nil {
		return fmt.Errorf("inspect sessions table: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("inspect sessions table: %w", err)
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("inspect sessions table: %w", err)
	}
	if err := rows.Close(); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, alter); err != nil {
		return fmt.Errorf("add %s column: %w", column, err)
	}
	return nil
}

func (s *SQLiteSessionIndex) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("reset sessions: %w", err)
	}
	return nil
}

func (s *SQLiteSessionIndex) Upsert(ctx context.Context, record domain.SessionRecord) error {
	const stmt = `
INSERT INTO sessions (id, kind, duration_minutes, completed_at_ms, completion_date, meditation_id, technique, note_path, notes)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(id) DO UPDATE SET
  kind=excluded.kind,
  duration_minutes=excluded.duration_minutes,
  completed_at_ms=excluded.completed_at_ms,
  completion_date=excluded.completion_date,
  meditation_id=excluded.meditation_id,
  technique=excluded.technique,
  note_path=excluded.note_path,
  notes=excluded.notes;
`
	_, err := s.db.ExecContext(ctx, stmt,
		record.ID,
		string(record.Kind),
		record.DurationMinutes,
		record.CompletedAtEpochMillis(),
		record.CompletionDate.String(),
		record.MeditationID,
		record.Technique,
		record.NotePath,
		record.Notes,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SQLiteSessionIndex) Remove(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = ?`, id); err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

const selectColumns = `SELECT id, kind, duration_minutes, completed_at_ms, completion_date, meditation_id, technique, note_path, notes FROM sessions`

func (s *SQLiteSessionIndex) Get(ctx context.Context, id string) (domain.SessionRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.SessionRecord{}, fmt.Errorf("session %s: %w", id, apperrors.ErrNotFound)
	}
	return record, err
}

// Query returns matching sessions, most recent first. The whole result comes
// from one statement, so it reflects a single consistent read.
func (s *SQLiteSessionIndex) Query(ctx context.Context, filter domain.Filter) ([]domain.SessionRecord, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, string(filter.Kind))
	}
	if !filter.Since.IsZero() {
		clauses = append(clauses, "completion_date >= ?")
		args = append(args, filter.Since.String())
	}
	query := selectColumns
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY completed_at_ms DESC, id"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	var out []domain.SessionRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (domain.SessionRecord, error) {
	var (
		record      domain.SessionRecord
		kind        string
		completedMs int64
		date        string
	)
	if err := row.Scan(&record.ID, &kind, &record.DurationMinutes, &completedMs, &date, &record.MeditationID, &record.Technique, &record.NotePath, &record.Notes); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.SessionRecord{}, err
		}
		return domain.SessionRecord{}, fmt.Errorf("scan session: %w", err)
	}
	record.Kind = domain.Kind(kind)
	record.CompletedAt = time.UnixMilli(completedMs).UTC()
	parsed, err := calendar.Parse(date)
	if err != nil {
		return domain.SessionRecord{}, err
	}
	record.CompletionDate = parsed
	return record, nil
}
