package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"stillness/internal/modules/history/domain"
	historyout "stillness/internal/modules/history/port/out"
	"stillness/internal/platform/calendar"
	"stillness/internal/platform/clock"
	"stillness/internal/platform/id"
	"stillness/internal/platform/logging"
	"stillness/internal/platform/tx"
)

type HistoryService struct {
	clock clock.Clock
	idGen id.Generator
	store historyout.SessionStore
	index historyout.SessionIndex
	tx    tx.Manager
	loc   *time.Location
	log   hclog.Logger
}

func NewHistoryService(clk clock.Clock, idGen id.Generator, store historyout.SessionStore, index historyout.SessionIndex, txm tx.Manager, loc *time.Location, logger hclog.Logger) *HistoryService {
	if txm == nil {
		txm = tx.NoopManager{}
	}
	if loc == nil {
		loc = time.Local
	}
	return &HistoryService{
		clock: clk,
		idGen: idGen,
		store: store,
		index: index,
		tx:    txm,
		loc:   loc,
		log:   logging.OrNull(logger).Named("history"),
	}
}

type RecordInput struct {
	Kind            domain.Kind
	DurationMinutes int
	MeditationID    string
	Technique       string
	Notes           string
}

// Record stamps a new session and persists it. The note is written first;
// when only the index update fails the record still stands and the error is
// logged, since Reindex can rebuild the projection from notes.
func (s *HistoryService) Record(ctx context.Context, input RecordInput) (domain.SessionRecord, error) {
	now := s.clock.Now()
	record := domain.SessionRecord{
		ID:              s.idGen.New(),
		Kind:            input.Kind,
		DurationMinutes: input.DurationMinutes,
		CompletedAt:     now,
		CompletionDate:  calendar.DateOf(now, s.loc),
		MeditationID:    strings.TrimSpace(input.MeditationID),
		Technique:       strings.TrimSpace(input.Technique),
		Notes:           strings.TrimSpace(input.Notes),
	}
	if err := record.Validate(); err != nil {
		return domain.SessionRecord{}, err
	}
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		path, err := s.store.Save(ctx, record)
		if err != nil {
			return err
		}
		record.NotePath = path
		if err := s.index.Upsert(ctx, record); err != nil {
			s.log.Warn("session index out of date", "id", record.ID, "error", err)
		}
		return nil
	})
	if err != nil {
		return domain.SessionRecord{}, fmt.Errorf("record session: %w", err)
	}
	s.log.Debug("session recorded", "id", record.ID, "kind", record.Kind, "minutes", record.DurationMinutes)
	return record, nil
}

func (s *HistoryService) List(ctx context.Context, filter domain.Filter) ([]domain.SessionRecord, error) {
	if filter.Kind != "" {
		if err := filter.Kind.Validate(); err != nil {
			return nil, err
		}
	}
	return s.index.Query(ctx, filter)
}

// LoadAll reads the whole history in one query.
func (s *HistoryService) LoadAll(ctx context.Context) ([]domain.SessionRecord, error) {
	return s.index.Query(ctx, domain.Filter{})
}

func (s *HistoryService) Get(ctx context.Context, id string) (domain.SessionRecord, error) {
	record, err := s.index.Get(ctx, id)
	if err == nil {
		return record, nil
	}
	return s.store.FindByID(ctx, id)
}

// Annotate replaces the notes of an existing session. The note file is
// rewritten in place and the index follows it.
func (s *HistoryService) Annotate(ctx context.Context, id, notes string) (domain.SessionRecord, error) {
	var record domain.SessionRecord
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		found, err := s.store.FindByID(ctx, id)
		if err != nil {
			return err
		}
		found.Notes = strings.TrimSpace(notes)
		path, err := s.store.Save(ctx, found)
		if err != nil {
			return err
		}
		found.NotePath = path
		if err := s.index.Upsert(ctx, found); err != nil {
			s.log.Warn("session index out of date", "id", id, "error", err)
		}
		record = found
		return nil
	})
	if err != nil {
		return domain.SessionRecord{}, fmt.Errorf("annotate session: %w", err)
	}
	return record, nil
}

func (s *HistoryService) Delete(ctx context.Context, id string) error {
	return s.tx.Within(ctx, func(ctx context.Context) error {
		if err := s.store.Delete(ctx, id); err != nil {
			return err
		}
		return s.index.Remove(ctx, id)
	})
}

// Reindex rebuilds the projection from the notes and reports how many
// sessions it indexed.
func (s *HistoryService) Reindex(ctx context.Context) (int, error) {
	count := 0
	err := s.tx.Within(ctx, func(ctx context.Context) error {
		records, err := s.store.List(ctx)
		if err != nil {
			return err
		}
		if err := s.index.Reset(ctx); err != nil {
			return err
		}
		for _, record := range records {
			if err := s.index.Upsert(ctx, record); err != nil {
				return err
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("reindex sessions: %w", err)
	}
	s.log.Info("session index rebuilt", "count", count)
	return count, nil
}
