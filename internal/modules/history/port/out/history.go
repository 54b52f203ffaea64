package out

import (
	"context"

	"stillness/internal/modules/history/domain"
)

// SessionStore holds the session notes, the source of truth.
type SessionStore interface {
	Save(ctx context.Context, record domain.SessionRecord) (string, error)
	FindByID(ctx context.Context, id string) (domain.SessionRecord, error)
	List(ctx context.Context) ([]domain.SessionRecord, error)
	Delete(ctx context.Context, id string) error
}

// SessionIndex is a queryable projection of the notes.
type SessionIndex interface {
	Reset(ctx context.Context) error
	Upsert(ctx context.Context, record domain.SessionRecord) error
	Remove(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (domain.SessionRecord, error)
	Query(ctx context.Context, filter domain.Filter) ([]domain.SessionRecord, error)
}
