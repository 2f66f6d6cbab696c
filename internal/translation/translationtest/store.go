// Package translationtest provides an in-memory translation.Store for
// tests. It mirrors the PostgreSQL store's constraint behavior: the
// composite key (kind, parent, language) is unique and violations
// surface as translation.ErrConflict.
package translationtest

import (
	"context"

	"github.com/google/uuid"

	"github.com/meridian-lms/meridian-lms/internal/language"
	"github.com/meridian-lms/meridian-lms/internal/translation"
)

// Store is a map-backed translation.Store.
type Store struct {
	records map[uuid.UUID]translation.Record
	kinds   map[uuid.UUID]translation.Kind
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{
		records: make(map[uuid.UUID]translation.Record),
		kinds:   make(map[uuid.UUID]translation.Kind),
	}
}

func (s *Store) Insert(ctx context.Context, kind translation.Kind, rec translation.Record) error {
	for id, other := range s.records {
		if s.kinds[id] == kind && other.ParentID == rec.ParentID && other.Language == rec.Language {
			return translation.ErrConflict
		}
	}
	s.records[rec.ID] = rec
	s.kinds[rec.ID] = kind
	return nil
}

func (s *Store) FindByID(ctx context.Context, kind translation.Kind, id uuid.UUID) (translation.Record, error) {
	rec, ok := s.records[id]
	if !ok || s.kinds[id] != kind {
		return translation.Record{}, translation.ErrNotFound
	}
	return rec, nil
}

func (s *Store) FindByParentAndLanguage(ctx context.Context, kind translation.Kind, parentID int64, lang language.Code) (translation.Record, error) {
	for id, rec := range s.records {
		if s.kinds[id] == kind && rec.ParentID == parentID && rec.Language == lang {
			return rec, nil
		}
	}
	return translation.Record{}, translation.ErrNotFound
}

func (s *Store) Update(ctx context.Context, kind translation.Kind, rec translation.Record) error {
	if _, ok := s.records[rec.ID]; !ok || s.kinds[rec.ID] != kind {
		return translation.ErrNotFound
	}
	for id, other := range s.records {
		if id == rec.ID {
			continue
		}
		if s.kinds[id] == kind && other.ParentID == rec.ParentID && other.Language == rec.Language {
			return translation.ErrConflict
		}
	}
	s.records[rec.ID] = rec
	return nil
}

func (s *Store) Delete(ctx context.Context, kind translation.Kind, id uuid.UUID) error {
	if _, ok := s.records[id]; !ok || s.kinds[id] != kind {
		return translation.ErrNotFound
	}
	delete(s.records, id)
	delete(s.kinds, id)
	return nil
}

func (s *Store) ListByParent(ctx context.Context, kind translation.Kind, parentID int64) ([]translation.Record, error) {
	var out []translation.Record
	for id, rec := range s.records {
		if s.kinds[id] == kind && rec.ParentID == parentID {
			out = append(out, rec)
		}
	}
	return out, nil
}
