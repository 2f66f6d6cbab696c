package translation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-lms/meridian-lms/internal/language"
)

// Store persists translation records. Implementations must enforce a unique
// constraint on (kind, parent, language); the pre-checks in the manager are
// advisory only and lose races.
type Store interface {
	Insert(ctx context.Context, kind Kind, rec Record) error
	FindByID(ctx context.Context, kind Kind, id uuid.UUID) (Record, error)
	FindByParentAndLanguage(ctx context.Context, kind Kind, parentID int64, lang language.Code) (Record, error)
	Update(ctx context.Context, kind Kind, rec Record) error
	Delete(ctx context.Context, kind Kind, id uuid.UUID) error
	ListByParent(ctx context.Context, kind Kind, parentID int64) ([]Record, error)
}

// Manager applies the translation-set invariants on top of a Store.
type Manager struct {
	store Store
}

// NewManager constructs a Manager.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// Create persists a new translation for (parentID, lang). It fails with
// language.ErrInvalidLanguage for unsupported codes and ErrConflict when the
// language already exists for the parent. The storage constraint backs the
// pre-check, so concurrent creates cannot both succeed.
func (m *Manager) Create(ctx context.Context, kind Kind, parentID int64, lang language.Code, fields Fields) (Record, error) {
	if !language.IsSupported(lang) {
		return Record{}, language.ErrInvalidLanguage
	}
	if _, err := m.store.FindByParentAndLanguage(ctx, kind, parentID, lang); err == nil {
		return Record{}, ErrConflict
	} else if !errors.Is(err, ErrNotFound) {
		return Record{}, fmt.Errorf("translation: conflict pre-check: %w", err)
	}

	now := time.Now()
	rec := Record{
		ID:          uuid.New(),
		ParentID:    parentID,
		Language:    lang,
		Name:        fields.Name,
		Description: fields.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := m.store.Insert(ctx, kind, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Update rewrites the content fields of an existing record, optionally
// moving it to another language. A language move re-validates sibling
// uniqueness before writing.
func (m *Manager) Update(ctx context.Context, kind Kind, id uuid.UUID, newLang *language.Code, fields Fields) (Record, error) {
	rec, err := m.store.FindByID(ctx, kind, id)
	if err != nil {
		return Record{}, err
	}

	if newLang != nil && *newLang != rec.Language {
		if !language.IsSupported(*newLang) {
			return Record{}, language.ErrInvalidLanguage
		}
		if _, err := m.store.FindByParentAndLanguage(ctx, kind, rec.ParentID, *newLang); err == nil {
			return Record{}, ErrConflict
		} else if !errors.Is(err, ErrNotFound) {
			return Record{}, fmt.Errorf("translation: conflict pre-check: %w", err)
		}
		rec.Language = *newLang
	}

	rec.Name = fields.Name
	rec.Description = fields.Description
	rec.UpdatedAt = time.Now()
	if err := m.store.Update(ctx, kind, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Delete removes a record. Unknown ids return ErrNotFound; deletion is not
// treated as a silent no-op.
func (m *Manager) Delete(ctx context.Context, kind Kind, id uuid.UUID) error {
	return m.store.Delete(ctx, kind, id)
}

// ReadAll returns one record per supported language in canonical order.
// Languages without stored content are filled with placeholders so callers
// never branch on missing keys.
func (m *Manager) ReadAll(ctx context.Context, kind Kind, parentID int64) ([]Record, error) {
	stored, err := m.store.ListByParent(ctx, kind, parentID)
	if err != nil {
		return nil, err
	}
	byLang := make(map[language.Code]Record, len(stored))
	for _, rec := range stored {
		byLang[rec.Language] = rec
	}

	out := make([]Record, 0, len(language.All()))
	for _, lang := range language.All() {
		if rec, ok := byLang[lang]; ok {
			out = append(out, rec)
			continue
		}
		out = append(out, Record{ParentID: parentID, Language: lang})
	}
	return out, nil
}

// DeleteAllForParent removes every translation owned by a parent. Used when
// the parent entity itself is deleted.
func (m *Manager) DeleteAllForParent(ctx context.Context, kind Kind, parentID int64) error {
	stored, err := m.store.ListByParent(ctx, kind, parentID)
	if err != nil {
		return err
	}
	for _, rec := range stored {
		if err := m.store.Delete(ctx, kind, rec.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return err
		}
	}
	return nil
}
