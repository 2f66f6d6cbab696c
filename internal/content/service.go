package content

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"

	"github.com/meridian-lms/meridian-lms/internal/language"
	"github.com/meridian-lms/meridian-lms/internal/shared"
	"github.com/meridian-lms/meridian-lms/internal/translation"
)

// Auditor records mutating operations with an explicit actor id.
type Auditor interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// Service manages one entity kind and its translation set. Deleting an
// entity cascades to its owned children and to every translation involved.
type Service struct {
	kind         Kind
	repo         Repository
	translations *translation.Manager
	audit        Auditor
	children     []*Service
}

// NewService constructs a Service for the kind.
func NewService(kind Kind, repo Repository, translations *translation.Manager, audit Auditor) *Service {
	return &Service{kind: kind, repo: repo, translations: translations, audit: audit}
}

// Kind exposes the entity kind this service manages.
func (s *Service) Kind() Kind {
	return s.kind
}

// AttachChild registers a child service whose entities are owned by this
// kind, so deletes can cascade through it.
func (s *Service) AttachChild(child *Service) {
	s.children = append(s.children, child)
}

// List returns a page of entities with their complete translation sets.
func (s *Service) List(ctx context.Context, page, perPage int) ([]Entity, shared.Pagination, error) {
	entities, total, err := s.repo.List(ctx, page, perPage)
	if err != nil {
		return nil, shared.Pagination{}, err
	}
	for i := range entities {
		records, err := s.translations.ReadAll(ctx, s.kind.Name, entities[i].ID)
		if err != nil {
			return nil, shared.Pagination{}, err
		}
		entities[i].Translations = records
	}
	return entities, shared.NewPagination(page, perPage, total), nil
}

// Get fetches one entity with its complete translation set.
func (s *Service) Get(ctx context.Context, id int64) (Entity, error) {
	entity, err := s.repo.Get(ctx, id)
	if err != nil {
		return Entity{}, err
	}
	records, err := s.translations.ReadAll(ctx, s.kind.Name, entity.ID)
	if err != nil {
		return Entity{}, err
	}
	entity.Translations = records
	return entity, nil
}

// Create inserts a new entity. Kinds with owners require a valid owner id.
func (s *Service) Create(ctx context.Context, actorID, ownerID int64) (Entity, error) {
	if s.kind.HasOwner() && ownerID <= 0 {
		return Entity{}, fmt.Errorf("%s: %w", s.kind.Name, ErrOwnerRequired)
	}
	entity, err := s.repo.Create(ctx, ownerID)
	if err != nil {
		return Entity{}, err
	}
	entity.Translations, err = s.translations.ReadAll(ctx, s.kind.Name, entity.ID)
	if err != nil {
		return Entity{}, err
	}
	s.record(ctx, actorID, "create", entity.ID, nil)
	return entity, nil
}

// Delete removes an entity, its owned children and all translations.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return err
	}
	for _, child := range s.children {
		ids, err := child.repo.ListIDsByOwner(ctx, id)
		if err != nil {
			return err
		}
		for _, childID := range ids {
			if err := child.Delete(ctx, actorID, childID); err != nil {
				return err
			}
		}
	}
	if err := s.translations.DeleteAllForParent(ctx, s.kind.Name, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "delete", id, nil)
	return nil
}

// Translations returns the complete projection for an existing entity.
func (s *Service) Translations(ctx context.Context, parentID int64) ([]translation.Record, error) {
	if _, err := s.repo.Get(ctx, parentID); err != nil {
		return nil, err
	}
	return s.translations.ReadAll(ctx, s.kind.Name, parentID)
}

// CreateTranslation adds a language record to an existing entity.
func (s *Service) CreateTranslation(ctx context.Context, actorID, parentID int64, lang language.Code, fields translation.Fields) (translation.Record, error) {
	if _, err := s.repo.Get(ctx, parentID); err != nil {
		return translation.Record{}, err
	}
	rec, err := s.translations.Create(ctx, s.kind.Name, parentID, lang, fields)
	if err != nil {
		return translation.Record{}, err
	}
	s.record(ctx, actorID, "translation.create", parentID, map[string]any{"language": string(lang)})
	return rec, nil
}

// UpdateTranslation rewrites a language record.
func (s *Service) UpdateTranslation(ctx context.Context, actorID int64, id uuid.UUID, newLang *language.Code, fields translation.Fields) (translation.Record, error) {
	rec, err := s.translations.Update(ctx, s.kind.Name, id, newLang, fields)
	if err != nil {
		return translation.Record{}, err
	}
	s.record(ctx, actorID, "translation.update", rec.ParentID, map[string]any{"language": string(rec.Language)})
	return rec, nil
}

// DeleteTranslation removes a language record.
func (s *Service) DeleteTranslation(ctx context.Context, actorID int64, id uuid.UUID) error {
	if err := s.translations.Delete(ctx, s.kind.Name, id); err != nil {
		return err
	}
	s.record(ctx, actorID, "translation.delete", 0, map[string]any{"translation_id": id.String()})
	return nil
}

func (s *Service) record(ctx context.Context, actorID int64, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	_ = s.audit.Record(ctx, shared.AuditLog{
		ActorID:  actorID,
		Action:   string(s.kind.Name) + "." + action,
		Entity:   string(s.kind.Name),
		EntityID: strconv.FormatInt(entityID, 10),
		Meta:     meta,
	})
}
