// Package translation implements the per-language content engine shared by
// every translatable entity. It enforces one record per language per parent
// and always projects a complete set of languages on read.
package translation

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/meridian-lms/meridian-lms/internal/language"
)

// Kind discriminates which entity family a record belongs to. Each content
// package registers its own kind.
type Kind string

var (
	// ErrNotFound indicates an unknown translation id.
	ErrNotFound = errors.New("translation: not found")
	// ErrConflict indicates a second record for the same (parent, language).
	ErrConflict = errors.New("translation: language already present for parent")
)

// Record is the per-language content payload for a translatable entity.
// A zero ID (uuid.Nil) marks a placeholder for a language with no stored
// content; placeholders are never persisted.
type Record struct {
	ID          uuid.UUID     `json:"id"`
	ParentID    int64         `json:"-"`
	Language    language.Code `json:"language"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	CreatedAt   time.Time     `json:"-"`
	UpdatedAt   time.Time     `json:"-"`
}

// IsPlaceholder reports whether the record is a synthetic empty entry.
func (r Record) IsPlaceholder() bool {
	return r.ID == uuid.Nil
}

// Fields carries the mutable content of a record.
type Fields struct {
	Name        string
	Description string
}
