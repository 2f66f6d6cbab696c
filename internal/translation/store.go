package translation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-lms/meridian-lms/internal/language"
)

const uniqueViolation = "23505"

// PGStore is the PostgreSQL Store. All records share one table; the unique
// constraint on (entity_kind, parent_id, language) is the authoritative
// guard against duplicate languages.
type PGStore struct {
	pool *pgxpool.Pool
}

// NewPGStore constructs a PGStore.
func NewPGStore(pool *pgxpool.Pool) *PGStore {
	return &PGStore{pool: pool}
}

// Insert persists a record. Constraint violations surface as ErrConflict so
// the second of two racing writers gets a conflict, not a duplicate row.
func (s *PGStore) Insert(ctx context.Context, kind Kind, rec Record) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO translations (id, entity_kind, parent_id, language, name, description, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		rec.ID, string(kind), rec.ParentID, string(rec.Language), rec.Name, rec.Description, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrConflict
		}
		return err
	}
	return nil
}

// FindByID fetches a record by id within a kind.
func (s *PGStore) FindByID(ctx context.Context, kind Kind, id uuid.UUID) (Record, error) {
	return s.scanOne(s.pool.QueryRow(ctx,
		`SELECT id, parent_id, language, name, description, created_at, updated_at
		   FROM translations WHERE entity_kind = $1 AND id = $2`,
		string(kind), id))
}

// FindByParentAndLanguage fetches the record for one language of a parent.
func (s *PGStore) FindByParentAndLanguage(ctx context.Context, kind Kind, parentID int64, lang language.Code) (Record, error) {
	return s.scanOne(s.pool.QueryRow(ctx,
		`SELECT id, parent_id, language, name, description, created_at, updated_at
		   FROM translations WHERE entity_kind = $1 AND parent_id = $2 AND language = $3`,
		string(kind), parentID, string(lang)))
}

// Update rewrites a record. Language moves hit the same unique constraint
// as inserts.
func (s *PGStore) Update(ctx context.Context, kind Kind, rec Record) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE translations SET language = $1, name = $2, description = $3, updated_at = $4
		  WHERE entity_kind = $5 AND id = $6`,
		string(rec.Language), rec.Name, rec.Description, rec.UpdatedAt, string(kind), rec.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrConflict
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a record; unknown ids return ErrNotFound.
func (s *PGStore) Delete(ctx context.Context, kind Kind, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM translations WHERE entity_kind = $1 AND id = $2`, string(kind), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByParent returns every stored record for a parent.
func (s *PGStore) ListByParent(ctx context.Context, kind Kind, parentID int64) ([]Record, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, parent_id, language, name, description, created_at, updated_at
		   FROM translations WHERE entity_kind = $1 AND parent_id = $2 ORDER BY language`,
		string(kind), parentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Record
	for rows.Next() {
		var rec Record
		var lang string
		if err := rows.Scan(&rec.ID, &rec.ParentID, &lang, &rec.Name, &rec.Description, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, err
		}
		rec.Language = language.Code(lang)
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PGStore) scanOne(row pgx.Row) (Record, error) {
	var rec Record
	var lang string
	err := row.Scan(&rec.ID, &rec.ParentID, &lang, &rec.Name, &rec.Description, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	rec.Language = language.Code(lang)
	return rec, nil
}
