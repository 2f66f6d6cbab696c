package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-lms/meridian-lms/internal/shared"
)

// Repository defines data access for one entity kind.
type Repository interface {
	List(ctx context.Context, page, perPage int) ([]Entity, int, error)
	Get(ctx context.Context, id int64) (Entity, error)
	Create(ctx context.Context, ownerID int64) (Entity, error)
	Delete(ctx context.Context, id int64) error
	ListIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error)
}

type repository struct {
	kind Kind
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL repository for the kind. Table and
// column names are taken from the compiled-in Kind definition.
func NewRepository(kind Kind, pool *pgxpool.Pool) Repository {
	return &repository{kind: kind, pool: pool}
}

func (r *repository) ownerSelect() string {
	if r.kind.HasOwner() {
		return r.kind.OwnerColumn
	}
	return "0"
}

// List returns a page of entities plus the total row count.
func (r *repository) List(ctx context.Context, page, perPage int) ([]Entity, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s`, r.kind.Table)).Scan(&total); err != nil {
		return nil, 0, err
	}

	if perPage <= 0 {
		perPage = 20
	}
	offset := (page - 1) * perPage
	if offset < 0 {
		offset = 0
	}

	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT id, %s, created_at, updated_at FROM %s ORDER BY id LIMIT $1 OFFSET $2`,
			r.ownerSelect(), r.kind.Table),
		perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []Entity
	for rows.Next() {
		var e Entity
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// Get fetches an entity by id.
func (r *repository) Get(ctx context.Context, id int64) (Entity, error) {
	var e Entity
	err := r.pool.QueryRow(ctx,
		fmt.Sprintf(`SELECT id, %s, created_at, updated_at FROM %s WHERE id = $1`,
			r.ownerSelect(), r.kind.Table),
		id).Scan(&e.ID, &e.OwnerID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Entity{}, shared.ErrNotFound
		}
		return Entity{}, err
	}
	return e, nil
}

// Create inserts a parent row. ownerID is ignored for kinds without owners.
func (r *repository) Create(ctx context.Context, ownerID int64) (Entity, error) {
	var e Entity
	var err error
	if r.kind.HasOwner() {
		err = r.pool.QueryRow(ctx,
			fmt.Sprintf(`INSERT INTO %s (%s, created_at, updated_at) VALUES ($1, NOW(), NOW())
				RETURNING id, %s, created_at, updated_at`,
				r.kind.Table, r.kind.OwnerColumn, r.kind.OwnerColumn),
			ownerID).Scan(&e.ID, &e.OwnerID, &e.CreatedAt, &e.UpdatedAt)
	} else {
		err = r.pool.QueryRow(ctx,
			fmt.Sprintf(`INSERT INTO %s (created_at, updated_at) VALUES (NOW(), NOW())
				RETURNING id, 0, created_at, updated_at`, r.kind.Table)).
			Scan(&e.ID, &e.OwnerID, &e.CreatedAt, &e.UpdatedAt)
	}
	if err != nil {
		return Entity{}, err
	}
	return e, nil
}

// Delete removes a parent row; unknown ids return shared.ErrNotFound.
func (r *repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.kind.Table), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// ListIDsByOwner returns the ids of entities owned by ownerID. Kinds
// without owners return nothing.
func (r *repository) ListIDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	if !r.kind.HasOwner() {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx,
		fmt.Sprintf(`SELECT id FROM %s WHERE %s = $1 ORDER BY id`, r.kind.Table, r.kind.OwnerColumn),
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
