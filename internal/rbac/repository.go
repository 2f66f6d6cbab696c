package rbac

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-lms/meridian-lms/internal/platform/db"
)

// Repository provides PostgreSQL backed persistence for roles, permissions
// and role-permission grants. It implements PermissionSource and SeedStore.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureRoles inserts any missing roles. Existing names are left untouched.
func (r *Repository) EnsureRoles(ctx context.Context, names []RoleName) error {
	for _, name := range names {
		if _, err := r.pool.Exec(ctx,
			`INSERT INTO roles (name, created_at) VALUES ($1, NOW()) ON CONFLICT (name) DO NOTHING`,
			string(name)); err != nil {
			return err
		}
	}
	return nil
}

// ListRoles returns all roles.
func (r *Repository) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM roles ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var roles []Role
	for rows.Next() {
		var role Role
		var name string
		if err := rows.Scan(&role.ID, &name, &role.CreatedAt); err != nil {
			return nil, err
		}
		role.Name = RoleName(name)
		roles = append(roles, role)
	}
	return roles, rows.Err()
}

// FindRoleByName fetches a single role.
func (r *Repository) FindRoleByName(ctx context.Context, name RoleName) (Role, error) {
	var role Role
	var raw string
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, created_at FROM roles WHERE name = $1`, string(name)).
		Scan(&role.ID, &raw, &role.CreatedAt)
	if err != nil {
		return Role{}, err
	}
	role.Name = RoleName(raw)
	return role, nil
}

// ListPermissionNames returns every persisted permission name.
func (r *Repository) ListPermissionNames(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT name FROM permissions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListPermissions returns all permissions ordered by name.
func (r *Repository) ListPermissions(ctx context.Context) ([]Permission, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name FROM permissions ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// InsertPermissions persists new permission names. Concurrent seeders may
// race on the same names; the unique constraint plus DO NOTHING makes the
// insert idempotent.
func (r *Repository) InsertPermissions(ctx context.Context, names []string) error {
	for _, name := range names {
		if _, err := r.pool.Exec(ctx,
			`INSERT INTO permissions (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`,
			name); err != nil {
			return err
		}
	}
	return nil
}

// ListPermissionsByNames resolves permission rows for the given names.
func (r *Repository) ListPermissionsByNames(ctx context.Context, names []string) ([]Permission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name FROM permissions WHERE name = ANY($1) ORDER BY name`, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		var p Permission
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	return perms, rows.Err()
}

// InsertRolePermissions grants permissions to a role. The batch runs inside
// a single transaction so a grant either applies fully or not at all, and
// duplicate pairs are ignored so the seeder and the grant endpoint stay
// idempotent.
func (r *Repository) InsertRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		for _, permID := range permissionIDs {
			if _, err := tx.Exec(ctx,
				`INSERT INTO role_permissions (role_id, permission_id, created_at) VALUES ($1, $2, NOW())
				 ON CONFLICT (role_id, permission_id) DO NOTHING`,
				roleID, permID); err != nil {
				return err
			}
		}
		return nil
	})
}

// ListRolePermissions returns the permission names granted to a role.
func (r *Repository) ListRolePermissions(ctx context.Context, roleID int64) ([]string, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT p.name
		   FROM role_permissions rp
		   JOIN permissions p ON p.id = rp.permission_id
		  WHERE rp.role_id = $1
		  ORDER BY p.name`, roleID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// ListPermissionsForRoles returns deduplicated permission names granted to
// any of the given roles, in a single query.
func (r *Repository) ListPermissionsForRoles(ctx context.Context, roles []RoleName) ([]string, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT p.name
		   FROM roles r
		   JOIN role_permissions rp ON rp.role_id = r.id
		   JOIN permissions p ON p.id = rp.permission_id
		  WHERE r.name = ANY($1)`, names)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var perms []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		perms = append(perms, name)
	}
	return perms, rows.Err()
}
