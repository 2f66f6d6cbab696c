package rbac

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/meridian-lms/meridian-lms/internal/language"
)

// SeedStore is the persistence surface the seeder writes through. All
// inserts tolerate already-existing rows so that concurrently starting
// instances reconcile against stale snapshots without failing.
type SeedStore interface {
	EnsureRoles(ctx context.Context, names []RoleName) error
	ListRoles(ctx context.Context) ([]Role, error)
	ListPermissionNames(ctx context.Context) ([]string, error)
	InsertPermissions(ctx context.Context, names []string) error
	ListPermissionsByNames(ctx context.Context, names []string) ([]Permission, error)
	InsertRolePermissions(ctx context.Context, roleID int64, permissionIDs []int64) error
}

// Seeder populates roles, the permission catalog and the default
// role-permission grants. It runs once at startup, before the server
// accepts authorization-dependent requests.
type Seeder struct {
	store   SeedStore
	catalog Catalog
	logger  *slog.Logger
}

// NewSeeder constructs a Seeder.
func NewSeeder(store SeedStore, catalog Catalog, logger *slog.Logger) *Seeder {
	return &Seeder{store: store, catalog: catalog, logger: logger}
}

// Seed reconciles roles, permissions and grants. It is idempotent: a second
// run against a fully seeded store performs no inserts.
func (s *Seeder) Seed(ctx context.Context) error {
	if err := s.store.EnsureRoles(ctx, AllRoles()); err != nil {
		return fmt.Errorf("rbac: ensure roles: %w", err)
	}

	existing, err := s.store.ListPermissionNames(ctx)
	if err != nil {
		return fmt.Errorf("rbac: list permissions: %w", err)
	}
	missing := s.catalog.Reconcile(existing)
	if len(missing) > 0 {
		if err := s.store.InsertPermissions(ctx, missing); err != nil {
			return fmt.Errorf("rbac: insert permissions: %w", err)
		}
		if s.logger != nil {
			s.logger.Info("permission catalog reconciled", slog.Int("created", len(missing)))
		}
	}

	roles, err := s.store.ListRoles(ctx)
	if err != nil {
		return fmt.Errorf("rbac: list roles: %w", err)
	}
	roleIDs := make(map[RoleName]int64, len(roles))
	for _, role := range roles {
		roleIDs[role.Name] = role.ID
	}

	for role, names := range s.defaultGrants() {
		roleID, ok := roleIDs[role]
		if !ok {
			return fmt.Errorf("rbac: seeded role %q missing from storage", role)
		}
		perms, err := s.store.ListPermissionsByNames(ctx, names)
		if err != nil {
			return fmt.Errorf("rbac: resolve grants for %q: %w", role, err)
		}
		ids := make([]int64, 0, len(perms))
		for _, p := range perms {
			ids = append(ids, p.ID)
		}
		if err := s.store.InsertRolePermissions(ctx, roleID, ids); err != nil {
			return fmt.Errorf("rbac: grant %q: %w", role, err)
		}
	}
	return nil
}

// defaultGrants maps each role to the permission names it receives at seed
// time. Administrative grants beyond these go through the grant endpoint.
func (s *Seeder) defaultGrants() map[RoleName][]string {
	full := s.catalog.DesiredPermissionNames()

	var view []string
	for _, name := range []string{PermViewCourse, PermViewBook, PermViewUnit, PermViewLesson, PermViewDepartment, PermViewGroup} {
		view = append(view, name)
	}

	var managerPerms []string
	for _, name := range full {
		if name == PermAddUser || name == PermAssignRole {
			continue
		}
		managerPerms = append(managerPerms, name)
	}

	teacherPerms := append([]string(nil), view...)
	teacherPerms = append(teacherPerms, PermEditUnit, PermEditLesson)
	for _, lang := range language.All() {
		teacherPerms = append(teacherPerms,
			GlobalTranslatePermission(lang),
			ScopedTranslatePermission(PermEditUnit, lang),
			ScopedTranslatePermission(PermEditLesson, lang),
		)
	}

	return map[RoleName][]string{
		RoleSuperAdmin: full,
		RoleAdmin:      full,
		RoleManager:    managerPerms,
		RoleSupervisor: view,
		RoleTeacher:    teacherPerms,
		RoleStudent:    {PermViewCourse, PermViewBook, PermViewUnit, PermViewLesson},
		RoleUser:       {PermViewCourse, PermViewBook},
	}
}
