package rbac

import (
	"context"
	"fmt"
)

// PermissionSource supplies role→permission membership, batched over all of
// an actor's roles in one call.
type PermissionSource interface {
	ListPermissionsForRoles(ctx context.Context, roles []RoleName) ([]string, error)
}

// Evaluator answers whether an authenticated actor may perform a guarded
// action. Decisions are pure over supplied role/permission state; a plain
// "no" is a false result, not an error.
type Evaluator struct {
	source PermissionSource
}

// NewEvaluator constructs an Evaluator over the given source.
func NewEvaluator(source PermissionSource) *Evaluator {
	return &Evaluator{source: source}
}

// HasPermission reports whether any of the actor's roles is linked to the
// permission. The error return is reserved for storage failures, which are
// distinct from a negative decision.
func (e *Evaluator) HasPermission(ctx context.Context, roles []RoleName, permission string) (bool, error) {
	if len(roles) == 0 || permission == "" {
		return false, nil
	}
	granted, err := e.source.ListPermissionsForRoles(ctx, roles)
	if err != nil {
		return false, fmt.Errorf("rbac: list permissions: %w", err)
	}
	for _, name := range granted {
		if name == permission {
			return true, nil
		}
	}
	return false, nil
}

// HasAnyPermission reports whether the actor holds at least one of the
// permissions. Membership is fetched once for all candidates.
func (e *Evaluator) HasAnyPermission(ctx context.Context, roles []RoleName, permissions ...string) (bool, error) {
	if len(roles) == 0 || len(permissions) == 0 {
		return false, nil
	}
	granted, err := e.source.ListPermissionsForRoles(ctx, roles)
	if err != nil {
		return false, fmt.Errorf("rbac: list permissions: %w", err)
	}
	set := make(map[string]struct{}, len(granted))
	for _, name := range granted {
		set[name] = struct{}{}
	}
	for _, want := range permissions {
		if _, ok := set[want]; ok {
			return true, nil
		}
	}
	return false, nil
}

// CanAssignRole reports whether an actor holding the given roles may assign
// or manage the target role. The actor's highest-ranked role is compared
// against the target through the hierarchy; an empty or unrecognized role
// set manages nothing.
func (e *Evaluator) CanAssignRole(roles []RoleName, target RoleName) bool {
	highest, ok := HighestRole(roles)
	if !ok {
		return false
	}
	return CanManage(highest, target)
}
