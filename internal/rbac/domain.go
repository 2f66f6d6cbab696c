// Package rbac implements the role and permission model: the closed role
// hierarchy, the generated permission catalog, the authorization evaluator
// consulted before guarded operations, and the startup seeder.
package rbac

import (
	"errors"
	"time"
)

// RoleName identifies a role from the closed set. Raw strings are validated
// once at the boundary via ParseRole and never re-parsed downstream.
type RoleName string

// The closed set of roles.
const (
	RoleSuperAdmin RoleName = "SuperAdmin"
	RoleAdmin      RoleName = "Admin"
	RoleManager    RoleName = "Manager"
	RoleUser       RoleName = "User"
	RoleSupervisor RoleName = "Supervisor"
	RoleTeacher    RoleName = "Teacher"
	RoleStudent    RoleName = "Student"
)

// ErrUnknownRole indicates a role name outside the closed set.
var ErrUnknownRole = errors.New("rbac: unknown role")

// Role represents a persisted role. Roles are reference data created at seed
// time and never deleted in normal operation.
type Role struct {
	ID        int64
	Name      RoleName
	CreatedAt time.Time
}

// Permission represents an atomic capability. Names are generated by the
// catalog, never freely authored.
type Permission struct {
	ID   int64
	Name string
}

// RolePermission ties a permission to a role; the pair is unique.
type RolePermission struct {
	RoleID       int64
	PermissionID int64
	CreatedAt    time.Time
}

// AllRoles returns every role name in rank order, flat tier last.
func AllRoles() []RoleName {
	return []RoleName{
		RoleSuperAdmin,
		RoleAdmin,
		RoleManager,
		RoleUser,
		RoleSupervisor,
		RoleTeacher,
		RoleStudent,
	}
}

// ParseRole validates a raw role name against the closed set.
func ParseRole(raw string) (RoleName, error) {
	for _, r := range AllRoles() {
		if string(r) == raw {
			return r, nil
		}
	}
	return "", ErrUnknownRole
}

// ParseRoles converts raw role names, silently dropping unrecognized ones.
// An actor whose claims contain no recognized role ends up with an empty
// set and fails every hierarchy check.
func ParseRoles(raw []string) []RoleName {
	roles := make([]RoleName, 0, len(raw))
	for _, r := range raw {
		role, err := ParseRole(r)
		if err != nil {
			continue
		}
		roles = append(roles, role)
	}
	return roles
}
