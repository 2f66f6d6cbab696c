package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRank(t *testing.T) {
	cases := []struct {
		role RoleName
		want int
	}{
		{RoleSuperAdmin, 0},
		{RoleAdmin, 1},
		{RoleManager, 2},
		{RoleUser, 3},
		{RoleSupervisor, 3},
		{RoleTeacher, 3},
		{RoleStudent, 3},
	}
	for _, tc := range cases {
		got, err := Rank(tc.role)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "role %s", tc.role)
	}

	_, err := Rank(RoleName("Wizard"))
	require.ErrorIs(t, err, ErrUnknownRole)
}

func TestCanManage(t *testing.T) {
	cases := []struct {
		actor, target RoleName
		want          bool
	}{
		{RoleAdmin, RoleManager, true},
		{RoleAdmin, RoleTeacher, true},
		{RoleAdmin, RoleAdmin, false},
		{RoleAdmin, RoleSuperAdmin, false},
		{RoleManager, RoleAdmin, false},
		{RoleManager, RoleManager, false},
		{RoleManager, RoleStudent, true},
		{RoleSuperAdmin, RoleSuperAdmin, true},
		{RoleSuperAdmin, RoleAdmin, true},
		{RoleSuperAdmin, RoleStudent, true},
		{RoleTeacher, RoleStudent, false},
		{RoleStudent, RoleStudent, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, CanManage(tc.actor, tc.target),
			"%s manages %s", tc.actor, tc.target)
	}
}

func TestCanManageUnknownActor(t *testing.T) {
	for _, target := range AllRoles() {
		require.False(t, CanManage(RoleName("Nobody"), target))
	}
	require.False(t, CanManage(RoleAdmin, RoleName("Nobody")))
}

func TestHighestRole(t *testing.T) {
	role, ok := HighestRole([]RoleName{RoleTeacher, RoleManager, RoleStudent})
	require.True(t, ok)
	require.Equal(t, RoleManager, role)

	role, ok = HighestRole([]RoleName{RoleSuperAdmin, RoleAdmin})
	require.True(t, ok)
	require.Equal(t, RoleSuperAdmin, role)

	_, ok = HighestRole(nil)
	require.False(t, ok)

	_, ok = HighestRole([]RoleName{RoleName("Wizard")})
	require.False(t, ok)
}

func TestParseRoles(t *testing.T) {
	roles := ParseRoles([]string{"Admin", "Wizard", "Teacher", ""})
	require.Equal(t, []RoleName{RoleAdmin, RoleTeacher}, roles)
}
