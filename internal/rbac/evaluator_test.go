package rbac

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	grants map[RoleName][]string
	err    error
	calls  int
}

func (f *fakeSource) ListPermissionsForRoles(ctx context.Context, roles []RoleName) ([]string, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	seen := make(map[string]struct{})
	var out []string
	for _, role := range roles {
		for _, perm := range f.grants[role] {
			if _, ok := seen[perm]; ok {
				continue
			}
			seen[perm] = struct{}{}
			out = append(out, perm)
		}
	}
	return out, nil
}

func TestHasPermission(t *testing.T) {
	source := &fakeSource{grants: map[RoleName][]string{
		RoleTeacher: {"View_Course", "Edit_Lesson"},
		RoleStudent: {"View_Course"},
	}}
	eval := NewEvaluator(source)
	ctx := context.Background()

	ok, err := eval.HasPermission(ctx, []RoleName{RoleTeacher}, "Edit_Lesson")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = eval.HasPermission(ctx, []RoleName{RoleStudent}, "Edit_Lesson")
	require.NoError(t, err)
	require.False(t, ok)

	// Empty role set decides false without touching storage.
	calls := source.calls
	ok, err = eval.HasPermission(ctx, nil, "View_Course")
	require.NoError(t, err)
	require.False(t, ok)
	require.Equal(t, calls, source.calls)
}

func TestHasAnyPermissionBatchesLookup(t *testing.T) {
	source := &fakeSource{grants: map[RoleName][]string{
		RoleTeacher: {"Edit_Lesson_Translate_en"},
	}}
	eval := NewEvaluator(source)

	ok, err := eval.HasAnyPermission(context.Background(), []RoleName{RoleTeacher},
		"Translate_en", "Edit_Lesson_Translate_en")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 1, source.calls)
}

func TestHasPermissionStorageFailure(t *testing.T) {
	source := &fakeSource{err: errors.New("connection refused")}
	eval := NewEvaluator(source)

	ok, err := eval.HasPermission(context.Background(), []RoleName{RoleAdmin}, "Add_User")
	require.Error(t, err)
	require.False(t, ok)
}

func TestCanAssignRole(t *testing.T) {
	eval := NewEvaluator(&fakeSource{})

	require.True(t, eval.CanAssignRole([]RoleName{RoleAdmin}, RoleManager))
	require.False(t, eval.CanAssignRole([]RoleName{RoleAdmin}, RoleAdmin))
	require.False(t, eval.CanAssignRole([]RoleName{RoleManager}, RoleAdmin))
	require.True(t, eval.CanAssignRole([]RoleName{RoleSuperAdmin}, RoleSuperAdmin))

	// Highest-ranked role wins when the actor holds several.
	require.True(t, eval.CanAssignRole([]RoleName{RoleStudent, RoleAdmin}, RoleManager))

	// No recognized role manages nothing.
	require.False(t, eval.CanAssignRole(nil, RoleStudent))
}
