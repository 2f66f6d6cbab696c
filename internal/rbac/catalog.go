package rbac

import (
	"sort"

	"github.com/meridian-lms/meridian-lms/internal/language"
)

// Base permission names. These are the statically declared guarded actions;
// translate variants are derived from them by the catalog.
const (
	PermAddCourse    = "Add_Course"
	PermViewCourse   = "View_Course"
	PermEditCourse   = "Edit_Course"
	PermDeleteCourse = "Delete_Course"

	PermAddBook    = "Add_Book"
	PermViewBook   = "View_Book"
	PermEditBook   = "Edit_Book"
	PermDeleteBook = "Delete_Book"

	PermAddUnit    = "Add_Unit"
	PermViewUnit   = "View_Unit"
	PermEditUnit   = "Edit_Unit"
	PermDeleteUnit = "Delete_Unit"

	PermAddLesson    = "Add_Lesson"
	PermViewLesson   = "View_Lesson"
	PermEditLesson   = "Edit_Lesson"
	PermDeleteLesson = "Delete_Lesson"

	PermAddDepartment    = "Add_Department"
	PermViewDepartment   = "View_Department"
	PermEditDepartment   = "Edit_Department"
	PermDeleteDepartment = "Delete_Department"

	PermAddGroup    = "Add_Group"
	PermViewGroup   = "View_Group"
	PermEditGroup   = "Edit_Group"
	PermDeleteGroup = "Delete_Group"

	PermAddUser    = "Add_User"
	PermAssignRole = "Assign_Role"
)

// BasePermissions lists every statically declared base permission.
func BasePermissions() []string {
	return []string{
		PermAddCourse, PermViewCourse, PermEditCourse, PermDeleteCourse,
		PermAddBook, PermViewBook, PermEditBook, PermDeleteBook,
		PermAddUnit, PermViewUnit, PermEditUnit, PermDeleteUnit,
		PermAddLesson, PermViewLesson, PermEditLesson, PermDeleteLesson,
		PermAddDepartment, PermViewDepartment, PermEditDepartment, PermDeleteDepartment,
		PermAddGroup, PermViewGroup, PermEditGroup, PermDeleteGroup,
		PermAddUser, PermAssignRole,
	}
}

// GlobalTranslatePermission builds the language-wide translate permission
// name for a locale.
func GlobalTranslatePermission(code language.Code) string {
	return "Translate_" + string(code)
}

// ScopedTranslatePermission builds the per-action translate permission name.
func ScopedTranslatePermission(base string, code language.Code) string {
	return base + "_Translate_" + string(code)
}

// Catalog derives the full desired permission-name set from a base list
// crossed with the supported languages. It is a pure value; reconciliation
// against storage happens through Reconcile.
type Catalog struct {
	bases []string
	langs []language.Code
}

// NewCatalog builds a catalog over the given base permissions and locales.
func NewCatalog(bases []string, langs []language.Code) Catalog {
	return Catalog{
		bases: append([]string(nil), bases...),
		langs: append([]language.Code(nil), langs...),
	}
}

// DefaultCatalog covers the static base-permission list and every supported
// language.
func DefaultCatalog() Catalog {
	return NewCatalog(BasePermissions(), language.All())
}

// GlobalTranslatePermissions returns Translate_<lang> for every language.
func (c Catalog) GlobalTranslatePermissions() []string {
	out := make([]string, 0, len(c.langs))
	for _, lang := range c.langs {
		out = append(out, GlobalTranslatePermission(lang))
	}
	return out
}

// ScopedTranslatePermissions returns <base>_Translate_<lang> for every
// base/language pair.
func (c Catalog) ScopedTranslatePermissions() []string {
	out := make([]string, 0, len(c.bases)*len(c.langs))
	for _, base := range c.bases {
		for _, lang := range c.langs {
			out = append(out, ScopedTranslatePermission(base, lang))
		}
	}
	return out
}

// DesiredPermissionNames returns the union of base, global translate and
// scoped translate names, sorted for determinism.
func (c Catalog) DesiredPermissionNames() []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(names []string) {
		for _, name := range names {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			out = append(out, name)
		}
	}
	add(c.bases)
	add(c.GlobalTranslatePermissions())
	add(c.ScopedTranslatePermissions())
	sort.Strings(out)
	return out
}

// Reconcile returns the desired names missing from existing. Growth is
// forward-only: names present in storage but absent from the catalog are
// left alone, never deleted.
func (c Catalog) Reconcile(existing []string) []string {
	have := make(map[string]struct{}, len(existing))
	for _, name := range existing {
		have[name] = struct{}{}
	}
	var missing []string
	for _, name := range c.DesiredPermissionNames() {
		if _, ok := have[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}
