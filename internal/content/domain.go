// Package content implements the translatable content entities (courses,
// books, units, lessons, departments, groups). Entities reference each
// other by opaque ids through the repository; there is no in-memory object
// graph. One service/handler pair is instantiated per entity kind.
package content

import (
	"errors"
	"time"

	"github.com/meridian-lms/meridian-lms/internal/rbac"
	"github.com/meridian-lms/meridian-lms/internal/translation"
)

// ErrOwnerRequired indicates a child entity was created without its owner.
var ErrOwnerRequired = errors.New("content: owner id required")

// Kind describes one translatable entity family: its storage table, its
// optional owner linkage and the permissions guarding it. All values are
// compile-time constants; table and column names never come from input.
type Kind struct {
	Name        translation.Kind
	Table       string
	OwnerColumn string
	OwnerKind   translation.Kind

	AddPerm    string
	ViewPerm   string
	EditPerm   string
	DeletePerm string
}

// HasOwner reports whether entities of this kind belong to a parent entity.
func (k Kind) HasOwner() bool {
	return k.OwnerColumn != ""
}

// The entity kinds. Units belong to courses, lessons to units.
var (
	Courses = Kind{
		Name: "course", Table: "courses",
		AddPerm: rbac.PermAddCourse, ViewPerm: rbac.PermViewCourse,
		EditPerm: rbac.PermEditCourse, DeletePerm: rbac.PermDeleteCourse,
	}
	Books = Kind{
		Name: "book", Table: "books",
		AddPerm: rbac.PermAddBook, ViewPerm: rbac.PermViewBook,
		EditPerm: rbac.PermEditBook, DeletePerm: rbac.PermDeleteBook,
	}
	Units = Kind{
		Name: "unit", Table: "units", OwnerColumn: "course_id", OwnerKind: "course",
		AddPerm: rbac.PermAddUnit, ViewPerm: rbac.PermViewUnit,
		EditPerm: rbac.PermEditUnit, DeletePerm: rbac.PermDeleteUnit,
	}
	Lessons = Kind{
		Name: "lesson", Table: "lessons", OwnerColumn: "unit_id", OwnerKind: "unit",
		AddPerm: rbac.PermAddLesson, ViewPerm: rbac.PermViewLesson,
		EditPerm: rbac.PermEditLesson, DeletePerm: rbac.PermDeleteLesson,
	}
	Departments = Kind{
		Name: "department", Table: "departments",
		AddPerm: rbac.PermAddDepartment, ViewPerm: rbac.PermViewDepartment,
		EditPerm: rbac.PermEditDepartment, DeletePerm: rbac.PermDeleteDepartment,
	}
	Groups = Kind{
		Name: "group", Table: "study_groups",
		AddPerm: rbac.PermAddGroup, ViewPerm: rbac.PermViewGroup,
		EditPerm: rbac.PermEditGroup, DeletePerm: rbac.PermDeleteGroup,
	}
)

// Entity is a parent row owning a translation set. Content lives in the
// translations; the row itself carries identity and linkage only.
type Entity struct {
	ID        int64
	OwnerID   int64
	CreatedAt time.Time
	UpdatedAt time.Time

	Translations []translation.Record
}
