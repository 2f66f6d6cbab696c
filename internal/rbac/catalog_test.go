package rbac

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meridian-lms/meridian-lms/internal/language"
)

func TestDesiredPermissionNamesSize(t *testing.T) {
	bases := []string{"Add_Course", "View_Book"}
	langs := language.All()
	catalog := NewCatalog(bases, langs)

	names := catalog.DesiredPermissionNames()
	// |base| + |langs| + |base|*|langs|
	require.Len(t, names, 2+3+6)
}

func TestDesiredPermissionNamesDeterministic(t *testing.T) {
	catalog := DefaultCatalog()
	first := catalog.DesiredPermissionNames()
	second := catalog.DesiredPermissionNames()
	require.Equal(t, first, second)
}

func TestEndToEndNameSet(t *testing.T) {
	catalog := NewCatalog([]string{"Add_Course"}, []language.Code{language.English, language.Arabic})
	names := catalog.DesiredPermissionNames()
	require.ElementsMatch(t, []string{
		"Add_Course",
		"Translate_en",
		"Translate_ar",
		"Add_Course_Translate_en",
		"Add_Course_Translate_ar",
	}, names)
}

func TestReconcileIdempotence(t *testing.T) {
	catalog := NewCatalog([]string{"Add_Course"}, []language.Code{language.English})

	first := catalog.Reconcile(nil)
	require.NotEmpty(t, first)

	// Persisting the first batch and reconciling again yields nothing.
	second := catalog.Reconcile(first)
	require.Empty(t, second)
}

func TestReconcileNeverDeletes(t *testing.T) {
	catalog := NewCatalog([]string{"Add_Course"}, []language.Code{language.English})
	existing := append(catalog.DesiredPermissionNames(), "Orphaned_Permission")
	require.Empty(t, catalog.Reconcile(existing))
}

func TestReconcilePartialExisting(t *testing.T) {
	catalog := NewCatalog([]string{"Add_Course"}, []language.Code{language.English})
	missing := catalog.Reconcile([]string{"Add_Course"})
	require.ElementsMatch(t, []string{"Translate_en", "Add_Course_Translate_en"}, missing)
}

func TestTranslatePermissionFormats(t *testing.T) {
	require.Equal(t, "Translate_ru", GlobalTranslatePermission(language.Russian))
	require.Equal(t, "View_Book_Translate_ar", ScopedTranslatePermission("View_Book", language.Arabic))
}
