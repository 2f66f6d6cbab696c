package translation_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/meridian-lms/meridian-lms/internal/language"
	"github.com/meridian-lms/meridian-lms/internal/translation"
	"github.com/meridian-lms/meridian-lms/internal/translation/translationtest"
)

const kindCourse translation.Kind = "course"

func TestCreateRejectsInvalidLanguage(t *testing.T) {
	m := translation.NewManager(translationtest.NewStore())

	_, err := m.Create(context.Background(), kindCourse, 1, language.Code("fr"), translation.Fields{Name: "Cours"})
	require.ErrorIs(t, err, language.ErrInvalidLanguage)
}

func TestCreateDuplicateLanguageConflicts(t *testing.T) {
	m := translation.NewManager(translationtest.NewStore())
	ctx := context.Background()

	_, err := m.Create(ctx, kindCourse, 1, language.English, translation.Fields{Name: "Algebra"})
	require.NoError(t, err)

	_, err = m.Create(ctx, kindCourse, 1, language.English, translation.Fields{Name: "Algebra II"})
	require.ErrorIs(t, err, translation.ErrConflict)

	// The same language under a different parent is fine.
	_, err = m.Create(ctx, kindCourse, 2, language.English, translation.Fields{Name: "Geometry"})
	require.NoError(t, err)
}

func TestReadAllCompleteProjection(t *testing.T) {
	m := translation.NewManager(translationtest.NewStore())
	ctx := context.Background()

	created, err := m.Create(ctx, kindCourse, 1, language.English, translation.Fields{Name: "Algebra", Description: "Numbers"})
	require.NoError(t, err)

	records, err := m.ReadAll(ctx, kindCourse, 1)
	require.NoError(t, err)
	require.Len(t, records, 3)

	require.Equal(t, language.English, records[0].Language)
	require.Equal(t, created.ID, records[0].ID)
	require.Equal(t, "Algebra", records[0].Name)

	require.Equal(t, language.Arabic, records[1].Language)
	require.True(t, records[1].IsPlaceholder())
	require.Empty(t, records[1].Name)
	require.Empty(t, records[1].Description)

	require.Equal(t, language.Russian, records[2].Language)
	require.True(t, records[2].IsPlaceholder())
}

func TestReadAllEmptyParentIsAllPlaceholders(t *testing.T) {
	m := translation.NewManager(translationtest.NewStore())

	records, err := m.ReadAll(context.Background(), kindCourse, 99)
	require.NoError(t, err)
	require.Len(t, records, 3)
	for _, rec := range records {
		require.True(t, rec.IsPlaceholder())
	}
}

func TestUpdateRoundTrip(t *testing.T) {
	m := translation.NewManager(translationtest.NewStore())
	ctx := context.Background()

	en, err := m.Create(ctx, kindCourse, 1, language.English, translation.Fields{Name: "Algebra"})
	require.NoError(t, err)
	ar, err := m.Create(ctx, kindCourse, 1, language.Arabic, translation.Fields{Name: "الجبر"})
	require.NoError(t, err)

	_, err = m.Update(ctx, kindCourse, en.ID, nil, translation.Fields{Name: "Linear Algebra", Description: "Vectors"})
	require.NoError(t, err)

	records, err := m.ReadAll(ctx, kindCourse, 1)
	require.NoError(t, err)
	require.Equal(t, "Linear Algebra", records[0].Name)
	require.Equal(t, "Vectors", records[0].Description)

	// Sibling language untouched.
	require.Equal(t, ar.ID, records[1].ID)
	require.Equal(t, "الجبر", records[1].Name)
}

func TestUpdateUnknownID(t *testing.T) {
	m := translation.NewManager(translationtest.NewStore())

	_, err := m.Update(context.Background(), kindCourse, uuid.New(), nil, translation.Fields{})
	require.ErrorIs(t, err, translation.ErrNotFound)
}

func TestUpdateLanguageMoveCollides(t *testing.T) {
	m := translation.NewManager(translationtest.NewStore())
	ctx := context.Background()

	en, err := m.Create(ctx, kindCourse, 1, language.English, translation.Fields{Name: "Algebra"})
	require.NoError(t, err)
	_, err = m.Create(ctx, kindCourse, 1, language.Arabic, translation.Fields{Name: "الجبر"})
	require.NoError(t, err)

	ar := language.Arabic
	_, err = m.Update(ctx, kindCourse, en.ID, &ar, translation.Fields{Name: "Algebra"})
	require.ErrorIs(t, err, translation.ErrConflict)

	// Moving to a free language succeeds.
	ru := language.Russian
	moved, err := m.Update(ctx, kindCourse, en.ID, &ru, translation.Fields{Name: "Алгебра"})
	require.NoError(t, err)
	require.Equal(t, language.Russian, moved.Language)
}

func TestDeleteUnknownID(t *testing.T) {
	m := translation.NewManager(translationtest.NewStore())
	require.ErrorIs(t, m.Delete(context.Background(), kindCourse, uuid.New()), translation.ErrNotFound)
}

func TestDeleteAllForParent(t *testing.T) {
	m := translation.NewManager(translationtest.NewStore())
	ctx := context.Background()

	_, err := m.Create(ctx, kindCourse, 1, language.English, translation.Fields{Name: "Algebra"})
	require.NoError(t, err)
	_, err = m.Create(ctx, kindCourse, 1, language.Russian, translation.Fields{Name: "Алгебра"})
	require.NoError(t, err)

	require.NoError(t, m.DeleteAllForParent(ctx, kindCourse, 1))

	records, err := m.ReadAll(ctx, kindCourse, 1)
	require.NoError(t, err)
	for _, rec := range records {
		require.True(t, rec.IsPlaceholder())
	}
}

func TestKindsDoNotLeakAcrossEntities(t *testing.T) {
	m := translation.NewManager(translationtest.NewStore())
	ctx := context.Background()

	_, err := m.Create(ctx, translation.Kind("course"), 1, language.English, translation.Fields{Name: "Algebra"})
	require.NoError(t, err)

	// Same parent id under another kind is an independent translation set.
	_, err = m.Create(ctx, translation.Kind("book"), 1, language.English, translation.Fields{Name: "Algebra Textbook"})
	require.NoError(t, err)

	records, err := m.ReadAll(ctx, translation.Kind("book"), 1)
	require.NoError(t, err)
	require.Equal(t, "Algebra Textbook", records[0].Name)
}
