package models_test

import (
	"testing"

	"rental_showcase/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestRepresentative(t *testing.T) {
	a := models.MediaItem{ID: uuid.New(), URL: "/objects/a", DisplayOrder: 0}
	b := models.MediaItem{ID: uuid.New(), URL: "/objects/b", DisplayOrder: 1, IsPrimary: true}
	c := models.MediaItem{ID: uuid.New(), URL: "/objects/c", DisplayOrder: 2}

	t.Run("primary wins over order", func(t *testing.T) {
		got := models.Representative([]models.MediaItem{a, b, c})
		assert.Equal(t, b.ID, got.ID)
	})

	t.Run("first item when no primary", func(t *testing.T) {
		got := models.Representative([]models.MediaItem{a, c})
		assert.Equal(t, a.ID, got.ID)
	})

	t.Run("placeholder for empty set", func(t *testing.T) {
		got := models.Representative(nil)
		assert.True(t, got.IsZero())
		assert.Equal(t, models.PlaceholderURL, got.URL)
	})
}

func TestParentValidate(t *testing.T) {
	tests := []struct {
		name    string
		parent  models.Parent
		wantErr bool
	}{
		{"property with id", models.PropertyParent(uuid.New()), false},
		{"unit with id", models.UnitParent(uuid.New()), false},
		{"hero", models.HeroParent(), false},
		{"property without id", models.PropertyParent(uuid.Nil), true},
		{"hero with id", models.Parent{Kind: models.ParentHero, ID: uuid.New()}, true},
		{"unknown kind", models.Parent{Kind: "garage", ID: uuid.New()}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.parent.Validate()
			if tt.wantErr {
				assert.True(t, models.IsValidationError(err))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPlanReplacement(t *testing.T) {
	parentID := uuid.New()

	t.Run("defaults primary to first item", func(t *testing.T) {
		items, err := models.PlanReplacement(parentID, []models.ImageInput{
			{URL: "/objects/1"}, {URL: "/objects/2"}, {URL: "/objects/3"},
		})
		require.NoError(t, err)
		require.Len(t, items, 3)

		assert.True(t, items[0].IsPrimary)
		assert.Equal(t, 1, models.CountPrimary(items))
		for i, item := range items {
			assert.Equal(t, i, item.DisplayOrder)
			assert.Equal(t, parentID, item.ParentID)
			assert.NotEqual(t, uuid.Nil, item.ID)
		}
	})

	t.Run("keeps flagged primary", func(t *testing.T) {
		items, err := models.PlanReplacement(parentID, []models.ImageInput{
			{URL: "/objects/1"}, {URL: "/objects/2", IsPrimary: true},
		})
		require.NoError(t, err)

		assert.False(t, items[0].IsPrimary)
		assert.True(t, items[1].IsPrimary)
	})

	t.Run("rejects several primaries", func(t *testing.T) {
		_, err := models.PlanReplacement(parentID, []models.ImageInput{
			{URL: "/objects/1", IsPrimary: true}, {URL: "/objects/2", IsPrimary: true},
		})
		require.Error(t, err)

		var verr *models.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "images[1].is_primary")
	})

	t.Run("empty set has no primary", func(t *testing.T) {
		items, err := models.PlanReplacement(parentID, nil)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("rejects empty url and trims caption", func(t *testing.T) {
		_, err := models.PlanReplacement(parentID, []models.ImageInput{{URL: " "}})
		assert.True(t, models.IsValidationError(err))

		items, err := models.PlanReplacement(parentID, []models.ImageInput{
			{URL: "/objects/1", Caption: strPtr("  porch  ")},
			{URL: "/objects/2", Caption: strPtr("   ")},
		})
		require.NoError(t, err)
		require.NotNil(t, items[0].Caption)
		assert.Equal(t, "porch", *items[0].Caption)
		assert.Nil(t, items[1].Caption)
	})
}

func TestPlanAppend(t *testing.T) {
	parentID := uuid.New()

	t.Run("first upload becomes primary", func(t *testing.T) {
		items, err := models.PlanAppend(parentID, nil, []models.ImageInput{
			{URL: "/objects/1"}, {URL: "/objects/2"},
		})
		require.NoError(t, err)

		assert.True(t, items[0].IsPrimary)
		assert.False(t, items[1].IsPrimary)
		assert.Equal(t, 0, items[0].DisplayOrder)
		assert.Equal(t, 1, items[1].DisplayOrder)
	})

	t.Run("appends after the highest order", func(t *testing.T) {
		existing := []models.MediaItem{
			{ID: uuid.New(), DisplayOrder: 0, IsPrimary: true},
			{ID: uuid.New(), DisplayOrder: 4},
		}

		items, err := models.PlanAppend(parentID, existing, []models.ImageInput{
			{URL: "/objects/1", IsPrimary: true}, {URL: "/objects/2"},
		})
		require.NoError(t, err)

		assert.Equal(t, 5, items[0].DisplayOrder)
		assert.Equal(t, 6, items[1].DisplayOrder)
		assert.Zero(t, models.CountPrimary(items))
	})
}

func TestValidateReorder(t *testing.T) {
	current := []models.MediaItem{{ID: uuid.New()}, {ID: uuid.New()}, {ID: uuid.New()}}

	t.Run("permutation accepted", func(t *testing.T) {
		unknown, err := models.ValidateReorder(current, []uuid.UUID{current[2].ID, current[0].ID, current[1].ID})
		assert.NoError(t, err)
		assert.Equal(t, uuid.Nil, unknown)
	})

	t.Run("foreign id reported", func(t *testing.T) {
		foreign := uuid.New()
		unknown, err := models.ValidateReorder(current, []uuid.UUID{current[0].ID, foreign, current[1].ID})
		assert.NoError(t, err)
		assert.Equal(t, foreign, unknown)
	})

	t.Run("duplicate id rejected", func(t *testing.T) {
		_, err := models.ValidateReorder(current, []uuid.UUID{current[0].ID, current[0].ID, current[1].ID})
		assert.True(t, models.IsValidationError(err))
	})

	t.Run("missing id rejected", func(t *testing.T) {
		_, err := models.ValidateReorder(current, []uuid.UUID{current[0].ID, current[1].ID})
		assert.True(t, models.IsValidationError(err))
	})
}
