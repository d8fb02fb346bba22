package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-system/internal/domain"
)

type memRecipes struct {
	nextID int64
	rows   []domain.Recipe
	saved  domain.Recipe
}

func (m *memRecipes) GetAll(context.Context) ([]domain.Recipe, error) { return m.rows, nil }

func (m *memRecipes) GetByID(_ context.Context, id int64) (domain.Recipe, error) {
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.Recipe{}, domain.ErrRecipeNotFound
}

func (m *memRecipes) GetByFoodID(_ context.Context, foodID int64) (domain.Recipe, bool, error) {
	for _, r := range m.rows {
		if r.FoodID == foodID {
			return r, true, nil
		}
	}
	return domain.Recipe{}, false, nil
}

func (m *memRecipes) Save(_ context.Context, r domain.Recipe) (domain.Recipe, error) {
	m.nextID++
	r.ID = m.nextID
	for i := range r.Ingredients {
		r.Ingredients[i].RecipeID = r.ID
	}
	m.saved = r
	m.rows = append(m.rows, r)
	return r, nil
}

func (m *memRecipes) Delete(context.Context, int64) error { return nil }

func TestSaveRecipeValidation(t *testing.T) {
	tests := []struct {
		name string
		in   domain.RecipeInput
		want error
	}{
		{"no food", domain.RecipeInput{Ingredients: []domain.RecipeIngredientInput{{IngredientID: 1, Amount: 1}}}, domain.ErrNoFoodSelected},
		{"no ingredients", domain.RecipeInput{FoodID: 1}, domain.ErrNoIngredients},
		{"zero amount", domain.RecipeInput{FoodID: 1, Ingredients: []domain.RecipeIngredientInput{{IngredientID: 1, Amount: 0}}}, domain.ErrInvalidAmount},
		{"missing ingredient id", domain.RecipeInput{FoodID: 1, Ingredients: []domain.RecipeIngredientInput{{Amount: 2}}}, domain.ErrInvalidInput},
		{"duplicate ingredient", domain.RecipeInput{FoodID: 1, Ingredients: []domain.RecipeIngredientInput{{IngredientID: 1, Amount: 2}, {IngredientID: 1, Amount: 3}}}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &memRecipes{}
			_, err := NewRecipeService(repo).Save(context.Background(), tt.in)
			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, repo.rows)
		})
	}
}

func TestSaveRecipeKeepsLineOrder(t *testing.T) {
	repo := &memRecipes{}
	saved, err := NewRecipeService(repo).Save(context.Background(), domain.RecipeInput{
		FoodID: 3,
		Ingredients: []domain.RecipeIngredientInput{
			{IngredientID: 9, Amount: 30},
			{IngredientID: 2, Amount: 0.5},
		},
	})
	require.NoError(t, err)
	require.Len(t, saved.Ingredients, 2)
	assert.Equal(t, int64(9), saved.Ingredients[0].IngredientID)
	assert.Equal(t, int64(2), saved.Ingredients[1].IngredientID)
	for _, ri := range saved.Ingredients {
		assert.Equal(t, saved.ID, ri.RecipeID)
	}
}

func TestIsIngredientUsedInRecipes(t *testing.T) {
	repo := &memRecipes{rows: []domain.Recipe{
		{ID: 1, FoodID: 1, Ingredients: []domain.RecipeIngredient{{IngredientID: 10}, {IngredientID: 11}}},
		{ID: 2, FoodID: 2, Ingredients: []domain.RecipeIngredient{{IngredientID: 12}}},
	}}
	svc := NewRecipeService(repo)

	for id, want := range map[int64]bool{10: true, 11: true, 12: true, 13: false} {
		used, err := svc.IsIngredientUsedInRecipes(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, used, "ingredient %d", id)
	}
}
