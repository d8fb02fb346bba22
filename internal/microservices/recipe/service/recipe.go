package service

import (
	"context"
	"fmt"

	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/recipe/repository"
)

type RecipeServiceInterface interface {
	GetAll(ctx context.Context) ([]domain.Recipe, error)
	GetByID(ctx context.Context, id int64) (domain.Recipe, error)
	GetByFoodID(ctx context.Context, foodID int64) (domain.Recipe, bool, error)
	Save(ctx context.Context, in domain.RecipeInput) (domain.Recipe, error)
	Delete(ctx context.Context, id int64) error
	IsIngredientUsedInRecipes(ctx context.Context, ingredientID int64) (bool, error)
}

type RecipeService struct {
	db repository.RecipeRepositoryInterface
	lg *logger.Logger
}

func NewRecipeService(db repository.RecipeRepositoryInterface) RecipeServiceInterface {
	return &RecipeService{db: db, lg: logger.New("recipes")}
}

func (s *RecipeService) GetAll(ctx context.Context) ([]domain.Recipe, error) {
	return s.db.GetAll(ctx)
}

func (s *RecipeService) GetByID(ctx context.Context, id int64) (domain.Recipe, error) {
	return s.db.GetByID(ctx, id)
}

func (s *RecipeService) GetByFoodID(ctx context.Context, foodID int64) (domain.Recipe, bool, error) {
	return s.db.GetByFoodID(ctx, foodID)
}

func (s *RecipeService) Save(ctx context.Context, in domain.RecipeInput) (domain.Recipe, error) {
	if in.FoodID <= 0 {
		return domain.Recipe{}, domain.ErrNoFoodSelected
	}
	if len(in.Ingredients) == 0 {
		return domain.Recipe{}, domain.ErrNoIngredients
	}

	r := domain.Recipe{ID: in.ID, FoodID: in.FoodID, Ingredients: make([]domain.RecipeIngredient, 0, len(in.Ingredients))}
	seen := make(map[int64]struct{}, len(in.Ingredients))
	for _, line := range in.Ingredients {
		if line.IngredientID <= 0 {
			return domain.Recipe{}, fmt.Errorf("%w: ingredient id is required", domain.ErrInvalidInput)
		}
		if line.Amount <= 0 {
			return domain.Recipe{}, fmt.Errorf("%w: ingredient %d", domain.ErrInvalidAmount, line.IngredientID)
		}
		if _, dup := seen[line.IngredientID]; dup {
			return domain.Recipe{}, fmt.Errorf("%w: ingredient %d listed twice", domain.ErrInvalidInput, line.IngredientID)
		}
		seen[line.IngredientID] = struct{}{}
		r.Ingredients = append(r.Ingredients, domain.RecipeIngredient{IngredientID: line.IngredientID, Amount: line.Amount})
	}

	saved, err := s.db.Save(ctx, r)
	if err != nil {
		return domain.Recipe{}, err
	}
	s.lg.Info("recipe_saved", map[string]any{"recipe_id": saved.ID, "food_id": saved.FoodID, "ingredients": len(saved.Ingredients)})
	return saved, nil
}

func (s *RecipeService) Delete(ctx context.Context, id int64) error {
	if err := s.db.Delete(ctx, id); err != nil {
		return err
	}
	s.lg.Info("recipe_deleted", map[string]any{"recipe_id": id})
	return nil
}

// IsIngredientUsedInRecipes scans every recipe's ingredient list.
func (s *RecipeService) IsIngredientUsedInRecipes(ctx context.Context, ingredientID int64) (bool, error) {
	recipes, err := s.db.GetAll(ctx)
	if err != nil {
		return false, err
	}
	for _, r := range recipes {
		if r.Uses(ingredientID) {
			return true, nil
		}
	}
	return false, nil
}
