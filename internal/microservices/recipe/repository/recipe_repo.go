package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-system/internal/connections/database"
	"restaurant-system/internal/domain"
)

type RecipeRepositoryInterface interface {
	GetAll(ctx context.Context) ([]domain.Recipe, error)
	GetByID(ctx context.Context, id int64) (domain.Recipe, error)
	GetByFoodID(ctx context.Context, foodID int64) (domain.Recipe, bool, error)
	Save(ctx context.Context, r domain.Recipe) (domain.Recipe, error)
	Delete(ctx context.Context, id int64) error
}

type RecipeRepository struct {
	db *pgxpool.Pool
}

func NewRecipeRepository(db *pgxpool.Pool) RecipeRepositoryInterface {
	return &RecipeRepository{db: db}
}

const recipeSelect = `
	SELECT r.id, r.food_id, f.name
	FROM recipes r JOIN foods f ON f.id = r.food_id`

const recipeIngredientSelect = `
	SELECT ri.id, ri.recipe_id, ri.ingredient_id, i.name, ri.amount
	FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id`

// load fills in the ingredient lines of recipes, keeping their saved order.
func load(ctx context.Context, q database.Querier, recipes []domain.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	ids := make([]int64, len(recipes))
	byID := make(map[int64]*domain.Recipe, len(recipes))
	for i := range recipes {
		ids[i] = recipes[i].ID
		recipes[i].Ingredients = []domain.RecipeIngredient{}
		byID[recipes[i].ID] = &recipes[i]
	}

	rows, err := q.Query(ctx, recipeIngredientSelect+` WHERE ri.recipe_id = ANY($1) ORDER BY ri.recipe_id, ri.position, ri.id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var ri domain.RecipeIngredient
		if err := rows.Scan(&ri.ID, &ri.RecipeID, &ri.IngredientID, &ri.IngredientName, &ri.Amount); err != nil {
			return err
		}
		r := byID[ri.RecipeID]
		r.Ingredients = append(r.Ingredients, ri)
	}
	return rows.Err()
}

func find(ctx context.Context, q database.Querier, where string, args ...any) ([]domain.Recipe, error) {
	rows, err := q.Query(ctx, recipeSelect+where, args...)
	if err != nil {
		return nil, err
	}
	recipes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Recipe, error) {
		var r domain.Recipe
		err := row.Scan(&r.ID, &r.FoodID, &r.FoodName)
		return r, err
	})
	if err != nil {
		return nil, err
	}
	if err := load(ctx, q, recipes); err != nil {
		return nil, err
	}
	return recipes, nil
}

// FindByFood looks the recipe up through q, which may be an open
// transaction. ok is false when the food has no recipe.
func FindByFood(ctx context.Context, q database.Querier, foodID int64) (r domain.Recipe, ok bool, err error) {
	out, err := find(ctx, q, ` WHERE r.food_id = $1`, foodID)
	if err != nil || len(out) == 0 {
		return domain.Recipe{}, false, err
	}
	return out[0], true, nil
}

func (rr *RecipeRepository) GetAll(ctx context.Context) ([]domain.Recipe, error) {
	out, err := find(ctx, rr.db, ` ORDER BY r.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list recipes: %w", err)
	}
	return out, nil
}

func (rr *RecipeRepository) GetByID(ctx context.Context, id int64) (domain.Recipe, error) {
	out, err := find(ctx, rr.db, ` WHERE r.id = $1`, id)
	if err != nil {
		return domain.Recipe{}, fmt.Errorf("failed to get recipe %d: %w", id, err)
	}
	if len(out) == 0 {
		return domain.Recipe{}, domain.ErrRecipeNotFound
	}
	return out[0], nil
}

func (rr *RecipeRepository) GetByFoodID(ctx context.Context, foodID int64) (domain.Recipe, bool, error) {
	r, ok, err := FindByFood(ctx, rr.db, foodID)
	if err != nil {
		return domain.Recipe{}, false, fmt.Errorf("failed to get recipe of food %d: %w", foodID, err)
	}
	return r, ok, nil
}

// Save writes the recipe and replaces its ingredient lines in one
// transaction. Every line is re-parented to the saved recipe id. A recipe
// without an id is matched to an existing one by food, so a food never has
// two recipes.
func (rr *RecipeRepository) Save(ctx context.Context, r domain.Recipe) (domain.Recipe, error) {
	var saved domain.Recipe
	err := database.WithTx(ctx, rr.db, func(tx pgx.Tx) error {
		var id int64
		var err error
		if r.ID != 0 {
			err = tx.QueryRow(ctx, `UPDATE recipes SET food_id = $2 WHERE id = $1 RETURNING id`, r.ID, r.FoodID).Scan(&id)
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecipeNotFound
			}
		} else {
			err = tx.QueryRow(ctx, `
				INSERT INTO recipes (food_id) VALUES ($1)
				ON CONFLICT (food_id) DO UPDATE SET food_id = EXCLUDED.food_id
				RETURNING id`, r.FoodID).Scan(&id)
		}
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id = $1`, id); err != nil {
			return err
		}
		for pos, ri := range r.Ingredients {
			if _, err := tx.Exec(ctx, `
				INSERT INTO recipe_ingredients (recipe_id, ingredient_id, amount, position)
				VALUES ($1, $2, $3, $4)`, id, ri.IngredientID, ri.Amount, pos); err != nil {
				return err
			}
		}

		recipes := []domain.Recipe{{ID: id, FoodID: r.FoodID}}
		if err := tx.QueryRow(ctx, `SELECT name FROM foods WHERE id = $1`, r.FoodID).Scan(&recipes[0].FoodName); err != nil {
			return err
		}
		if err := load(ctx, tx, recipes); err != nil {
			return err
		}
		saved = recipes[0]
		return nil
	})
	switch {
	case errors.Is(err, domain.ErrRecipeNotFound):
		return domain.Recipe{}, err
	case database.IsForeignKeyViolation(err):
		return domain.Recipe{}, fmt.Errorf("%w: unknown food or ingredient", domain.ErrInvalidInput)
	case database.IsUniqueViolation(err):
		return domain.Recipe{}, fmt.Errorf("%w: food already has a recipe", domain.ErrInvalidInput)
	case err != nil:
		return domain.Recipe{}, fmt.Errorf("failed to save recipe: %w", err)
	}
	return saved, nil
}

func (rr *RecipeRepository) Delete(ctx context.Context, id int64) error {
	tag, err := rr.db.Exec(ctx, `DELETE FROM recipes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete recipe %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrRecipeNotFound
	}
	return nil
}
