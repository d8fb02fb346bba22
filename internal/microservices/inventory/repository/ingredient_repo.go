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

type IngredientRepositoryInterface interface {
	GetAll(ctx context.Context) ([]domain.Ingredient, error)
	GetByID(ctx context.Context, id int64) (domain.Ingredient, error)
	Create(ctx context.Context, ing domain.Ingredient) (domain.Ingredient, error)
	// Update writes name and unit; nil stock or threshold keeps the stored value.
	Update(ctx context.Context, id int64, in domain.IngredientInput) (domain.Ingredient, error)
	SetStock(ctx context.Context, id int64, stock float64) (domain.Ingredient, error)
	Delete(ctx context.Context, id int64) error
	LowStock(ctx context.Context) ([]domain.Ingredient, error)
	Stats(ctx context.Context) (domain.StockStats, error)
}

type IngredientRepository struct {
	db *pgxpool.Pool
}

func NewIngredientRepository(db *pgxpool.Pool) IngredientRepositoryInterface {
	return &IngredientRepository{db: db}
}

const ingredientColumns = `id, name, current_stock, threshold, unit, updated_at`

func scanIngredient(row pgx.Row) (domain.Ingredient, error) {
	var ing domain.Ingredient
	err := row.Scan(&ing.ID, &ing.Name, &ing.CurrentStock, &ing.Threshold, &ing.Unit, &ing.UpdatedAt)
	return ing, err
}

func (r *IngredientRepository) list(ctx context.Context, q string, args ...any) ([]domain.Ingredient, error) {
	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Ingredient{}
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ing)
	}
	return out, rows.Err()
}

func (r *IngredientRepository) GetAll(ctx context.Context) ([]domain.Ingredient, error) {
	out, err := r.list(ctx, `SELECT `+ingredientColumns+` FROM ingredients ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return out, nil
}

func (r *IngredientRepository) GetByID(ctx context.Context, id int64) (domain.Ingredient, error) {
	ing, err := scanIngredient(r.db.QueryRow(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Ingredient{}, domain.ErrIngredientNotFound
	}
	if err != nil {
		return domain.Ingredient{}, fmt.Errorf("failed to get ingredient %d: %w", id, err)
	}
	return ing, nil
}

func (r *IngredientRepository) Create(ctx context.Context, ing domain.Ingredient) (domain.Ingredient, error) {
	saved, err := scanIngredient(r.db.QueryRow(ctx, `
		INSERT INTO ingredients (name, current_stock, threshold, unit, updated_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING `+ingredientColumns,
		ing.Name, ing.CurrentStock, ing.Threshold, ing.Unit))
	if err != nil {
		return domain.Ingredient{}, fmt.Errorf("failed to insert ingredient: %w", err)
	}
	return saved, nil
}

// Update never writes back a stock value it did not receive, so a deduction
// committed concurrently by an order survives a rename or threshold edit.
func (r *IngredientRepository) Update(ctx context.Context, id int64, in domain.IngredientInput) (domain.Ingredient, error) {
	saved, err := scanIngredient(r.db.QueryRow(ctx, `
		UPDATE ingredients
		SET name = $2,
		    current_stock = COALESCE($3, current_stock),
		    threshold = COALESCE($4, threshold),
		    unit = $5,
		    updated_at = now()
		WHERE id = $1
		RETURNING `+ingredientColumns,
		id, in.Name, in.CurrentStock, in.Threshold, in.Unit))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Ingredient{}, domain.ErrIngredientNotFound
	}
	if err != nil {
		return domain.Ingredient{}, fmt.Errorf("failed to update ingredient %d: %w", id, err)
	}
	return saved, nil
}

func (r *IngredientRepository) SetStock(ctx context.Context, id int64, stock float64) (domain.Ingredient, error) {
	saved, err := scanIngredient(r.db.QueryRow(ctx, `
		UPDATE ingredients SET current_stock = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+ingredientColumns, id, stock))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Ingredient{}, domain.ErrIngredientNotFound
	}
	if err != nil {
		return domain.Ingredient{}, fmt.Errorf("failed to set stock of ingredient %d: %w", id, err)
	}
	return saved, nil
}

// Delete relies on the recipe_ingredients foreign key as the last guard
// against removing a referenced ingredient.
func (r *IngredientRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM ingredients WHERE id = $1`, id)
	if database.IsForeignKeyViolation(err) {
		return domain.ErrIngredientInUse
	}
	if err != nil {
		return fmt.Errorf("failed to delete ingredient %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrIngredientNotFound
	}
	return nil
}

func (r *IngredientRepository) LowStock(ctx context.Context) ([]domain.Ingredient, error) {
	out, err := r.list(ctx, `SELECT `+ingredientColumns+` FROM ingredients WHERE current_stock <= threshold ORDER BY current_stock, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list low-stock ingredients: %w", err)
	}
	return out, nil
}

func (r *IngredientRepository) Stats(ctx context.Context) (domain.StockStats, error) {
	var s domain.StockStats
	err := r.db.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE current_stock <= threshold),
		       count(*) FILTER (WHERE current_stock <= 0),
		       count(*) FILTER (WHERE current_stock > threshold)
		FROM ingredients`).Scan(&s.Total, &s.LowStock, &s.OutOfStock, &s.WellStocked)
	if err != nil {
		return domain.StockStats{}, fmt.Errorf("failed to count ingredients: %w", err)
	}
	return s, nil
}
