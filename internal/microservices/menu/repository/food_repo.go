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

type FoodRepositoryInterface interface {
	GetAll(ctx context.Context) ([]domain.Food, error)
	GetByCategory(ctx context.Context, category string) ([]domain.Food, error)
	GetByID(ctx context.Context, id int64) (domain.Food, error)
	Save(ctx context.Context, f domain.Food) (domain.Food, error)
	Delete(ctx context.Context, id int64) error
}

type FoodRepository struct {
	db *pgxpool.Pool
}

func NewFoodRepository(db *pgxpool.Pool) FoodRepositoryInterface {
	return &FoodRepository{db: db}
}

const foodColumns = `id, name, category, price, available`

func scanFood(row pgx.CollectableRow) (domain.Food, error) {
	var f domain.Food
	err := row.Scan(&f.ID, &f.Name, &f.Category, &f.Price, &f.Available)
	return f, err
}

func (fr *FoodRepository) list(ctx context.Context, q string, args ...any) ([]domain.Food, error) {
	rows, err := fr.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, scanFood)
}

func (fr *FoodRepository) GetAll(ctx context.Context) ([]domain.Food, error) {
	out, err := fr.list(ctx, `SELECT `+foodColumns+` FROM foods ORDER BY category, name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list foods: %w", err)
	}
	return out, nil
}

func (fr *FoodRepository) GetByCategory(ctx context.Context, category string) ([]domain.Food, error) {
	out, err := fr.list(ctx, `SELECT `+foodColumns+` FROM foods WHERE lower(category) = lower($1) ORDER BY name, id`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list foods of %q: %w", category, err)
	}
	return out, nil
}

func (fr *FoodRepository) GetByID(ctx context.Context, id int64) (domain.Food, error) {
	rows, err := fr.db.Query(ctx, `SELECT `+foodColumns+` FROM foods WHERE id = $1`, id)
	if err != nil {
		return domain.Food{}, fmt.Errorf("failed to get food %d: %w", id, err)
	}
	f, err := pgx.CollectOneRow(rows, scanFood)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Food{}, domain.ErrFoodNotFound
	}
	if err != nil {
		return domain.Food{}, fmt.Errorf("failed to get food %d: %w", id, err)
	}
	return f, nil
}

func (fr *FoodRepository) Save(ctx context.Context, f domain.Food) (domain.Food, error) {
	var (
		rows pgx.Rows
		err  error
	)
	if f.ID == 0 {
		rows, err = fr.db.Query(ctx, `
			INSERT INTO foods (name, category, price, available) VALUES ($1, $2, $3, $4)
			RETURNING `+foodColumns, f.Name, f.Category, f.Price, f.Available)
	} else {
		rows, err = fr.db.Query(ctx, `
			UPDATE foods SET name = $2, category = $3, price = $4, available = $5 WHERE id = $1
			RETURNING `+foodColumns, f.ID, f.Name, f.Category, f.Price, f.Available)
	}
	if err != nil {
		return domain.Food{}, fmt.Errorf("failed to save food: %w", err)
	}
	saved, err := pgx.CollectOneRow(rows, scanFood)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Food{}, domain.ErrFoodNotFound
	}
	if err != nil {
		return domain.Food{}, fmt.Errorf("failed to save food: %w", err)
	}
	return saved, nil
}

// Delete cascades to the food's recipe and cart lines. Placed orders keep
// their snapshot.
func (fr *FoodRepository) Delete(ctx context.Context, id int64) error {
	tag, err := fr.db.Exec(ctx, `DELETE FROM foods WHERE id = $1`, id)
	if database.IsForeignKeyViolation(err) {
		return fmt.Errorf("%w: food is still referenced", domain.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("failed to delete food %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFoodNotFound
	}
	return nil
}
