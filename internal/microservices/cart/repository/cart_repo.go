package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-system/internal/connections/database"
	"restaurant-system/internal/domain"
)

type CartRepositoryInterface interface {
	Items(ctx context.Context, session string) ([]domain.CartItem, error)
	Add(ctx context.Context, session string, f domain.Food, qty int) (domain.CartItem, error)
	Set(ctx context.Context, session string, f domain.Food, qty int) (domain.CartItem, error)
	Remove(ctx context.Context, session string, foodID int64) error
	Clear(ctx context.Context, session string) error
}

type CartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) CartRepositoryInterface {
	return &CartRepository{db: db}
}

const itemsQuery = `
	SELECT c.session_id, c.food_id, f.name, f.price, c.quantity, c.total_price
	FROM cart_items c JOIN foods f ON f.id = c.food_id
	WHERE c.session_id = $1
	ORDER BY c.food_id`

// Items lists the session's cart through q. With lock set the rows are
// held FOR UPDATE until q's transaction ends.
func Items(ctx context.Context, q database.Querier, session string, lock bool) ([]domain.CartItem, error) {
	sql := itemsQuery
	if lock {
		sql += ` FOR UPDATE OF c`
	}
	rows, err := q.Query(ctx, sql, session)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.CartItem, error) {
		var it domain.CartItem
		err := row.Scan(&it.SessionID, &it.FoodID, &it.FoodName, &it.UnitPrice, &it.Quantity, &it.TotalPrice)
		return it, err
	})
}

// Clear empties the session's cart through q.
func Clear(ctx context.Context, q database.Querier, session string) error {
	_, err := q.Exec(ctx, `DELETE FROM cart_items WHERE session_id = $1`, session)
	return err
}

func (cr *CartRepository) Items(ctx context.Context, session string) ([]domain.CartItem, error) {
	out, err := Items(ctx, cr.db, session, false)
	if err != nil {
		return nil, fmt.Errorf("failed to list cart: %w", err)
	}
	return out, nil
}

// Add increments the line in a single statement so concurrent adds from
// the same session do not lose quantity. The line total is recomputed from
// the current food price.
func (cr *CartRepository) Add(ctx context.Context, session string, f domain.Food, qty int) (domain.CartItem, error) {
	it := domain.CartItem{SessionID: session, FoodID: f.ID, FoodName: f.Name, UnitPrice: f.Price}
	err := cr.db.QueryRow(ctx, `
		INSERT INTO cart_items (session_id, food_id, quantity, total_price, updated_at)
		VALUES ($1, $2, $3, $3 * $4::numeric, now())
		ON CONFLICT (session_id, food_id) DO UPDATE
		SET quantity    = cart_items.quantity + EXCLUDED.quantity,
		    total_price = (cart_items.quantity + EXCLUDED.quantity) * $4::numeric,
		    updated_at  = now()
		RETURNING quantity, total_price`,
		session, f.ID, qty, f.Price).Scan(&it.Quantity, &it.TotalPrice)
	if database.IsForeignKeyViolation(err) {
		return domain.CartItem{}, domain.ErrFoodNotFound
	}
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("failed to add to cart: %w", err)
	}
	return it, nil
}

func (cr *CartRepository) Set(ctx context.Context, session string, f domain.Food, qty int) (domain.CartItem, error) {
	it := domain.NewCartItem(session, f, qty)
	_, err := cr.db.Exec(ctx, `
		INSERT INTO cart_items (session_id, food_id, quantity, total_price, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (session_id, food_id) DO UPDATE
		SET quantity = EXCLUDED.quantity, total_price = EXCLUDED.total_price, updated_at = now()`,
		session, f.ID, it.Quantity, it.TotalPrice)
	if database.IsForeignKeyViolation(err) {
		return domain.CartItem{}, domain.ErrFoodNotFound
	}
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("failed to update cart: %w", err)
	}
	return it, nil
}

func (cr *CartRepository) Remove(ctx context.Context, session string, foodID int64) error {
	tag, err := cr.db.Exec(ctx, `DELETE FROM cart_items WHERE session_id = $1 AND food_id = $2`, session, foodID)
	if err != nil {
		return fmt.Errorf("failed to remove from cart: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCartItemNotFound
	}
	return nil
}

func (cr *CartRepository) Clear(ctx context.Context, session string) error {
	if err := Clear(ctx, cr.db, session); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}
