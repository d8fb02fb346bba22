package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-system/internal/connections/database"
	"restaurant-system/internal/domain"
	cartrepo "restaurant-system/internal/microservices/cart/repository"
	reciperepo "restaurant-system/internal/microservices/recipe/repository"
)

// Tx is everything the fulfillment engine touches inside one unit of work.
// Nothing written through it is visible to others until the unit commits.
type Tx interface {
	CartItems(ctx context.Context, session string) ([]domain.CartItem, error)
	ClearCart(ctx context.Context, session string) error
	InsertOrder(ctx context.Context, o domain.Order) (domain.Order, error)
	Order(ctx context.Context, id int64, lock bool) (domain.Order, error)
	RecipeByFoodID(ctx context.Context, foodID int64) (domain.Recipe, bool, error)
	// Ingredients returns the rows for ids in ascending id order. With lock
	// set they are held FOR UPDATE in that order.
	Ingredients(ctx context.Context, ids []int64, lock bool) ([]domain.Ingredient, error)
	SetStock(ctx context.Context, id int64, stock float64) (domain.Ingredient, error)
	UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt *time.Time) error
	AppendStatusLog(ctx context.Context, e domain.StatusLogEntry) error
}

type OrderRepositoryInterface interface {
	// WithTx runs fn in one repeatable-read transaction and may replay it
	// after a serialization failure, so fn must be safe to run again.
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	GetAll(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id int64) (domain.Order, error)
	GetByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error)
}

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}

func (or *OrderRepository) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return database.WithTx(ctx, or.db, func(tx pgx.Tx) error {
		return fn(ctx, &pgTx{tx: tx})
	})
}

func (or *OrderRepository) GetAll(ctx context.Context) ([]domain.Order, error) {
	out, err := findOrders(ctx, or.db, ` ORDER BY o.order_time DESC, o.id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return out, nil
}

func (or *OrderRepository) GetByID(ctx context.Context, id int64) (domain.Order, error) {
	return getOrder(ctx, or.db, id, false)
}

func (or *OrderRepository) GetByStatus(ctx context.Context, status domain.OrderStatus) ([]domain.Order, error) {
	out, err := findOrders(ctx, or.db, ` WHERE o.status = $1 ORDER BY o.order_time DESC, o.id DESC`, string(status))
	if err != nil {
		return nil, fmt.Errorf("failed to list %s orders: %w", status, err)
	}
	return out, nil
}

const orderSelect = `
	SELECT o.id, o.table_number, o.status, o.order_time, o.delivered_at, o.total_price
	FROM orders o`

func findOrders(ctx context.Context, q database.Querier, tail string, args ...any) ([]domain.Order, error) {
	rows, err := q.Query(ctx, orderSelect+tail, args...)
	if err != nil {
		return nil, err
	}
	orders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Order, error) {
		var o domain.Order
		var status string
		err := row.Scan(&o.ID, &o.TableNumber, &status, &o.OrderTime, &o.DeliveredAt, &o.TotalPrice)
		o.Status = domain.OrderStatus(status)
		return o, err
	})
	if err != nil {
		return nil, err
	}
	if err := loadItems(ctx, q, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func loadItems(ctx context.Context, q database.Querier, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]int64, len(orders))
	byID := make(map[int64]*domain.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		orders[i].Items = []domain.OrderItem{}
		byID[orders[i].ID] = &orders[i]
	}
	rows, err := q.Query(ctx, `
		SELECT id, order_id, food_id, food_name, quantity, total_price
		FROM order_items WHERE order_id = ANY($1) ORDER BY order_id, id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.FoodID, &it.FoodName, &it.Quantity, &it.TotalPrice); err != nil {
			return err
		}
		o := byID[it.OrderID]
		o.Items = append(o.Items, it)
	}
	return rows.Err()
}

func getOrder(ctx context.Context, q database.Querier, id int64, lock bool) (domain.Order, error) {
	tail := ` WHERE o.id = $1`
	if lock {
		tail += ` FOR UPDATE`
	}
	out, err := findOrders(ctx, q, tail, id)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to get order %d: %w", id, err)
	}
	if len(out) == 0 {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return out[0], nil
}

type pgTx struct {
	tx pgx.Tx
}

func (t *pgTx) CartItems(ctx context.Context, session string) ([]domain.CartItem, error) {
	return cartrepo.Items(ctx, t.tx, session, true)
}

func (t *pgTx) ClearCart(ctx context.Context, session string) error {
	return cartrepo.Clear(ctx, t.tx, session)
}

func (t *pgTx) InsertOrder(ctx context.Context, o domain.Order) (domain.Order, error) {
	err := t.tx.QueryRow(ctx, `
		INSERT INTO orders (table_number, status, order_time, total_price, updated_at)
		VALUES ($1, $2, $3, $4, now())
		RETURNING id`, o.TableNumber, string(o.Status), o.OrderTime, o.TotalPrice).Scan(&o.ID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, it := range o.Items {
		batch.Queue(`
			INSERT INTO order_items (order_id, food_id, food_name, quantity, total_price)
			VALUES ($1, $2, $3, $4, $5) RETURNING id`,
			o.ID, it.FoodID, it.FoodName, it.Quantity, it.TotalPrice)
	}
	br := t.tx.SendBatch(ctx, batch)
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
		if err := br.QueryRow().Scan(&o.Items[i].ID); err != nil {
			_ = br.Close()
			return domain.Order{}, fmt.Errorf("failed to insert order item %s: %w", o.Items[i].FoodName, err)
		}
	}
	if err := br.Close(); err != nil {
		return domain.Order{}, fmt.Errorf("failed to insert order items: %w", err)
	}
	return o, nil
}

func (t *pgTx) Order(ctx context.Context, id int64, lock bool) (domain.Order, error) {
	return getOrder(ctx, t.tx, id, lock)
}

func (t *pgTx) RecipeByFoodID(ctx context.Context, foodID int64) (domain.Recipe, bool, error) {
	return reciperepo.FindByFood(ctx, t.tx, foodID)
}

func (t *pgTx) Ingredients(ctx context.Context, ids []int64, lock bool) ([]domain.Ingredient, error) {
	sql := `SELECT id, name, current_stock, threshold, unit, updated_at
		FROM ingredients WHERE id = ANY($1) ORDER BY id`
	if lock {
		sql += ` FOR UPDATE`
	}
	rows, err := t.tx.Query(ctx, sql, ids)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Ingredient, error) {
		var ing domain.Ingredient
		err := row.Scan(&ing.ID, &ing.Name, &ing.CurrentStock, &ing.Threshold, &ing.Unit, &ing.UpdatedAt)
		return ing, err
	})
}

func (t *pgTx) SetStock(ctx context.Context, id int64, stock float64) (domain.Ingredient, error) {
	var ing domain.Ingredient
	err := t.tx.QueryRow(ctx, `
		UPDATE ingredients SET current_stock = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, name, current_stock, threshold, unit, updated_at`, id, stock).
		Scan(&ing.ID, &ing.Name, &ing.CurrentStock, &ing.Threshold, &ing.Unit, &ing.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Ingredient{}, domain.ErrIngredientNotFound
	}
	return ing, err
}

func (t *pgTx) UpdateStatus(ctx context.Context, id int64, status domain.OrderStatus, deliveredAt *time.Time) error {
	tag, err := t.tx.Exec(ctx, `
		UPDATE orders SET status = $2, delivered_at = COALESCE($3, delivered_at), updated_at = now()
		WHERE id = $1`, id, string(status), deliveredAt)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (t *pgTx) AppendStatusLog(ctx context.Context, e domain.StatusLogEntry) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_by, changed_at)
		VALUES ($1, $2, $3, $4)`, e.OrderID, string(e.Status), e.ChangedBy, e.ChangedAt)
	return err
}
