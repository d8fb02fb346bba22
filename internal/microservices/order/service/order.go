package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/order/repository"
)

const (
	minTable = 1
	maxTable = 25
)

type OrderServiceInterface interface {
	PlaceOrder(ctx context.Context, session, tableNumber string) (domain.Order, error)
	TransitionStatus(ctx context.Context, id int64, status, changedBy string) (domain.Order, error)
	CheckPreparation(ctx context.Context, id int64) (domain.PreparationCheck, error)
	GetAll(ctx context.Context) ([]domain.Order, error)
	GetByID(ctx context.Context, id int64) (domain.Order, error)
	GetByStatus(ctx context.Context, status string) ([]domain.Order, error)
}

// OrderService is the fulfillment engine. Every mutation runs as one
// transaction; notifications about it go out only after it commits.
type OrderService struct {
	db     repository.OrderRepositoryInterface
	notify domain.Notifier
	tracer trace.Tracer
	lg     *logger.Logger
	now    func() time.Time
}

func NewOrderService(db repository.OrderRepositoryInterface, n domain.Notifier) OrderServiceInterface {
	return &OrderService{
		db:     db,
		notify: n,
		tracer: otel.Tracer("restaurant-system/fulfillment"),
		lg:     logger.New("fulfillment"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func parseTable(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < minTable || n > maxTable {
		return 0, fmt.Errorf("%w: got %q", domain.ErrInvalidTableNumber, s)
	}
	return n, nil
}

// PlaceOrder turns the session's cart into a pending order and empties the
// cart in the same transaction. An empty cart is reported before a bad
// table number.
func (s *OrderService) PlaceOrder(ctx context.Context, session, tableNumber string) (domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "fulfillment.place_order")
	defer span.End()

	var placed domain.Order
	err := s.db.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		items, err := tx.CartItems(ctx, session)
		if err != nil {
			return fmt.Errorf("failed to read cart: %w", err)
		}
		if len(items) == 0 {
			return domain.ErrEmptyCart
		}
		table, err := parseTable(tableNumber)
		if err != nil {
			return err
		}

		o, err := tx.InsertOrder(ctx, domain.NewOrder(table, items, s.now()))
		if err != nil {
			return err
		}
		if err := tx.AppendStatusLog(ctx, domain.StatusLogEntry{
			OrderID: o.ID, Status: o.Status, ChangedBy: "order-service", ChangedAt: o.OrderTime,
		}); err != nil {
			return fmt.Errorf("failed to log status: %w", err)
		}
		if err := tx.ClearCart(ctx, session); err != nil {
			return fmt.Errorf("failed to clear cart: %w", err)
		}
		placed = o
		return nil
	})
	if err != nil {
		fail(span, err)
		return domain.Order{}, err
	}

	span.SetAttributes(attribute.Int64("order.id", placed.ID), attribute.Int("order.table", placed.TableNumber))
	s.lg.Info("order_placed", map[string]any{
		"order_id": placed.ID, "table_number": placed.TableNumber,
		"items": len(placed.Items), "total_price": placed.TotalPrice.String(),
	})
	s.notify.Publish(ctx, domain.TopicOrders, domain.OrderEvent{Type: domain.EventOrderPlaced, Order: placed})
	return placed, nil
}

// TransitionStatus moves the order to status. Moving to Ready first checks
// every ingredient the order needs and then deducts it; a shortage leaves
// stock and status untouched and raises an alert.
func (s *OrderService) TransitionStatus(ctx context.Context, id int64, status, changedBy string) (domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "fulfillment.transition_status",
		trace.WithAttributes(attribute.Int64("order.id", id), attribute.String("order.status", status)))
	defer span.End()

	target, err := domain.ParseStatus(status)
	if err != nil {
		fail(span, err)
		return domain.Order{}, err
	}
	if changedBy == "" {
		changedBy = "system"
	}

	var (
		updated domain.Order
		events  []domain.Notification
	)
	err = s.db.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		events = nil

		o, err := tx.Order(ctx, id, true)
		if err != nil {
			return err
		}
		if !o.Status.CanTransition(target) {
			return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, o.Status, target)
		}

		if target == domain.StatusReady {
			events, err = s.consume(ctx, tx, o)
			if err != nil {
				return err
			}
		}

		now := s.now()
		var deliveredAt *time.Time
		if target == domain.StatusDelivered {
			deliveredAt = &now
			o.DeliveredAt = deliveredAt
		}
		if err := tx.UpdateStatus(ctx, o.ID, target, deliveredAt); err != nil {
			return fmt.Errorf("failed to update order status: %w", err)
		}
		if err := tx.AppendStatusLog(ctx, domain.StatusLogEntry{
			OrderID: o.ID, Status: target, ChangedBy: changedBy, ChangedAt: now,
		}); err != nil {
			return fmt.Errorf("failed to log status: %w", err)
		}
		o.Status = target
		updated = o
		return nil
	})

	var short *domain.InsufficientStockError
	if errors.As(err, &short) {
		s.lg.Warn("insufficient_stock", map[string]any{
			"order_id": id, "ingredient": short.Ingredient, "required": short.Required, "available": short.Available,
		})
		domain.PublishAll(ctx, s.notify, []domain.Notification{domain.InsufficientStockAlertOf(short)})
	}
	if err != nil {
		fail(span, err)
		return domain.Order{}, err
	}

	s.lg.Info("order_status_changed", map[string]any{"order_id": id, "status": string(target), "changed_by": changedBy})
	domain.PublishAll(ctx, s.notify, events)
	s.notify.Publish(ctx, domain.TopicOrders, domain.OrderEvent{Type: domain.EventOrderStatusChanged, Order: updated})
	return updated, nil
}

// consume deducts the order's ingredients and returns the notifications
// to publish once the transaction commits.
func (s *OrderService) consume(ctx context.Context, tx repository.Tx, o domain.Order) ([]domain.Notification, error) {
	ctx, span := s.tracer.Start(ctx, "fulfillment.stock_check", trace.WithAttributes(attribute.Int64("order.id", o.ID)))
	defer span.End()

	need, err := requirements(ctx, tx, o)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	span.SetAttributes(attribute.Int("ingredient.count", len(need)))

	ings, err := lockIngredients(ctx, tx, need, true)
	if err != nil {
		fail(span, err)
		return nil, err
	}
	if short := shortage(ings, need); short != nil {
		fail(span, short)
		return nil, short
	}

	lg := s.lg.With(map[string]any{"order_id": o.ID})
	var events []domain.Notification
	for _, ing := range ings {
		left := decimal.NewFromFloat(ing.CurrentStock).Sub(need[ing.ID])
		saved, err := tx.SetStock(ctx, ing.ID, left.InexactFloat64())
		if err != nil {
			err = fmt.Errorf("%w: ingredient %d: %w", domain.ErrStockUpdateFailed, ing.ID, err)
			fail(span, err)
			return nil, err
		}
		lg.Debug("stock_deducted", map[string]any{
			"ingredient_id": ing.ID, "deducted": need[ing.ID].InexactFloat64(), "new_stock": saved.CurrentStock,
		})
		events = append(events, domain.StockChanged(saved)...)
	}
	return events, nil
}

// requirements sums amount × quantity per ingredient over every order line.
func requirements(ctx context.Context, tx repository.Tx, o domain.Order) (map[int64]decimal.Decimal, error) {
	need := make(map[int64]decimal.Decimal)
	for _, it := range o.Items {
		r, ok, err := tx.RecipeByFoodID(ctx, it.FoodID)
		if err != nil {
			return nil, fmt.Errorf("%w: recipe of %s: %w", domain.ErrStockUpdateFailed, it.FoodName, err)
		}
		if !ok {
			return nil, &domain.RecipeMissingError{FoodID: it.FoodID, FoodName: it.FoodName}
		}
		qty := decimal.NewFromInt(int64(it.Quantity))
		for _, ri := range r.Ingredients {
			need[ri.IngredientID] = need[ri.IngredientID].Add(decimal.NewFromFloat(ri.Amount).Mul(qty))
		}
	}
	return need, nil
}

func lockIngredients(ctx context.Context, tx repository.Tx, need map[int64]decimal.Decimal, lock bool) ([]domain.Ingredient, error) {
	ids := make([]int64, 0, len(need))
	for id := range need {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	ings, err := tx.Ingredients(ctx, ids, lock)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStockUpdateFailed, err)
	}
	if len(ings) != len(ids) {
		return nil, fmt.Errorf("%w: %w", domain.ErrStockUpdateFailed, domain.ErrIngredientNotFound)
	}
	return ings, nil
}

// shortage returns the first ingredient, by id, that cannot cover need.
func shortage(ings []domain.Ingredient, need map[int64]decimal.Decimal) *domain.InsufficientStockError {
	for _, ing := range ings {
		if need[ing.ID].GreaterThan(decimal.NewFromFloat(ing.CurrentStock)) {
			return &domain.InsufficientStockError{
				IngredientID: ing.ID,
				Ingredient:   ing.Name,
				Required:     need[ing.ID].InexactFloat64(),
				Available:    ing.CurrentStock,
			}
		}
	}
	return nil
}

// CheckPreparation runs the Ready availability check without changing
// anything or notifying anyone.
func (s *OrderService) CheckPreparation(ctx context.Context, id int64) (domain.PreparationCheck, error) {
	var check domain.PreparationCheck
	err := s.db.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		o, err := tx.Order(ctx, id, false)
		if err != nil {
			return err
		}
		need, err := requirements(ctx, tx, o)
		var missing *domain.RecipeMissingError
		if errors.As(err, &missing) {
			check = domain.PreparationCheck{Message: "Recipe not found for: " + missing.FoodName}
			return nil
		}
		if err != nil {
			return err
		}
		ings, err := lockIngredients(ctx, tx, need, false)
		if err != nil {
			return err
		}
		if short := shortage(ings, need); short != nil {
			check = domain.PreparationCheck{Message: fmt.Sprintf("Not enough %s in stock", short.Ingredient)}
			return nil
		}
		check = domain.PreparationCheck{CanPrepare: true, Message: "Order can be prepared"}
		return nil
	})
	if err != nil {
		return domain.PreparationCheck{}, err
	}
	return check, nil
}

func (s *OrderService) GetAll(ctx context.Context) ([]domain.Order, error) {
	return s.db.GetAll(ctx)
}

func (s *OrderService) GetByID(ctx context.Context, id int64) (domain.Order, error) {
	return s.db.GetByID(ctx, id)
}

func (s *OrderService) GetByStatus(ctx context.Context, status string) ([]domain.Order, error) {
	st, err := domain.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	return s.db.GetByStatus(ctx, st)
}

func fail(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
