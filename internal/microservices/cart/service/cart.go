package service

import (
	"context"
	"errors"
	"fmt"

	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/cart/repository"
)

// FoodLookup prices cart lines from the menu.
type FoodLookup interface {
	GetByID(ctx context.Context, id int64) (domain.Food, error)
}

var errNoSession = fmt.Errorf("%w: session id is required", domain.ErrInvalidInput)

type CartServiceInterface interface {
	View(ctx context.Context, session string) (domain.CartView, error)
	Items(ctx context.Context, session string) ([]domain.CartItem, error)
	Add(ctx context.Context, session string, foodID int64, qty int) (domain.CartItem, error)
	Update(ctx context.Context, session string, foodID int64, qty int) error
	Remove(ctx context.Context, session string, foodID int64) error
	Count(ctx context.Context, session string) (int, error)
	Clear(ctx context.Context, session string) error
}

type CartService struct {
	db    repository.CartRepositoryInterface
	foods FoodLookup
	lg    *logger.Logger
}

func NewCartService(db repository.CartRepositoryInterface, foods FoodLookup) CartServiceInterface {
	return &CartService{db: db, foods: foods, lg: logger.New("cart")}
}

func (s *CartService) Items(ctx context.Context, session string) ([]domain.CartItem, error) {
	if session == "" {
		return []domain.CartItem{}, nil
	}
	return s.db.Items(ctx, session)
}

func (s *CartService) View(ctx context.Context, session string) (domain.CartView, error) {
	items, err := s.Items(ctx, session)
	if err != nil {
		return domain.CartView{}, err
	}
	return domain.NewCartView(session, items), nil
}

func (s *CartService) Count(ctx context.Context, session string) (int, error) {
	v, err := s.View(ctx, session)
	return v.Count, err
}

func (s *CartService) orderable(ctx context.Context, foodID int64) (domain.Food, error) {
	f, err := s.foods.GetByID(ctx, foodID)
	if err != nil {
		return domain.Food{}, err
	}
	if !f.Available {
		return domain.Food{}, domain.ErrFoodUnavailable
	}
	return f, nil
}

// Add puts qty more of the food into the cart.
func (s *CartService) Add(ctx context.Context, session string, foodID int64, qty int) (domain.CartItem, error) {
	if session == "" {
		return domain.CartItem{}, errNoSession
	}
	if qty <= 0 {
		return domain.CartItem{}, domain.ErrInvalidQuantity
	}
	f, err := s.orderable(ctx, foodID)
	if err != nil {
		return domain.CartItem{}, err
	}
	it, err := s.db.Add(ctx, session, f, qty)
	if err != nil {
		return domain.CartItem{}, err
	}
	s.lg.Debug("cart_item_added", map[string]any{"session_id": session, "food_id": foodID, "quantity": it.Quantity})
	return it, nil
}

// Update sets the line's quantity. Zero or less removes the line.
func (s *CartService) Update(ctx context.Context, session string, foodID int64, qty int) error {
	if session == "" {
		return errNoSession
	}
	if qty <= 0 {
		err := s.db.Remove(ctx, session, foodID)
		if errors.Is(err, domain.ErrCartItemNotFound) {
			return nil
		}
		return err
	}
	f, err := s.orderable(ctx, foodID)
	if err != nil {
		return err
	}
	_, err = s.db.Set(ctx, session, f, qty)
	return err
}

func (s *CartService) Remove(ctx context.Context, session string, foodID int64) error {
	if session == "" {
		return errNoSession
	}
	return s.db.Remove(ctx, session, foodID)
}

func (s *CartService) Clear(ctx context.Context, session string) error {
	if session == "" {
		return errNoSession
	}
	return s.db.Clear(ctx, session)
}
