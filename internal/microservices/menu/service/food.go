package service

import (
	"context"
	"fmt"
	"strings"

	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/menu/repository"
)

type FoodServiceInterface interface {
	GetAll(ctx context.Context) ([]domain.Food, error)
	GetByCategory(ctx context.Context, category string) ([]domain.Food, error)
	GetByID(ctx context.Context, id int64) (domain.Food, error)
	Save(ctx context.Context, in domain.FoodInput) (domain.Food, error)
	Delete(ctx context.Context, id int64) error
}

type FoodService struct {
	db repository.FoodRepositoryInterface
	lg *logger.Logger
}

func NewFoodService(db repository.FoodRepositoryInterface) FoodServiceInterface {
	return &FoodService{db: db, lg: logger.New("menu")}
}

func (s *FoodService) GetAll(ctx context.Context) ([]domain.Food, error) {
	return s.db.GetAll(ctx)
}

func (s *FoodService) GetByCategory(ctx context.Context, category string) ([]domain.Food, error) {
	return s.db.GetByCategory(ctx, strings.TrimSpace(category))
}

func (s *FoodService) GetByID(ctx context.Context, id int64) (domain.Food, error) {
	return s.db.GetByID(ctx, id)
}

// Save creates a food when in.ID is zero. Available defaults to true.
func (s *FoodService) Save(ctx context.Context, in domain.FoodInput) (domain.Food, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return domain.Food{}, fmt.Errorf("%w: food name is required", domain.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return domain.Food{}, fmt.Errorf("%w: price cannot be negative", domain.ErrInvalidInput)
	}
	f := domain.Food{
		ID:        in.ID,
		Name:      name,
		Category:  strings.TrimSpace(in.Category),
		Price:     in.Price.Round(2),
		Available: true,
	}
	if in.Available != nil {
		f.Available = *in.Available
	}
	saved, err := s.db.Save(ctx, f)
	if err != nil {
		return domain.Food{}, err
	}
	s.lg.Info("food_saved", map[string]any{"food_id": saved.ID, "price": saved.Price.String()})
	return saved, nil
}

func (s *FoodService) Delete(ctx context.Context, id int64) error {
	if err := s.db.Delete(ctx, id); err != nil {
		return err
	}
	s.lg.Info("food_deleted", map[string]any{"food_id": id})
	return nil
}
