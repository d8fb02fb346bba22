package service

import (
	"context"
	"fmt"
	"strings"

	"restaurant-system/internal/common/logger"
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/inventory/repository"
)

// RecipeUsageChecker is the reverse lookup owned by the recipe index.
type RecipeUsageChecker interface {
	IsIngredientUsedInRecipes(ctx context.Context, ingredientID int64) (bool, error)
}

type IngredientServiceInterface interface {
	GetAll(ctx context.Context) ([]domain.Ingredient, error)
	GetByID(ctx context.Context, id int64) (domain.Ingredient, error)
	Save(ctx context.Context, id int64, in domain.IngredientInput) (domain.Ingredient, error)
	UpdateStock(ctx context.Context, id int64, stock float64) (domain.Ingredient, error)
	Delete(ctx context.Context, id int64) error
	LowStock(ctx context.Context) ([]domain.Ingredient, error)
	OutOfStockCount(ctx context.Context) (int, error)
	WellStockedCount(ctx context.Context) (int, error)
	Stats(ctx context.Context) (domain.StockStats, error)
}

type IngredientService struct {
	db     repository.IngredientRepositoryInterface
	notify domain.Notifier
	usage  RecipeUsageChecker
	lg     *logger.Logger
}

func NewIngredientService(db repository.IngredientRepositoryInterface, n domain.Notifier, usage RecipeUsageChecker) IngredientServiceInterface {
	return &IngredientService{db: db, notify: n, usage: usage, lg: logger.New("inventory")}
}

func (s *IngredientService) GetAll(ctx context.Context) ([]domain.Ingredient, error) {
	return s.db.GetAll(ctx)
}

func (s *IngredientService) GetByID(ctx context.Context, id int64) (domain.Ingredient, error) {
	return s.db.GetByID(ctx, id)
}

// Save creates the ingredient when id is zero and updates it otherwise.
// Absent stock and threshold default to zero on create and keep the stored
// value on update; the update never rewrites stock it was not given.
func (s *IngredientService) Save(ctx context.Context, id int64, in domain.IngredientInput) (domain.Ingredient, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Unit = strings.TrimSpace(in.Unit)
	if in.Name == "" {
		return domain.Ingredient{}, fmt.Errorf("%w: ingredient name is required", domain.ErrInvalidInput)
	}
	if in.CurrentStock != nil && *in.CurrentStock < 0 {
		return domain.Ingredient{}, domain.ErrInvalidStock
	}

	var (
		saved domain.Ingredient
		err   error
	)
	if id == 0 {
		ing := domain.Ingredient{Name: in.Name, Unit: in.Unit}
		if in.CurrentStock != nil {
			ing.CurrentStock = *in.CurrentStock
		}
		if in.Threshold != nil {
			ing.Threshold = *in.Threshold
		}
		saved, err = s.db.Create(ctx, ing)
	} else {
		saved, err = s.db.Update(ctx, id, in)
	}
	if err != nil {
		return domain.Ingredient{}, err
	}

	s.lg.Info("ingredient_saved", map[string]any{"ingredient_id": saved.ID, "stock": saved.CurrentStock})
	if saved.IsLowStock() {
		domain.PublishAll(ctx, s.notify, []domain.Notification{domain.LowStockAlertOf(saved)})
	}
	return saved, nil
}

func (s *IngredientService) UpdateStock(ctx context.Context, id int64, stock float64) (domain.Ingredient, error) {
	if stock < 0 {
		return domain.Ingredient{}, domain.ErrInvalidStock
	}
	saved, err := s.db.SetStock(ctx, id, stock)
	if err != nil {
		return domain.Ingredient{}, err
	}
	s.lg.Info("stock_updated", map[string]any{"ingredient_id": id, "new_stock": stock, "low_stock": saved.IsLowStock()})
	domain.PublishAll(ctx, s.notify, domain.StockChanged(saved))
	return saved, nil
}

func (s *IngredientService) Delete(ctx context.Context, id int64) error {
	used, err := s.usage.IsIngredientUsedInRecipes(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check recipe usage: %w", err)
	}
	if used {
		return domain.ErrIngredientInUse
	}
	if err := s.db.Delete(ctx, id); err != nil {
		return err
	}
	s.lg.Info("ingredient_deleted", map[string]any{"ingredient_id": id})
	return nil
}

func (s *IngredientService) LowStock(ctx context.Context) ([]domain.Ingredient, error) {
	return s.db.LowStock(ctx)
}

func (s *IngredientService) OutOfStockCount(ctx context.Context) (int, error) {
	st, err := s.db.Stats(ctx)
	return st.OutOfStock, err
}

func (s *IngredientService) WellStockedCount(ctx context.Context) (int, error) {
	st, err := s.db.Stats(ctx)
	return st.WellStocked, err
}

func (s *IngredientService) Stats(ctx context.Context) (domain.StockStats, error) {
	return s.db.Stats(ctx)
}
