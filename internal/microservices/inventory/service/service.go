package service

import (
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/inventory/repository"
)

type Service struct {
	IngredientService IngredientServiceInterface
}

func New(db *repository.Repository, n domain.Notifier, usage RecipeUsageChecker) *Service {
	return &Service{
		IngredientService: NewIngredientService(db.IngredientRepo, n, usage),
	}
}
