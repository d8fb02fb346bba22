package service

import "restaurant-system/internal/microservices/recipe/repository"

type Service struct {
	RecipeService RecipeServiceInterface
}

func New(db *repository.Repository) *Service {
	return &Service{
		RecipeService: NewRecipeService(db.RecipeRepo),
	}
}
