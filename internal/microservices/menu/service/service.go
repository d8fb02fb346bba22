package service

import "restaurant-system/internal/microservices/menu/repository"

type Service struct {
	FoodService FoodServiceInterface
}

func New(db *repository.Repository) *Service {
	return &Service{
		FoodService: NewFoodService(db.FoodRepo),
	}
}
