package service

import "restaurant-system/internal/microservices/cart/repository"

type Service struct {
	CartService CartServiceInterface
}

func New(db *repository.Repository, foods FoodLookup) *Service {
	return &Service{
		CartService: NewCartService(db.CartRepo, foods),
	}
}
