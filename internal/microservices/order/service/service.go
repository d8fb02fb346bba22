package service

import (
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/order/repository"
)

type Service struct {
	OrderService OrderServiceInterface
}

func New(db *repository.Repository, n domain.Notifier) *Service {
	return &Service{
		OrderService: NewOrderService(db.OrderRepo, n),
	}
}
