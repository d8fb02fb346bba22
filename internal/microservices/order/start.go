package order

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/order/handlers"
	"restaurant-system/internal/microservices/order/repository"
	"restaurant-system/internal/microservices/order/service"
)

// Start wires the order ledger and the fulfillment engine.
func Start(db *pgxpool.Pool, n domain.Notifier) *handlers.Handler {
	repo := repository.New(db)
	svc := service.New(repo, n)
	return handlers.New(svc)
}
