package menu

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-system/internal/microservices/menu/handlers"
	"restaurant-system/internal/microservices/menu/repository"
	"restaurant-system/internal/microservices/menu/service"
)

// Start wires the food catalog. The service is also handed to the cart,
// which prices lines from it.
func Start(db *pgxpool.Pool) (*handlers.Handler, service.FoodServiceInterface) {
	svc := service.New(repository.New(db))
	return handlers.New(svc), svc.FoodService
}
