package cart

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-system/internal/microservices/cart/handlers"
	"restaurant-system/internal/microservices/cart/repository"
	"restaurant-system/internal/microservices/cart/service"
)

func Start(db *pgxpool.Pool, foods service.FoodLookup) *handlers.Handler {
	return handlers.New(service.New(repository.New(db), foods))
}
