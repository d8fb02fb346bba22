package inventory

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/inventory/handlers"
	"restaurant-system/internal/microservices/inventory/repository"
	"restaurant-system/internal/microservices/inventory/service"
)

// Start wires the ingredient store. Ingredient deletion consults usage, the
// recipe index.
func Start(db *pgxpool.Pool, n domain.Notifier, usage service.RecipeUsageChecker) *handlers.Handler {
	repo := repository.New(db)
	svc := service.New(repo, n, usage)
	return handlers.New(svc)
}
