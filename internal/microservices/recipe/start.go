package recipe

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-system/internal/microservices/recipe/handlers"
	"restaurant-system/internal/microservices/recipe/repository"
	"restaurant-system/internal/microservices/recipe/service"
)

// Start wires the recipe index. The service is returned as well because the
// ingredient store asks it whether an ingredient may be deleted.
func Start(db *pgxpool.Pool) (*handlers.Handler, service.RecipeServiceInterface) {
	svc := service.New(repository.New(db))
	return handlers.New(svc), svc.RecipeService
}
