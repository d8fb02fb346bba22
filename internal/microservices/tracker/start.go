package tracker

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-system/internal/microservices/tracker/handler"
	"restaurant-system/internal/microservices/tracker/repository"
	"restaurant-system/internal/microservices/tracker/service"
)

// Start wires the read-only order tracking view.
func Start(db *pgxpool.Pool) *handler.Handler {
	repo := repository.NewTrackerRepo(db)
	svc := service.NewService(repo)
	return handler.New(svc.TrackerService)
}
