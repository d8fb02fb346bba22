package handlers

import (
	"github.com/go-chi/chi/v5"

	"restaurant-system/internal/microservices/menu/service"
)

type Handler struct {
	FoodHandler *FoodHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		FoodHandler: NewFoodHandler(s.FoodService),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/menu", func(r chi.Router) {
		r.Get("/", h.FoodHandler.List)
		r.Post("/", h.FoodHandler.Save)
		r.Get("/{id}", h.FoodHandler.Get)
		r.Delete("/{id}", h.FoodHandler.Delete)
	})
}
