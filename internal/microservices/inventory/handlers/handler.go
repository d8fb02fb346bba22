package handlers

import (
	"github.com/go-chi/chi/v5"

	"restaurant-system/internal/microservices/inventory/service"
)

type Handler struct {
	IngredientHandler *IngredientHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		IngredientHandler: NewIngredientHandler(s.IngredientService),
	}
}

// Routes mounts the ingredient store under /ingredients.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/ingredients", func(r chi.Router) {
		r.Get("/", h.IngredientHandler.List)
		r.Post("/", h.IngredientHandler.Create)
		r.Get("/low-stock", h.IngredientHandler.LowStock)
		r.Get("/stats", h.IngredientHandler.Stats)
		r.Get("/{id}", h.IngredientHandler.Get)
		r.Put("/{id}", h.IngredientHandler.Update)
		r.Put("/{id}/stock", h.IngredientHandler.UpdateStock)
		r.Delete("/{id}", h.IngredientHandler.Delete)
	})
}
