package handlers

import (
	"github.com/go-chi/chi/v5"

	"restaurant-system/internal/microservices/recipe/service"
)

type Handler struct {
	RecipeHandler *RecipeHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		RecipeHandler: NewRecipeHandler(s.RecipeService),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/recipes", func(r chi.Router) {
		r.Get("/", h.RecipeHandler.List)
		r.Post("/", h.RecipeHandler.Save)
		r.Get("/by-food/{foodId}", h.RecipeHandler.ByFood)
		r.Get("/uses-ingredient/{ingredientId}", h.RecipeHandler.UsesIngredient)
		r.Get("/{id}", h.RecipeHandler.Get)
		r.Delete("/{id}", h.RecipeHandler.Delete)
	})
}
