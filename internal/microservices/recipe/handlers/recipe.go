package handlers

import (
	"net/http"

	"restaurant-system/internal/common/httpx"
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/recipe/service"
)

type RecipeHandler struct {
	service service.RecipeServiceInterface
}

func NewRecipeHandler(s service.RecipeServiceInterface) *RecipeHandler {
	return &RecipeHandler{service: s}
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	out, err := h.service.GetAll(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	rec, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rec)
}

func (h *RecipeHandler) ByFood(w http.ResponseWriter, r *http.Request) {
	foodID, err := httpx.IDParam(r, "foodId")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	rec, ok, err := h.service.GetByFoodID(r.Context(), foodID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if !ok {
		httpx.WriteError(w, domain.ErrRecipeNotFound)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rec)
}

func (h *RecipeHandler) Save(w http.ResponseWriter, r *http.Request) {
	var in domain.RecipeInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, err)
		return
	}
	rec, err := h.service.Save(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rec)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecipeHandler) UsesIngredient(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "ingredientId")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	used, err := h.service.IsIngredientUsedInRecipes(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"ingredientId": id, "used": used})
}
