package handlers

import (
	"net/http"

	"restaurant-system/internal/common/httpx"
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/menu/service"
)

type FoodHandler struct {
	service service.FoodServiceInterface
}

func NewFoodHandler(s service.FoodServiceInterface) *FoodHandler {
	return &FoodHandler{service: s}
}

// List filters by ?category= when present.
func (h *FoodHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		out []domain.Food
		err error
	)
	if c := r.URL.Query().Get("category"); c != "" {
		out, err = h.service.GetByCategory(r.Context(), c)
	} else {
		out, err = h.service.GetAll(r.Context())
	}
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *FoodHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	f, err := h.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, f)
}

func (h *FoodHandler) Save(w http.ResponseWriter, r *http.Request) {
	var in domain.FoodInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.WriteError(w, err)
		return
	}
	f, err := h.service.Save(r.Context(), in)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	code := http.StatusOK
	if in.ID == 0 {
		code = http.StatusCreated
	}
	httpx.WriteJSON(w, code, f)
}

func (h *FoodHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
