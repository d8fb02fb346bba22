package handlers

import (
	"net/http"

	"restaurant-system/internal/common/httpx"
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/cart/service"
)

type CartHandler struct {
	service service.CartServiceInterface
}

func NewCartHandler(s service.CartServiceInterface) *CartHandler {
	return &CartHandler{service: s}
}

func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	v, err := h.service.View(r.Context(), httpx.SessionID(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, v)
}

func (h *CartHandler) Count(w http.ResponseWriter, r *http.Request) {
	n, err := h.service.Count(r.Context(), httpx.SessionID(r))
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req domain.CartItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	session := ensureSession(w, r)
	if _, err := h.service.Add(r.Context(), session, req.FoodID, req.Quantity); err != nil {
		httpx.WriteError(w, err)
		return
	}
	h.respondCart(w, r, session, http.StatusCreated)
}

func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	foodID, err := httpx.IDParam(r, "foodId")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	var req domain.CartItemRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := h.service.Update(r.Context(), httpx.SessionID(r), foodID, req.Quantity); err != nil {
		httpx.WriteError(w, err)
		return
	}
	h.respondCart(w, r, httpx.SessionID(r), http.StatusOK)
}

func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	foodID, err := httpx.IDParam(r, "foodId")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if err := h.service.Remove(r.Context(), httpx.SessionID(r), foodID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	h.respondCart(w, r, httpx.SessionID(r), http.StatusOK)
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Clear(r.Context(), httpx.SessionID(r)); err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CartHandler) respondCart(w http.ResponseWriter, r *http.Request, session string, code int) {
	v, err := h.service.View(r.Context(), session)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, code, v)
}
