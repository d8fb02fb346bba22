package handlers

import (
	"fmt"
	"net/http"

	"restaurant-system/internal/common/auth"
	"restaurant-system/internal/common/httpx"
	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/order/service"
)

type OrderHandler struct {
	service service.OrderServiceInterface
}

func NewOrderHandler(s service.OrderServiceInterface) *OrderHandler {
	return &OrderHandler{service: s}
}

// AddOrder places the caller's cart as an order for the given table.
func (oh *OrderHandler) AddOrder(w http.ResponseWriter, r *http.Request) {
	var req domain.PlaceOrderRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	o, err := oh.service.PlaceOrder(r.Context(), httpx.SessionID(r), req.TableNumber)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	w.Header().Set("Location", fmt.Sprintf("/api/v1/orders/%d", o.ID))
	httpx.WriteJSON(w, http.StatusCreated, o)
}

// List filters by ?status= when present.
func (oh *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	var (
		out []domain.Order
		err error
	)
	if st := r.URL.Query().Get("status"); st != "" {
		out, err = oh.service.GetByStatus(r.Context(), st)
	} else {
		out, err = oh.service.GetAll(r.Context())
	}
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (oh *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	o, err := oh.service.GetByID(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (oh *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	var req domain.StatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, err)
		return
	}

	changedBy := "api"
	if role, ok := auth.RoleFrom(r.Context()); ok {
		changedBy = string(role)
	}
	o, err := oh.service.TransitionStatus(r.Context(), id, req.Status, changedBy)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, o)
}

func (oh *OrderHandler) Preparation(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.IDParam(r, "id")
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	check, err := oh.service.CheckPreparation(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, check)
}
