package handlers

import (
	"github.com/go-chi/chi/v5"

	"restaurant-system/internal/microservices/order/service"
)

type Handler struct {
	OrderHandler *OrderHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		OrderHandler: NewOrderHandler(s.OrderService),
	}
}

// Routes mounts the order ledger. extra lets the tracker hang its
// read-only routes off the same /orders subtree.
func (h *Handler) Routes(r chi.Router, extra ...func(chi.Router)) {
	r.Route("/orders", func(r chi.Router) {
		r.Get("/", h.OrderHandler.List)
		r.Post("/", h.OrderHandler.AddOrder)
		r.Get("/{id}", h.OrderHandler.Get)
		r.Put("/{id}/status", h.OrderHandler.UpdateStatus)
		r.Get("/{id}/preparation", h.OrderHandler.Preparation)
		for _, fn := range extra {
			fn(r)
		}
	})
}
