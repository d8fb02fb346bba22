package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"restaurant-system/internal/common/httpx"
	"restaurant-system/internal/microservices/cart/service"
)

type Handler struct {
	CartHandler *CartHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		CartHandler: NewCartHandler(s.CartService),
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Route("/cart", func(r chi.Router) {
		r.Get("/", h.CartHandler.View)
		r.Delete("/", h.CartHandler.Clear)
		r.Get("/count", h.CartHandler.Count)
		r.Post("/items", h.CartHandler.Add)
		r.Put("/items/{foodId}", h.CartHandler.Update)
		r.Delete("/items/{foodId}", h.CartHandler.Remove)
	})
}

// ensureSession issues a new session id when the caller has none and echoes
// it back so the client can keep using the same cart.
func ensureSession(w http.ResponseWriter, r *http.Request) string {
	id := httpx.SessionID(r)
	if id == "" {
		id = uuid.NewString()
	}
	w.Header().Set(httpx.HeaderSessionID, id)
	return id
}
