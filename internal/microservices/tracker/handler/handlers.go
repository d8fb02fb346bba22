package handler

import (
	"github.com/go-chi/chi/v5"

	"restaurant-system/internal/microservices/tracker/service"
)

type Handler struct {
	TrackerHandler *TrackerHandler
}

func New(svc service.TrackerServiceInterface) *Handler {
	return &Handler{
		TrackerHandler: NewTrackerHandler(svc),
	}
}

// Routes registers the tracking endpoints inside the /orders subtree.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/{id}/status", h.TrackerHandler.GetStatus)
	r.Get("/{id}/timeline", h.TrackerHandler.GetTimeline)
}
