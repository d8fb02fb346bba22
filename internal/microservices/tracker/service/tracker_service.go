package service

import (
	"context"

	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/tracker/models"
	"restaurant-system/internal/microservices/tracker/repository"
)

const maxTimelineLimit = 200

type TrackerServiceInterface interface {
	GetOrderView(ctx context.Context, id int64) (models.OrderView, error)
	GetOrderTimeline(ctx context.Context, id int64, limit, offset int) (models.Timeline, error)
}

type TrackerService struct {
	repo repository.TrackerRepoInterface
}

func NewTrackerService(repo repository.TrackerRepoInterface) *TrackerService {
	return &TrackerService{repo: repo}
}

func (s *TrackerService) GetOrderView(ctx context.Context, id int64) (models.OrderView, error) {
	v, ok, err := s.repo.GetOrderView(ctx, id)
	if err != nil {
		return models.OrderView{}, err
	}
	if !ok {
		return models.OrderView{}, domain.ErrOrderNotFound
	}
	v.Final = v.Status.Terminal()
	return v, nil
}

// GetOrderTimeline returns status changes oldest first. An unknown order is
// reported as not found rather than as an empty timeline.
func (s *TrackerService) GetOrderTimeline(ctx context.Context, id int64, limit, offset int) (models.Timeline, error) {
	if _, err := s.GetOrderView(ctx, id); err != nil {
		return models.Timeline{}, err
	}
	if limit <= 0 || limit > maxTimelineLimit {
		limit = maxTimelineLimit
	}
	if offset < 0 {
		offset = 0
	}
	events, err := s.repo.GetOrderTimeline(ctx, id, limit, offset)
	if err != nil {
		return models.Timeline{}, err
	}
	if events == nil {
		events = []domain.StatusLogEntry{}
	}
	return models.Timeline{OrderID: id, Events: events}, nil
}
