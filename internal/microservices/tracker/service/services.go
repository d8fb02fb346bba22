package service

import (
	"restaurant-system/internal/microservices/tracker/repository"
)

type Service struct {
	TrackerService TrackerServiceInterface
}

func NewService(repo repository.TrackerRepoInterface) *Service {
	return &Service{TrackerService: NewTrackerService(repo)}
}
