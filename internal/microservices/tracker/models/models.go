package models

import (
	"time"

	"restaurant-system/internal/domain"
)

// OrderView is the tracking summary of one order.
type OrderView struct {
	OrderID     int64              `json:"orderId"`
	TableNumber int                `json:"tableNumber"`
	Status      domain.OrderStatus `json:"status"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	DeliveredAt *time.Time         `json:"deliveredAt,omitempty"`
	// Final is set once the order can no longer change status.
	Final bool `json:"final"`
}

type Timeline struct {
	OrderID int64                   `json:"orderId"`
	Events  []domain.StatusLogEntry `json:"events"`
}
