package domain

import (
	"fmt"
	"strings"
)

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusPreparing OrderStatus = "Preparing"
	StatusReady     OrderStatus = "Ready"
	StatusDelivered OrderStatus = "Delivered"
	StatusCancelled OrderStatus = "Cancelled"
)

// rank orders the forward path. Cancelled sits outside it.
var rank = map[OrderStatus]int{
	StatusPending:   1,
	StatusPreparing: 2,
	StatusReady:     3,
	StatusDelivered: 4,
}

// ParseStatus accepts the canonical names case-insensitively.
func ParseStatus(s string) (OrderStatus, error) {
	s = strings.TrimSpace(s)
	for _, st := range []OrderStatus{StatusPending, StatusPreparing, StatusReady, StatusDelivered, StatusCancelled} {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
}

// CanTransition allows forward moves along Pending, Preparing, Ready,
// Delivered (skipping steps is fine) and cancelling before Ready.
func (s OrderStatus) CanTransition(to OrderStatus) bool {
	if to == StatusCancelled {
		return s == StatusPending || s == StatusPreparing
	}
	from, ok := rank[s]
	if !ok {
		return false
	}
	return rank[to] > from
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}
