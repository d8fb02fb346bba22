package domain

import "context"

// Topics carried by the notification bus.
const (
	TopicStockUpdates = "stock-updates"
	TopicAlerts       = "alerts"
	TopicOrders       = "orders"
)

const (
	EventStockUpdate        = "STOCK_UPDATE"
	EventLowStockAlert      = "LOW_STOCK_ALERT"
	EventInsufficientStock  = "INSUFFICIENT_STOCK"
	EventOrderPlaced        = "ORDER_PLACED"
	EventOrderStatusChanged = "ORDER_STATUS_CHANGED"
)

// Notifier publishes fire-and-forget events. Implementations must not block
// the caller and must swallow delivery failures.
type Notifier interface {
	Publish(ctx context.Context, topic string, payload any)
}

type StockUpdate struct {
	Type         string  `json:"type"`
	IngredientID int64   `json:"ingredientId"`
	NewStock     float64 `json:"newStock"`
}

type LowStockAlert struct {
	Type       string     `json:"type"`
	Ingredient Ingredient `json:"ingredient"`
}

type InsufficientStockAlert struct {
	Type       string  `json:"type"`
	Ingredient string  `json:"ingredient"`
	Required   float64 `json:"required"`
	Available  float64 `json:"available"`
}

type OrderEvent struct {
	Type  string `json:"type"`
	Order Order  `json:"order"`
}

// Notification is a buffered event waiting for its transaction to commit.
type Notification struct {
	Topic   string
	Payload any
}

func StockUpdateOf(ing Ingredient) Notification {
	return Notification{Topic: TopicStockUpdates, Payload: StockUpdate{
		Type:         EventStockUpdate,
		IngredientID: ing.ID,
		NewStock:     ing.CurrentStock,
	}}
}

func LowStockAlertOf(ing Ingredient) Notification {
	return Notification{Topic: TopicAlerts, Payload: LowStockAlert{Type: EventLowStockAlert, Ingredient: ing}}
}

func InsufficientStockAlertOf(e *InsufficientStockError) Notification {
	return Notification{Topic: TopicAlerts, Payload: InsufficientStockAlert{
		Type:       EventInsufficientStock,
		Ingredient: e.Ingredient,
		Required:   e.Required,
		Available:  e.Available,
	}}
}

// StockChanged returns the stock update for ing, followed by a low-stock
// alert when ing is at or below its threshold.
func StockChanged(ing Ingredient) []Notification {
	out := []Notification{StockUpdateOf(ing)}
	if ing.IsLowStock() {
		out = append(out, LowStockAlertOf(ing))
	}
	return out
}

func PublishAll(ctx context.Context, n Notifier, events []Notification) {
	for _, ev := range events {
		n.Publish(ctx, ev.Topic, ev.Payload)
	}
}
