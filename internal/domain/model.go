package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Ingredient struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	CurrentStock float64   `json:"currentStock"`
	Threshold    float64   `json:"threshold"`
	Unit         string    `json:"unit"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// IsLowStock is the single low-stock rule: stock at or below threshold.
func (i Ingredient) IsLowStock() bool { return i.CurrentStock <= i.Threshold }

func (i Ingredient) IsOutOfStock() bool { return i.CurrentStock <= 0 }

func (i Ingredient) IsWellStocked() bool { return i.CurrentStock > i.Threshold }

type Food struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Available bool            `json:"available"`
}

type Recipe struct {
	ID          int64              `json:"id"`
	FoodID      int64              `json:"foodId"`
	FoodName    string             `json:"foodName,omitempty"`
	Ingredients []RecipeIngredient `json:"ingredients"`
}

type RecipeIngredient struct {
	ID             int64   `json:"id"`
	RecipeID       int64   `json:"recipeId"`
	IngredientID   int64   `json:"ingredientId"`
	IngredientName string  `json:"ingredientName,omitempty"`
	Amount         float64 `json:"amount"` // per single unit of the food
}

// Uses reports whether the recipe consumes the ingredient.
func (r Recipe) Uses(ingredientID int64) bool {
	for _, ri := range r.Ingredients {
		if ri.IngredientID == ingredientID {
			return true
		}
	}
	return false
}

type CartItem struct {
	SessionID  string          `json:"-"`
	FoodID     int64           `json:"foodId"`
	FoodName   string          `json:"foodName"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// NewCartItem derives the line total from the food price.
func NewCartItem(sessionID string, f Food, quantity int) CartItem {
	return CartItem{
		SessionID:  sessionID,
		FoodID:     f.ID,
		FoodName:   f.Name,
		UnitPrice:  f.Price,
		Quantity:   quantity,
		TotalPrice: f.Price.Mul(decimal.NewFromInt(int64(quantity))),
	}
}

type Order struct {
	ID          int64           `json:"id"`
	TableNumber int             `json:"tableNumber"`
	Status      OrderStatus     `json:"status"`
	OrderTime   time.Time       `json:"orderTime"`
	DeliveredAt *time.Time      `json:"deliveredAt,omitempty"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	Items       []OrderItem     `json:"items"`
}

// OrderItem is a snapshot of a cart line taken when the order was placed.
type OrderItem struct {
	ID         int64           `json:"id"`
	OrderID    int64           `json:"orderId"`
	FoodID     int64           `json:"foodId"`
	FoodName   string          `json:"foodName"`
	Quantity   int             `json:"quantity"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
}

// NewOrder builds a pending order from cart lines. The total is the sum of
// the lines' stored totals; prices are not re-read from the menu.
func NewOrder(tableNumber int, items []CartItem, now time.Time) Order {
	o := Order{
		TableNumber: tableNumber,
		Status:      StatusPending,
		OrderTime:   now,
		TotalPrice:  decimal.Zero,
		Items:       make([]OrderItem, 0, len(items)),
	}
	for _, ci := range items {
		o.Items = append(o.Items, OrderItem{
			FoodID:     ci.FoodID,
			FoodName:   ci.FoodName,
			Quantity:   ci.Quantity,
			TotalPrice: ci.TotalPrice,
		})
		o.TotalPrice = o.TotalPrice.Add(ci.TotalPrice)
	}
	return o
}

type StatusLogEntry struct {
	OrderID   int64       `json:"orderId"`
	Status    OrderStatus `json:"status"`
	ChangedBy string      `json:"changedBy"`
	ChangedAt time.Time   `json:"changedAt"`
}
