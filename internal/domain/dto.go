package domain

import "github.com/shopspring/decimal"

type PlaceOrderRequest struct {
	TableNumber string `json:"tableNumber"`
}

type StatusRequest struct {
	Status string `json:"status"`
}

// IngredientInput leaves stock and threshold nil when the caller did not
// send them. Defaults are applied by the ingredient service on save.
type IngredientInput struct {
	Name         string   `json:"name"`
	CurrentStock *float64 `json:"currentStock,omitempty"`
	Threshold    *float64 `json:"threshold,omitempty"`
	Unit         string   `json:"unit"`
}

type StockRequest struct {
	Stock *float64 `json:"stock"`
}

type StockStats struct {
	Total       int `json:"total"`
	LowStock    int `json:"lowStock"`
	OutOfStock  int `json:"outOfStock"`
	WellStocked int `json:"wellStocked"`
}

type RecipeInput struct {
	ID          int64                   `json:"id,omitempty"`
	FoodID      int64                   `json:"foodId"`
	Ingredients []RecipeIngredientInput `json:"ingredients"`
}

type RecipeIngredientInput struct {
	IngredientID int64   `json:"ingredientId"`
	Amount       float64 `json:"amount"`
}

type FoodInput struct {
	ID        int64           `json:"id,omitempty"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Available *bool           `json:"available,omitempty"`
}

type CartItemRequest struct {
	FoodID   int64 `json:"foodId"`
	Quantity int   `json:"quantity"`
}

type CartView struct {
	SessionID string          `json:"sessionId"`
	Items     []CartItem      `json:"items"`
	Count     int             `json:"count"`
	Total     decimal.Decimal `json:"total"`
}

// NewCartView sums quantities and line totals.
func NewCartView(sessionID string, items []CartItem) CartView {
	v := CartView{SessionID: sessionID, Items: items, Total: decimal.Zero}
	if v.Items == nil {
		v.Items = []CartItem{}
	}
	for _, it := range items {
		v.Count += it.Quantity
		v.Total = v.Total.Add(it.TotalPrice)
	}
	return v
}

type PreparationCheck struct {
	CanPrepare bool   `json:"canPrepare"`
	Message    string `json:"message"`
}
