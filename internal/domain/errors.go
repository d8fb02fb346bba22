package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyCart          = errors.New("the cart is empty")
	ErrInvalidTableNumber = errors.New("table number must be between 1 and 25")
	ErrOrderNotFound      = errors.New("order not found")
	ErrRecipeMissing      = errors.New("recipe not found")
	ErrInsufficientStock  = errors.New("insufficient stock")
	ErrStockUpdateFailed  = errors.New("failed to update stock")
	ErrIngredientInUse    = errors.New("ingredient is used in recipes")
	ErrNoFoodSelected     = errors.New("please select a food")
	ErrNoIngredients      = errors.New("please add at least one ingredient")

	ErrIngredientNotFound = errors.New("ingredient not found")
	ErrFoodNotFound       = errors.New("food not found")
	ErrFoodUnavailable    = errors.New("food is not available")
	ErrRecipeNotFound     = errors.New("recipe not found")
	ErrCartItemNotFound   = errors.New("item is not in the cart")
	ErrInvalidStatus      = errors.New("invalid order status")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidQuantity    = errors.New("quantity must be positive")
	ErrInvalidAmount      = errors.New("amount must be positive")
	ErrInvalidStock       = errors.New("stock cannot be negative")
	ErrInvalidInput       = errors.New("invalid input")
)

// RecipeMissingError names the food whose recipe could not be found.
type RecipeMissingError struct {
	FoodID   int64
	FoodName string
}

func (e *RecipeMissingError) Error() string {
	return fmt.Sprintf("recipe not found for: %s", e.FoodName)
}

func (e *RecipeMissingError) Unwrap() error { return ErrRecipeMissing }

// InsufficientStockError carries the first ingredient that could not cover
// the order.
type InsufficientStockError struct {
	IngredientID int64
	Ingredient   string
	Required     float64
	Available    float64
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("not enough %s in stock: required %g, available %g", e.Ingredient, e.Required, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }
