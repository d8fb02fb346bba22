package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"restaurant-system/internal/domain"
)

// WriteJSON writes v as JSON with the given status.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteProblem writes a simplified RFC 7807 body.
func WriteProblem(w http.ResponseWriter, code int, typ, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"type":   typ,
		"title":  http.StatusText(code),
		"status": code,
		"detail": detail,
	})
}

// WriteError maps domain errors onto HTTP statuses.
func WriteError(w http.ResponseWriter, err error) {
	code, typ := Classify(err)
	WriteProblem(w, code, typ, err.Error())
}

func Classify(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrEmptyCart),
		errors.Is(err, domain.ErrInvalidTableNumber),
		errors.Is(err, domain.ErrNoFoodSelected),
		errors.Is(err, domain.ErrNoIngredients),
		errors.Is(err, domain.ErrInvalidStatus),
		errors.Is(err, domain.ErrInvalidQuantity),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidStock),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrFoodUnavailable):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrOrderNotFound),
		errors.Is(err, domain.ErrIngredientNotFound),
		errors.Is(err, domain.ErrFoodNotFound),
		errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrCartItemNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrRecipeMissing):
		return http.StatusUnprocessableEntity, "recipe_missing"
	case errors.Is(err, domain.ErrIngredientInUse),
		errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, "insufficient_stock"
	case errors.Is(err, domain.ErrStockUpdateFailed):
		return http.StatusInternalServerError, "stock_update_failed"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// DecodeJSON rejects unknown fields so typos surface as 400s.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// IDParam parses a positive int64 route parameter.
func IDParam(r *http.Request, key string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, key), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s", domain.ErrInvalidInput, key)
	}
	return id, nil
}

// HeaderSessionID carries the caller's cart session.
const HeaderSessionID = "X-Session-ID"

func SessionID(r *http.Request) string {
	return r.Header.Get(HeaderSessionID)
}
