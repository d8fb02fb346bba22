package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/inventory/service"
)

type stubService struct {
	service.IngredientServiceInterface

	stockID  int64
	stockVal float64
	delErr   error
}

func (s *stubService) UpdateStock(_ context.Context, id int64, stock float64) (domain.Ingredient, error) {
	s.stockID, s.stockVal = id, stock
	if stock < 0 {
		return domain.Ingredient{}, domain.ErrInvalidStock
	}
	return domain.Ingredient{ID: id, Name: "Flour", CurrentStock: stock}, nil
}

func (s *stubService) Delete(context.Context, int64) error { return s.delErr }

func (s *stubService) Stats(context.Context) (domain.StockStats, error) {
	return domain.StockStats{Total: 3, LowStock: 2, OutOfStock: 1, WellStocked: 1}, nil
}

func router(s service.IngredientServiceInterface) http.Handler {
	r := chi.NewRouter()
	h := &Handler{IngredientHandler: NewIngredientHandler(s)}
	h.Routes(r)
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUpdateStockHandler(t *testing.T) {
	stub := &stubService{}
	h := router(stub)

	rec := do(h, http.MethodPut, "/ingredients/7/stock", `{"stock":12.5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), stub.stockID)
	assert.Equal(t, 12.5, stub.stockVal)
	assert.Contains(t, rec.Body.String(), `"currentStock":12.5`)

	rec = do(h, http.MethodPut, "/ingredients/7/stock", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPut, "/ingredients/7/stock", `{"stock":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPut, "/ingredients/abc/stock", `{"stock":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteHandlerMapsInUse(t *testing.T) {
	rec := do(router(&stubService{delErr: domain.ErrIngredientInUse}), http.MethodDelete, "/ingredients/1", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	rec = do(router(&stubService{}), http.MethodDelete, "/ingredients/1", "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestStatsHandler(t *testing.T) {
	rec := do(router(&stubService{}), http.MethodGet, "/ingredients/stats", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"total":3,"lowStock":2,"outOfStock":1,"wellStocked":1}`, rec.Body.String())
}
