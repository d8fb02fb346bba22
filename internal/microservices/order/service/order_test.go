package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/order/repository"
)

// memStore is an in-memory ledger. WithTx serializes units and restores a
// snapshot when the unit fails, which is what repeatable-read plus row
// locks give the real repository.
type memStore struct {
	mu sync.Mutex

	carts       map[string][]domain.CartItem
	orders      map[int64]domain.Order
	recipes     map[int64]domain.Recipe // by food id
	ingredients map[int64]domain.Ingredient
	statusLog   []domain.StatusLogEntry
	nextOrderID int64

	setStockErr error
	insertErr   error
	logErr      error
	clearErr    error
}

func newMemStore() *memStore {
	return &memStore{
		carts:       map[string][]domain.CartItem{},
		orders:      map[int64]domain.Order{},
		recipes:     map[int64]domain.Recipe{},
		ingredients: map[int64]domain.Ingredient{},
	}
}

type snapshot struct {
	carts       map[string][]domain.CartItem
	orders      map[int64]domain.Order
	ingredients map[int64]domain.Ingredient
	statusLog   []domain.StatusLogEntry
	nextOrderID int64
}

func (m *memStore) snapshot() snapshot {
	s := snapshot{
		carts:       map[string][]domain.CartItem{},
		orders:      map[int64]domain.Order{},
		ingredients: map[int64]domain.Ingredient{},
		statusLog:   append([]domain.StatusLogEntry(nil), m.statusLog...),
		nextOrderID: m.nextOrderID,
	}
	for k, v := range m.carts {
		s.carts[k] = append([]domain.CartItem(nil), v...)
	}
	for k, v := range m.orders {
		s.orders[k] = v
	}
	for k, v := range m.ingredients {
		s.ingredients[k] = v
	}
	return s
}

func (m *memStore) restore(s snapshot) {
	m.carts, m.orders, m.ingredients = s.carts, s.orders, s.ingredients
	m.statusLog, m.nextOrderID = s.statusLog, s.nextOrderID
}

func (m *memStore) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snap := m.snapshot()
	if err := fn(ctx, memTx{m}); err != nil {
		m.restore(snap)
		return err
	}
	return nil
}

func (m *memStore) GetAll(context.Context) ([]domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.Order{}
	for _, o := range m.orders {
		out = append(out, o)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memStore) GetByID(_ context.Context, id int64) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (m *memStore) GetByStatus(ctx context.Context, st domain.OrderStatus) ([]domain.Order, error) {
	all, _ := m.GetAll(ctx)
	out := []domain.Order{}
	for _, o := range all {
		if o.Status == st {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memStore) stock(id int64) float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ingredients[id].CurrentStock
}

type memTx struct{ m *memStore }

func (t memTx) CartItems(_ context.Context, session string) ([]domain.CartItem, error) {
	return append([]domain.CartItem(nil), t.m.carts[session]...), nil
}

func (t memTx) ClearCart(_ context.Context, session string) error {
	if t.m.clearErr != nil {
		return t.m.clearErr
	}
	delete(t.m.carts, session)
	return nil
}

func (t memTx) InsertOrder(_ context.Context, o domain.Order) (domain.Order, error) {
	if t.m.insertErr != nil {
		return domain.Order{}, t.m.insertErr
	}
	t.m.nextOrderID++
	o.ID = t.m.nextOrderID
	for i := range o.Items {
		o.Items[i].ID = int64(i + 1)
		o.Items[i].OrderID = o.ID
	}
	t.m.orders[o.ID] = o
	return o, nil
}

func (t memTx) Order(_ context.Context, id int64, _ bool) (domain.Order, error) {
	o, ok := t.m.orders[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	return o, nil
}

func (t memTx) RecipeByFoodID(_ context.Context, foodID int64) (domain.Recipe, bool, error) {
	r, ok := t.m.recipes[foodID]
	return r, ok, nil
}

func (t memTx) Ingredients(_ context.Context, ids []int64, _ bool) ([]domain.Ingredient, error) {
	var out []domain.Ingredient
	for _, id := range ids {
		if ing, ok := t.m.ingredients[id]; ok {
			out = append(out, ing)
		}
	}
	return out, nil
}

func (t memTx) SetStock(_ context.Context, id int64, stock float64) (domain.Ingredient, error) {
	if t.m.setStockErr != nil {
		return domain.Ingredient{}, t.m.setStockErr
	}
	ing := t.m.ingredients[id]
	ing.CurrentStock = stock
	t.m.ingredients[id] = ing
	return ing, nil
}

func (t memTx) UpdateStatus(_ context.Context, id int64, st domain.OrderStatus, deliveredAt *time.Time) error {
	o := t.m.orders[id]
	o.Status = st
	if deliveredAt != nil {
		o.DeliveredAt = deliveredAt
	}
	t.m.orders[id] = o
	return nil
}

func (t memTx) AppendStatusLog(_ context.Context, e domain.StatusLogEntry) error {
	if t.m.logErr != nil {
		return t.m.logErr
	}
	t.m.statusLog = append(t.m.statusLog, e)
	return nil
}

type event struct {
	topic   string
	payload any
}

type recorder struct {
	mu     sync.Mutex
	events []event
}

func (r *recorder) Publish(_ context.Context, topic string, payload any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event{topic, payload})
}

func (r *recorder) ofType(typ string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []any
	for _, ev := range r.events {
		switch p := ev.payload.(type) {
		case domain.StockUpdate:
			if p.Type == typ {
				out = append(out, p)
			}
		case domain.LowStockAlert:
			if p.Type == typ {
				out = append(out, p)
			}
		case domain.InsufficientStockAlert:
			if p.Type == typ {
				out = append(out, p)
			}
		case domain.OrderEvent:
			if p.Type == typ {
				out = append(out, p)
			}
		}
	}
	return out
}

const (
	flourID int64 = 1
	saltID  int64 = 2

	pizzaID int64 = 10
	breadID int64 = 11
	colaID  int64 = 12
)

var (
	pizza = domain.Food{ID: pizzaID, Name: "Pizza", Price: decimal.RequireFromString("12.50"), Available: true}
	bread = domain.Food{ID: breadID, Name: "Bread", Price: decimal.NewFromInt(3), Available: true}
	cola  = domain.Food{ID: colaID, Name: "Cola", Price: decimal.NewFromInt(2), Available: true}

	fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
)

// fixture: Flour (threshold 20) with the given stock, Salt 10/2, Pizza
// needing 30 Flour and 1 Salt per unit, Bread needing 30 Flour.
func fixture(flourStock float64) (*memStore, *recorder, *OrderService) {
	st := newMemStore()
	st.ingredients[flourID] = domain.Ingredient{ID: flourID, Name: "Flour", CurrentStock: flourStock, Threshold: 20, Unit: "g"}
	st.ingredients[saltID] = domain.Ingredient{ID: saltID, Name: "Salt", CurrentStock: 10, Threshold: 2, Unit: "g"}
	st.recipes[pizzaID] = domain.Recipe{ID: 1, FoodID: pizzaID, Ingredients: []domain.RecipeIngredient{
		{IngredientID: flourID, Amount: 30},
		{IngredientID: saltID, Amount: 1},
	}}
	st.recipes[breadID] = domain.Recipe{ID: 2, FoodID: breadID, Ingredients: []domain.RecipeIngredient{
		{IngredientID: flourID, Amount: 30},
	}}

	rec := &recorder{}
	svc := NewOrderService(st, rec).(*OrderService)
	svc.now = func() time.Time { return fixedNow }
	return st, rec, svc
}

func fill(st *memStore, session string, lines ...domain.CartItem) {
	st.carts[session] = append(st.carts[session], lines...)
}

func placed(t *testing.T, st *memStore, svc *OrderService, lines ...domain.CartItem) domain.Order {
	t.Helper()
	fill(st, "s1", lines...)
	o, err := svc.PlaceOrder(context.Background(), "s1", "5")
	require.NoError(t, err)
	return o
}

func TestPlaceOrder(t *testing.T) {
	st, rec, svc := fixture(100)
	fill(st, "s1", domain.NewCartItem("s1", pizza, 2), domain.NewCartItem("s1", cola, 3))
	fill(st, "s2", domain.NewCartItem("s2", bread, 1))

	o, err := svc.PlaceOrder(context.Background(), "s1", " 7 ")
	require.NoError(t, err)

	assert.Equal(t, 7, o.TableNumber)
	assert.Equal(t, domain.StatusPending, o.Status)
	assert.Equal(t, fixedNow, o.OrderTime)
	assert.Nil(t, o.DeliveredAt)
	assert.True(t, decimal.NewFromInt(31).Equal(o.TotalPrice), "got %s", o.TotalPrice)
	require.Len(t, o.Items, 2)
	assert.Equal(t, pizzaID, o.Items[0].FoodID)
	assert.Equal(t, 2, o.Items[0].Quantity)

	assert.Empty(t, st.carts["s1"])
	assert.Len(t, st.carts["s2"], 1, "other sessions keep their carts")
	require.Len(t, st.statusLog, 1)
	assert.Equal(t, domain.StatusPending, st.statusLog[0].Status)
	assert.Len(t, rec.ofType(domain.EventOrderPlaced), 1)
}

func TestPlaceOrderRejections(t *testing.T) {
	tests := []struct {
		name    string
		cart    bool
		table   string
		wantErr error
	}{
		{"empty cart", false, "5", domain.ErrEmptyCart},
		{"empty cart wins over bad table", false, "abc", domain.ErrEmptyCart},
		{"table zero", true, "0", domain.ErrInvalidTableNumber},
		{"table 26", true, "26", domain.ErrInvalidTableNumber},
		{"table not a number", true, "abc", domain.ErrInvalidTableNumber},
		{"table blank", true, "", domain.ErrInvalidTableNumber},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, rec, svc := fixture(100)
			if tt.cart {
				fill(st, "s1", domain.NewCartItem("s1", pizza, 1))
			}

			_, err := svc.PlaceOrder(context.Background(), "s1", tt.table)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Empty(t, st.orders)
			assert.Empty(t, rec.events)
			if tt.cart {
				assert.Len(t, st.carts["s1"], 1, "cart must be left untouched")
			}
		})
	}
}

func TestPlaceOrderKeepsCartWhenPersistenceFails(t *testing.T) {
	boom := errors.New("connection reset")
	tests := []struct {
		name   string
		inject func(st *memStore)
	}{
		{"order insert", func(st *memStore) { st.insertErr = boom }},
		{"status log", func(st *memStore) { st.logErr = boom }},
		{"cart clear", func(st *memStore) { st.clearErr = boom }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, rec, svc := fixture(100)
			fill(st, "s1", domain.NewCartItem("s1", pizza, 2))
			tt.inject(st)

			_, err := svc.PlaceOrder(context.Background(), "s1", "5")
			assert.ErrorIs(t, err, boom)

			assert.Len(t, st.carts["s1"], 1, "cart must survive a failed placement")
			assert.Empty(t, st.orders)
			assert.Empty(t, st.statusLog)
			assert.Empty(t, rec.ofType(domain.EventOrderPlaced))
		})
	}
}

func TestPlaceOrderBoundaryTables(t *testing.T) {
	for _, table := range []string{"1", "25"} {
		st, _, svc := fixture(100)
		fill(st, "s1", domain.NewCartItem("s1", cola, 1))
		_, err := svc.PlaceOrder(context.Background(), "s1", table)
		assert.NoError(t, err, "table %s", table)
	}
}

func TestReadyDeductsStock(t *testing.T) {
	st, rec, svc := fixture(100)
	o := placed(t, st, svc, domain.NewCartItem("s1", pizza, 2))

	got, err := svc.TransitionStatus(context.Background(), o.ID, "Ready", "chef")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReady, got.Status)
	assert.Nil(t, got.DeliveredAt)

	assert.Equal(t, 40.0, st.stock(flourID))
	assert.Equal(t, 8.0, st.stock(saltID))
	assert.Equal(t, domain.StatusReady, st.orders[o.ID].Status)

	updates := rec.ofType(domain.EventStockUpdate)
	require.Len(t, updates, 2)
	assert.Equal(t, domain.StockUpdate{Type: domain.EventStockUpdate, IngredientID: flourID, NewStock: 40}, updates[0])
	assert.Empty(t, rec.ofType(domain.EventLowStockAlert), "40 is above the threshold of 20")
	assert.Len(t, rec.ofType(domain.EventOrderStatusChanged), 1)

	last := st.statusLog[len(st.statusLog)-1]
	assert.Equal(t, "chef", last.ChangedBy)
	assert.Equal(t, domain.StatusReady, last.Status)
}

func TestReadyInsufficientStock(t *testing.T) {
	st, rec, svc := fixture(50)
	o := placed(t, st, svc, domain.NewCartItem("s1", pizza, 2))

	_, err := svc.TransitionStatus(context.Background(), o.ID, "Ready", "chef")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	var short *domain.InsufficientStockError
	require.True(t, errors.As(err, &short))
	assert.Equal(t, "Flour", short.Ingredient)
	assert.Equal(t, 60.0, short.Required)
	assert.Equal(t, 50.0, short.Available)

	assert.Equal(t, 50.0, st.stock(flourID))
	assert.Equal(t, 10.0, st.stock(saltID), "no ingredient of the order may be deducted")
	assert.Equal(t, domain.StatusPending, st.orders[o.ID].Status)

	alerts := rec.ofType(domain.EventInsufficientStock)
	require.Len(t, alerts, 1)
	assert.Equal(t, domain.InsufficientStockAlert{Type: domain.EventInsufficientStock, Ingredient: "Flour", Required: 60, Available: 50}, alerts[0])
	assert.Empty(t, rec.ofType(domain.EventStockUpdate))
	assert.Empty(t, rec.ofType(domain.EventOrderStatusChanged))
}

func TestReadyAggregatesSharedIngredient(t *testing.T) {
	// Each line alone fits in 50 Flour; together they need 60.
	st, rec, svc := fixture(50)
	o := placed(t, st, svc, domain.NewCartItem("s1", pizza, 1), domain.NewCartItem("s1", bread, 1))

	_, err := svc.TransitionStatus(context.Background(), o.ID, "Ready", "chef")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 50.0, st.stock(flourID))
	assert.Len(t, rec.ofType(domain.EventInsufficientStock), 1)
}

func TestReadyLowStockAlert(t *testing.T) {
	st, rec, svc := fixture(80)
	o := placed(t, st, svc, domain.NewCartItem("s1", pizza, 2))

	_, err := svc.TransitionStatus(context.Background(), o.ID, "Ready", "chef")
	require.NoError(t, err)
	assert.Equal(t, 20.0, st.stock(flourID))

	alerts := rec.ofType(domain.EventLowStockAlert)
	require.Len(t, alerts, 1, "stock equal to threshold is low")
	assert.Equal(t, "Flour", alerts[0].(domain.LowStockAlert).Ingredient.Name)
}

func TestReadyRecipeMissing(t *testing.T) {
	st, rec, svc := fixture(100)
	o := placed(t, st, svc, domain.NewCartItem("s1", pizza, 1), domain.NewCartItem("s1", cola, 1))

	_, err := svc.TransitionStatus(context.Background(), o.ID, "Ready", "chef")
	require.ErrorIs(t, err, domain.ErrRecipeMissing)
	var missing *domain.RecipeMissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, "Cola", missing.FoodName)

	assert.Equal(t, 100.0, st.stock(flourID))
	assert.Equal(t, domain.StatusPending, st.orders[o.ID].Status)
	assert.Empty(t, rec.ofType(domain.EventInsufficientStock))
	assert.Empty(t, rec.ofType(domain.EventStockUpdate))
}

func TestReadyStockWriteFailure(t *testing.T) {
	st, rec, svc := fixture(100)
	o := placed(t, st, svc, domain.NewCartItem("s1", pizza, 1))
	st.setStockErr = errors.New("disk full")

	_, err := svc.TransitionStatus(context.Background(), o.ID, "Ready", "chef")
	require.ErrorIs(t, err, domain.ErrStockUpdateFailed)
	assert.Equal(t, domain.StatusPending, st.orders[o.ID].Status)
	assert.Equal(t, 100.0, st.stock(flourID))
	assert.Empty(t, rec.ofType(domain.EventStockUpdate), "nothing is announced for a rolled back unit")
}

func TestReadyTwiceDeductsOnce(t *testing.T) {
	st, _, svc := fixture(100)
	o := placed(t, st, svc, domain.NewCartItem("s1", pizza, 1))

	_, err := svc.TransitionStatus(context.Background(), o.ID, "Ready", "chef")
	require.NoError(t, err)
	_, err = svc.TransitionStatus(context.Background(), o.ID, "Ready", "chef")
	require.ErrorIs(t, err, domain.ErrInvalidTransition)

	assert.Equal(t, 70.0, st.stock(flourID))
}

func TestDeliveredStampsTimestamp(t *testing.T) {
	st, _, svc := fixture(100)
	o := placed(t, st, svc, domain.NewCartItem("s1", cola, 1))

	got, err := svc.TransitionStatus(context.Background(), o.ID, "preparing", "chef")
	require.NoError(t, err)
	assert.Nil(t, got.DeliveredAt)

	got, err = svc.TransitionStatus(context.Background(), o.ID, "Delivered", "waiter")
	require.NoError(t, err)
	require.NotNil(t, got.DeliveredAt)
	assert.Equal(t, fixedNow, *got.DeliveredAt)
	assert.Equal(t, domain.StatusDelivered, st.orders[o.ID].Status)
}

func TestTransitionRejections(t *testing.T) {
	st, _, svc := fixture(100)
	o := placed(t, st, svc, domain.NewCartItem("s1", cola, 1))

	_, err := svc.TransitionStatus(context.Background(), 999, "Preparing", "chef")
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)

	_, err = svc.TransitionStatus(context.Background(), o.ID, "Cooking", "chef")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	_, err = svc.TransitionStatus(context.Background(), o.ID, "Pending", "chef")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = svc.TransitionStatus(context.Background(), o.ID, "Cancelled", "waiter")
	require.NoError(t, err)
	_, err = svc.TransitionStatus(context.Background(), o.ID, "Preparing", "chef")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestConcurrentReadyNeverOversells(t *testing.T) {
	st, rec, svc := fixture(100)
	a := placed(t, st, svc, domain.NewCartItem("s1", pizza, 2))
	b := placed(t, st, svc, domain.NewCartItem("s1", pizza, 2))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []int64{a.ID, b.ID} {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			_, errs[i] = svc.TransitionStatus(context.Background(), id, "Ready", "chef")
		}(i, id)
	}
	wg.Wait()

	var ok, short int
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInsufficientStock):
			short++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, short)
	assert.Equal(t, 40.0, st.stock(flourID))
	assert.Len(t, rec.ofType(domain.EventInsufficientStock), 1)
}

func TestCheckPreparation(t *testing.T) {
	tests := []struct {
		name  string
		flour float64
		lines []domain.CartItem
		want  domain.PreparationCheck
	}{
		{"enough", 100, []domain.CartItem{domain.NewCartItem("s1", pizza, 2)}, domain.PreparationCheck{CanPrepare: true, Message: "Order can be prepared"}},
		{"short", 50, []domain.CartItem{domain.NewCartItem("s1", pizza, 2)}, domain.PreparationCheck{Message: "Not enough Flour in stock"}},
		{"no recipe", 100, []domain.CartItem{domain.NewCartItem("s1", cola, 1)}, domain.PreparationCheck{Message: "Recipe not found for: Cola"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, rec, svc := fixture(tt.flour)
			o := placed(t, st, svc, tt.lines...)
			before := len(rec.events)

			got, err := svc.CheckPreparation(context.Background(), o.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.flour, st.stock(flourID))
			assert.Len(t, rec.events, before, "a dry run publishes nothing")
		})
	}

	_, _, svc := fixture(100)
	_, err := svc.CheckPreparation(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestGetByStatus(t *testing.T) {
	st, _, svc := fixture(100)
	o := placed(t, st, svc, domain.NewCartItem("s1", cola, 1))
	placed(t, st, svc, domain.NewCartItem("s1", cola, 1))
	_, err := svc.TransitionStatus(context.Background(), o.ID, "Preparing", "chef")
	require.NoError(t, err)

	pending, err := svc.GetByStatus(context.Background(), "pending")
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	_, err = svc.GetByStatus(context.Background(), "lost")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)
}
