package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-system/internal/domain"
)

type memIngredients struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.Ingredient
}

func newMemIngredients(seed ...domain.Ingredient) *memIngredients {
	m := &memIngredients{rows: map[int64]domain.Ingredient{}}
	for _, ing := range seed {
		m.rows[ing.ID] = ing
		if ing.ID > m.nextID {
			m.nextID = ing.ID
		}
	}
	return m
}

func (m *memIngredients) GetAll(context.Context) ([]domain.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Ingredient, 0, len(m.rows))
	for _, ing := range m.rows {
		out = append(out, ing)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memIngredients) GetByID(_ context.Context, id int64) (domain.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ing, ok := m.rows[id]
	if !ok {
		return domain.Ingredient{}, domain.ErrIngredientNotFound
	}
	return ing, nil
}

func (m *memIngredients) Create(_ context.Context, ing domain.Ingredient) (domain.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	ing.ID = m.nextID
	m.rows[ing.ID] = ing
	return ing, nil
}

func (m *memIngredients) Update(_ context.Context, id int64, in domain.IngredientInput) (domain.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ing, ok := m.rows[id]
	if !ok {
		return domain.Ingredient{}, domain.ErrIngredientNotFound
	}
	ing.Name, ing.Unit = in.Name, in.Unit
	if in.CurrentStock != nil {
		ing.CurrentStock = *in.CurrentStock
	}
	if in.Threshold != nil {
		ing.Threshold = *in.Threshold
	}
	m.rows[id] = ing
	return ing, nil
}

func (m *memIngredients) SetStock(_ context.Context, id int64, stock float64) (domain.Ingredient, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ing, ok := m.rows[id]
	if !ok {
		return domain.Ingredient{}, domain.ErrIngredientNotFound
	}
	ing.CurrentStock = stock
	m.rows[id] = ing
	return ing, nil
}

func (m *memIngredients) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return domain.ErrIngredientNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memIngredients) LowStock(ctx context.Context) ([]domain.Ingredient, error) {
	all, _ := m.GetAll(ctx)
	out := []domain.Ingredient{}
	for _, ing := range all {
		if ing.IsLowStock() {
			out = append(out, ing)
		}
	}
	return out, nil
}

func (m *memIngredients) Stats(ctx context.Context) (domain.StockStats, error) {
	all, _ := m.GetAll(ctx)
	s := domain.StockStats{Total: len(all)}
	for _, ing := range all {
		if ing.IsLowStock() {
			s.LowStock++
		}
		if ing.IsOutOfStock() {
			s.OutOfStock++
		}
		if ing.IsWellStocked() {
			s.WellStocked++
		}
	}
	return s, nil
}

type published struct {
	topic   string
	payload any
}

type recordingNotifier struct{ events []published }

func (n *recordingNotifier) Publish(_ context.Context, topic string, payload any) {
	n.events = append(n.events, published{topic, payload})
}

type usageStub struct {
	used bool
	err  error
}

func (u usageStub) IsIngredientUsedInRecipes(context.Context, int64) (bool, error) { return u.used, u.err }

func ptr(f float64) *float64 { return &f }

func TestSaveDefaultsAbsentStockToZero(t *testing.T) {
	repo := newMemIngredients()
	n := &recordingNotifier{}
	svc := NewIngredientService(repo, n, usageStub{})

	ing, err := svc.Save(context.Background(), 0, domain.IngredientInput{Name: " Salt ", Unit: "g"})
	require.NoError(t, err)
	assert.Equal(t, "Salt", ing.Name)
	assert.Zero(t, ing.CurrentStock)
	assert.Zero(t, ing.Threshold)

	// 0 <= 0 is low stock.
	require.Len(t, n.events, 1)
	assert.Equal(t, domain.TopicAlerts, n.events[0].topic)
}

func TestSaveUpdateKeepsStoredValues(t *testing.T) {
	repo := newMemIngredients(domain.Ingredient{ID: 1, Name: "Flour", CurrentStock: 100, Threshold: 20, Unit: "g"})
	n := &recordingNotifier{}
	svc := NewIngredientService(repo, n, usageStub{})

	ing, err := svc.Save(context.Background(), 1, domain.IngredientInput{Name: "Wheat flour", Unit: "g", Threshold: ptr(30)})
	require.NoError(t, err)
	assert.Equal(t, 100.0, ing.CurrentStock)
	assert.Equal(t, 30.0, ing.Threshold)
	assert.Empty(t, n.events)
}

// deductingRepo commits an order's deduction just before the edit lands.
type deductingRepo struct {
	*memIngredients
	once sync.Once
}

func (d *deductingRepo) Update(ctx context.Context, id int64, in domain.IngredientInput) (domain.Ingredient, error) {
	d.once.Do(func() { _, _ = d.SetStock(ctx, id, 40) })
	return d.memIngredients.Update(ctx, id, in)
}

func TestSaveUpdateKeepsConcurrentDeduction(t *testing.T) {
	repo := &deductingRepo{memIngredients: newMemIngredients(domain.Ingredient{ID: 1, Name: "Flour", CurrentStock: 100, Threshold: 20, Unit: "g"})}
	n := &recordingNotifier{}
	svc := NewIngredientService(repo, n, usageStub{})

	ing, err := svc.Save(context.Background(), 1, domain.IngredientInput{Name: "Wheat flour", Unit: "g"})
	require.NoError(t, err)
	assert.Equal(t, "Wheat flour", ing.Name)
	assert.Equal(t, 40.0, ing.CurrentStock)

	stored, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 40.0, stored.CurrentStock, "rename must not restore pre-deduction stock")
}

func TestSaveValidation(t *testing.T) {
	svc := NewIngredientService(newMemIngredients(), &recordingNotifier{}, usageStub{})

	_, err := svc.Save(context.Background(), 0, domain.IngredientInput{Name: ""})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Save(context.Background(), 0, domain.IngredientInput{Name: "Oil", CurrentStock: ptr(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidStock)

	_, err = svc.Save(context.Background(), 42, domain.IngredientInput{Name: "Oil"})
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}

func TestUpdateStockPublishes(t *testing.T) {
	tests := []struct {
		name       string
		stock      float64
		wantTopics []string
	}{
		{"above threshold", 21, []string{domain.TopicStockUpdates}},
		{"at threshold", 20, []string{domain.TopicStockUpdates, domain.TopicAlerts}},
		{"empty", 0, []string{domain.TopicStockUpdates, domain.TopicAlerts}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMemIngredients(domain.Ingredient{ID: 1, Name: "Flour", CurrentStock: 100, Threshold: 20})
			n := &recordingNotifier{}
			svc := NewIngredientService(repo, n, usageStub{})

			ing, err := svc.UpdateStock(context.Background(), 1, tt.stock)
			require.NoError(t, err)
			assert.Equal(t, tt.stock, ing.CurrentStock)

			var topics []string
			for _, ev := range n.events {
				topics = append(topics, ev.topic)
			}
			assert.Equal(t, tt.wantTopics, topics)
			assert.Equal(t, domain.StockUpdate{Type: domain.EventStockUpdate, IngredientID: 1, NewStock: tt.stock}, n.events[0].payload)
		})
	}
}

func TestUpdateStockRejectsNegative(t *testing.T) {
	repo := newMemIngredients(domain.Ingredient{ID: 1, Name: "Flour", CurrentStock: 100})
	n := &recordingNotifier{}
	svc := NewIngredientService(repo, n, usageStub{})

	_, err := svc.UpdateStock(context.Background(), 1, -5)
	assert.ErrorIs(t, err, domain.ErrInvalidStock)
	assert.Empty(t, n.events)

	ing, _ := repo.GetByID(context.Background(), 1)
	assert.Equal(t, 100.0, ing.CurrentStock)
}

func TestDeleteBlockedWhileReferenced(t *testing.T) {
	repo := newMemIngredients(domain.Ingredient{ID: 1, Name: "Flour"})

	err := NewIngredientService(repo, &recordingNotifier{}, usageStub{used: true}).Delete(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrIngredientInUse)
	_, err = repo.GetByID(context.Background(), 1)
	require.NoError(t, err, "ingredient must survive a blocked delete")

	err = NewIngredientService(repo, &recordingNotifier{}, usageStub{err: errors.New("db down")}).Delete(context.Background(), 1)
	assert.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrIngredientInUse)

	require.NoError(t, NewIngredientService(repo, &recordingNotifier{}, usageStub{}).Delete(context.Background(), 1))
	_, err = repo.GetByID(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrIngredientNotFound)
}

func TestStockCounts(t *testing.T) {
	repo := newMemIngredients(
		domain.Ingredient{ID: 1, Name: "Flour", CurrentStock: 100, Threshold: 20},
		domain.Ingredient{ID: 2, Name: "Salt", CurrentStock: 20, Threshold: 20},
		domain.Ingredient{ID: 3, Name: "Oil", CurrentStock: 0, Threshold: 5},
	)
	svc := NewIngredientService(repo, &recordingNotifier{}, usageStub{})
	ctx := context.Background()

	low, err := svc.LowStock(ctx)
	require.NoError(t, err)
	assert.Len(t, low, 2)

	out, err := svc.OutOfStockCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, out)

	well, err := svc.WellStockedCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, well)

	st, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.StockStats{Total: 3, LowStock: 2, OutOfStock: 1, WellStocked: 1}, st)
}
