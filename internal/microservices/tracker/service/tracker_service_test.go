package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/tracker/models"
)

type fakeRepo struct {
	views map[int64]models.OrderView
	log   []domain.StatusLogEntry

	gotLimit, gotOffset int
}

func (f *fakeRepo) GetOrderView(_ context.Context, id int64) (models.OrderView, bool, error) {
	v, ok := f.views[id]
	return v, ok, nil
}

func (f *fakeRepo) GetOrderTimeline(_ context.Context, id int64, limit, offset int) ([]domain.StatusLogEntry, error) {
	f.gotLimit, f.gotOffset = limit, offset
	var out []domain.StatusLogEntry
	for _, e := range f.log {
		if e.OrderID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestTimeline(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo := &fakeRepo{
		views: map[int64]models.OrderView{1: {OrderID: 1, Status: domain.StatusReady}, 2: {OrderID: 2}},
		log: []domain.StatusLogEntry{
			{OrderID: 1, Status: domain.StatusPending, ChangedBy: "order-service", ChangedAt: at},
			{OrderID: 1, Status: domain.StatusReady, ChangedBy: "chef", ChangedAt: at.Add(time.Minute)},
		},
	}
	svc := NewTrackerService(repo)

	tl, err := svc.GetOrderTimeline(context.Background(), 1, 0, -3)
	require.NoError(t, err)
	assert.Len(t, tl.Events, 2)
	assert.Equal(t, maxTimelineLimit, repo.gotLimit)
	assert.Zero(t, repo.gotOffset)

	tl, err = svc.GetOrderTimeline(context.Background(), 2, 10, 0)
	require.NoError(t, err)
	assert.NotNil(t, tl.Events)
	assert.Empty(t, tl.Events)

	_, err = svc.GetOrderTimeline(context.Background(), 3, 10, 0)
	assert.ErrorIs(t, err, domain.ErrOrderNotFound)
}

func TestOrderViewMarksFinalStatuses(t *testing.T) {
	repo := &fakeRepo{views: map[int64]models.OrderView{
		1: {OrderID: 1, Status: domain.StatusReady},
		2: {OrderID: 2, Status: domain.StatusDelivered},
		3: {OrderID: 3, Status: domain.StatusCancelled},
	}}
	svc := NewTrackerService(repo)

	for id, want := range map[int64]bool{1: false, 2: true, 3: true} {
		v, err := svc.GetOrderView(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, want, v.Final, "order %d", id)
	}
}
