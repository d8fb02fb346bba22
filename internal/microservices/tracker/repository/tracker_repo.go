package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"restaurant-system/internal/domain"
	"restaurant-system/internal/microservices/tracker/models"
)

type TrackerRepoInterface interface {
	GetOrderView(ctx context.Context, id int64) (models.OrderView, bool, error)
	GetOrderTimeline(ctx context.Context, id int64, limit, offset int) ([]domain.StatusLogEntry, error)
}

type TrackerRepo struct {
	db *pgxpool.Pool
}

func NewTrackerRepo(db *pgxpool.Pool) *TrackerRepo { return &TrackerRepo{db: db} }

func (r *TrackerRepo) GetOrderView(ctx context.Context, id int64) (models.OrderView, bool, error) {
	var v models.OrderView
	var status string
	err := r.db.QueryRow(ctx, `
SELECT id, table_number, status, updated_at, delivered_at
FROM orders WHERE id=$1
`, id).Scan(&v.OrderID, &v.TableNumber, &status, &v.UpdatedAt, &v.DeliveredAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.OrderView{}, false, nil
	}
	if err != nil {
		return models.OrderView{}, false, err
	}
	v.Status = domain.OrderStatus(status)
	return v, true, nil
}

func (r *TrackerRepo) GetOrderTimeline(ctx context.Context, id int64, limit, offset int) ([]domain.StatusLogEntry, error) {
	rows, err := r.db.Query(ctx, `
SELECT order_id, status, changed_by, changed_at
FROM order_status_log WHERE order_id=$1
ORDER BY changed_at ASC, id ASC
LIMIT $2 OFFSET $3
`, id, limit, offset)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.StatusLogEntry, error) {
		var e domain.StatusLogEntry
		var status string
		err := row.Scan(&e.OrderID, &status, &e.ChangedBy, &e.ChangedAt)
		e.Status = domain.OrderStatus(status)
		return e, err
	})
}
