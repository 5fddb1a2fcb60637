package repo

import (
	"context"
	"database/sql"

	"github.com/orders-dashboard/internal/model"
)

type PostgresActivityRepository struct {
	db *sql.DB
}

func NewPostgresActivityRepository(db *sql.DB) *PostgresActivityRepository {
	return &PostgresActivityRepository{db: db}
}

func (r *PostgresActivityRepository) Record(ctx context.Context, a *model.Activity) error {
	query := `INSERT INTO admin_activity (id, instance_id, action, order_id, status, created_at) VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query, a.ID, a.InstanceID, string(a.Action), a.OrderID, string(a.Status), a.CreatedAt)
	return err
}

func (r *PostgresActivityRepository) Recent(ctx context.Context, limit int) ([]model.Activity, error) {
	query := `SELECT id, instance_id, action, order_id, status, created_at FROM admin_activity ORDER BY created_at DESC LIMIT $1`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	activities := make([]model.Activity, 0, limit)
	for rows.Next() {
		var a model.Activity
		var action, status string
		if err := rows.Scan(&a.ID, &a.InstanceID, &action, &a.OrderID, &status, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.Action = model.ActivityAction(action)
		a.Status = model.OrderStatus(status)
		activities = append(activities, a)
	}
	return activities, rows.Err()
}
