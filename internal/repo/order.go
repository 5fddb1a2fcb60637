package repo

import (
	"context"

	"github.com/orders-dashboard/internal/model"
)

// ActivityRepository stores the admin audit log.
type ActivityRepository interface {
	Record(ctx context.Context, activity *model.Activity) error
	Recent(ctx context.Context, limit int) ([]model.Activity, error)
}
