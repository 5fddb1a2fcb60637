package api

import (
	"context"

	"github.com/orders-dashboard/internal/model"
)

// OrderAPI is the backend surface the dashboard uses for orders.
type OrderAPI interface {
	CreateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error)
	UpdateOrder(ctx context.Context, req model.OrderRequest) (*model.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	GetAllOrders(ctx context.Context, page int) (*model.OrderPage, error)
	GetOrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error
}
