package model

import "time"

type ActivityAction string

const (
	ActivityOrderCreated       ActivityAction = "order.created"
	ActivityOrderUpdated       ActivityAction = "order.updated"
	ActivityOrderDeleted       ActivityAction = "order.deleted"
	ActivityOrderStatusChanged ActivityAction = "order.status_changed"
)

// Activity records one admin change made through a dashboard instance.
type Activity struct {
	ID         string         `json:"id"`
	InstanceID string         `json:"instance_id"`
	Action     ActivityAction `json:"action"`
	OrderID    int64          `json:"order_id"`
	Status     OrderStatus    `json:"status,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}
