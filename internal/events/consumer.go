package events

import (
	"context"

	"github.com/goccy/go-json"
	"github.com/orders-dashboard/internal/model"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Refresher reloads the orders currently shown.
type Refresher interface {
	RefreshOrders(ctx context.Context) error
}

// Consumer refreshes the local order list when another dashboard instance
// changes orders.
type Consumer struct {
	client     *redis.Client
	refresher  Refresher
	instanceID string
	log        *zap.Logger
}

func NewConsumer(client *redis.Client, refresher Refresher, instanceID string, log *zap.Logger) *Consumer {
	return &Consumer{client: client, refresher: refresher, instanceID: instanceID, log: log}
}

// Subscribe blocks until ctx is done.
func (c *Consumer) Subscribe(ctx context.Context) error {
	sub := c.client.PSubscribe(ctx, ChannelPattern)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return err
	}
	c.log.Info("subscribed to activity", zap.String("pattern", ChannelPattern))

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			c.handleActivity(ctx, msg.Channel, msg.Payload)
		}
	}
}

func (c *Consumer) handleActivity(ctx context.Context, channel, payload string) {
	var activity model.Activity
	if err := json.Unmarshal([]byte(payload), &activity); err != nil {
		c.log.Warn("failed to unmarshal activity", zap.String("channel", channel), zap.Error(err))
		return
	}
	if activity.InstanceID == c.instanceID {
		return
	}

	c.log.Debug("remote activity",
		zap.String("action", string(activity.Action)),
		zap.Int64("order_id", activity.OrderID),
		zap.String("instance_id", activity.InstanceID),
	)
	if err := c.refresher.RefreshOrders(ctx); err != nil {
		c.log.Error("failed to refresh orders after remote activity", zap.Error(err))
	}
}
