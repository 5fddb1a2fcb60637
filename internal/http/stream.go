package http

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/orders-dashboard/internal/model"
)

const (
	EventOrders = "orders"
	EventPage   = "page"
)

// Events streams notifications, prompts, redirects and order state to one
// browser tab until it disconnects.
func (h *Handler) Events(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	client := h.events.AddClient()
	defer h.events.RemoveClient(client)

	c.Status(http.StatusOK)
	c.SSEvent("connected", "{}")
	c.Writer.Flush()

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case evt := <-client:
			c.SSEvent(evt.Name, evt.Data)
			return true
		}
	})
}

// StreamState pushes every order state change to the event stream. The
// returned func stops it.
func (h *Handler) StreamState() func() {
	view := h.orders.State()
	stopOrders := view.SubscribeOrders(func(orders []model.Order) {
		if orders == nil {
			orders = []model.Order{}
		}
		h.events.Broadcast(EventOrders, orders)
	})
	stopPage := view.SubscribeLastPage(func(page *model.OrderPage) {
		h.events.Broadcast(EventPage, page)
	})
	return func() {
		stopOrders()
		stopPage()
	}
}
