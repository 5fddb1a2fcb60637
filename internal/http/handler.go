package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/orders-dashboard/internal/api"
	"github.com/orders-dashboard/internal/logger"
	"github.com/orders-dashboard/internal/model"
	"github.com/orders-dashboard/internal/notify"
	"github.com/orders-dashboard/internal/state"
	"github.com/orders-dashboard/internal/task"
	"go.uber.org/zap"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// OrderFacade is the part of the order service the UI drives.
type OrderFacade interface {
	CreateOrder(req model.OrderRequest) *task.Lazy[*model.Order]
	UpdateOrder(req model.OrderRequest) *task.Lazy[*model.Order]
	ConfirmAndDeleteOrder(ctx context.Context, id int64) string
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	FetchAllOrders(ctx context.Context, page int) error
	FetchOrdersByStatus(ctx context.Context, status model.OrderStatus) error
	UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error
	ShowSuccessMessage(ctx context.Context, text string)
	State() state.OrderView
}

type ConfirmationResolver interface {
	Resolve(ctx context.Context, id string, accept bool) error
}

type RouteObserver interface {
	Observe(path string)
}

type ActivityLister interface {
	Recent(ctx context.Context, limit int) ([]model.Activity, error)
}

// EventStream feeds the browser event stream.
type EventStream interface {
	AddClient() chan notify.Event
	RemoveClient(ch chan notify.Event)
	Broadcast(name string, payload any)
}

type Handler struct {
	orders   OrderFacade
	confirms ConfirmationResolver
	routes   RouteObserver
	events   EventStream
	activity ActivityLister
}

// NewHandler builds the dashboard handler. activity may be nil when no
// audit database is configured.
func NewHandler(orders OrderFacade, confirms ConfirmationResolver, routes RouteObserver, events EventStream, activity ActivityLister) *Handler {
	return &Handler{
		orders:   orders,
		confirms: confirms,
		routes:   routes,
		events:   events,
		activity: activity,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	g := r.Group("/api")

	g.GET("/orders", h.ListOrders)
	g.GET("/orders/page", h.GetLastPage)
	g.POST("/orders/refresh", h.RefreshOrders)
	g.GET("/orders/status/:status", h.ListOrdersByStatus)
	g.GET("/orders/:id", h.GetOrder)
	g.POST("/orders", h.CreateOrder)
	g.PUT("/orders/:id", h.UpdateOrder)
	g.DELETE("/orders/:id", h.DeleteOrder)
	g.PATCH("/orders/:id/status", h.UpdateOrderStatus)

	g.POST("/confirmations/:id", h.ResolveConfirmation)
	g.POST("/navigation", h.ObserveNavigation)
	g.POST("/messages", h.ShowMessage)
	g.GET("/activity", h.ListActivity)
	g.GET("/events", h.Events)
}

func (h *Handler) ListOrders(c *gin.Context) {
	orders := h.orders.State().Orders()
	if orders == nil {
		orders = []model.Order{}
	}
	c.JSON(http.StatusOK, orders)
}

func (h *Handler) GetLastPage(c *gin.Context) {
	page := h.orders.State().LastPage()
	if page == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *Handler) RefreshOrders(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "0"))
	if err != nil || page < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid page"})
		return
	}

	if err := h.orders.FetchAllOrders(c.Request.Context(), page); err != nil {
		backendError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.orders.State().LastPage())
}

func (h *Handler) ListOrdersByStatus(c *gin.Context) {
	status := model.OrderStatus(c.Param("status"))

	if err := h.orders.FetchOrdersByStatus(c.Request.Context(), status); err != nil {
		backendError(c, err)
		return
	}

	h.ListOrders(c)
}

func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), id)
	if err != nil {
		if api.IsNotFound(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		backendError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	var req model.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = 0

	order, err := h.orders.CreateOrder(req).Await(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (h *Handler) UpdateOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req model.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	req.ID = id

	order, err := h.orders.UpdateOrder(req).Await(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, order)
}

// DeleteOrder only asks for confirmation; the order is deleted when the UI
// accepts it through ResolveConfirmation.
func (h *Handler) DeleteOrder(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	confirmationID := h.orders.ConfirmAndDeleteOrder(c.Request.Context(), id)
	c.JSON(http.StatusAccepted, gin.H{"confirmation_id": confirmationID})
}

type statusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := orderID(c)
	if !ok {
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.orders.UpdateOrderStatus(c.Request.Context(), id, req.Status); err != nil {
		backendError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

type confirmationRequest struct {
	Accept *bool `json:"accept" binding:"required"`
}

func (h *Handler) ResolveConfirmation(c *gin.Context) {
	var req confirmationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.confirms.Resolve(c.Request.Context(), c.Param("id"), *req.Accept); err != nil {
		if errors.Is(err, notify.ErrConfirmationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

type navigationRequest struct {
	Path string `json:"path" binding:"required"`
}

func (h *Handler) ObserveNavigation(c *gin.Context) {
	var req navigationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.routes.Observe(req.Path)
	c.Status(http.StatusNoContent)
}

type messageRequest struct {
	Text string `json:"text" binding:"required"`
}

func (h *Handler) ShowMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.orders.ShowSuccessMessage(c.Request.Context(), req.Text)
	c.Status(http.StatusNoContent)
}

func (h *Handler) ListActivity(c *gin.Context) {
	if h.activity == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "activity log disabled"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultActivityLimit)))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
		return
	}
	limit = min(limit, maxActivityLimit)

	activities, err := h.activity.Recent(c.Request.Context(), limit)
	if err != nil {
		logger.FromContext(c.Request.Context()).Error("failed to list activity", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if activities == nil {
		activities = []model.Activity{}
	}

	c.JSON(http.StatusOK, activities)
}

func orderID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return 0, false
	}
	return id, true
}

// backendError answers for a failed backend call. The user already got a
// notification; the body carries the same message for the caller.
func backendError(c *gin.Context, err error) {
	msg := api.MessageOf(err)
	if msg == "" {
		msg = err.Error()
	}
	c.JSON(http.StatusBadGateway, gin.H{"error": msg})
}
