package service

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/orders-dashboard/internal/api"
	"github.com/orders-dashboard/internal/events"
	"github.com/orders-dashboard/internal/logger"
	"github.com/orders-dashboard/internal/metrics"
	"github.com/orders-dashboard/internal/model"
	"github.com/orders-dashboard/internal/navigate"
	"github.com/orders-dashboard/internal/notify"
	"github.com/orders-dashboard/internal/state"
	"github.com/orders-dashboard/internal/task"
	"go.uber.org/zap"
)

// OrdersRoute is the orders list page.
const OrdersRoute = "/admin/dashboard/ordenes"

const (
	DefaultRedirectDelay       = 1200 * time.Millisecond
	DefaultStatusRedirectDelay = 650 * time.Millisecond
)

// OrderError is returned by create, update and delete. Error() is the fixed
// message shown to the user; the backend failure stays reachable through
// errors.Is/As.
type OrderError struct {
	Op      string
	Message string
	Err     error
}

func (e *OrderError) Error() string { return e.Message }

func (e *OrderError) Unwrap() error { return e.Err }

type Config struct {
	API       api.OrderAPI
	Sink      notify.Sink
	Navigator navigate.Navigator
	// Scheduler defaults to task.TimerScheduler.
	Scheduler task.Scheduler
	// Publisher is optional.
	Publisher  events.Publisher
	InstanceID string

	RedirectDelay       time.Duration
	StatusRedirectDelay time.Duration
}

// OrderService is the entry point UI handlers use for orders. It owns the
// order state and turns every backend outcome into notifications and
// redirects.
type OrderService struct {
	api        api.OrderAPI
	store      *state.OrderStore
	sink       notify.Sink
	nav        navigate.Navigator
	sched      task.Scheduler
	publisher  events.Publisher
	instanceID string

	redirectDelay       time.Duration
	statusRedirectDelay time.Duration

	navMu      sync.Mutex
	pendingNav task.Timer

	ready chan struct{}
}

// NewOrderService builds the service and starts loading page 0. Ready is
// closed once that first fetch settles.
func NewOrderService(ctx context.Context, cfg Config) *OrderService {
	s := &OrderService{
		api:                 cfg.API,
		store:               state.NewOrderStore(),
		sink:                cfg.Sink,
		nav:                 cfg.Navigator,
		sched:               cfg.Scheduler,
		publisher:           cfg.Publisher,
		instanceID:          cfg.InstanceID,
		redirectDelay:       cfg.RedirectDelay,
		statusRedirectDelay: cfg.StatusRedirectDelay,
		ready:               make(chan struct{}),
	}
	if s.sched == nil {
		s.sched = task.TimerScheduler{}
	}
	if s.redirectDelay <= 0 {
		s.redirectDelay = DefaultRedirectDelay
	}
	if s.statusRedirectDelay <= 0 {
		s.statusRedirectDelay = DefaultStatusRedirectDelay
	}

	go func() {
		defer close(s.ready)
		_ = s.FetchAllOrders(ctx, 0)
	}()

	return s
}

func (s *OrderService) Ready() <-chan struct{} {
	return s.ready
}

// State exposes the order state read-only.
func (s *OrderService) State() state.OrderView {
	return s.store
}

// CreateOrder returns the pending creation. Nothing is sent until Await.
func (s *OrderService) CreateOrder(req model.OrderRequest) *task.Lazy[*model.Order] {
	return task.NewLazy(func(ctx context.Context) (*model.Order, error) {
		log := logger.FromContext(ctx)

		order, err := s.api.CreateOrder(ctx, req)
		s.observe("create_order", err)
		if err != nil {
			log.Error("failed to create order", zap.Error(err))
			s.notifyError(ctx, summaryCreateFailed, detailCreateFailed)
			return nil, &OrderError{Op: "create", Message: errCreateFailed, Err: err}
		}

		_ = s.FetchAllOrders(ctx, 0)
		s.ShowSuccessMessage(ctx, msgOrderCreated)
		s.navigateLater(ctx, s.redirectDelay, OrdersRoute)
		s.publish(ctx, model.ActivityOrderCreated, order.ID, order.Status)

		log.Info("order created", zap.Int64("order_id", order.ID))
		return order, nil
	})
}

// UpdateOrder returns the pending update. On success the user lands on the
// order's edit page.
func (s *OrderService) UpdateOrder(req model.OrderRequest) *task.Lazy[*model.Order] {
	return task.NewLazy(func(ctx context.Context) (*model.Order, error) {
		log := logger.FromContext(ctx).With(zap.Int64("order_id", req.ID))

		order, err := s.api.UpdateOrder(ctx, req)
		s.observe("update_order", err)
		if err != nil {
			log.Error("failed to update order", zap.Error(err))
			s.notifyError(ctx, summaryUpdateFailed, detailUpdateFailed)
			return nil, &OrderError{Op: "update", Message: errUpdateFailed, Err: err}
		}

		_ = s.FetchAllOrders(ctx, 0)
		s.ShowSuccessMessage(ctx, msgOrderUpdated)
		s.navigateLater(ctx, s.redirectDelay, OrdersRoute, strconv.FormatInt(req.ID, 10), "editar")
		s.publish(ctx, model.ActivityOrderUpdated, req.ID, order.Status)

		log.Info("order updated")
		return order, nil
	})
}

// ConfirmAndDeleteOrder asks the user to confirm and deletes only on
// acceptance. It returns the confirmation id.
func (s *OrderService) ConfirmAndDeleteOrder(ctx context.Context, id int64) string {
	return s.sink.Confirm(ctx, notify.Confirmation{
		Header:  headerDeleteConfirm,
		Message: messageDeleteConfirm,
		Icon:    iconDeleteConfirm,
		OnAccept: func(ctx context.Context) {
			if _, err := s.deleteOrder(id).Await(ctx); err != nil {
				s.notifyError(ctx, summaryDeleteFailed, err.Error())
				return
			}
			s.sink.Notify(ctx, notify.Notification{
				Key:      notify.ToastKey,
				Severity: notify.SeveritySuccess,
				Summary:  summaryDeleted,
				Detail:   detailDeleted,
			})
		},
	})
}

func (s *OrderService) deleteOrder(id int64) *task.Lazy[struct{}] {
	return task.NewLazy(func(ctx context.Context) (struct{}, error) {
		log := logger.FromContext(ctx).With(zap.Int64("order_id", id))

		err := s.api.DeleteOrder(ctx, id)
		s.observe("delete_order", err)
		if err != nil {
			log.Error("failed to delete order", zap.Error(err))
			return struct{}{}, &OrderError{Op: "delete", Message: errDeleteFailed, Err: err}
		}

		s.store.RemoveOrder(id)
		s.navigateLater(ctx, s.redirectDelay, OrdersRoute)
		s.publish(ctx, model.ActivityOrderDeleted, id, "")

		log.Info("order deleted")
		return struct{}{}, nil
	})
}

// GetOrder returns the backend answer untouched.
func (s *OrderService) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	return s.api.GetOrder(ctx, id)
}

// FetchAllOrders loads one page and replaces both the order list and the
// last page. Failures are shown to the user and returned.
func (s *OrderService) FetchAllOrders(ctx context.Context, page int) error {
	resp, err := s.api.GetAllOrders(ctx, page)
	s.observe("fetch_all_orders", err)
	if err != nil {
		logger.FromContext(ctx).Error("failed to fetch orders", zap.Int("page", page), zap.Error(err))
		s.notifyError(ctx, summaryFetchFailed, detailOf(err))
		return err
	}

	s.store.ReplacePage(resp)
	return nil
}

// FetchOrdersByStatus replaces the order list only; the last page response
// is kept.
func (s *OrderService) FetchOrdersByStatus(ctx context.Context, status model.OrderStatus) error {
	orders, err := s.api.GetOrdersByStatus(ctx, status)
	s.observe("fetch_orders_by_status", err)
	if err != nil {
		logger.FromContext(ctx).Error("failed to fetch orders by status", zap.String("status", string(status)), zap.Error(err))
		s.notifyError(ctx, fmt.Sprintf(summaryFetchStatusFailed, status), detailOf(err))
		return err
	}

	s.store.ReplaceOrders(orders)
	return nil
}

func (s *OrderService) UpdateOrderStatus(ctx context.Context, id int64, status model.OrderStatus) error {
	log := logger.FromContext(ctx).With(zap.Int64("order_id", id), zap.String("status", string(status)))

	err := s.api.UpdateOrderStatus(ctx, id, status)
	s.observe("update_order_status", err)
	if err != nil {
		log.Error("failed to update order status", zap.Error(err))
		s.notifyError(ctx, fmt.Sprintf(summaryStatusFailed, id, status), detailOf(err))
		return err
	}

	_ = s.FetchOrdersByStatus(ctx, model.StatusAll)
	s.navigateLater(ctx, s.statusRedirectDelay, OrdersRoute)
	s.publish(ctx, model.ActivityOrderStatusChanged, id, status)

	log.Info("order status updated")
	return nil
}

// RefreshOrders reloads the page currently shown, page 0 if none was loaded.
func (s *OrderService) RefreshOrders(ctx context.Context) error {
	page := 0
	if last := s.store.LastPage(); last != nil {
		page = last.Number
	}
	return s.FetchAllOrders(ctx, page)
}

func (s *OrderService) ShowSuccessMessage(ctx context.Context, text string) {
	s.sink.Notify(ctx, notify.Notification{
		Key:      notify.ToastKey,
		Severity: notify.SeveritySuccess,
		Summary:  summarySuccess,
		Detail:   text,
	})
}

// CancelPendingNavigation stops a scheduled redirect. It reports whether one
// was pending.
func (s *OrderService) CancelPendingNavigation() bool {
	s.navMu.Lock()
	defer s.navMu.Unlock()
	return s.stopPendingLocked()
}

// Close stops any scheduled redirect.
func (s *OrderService) Close() {
	s.CancelPendingNavigation()
}

// navigateLater schedules a redirect. A newer redirect replaces an older
// pending one, and a redirect is dropped if the route changed after it was
// scheduled.
func (s *OrderService) navigateLater(ctx context.Context, delay time.Duration, segments ...string) {
	log := logger.FromContext(ctx)
	navCtx := context.WithoutCancel(ctx)
	generation := s.nav.Generation()

	s.navMu.Lock()
	defer s.navMu.Unlock()

	s.stopPendingLocked()

	var timer task.Timer
	timer = s.sched.AfterFunc(delay, func() {
		s.navMu.Lock()
		if s.pendingNav == timer {
			s.pendingNav = nil
		}
		s.navMu.Unlock()

		if s.nav.Generation() != generation {
			metrics.Navigations.WithLabelValues("stale").Inc()
			log.Info("redirect dropped, route changed", zap.String("path", navigate.Join(segments...)))
			return
		}
		metrics.Navigations.WithLabelValues("fired").Inc()
		s.nav.NavigateTo(navCtx, segments...)
	})
	s.pendingNav = timer
}

func (s *OrderService) stopPendingLocked() bool {
	if s.pendingNav == nil {
		return false
	}
	stopped := s.pendingNav.Stop()
	s.pendingNav = nil
	if stopped {
		metrics.Navigations.WithLabelValues("cancelled").Inc()
	}
	return stopped
}

func (s *OrderService) notifyError(ctx context.Context, summary, detail string) {
	s.sink.Notify(ctx, notify.Notification{
		Key:      notify.ToastKey,
		Severity: notify.SeverityError,
		Summary:  summary,
		Detail:   detail,
	})
}

func (s *OrderService) publish(ctx context.Context, action model.ActivityAction, orderID int64, status model.OrderStatus) {
	if s.publisher == nil {
		return
	}
	activity := model.Activity{
		ID:         uuid.New().String(),
		InstanceID: s.instanceID,
		Action:     action,
		OrderID:    orderID,
		Status:     status,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, activity); err != nil {
		logger.FromContext(ctx).Warn("failed to publish activity",
			zap.String("action", string(action)),
			zap.Int64("order_id", orderID),
			zap.Error(err),
		)
	}
}

func (s *OrderService) observe(op string, err error) {
	metrics.OrderOperations.WithLabelValues(op, metrics.Outcome(err)).Inc()
}

func detailOf(err error) string {
	if msg := api.MessageOf(err); msg != "" {
		return msg
	}
	return detailUnknownError
}
