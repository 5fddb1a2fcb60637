package navigate

import (
	"context"
	"path"

	"github.com/orders-dashboard/internal/logger"
	"github.com/orders-dashboard/internal/state"
	"go.uber.org/zap"
)

const EventNavigate = "navigate"

// Navigator changes the route displayed by the dashboard.
type Navigator interface {
	NavigateTo(ctx context.Context, segments ...string)
	// Generation changes every time the displayed route changes, whoever
	// changed it.
	Generation() uint64
}

type Broadcaster interface {
	Broadcast(name string, payload any)
}

type navigateEvent struct {
	Path string `json:"path"`
}

// Router tracks the route shown in the browser. Server-side navigations are
// pushed to the UI; the UI reports its own navigations through Observe.
type Router struct {
	route *state.Cell[string]
	out   Broadcaster
}

func NewRouter(out Broadcaster) *Router {
	return &Router{route: state.NewCell(""), out: out}
}

func (r *Router) NavigateTo(ctx context.Context, segments ...string) {
	p := Join(segments...)
	r.route.Set(p)
	r.out.Broadcast(EventNavigate, navigateEvent{Path: p})
	logger.FromContext(ctx).Info("navigate", zap.String("path", p))
}

// Observe records a navigation the user made in the browser.
func (r *Router) Observe(p string) {
	r.route.Set(Join(p))
}

func (r *Router) Current() string {
	return r.route.Get()
}

func (r *Router) Generation() uint64 {
	return r.route.Version()
}

// Join builds an absolute route from path segments.
func Join(segments ...string) string {
	return path.Join(append([]string{"/"}, segments...)...)
}
