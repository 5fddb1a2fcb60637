package navigate

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedEvent struct {
	name    string
	payload any
}

type fakeBroadcaster struct {
	events []recordedEvent
}

func (f *fakeBroadcaster) Broadcast(name string, payload any) {
	f.events = append(f.events, recordedEvent{name: name, payload: payload})
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "/admin/dashboard/ordenes", Join("/admin/dashboard/ordenes"))
	assert.Equal(t, "/admin/dashboard/ordenes/42/editar", Join("/admin/dashboard/ordenes", "42", "editar"))
	assert.Equal(t, "/admin/x", Join("admin", "x/"))
	assert.Equal(t, "/", Join())
}

func TestNavigateToBroadcasts(t *testing.T) {
	out := &fakeBroadcaster{}
	r := NewRouter(out)

	r.NavigateTo(context.Background(), "/admin/dashboard/ordenes", "7", "editar")

	assert.Equal(t, "/admin/dashboard/ordenes/7/editar", r.Current())
	require.Len(t, out.events, 1)
	assert.Equal(t, EventNavigate, out.events[0].name)
	assert.Equal(t, navigateEvent{Path: "/admin/dashboard/ordenes/7/editar"}, out.events[0].payload)
}

func TestGenerationTracksBothSides(t *testing.T) {
	out := &fakeBroadcaster{}
	r := NewRouter(out)
	g0 := r.Generation()

	r.Observe("/admin/dashboard/productos")
	g1 := r.Generation()
	assert.Greater(t, g1, g0)
	assert.Empty(t, out.events)

	r.NavigateTo(context.Background(), "/admin/dashboard/ordenes")
	assert.Greater(t, r.Generation(), g1)
}
