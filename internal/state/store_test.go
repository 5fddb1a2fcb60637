package state

import (
	"testing"

	"github.com/orders-dashboard/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePage() *model.OrderPage {
	return &model.OrderPage{
		Content:       []model.Order{{ID: 1, Status: "PENDING"}, {ID: 2, Status: "PENDING"}, {ID: 3, Status: "DELIVERED"}},
		TotalElements: 3,
		TotalPages:    1,
	}
}

func TestNewOrderStoreIsEmpty(t *testing.T) {
	store := NewOrderStore()

	assert.Empty(t, store.Orders())
	assert.Nil(t, store.LastPage())
}

func TestReplacePageSetsBothSlots(t *testing.T) {
	store := NewOrderStore()
	page := samplePage()

	store.ReplacePage(page)

	assert.Equal(t, page.Content, store.Orders())
	assert.Equal(t, page, store.LastPage())
}

func TestReplaceOrdersKeepsLastPage(t *testing.T) {
	store := NewOrderStore()
	page := samplePage()
	store.ReplacePage(page)

	store.ReplaceOrders([]model.Order{{ID: 9}})

	assert.Equal(t, []model.Order{{ID: 9}}, store.Orders())
	assert.Equal(t, page, store.LastPage())
}

func TestRemoveOrderFiltersByID(t *testing.T) {
	store := NewOrderStore()
	store.ReplacePage(samplePage())

	store.RemoveOrder(2)

	orders := store.Orders()
	require.Len(t, orders, 2)
	assert.Equal(t, int64(1), orders[0].ID)
	assert.Equal(t, int64(3), orders[1].ID)
	assert.Len(t, store.LastPage().Content, 3)
}

func TestOrdersReturnsCopy(t *testing.T) {
	store := NewOrderStore()
	store.ReplacePage(samplePage())

	orders := store.Orders()
	orders[0].ID = 100

	assert.Equal(t, int64(1), store.Orders()[0].ID)
	assert.Equal(t, int64(1), store.LastPage().Content[0].ID)
}

func TestSubscribeOrders(t *testing.T) {
	store := NewOrderStore()

	var lengths []int
	unsubscribe := store.SubscribeOrders(func(orders []model.Order) { lengths = append(lengths, len(orders)) })

	store.ReplacePage(samplePage())
	store.RemoveOrder(1)
	unsubscribe()
	store.ReplaceOrders(nil)

	assert.Equal(t, []int{3, 2}, lengths)
}

var _ OrderView = (*OrderStore)(nil)
