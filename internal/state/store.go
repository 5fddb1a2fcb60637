package state

import (
	"slices"

	"github.com/orders-dashboard/internal/model"
	"github.com/samber/lo"
)

// OrderView is the read side of the order state handed to UI consumers.
type OrderView interface {
	Orders() []model.Order
	LastPage() *model.OrderPage
	SubscribeOrders(fn func([]model.Order)) (unsubscribe func())
	SubscribeLastPage(fn func(*model.OrderPage)) (unsubscribe func())
}

// OrderStore holds the orders currently displayed and the last page
// response. Only the order facade mutates it.
type OrderStore struct {
	orders   *Cell[[]model.Order]
	lastPage *Cell[*model.OrderPage]
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders:   NewCell[[]model.Order](nil),
		lastPage: NewCell[*model.OrderPage](nil),
	}
}

func (s *OrderStore) Orders() []model.Order {
	return slices.Clone(s.orders.Get())
}

func (s *OrderStore) LastPage() *model.OrderPage {
	page := s.lastPage.Get()
	if page == nil {
		return nil
	}
	cp := *page
	cp.Content = slices.Clone(page.Content)
	return &cp
}

func (s *OrderStore) SubscribeOrders(fn func([]model.Order)) func() {
	return s.orders.Subscribe(func(orders []model.Order) { fn(slices.Clone(orders)) })
}

func (s *OrderStore) SubscribeLastPage(fn func(*model.OrderPage)) func() {
	return s.lastPage.Subscribe(fn)
}

// ReplacePage stores a full page response and its content as the order list.
func (s *OrderStore) ReplacePage(page *model.OrderPage) {
	s.orders.Set(slices.Clone(page.Content))
	s.lastPage.Set(page)
}

// ReplaceOrders replaces the order list and leaves the last page untouched.
func (s *OrderStore) ReplaceOrders(orders []model.Order) {
	s.orders.Set(slices.Clone(orders))
}

// RemoveOrder drops every order with the given id from the list.
func (s *OrderStore) RemoveOrder(id int64) {
	s.orders.Update(func(orders []model.Order) []model.Order {
		return lo.Filter(orders, func(o model.Order, _ int) bool { return o.ID != id })
	})
}
