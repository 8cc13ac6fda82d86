package registry

import (
	"sort"

	orderbookv1 "github.com/thesushilsharma/Liquid-Matrix/services/matching-engine/internal/domain/orderbook/v1"
)

// Registry is the canonical record of every order ever created, keyed by id.
// It owns the *Order values the book points at. Not safe for concurrent use.
type Registry struct {
	orders map[string]*orderbookv1.Order
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{orders: make(map[string]*orderbookv1.Order)}
}

// Add records order. Ids are generated by the engine and never collide.
func (r *Registry) Add(order *orderbookv1.Order) {
	r.orders[order.ID] = order
}

// Lookup returns the live order for id. Callers inside the engine may mutate it.
func (r *Registry) Lookup(id string) (*orderbookv1.Order, bool) {
	order, ok := r.orders[id]
	return order, ok
}

// Get returns a copy of the order.
func (r *Registry) Get(id string) (orderbookv1.Order, bool) {
	order, ok := r.orders[id]
	if !ok {
		return orderbookv1.Order{}, false
	}
	return *order, true
}

// All returns copies of every order, oldest first.
func (r *Registry) All() []orderbookv1.Order {
	return r.collect(func(*orderbookv1.Order) bool { return true })
}

// Active returns copies of OPEN and PARTIAL orders, newest first.
func (r *Registry) Active() []orderbookv1.Order {
	orders := r.collect((*orderbookv1.Order).IsActive)
	for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
		orders[i], orders[j] = orders[j], orders[i]
	}
	return orders
}

func (r *Registry) collect(keep func(*orderbookv1.Order) bool) []orderbookv1.Order {
	orders := make([]orderbookv1.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if keep(order) {
			orders = append(orders, *order)
		}
	}
	sort.Slice(orders, func(i, j int) bool { return orders[i].Sequence < orders[j].Sequence })
	return orders
}

// Len returns the number of orders ever recorded since the last reset.
func (r *Registry) Len() int {
	return len(r.orders)
}

// Reset forgets every order.
func (r *Registry) Reset() {
	r.orders = make(map[string]*orderbookv1.Order)
}
