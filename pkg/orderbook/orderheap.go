package orderbook

import "sort"

// OrderHeap implements heap.Interface over resting orders of one side.
type OrderHeap struct {
	orders []*Order
	less   func(a, b *Order) bool
}

func NewOrderHeap(less func(a, b *Order) bool, capacity int) *OrderHeap {
	return &OrderHeap{
		orders: make([]*Order, 0, capacity),
		less:   less,
	}
}

func (h OrderHeap) Len() int {
	return len(h.orders)
}

func (h OrderHeap) Less(i, j int) bool {
	return h.less(h.orders[i], h.orders[j])
}

func (h OrderHeap) Swap(i, j int) {
	h.orders[i], h.orders[j] = h.orders[j], h.orders[i]
}

func (h *OrderHeap) Push(x any) {
	h.orders = append(h.orders, x.(*Order))
}

func (h *OrderHeap) Pop() any {
	n := len(h.orders)
	order := h.orders[n-1]
	h.orders[n-1] = nil
	h.orders = h.orders[:n-1]
	return order
}

func (h *OrderHeap) Peek() (*Order, bool) {
	if len(h.orders) == 0 {
		return nil, false
	}
	return h.orders[0], true
}

// Ranked returns a best-first copy of the heap contents. The heap itself is
// left untouched.
func (h *OrderHeap) Ranked() []*Order {
	out := make([]*Order, len(h.orders))
	copy(out, h.orders)
	sort.SliceStable(out, func(i, j int) bool { return h.less(out[i], out[j]) })
	return out
}
