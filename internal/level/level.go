// Package level implements PriceLevel: a FIFO queue of resting orders
// sharing one price, preserving strict arrival-order (time priority) with
// O(1) append/pop-front and O(n) cancellation by order id. The underlying
// structure is a singly-linked list with head/tail pointers, following the
// intrusive-linked-list FIFO shape used for price levels in
// lightsgoout-go-quantcup and ejyy-femto_go — cancellations within a level
// are rare relative to FIFO pops, so an O(n) scan-to-unlink is an
// acceptable price for O(1) append/pop on the common path.
package level

import "github.com/adamjr36/OrderBook/internal/common"

type orderNode struct {
	order common.Order
	next  *orderNode
}

// PriceLevel is the FIFO queue of resting orders at a single price. The
// zero value is not usable; construct with New.
type PriceLevel struct {
	Price         float64
	head          *orderNode
	tail          *orderNode
	totalQuantity uint64
	count         int
}

// New creates an empty price level for the given (immutable) price.
func New(price float64) *PriceLevel {
	return &PriceLevel{Price: price}
}

// AddOrder appends o to the tail of the queue (newest arrival) and adds its
// quantity to the level's aggregate.
func (l *PriceLevel) AddOrder(o common.Order) {
	n := &orderNode{order: o}
	if l.tail != nil {
		l.tail.next = n
	} else {
		l.head = n
	}
	l.tail = n
	l.totalQuantity += o.Quantity
	l.count++
}

// PeekHead returns a copy of the head order (oldest arrival) without
// mutating the queue.
func (l *PriceLevel) PeekHead() (common.Order, bool) {
	if l.head == nil {
		return common.Order{}, false
	}
	return l.head.order, true
}

// PopHead removes and returns the head order, updating the aggregate
// quantity and, if the queue becomes empty, both head and tail pointers.
func (l *PriceLevel) PopHead() (common.Order, bool) {
	if l.head == nil {
		return common.Order{}, false
	}
	o := l.head.order
	l.head = l.head.next
	if l.head == nil {
		l.tail = nil
	}
	l.totalQuantity -= o.Quantity
	l.count--
	return o, true
}

// SetHeadQuantity updates the remaining quantity of the head order in
// place (used for a partial fill that does not fully consume it) and
// refreshes the aggregate.
func (l *PriceLevel) SetHeadQuantity(qty uint64) {
	if l.head == nil {
		return
	}
	delta := l.head.order.Quantity - qty
	l.head.order.Quantity = qty
	l.totalQuantity -= delta
}

// FindByID performs a linear scan for the order with the given id.
func (l *PriceLevel) FindByID(id string) (common.Order, bool) {
	for n := l.head; n != nil; n = n.next {
		if n.order.OrderID == id {
			return n.order, true
		}
	}
	return common.Order{}, false
}

// DeleteByID unlinks the order with the given id, wherever it sits in the
// queue, and updates the aggregate quantity. Reports whether it was found.
func (l *PriceLevel) DeleteByID(id string) bool {
	var prev *orderNode
	for n := l.head; n != nil; n = n.next {
		if n.order.OrderID == id {
			if prev == nil {
				l.head = n.next
			} else {
				prev.next = n.next
			}
			if n == l.tail {
				l.tail = prev
			}
			l.totalQuantity -= n.order.Quantity
			l.count--
			return true
		}
		prev = n
	}
	return false
}

// TotalQuantity returns the aggregate remaining quantity of every resting
// order at this level.
func (l *PriceLevel) TotalQuantity() uint64 {
	return l.totalQuantity
}

// Count returns the number of discrete resting orders at this level.
func (l *PriceLevel) Count() int {
	return l.count
}

// IsEmpty reports whether the queue has no resting orders.
func (l *PriceLevel) IsEmpty() bool {
	return l.head == nil
}

// Orders returns a snapshot slice of every resting order, oldest first.
// Intended for tests and depth views, not the matching hot path.
func (l *PriceLevel) Orders() []common.Order {
	out := make([]common.Order, 0, l.count)
	for n := l.head; n != nil; n = n.next {
		out = append(out, n.order)
	}
	return out
}
