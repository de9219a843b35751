// Package book implements BookSide: one side of the order book (bids or
// asks), composing an OrderedPriceIndex (internal/avltree), an OrderIdIndex
// (internal/idindex), and a PriceLevel per distinct price (internal/level)
// into add/cancel/execute/depth operations under strict price-time
// priority.
//
// This is the generalization of the teacher repo's
// internal/engine.OrderBook.handleLimit/Match pair (which walked a
// btree.BTreeG[*PriceLevel] per asset type) down to a single-instrument
// side that owns its own tree + id index instead of sharing one per
// engine-wide asset map.
package book

import (
	"github.com/adamjr36/OrderBook/internal/avltree"
	"github.com/adamjr36/OrderBook/internal/common"
	"github.com/adamjr36/OrderBook/internal/idindex"
	"github.com/adamjr36/OrderBook/internal/level"
)

// Fill records one counterparty consumption during ExecuteAgainst: a
// snapshot of the counterparty order (with Quantity set to the filled
// size, not its original size) and the size filled.
type Fill struct {
	Counterparty common.Order
	Size         uint64
}

// LevelView is a read-only snapshot of one price level's aggregate state,
// returned by Depth.
type LevelView struct {
	Price    float64
	Quantity uint64
}

// BookSide is one side (bid or ask) of a single-instrument order book.
type BookSide struct {
	isBuySide bool
	prices    *avltree.Tree[*level.PriceLevel]
	orders    *idindex.Index[*level.PriceLevel]
}

// NewBuySide constructs the bid side.
func NewBuySide() *BookSide {
	return &BookSide{
		isBuySide: true,
		prices:    avltree.New[*level.PriceLevel](),
		orders:    idindex.New[*level.PriceLevel](),
	}
}

// NewSellSide constructs the ask side.
func NewSellSide() *BookSide {
	return &BookSide{
		isBuySide: false,
		prices:    avltree.New[*level.PriceLevel](),
		orders:    idindex.New[*level.PriceLevel](),
	}
}

// AddResting inserts o as a resting order: it is appended to the
// PriceLevel at o.Price (creating one if absent) and o.OrderID is
// registered in the OrderIdIndex.
func (s *BookSide) AddResting(o common.Order) {
	lvl, ok := s.prices.Get(o.Price)
	if !ok {
		lvl = level.New(o.Price)
		s.prices.Insert(o.Price, lvl)
	}
	lvl.AddOrder(o)
	s.orders.Add(o.OrderID, lvl)
}

// Cancel resolves id through the OrderIdIndex, removes the order from its
// level, removes the id from the index, and — if the level is now empty —
// evicts it from the OrderedPriceIndex. Reports whether anything was
// removed.
func (s *BookSide) Cancel(id string) bool {
	lvl, ok := s.orders.Get(id)
	if !ok {
		return false
	}
	if !lvl.DeleteByID(id) {
		// OrderIdIndex and the level disagree; nothing to clean up beyond
		// the stale index entry itself.
		s.orders.Remove(id)
		return false
	}
	s.orders.Remove(id)
	if lvl.IsEmpty() {
		s.prices.Remove(lvl.Price)
	}
	return true
}

// bestCursor returns a cursor at the most competitive price for this side:
// the maximum for the buy side, the minimum for the sell side.
func (s *BookSide) bestCursor() avltree.Cursor {
	if s.isBuySide {
		return s.prices.Back()
	}
	return s.prices.Front()
}

// advance moves a cursor one step further from the best price: downward in
// competitiveness for the buy side (toward the minimum), upward for the
// sell side (toward the maximum).
func (s *BookSide) advance(c avltree.Cursor) avltree.Cursor {
	if s.isBuySide {
		return s.prices.Prev(c)
	}
	return s.prices.Next(c)
}

// crosses reports whether a resting price on this side crosses against an
// incoming order of the opposite side priced at incomingPrice. ExecuteAgainst
// is always called on the side opposite the incoming order (see
// SPEC_FULL.md §4.4/§9): an incoming buy consumes the ask side, crossing
// a resting ask priced at or below its limit; an incoming sell consumes
// the bid side, crossing a resting bid priced at or above its limit.
func (s *BookSide) crosses(restingPrice, incomingPrice float64, incomingSide common.Side) bool {
	if incomingSide == common.Buy {
		return restingPrice <= incomingPrice
	}
	return restingPrice >= incomingPrice
}

// ExecuteAgainst consumes resting liquidity on this side against incoming,
// which must belong to the opposite side from s. It mutates incoming.Quantity
// in place (subtracting every filled amount) and returns the ordered
// sequence of counterparty fills generated, in the order counterparties
// were consumed (price priority, then FIFO within a price).
func (s *BookSide) ExecuteAgainst(incoming *common.Order) []Fill {
	var fills []Fill

	for incoming.Quantity > 0 {
		price, lvl, ok := s.bestLevel()
		if !ok {
			break
		}
		if !s.crosses(price, incoming.Price, incoming.Side) {
			break
		}

		for !lvl.IsEmpty() && incoming.Quantity > 0 {
			counterparty, _ := lvl.PeekHead()
			fillSize := min(counterparty.Quantity, incoming.Quantity)
			incoming.Quantity -= fillSize

			if fillSize == counterparty.Quantity {
				popped, _ := lvl.PopHead()
				s.orders.Remove(popped.OrderID)
				fills = append(fills, Fill{Counterparty: popped, Size: fillSize})
			} else {
				lvl.SetHeadQuantity(counterparty.Quantity - fillSize)
				snapshot := counterparty
				snapshot.Quantity = fillSize
				fills = append(fills, Fill{Counterparty: snapshot, Size: fillSize})
			}
		}

		if lvl.IsEmpty() {
			s.prices.Remove(price)
		}
	}

	return fills
}

func (s *BookSide) bestLevel() (float64, *level.PriceLevel, bool) {
	if s.isBuySide {
		return s.prices.Max()
	}
	return s.prices.Min()
}

// BestPrice returns the most competitive resting price on this side: the
// maximum for the buy side, the minimum for the sell side. ok is false if
// the side is empty.
func (s *BookSide) BestPrice() (price float64, ok bool) {
	if s.isBuySide {
		p, _, found := s.prices.Max()
		return p, found
	}
	p, _, found := s.prices.Min()
	return p, found
}

// Depth returns the top k price levels in competitiveness order (buy side:
// descending price; sell side: ascending price). k=0 returns every level.
func (s *BookSide) Depth(k int) []LevelView {
	var out []LevelView
	c := s.bestCursor()
	for {
		price, lvl, ok := s.prices.At(c)
		if !ok {
			break
		}
		out = append(out, LevelView{Price: price, Quantity: lvl.TotalQuantity()})
		if k > 0 && len(out) >= k {
			break
		}
		c = s.advance(c)
	}
	return out
}
