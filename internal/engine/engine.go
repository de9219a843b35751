// Package engine implements MatchingEngine/Book: the top-level component
// that owns a bid BookSide and an ask BookSide, routes an incoming order to
// the opposite side for crossing, synthesizes Trade records from the fills
// that come back, rests any remainder on the same side, and retains an
// append-only trade log for replay and lookup.
//
// This completes what the teacher repo's internal/engine.Engine.Trade left
// as two FIXMEs ("fire an execution report", "log an internal trade") —
// here that synthesis is the core of Submit.
package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/adamjr36/OrderBook/internal/book"
	"github.com/adamjr36/OrderBook/internal/common"
)

var (
	// ErrDuplicateOrderID is returned by Submit when order_id belongs to an
	// order that has rested on either side of the book and has not been
	// cancelled; an order that rested and was later fully filled still
	// counts, so its id is rejected too. The spec's source material
	// silently overwrote the id->level mapping on a duplicate submission;
	// this repository adopts the spec's recommended re-design of rejecting
	// it instead (see SPEC_FULL.md §9).
	ErrDuplicateOrderID = errors.New("engine: order id already active")
)

// Book owns one instrument's bid side, ask side, and trade log. The zero
// value is not usable; construct with NewBook.
type Book struct {
	bids *book.BookSide
	asks *book.BookSide

	trades   []common.Trade
	tradeSeq uint64

	// activeIDs tracks order ids that have rested on either side, purely
	// to give Submit an O(1) duplicate check without having to probe both
	// sides' OrderIdIndex before routing. Cancel removes an id; a resting
	// order that is fully filled keeps its id here.
	activeIDs map[string]struct{}
}

// NewBook constructs an empty single-instrument order book.
func NewBook() *Book {
	return &Book{
		bids:      book.NewBuySide(),
		asks:      book.NewSellSide(),
		activeIDs: make(map[string]struct{}),
	}
}

// Submit admits a new order. It validates the order, copies it, crosses it
// against the opposite side, synthesizes and appends a Trade per fill, and
// rests any unfilled remainder on the same side. It returns the ordered
// list of generated trade ids (possibly empty) in the order the
// counterparties were consumed.
func (b *Book) Submit(o common.Order) ([]string, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if _, active := b.activeIDs[o.OrderID]; active {
		return nil, ErrDuplicateOrderID
	}

	in := o // owned copy
	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}

	var fills []book.Fill
	if in.Side == common.Buy {
		fills = b.asks.ExecuteAgainst(&in)
	} else {
		fills = b.bids.ExecuteAgainst(&in)
	}

	tradeIDs := make([]string, 0, len(fills))
	for _, f := range fills {
		t := b.synthesizeTrade(in, f)
		b.trades = append(b.trades, t)
		tradeIDs = append(tradeIDs, t.TradeID)
	}

	if in.Quantity > 0 {
		if in.Side == common.Buy {
			b.bids.AddResting(in)
		} else {
			b.asks.AddResting(in)
		}
		b.activeIDs[in.OrderID] = struct{}{}
	}

	return tradeIDs, nil
}

// synthesizeTrade builds a Trade from the incoming (aggressor) order and
// one Fill against a resting counterparty. The trade price is always the
// resting order's price (SPEC_FULL.md §9's resolved Open Question); the
// buyer/seller fields are selected by the incoming order's side.
func (b *Book) synthesizeTrade(incoming common.Order, f book.Fill) common.Trade {
	b.tradeSeq++
	t := common.Trade{
		TradeID:   fmt.Sprintf("TRADE-%08d", b.tradeSeq),
		Size:      f.Size,
		Price:     f.Counterparty.Price,
		Timestamp: time.Now(),
	}
	if incoming.Side == common.Buy {
		t.BuyOrderID, t.BuyUserID = incoming.OrderID, incoming.UserID
		t.SellOrderID, t.SellUserID = f.Counterparty.OrderID, f.Counterparty.UserID
	} else {
		t.SellOrderID, t.SellUserID = incoming.OrderID, incoming.UserID
		t.BuyOrderID, t.BuyUserID = f.Counterparty.OrderID, f.Counterparty.UserID
	}
	return t
}

// Cancel tries to remove order_id from the bid side, then the ask side.
// Reports whether it was found and removed.
func (b *Book) Cancel(orderID string) bool {
	if b.bids.Cancel(orderID) {
		delete(b.activeIDs, orderID)
		return true
	}
	if b.asks.Cancel(orderID) {
		delete(b.activeIDs, orderID)
		return true
	}
	return false
}

// BestBid returns the best (highest) resting bid price, or 0 if the bid
// side is empty.
func (b *Book) BestBid() float64 {
	p, ok := b.bids.BestPrice()
	if !ok {
		return 0
	}
	return p
}

// BestAsk returns the best (lowest) resting ask price, or 0 if the ask
// side is empty.
func (b *Book) BestAsk() float64 {
	p, ok := b.asks.BestPrice()
	if !ok {
		return 0
	}
	return p
}

// Depth returns the top k levels of each side (k=0 means all): bids
// descending by price, asks ascending.
func (b *Book) Depth(k int) (bids, asks []book.LevelView) {
	return b.bids.Depth(k), b.asks.Depth(k)
}

// Trades returns an independent deep copy of the trade log, in append
// order. The returned slice is owned by the caller.
func (b *Book) Trades() []common.Trade {
	out := make([]common.Trade, len(b.trades))
	copy(out, b.trades)
	return out
}

// TradeByID linearly scans the trade log for tradeID. Acceptable given the
// trade volumes typical of a single-instrument book kept in memory.
func (b *Book) TradeByID(tradeID string) (common.Trade, bool) {
	for _, t := range b.trades {
		if t.TradeID == tradeID {
			return t, true
		}
	}
	return common.Trade{}, false
}
