package common

import (
	"fmt"
	"time"
)

// Trade is the immutable record of one fill: a buyer and a seller matched
// for Size at Price. Once appended to a book's trade log it is never
// mutated again.
type Trade struct {
	TradeID     string // engine-assigned, e.g. "TRADE-00000001"
	BuyOrderID  string
	BuyUserID   string
	SellOrderID string
	SellUserID  string
	Size        uint64
	Price       float64
	Timestamp   time.Time
}

func (t Trade) String() string {
	return fmt.Sprintf(
		"Trade{ID: %s, Buy: %s/%s, Sell: %s/%s, Size: %d, Price: %.4f, Timestamp: %v}",
		t.TradeID, t.BuyOrderID, t.BuyUserID, t.SellOrderID, t.SellUserID,
		t.Size, t.Price, t.Timestamp.Format(time.RFC3339Nano),
	)
}
