package domain

// Event is the sealed set of messages the Engine broadcasts out through
// the Dispatcher to every connected Session.
type Event interface {
	isEvent()
}

// AckEvent confirms a NewOrderRequest was accepted (before any matching).
type AckEvent struct {
	ClientID uint64
	OrderID  uint64
	Symbol   string
}

func (AckEvent) isEvent() {}

// CancelAckEvent confirms an order left the book, either via an explicit
// Cancel or as part of a Flush drain.
type CancelAckEvent struct {
	ClientID uint64
	OrderID  uint64
	Symbol   string
}

func (CancelAckEvent) isEvent() {}

// TradeEvent reports one execution. Price is the passive order's price.
type TradeEvent struct {
	Symbol       string
	BuyClientID  uint64
	BuyOrderID   uint64
	SellClientID uint64
	SellOrderID  uint64
	Price        int64
	Qty          int64
}

func (TradeEvent) isEvent() {}

// Quote is one side's best price and the aggregate quantity resting at
// that single price level.
type Quote struct {
	Price int64
	Qty   int64
}

// TopOfBookEvent reports the current best bid/ask for a symbol. A nil
// side means that side is empty (encoders render this as the wire
// sentinel of price=0, qty=0).
type TopOfBookEvent struct {
	Symbol   string
	BestBid  *Quote
	BestAsk  *Quote
}

func (TopOfBookEvent) isEvent() {}
