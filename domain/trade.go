package domain

import "github.com/google/uuid"

// Trade is a single execution between an aggressive and a passive order.
// Price is always the passive (resting) order's price.
type Trade struct {
	// ID is an internal correlation id, not part of the CSV/binary wire
	// contract (spec.md §6); it is not copied into domain.TradeEvent.
	ID string

	Symbol string
	Price  int64
	Qty    int64

	BuyClientID  uint64
	BuyOrderID   uint64
	SellClientID uint64
	SellOrderID  uint64
}

// NewTrade builds a Trade from the aggressive/passive pairing already
// resolved by the book, tagging it with a fresh correlation id.
func NewTrade(symbol string, price, qty int64, buyClientID, buyOrderID, sellClientID, sellOrderID uint64) Trade {
	return Trade{
		ID:           uuid.NewString(),
		Symbol:       symbol,
		Price:        price,
		Qty:          qty,
		BuyClientID:  buyClientID,
		BuyOrderID:   buyOrderID,
		SellClientID: sellClientID,
		SellOrderID:  sellOrderID,
	}
}
