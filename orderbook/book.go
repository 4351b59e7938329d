package orderbook

import (
	"github.com/tembolo1284/go-matching-engine/domain"
)

// PriceLevel is a read-only snapshot of one price level, handed out by
// GetDepth for market-data consumers (Engine.BookDepth, used by
// cmd/bench's summary).
type PriceLevel struct {
	Price    int64
	Quantity int64
	Orders   int
}

// Book is a single symbol's order book: two price-ordered sides plus an
// index from order identity to its resting location.
//
// Lock-free by construction: a Book is owned exclusively by one Engine
// goroutine and is never reached from anywhere else.
type Book struct {
	symbol string
	bids   PriceTreeInterface // buy orders, best = highest price
	asks   PriceTreeInterface // sell orders, best = lowest price
	orders map[domain.OrderKey]*domain.Order
}

// NewBook creates an empty book for symbol.
func NewBook(symbol string) *Book {
	return &Book{
		symbol: symbol,
		bids:   NewPriceTreeWithType(ShardedType, true),
		asks:   NewPriceTreeWithType(ShardedType, false),
		orders: make(map[domain.OrderKey]*domain.Order),
	}
}

func (b *Book) treeFor(side domain.Side) PriceTreeInterface {
	if side == domain.SideBuy {
		return b.bids
	}
	return b.asks
}

func (b *Book) oppositeTreeFor(side domain.Side) PriceTreeInterface {
	if side == domain.SideBuy {
		return b.asks
	}
	return b.bids
}

// crosses reports whether an aggressive order of the given side/price
// would trade against the current best of the opposite side.
func crosses(side domain.Side, price int64, opposite PriceTreeInterface) bool {
	if opposite.IsEmpty() {
		return false
	}
	best := opposite.GetBestPrice()
	if side == domain.SideBuy {
		return best <= price
	}
	return best >= price
}

// InsertOrMatch runs the matching algorithm for one aggressive order:
// sweep the opposite side's FIFO at crossing prices, emitting a Trade per
// fill, then rest whatever quantity remains. Trade price is always the
// passive (resting) order's price. Price-time priority in full: better
// price first, FIFO within a price.
func (b *Book) InsertOrMatch(side domain.Side, price, qty int64, clientID, orderID uint64) []domain.Trade {
	var trades []domain.Trade
	opposite := b.oppositeTreeFor(side)

	for qty > 0 && crosses(side, price, opposite) {
		level := opposite.GetBestLevel()
		if level == nil || level.Orders.Len() == 0 {
			break
		}

		front := level.Orders.Front()
		resting := front.Value.(*domain.Order)

		fill := qty
		if resting.Qty < fill {
			fill = resting.Qty
		}

		trades = append(trades, tradeFor(side, resting.Price, fill, clientID, orderID, resting))

		qty -= fill
		resting.Fill(fill)
		level.Volume -= fill

		if resting.Qty == 0 {
			opposite.Remove(resting)
			delete(b.orders, resting.Key())
		}
	}

	if qty > 0 {
		order := &domain.Order{
			Price:    price,
			Qty:      qty,
			Side:     side,
			ClientID: clientID,
			OrderID:  orderID,
			Symbol:   b.symbol,
		}
		b.orders[order.Key()] = order
		b.treeFor(side).Insert(order)
	}

	return trades
}

// tradeFor builds the Trade for one fill, mapping aggressive/passive onto
// buy/sell according to which side is aggressing.
func tradeFor(aggressiveSide domain.Side, price, qty int64, aggClient, aggOrder uint64, resting *domain.Order) domain.Trade {
	if aggressiveSide == domain.SideBuy {
		return domain.NewTrade(resting.Symbol, price, qty, aggClient, aggOrder, resting.ClientID, resting.OrderID)
	}
	return domain.NewTrade(resting.Symbol, price, qty, resting.ClientID, resting.OrderID, aggClient, aggOrder)
}

// Cancel removes a resting order by identity. Returns false if the order
// id is unknown (already filled, already cancelled, or never existed).
func (b *Book) Cancel(clientID, orderID uint64) bool {
	key := domain.OrderKey{ClientID: clientID, OrderID: orderID}
	order, exists := b.orders[key]
	if !exists {
		return false
	}

	b.treeFor(order.Side).Remove(order)
	delete(b.orders, key)
	return true
}

// TopOfBook returns the best bid and best ask, each nil when that side is
// empty. Qty on a returned Quote is the aggregate remaining quantity
// across every order resting at that one best price.
func (b *Book) TopOfBook() (bestBid, bestAsk *domain.Quote) {
	if level := b.bids.GetBestLevel(); level != nil {
		bestBid = &domain.Quote{Price: level.Price, Qty: level.Volume}
	}
	if level := b.asks.GetBestLevel(); level != nil {
		bestAsk = &domain.Quote{Price: level.Price, Qty: level.Volume}
	}
	return bestBid, bestAsk
}

// Drain removes every resting order from both sides, returning every
// identity in deterministic order: bids best-first then FIFO, then asks
// best-first then FIFO.
func (b *Book) Drain() []domain.OrderKey {
	keys := make([]domain.OrderKey, 0, len(b.orders))
	keys = collectKeys(keys, b.bids)
	keys = collectKeys(keys, b.asks)

	b.bids = NewPriceTreeWithType(ShardedType, true)
	b.asks = NewPriceTreeWithType(ShardedType, false)
	b.orders = make(map[domain.OrderKey]*domain.Order)

	return keys
}

func collectKeys(keys []domain.OrderKey, tree PriceTreeInterface) []domain.OrderKey {
	for _, level := range tree.GetDepth(tree.Size()) {
		for e := level.Orders.Front(); e != nil; e = e.Next() {
			keys = append(keys, e.Value.(*domain.Order).Key())
		}
	}
	return keys
}

// Symbol returns the symbol this book serves.
func (b *Book) Symbol() string { return b.symbol }

// GetDepth returns up to `levels` price levels per side, best first. Used
// by market-data consumers (Engine.BookDepth), not by the core matching
// path.
func (b *Book) GetDepth(levels int) (bids, asks []PriceLevel) {
	return toPriceLevels(b.bids.GetDepth(levels)), toPriceLevels(b.asks.GetDepth(levels))
}

func toPriceLevels(levels []PriceLevel_) []PriceLevel {
	out := make([]PriceLevel, len(levels))
	for i, level := range levels {
		out[i] = PriceLevel{Price: level.Price, Quantity: level.Volume, Orders: level.Orders.Len()}
	}
	return out
}
