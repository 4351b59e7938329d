package orderbook

import "github.com/tembolo1284/go-matching-engine/domain"

// PriceTreeInterface is the contract a price-ordered structure must meet.
// Two implementations exist: a HashMap+doubly-linked-list tree (simple,
// fine for thin books) and a sharded red-black-tree-of-buckets tree (scales
// to deep books). Both enforce the same price ordering and FIFO guarantees.
type PriceTreeInterface interface {
	// Insert adds order's resting quantity to its price level, creating
	// the level if this is the first order at that price.
	Insert(order *domain.Order)

	// Remove takes order out of its price level, dropping the level if
	// it becomes empty.
	Remove(order *domain.Order)

	// GetBestPrice returns the best price, or 0 if the tree is empty.
	GetBestPrice() int64

	// GetBestLevel returns the best price level, or nil if empty.
	GetBestLevel() *PriceLevel_

	// GetBestOrders returns every order resting at the best price level,
	// in FIFO order.
	GetBestOrders() []*domain.Order

	// GetLevel returns the level at price, or nil if none rests there.
	GetLevel(price int64) *PriceLevel_

	// GetDepth returns up to maxLevels price levels, best first.
	GetDepth(maxLevels int) []PriceLevel_

	// IsEmpty reports whether the tree holds no orders.
	IsEmpty() bool

	// Size returns the number of distinct price levels.
	Size() int
}
