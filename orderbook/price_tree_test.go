package orderbook

import (
	"testing"

	"github.com/tembolo1284/go-matching-engine/domain"
)

func newResting(clientID, orderID uint64, side domain.Side, price, qty int64) *domain.Order {
	return &domain.Order{ClientID: clientID, OrderID: orderID, Side: side, Price: price, Qty: qty, Symbol: "IBM"}
}

func TestShardedPriceTreeBidOrdering(t *testing.T) {
	tree := NewPriceTreeWithType(ShardedType, true) // descending, bids

	tree.Insert(newResting(1, 1, domain.SideBuy, 100, 10))
	tree.Insert(newResting(1, 2, domain.SideBuy, 300, 10)) // out of order on purpose
	tree.Insert(newResting(1, 3, domain.SideBuy, 200, 10))

	if got := tree.GetBestPrice(); got != 300 {
		t.Fatalf("expected best bid 300, got %d", got)
	}

	depth := tree.GetDepth(3)
	want := []int64{300, 200, 100}
	for i, level := range depth {
		if level.Price != want[i] {
			t.Fatalf("depth[%d] = %d, want %d", i, level.Price, want[i])
		}
	}
}

func TestShardedPriceTreeAskOrdering(t *testing.T) {
	tree := NewPriceTreeWithType(ShardedType, false) // ascending, asks

	tree.Insert(newResting(1, 1, domain.SideSell, 300, 10))
	tree.Insert(newResting(1, 2, domain.SideSell, 100, 10))
	tree.Insert(newResting(1, 3, domain.SideSell, 200, 10))

	if got := tree.GetBestPrice(); got != 100 {
		t.Fatalf("expected best ask 100, got %d", got)
	}

	depth := tree.GetDepth(3)
	want := []int64{100, 200, 300}
	for i, level := range depth {
		if level.Price != want[i] {
			t.Fatalf("depth[%d] = %d, want %d", i, level.Price, want[i])
		}
	}
}

func TestShardedPriceTreeRemoveEmptiesLevel(t *testing.T) {
	tree := NewPriceTreeWithType(ShardedType, true)
	order := newResting(1, 1, domain.SideBuy, 100, 10)
	tree.Insert(order)

	tree.Remove(order)

	if !tree.IsEmpty() {
		t.Fatal("tree should be empty after removing its only order")
	}
	if tree.GetLevel(100) != nil {
		t.Fatal("price level should be gone after its last order is removed")
	}
}

func TestShardedPriceTreeFIFOWithinLevel(t *testing.T) {
	tree := NewPriceTreeWithType(ShardedType, true)
	a := newResting(1, 1, domain.SideBuy, 100, 10)
	b := newResting(1, 2, domain.SideBuy, 100, 20)
	tree.Insert(a)
	tree.Insert(b)

	orders := tree.GetBestOrders()
	if len(orders) != 2 || orders[0] != a || orders[1] != b {
		t.Fatalf("expected FIFO order [a, b], got %+v", orders)
	}
}

func TestShardedPriceTreeAcrossBucketBoundary(t *testing.T) {
	// bucketSize is 128; prices 127 and 128 land in different buckets but
	// must still be compared correctly across the boundary.
	tree := NewPriceTreeWithType(ShardedType, false)
	tree.Insert(newResting(1, 1, domain.SideSell, 128, 10))
	tree.Insert(newResting(1, 2, domain.SideSell, 127, 10))

	if got := tree.GetBestPrice(); got != 127 {
		t.Fatalf("expected best ask 127 across bucket boundary, got %d", got)
	}
}

func TestHashMapListPriceTreeBasic(t *testing.T) {
	tree := NewHashMapListPriceTree(true)
	tree.Insert(newResting(1, 1, domain.SideBuy, 50, 5))
	tree.Insert(newResting(1, 2, domain.SideBuy, 60, 5))

	if got := tree.GetBestPrice(); got != 60 {
		t.Fatalf("expected best bid 60, got %d", got)
	}
	if tree.Size() != 2 {
		t.Fatalf("expected 2 price levels, got %d", tree.Size())
	}
}
