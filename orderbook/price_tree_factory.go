package orderbook

import (
	"container/list"

	"github.com/tembolo1284/go-matching-engine/domain"
)

// PriceTreeType selects a PriceTreeInterface implementation.
type PriceTreeType int

const (
	// HashMapListType: HashMap + doubly linked list. Fine under ~100
	// distinct price levels; O(1) best-price, O(n) insert of a new level.
	HashMapListType PriceTreeType = iota

	// ShardedType: bucketed red-black tree of fixed-size arrays, each
	// bucket indexed by bit mask instead of a hash. Scales better once a
	// book holds hundreds of price levels.
	ShardedType
)

// NewPriceTreeWithType builds the tree implementation for treeType.
func NewPriceTreeWithType(treeType PriceTreeType, descending bool) PriceTreeInterface {
	switch treeType {
	case ShardedType:
		return NewShardedPriceTreeFromInterface(descending, 128) // bucket size 128 = 2^7
	case HashMapListType:
		fallthrough
	default:
		return NewHashMapListPriceTree(descending)
	}
}

// NewShardedPriceTreeFromInterface wraps a ShardedPriceTree behind PriceTreeInterface.
func NewShardedPriceTreeFromInterface(descending bool, bucketSize int64) PriceTreeInterface {
	return &ShardedPriceTreeAdapter{
		tree: NewShardedPriceTree(descending, bucketSize),
	}
}

// ShardedPriceTreeAdapter adapts ShardedPriceTree to PriceTreeInterface.
type ShardedPriceTreeAdapter struct {
	tree *ShardedPriceTree
}

// Ensure ShardedPriceTreeAdapter implements PriceTreeInterface
var _ PriceTreeInterface = (*ShardedPriceTreeAdapter)(nil)

func (s *ShardedPriceTreeAdapter) Insert(order *domain.Order) {
	bucketID := order.Price / s.tree.bucketSize
	level, exists := s.tree.buckets.Get(bucketID)
	var bucket *Bucket
	if !exists {
		bucket = NewBucket(bucketID, s.tree.isBuy, s.tree.bucketSize)
		s.tree.buckets.Put(bucketID, bucket)
	} else {
		bucket = level
	}
	
	// Index within the bucket via bit mask (price % bucketSize, bucketSize a power of 2).
	index := order.Price & bucket.bucketMask
	priceLevel := bucket.levels[index]
	levelExists := priceLevel != nil
	if !levelExists {
		priceLevel = &PriceLevel_{
			Price:  order.Price,
			Orders: list.New(),
			Volume: 0,
		}
		bucket.Insert(order.Price, priceLevel)
	}

	elem := priceLevel.Orders.PushBack(order)
	order.ListElement = elem
	priceLevel.Volume += order.Qty

	switch {
	case s.tree.bestBucket == nil:
		s.tree.bestBucket = bucket
		s.tree.bestPrice = bucket.bestPrice
	case s.tree.isBetterBucket(bucketID, s.tree.bestBucket.bucketID):
		s.tree.bestBucket = bucket
		s.tree.bestPrice = bucket.bestPrice
	case bucket == s.tree.bestBucket:
		s.tree.bestPrice = bucket.bestPrice
	}
}

func (s *ShardedPriceTreeAdapter) Remove(order *domain.Order) {
	level, exists := s.tree.buckets.Get(order.Price / s.tree.bucketSize)
	if !exists {
		return
	}
	
	bucket := level
	index := order.Price & bucket.bucketMask
	priceLevel := bucket.levels[index]
	levelExists := priceLevel != nil
	if !levelExists {
		return
	}

	if order.ListElement != nil {
		elem := order.ListElement.(*list.Element)
		priceLevel.Orders.Remove(elem)
		order.ListElement = nil
		priceLevel.Volume -= order.Qty
	}

	if priceLevel.Orders.Len() == 0 {
		s.tree.Remove(order.Price)
	}
}

func (s *ShardedPriceTreeAdapter) GetBestPrice() int64 {
	best := s.tree.GetBestPrice()
	if best == nil {
		return 0
	}
	return best.Price
}

func (s *ShardedPriceTreeAdapter) GetBestLevel() *PriceLevel_ {
	return s.tree.GetBestPrice()
}

func (s *ShardedPriceTreeAdapter) GetBestOrders() []*domain.Order {
	bestLevel := s.tree.GetBestPrice()
	if bestLevel == nil {
		return nil
	}
	
	orders := make([]*domain.Order, 0, bestLevel.Orders.Len())
	for e := bestLevel.Orders.Front(); e != nil; e = e.Next() {
		orders = append(orders, e.Value.(*domain.Order))
	}
	
	return orders
}

func (s *ShardedPriceTreeAdapter) GetLevel(price int64) *PriceLevel_ {
	bucket, exists := s.tree.buckets.Get(price / s.tree.bucketSize)
	if !exists {
		return nil
	}
	index := price & bucket.bucketMask
	return bucket.levels[index]
}

func (s *ShardedPriceTreeAdapter) GetDepth(maxLevels int) []PriceLevel_ {
	if maxLevels <= 0 || s.tree.buckets.Empty() {
		return nil
	}

	result := make([]PriceLevel_, 0, maxLevels)
	count := 0

	// Red-black tree iteration visits buckets in price order already.
	it := s.tree.buckets.Iterator()
	for it.Next() && count < maxLevels {
		bucket := it.Value()

		current := bucket.bestPrice
		for current != nil && count < maxLevels {
			result = append(result, *current)
			count++
			current = current.NextPrice
		}
	}

	return result
}

func (s *ShardedPriceTreeAdapter) IsEmpty() bool {
	return s.tree.buckets.Empty()
}

func (s *ShardedPriceTreeAdapter) Size() int {
	count := 0
	it := s.tree.buckets.Iterator()
	for it.Next() {
		count += it.Value().size
	}
	return count
}
