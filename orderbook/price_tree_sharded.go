package orderbook

import (
	rbt "github.com/emirpasic/gods/v2/trees/redblacktree"
)

// ShardedPriceTree shards price levels into fixed-size buckets ordered by
// a red-black tree. Outer layer: red-black tree over bucket id, O(log m)
// for m buckets. Inner layer: fixed array per bucket, O(1).
type ShardedPriceTree struct {
	buckets    *rbt.Tree[int64, *Bucket]
	bestBucket *Bucket
	bestPrice  *PriceLevel_
	isBuy      bool
	bucketSize int64
}

// Bucket holds every price level whose price falls in one contiguous
// range of bucketSize ticks, indexed by bit mask instead of a hash.
type Bucket struct {
	bucketID   int64
	levels     [128]*PriceLevel_ // 128 = 2^7, index = price & bucketMask
	bestPrice  *PriceLevel_      // head of the bucket's price-ordered list
	size       int
	isBuy      bool
	bucketSize int64
	bucketMask int64
}

// NewShardedPriceTree creates a bucketed tree. isBuy orders buckets
// descending (best = highest price); otherwise ascending.
func NewShardedPriceTree(isBuy bool, bucketSize int64) *ShardedPriceTree {
	var comparator func(a, b int64) int
	if isBuy {
		comparator = func(a, b int64) int {
			switch {
			case a > b:
				return -1
			case a < b:
				return 1
			default:
				return 0
			}
		}
	} else {
		comparator = func(a, b int64) int {
			switch {
			case a < b:
				return -1
			case a > b:
				return 1
			default:
				return 0
			}
		}
	}

	return &ShardedPriceTree{
		buckets:    rbt.NewWith[int64, *Bucket](comparator),
		isBuy:      isBuy,
		bucketSize: bucketSize,
	}
}

// NewBucket creates a bucket for bucketID.
func NewBucket(bucketID int64, isBuy bool, bucketSize int64) *Bucket {
	return &Bucket{
		bucketID:   bucketID,
		isBuy:      isBuy,
		bucketSize: bucketSize,
		bucketMask: bucketSize - 1,
	}
}

// Insert adds level at price, creating its bucket if needed. O(log m) + O(1).
func (spt *ShardedPriceTree) Insert(price int64, level *PriceLevel_) {
	bucketID := price / spt.bucketSize

	bucket, found := spt.buckets.Get(bucketID)
	if !found {
		bucket = NewBucket(bucketID, spt.isBuy, spt.bucketSize)
		spt.buckets.Put(bucketID, bucket)
	}

	bucket.Insert(price, level)
	spt.updateBestPrice(bucket)
}

// Remove drops the level at price, dropping its bucket if now empty.
func (spt *ShardedPriceTree) Remove(price int64) {
	bucketID := price / spt.bucketSize

	bucket, found := spt.buckets.Get(bucketID)
	if !found {
		return
	}

	bucket.Remove(price)

	if bucket.size == 0 {
		spt.buckets.Remove(bucketID)
		if spt.bestBucket == bucket {
			spt.bestBucket = nil
			spt.bestPrice = nil
			spt.updateBestPriceFromTree()
		}
		return
	}

	if spt.bestPrice != nil && spt.bestPrice.Price == price {
		spt.updateBestPriceFromTree()
	}
}

// GetBestPrice returns the best level across all buckets, O(1).
func (spt *ShardedPriceTree) GetBestPrice() *PriceLevel_ {
	return spt.bestPrice
}

func (spt *ShardedPriceTree) updateBestPrice(bucket *Bucket) {
	switch {
	case spt.bestBucket == nil:
		spt.bestBucket = bucket
		spt.bestPrice = bucket.bestPrice
	case spt.isBetterBucket(bucket.bucketID, spt.bestBucket.bucketID):
		spt.bestBucket = bucket
		spt.bestPrice = bucket.bestPrice
	case bucket == spt.bestBucket:
		spt.bestPrice = bucket.bestPrice
	}
}

func (spt *ShardedPriceTree) updateBestPriceFromTree() {
	if spt.buckets.Empty() {
		spt.bestBucket = nil
		spt.bestPrice = nil
		return
	}

	// The tree's leftmost node is the best bucket under this comparator.
	node := spt.buckets.Left()
	if node != nil {
		spt.bestBucket = node.Value
		spt.bestPrice = node.Value.bestPrice
	}
}

func (spt *ShardedPriceTree) isBetterBucket(newBucketID, existingBucketID int64) bool {
	if spt.isBuy {
		return newBucketID > existingBucketID
	}
	return newBucketID < existingBucketID
}

// Insert adds level at price into the bucket's array slot and splices it
// into the bucket's price-ordered doubly linked list.
func (b *Bucket) Insert(price int64, level *PriceLevel_) {
	index := price & b.bucketMask
	b.levels[index] = level
	b.size++

	if b.bestPrice == nil {
		b.bestPrice = level
		return
	}

	if b.isBetterPrice(level.Price, b.bestPrice.Price) {
		level.NextPrice = b.bestPrice
		b.bestPrice.PrevPrice = level
		b.bestPrice = level
		return
	}

	current := b.bestPrice
	for current.NextPrice != nil {
		if b.isBetterPrice(level.Price, current.NextPrice.Price) {
			break
		}
		current = current.NextPrice
	}

	level.NextPrice = current.NextPrice
	level.PrevPrice = current
	if current.NextPrice != nil {
		current.NextPrice.PrevPrice = level
	}
	current.NextPrice = level
}

// Remove drops the level at price from the array slot and the list, O(1).
func (b *Bucket) Remove(price int64) {
	index := price & b.bucketMask
	level := b.levels[index]
	if level == nil {
		return
	}

	b.levels[index] = nil
	b.size--

	if level.PrevPrice != nil {
		level.PrevPrice.NextPrice = level.NextPrice
	} else {
		b.bestPrice = level.NextPrice
	}

	if level.NextPrice != nil {
		level.NextPrice.PrevPrice = level.PrevPrice
	}

	level.NextPrice = nil
	level.PrevPrice = nil
}

func (b *Bucket) isBetterPrice(newPrice, existingPrice int64) bool {
	if b.isBuy {
		return newPrice > existingPrice
	}
	return newPrice < existingPrice
}
