package orderbook

import (
	"testing"

	"github.com/tembolo1284/go-matching-engine/domain"
)

func TestRestNoCross(t *testing.T) {
	b := NewBook("IBM")

	trades := b.InsertOrMatch(domain.SideSell, 10, 100, 1, 1)
	if len(trades) != 0 {
		t.Fatalf("expected no trades, got %d", len(trades))
	}

	bestBid, bestAsk := b.TopOfBook()
	if bestBid != nil {
		t.Fatalf("no bid was placed, expected nil bestBid, got %+v", bestBid)
	}
	if bestAsk == nil || bestAsk.Price != 10 || bestAsk.Qty != 100 {
		t.Fatalf("expected resting ask 10@100, got %+v", bestAsk)
	}
}

func TestSimpleMatch(t *testing.T) {
	b := NewBook("IBM")

	trades := b.InsertOrMatch(domain.SideSell, 9, 50, 2, 2) // resting sell 50@9
	if len(trades) != 0 {
		t.Fatalf("resting sell should not trade, got %d trades", len(trades))
	}

	trades = b.InsertOrMatch(domain.SideBuy, 10, 100, 1, 1) // buy 100@10 crosses 9
	if len(trades) != 1 {
		t.Fatalf("expected 1 trade, got %d", len(trades))
	}
	tr := trades[0]
	if tr.Price != 9 {
		t.Fatalf("trade price should be the passive (resting) price 9, got %d", tr.Price)
	}
	if tr.Qty != 50 {
		t.Fatalf("expected fill of 50, got %d", tr.Qty)
	}
	if tr.BuyClientID != 1 || tr.BuyOrderID != 1 || tr.SellClientID != 2 || tr.SellOrderID != 2 {
		t.Fatalf("unexpected trade parties: %+v", tr)
	}

	bestBid, bestAsk := b.TopOfBook()
	if bestAsk != nil {
		t.Fatalf("ask side should be empty after full fill, got %+v", bestAsk)
	}
	if bestBid == nil || bestBid.Price != 10 || bestBid.Qty != 50 {
		t.Fatalf("expected resting bid 10@50, got %+v", bestBid)
	}
}

func TestPartialSweepTwoLevels(t *testing.T) {
	b := NewBook("IBM")

	b.InsertOrMatch(domain.SideBuy, 10, 100, 1, 1) // resting bid 10@100
	b.InsertOrMatch(domain.SideBuy, 9, 200, 1, 2)   // resting bid 9@200

	trades := b.InsertOrMatch(domain.SideSell, 9, 250, 2, 3) // aggressive sell 250@9

	if len(trades) != 2 {
		t.Fatalf("expected 2 trades, got %d", len(trades))
	}
	if trades[0].Price != 10 || trades[0].Qty != 100 {
		t.Fatalf("first trade should fully consume the 10@100 level, got %+v", trades[0])
	}
	if trades[1].Price != 9 || trades[1].Qty != 150 {
		t.Fatalf("second trade should partially consume the 9@200 level for 150, got %+v", trades[1])
	}

	bestBid, bestAsk := b.TopOfBook()
	if bestAsk != nil {
		t.Fatalf("sell order should be fully filled, no resting ask expected, got %+v", bestAsk)
	}
	if bestBid == nil || bestBid.Price != 9 || bestBid.Qty != 50 {
		t.Fatalf("expected remaining bid 9@50, got %+v", bestBid)
	}
}

func TestPriceTimePriorityFIFO(t *testing.T) {
	b := NewBook("IBM")

	b.InsertOrMatch(domain.SideSell, 10, 50, 1, 1) // A: resting ask 10@50
	b.InsertOrMatch(domain.SideSell, 10, 50, 1, 2) // B: resting ask 10@50, same price, later

	trades := b.InsertOrMatch(domain.SideBuy, 10, 50, 2, 3) // aggressive buy only consumes A

	if len(trades) != 1 {
		t.Fatalf("expected exactly 1 trade (A fully consumed before B sees any fill), got %d", len(trades))
	}
	if trades[0].SellOrderID != 1 {
		t.Fatalf("expected A (order 1) to be consumed first, got seller order id %d", trades[0].SellOrderID)
	}
}

func TestCancel(t *testing.T) {
	b := NewBook("IBM")
	b.InsertOrMatch(domain.SideBuy, 10, 100, 1, 1)

	if !b.Cancel(1, 1) {
		t.Fatal("expected cancel to succeed")
	}
	if b.Cancel(1, 1) {
		t.Fatal("second cancel of the same order should report not-found")
	}

	bestBid, bestAsk := b.TopOfBook()
	if bestBid != nil || bestAsk != nil {
		t.Fatalf("book should be empty after cancel, got bid=%+v ask=%+v", bestBid, bestAsk)
	}
}

func TestDrainOrder(t *testing.T) {
	b := NewBook("IBM")
	b.InsertOrMatch(domain.SideBuy, 10, 100, 1, 1)
	b.InsertOrMatch(domain.SideBuy, 9, 200, 1, 2)
	b.InsertOrMatch(domain.SideSell, 20, 50, 3, 4)

	keys := b.Drain()
	if len(keys) != 3 {
		t.Fatalf("expected 3 drained identities, got %d", len(keys))
	}
	// bids best-first (10 before 9), then asks.
	if keys[0].OrderID != 1 || keys[1].OrderID != 2 || keys[2].OrderID != 4 {
		t.Fatalf("unexpected drain order: %+v", keys)
	}

	bestBid, bestAsk := b.TopOfBook()
	if bestBid != nil || bestAsk != nil {
		t.Fatal("book should be empty after drain")
	}
}
