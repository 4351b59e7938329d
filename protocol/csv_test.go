package protocol

import (
	"testing"

	"github.com/tembolo1284/go-matching-engine/domain"
)

func TestDecodeCSVNewOrder(t *testing.T) {
	req, err := DecodeCSVLine("N,1,IBM,10,100,B,1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order, ok := req.(domain.NewOrderRequest)
	if !ok {
		t.Fatalf("expected NewOrderRequest, got %T", req)
	}
	want := domain.NewOrderRequest{ClientID: 1, OrderID: 1, Symbol: "IBM", Side: domain.SideBuy, Price: 10, Qty: 100}
	if order != want {
		t.Fatalf("got %+v, want %+v", order, want)
	}
}

func TestDecodeCSVNewOrderToleratesWhitespaceAndDecimalPrice(t *testing.T) {
	req, err := DecodeCSVLine(" N , 2 , IBM , 10.00 , 50 , S , 2 ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order := req.(domain.NewOrderRequest)
	if order.Price != 10 {
		t.Fatalf("expected decimal price truncated to 10 ticks, got %d", order.Price)
	}
}

func TestDecodeCSVCancel(t *testing.T) {
	req, err := DecodeCSVLine("C,1,1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req != (domain.CancelRequest{ClientID: 1, OrderID: 1}) {
		t.Fatalf("got %+v", req)
	}
}

func TestDecodeCSVQuery(t *testing.T) {
	req, err := DecodeCSVLine("Q,ZZZ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req != (domain.QueryTopOfBookRequest{Symbol: "ZZZ"}) {
		t.Fatalf("got %+v", req)
	}
}

func TestDecodeCSVFlush(t *testing.T) {
	req, err := DecodeCSVLine("F")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := req.(domain.FlushRequest); !ok {
		t.Fatalf("expected FlushRequest, got %T", req)
	}
}

func TestDecodeCSVUnknownTag(t *testing.T) {
	if _, err := DecodeCSVLine("Z,1,2,3"); err == nil {
		t.Fatal("expected an error for unknown tag")
	}
}

func TestDecodeCSVWrongFieldCount(t *testing.T) {
	if _, err := DecodeCSVLine("N,1,IBM,10,100,B"); err == nil {
		t.Fatal("expected an error for missing field")
	}
}

func TestDecodeCSVNonNumeric(t *testing.T) {
	if _, err := DecodeCSVLine("N,abc,IBM,10,100,B,1"); err == nil {
		t.Fatal("expected an error for non-numeric order id")
	}
}

func TestEncodeCSVAck(t *testing.T) {
	lines := EncodeCSVEvent(domain.AckEvent{ClientID: 1, OrderID: 1, Symbol: "IBM"})
	if len(lines) != 1 || lines[0] != "A,1,1,IBM" {
		t.Fatalf("got %v", lines)
	}
}

func TestEncodeCSVTrade(t *testing.T) {
	lines := EncodeCSVEvent(domain.TradeEvent{
		Symbol: "IBM", BuyOrderID: 1, BuyClientID: 1, SellOrderID: 2, SellClientID: 2, Price: 10, Qty: 50,
	})
	if len(lines) != 1 || lines[0] != "T,IBM,1,1,2,2,10,50" {
		t.Fatalf("got %v", lines)
	}
}

func TestEncodeCSVTopOfBookOneSide(t *testing.T) {
	lines := EncodeCSVEvent(domain.TopOfBookEvent{Symbol: "IBM", BestBid: &domain.Quote{Price: 10, Qty: 50}})
	if len(lines) != 1 || lines[0] != "B,IBM,B,10,50" {
		t.Fatalf("expected a single bid line, got %v", lines)
	}
}

func TestEncodeCSVTopOfBookBothSidesAbsent(t *testing.T) {
	lines := EncodeCSVEvent(domain.TopOfBookEvent{Symbol: "ZZZ"})
	if len(lines) != 2 || lines[0] != "B,ZZZ,B,0,0" || lines[1] != "B,ZZZ,S,0,0" {
		t.Fatalf("expected sentinel lines for both sides, got %v", lines)
	}
}

func TestCSVNewOrderRoundTripsThroughDecode(t *testing.T) {
	line := "N,7,IBM,25,300,S,9"
	req, err := DecodeCSVLine(line)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	order := req.(domain.NewOrderRequest)
	if order.OrderID != 7 || order.Symbol != "IBM" || order.Price != 25 || order.Qty != 300 || order.Side != domain.SideSell || order.ClientID != 9 {
		t.Fatalf("round trip mismatch: %+v", order)
	}
}
