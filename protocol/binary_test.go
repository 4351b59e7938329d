package protocol

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/tembolo1284/go-matching-engine/domain"
)

func TestBinaryNewOrderRoundTrip(t *testing.T) {
	want := domain.NewOrderRequest{ClientID: 9, OrderID: 7, Symbol: "IBM", Side: domain.SideSell, Price: 25, Qty: 300}

	frames := encodeBinaryNewOrderForTest(want)
	got, err := DecodeBinary(frames)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != domain.Request(want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

// encodeBinaryNewOrderForTest builds an N frame payload by hand, mirroring
// what a binary-speaking client would send in, since EncodeBinary only
// covers outbound Events.
func encodeBinaryNewOrderForTest(r domain.NewOrderRequest) []byte {
	buf := make([]byte, 1+8+symbolWidth+8+8+1+8)
	off := 0
	buf[off] = tagNewOrder
	off++
	binary.LittleEndian.PutUint64(buf[off:], r.OrderID)
	off += 8
	copy(buf[off:], encodeSymbol(r.Symbol))
	off += symbolWidth
	binary.LittleEndian.PutUint64(buf[off:], uint64(r.Price))
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], uint64(r.Qty))
	off += 8
	if r.Side == domain.SideBuy {
		buf[off] = sideBuy
	} else {
		buf[off] = sideSell
	}
	off++
	binary.LittleEndian.PutUint64(buf[off:], r.ClientID)
	return buf
}

func TestBinaryCancelRoundTrip(t *testing.T) {
	buf := make([]byte, 1+8+8)
	buf[0] = tagCancel
	binary.LittleEndian.PutUint64(buf[1:], 4)
	binary.LittleEndian.PutUint64(buf[9:], 5)

	req, err := DecodeBinary(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if req != (domain.CancelRequest{ClientID: 4, OrderID: 5}) {
		t.Fatalf("got %+v", req)
	}
}

func TestBinaryEncoderFramesWithLengthPrefix(t *testing.T) {
	var buf bytes.Buffer
	enc := &BinaryEncoder{w: &buf}
	if err := enc.WriteEvent(domain.AckEvent{ClientID: 1, OrderID: 1, Symbol: "IBM"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var lenBuf [4]byte
	copy(lenBuf[:], buf.Bytes()[:4])
	frameLen := binary.LittleEndian.Uint32(lenBuf[:])
	wantLen := uint32(1 + 8 + 8 + symbolWidth)
	if frameLen != wantLen {
		t.Fatalf("expected length prefix %d, got %d", wantLen, frameLen)
	}
	if buf.Len() != int(4+frameLen) {
		t.Fatalf("expected total buffer size %d, got %d", 4+frameLen, buf.Len())
	}
	if buf.Bytes()[4] != tagAck {
		t.Fatalf("expected payload to start with the Ack tag byte")
	}
}

func TestSymbolEncodeDecodeTruncatesAtNUL(t *testing.T) {
	encoded := encodeSymbol("IBM")
	if len(encoded) != symbolWidth {
		t.Fatalf("expected %d byte symbol field, got %d", symbolWidth, len(encoded))
	}
	if got := decodeSymbol(encoded); got != "IBM" {
		t.Fatalf("expected IBM, got %q", got)
	}
}

func TestDecodeBinaryUnknownTag(t *testing.T) {
	if _, err := DecodeBinary([]byte{'Z'}); err == nil {
		t.Fatal("expected an error for unknown tag byte")
	}
}

func TestDecodeBinaryWrongFieldCount(t *testing.T) {
	if _, err := DecodeBinary([]byte{tagCancel, 1, 2, 3}); err == nil {
		t.Fatal("expected an error for a truncated C frame")
	}
}
