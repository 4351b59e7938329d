package protocol

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/tembolo1284/go-matching-engine/domain"
)

// Binary tag bytes mirror the CSV protocol's tag letters (spec.md §6.2).
const (
	tagNewOrder byte = 'N'
	tagCancel   byte = 'C'
	tagQuery    byte = 'Q'
	tagFlush    byte = 'F'
	tagAck      byte = 'A'
	tagCancelAck byte = 'X'
	tagTrade    byte = 'T'
	tagTopOfBook byte = 'B'
)

const symbolWidth = 16

// sideBuy/sideSell reuse the same 1=Buy/2=Sell encoding spec.md §6.2
// defines for order side, applied to TopOfBook's bid/ask marker too: a
// bid line carries 1, an ask line carries 2, so one decoder routine
// serves both.
const (
	sideBuy  byte = 1
	sideSell byte = 2
)

// DecodeBinary parses one frame's payload (tag byte + fixed-width fields,
// not including the 4-byte length header) into a Request.
func DecodeBinary(payload []byte) (domain.Request, error) {
	if len(payload) == 0 {
		return nil, errors.Wrap(ErrMalformed, "empty frame")
	}

	tag := payload[0]
	body := payload[1:]

	switch tag {
	case tagNewOrder:
		return decodeBinaryNewOrder(body)
	case tagCancel:
		return decodeBinaryCancel(body)
	case tagQuery:
		return decodeBinaryQuery(body)
	case tagFlush:
		if len(body) != 0 {
			return nil, errors.Wrap(ErrFieldCount, "F frame carries no body")
		}
		return domain.FlushRequest{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownTag, "tag byte %q", tag)
	}
}

// decodeBinaryNewOrder body layout: order_id(8) symbol(16) price(8) qty(8) side(1) user_id(8) = 49 bytes.
func decodeBinaryNewOrder(body []byte) (domain.Request, error) {
	const want = 8 + symbolWidth + 8 + 8 + 1 + 8
	if len(body) != want {
		return nil, errors.Wrapf(ErrFieldCount, "N frame wants %d bytes, got %d", want, len(body))
	}

	off := 0
	orderID := binary.LittleEndian.Uint64(body[off:])
	off += 8
	symbol := decodeSymbol(body[off : off+symbolWidth])
	off += symbolWidth
	price := int64(binary.LittleEndian.Uint64(body[off:]))
	off += 8
	qty := int64(binary.LittleEndian.Uint64(body[off:]))
	off += 8
	sideByteVal := body[off]
	off++
	userID := binary.LittleEndian.Uint64(body[off:])

	side, err := decodeSideByte(sideByteVal)
	if err != nil {
		return nil, err
	}

	return domain.NewOrderRequest{
		ClientID: userID,
		OrderID:  orderID,
		Symbol:   symbol,
		Side:     side,
		Price:    price,
		Qty:      qty,
	}, nil
}

// decodeBinaryCancel body layout: client_id(8) order_id(8) = 16 bytes.
func decodeBinaryCancel(body []byte) (domain.Request, error) {
	const want = 8 + 8
	if len(body) != want {
		return nil, errors.Wrapf(ErrFieldCount, "C frame wants %d bytes, got %d", want, len(body))
	}
	clientID := binary.LittleEndian.Uint64(body[0:])
	orderID := binary.LittleEndian.Uint64(body[8:])
	return domain.CancelRequest{ClientID: clientID, OrderID: orderID}, nil
}

// decodeBinaryQuery body layout: symbol(16) = 16 bytes.
func decodeBinaryQuery(body []byte) (domain.Request, error) {
	if len(body) != symbolWidth {
		return nil, errors.Wrapf(ErrFieldCount, "Q frame wants %d bytes, got %d", symbolWidth, len(body))
	}
	return domain.QueryTopOfBookRequest{Symbol: decodeSymbol(body)}, nil
}

// EncodeBinary renders ev as one or more frame payloads (tag byte plus
// fixed-width body, still missing the 4-byte length header the caller
// adds when writing to the socket).
func EncodeBinary(ev domain.Event) [][]byte {
	switch e := ev.(type) {
	case domain.AckEvent:
		return [][]byte{encodeAckLike(tagAck, e.OrderID, e.ClientID, e.Symbol)}
	case domain.CancelAckEvent:
		return [][]byte{encodeAckLike(tagCancelAck, e.OrderID, e.ClientID, e.Symbol)}
	case domain.TradeEvent:
		return [][]byte{encodeTrade(e)}
	case domain.TopOfBookEvent:
		return encodeBinaryTopOfBook(e)
	default:
		return nil
	}
}

// encodeAckLike covers both Ack and CancelAck: tag(1) order_id(8) user_id(8) symbol(16) = 33 bytes.
func encodeAckLike(tag byte, orderID, clientID uint64, symbol string) []byte {
	buf := make([]byte, 1+8+8+symbolWidth)
	buf[0] = tag
	binary.LittleEndian.PutUint64(buf[1:], orderID)
	binary.LittleEndian.PutUint64(buf[9:], clientID)
	copy(buf[17:], encodeSymbol(symbol))
	return buf
}

// encodeTrade body layout: tag(1) symbol(16) buy_order_id(8) buy_user_id(8) sell_order_id(8) sell_user_id(8) price(8) qty(8) = 65 bytes.
func encodeTrade(e domain.TradeEvent) []byte {
	buf := make([]byte, 1+symbolWidth+8*6)
	off := 0
	buf[off] = tagTrade
	off++
	copy(buf[off:], encodeSymbol(e.Symbol))
	off += symbolWidth
	binary.LittleEndian.PutUint64(buf[off:], e.BuyOrderID)
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], e.BuyClientID)
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], e.SellOrderID)
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], e.SellClientID)
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], uint64(e.Price))
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], uint64(e.Qty))
	return buf
}

// encodeBinaryTopOfBook mirrors the CSV encoder's choice (protocol/csv.go):
// one frame per present side, or a sentinel pair when both sides are
// empty, so a binary-speaking client always gets a reply to a query.
func encodeBinaryTopOfBook(e domain.TopOfBookEvent) [][]byte {
	if e.BestBid == nil && e.BestAsk == nil {
		return [][]byte{
			encodeTopOfBookSide(e.Symbol, sideBuy, 0, 0),
			encodeTopOfBookSide(e.Symbol, sideSell, 0, 0),
		}
	}

	var frames [][]byte
	if e.BestBid != nil {
		frames = append(frames, encodeTopOfBookSide(e.Symbol, sideBuy, e.BestBid.Price, e.BestBid.Qty))
	}
	if e.BestAsk != nil {
		frames = append(frames, encodeTopOfBookSide(e.Symbol, sideSell, e.BestAsk.Price, e.BestAsk.Qty))
	}
	return frames
}

// encodeTopOfBookSide body layout: tag(1) symbol(16) side_marker(1) price(8) qty(8) = 34 bytes.
func encodeTopOfBookSide(symbol string, marker byte, price, qty int64) []byte {
	buf := make([]byte, 1+symbolWidth+1+8+8)
	off := 0
	buf[off] = tagTopOfBook
	off++
	copy(buf[off:], encodeSymbol(symbol))
	off += symbolWidth
	buf[off] = marker
	off++
	binary.LittleEndian.PutUint64(buf[off:], uint64(price))
	off += 8
	binary.LittleEndian.PutUint64(buf[off:], uint64(qty))
	return buf
}

func encodeSymbol(symbol string) []byte {
	buf := make([]byte, symbolWidth)
	copy(buf, symbol)
	return buf
}

func decodeSymbol(b []byte) string {
	n := 0
	for n < len(b) && b[n] != 0 {
		n++
	}
	return string(b[:n])
}

func decodeSideByte(b byte) (domain.Side, error) {
	switch b {
	case sideBuy:
		return domain.SideBuy, nil
	case sideSell:
		return domain.SideSell, nil
	default:
		return 0, errors.Wrapf(ErrMalformed, "side byte must be 1 or 2, got %d", b)
	}
}
