package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/tembolo1284/go-matching-engine/domain"
)

// DecodeCSVLine parses one line of the CSV protocol (spec.md §6.1) into a
// Request. Leading/trailing whitespace around fields is ignored; a
// trailing '\r' or '\n' is stripped before the line is split.
func DecodeCSVLine(line string) (domain.Request, error) {
	fields := splitCSVFields(line)
	if len(fields) == 0 {
		return nil, errors.Wrap(ErrMalformed, "empty line")
	}

	tag := fields[0]
	rest := fields[1:]

	switch tag {
	case "N":
		return decodeCSVNewOrder(rest)
	case "C":
		return decodeCSVCancel(rest)
	case "Q":
		return decodeCSVQuery(rest)
	case "F":
		if len(rest) != 0 {
			return nil, errors.Wrap(ErrFieldCount, "F takes no fields")
		}
		return domain.FlushRequest{}, nil
	default:
		return nil, errors.Wrapf(ErrUnknownTag, "tag %q", tag)
	}
}

func splitCSVFields(line string) []string {
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return nil
	}
	parts := strings.Split(line, ",")
	fields := make([]string, len(parts))
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
	}
	return fields
}

func decodeCSVNewOrder(fields []string) (domain.Request, error) {
	if len(fields) != 6 {
		return nil, errors.Wrapf(ErrFieldCount, "N wants 6 fields, got %d", len(fields))
	}

	orderID, err := parseUint64(fields[0])
	if err != nil {
		return nil, err
	}
	symbol := fields[1]
	price, err := parseTickPrice(fields[2])
	if err != nil {
		return nil, err
	}
	qty, err := parseInt64(fields[3])
	if err != nil {
		return nil, err
	}
	side, err := parseSide(fields[4])
	if err != nil {
		return nil, err
	}
	userID, err := parseUint64(fields[5])
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

func decodeCSVCancel(fields []string) (domain.Request, error) {
	if len(fields) != 2 {
		return nil, errors.Wrapf(ErrFieldCount, "C wants 2 fields, got %d", len(fields))
	}
	clientID, err := parseUint64(fields[0])
	if err != nil {
		return nil, err
	}
	orderID, err := parseUint64(fields[1])
	if err != nil {
		return nil, err
	}
	return domain.CancelRequest{ClientID: clientID, OrderID: orderID}, nil
}

func decodeCSVQuery(fields []string) (domain.Request, error) {
	if len(fields) != 1 {
		return nil, errors.Wrapf(ErrFieldCount, "Q wants 1 field, got %d", len(fields))
	}
	return domain.QueryTopOfBookRequest{Symbol: fields[0]}, nil
}

func parseUint64(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformed, "not a uint64: %q", s)
	}
	return v, nil
}

func parseInt64(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformed, "not an int64: %q", s)
	}
	return v, nil
}

// parseTickPrice accepts both a bare integer tick count ("100") and a
// decimal-looking price ("100.00"), routing through shopspring/decimal so
// a client that speaks in human prices isn't rejected at the wire; the
// result is truncated to whole ticks, matching the integer-tick price
// model of the Book (spec.md §3).
func parseTickPrice(s string) (int64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformed, "not a price: %q", s)
	}
	return d.Truncate(0).IntPart(), nil
}

func parseSide(s string) (domain.Side, error) {
	switch s {
	case "B":
		return domain.SideBuy, nil
	case "S":
		return domain.SideSell, nil
	default:
		return 0, errors.Wrapf(ErrMalformed, "side must be B or S, got %q", s)
	}
}

// EncodeCSVEvent renders ev as the outbound CSV line(s) it corresponds to.
// TopOfBook is the only Event that can produce more than one line, or (for
// an empty book on both sides) a pair of sentinel lines rather than none,
// so a QueryTopOfBook always gets a visible reply.
func EncodeCSVEvent(ev domain.Event) []string {
	switch e := ev.(type) {
	case domain.AckEvent:
		return []string{fmt.Sprintf("A,%d,%d,%s", e.OrderID, e.ClientID, e.Symbol)}
	case domain.CancelAckEvent:
		return []string{fmt.Sprintf("X,%d,%d,%s", e.OrderID, e.ClientID, e.Symbol)}
	case domain.TradeEvent:
		return []string{fmt.Sprintf("T,%s,%d,%d,%d,%d,%d,%d",
			e.Symbol, e.BuyOrderID, e.BuyClientID, e.SellOrderID, e.SellClientID, e.Price, e.Qty)}
	case domain.TopOfBookEvent:
		return encodeCSVTopOfBook(e)
	default:
		return nil
	}
}

func encodeCSVTopOfBook(e domain.TopOfBookEvent) []string {
	if e.BestBid == nil && e.BestAsk == nil {
		return []string{
			fmt.Sprintf("B,%s,B,0,0", e.Symbol),
			fmt.Sprintf("B,%s,S,0,0", e.Symbol),
		}
	}

	var lines []string
	if e.BestBid != nil {
		lines = append(lines, fmt.Sprintf("B,%s,B,%d,%d", e.Symbol, e.BestBid.Price, e.BestBid.Qty))
	}
	if e.BestAsk != nil {
		lines = append(lines, fmt.Sprintf("B,%s,S,%d,%d", e.Symbol, e.BestAsk.Price, e.BestAsk.Qty))
	}
	return lines
}
