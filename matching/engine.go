// Package matching implements the engine task: the single serialising
// consumer of the Dispatcher's request channel. It owns every symbol's
// Book and is the only thing ever allowed to touch them.
package matching

import (
	"sort"

	"github.com/tembolo1284/go-matching-engine/domain"
	"github.com/tembolo1284/go-matching-engine/orderbook"
)

// Engine owns the symbol->Book mapping and turns each Request into its
// contiguous sequence of Events. An Engine has no goroutines of its own:
// the caller (the Dispatcher's pump loop) drives Process in a tight loop
// from exactly one goroutine, which is what makes the Book's internal
// data structures safe without any locking.
type Engine struct {
	books map[string]*orderbook.Book
}

// NewEngine creates an Engine with no books; every symbol is created
// lazily on first mention.
func NewEngine() *Engine {
	return &Engine{books: make(map[string]*orderbook.Book)}
}

// Process consumes one Request and returns every Event it produces, in
// emission order. The returned slice is nil for a Request that produces
// no Events (an unknown Cancel, or a NewOrder that fails validation).
func (e *Engine) Process(req domain.Request) []domain.Event {
	switch r := req.(type) {
	case domain.NewOrderRequest:
		return e.processNewOrder(r)
	case domain.CancelRequest:
		return e.processCancel(r)
	case domain.QueryTopOfBookRequest:
		return e.processQuery(r)
	case domain.FlushRequest:
		return e.processFlush()
	default:
		return nil
	}
}

// BookDepth reports up to levels price levels on each side of symbol's
// book; cmd/bench uses it for its end-of-run summary. It returns empty
// slices for a symbol with no book yet, the same as an empty book would.
func (e *Engine) BookDepth(symbol string, levels int) (bids, asks []orderbook.PriceLevel) {
	book, ok := e.books[symbol]
	if !ok {
		return nil, nil
	}
	return book.GetDepth(levels)
}

// Symbols reports every symbol with a book, in no particular order.
func (e *Engine) Symbols() []string {
	symbols := make([]string, 0, len(e.books))
	for symbol := range e.books {
		symbols = append(symbols, symbol)
	}
	return symbols
}

func (e *Engine) bookFor(symbol string) *orderbook.Book {
	book, ok := e.books[symbol]
	if !ok {
		book = orderbook.NewBook(symbol)
		e.books[symbol] = book
	}
	return book
}

func validNewOrder(r domain.NewOrderRequest) bool {
	if r.Qty <= 0 || r.Price <= 0 || r.Symbol == "" {
		return false
	}
	return r.Side == domain.SideBuy || r.Side == domain.SideSell
}

func (e *Engine) processNewOrder(r domain.NewOrderRequest) []domain.Event {
	if !validNewOrder(r) {
		return nil
	}

	book := e.bookFor(r.Symbol)

	events := make([]domain.Event, 0, 3)
	events = append(events, domain.AckEvent{ClientID: r.ClientID, OrderID: r.OrderID, Symbol: r.Symbol})

	trades := book.InsertOrMatch(r.Side, r.Price, r.Qty, r.ClientID, r.OrderID)
	for _, tr := range trades {
		events = append(events, domain.TradeEvent{
			Symbol:      tr.Symbol,
			BuyClientID: tr.BuyClientID, BuyOrderID: tr.BuyOrderID,
			SellClientID: tr.SellClientID, SellOrderID: tr.SellOrderID,
			Price: tr.Price, Qty: tr.Qty,
		})
	}

	events = append(events, topOfBookEvent(book))
	return events
}

func (e *Engine) processCancel(r domain.CancelRequest) []domain.Event {
	for symbol, book := range e.books {
		if book.Cancel(r.ClientID, r.OrderID) {
			return []domain.Event{domain.CancelAckEvent{ClientID: r.ClientID, OrderID: r.OrderID, Symbol: symbol}}
		}
	}
	return nil
}

func (e *Engine) processQuery(r domain.QueryTopOfBookRequest) []domain.Event {
	book, ok := e.books[r.Symbol]
	if !ok {
		return []domain.Event{domain.TopOfBookEvent{Symbol: r.Symbol}}
	}
	return []domain.Event{topOfBookEvent(book)}
}

// processFlush drains every symbol's book in a fixed, alphabetical order
// so the Event stream stays byte-identical across runs for the same
// Request input regardless of the map's internal iteration order.
func (e *Engine) processFlush() []domain.Event {
	symbols := make([]string, 0, len(e.books))
	for symbol := range e.books {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)

	var events []domain.Event
	for _, symbol := range symbols {
		book := e.books[symbol]
		for _, key := range book.Drain() {
			events = append(events, domain.CancelAckEvent{ClientID: key.ClientID, OrderID: key.OrderID, Symbol: symbol})
		}
	}
	return events
}

func topOfBookEvent(book *orderbook.Book) domain.TopOfBookEvent {
	bestBid, bestAsk := book.TopOfBook()
	return domain.TopOfBookEvent{Symbol: book.Symbol(), BestBid: bestBid, BestAsk: bestAsk}
}
