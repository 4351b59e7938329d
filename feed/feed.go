// Package feed mirrors the broadcast Event stream over WebSocket for
// dashboards and ops tooling, read-only and independent of the TCP
// Session protocol (SPEC_FULL.md §11's domain-stack expansion). The
// connection registry and broadcast loop follow
// DimaJoyti-ai-agentic-crypto-browser/internal/terminal's
// WebSocketManager: an upgrader, a client registry guarded by a mutex,
// and a per-client buffered send channel so one slow dashboard can't
// stall the others.
package feed

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tembolo1284/go-matching-engine/domain"
	"github.com/tembolo1284/go-matching-engine/logging"
)

var logger = logging.Component("feed")

const clientSendBuffer = 256

// wireEvent is the JSON rendering of a domain.Event for dashboard
// consumers; Kind disambiguates which fields are populated since JSON
// has no native tagged union.
type wireEvent struct {
	Kind         string `json:"kind"`
	ClientID     uint64 `json:"client_id,omitempty"`
	OrderID      uint64 `json:"order_id,omitempty"`
	Symbol       string `json:"symbol,omitempty"`
	BuyClientID  uint64 `json:"buy_client_id,omitempty"`
	BuyOrderID   uint64 `json:"buy_order_id,omitempty"`
	SellClientID uint64 `json:"sell_client_id,omitempty"`
	SellOrderID  uint64 `json:"sell_order_id,omitempty"`
	Price        int64  `json:"price,omitempty"`
	Qty          int64  `json:"qty,omitempty"`
	BestBid      *quote `json:"best_bid,omitempty"`
	BestAsk      *quote `json:"best_ask,omitempty"`
}

type quote struct {
	Price int64 `json:"price"`
	Qty   int64 `json:"qty"`
}

func toWireEvent(ev domain.Event) wireEvent {
	switch e := ev.(type) {
	case domain.AckEvent:
		return wireEvent{Kind: "ack", ClientID: e.ClientID, OrderID: e.OrderID, Symbol: e.Symbol}
	case domain.CancelAckEvent:
		return wireEvent{Kind: "cancel_ack", ClientID: e.ClientID, OrderID: e.OrderID, Symbol: e.Symbol}
	case domain.TradeEvent:
		return wireEvent{
			Kind: "trade", Symbol: e.Symbol,
			BuyClientID: e.BuyClientID, BuyOrderID: e.BuyOrderID,
			SellClientID: e.SellClientID, SellOrderID: e.SellOrderID,
			Price: e.Price, Qty: e.Qty,
		}
	case domain.TopOfBookEvent:
		we := wireEvent{Kind: "top_of_book", Symbol: e.Symbol}
		if e.BestBid != nil {
			we.BestBid = &quote{Price: e.BestBid.Price, Qty: e.BestBid.Qty}
		}
		if e.BestAsk != nil {
			we.BestAsk = &quote{Price: e.BestAsk.Price, Qty: e.BestAsk.Qty}
		}
		return we
	default:
		return wireEvent{Kind: "unknown"}
	}
}

// Mirror upgrades HTTP connections to WebSocket and fans every
// broadcast Event out to all of them as JSON text frames.
type Mirror struct {
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*websocket.Conn]chan []byte
}

// NewMirror returns a Mirror with no connected clients yet.
func NewMirror() *Mirror {
	return &Mirror{
		upgrader: websocket.Upgrader{
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*websocket.Conn]chan []byte),
	}
}

// ServeHTTP upgrades the request and registers the resulting
// connection until it disconnects.
func (m *Mirror) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	send := make(chan []byte, clientSendBuffer)
	m.mu.Lock()
	m.clients[conn] = send
	m.mu.Unlock()

	go m.writePump(conn, send)
	go m.readPump(conn)
}

// writePump drains send to the socket until it's closed, then tears
// the connection down. This mirror never reads client frames beyond
// keeping the connection alive, so readPump only watches for closure.
func (m *Mirror) writePump(conn *websocket.Conn, send chan []byte) {
	defer m.unregister(conn)
	for payload := range send {
		conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			return
		}
	}
}

func (m *Mirror) readPump(conn *websocket.Conn) {
	defer m.unregister(conn)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (m *Mirror) unregister(conn *websocket.Conn) {
	m.mu.Lock()
	if send, ok := m.clients[conn]; ok {
		delete(m.clients, conn)
		close(send)
	}
	m.mu.Unlock()
	conn.Close()
}

// Broadcast renders ev as JSON and enqueues it for every connected
// client. A client whose send buffer is full is dropped rather than
// stalling the Dispatcher's broadcast (spec.md §5 applies to this
// secondary fan-out too).
func (m *Mirror) Broadcast(ev domain.Event) {
	payload, err := json.Marshal(toWireEvent(ev))
	if err != nil {
		logger.Warn().Err(err).Msg("failed to marshal event for feed mirror")
		return
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	for conn, send := range m.clients {
		select {
		case send <- payload:
		default:
			logger.Warn().Msg("feed client send buffer full, dropping event")
			go m.unregister(conn)
		}
	}
}

// ClientCount reports how many dashboards are currently connected.
func (m *Mirror) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.clients)
}
