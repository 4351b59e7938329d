// Package session implements the per-connection boundary between raw
// socket bytes and the domain Request/Event streams: spec.md §4.3.
package session

import (
	"bufio"
	"errors"
	"io"
	"net"

	"github.com/tembolo1284/go-matching-engine/domain"
	"github.com/tembolo1284/go-matching-engine/logging"
	"github.com/tembolo1284/go-matching-engine/protocol"
	"github.com/tembolo1284/go-matching-engine/queue"
)

var logger = logging.Component("session")

// Session owns one client connection: a decoder for inbound bytes, an
// outbound queue of Events waiting to be encoded and written, and a
// stable id assigned once by the Supervisor at accept time.
//
// ID is distinct from any client/user id carried inside a NewOrder or
// Cancel payload — it never appears in a Request or Event, only in
// Dispatcher registration and Supervisor statistics.
type Session struct {
	ID         uint64
	conn       net.Conn
	binaryMode bool
	decoder    protocol.Decoder
	encoder    protocol.Encoder
	outbound   *queue.Unbounded[domain.Event]
}

// New wraps conn, sniffing its first byte to pick CSV or binary framing
// (spec.md §9) before anything else is read from it.
func New(id uint64, conn net.Conn) (*Session, error) {
	reader := bufio.NewReader(conn)

	binaryMode, err := protocol.Sniff(reader)
	if err != nil {
		return nil, err
	}

	return &Session{
		ID:         id,
		conn:       conn,
		binaryMode: binaryMode,
		decoder:    protocol.NewDecoder(reader, binaryMode),
		encoder:    protocol.NewEncoder(conn, binaryMode),
		outbound:   queue.NewUnbounded[domain.Event](),
	}, nil
}

// Enqueue hands ev to this session's outbound queue. Never blocks: a
// slow or dead peer only grows this session's own memory (spec.md §5).
func (s *Session) Enqueue(ev domain.Event) {
	s.outbound.Push(ev)
}

// ReadLoop decodes inbound Requests and hands each to submit, in the
// exact order this session produced them, until the peer disconnects or
// a protocol error closes the session. The return value is nil on a
// clean disconnect.
func (s *Session) ReadLoop(submit func(domain.Request)) error {
	for {
		req, err := s.decoder.ReadRequest()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			logger.Warn().Uint64("session_id", s.ID).Err(err).Msg("closing session on protocol error")
			return err
		}
		submit(req)
	}
}

// WriteLoop drains the outbound queue to the socket until the queue is
// closed (via Close) or a write fails.
func (s *Session) WriteLoop() error {
	for {
		ev, ok := s.outbound.Pop()
		if !ok {
			return nil
		}
		if err := s.encoder.WriteEvent(ev); err != nil {
			return err
		}
	}
}

// Close best-effort drains nothing further, closes the outbound queue so
// WriteLoop returns, and closes the socket.
func (s *Session) Close() {
	s.outbound.Close()
	s.conn.Close()
}
