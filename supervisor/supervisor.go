// Package supervisor owns the TCP accept loop, binds the configured
// port with fallback, and wires each accepted connection into a
// Session registered with the Dispatcher (spec.md §6.3), the way
// ejyy-femto_go's Server.Start/addClient/handleClient accept and
// register one connection at a time, generalised here with a
// three-attempt port fallback and graceful shutdown.
package supervisor

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"sync/atomic"
	"syscall"

	"github.com/tembolo1284/go-matching-engine/dispatcher"
	"github.com/tembolo1284/go-matching-engine/logging"
	"github.com/tembolo1284/go-matching-engine/session"
)

var logger = logging.Component("supervisor")

// portFallbackAttempts bounds the ports tried before giving up
// (spec.md §6.3: port, port+1, port+2).
const portFallbackAttempts = 3

// Supervisor accepts connections on a fallback-resolved port and hands
// each one to a fresh Session wired into the Dispatcher.
type Supervisor struct {
	dispatcher *dispatcher.Dispatcher
	listener   net.Listener
	boundPort  int
	attempts   int

	nextSessionID atomic.Uint64

	wg sync.WaitGroup
}

// New binds bindAddr:port, falling back to port+1 and port+2 if the
// first attempts are refused, and returns an error only once all
// attempts are exhausted (spec.md §6.3's fatal condition).
func New(d *dispatcher.Dispatcher, bindAddr string, port int) (*Supervisor, error) {
	var lastErr error
	for attempt := 0; attempt < portFallbackAttempts; attempt++ {
		tryPort := port + attempt
		addr := fmt.Sprintf("%s:%d", bindAddr, tryPort)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			logger.Info().Str("addr", addr).Int("attempts", attempt+1).Msg("bound listener")
			return &Supervisor{
				dispatcher: d,
				listener:   listener,
				boundPort:  tryPort,
				attempts:   attempt + 1,
			}, nil
		}
		lastErr = err
		logger.Warn().Str("addr", addr).Err(err).Msg("bind attempt failed, trying next port")
	}
	return nil, fmt.Errorf("supervisor: exhausted %d port attempts starting at %d: %w", portFallbackAttempts, port, lastErr)
}

// BoundPort reports the port actually bound, which may differ from the
// one requested if fallback kicked in.
func (sv *Supervisor) BoundPort() int { return sv.boundPort }

// Attempts reports how many ports were tried before binding succeeded.
func (sv *Supervisor) Attempts() int { return sv.attempts }

// Serve accepts connections until ctx is cancelled, registering each
// with the Dispatcher and spawning its ReadLoop/WriteLoop goroutines.
// Serve returns once every spawned session goroutine has exited.
func (sv *Supervisor) Serve(ctx context.Context) {
	go func() {
		<-ctx.Done()
		sv.listener.Close()
	}()

	for {
		conn, err := sv.listener.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				sv.wg.Wait()
				return
			default:
				logger.Warn().Err(err).Msg("accept failed, continuing")
				continue
			}
		}
		sv.handleConn(conn)
	}
}

func (sv *Supervisor) handleConn(conn net.Conn) {
	id := sv.nextSessionID.Add(1)

	sess, err := session.New(id, conn)
	if err != nil {
		logger.Warn().Uint64("session_id", id).Err(err).Msg("failed to establish session, closing")
		conn.Close()
		return
	}

	sv.dispatcher.Register(id, sess)
	logger.Info().Uint64("session_id", id).Int("sessions", sv.dispatcher.SessionCount()).Msg("session registered")

	sv.wg.Add(2)
	go func() {
		defer sv.wg.Done()
		defer sv.cleanup(id, sess)
		sess.ReadLoop(sv.dispatcher.Submit)
	}()
	go func() {
		defer sv.wg.Done()
		sess.WriteLoop()
	}()
}

func (sv *Supervisor) cleanup(id uint64, sess *session.Session) {
	sv.dispatcher.Deregister(id)
	sess.Close()
	logger.Info().Uint64("session_id", id).Int("sessions", sv.dispatcher.SessionCount()).Msg("session deregistered")
}

// WaitForShutdownSignal blocks until SIGINT/SIGTERM arrives, cancels
// ctx to begin graceful shutdown and returns, leaving a watcher that
// force-exits the process if a second signal arrives before shutdown
// completes (spec.md §6.3).
func WaitForShutdownSignal(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	<-sigCh
	logger.Info().Msg("shutdown signal received, draining connections")
	cancel()

	go func() {
		<-sigCh
		logger.Warn().Msg("second shutdown signal received, forcing exit")
		os.Exit(1)
	}()
}
