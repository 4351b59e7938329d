// Command engine runs the matching engine service: it binds the
// configured TCP port (with fallback), starts the single-threaded
// Engine behind the Dispatcher, and serves a Prometheus /metrics
// endpoint plus an optional WebSocket event mirror (spec.md §6.3).
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/tembolo1284/go-matching-engine/config"
	"github.com/tembolo1284/go-matching-engine/dispatcher"
	"github.com/tembolo1284/go-matching-engine/domain"
	"github.com/tembolo1284/go-matching-engine/feed"
	"github.com/tembolo1284/go-matching-engine/logging"
	"github.com/tembolo1284/go-matching-engine/matching"
	"github.com/tembolo1284/go-matching-engine/metrics"
	"github.com/tembolo1284/go-matching-engine/supervisor"
)

// feedSessionID is a sentinel registry key reserved for the feed
// mirror, out of the range the Supervisor's monotonic, 1-based session
// ids ever produce.
const feedSessionID = ^uint64(0)

func main() {
	cfg := config.Load()
	logging.Init(cfg.LogLevel)
	logger := logging.Component("main")

	reg, promReg := metrics.NewRegistry()
	mirror := feed.NewMirror()

	d := dispatcher.New()
	engine := matching.NewEngine()

	sv, err := supervisor.New(d, cfg.BindAddr, cfg.Port)
	if err != nil {
		logger.Error().Err(err).Msg("failed to bind any port, exiting")
		os.Exit(1)
	}

	fmt.Printf("matching engine listening on %s:%d (attempts: %d)\n", cfg.BindAddr, sv.BoundPort(), sv.Attempts())

	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(promReg))
	mux.Handle("/feed", mirror)
	metricsAddr := fmt.Sprintf("%s:%d", cfg.BindAddr, sv.BoundPort()+100)
	go func() {
		if err := http.ListenAndServe(metricsAddr, mux); err != nil {
			logger.Warn().Err(err).Msg("metrics/feed http server stopped")
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())

	d.Register(feedSessionID, mirrorSession{mirror: mirror})

	go reportMetrics(d, reg, ctx)
	go d.Run(engine)
	go sv.Serve(ctx)

	supervisor.WaitForShutdownSignal(cancel)
	d.Close()

	fmt.Printf("shutdown complete: %d requests received, %d events generated\n",
		d.RequestsReceived(), d.EventsGenerated())
}

// mirrorSession adapts feed.Mirror to the Dispatcher's session
// registry so every broadcast Event reaches connected dashboards the
// same way it reaches TCP sessions, without the Dispatcher or feed
// package needing to know about each other.
type mirrorSession struct {
	mirror *feed.Mirror
}

func (m mirrorSession) Enqueue(ev domain.Event) { m.mirror.Broadcast(ev) }

// reportMetrics periodically syncs the Dispatcher's atomic counters
// and session registry into the Prometheus collectors until ctx is
// cancelled. Counters only support Add, so we track the last-seen
// totals and add the delta each tick rather than re-deriving them from
// scratch.
func reportMetrics(d *dispatcher.Dispatcher, reg *metrics.Registry, ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	var lastRequests, lastEvents uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			reg.SessionsActive.Set(float64(d.SessionCount()))

			if requests := d.RequestsReceived(); requests > lastRequests {
				reg.RequestsReceived.Add(float64(requests - lastRequests))
				lastRequests = requests
			}
			if events := d.EventsGenerated(); events > lastEvents {
				reg.EventsGenerated.Add(float64(events - lastEvents))
				lastEvents = events
			}
		}
	}
}
