// Command bench drives the matching engine at full tilt in-process,
// the way the teacher's original benchmark harness measured raw
// Engine throughput before a Dispatcher or network ever entered the
// picture: several producer goroutines generate synthetic crossing
// orders, Dispatcher.Run drains them through one Engine, and a single
// counting session tallies the resulting Events.
package main

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/tembolo1284/go-matching-engine/dispatcher"
	"github.com/tembolo1284/go-matching-engine/domain"
	"github.com/tembolo1284/go-matching-engine/matching"
)

const benchSymbol = "BTCUSDT"

// countingSession tallies every Event kind it receives instead of
// writing anything to a socket.
type countingSession struct {
	acks   atomic.Int64
	trades atomic.Int64
	tobs   atomic.Int64
}

func (c *countingSession) Enqueue(ev domain.Event) {
	switch ev.(type) {
	case domain.AckEvent, domain.CancelAckEvent:
		c.acks.Add(1)
	case domain.TradeEvent:
		c.trades.Add(1)
	case domain.TopOfBookEvent:
		c.tobs.Add(1)
	}
}

func main() {
	testDuration := 5 * time.Second
	numCPU := runtime.NumCPU()
	numWorkers := numCPU - 2
	if numWorkers < 1 {
		numWorkers = 1
	}

	engine := matching.NewEngine()
	d := dispatcher.New()
	counter := &countingSession{}
	d.Register(1, counter)
	runDone := make(chan struct{})
	go func() {
		d.Run(engine)
		close(runDone)
	}()

	var orderCount atomic.Int64
	idGen := matching.NewIDGenerator()

	fmt.Println("matching engine throughput benchmark")
	fmt.Printf("cpus: %d, producers: %d, duration: %v\n\n", numCPU, numWorkers, testDuration)

	startTime := time.Now()
	stopChan := make(chan struct{})

	for w := 0; w < numWorkers; w++ {
		go func(workerID int) {
			for {
				select {
				case <-stopChan:
					return
				default:
					orderID := idGen.Next()
					var side domain.Side
					var price int64
					if orderID%2 == 0 {
						side = domain.SideBuy
						price = 50000 + int64(orderID%200)
					} else {
						side = domain.SideSell
						price = 50000 + int64(orderID%200)
					}

					d.Submit(domain.NewOrderRequest{
						ClientID: uint64(workerID) + 1,
						OrderID:  orderID,
						Symbol:   benchSymbol,
						Side:     side,
						Price:    price,
						Qty:      1,
					})
					orderCount.Add(1)
				}
			}
		}(w)
	}

	ticker := time.NewTicker(time.Second)
	go func() {
		for range ticker.C {
			elapsed := time.Since(startTime)
			orders := orderCount.Load()
			trades := counter.trades.Load()
			fmt.Printf("[%.0fs] orders: %d (%.0f/s) | trades: %d (%.0f/s)\n",
				elapsed.Seconds(), orders, float64(orders)/elapsed.Seconds(),
				trades, float64(trades)/elapsed.Seconds())
		}
	}()

	time.Sleep(testDuration)
	close(stopChan)
	ticker.Stop()
	time.Sleep(500 * time.Millisecond)
	d.Close()
	<-runDone // Process is single-writer only; wait for Run to exit before reading book state

	elapsed := time.Since(startTime)
	totalOrders := orderCount.Load()
	totalTrades := counter.trades.Load()

	qps := float64(totalOrders) / elapsed.Seconds()
	tps := float64(totalTrades) / elapsed.Seconds()
	matchRate := float64(totalTrades) / float64(totalOrders) * 100

	fmt.Println("\n=== results ===")
	fmt.Printf("duration:        %v\n", elapsed)
	fmt.Printf("total orders:    %d\n", totalOrders)
	fmt.Printf("total trades:    %d\n", totalTrades)
	fmt.Printf("order throughput: %.0f orders/sec\n", qps)
	fmt.Printf("trade throughput: %.0f trades/sec\n", tps)
	fmt.Printf("match rate:       %.2f%%\n", matchRate)

	bids, asks := engine.BookDepth(benchSymbol, 5)
	fmt.Println("\n=== book depth ===")
	fmt.Println("bids:")
	for i, level := range bids {
		fmt.Printf("  %d. price=%d qty=%d orders=%d\n", i+1, level.Price, level.Quantity, level.Orders)
	}
	fmt.Println("asks:")
	for i, level := range asks {
		fmt.Printf("  %d. price=%d qty=%d orders=%d\n", i+1, level.Price, level.Quantity, level.Orders)
	}
}
