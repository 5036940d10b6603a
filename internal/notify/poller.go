// Package notify polls the booking store for per-driver pending-request
// counts on a fixed interval. It is a read-only consumer of the store;
// nothing here mutates booking state.
package notify

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mishwar/go-mishwar/internal/store"
)

type Poller struct {
	store    *store.BookingStore
	interval time.Duration

	mu     sync.RWMutex
	counts map[string]int

	cancel context.CancelFunc
	done   chan struct{}
}

func NewPoller(bookingStore *store.BookingStore, interval time.Duration) *Poller {
	return &Poller{
		store:    bookingStore,
		interval: interval,
		counts:   make(map[string]int),
	}
}

// Start launches the polling loop. Stop must be called to shut it down.
func (p *Poller) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	p.refresh()
	go p.run(ctx)
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh()
		}
	}
}

func (p *Poller) refresh() {
	counts := p.store.PendingCountsByDriver()

	p.mu.Lock()
	for driverID, n := range counts {
		if n > p.counts[driverID] {
			log.Printf("notify: driver %s has %d pending booking requests", driverID, n)
		}
	}
	p.counts = counts
	p.mu.Unlock()
}

// PendingCount returns the count observed on the last poll. It can lag
// the store by up to one interval.
func (p *Poller) PendingCount(driverID string) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.counts[driverID]
}

// Stop halts the polling loop and waits for it to exit.
func (p *Poller) Stop() {
	if p.cancel == nil {
		return
	}
	p.cancel()
	<-p.done
}
