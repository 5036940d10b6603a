package persist

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/mishwar/go-mishwar/internal/models"
)

const saveTimeout = 5 * time.Second

// DebouncedWriter coalesces save bursts: each Save resets a per-key timer
// and only the latest payload reaches the adapter once the key has been
// quiet for the debounce window. Write failures are logged, never
// propagated; in-memory state stays authoritative for the session.
//
// There is no per-operation durability guarantee: a crash inside the
// window loses the pending payloads.
type DebouncedWriter struct {
	adapter Adapter
	window  time.Duration

	mu      sync.Mutex
	pending map[string]map[string]*models.BookingRecord
	timers  map[string]*time.Timer
	closed  bool
}

func NewDebouncedWriter(adapter Adapter, window time.Duration) *DebouncedWriter {
	return &DebouncedWriter{
		adapter: adapter,
		window:  window,
		pending: make(map[string]map[string]*models.BookingRecord),
		timers:  make(map[string]*time.Timer),
	}
}

// Save queues a collection snapshot for the key. The caller must not
// mutate the snapshot after handing it over.
func (w *DebouncedWriter) Save(key string, collection map[string]*models.BookingRecord) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	w.pending[key] = collection
	if t, ok := w.timers[key]; ok {
		t.Reset(w.window)
		return
	}
	w.timers[key] = time.AfterFunc(w.window, func() {
		w.flushKey(key)
	})
}

func (w *DebouncedWriter) flushKey(key string) {
	w.mu.Lock()
	collection, ok := w.pending[key]
	delete(w.pending, key)
	delete(w.timers, key)
	w.mu.Unlock()

	if !ok {
		return
	}
	w.write(key, collection)
}

func (w *DebouncedWriter) write(key string, collection map[string]*models.BookingRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()

	if err := w.adapter.Save(ctx, key, collection); err != nil {
		log.Printf("persist: failed to save %s: %v", key, err)
	}
}

// Flush writes all pending collections immediately.
func (w *DebouncedWriter) Flush() {
	w.mu.Lock()
	pending := w.pending
	w.pending = make(map[string]map[string]*models.BookingRecord)
	for key, t := range w.timers {
		t.Stop()
		delete(w.timers, key)
	}
	w.mu.Unlock()

	for key, collection := range pending {
		w.write(key, collection)
	}
}

// Close flushes pending writes and rejects further saves.
func (w *DebouncedWriter) Close() {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	w.Flush()
}
