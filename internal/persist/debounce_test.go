package persist

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/mishwar/go-mishwar/internal/models"
)

// countingAdapter records every Save for inspection.
type countingAdapter struct {
	mu    sync.Mutex
	saves map[string]int
	last  map[string]map[string]*models.BookingRecord
}

func newCountingAdapter() *countingAdapter {
	return &countingAdapter{
		saves: make(map[string]int),
		last:  make(map[string]map[string]*models.BookingRecord),
	}
}

func (a *countingAdapter) Load(ctx context.Context, key string) (map[string]*models.BookingRecord, error) {
	return map[string]*models.BookingRecord{}, nil
}

func (a *countingAdapter) Save(ctx context.Context, key string, collection map[string]*models.BookingRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.saves[key]++
	a.last[key] = collection
	return nil
}

func (a *countingAdapter) saveCount(key string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.saves[key]
}

func (a *countingAdapter) lastPayload(key string) map[string]*models.BookingRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last[key]
}

func collectionOfSize(n int) map[string]*models.BookingRecord {
	c := make(map[string]*models.BookingRecord, n)
	for i := 0; i < n; i++ {
		id := fmt.Sprintf("bk_%d", i)
		c[id] = &models.BookingRecord{ID: id, Status: models.BookingStatusPending}
	}
	return c
}

func TestDebounceCoalescesBursts(t *testing.T) {
	adapter := newCountingAdapter()
	w := NewDebouncedWriter(adapter, 30*time.Millisecond)

	// A burst of saves inside the window must collapse into a single
	// write carrying the last payload.
	for i := 1; i <= 5; i++ {
		w.Save(KeyRequests, collectionOfSize(i))
	}

	time.Sleep(150 * time.Millisecond)

	if got := adapter.saveCount(KeyRequests); got != 1 {
		t.Errorf("save count = %d, want 1", got)
	}
	if got := len(adapter.lastPayload(KeyRequests)); got != 5 {
		t.Errorf("persisted payload has %d records, want the final 5", got)
	}
}

func TestDebounceKeysAreIndependent(t *testing.T) {
	adapter := newCountingAdapter()
	w := NewDebouncedWriter(adapter, 30*time.Millisecond)

	w.Save(KeyRequests, collectionOfSize(1))
	w.Save(KeyConfirmed, collectionOfSize(2))

	time.Sleep(150 * time.Millisecond)

	if got := adapter.saveCount(KeyRequests); got != 1 {
		t.Errorf("requests save count = %d, want 1", got)
	}
	if got := adapter.saveCount(KeyConfirmed); got != 1 {
		t.Errorf("confirmed save count = %d, want 1", got)
	}
}

func TestFlushWritesImmediately(t *testing.T) {
	adapter := newCountingAdapter()
	w := NewDebouncedWriter(adapter, time.Hour)

	w.Save(KeyRequests, collectionOfSize(3))
	w.Flush()

	if got := adapter.saveCount(KeyRequests); got != 1 {
		t.Errorf("save count after flush = %d, want 1", got)
	}

	// The stopped timer must not fire a second write later.
	time.Sleep(50 * time.Millisecond)
	if got := adapter.saveCount(KeyRequests); got != 1 {
		t.Errorf("save count = %d, want still 1", got)
	}
}

func TestCloseFlushesAndRejectsFurtherSaves(t *testing.T) {
	adapter := newCountingAdapter()
	w := NewDebouncedWriter(adapter, time.Hour)

	w.Save(KeyRequests, collectionOfSize(2))
	w.Close()

	if got := adapter.saveCount(KeyRequests); got != 1 {
		t.Errorf("save count after close = %d, want 1", got)
	}

	w.Save(KeyRequests, collectionOfSize(9))
	w.Flush()
	if got := adapter.saveCount(KeyRequests); got != 1 {
		t.Errorf("save accepted after close: count = %d, want 1", got)
	}
}
