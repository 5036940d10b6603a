package notify

import (
	"testing"
	"time"

	"github.com/mishwar/go-mishwar/internal/models"
	"github.com/mishwar/go-mishwar/internal/store"
)

func newRequest(s *store.BookingStore, passengerID, driverID string) *models.BookingRecord {
	return s.CreateBookingRequest(passengerID, driverID, "trip_1",
		models.TripInfo{From: "Baghdad", To: "Basra", Date: "2025-01-01", Time: "09:00", Price: 15000, Seats: 2},
		models.PassengerInfo{Name: "Ali", Phone: "0790", Seats: 1},
	)
}

func TestPollerTracksPendingCounts(t *testing.T) {
	s := store.NewBookingStore(nil, nil)
	newRequest(s, "p1", "d1")
	second := newRequest(s, "p2", "d1")
	newRequest(s, "p3", "d2")

	p := NewPoller(s, time.Hour)
	p.refresh()

	if got := p.PendingCount("d1"); got != 2 {
		t.Errorf("d1 count = %d, want 2", got)
	}
	if got := p.PendingCount("d2"); got != 1 {
		t.Errorf("d2 count = %d, want 1", got)
	}
	if got := p.PendingCount("d99"); got != 0 {
		t.Errorf("unknown driver count = %d, want 0", got)
	}

	// Counts refresh only on poll, never live.
	s.AcceptBooking(second.ID)
	if got := p.PendingCount("d1"); got != 2 {
		t.Errorf("count changed between polls: %d", got)
	}

	p.refresh()
	if got := p.PendingCount("d1"); got != 1 {
		t.Errorf("d1 count after accept+poll = %d, want 1", got)
	}
}

func TestPollerStartStop(t *testing.T) {
	s := store.NewBookingStore(nil, nil)
	newRequest(s, "p1", "d1")

	p := NewPoller(s, 10*time.Millisecond)
	p.Start()

	if got := p.PendingCount("d1"); got != 1 {
		t.Errorf("count after start = %d, want 1 (initial refresh)", got)
	}

	newRequest(s, "p2", "d1")
	deadline := time.Now().Add(time.Second)
	for p.PendingCount("d1") != 2 {
		if time.Now().After(deadline) {
			t.Fatal("poller never observed the second request")
		}
		time.Sleep(5 * time.Millisecond)
	}

	p.Stop()
}
