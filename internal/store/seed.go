package store

import (
	"log"

	"github.com/mishwar/go-mishwar/internal/models"
)

// SeedDemoData inserts a small demo dataset through the normal operations.
// Called on startup when SEED_DEMO_DATA is set and the durable store came
// up empty.
func (s *BookingStore) SeedDemoData() {
	first := s.CreateBookingRequest("demo_passenger_1", "demo_driver_1", "demo_trip_1",
		models.TripInfo{From: "Baghdad", To: "Basra", Date: "2025-01-01", Time: "09:00", Price: 15000, Seats: 2},
		models.PassengerInfo{Name: "Ali", Phone: "07901234567", Seats: 2},
	)
	s.AcceptBooking(first.ID)

	s.CreateBookingRequest("demo_passenger_2", "demo_driver_1", "demo_trip_2",
		models.TripInfo{From: "Baghdad", To: "Erbil", Date: "2025-01-02", Time: "14:30", Price: 20000, Seats: 1},
		models.PassengerInfo{Name: "Zainab", Phone: "07707654321", Seats: 1, Notes: "window seat please"},
	)

	log.Println("store: seeded demo bookings")
}
