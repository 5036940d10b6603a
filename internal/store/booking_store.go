// Package store implements the booking lifecycle: creation of booking
// requests, the accept/reject/cancel/complete transitions, messages,
// payment status and ratings, over two in-memory collections persisted
// through a debounced writer.
//
// A record with status pending lives only in the requests collection;
// every other status lives in the confirmed collection, with one
// deliberate exception: a rejected request stays in the requests
// collection (callers still scan it for rejected entries).
//
// Mutators never return errors. A missing id, or a record not in the
// status the transition leaves from, is a silent no-op reported only
// through the returned found flag.
package store

import (
	"context"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/mishwar/go-mishwar/internal/models"
	"github.com/mishwar/go-mishwar/internal/persist"
	"github.com/mishwar/go-mishwar/pkg/utils"
)

const loadTimeout = 5 * time.Second

type BookingStore struct {
	mu       sync.RWMutex
	requests map[string]*models.BookingRecord // pending (and rejected-in-place) records
	bookings map[string]*models.BookingRecord // accepted, cancelled, completed records
	writer   *persist.DebouncedWriter
}

// NewBookingStore loads both collections from the adapter and returns a
// ready store. A nil adapter starts empty (used by tests); load failures
// degrade to an empty collection and are logged, never fatal.
func NewBookingStore(adapter persist.Adapter, writer *persist.DebouncedWriter) *BookingStore {
	s := &BookingStore{
		requests: make(map[string]*models.BookingRecord),
		bookings: make(map[string]*models.BookingRecord),
		writer:   writer,
	}

	if adapter != nil {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()

		if requests, err := adapter.Load(ctx, persist.KeyRequests); err != nil {
			log.Printf("store: failed to load %s, starting empty: %v", persist.KeyRequests, err)
		} else {
			s.requests = requests
		}
		if bookings, err := adapter.Load(ctx, persist.KeyConfirmed); err != nil {
			log.Printf("store: failed to load %s, starting empty: %v", persist.KeyConfirmed, err)
		} else {
			s.bookings = bookings
		}
	}

	return s
}

// Empty reports whether both collections hold no records.
func (s *BookingStore) Empty() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.requests) == 0 && len(s.bookings) == 0
}

// CreateBookingRequest constructs a pending booking request from the
// given snapshots and inserts it into the requests collection. Input
// shape validation is the caller's responsibility.
func (s *BookingStore) CreateBookingRequest(passengerID, driverID, tripID string, tripInfo models.TripInfo, passengerInfo models.PassengerInfo) *models.BookingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	rec := &models.BookingRecord{
		ID:            utils.NewBookingID(),
		PassengerID:   passengerID,
		DriverID:      driverID,
		TripID:        tripID,
		TripInfo:      tripInfo,
		PassengerInfo: passengerInfo,
		Status:        models.BookingStatusPending,
		PaymentStatus: models.PaymentStatusPending,
		Messages:      []models.BookingMessage{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	s.requests[rec.ID] = rec
	s.persistRequests()
	return rec.Clone()
}

// AcceptBooking moves a pending request into the confirmed collection.
// The move happens under one lock hold, so no reader (including the
// persistence listener) ever sees the record in both collections or in
// neither.
func (s *BookingStore) AcceptBooking(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.requests[id]
	if !ok || !rec.CanTransitionTo(models.BookingStatusAccepted) {
		return false
	}

	rec.Status = models.BookingStatusAccepted
	rec.UpdatedAt = time.Now().UTC()
	delete(s.requests, id)
	s.bookings[id] = rec

	s.persistRequests()
	s.persistBookings()
	return true
}

// RejectBooking marks a pending request rejected. Unlike accept, the
// record stays in the requests collection.
func (s *BookingStore) RejectBooking(id, reason string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.requests[id]
	if !ok || !rec.CanTransitionTo(models.BookingStatusRejected) {
		return false
	}

	rec.Status = models.BookingStatusRejected
	rec.RejectionReason = &reason
	rec.UpdatedAt = time.Now().UTC()

	s.persistRequests()
	return true
}

// CancelBooking cancels an accepted booking. A pending request cannot be
// cancelled, only rejected. cancelledBy defaults to passenger.
func (s *BookingStore) CancelBooking(id, reason, cancelledBy string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.bookings[id]
	if !ok || !rec.CanTransitionTo(models.BookingStatusCancelled) {
		return false
	}

	if cancelledBy == "" {
		cancelledBy = models.CancelledByPassenger
	}
	rec.Status = models.BookingStatusCancelled
	rec.CancellationReason = &reason
	rec.CancelledBy = &cancelledBy
	rec.UpdatedAt = time.Now().UTC()

	s.persistBookings()
	return true
}

// CompleteBooking marks an accepted booking completed.
func (s *BookingStore) CompleteBooking(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.bookings[id]
	if !ok || !rec.CanTransitionTo(models.BookingStatusCompleted) {
		return false
	}

	now := time.Now().UTC()
	rec.Status = models.BookingStatusCompleted
	rec.CompletedAt = &now
	rec.UpdatedAt = now

	s.persistBookings()
	return true
}

// GetUserBookings returns a point-in-time snapshot of the user's records
// from both collections, newest first.
func (s *BookingStore) GetUserBookings(userID, userType string) []*models.BookingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := s.userRecordsLocked(userID, userType)
	sortByCreatedAtDesc(records)
	return records
}

// GetBookingByID looks up the confirmed collection first, then the
// requests collection. Returns nil if the id is unknown.
func (s *BookingStore) GetBookingByID(id string) *models.BookingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.bookings[id]; ok {
		return rec.Clone()
	}
	if rec, ok := s.requests[id]; ok {
		return rec.Clone()
	}
	return nil
}

// GetDriverPendingRequests returns the driver's still-pending requests,
// newest first. Rejected records parked in the requests collection are
// filtered out here.
func (s *BookingStore) GetDriverPendingRequests(driverID string) []*models.BookingRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*models.BookingRecord, 0)
	for _, rec := range s.requests {
		if rec.DriverID == driverID && rec.Status == models.BookingStatusPending {
			records = append(records, rec.Clone())
		}
	}
	sortByCreatedAtDesc(records)
	return records
}

// PendingCountsByDriver returns the number of pending requests per
// driver. Consumed by the notification poller.
func (s *BookingStore) PendingCountsByDriver() map[string]int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[string]int)
	for _, rec := range s.requests {
		if rec.Status == models.BookingStatusPending {
			counts[rec.DriverID]++
		}
	}
	return counts
}

// GetBookingStats derives a status frequency table over the user's
// records. Every status bucket is present even when zero.
func (s *BookingStore) GetBookingStats(userID, userType string) *models.BookingStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &models.BookingStats{}
	for _, rec := range s.userRecordsLocked(userID, userType) {
		stats.Total++
		switch rec.Status {
		case models.BookingStatusPending:
			stats.Pending++
		case models.BookingStatusAccepted:
			stats.Accepted++
		case models.BookingStatusRejected:
			stats.Rejected++
		case models.BookingStatusCancelled:
			stats.Cancelled++
		case models.BookingStatusCompleted:
			stats.Completed++
		}
	}
	return stats
}

// AddBookingMessage appends a message to whichever collection holds the
// record. UpdatedAt is deliberately left alone: message traffic is not a
// status-relevant update.
func (s *BookingStore) AddBookingMessage(id string, req *models.AddMessageRequest) (*models.BookingMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := models.BookingMessage{
		ID:         utils.NewMessageID(),
		SenderID:   req.SenderID,
		SenderType: req.SenderType,
		Text:       req.Text,
		Timestamp:  time.Now().UTC(),
	}

	if rec, ok := s.requests[id]; ok {
		rec.Messages = append(rec.Messages, msg)
		s.persistRequests()
		return &msg, true
	}
	if rec, ok := s.bookings[id]; ok {
		rec.Messages = append(rec.Messages, msg)
		s.persistBookings()
		return &msg, true
	}
	return nil, false
}

// UpdatePaymentStatus sets the payment status of a confirmed booking.
// Payment is a post-acceptance concept; ids still pending are not found.
func (s *BookingStore) UpdatePaymentStatus(id, status string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.bookings[id]
	if !ok {
		return false
	}

	rec.PaymentStatus = status
	rec.UpdatedAt = time.Now().UTC()

	s.persistBookings()
	return true
}

// AddBookingRating attaches a rating to a confirmed booking. A second
// call overwrites the first; there is no removal operation.
func (s *BookingStore) AddBookingRating(id string, score int, comment string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.bookings[id]
	if !ok {
		return false
	}

	rec.Rating = &models.BookingRating{
		Score:     score,
		Comment:   comment,
		Timestamp: time.Now().UTC(),
	}
	rec.UpdatedAt = time.Now().UTC()

	s.persistBookings()
	return true
}

// ClearAllBookings empties both collections. Reset/testing only.
func (s *BookingStore) ClearAllBookings() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = make(map[string]*models.BookingRecord)
	s.bookings = make(map[string]*models.BookingRecord)

	s.persistRequests()
	s.persistBookings()
}

// userRecordsLocked collects clones of the user's records from both
// collections. Caller must hold at least the read lock.
func (s *BookingStore) userRecordsLocked(userID, userType string) []*models.BookingRecord {
	records := make([]*models.BookingRecord, 0)
	match := func(rec *models.BookingRecord) bool {
		if userType == models.UserTypeDriver {
			return rec.DriverID == userID
		}
		return rec.PassengerID == userID
	}

	for _, rec := range s.requests {
		if match(rec) {
			records = append(records, rec.Clone())
		}
	}
	for _, rec := range s.bookings {
		if match(rec) {
			records = append(records, rec.Clone())
		}
	}
	return records
}

func sortByCreatedAtDesc(records []*models.BookingRecord) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].CreatedAt.Equal(records[j].CreatedAt) {
			return records[i].CreatedAt.After(records[j].CreatedAt)
		}
		return records[i].ID < records[j].ID
	})
}

// persistRequests queues a debounced save of the requests collection.
// Caller must hold the write lock.
func (s *BookingStore) persistRequests() {
	if s.writer == nil {
		return
	}
	s.writer.Save(persist.KeyRequests, snapshot(s.requests))
}

// persistBookings queues a debounced save of the confirmed collection.
// Caller must hold the write lock.
func (s *BookingStore) persistBookings() {
	if s.writer == nil {
		return
	}
	s.writer.Save(persist.KeyConfirmed, snapshot(s.bookings))
}

// snapshot deep-copies a collection so the writer can serialize it
// outside the store lock.
func snapshot(collection map[string]*models.BookingRecord) map[string]*models.BookingRecord {
	out := make(map[string]*models.BookingRecord, len(collection))
	for id, rec := range collection {
		out[id] = rec.Clone()
	}
	return out
}
