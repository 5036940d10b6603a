package models

import (
	"time"
)

// Booking status constants
const (
	BookingStatusPending   = "pending"
	BookingStatusAccepted  = "accepted"
	BookingStatusRejected  = "rejected"
	BookingStatusCancelled = "cancelled"
	BookingStatusCompleted = "completed"
)

// Payment status constants (independent axis from booking status)
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Parties that can cancel an accepted booking
const (
	CancelledByPassenger = "passenger"
	CancelledByDriver    = "driver"
)

// User types for booking queries
const (
	UserTypePassenger = "passenger"
	UserTypeDriver    = "driver"
)

// Valid booking state transitions. pending and accepted are the only
// non-terminal states; rejected, cancelled and completed have no exits.
var ValidBookingTransitions = map[string][]string{
	BookingStatusPending:   {BookingStatusAccepted, BookingStatusRejected},
	BookingStatusAccepted:  {BookingStatusCancelled, BookingStatusCompleted},
	BookingStatusRejected:  {},
	BookingStatusCancelled: {},
	BookingStatusCompleted: {},
}

// TripInfo is a point-in-time snapshot of the trip being booked. It is
// captured when the request is created and never re-fetched from the
// offer system afterwards.
type TripInfo struct {
	From  string  `json:"from"`
	To    string  `json:"to"`
	Date  string  `json:"date"`
	Time  string  `json:"time"`
	Price float64 `json:"price"`
	Seats int     `json:"seats"`
}

// PassengerInfo is the requester-supplied snapshot attached at creation.
type PassengerInfo struct {
	Name            string `json:"name"`
	Phone           string `json:"phone"`
	Seats           int    `json:"seats"`
	SpecialRequests string `json:"special_requests,omitempty"`
	PickupTime      string `json:"pickup_time,omitempty"`
	Notes           string `json:"notes,omitempty"`
}

type BookingMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	SenderType string    `json:"sender_type"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
}

type BookingRating struct {
	Score     int       `json:"score"`
	Comment   string    `json:"comment,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

type BookingRecord struct {
	ID                 string           `json:"id"`
	PassengerID        string           `json:"passenger_id"`
	DriverID           string           `json:"driver_id"`
	TripID             string           `json:"trip_id"`
	TripInfo           TripInfo         `json:"trip_info"`
	PassengerInfo      PassengerInfo    `json:"passenger_info"`
	Status             string           `json:"status"`
	PaymentStatus      string           `json:"payment_status"`
	Rating             *BookingRating   `json:"rating,omitempty"`
	Messages           []BookingMessage `json:"messages"`
	CreatedAt          time.Time        `json:"created_at"`
	UpdatedAt          time.Time        `json:"updated_at"`
	CompletedAt        *time.Time       `json:"completed_at,omitempty"`
	CancelledBy        *string          `json:"cancelled_by,omitempty"`
	CancellationReason *string          `json:"cancellation_reason,omitempty"`
	RejectionReason    *string          `json:"rejection_reason,omitempty"`
}

// CanTransitionTo checks if a booking can transition to a new status
func (b *BookingRecord) CanTransitionTo(newStatus string) bool {
	validNextStates, exists := ValidBookingTransitions[b.Status]
	if !exists {
		return false
	}

	for _, state := range validNextStates {
		if state == newStatus {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the record. The store hands out clones so
// readers never share memory with records still being mutated under the
// store lock.
func (b *BookingRecord) Clone() *BookingRecord {
	c := *b
	if b.Messages != nil {
		c.Messages = make([]BookingMessage, len(b.Messages))
		copy(c.Messages, b.Messages)
	}
	if b.Rating != nil {
		r := *b.Rating
		c.Rating = &r
	}
	if b.CompletedAt != nil {
		t := *b.CompletedAt
		c.CompletedAt = &t
	}
	if b.CancelledBy != nil {
		v := *b.CancelledBy
		c.CancelledBy = &v
	}
	if b.CancellationReason != nil {
		v := *b.CancellationReason
		c.CancellationReason = &v
	}
	if b.RejectionReason != nil {
		v := *b.RejectionReason
		c.RejectionReason = &v
	}
	return &c
}

// BookingStats is a frequency table over booking statuses for one user.
// Every bucket is present even when zero.
type BookingStats struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Accepted  int `json:"accepted"`
	Rejected  int `json:"rejected"`
	Cancelled int `json:"cancelled"`
	Completed int `json:"completed"`
}

type CreateBookingRequest struct {
	PassengerID   string        `json:"passenger_id" validate:"required"`
	DriverID      string        `json:"driver_id" validate:"required"`
	TripID        string        `json:"trip_id" validate:"required"`
	TripInfo      TripInfo      `json:"trip_info" validate:"required"`
	PassengerInfo PassengerInfo `json:"passenger_info" validate:"required"`
}

type RejectBookingRequest struct {
	Reason string `json:"reason,omitempty"`
}

type CancelBookingRequest struct {
	Reason      string `json:"reason,omitempty"`
	CancelledBy string `json:"cancelled_by" validate:"omitempty,oneof=passenger driver"`
}

type AddMessageRequest struct {
	SenderID   string `json:"sender_id" validate:"required"`
	SenderType string `json:"sender_type" validate:"required,oneof=passenger driver"`
	Text       string `json:"text" validate:"required"`
}

type AddRatingRequest struct {
	Score   int    `json:"score" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty"`
}

type UpdatePaymentRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid refunded"`
}
