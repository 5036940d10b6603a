package models

import (
	"testing"
)

func TestCanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from string
		to   string
		want bool
	}{
		{"pending to accepted", BookingStatusPending, BookingStatusAccepted, true},
		{"pending to rejected", BookingStatusPending, BookingStatusRejected, true},
		{"pending to cancelled", BookingStatusPending, BookingStatusCancelled, false},
		{"pending to completed", BookingStatusPending, BookingStatusCompleted, false},
		{"accepted to cancelled", BookingStatusAccepted, BookingStatusCancelled, true},
		{"accepted to completed", BookingStatusAccepted, BookingStatusCompleted, true},
		{"accepted to rejected", BookingStatusAccepted, BookingStatusRejected, false},
		{"rejected is terminal", BookingStatusRejected, BookingStatusAccepted, false},
		{"cancelled is terminal", BookingStatusCancelled, BookingStatusCompleted, false},
		{"completed is terminal", BookingStatusCompleted, BookingStatusCancelled, false},
		{"unknown status", "unknown", BookingStatusAccepted, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &BookingRecord{Status: tt.from}
			if got := b.CanTransitionTo(tt.to); got != tt.want {
				t.Errorf("CanTransitionTo(%s -> %s) = %v, want %v", tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestTerminalStatusesHaveNoExits(t *testing.T) {
	for _, status := range []string{BookingStatusRejected, BookingStatusCancelled, BookingStatusCompleted} {
		if exits := ValidBookingTransitions[status]; len(exits) != 0 {
			t.Errorf("%s must have no exit transitions, got %v", status, exits)
		}
	}
}
