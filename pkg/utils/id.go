package utils

import "github.com/google/uuid"

// NewBookingID generates a fresh booking record id
func NewBookingID() string {
	return "bk_" + uuid.New().String()
}

// NewMessageID generates a fresh booking message id
func NewMessageID() string {
	return "msg_" + uuid.New().String()
}
