// Package persist owns the durable side of the booking store: a small
// key to JSON-collection contract with file, redis and postgres
// implementations, plus the debounced writer that coalesces save bursts.
package persist

import (
	"context"

	"github.com/mishwar/go-mishwar/internal/models"
)

// Logical storage keys, one per collection.
const (
	KeyRequests  = "bookings:requests"
	KeyConfirmed = "bookings:confirmed"
)

// Adapter loads and saves one id-to-record collection per key, serialized
// as JSON. Implementations must tolerate a key that has never been saved
// by returning an empty collection.
type Adapter interface {
	Load(ctx context.Context, key string) (map[string]*models.BookingRecord, error)
	Save(ctx context.Context, key string, collection map[string]*models.BookingRecord) error
}
