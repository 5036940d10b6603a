package persist

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mishwar/go-mishwar/internal/models"
)

func TestFileAdapterRoundTrip(t *testing.T) {
	adapter, err := NewFileAdapter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	now := time.Now().UTC().Truncate(time.Millisecond)
	reason := "full"
	collection := map[string]*models.BookingRecord{
		"bk_1": {
			ID:            "bk_1",
			PassengerID:   "p1",
			DriverID:      "d1",
			TripID:        "t1",
			TripInfo:      models.TripInfo{From: "Baghdad", To: "Basra", Date: "2025-01-01", Time: "09:00", Price: 15000, Seats: 2},
			PassengerInfo: models.PassengerInfo{Name: "Ali", Phone: "0790", Seats: 2},
			Status:        models.BookingStatusRejected,
			PaymentStatus: models.PaymentStatusPending,
			Messages: []models.BookingMessage{
				{ID: "msg_1", SenderID: "p1", SenderType: "passenger", Text: "hi", Timestamp: now},
			},
			RejectionReason: &reason,
			CreatedAt:       now,
			UpdatedAt:       now,
		},
	}

	if err := adapter.Save(ctx, KeyRequests, collection); err != nil {
		t.Fatal(err)
	}

	loaded, err := adapter.Load(ctx, KeyRequests)
	if err != nil {
		t.Fatal(err)
	}

	got, ok := loaded["bk_1"]
	if !ok {
		t.Fatal("record missing after reload")
	}
	if got.Status != models.BookingStatusRejected {
		t.Errorf("status = %s, want rejected", got.Status)
	}
	if got.RejectionReason == nil || *got.RejectionReason != "full" {
		t.Errorf("rejection reason = %v, want 'full'", got.RejectionReason)
	}
	if len(got.Messages) != 1 || !got.Messages[0].Timestamp.Equal(now) {
		t.Errorf("messages = %+v, want one with preserved timestamp", got.Messages)
	}
	if got.TripInfo.Price != 15000 {
		t.Errorf("trip price = %v, want 15000", got.TripInfo.Price)
	}
}

func TestFileAdapterMissingKeyIsEmpty(t *testing.T) {
	adapter, err := NewFileAdapter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	loaded, err := adapter.Load(context.Background(), KeyConfirmed)
	if err != nil {
		t.Fatalf("missing key must not error: %v", err)
	}
	if len(loaded) != 0 {
		t.Errorf("got %d records, want empty collection", len(loaded))
	}
}

func TestFileAdapterCorruptData(t *testing.T) {
	dir := t.TempDir()
	adapter, err := NewFileAdapter(dir)
	if err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(filepath.Join(dir, "bookings_requests.json"), []byte("{broken"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := adapter.Load(context.Background(), KeyRequests); err == nil {
		t.Error("corrupt payload must surface as a load error")
	}
}

func TestFileAdapterOverwrite(t *testing.T) {
	adapter, err := NewFileAdapter(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()

	first := map[string]*models.BookingRecord{"bk_1": {ID: "bk_1", Status: models.BookingStatusPending}}
	second := map[string]*models.BookingRecord{"bk_2": {ID: "bk_2", Status: models.BookingStatusPending}}

	if err := adapter.Save(ctx, KeyRequests, first); err != nil {
		t.Fatal(err)
	}
	if err := adapter.Save(ctx, KeyRequests, second); err != nil {
		t.Fatal(err)
	}

	loaded, err := adapter.Load(ctx, KeyRequests)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := loaded["bk_1"]; ok {
		t.Error("old payload survived overwrite")
	}
	if _, ok := loaded["bk_2"]; !ok {
		t.Error("new payload missing after overwrite")
	}
}
