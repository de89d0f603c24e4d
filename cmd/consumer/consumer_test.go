package main

import (
	"errors"
	"testing"
	"time"

	"github.com/example/mediride/internal/models"
)

// fakeStore implements storage.EventStore for tests
type fakeStore struct {
	fail  int // number of times to fail before succeeding
	calls int
	saved []*models.BookingEvent
}

func (f *fakeStore) SaveEvent(ev *models.BookingEvent) error {
	f.calls++
	if f.calls <= f.fail {
		return errors.New("store fail")
	}
	f.saved = append(f.saved, ev)
	return nil
}

func TestSaveWithRetry_SucceedsAfterRetries(t *testing.T) {
	f := &fakeStore{fail: 2}
	ev := &models.BookingEvent{Type: models.EventBidPlaced, BookingID: "bk-1", BidID: "bid-1", Amount: 380}
	start := time.Now()
	if err := saveWithRetry(f, ev, 3, 10*time.Millisecond); err != nil {
		t.Fatalf("expected success, got err=%v", err)
	}
	if f.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", f.calls)
	}
	if len(f.saved) != 1 {
		t.Fatalf("expected 1 saved event, got %d", len(f.saved))
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatalf("expected at least one backoff")
	}
}

func TestSaveWithRetry_FailsWhenExhausted(t *testing.T) {
	f := &fakeStore{fail: 5}
	ev := &models.BookingEvent{Type: models.EventBookingCreated, BookingID: "bk-1"}
	if err := saveWithRetry(f, ev, 3, 5*time.Millisecond); err == nil {
		t.Fatalf("expected error after retries")
	}
}
