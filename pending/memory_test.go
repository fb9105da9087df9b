package pending

import (
	"context"
	"errors"
	"testing"
	"time"

	"paystack-donation-api/models"
)

func TestMemoryStoreSaveGetDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Hour)

	want := models.PendingDonation{Reference: "DON-1", Name: "Ada", Email: "ada@example.com", Amount: 500}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := s.Get(ctx, "DON-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if *got != want {
		t.Errorf("Get = %+v, want %+v", *got, want)
	}

	if err := s.Delete(ctx, "DON-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "DON-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get after Delete: got %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Save(ctx, models.PendingDonation{Reference: "DON-1"})

	now = now.Add(2 * time.Minute)
	if _, err := s.Get(ctx, "DON-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expired entry: got %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreMarkVerifiedOnce(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(0)

	first, err := s.MarkVerified(ctx, "DON-1")
	if err != nil || !first {
		t.Fatalf("first MarkVerified = %v, %v; want true, nil", first, err)
	}
	again, err := s.MarkVerified(ctx, "DON-1")
	if err != nil || again {
		t.Errorf("second MarkVerified = %v, %v; want false, nil", again, err)
	}
	other, _ := s.MarkVerified(ctx, "DON-2")
	if !other {
		t.Error("a different reference should be marked independently")
	}
}

func TestMemoryStoreSweepsExpiredEntries(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore(time.Minute)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	s.Save(ctx, models.PendingDonation{Reference: "DON-abandoned"})
	s.MarkVerified(ctx, "DON-old")

	now = now.Add(VerifiedTTL + time.Minute)
	s.Save(ctx, models.PendingDonation{Reference: "DON-new"})

	pendingCount, verifiedCount := s.counts()
	if pendingCount != 1 {
		t.Errorf("pending entries = %d, want 1 (abandoned checkout kept)", pendingCount)
	}
	if verifiedCount != 0 {
		t.Errorf("verified markers = %d, want 0", verifiedCount)
	}

	first, _ := s.MarkVerified(ctx, "DON-old")
	if !first {
		t.Error("an expired verified marker should not block the reference")
	}
}
