package pending

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"

	"paystack-donation-api/models"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisStoreFromClient(client, "donation", ttl), mr
}

func TestRedisStoreKeysAndDefaults(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()

	s := NewRedisStoreFromClient(client, "", 0)
	if s.ttl != DefaultTTL {
		t.Errorf("ttl = %v, want %v", s.ttl, DefaultTTL)
	}
	if got := s.pendingKey("DON-1"); got != "donation:pending:DON-1" {
		t.Errorf("pendingKey = %q", got)
	}
	if got := s.verifiedKey("DON-1"); got != "donation:verified:DON-1" {
		t.Errorf("verifiedKey = %q", got)
	}
}

func TestNewRedisStoreRejectsBadURL(t *testing.T) {
	if _, err := NewRedisStore("not-a-url", "donation", 0); err == nil {
		t.Error("expected error for invalid Redis URL")
	}
}

func TestNewRedisStoreConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	s, err := NewRedisStore("redis://"+mr.Addr(), "donation", time.Hour)
	if err != nil {
		t.Fatalf("NewRedisStore: %v", err)
	}
	defer s.Close()

	if err := s.Ping(context.Background()); err != nil {
		t.Errorf("Ping: %v", err)
	}
}

func TestRedisStoreSaveGetDelete(t *testing.T) {
	s, mr := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	want := models.PendingDonation{Reference: "DON-1", Name: "Ada", Email: "a@b.com", Amount: 2500, CreatedAt: created}
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if ttl := mr.TTL("donation:pending:DON-1"); ttl != time.Hour {
		t.Errorf("stored ttl = %v, want 1h", ttl)
	}

	got, err := s.Get(ctx, "DON-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Name != want.Name || got.Email != want.Email || got.Amount != want.Amount || !got.CreatedAt.Equal(created) {
		t.Errorf("Get = %+v, want %+v", got, want)
	}

	if err := s.Delete(ctx, "DON-1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := s.Get(ctx, "DON-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("after Delete: err = %v, want ErrNotFound", err)
	}
}

func TestRedisStoreGetMissing(t *testing.T) {
	s, _ := newTestRedisStore(t, time.Hour)

	if _, err := s.Get(context.Background(), "DON-missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestRedisStorePendingExpires(t *testing.T) {
	s, mr := newTestRedisStore(t, time.Minute)
	ctx := context.Background()

	if err := s.Save(ctx, models.PendingDonation{Reference: "DON-1", Amount: 100}); err != nil {
		t.Fatal(err)
	}
	mr.FastForward(2 * time.Minute)

	if _, err := s.Get(ctx, "DON-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound after ttl", err)
	}
}

func TestRedisStoreMarkVerifiedOnce(t *testing.T) {
	s, mr := newTestRedisStore(t, time.Hour)
	ctx := context.Background()

	first, err := s.MarkVerified(ctx, "DON-1")
	if err != nil || !first {
		t.Fatalf("first MarkVerified = %v, %v; want true, nil", first, err)
	}
	again, err := s.MarkVerified(ctx, "DON-1")
	if err != nil || again {
		t.Fatalf("second MarkVerified = %v, %v; want false, nil", again, err)
	}

	if ttl := mr.TTL("donation:verified:DON-1"); ttl != VerifiedTTL {
		t.Errorf("verified ttl = %v, want %v", ttl, VerifiedTTL)
	}

	other, err := s.MarkVerified(ctx, "DON-2")
	if err != nil || !other {
		t.Errorf("other reference MarkVerified = %v, %v; want true, nil", other, err)
	}
}

func TestRedisStoreReportsConnectionErrors(t *testing.T) {
	s, mr := newTestRedisStore(t, time.Hour)
	mr.Close()

	if _, err := s.MarkVerified(context.Background(), "DON-1"); err == nil {
		t.Error("expected error from closed server")
	}
	if _, err := s.Get(context.Background(), "DON-1"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("Get err = %v, want connection error", err)
	}
}
