package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestStore(t *testing.T, ttl time.Duration) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewIdempotencyStore(client, ttl), mr
}

func TestIdempotencyStore_RememberAndLookup(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	if _, ok, err := store.Lookup(ctx, "dave", "k1"); err != nil || ok {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	if err := store.Remember(ctx, "dave", "k1", "tx-1"); err != nil {
		t.Fatalf("remember: %v", err)
	}
	id, ok, err := store.Lookup(ctx, "dave", "k1")
	if err != nil || !ok || id != "tx-1" {
		t.Fatalf("expected tx-1, got id=%q ok=%v err=%v", id, ok, err)
	}

	if _, ok, _ := store.Lookup(ctx, "erin", "k1"); ok {
		t.Fatal("keys must be scoped per user")
	}
}

func TestIdempotencyStore_FirstWriteWins(t *testing.T) {
	store, _ := newTestStore(t, time.Hour)
	ctx := context.Background()

	_ = store.Remember(ctx, "dave", "k1", "tx-1")
	_ = store.Remember(ctx, "dave", "k1", "tx-2")

	id, _, _ := store.Lookup(ctx, "dave", "k1")
	if id != "tx-1" {
		t.Fatalf("expected first mapping to stick, got %q", id)
	}
}

func TestIdempotencyStore_Expires(t *testing.T) {
	store, mr := newTestStore(t, time.Minute)
	ctx := context.Background()

	_ = store.Remember(ctx, "dave", "k1", "tx-1")
	if ttl := mr.TTL("idem:tx:dave:k1"); ttl != time.Minute {
		t.Fatalf("expected 1m ttl, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	if _, ok, _ := store.Lookup(ctx, "dave", "k1"); ok {
		t.Fatal("expected key to expire")
	}
}

func TestIdempotencyStore_ServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	defer client.Close()
	store := NewIdempotencyStore(client, time.Minute)
	mr.Close()

	if _, _, err := store.Lookup(context.Background(), "dave", "k1"); err == nil {
		t.Fatal("expected error when redis is unreachable")
	}
}
