package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	if _, ok, _ := store.Get(ctx, "77010000009"); ok {
		t.Fatal("expected no session for a new contact")
	}

	want := Session{Step: StepOrderText, Location: "Bookish Cafe", DateLabel: "01.09"}
	if err := store.Put(ctx, "77010000009", want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := store.Get(ctx, "77010000009")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if err := store.Delete(ctx, "77010000009"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "77010000009"); ok {
		t.Fatal("expected session to be gone after delete")
	}
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	if _, ok, err := store.Get(ctx, "77010000009"); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	want := Session{Step: StepLocation}
	if err := store.Put(ctx, "77010000009", want); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := store.Get(ctx, "77010000009")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}

	if err := store.Delete(ctx, "77010000009"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := store.Get(ctx, "77010000009"); ok {
		t.Fatal("expected session to be gone after delete")
	}
}

func TestRedisStoreTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := NewRedisStore(client, time.Minute)
	ctx := context.Background()

	if err := store.Put(ctx, "c", Session{Step: StepLocation}); err != nil {
		t.Fatalf("put: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, _ := store.Get(ctx, "c"); ok {
		t.Fatal("expected session to expire")
	}
}
