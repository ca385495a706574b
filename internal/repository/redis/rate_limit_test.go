package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	red "github.com/redis/go-redis/v9"
)

func newTestRedis(t *testing.T) (*red.Client, *miniredis.Miniredis) {
	t.Helper()

	server, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}

	client := red.NewClient(&red.Options{Addr: server.Addr()})

	t.Cleanup(func() {
		_ = client.Close()
		server.Close()
	})

	return client, server
}

func TestAttemptStore_RecordAndCount(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewAttemptStore(client, AttemptStoreConfig{KeyPrefix: "ratelimit", TTL: time.Minute})

	ctx := context.Background()
	now := time.Now()
	window := time.Minute

	for i := 0; i < 3; i++ {
		if err := store.RecordAttempt(ctx, "login:dana@example.com", now.Add(time.Duration(i)*time.Second)); err != nil {
			t.Fatalf("RecordAttempt returned error: %v", err)
		}
	}

	count, err := store.CountAttempts(ctx, "login:dana@example.com", window, now.Add(5*time.Second))
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 attempts, got %d", count)
	}
}

func TestAttemptStore_TrimWindow(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewAttemptStore(client, AttemptStoreConfig{KeyPrefix: "ratelimit", TTL: time.Minute})

	ctx := context.Background()
	now := time.Now()
	window := 30 * time.Second

	if err := store.RecordAttempt(ctx, "login:dana@example.com", now.Add(-time.Minute)); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := store.RecordAttempt(ctx, "login:dana@example.com", now); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	if err := store.TrimWindow(ctx, "login:dana@example.com", window, now); err != nil {
		t.Fatalf("TrimWindow returned error: %v", err)
	}

	count, err := store.CountAttempts(ctx, "login:dana@example.com", window, now)
	if err != nil {
		t.Fatalf("CountAttempts returned error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected stale attempt trimmed, got %d remaining", count)
	}
}

func TestAttemptStore_OldestAttempt(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewAttemptStore(client, AttemptStoreConfig{KeyPrefix: "ratelimit", TTL: time.Minute})

	ctx := context.Background()
	now := time.Now()
	window := time.Minute

	_, found, err := store.OldestAttempt(ctx, "login:dana@example.com", window, now)
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if found {
		t.Fatalf("expected no attempts recorded")
	}

	first := now.Add(-20 * time.Second)
	if err := store.RecordAttempt(ctx, "login:dana@example.com", first); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}
	if err := store.RecordAttempt(ctx, "login:dana@example.com", now); err != nil {
		t.Fatalf("RecordAttempt returned error: %v", err)
	}

	oldest, found, err := store.OldestAttempt(ctx, "login:dana@example.com", window, now)
	if err != nil {
		t.Fatalf("OldestAttempt returned error: %v", err)
	}
	if !found {
		t.Fatalf("expected an attempt inside the window")
	}
	if !oldest.Equal(time.Unix(0, first.UnixNano())) {
		t.Fatalf("expected oldest %v, got %v", first, oldest)
	}
}

func TestAttemptStore_RejectsNonPositiveWindow(t *testing.T) {
	client, _ := newTestRedis(t)
	store := NewAttemptStore(client, AttemptStoreConfig{KeyPrefix: "ratelimit"})

	ctx := context.Background()

	if _, err := store.CountAttempts(ctx, "id", 0, time.Now()); err == nil {
		t.Fatalf("expected error for zero window")
	}
	if err := store.TrimWindow(ctx, "id", -time.Second, time.Now()); err == nil {
		t.Fatalf("expected error for negative window")
	}
}
