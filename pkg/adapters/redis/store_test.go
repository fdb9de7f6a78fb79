package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"

	"github.com/masonrylabs/masonry/pkg/adapters/redis"
	"github.com/masonrylabs/masonry/pkg/domain"
	"github.com/masonrylabs/masonry/pkg/ports"
)

func TestRedisStore_Contract(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client)
	ports.RunSessionStoreContract(t, store)
}

func TestRedisStore_TTLExpiry(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client, redis.WithTTL(time.Minute))

	ctx := context.Background()
	state := domain.NewWizardState("ttl-1", "/quiz", "w1")
	if err := store.Save(ctx, state.SessionID, state); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	mr.FastForward(2 * time.Minute)

	if _, err := store.Load(ctx, state.SessionID); err != domain.ErrSessionNotFound {
		t.Fatalf("expected expired session, got %v", err)
	}
}
