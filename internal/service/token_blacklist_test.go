package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sony/gobreaker"

	"residence-be-svc/internal/mocks"
	"residence-be-svc/pkg/logger"
)

func TestMemoryTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryTokenBlacklist()

	revoked, err := b.IsRevoked(ctx, "tok")
	if err != nil || revoked {
		t.Fatalf("fresh token: revoked=%v err=%v", revoked, err)
	}

	if err := b.Revoke(ctx, "tok"); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if err := b.Revoke(ctx, "tok"); err != nil {
		t.Fatalf("second Revoke failed: %v", err)
	}

	if revoked, _ := b.IsRevoked(ctx, "tok"); !revoked {
		t.Error("expected token to be revoked")
	}
	if revoked, _ := b.IsRevoked(ctx, "other"); revoked {
		t.Error("unrelated token must not be revoked")
	}
}

func TestMemoryTokenBlacklistConcurrent(t *testing.T) {
	ctx := context.Background()
	b := NewMemoryTokenBlacklist()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		token := fmt.Sprintf("tok-%d", i)
		go func() {
			defer wg.Done()
			_ = b.Revoke(ctx, token)
		}()
		go func() {
			defer wg.Done()
			_, _ = b.IsRevoked(ctx, token)
		}()
	}
	wg.Wait()

	for i := 0; i < 50; i++ {
		if revoked, _ := b.IsRevoked(ctx, fmt.Sprintf("tok-%d", i)); !revoked {
			t.Errorf("tok-%d should be revoked", i)
		}
	}
}

func newTestBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test"})
}

func TestRedisTokenBlacklist(t *testing.T) {
	ctx := context.Background()
	client := mocks.NewRedisClient()
	b := NewRedisTokenBlacklist(client, newTestBreaker(), 2*time.Hour, logger.NewNopLogger())

	if err := b.Revoke(ctx, "tok"); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	key := blacklistKey("tok")
	if !strings.HasPrefix(key, blacklistKeyPrefix) || len(key) != len(blacklistKeyPrefix)+64 {
		t.Errorf("unexpected key %q", key)
	}
	if ttl, ok := client.Keys[key]; !ok || ttl != 2*time.Hour {
		t.Errorf("key stored with ttl %v (present=%v), want 2h", ttl, ok)
	}

	revoked, err := b.IsRevoked(ctx, "tok")
	if err != nil || !revoked {
		t.Errorf("IsRevoked = %v, %v; want true, nil", revoked, err)
	}
	if revoked, _ := b.IsRevoked(ctx, "other"); revoked {
		t.Error("unrelated token must not be revoked")
	}
}

func TestRedisTokenBlacklistFailure(t *testing.T) {
	ctx := context.Background()
	client := mocks.NewRedisClient()
	client.Err = errors.New("connection refused")
	b := NewRedisTokenBlacklist(client, newTestBreaker(), time.Hour, logger.NewNopLogger())

	if err := b.Revoke(ctx, "tok"); err == nil {
		t.Error("expected Revoke to fail")
	}
	if _, err := b.IsRevoked(ctx, "tok"); err == nil {
		t.Error("expected IsRevoked to fail")
	}
}
