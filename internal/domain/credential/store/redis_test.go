package store

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"

	"stellar-client-go/internal/domain/credential/model"
)

func TestRedisStoreLifecycle(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	s, err := NewRedis(Config{Redis: &RedisConfig{Addr: mr.Addr()}})
	if err != nil {
		t.Fatalf("NewRedis error: %v", err)
	}
	t.Cleanup(func() { _ = s.Close(context.Background()) })

	exerciseLifecycle(t, s)
}

func TestRedisStoreExpiry(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	defer mr.Close()

	s, err := NewRedis(Config{Key: "tok", Redis: &RedisConfig{Addr: mr.Addr(), Prefix: "test:"}})
	if err != nil {
		t.Fatalf("NewRedis error: %v", err)
	}
	defer s.Close(ctx)

	exp := time.Now().Add(time.Minute)
	if err := s.Set(ctx, model.Credential{AccessToken: "short", ExpiresAt: &exp}); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if !mr.Exists("test:tok") {
		t.Fatal("expected key test:tok in redis")
	}

	mr.FastForward(2 * time.Minute)

	if _, ok, err := s.Get(ctx); err != nil || ok {
		t.Fatalf("expected expired credential to be gone: ok=%v err=%v", ok, err)
	}
}

func TestRedisStoreRequiresAddr(t *testing.T) {
	if _, err := NewRedis(Config{}); err == nil {
		t.Fatal("expected error without redis config")
	}
	if _, err := NewRedis(Config{Redis: &RedisConfig{}}); err == nil {
		t.Fatal("expected error without address")
	}
}
