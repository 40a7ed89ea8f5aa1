package store

import (
	"context"
	"testing"
	"time"

	"stellar-client-go/internal/domain/credential/model"
	platformerrors "stellar-client-go/internal/platform/errors"
)

// exerciseLifecycle runs the contract every driver must honour.
func exerciseLifecycle(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if _, ok, err := s.Get(ctx); err != nil || ok {
		t.Fatalf("fresh store: ok=%v err=%v", ok, err)
	}

	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	if err := s.Set(ctx, model.Credential{AccessToken: "tok1", RefreshToken: "ref1", ExpiresAt: &exp}); err != nil {
		t.Fatalf("Set tok1: %v", err)
	}
	if err := s.Set(ctx, model.Credential{AccessToken: "tok2"}); err != nil {
		t.Fatalf("Set tok2: %v", err)
	}

	got, ok, err := s.Get(ctx)
	if err != nil || !ok {
		t.Fatalf("Get after set: ok=%v err=%v", ok, err)
	}
	if got.AccessToken != "tok2" || got.RefreshToken != "" {
		t.Fatalf("last writer should win, got %+v", got)
	}

	err = s.Set(ctx, model.Credential{})
	if !platformerrors.IsKind(err, platformerrors.KindStorage) {
		t.Fatalf("empty token should be a storage error, got %v", err)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, ok, err := s.Get(ctx); err != nil || ok {
		t.Fatalf("after clear: ok=%v err=%v", ok, err)
	}
	// clearing an empty store is fine
	if err := s.Clear(ctx); err != nil {
		t.Fatalf("second Clear: %v", err)
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	s := NewMemory(Config{})
	t.Cleanup(func() { _ = s.Close(context.Background()) })
	exerciseLifecycle(t, s)
}
