package store

import (
	"context"
	"sync"

	"stellar-client-go/internal/domain/credential/model"
)

// memoryStore keeps the credential in process memory. It does not survive a
// restart and exists for tests and throwaway sessions.
type memoryStore struct {
	mu   sync.RWMutex
	cred *model.Credential
}

// NewMemory builds an in-memory credential store.
func NewMemory(Config) Store {
	return &memoryStore{}
}

func (s *memoryStore) Get(context.Context) (model.Credential, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return model.Credential{}, false, nil
	}
	return *s.cred, true, nil
}

func (s *memoryStore) Set(_ context.Context, cred model.Credential) error {
	if cred.Empty() {
		return errEmptyToken("memory")
	}
	s.mu.Lock()
	s.cred = &cred
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Clear(context.Context) error {
	s.mu.Lock()
	s.cred = nil
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Close(context.Context) error {
	return nil
}
