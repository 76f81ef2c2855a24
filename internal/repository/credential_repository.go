package repository

import (
	"context"
	"errors"
	"sync"
)

// ErrNoCredential signals that a session has no stored credential. Callers
// must treat it as "not logged in", never as a failure.
var ErrNoCredential = errors.New("no credential stored")

// CredentialRepository persists at most one bearer credential per gateway
// session. It is a dumb key/value cell: no expiry interpretation, no
// validation. Clear is idempotent.
type CredentialRepository interface {
	Save(ctx context.Context, sessionID, credential string) error
	Get(ctx context.Context, sessionID string) (string, error)
	Clear(ctx context.Context, sessionID string) error
}

type memoryCredentialRepository struct {
	mu    sync.RWMutex
	cells map[string]string
}

// NewMemoryCredentialRepository returns an in-process implementation, used
// when no durable store is configured and throughout the test suite.
func NewMemoryCredentialRepository() CredentialRepository {
	return &memoryCredentialRepository{cells: make(map[string]string)}
}

func (r *memoryCredentialRepository) Save(_ context.Context, sessionID, credential string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cells[sessionID] = credential
	return nil
}

func (r *memoryCredentialRepository) Get(_ context.Context, sessionID string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	credential, ok := r.cells[sessionID]
	if !ok {
		return "", ErrNoCredential
	}
	return credential, nil
}

func (r *memoryCredentialRepository) Clear(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.cells, sessionID)
	return nil
}
