package registry

import (
	"context"
	"fmt"
	"sync"

	kerrors "github.com/stylevault/stylevault/internal/errors"
)

// MemoryRegistry keeps key material in memory. Used in tests and for
// short-lived tooling.
type MemoryRegistry struct {
	mu    sync.RWMutex
	users map[string]KeyMaterial
}

func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{users: make(map[string]KeyMaterial)}
}

func (r *MemoryRegistry) FindKeyMaterial(ctx context.Context, userID string) (*KeyMaterial, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	km, ok := r.users[userID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrKeyNotFound, userID)
	}
	return &km, nil
}

func (r *MemoryRegistry) SaveKeyMaterial(ctx context.Context, userID string, km *KeyMaterial) error {
	if err := ValidateUserID(userID); err != nil {
		return err
	}
	if km == nil || km.PublicKey == nil {
		return fmt.Errorf("%w: no public key for %s", kerrors.ErrMissingKeys, userID)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[userID] = *km
	return nil
}
