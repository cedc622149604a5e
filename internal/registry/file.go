package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	kerrors "github.com/stylevault/stylevault/internal/errors"
	"github.com/stylevault/stylevault/internal/secrets"
)

const (
	publicKeysDir  = "public_keys"
	privateKeysDir = "private_keys"
)

// FileRegistry is a Registry backed by the local file system.
type FileRegistry struct {
	baseDir string
	mu      sync.RWMutex
}

// NewFileRegistry creates the key directories under baseDir if needed.
func NewFileRegistry(baseDir string) (*FileRegistry, error) {
	if err := os.MkdirAll(filepath.Join(baseDir, publicKeysDir), 0755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", publicKeysDir, err)
	}
	if err := os.MkdirAll(filepath.Join(baseDir, privateKeysDir), 0700); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", privateKeysDir, err)
	}
	return &FileRegistry{baseDir: baseDir}, nil
}

// PublicKeyPath returns where userID's public key is stored.
func (r *FileRegistry) PublicKeyPath(userID string) string {
	return filepath.Join(r.baseDir, publicKeysDir, userID+".pub")
}

// PrivateKeyPath returns where userID's protected private key is stored.
func (r *FileRegistry) PrivateKeyPath(userID string) string {
	return filepath.Join(r.baseDir, privateKeysDir, userID+".key")
}

func (r *FileRegistry) FindKeyMaterial(ctx context.Context, userID string) (*KeyMaterial, error) {
	if err := ValidateUserID(userID); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	pubPEM, err := os.ReadFile(r.PublicKeyPath(userID))
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrKeyNotFound, userID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read public key: %w", err)
	}
	pub, err := secrets.ParsePublicKeyPEM(pubPEM)
	if err != nil {
		return nil, fmt.Errorf("%w: stored key for %s: %v", kerrors.ErrInvalidPublicKey, userID, err)
	}

	km := &KeyMaterial{PublicKey: pub}

	data, err := os.ReadFile(r.PrivateKeyPath(userID))
	if os.IsNotExist(err) {
		return km, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read private key: %w", err)
	}
	var protected secrets.ProtectedPrivateKey
	if err := json.Unmarshal(data, &protected); err != nil {
		return nil, fmt.Errorf("failed to parse protected private key for %s: %w", userID, err)
	}
	km.Protected = &protected
	return km, nil
}

// SaveKeyMaterial writes the public key and, when present, the protected
// private key. Existing files are replaced.
func (r *FileRegistry) SaveKeyMaterial(ctx context.Context, userID string, km *KeyMaterial) error {
	if err := ValidateUserID(userID); err != nil {
		return err
	}
	if km == nil || km.PublicKey == nil {
		return fmt.Errorf("%w: no public key for %s", kerrors.ErrMissingKeys, userID)
	}

	pubPEM, err := secrets.EncodePublicKeyPEM(km.PublicKey)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if km.Protected != nil {
		data, err := json.Marshal(km.Protected)
		if err != nil {
			return fmt.Errorf("failed to encode protected private key: %w", err)
		}
		if err := writeFileAtomic(r.PrivateKeyPath(userID), data, 0600); err != nil {
			return fmt.Errorf("failed to write private key: %w", err)
		}
	}

	// #nosec G306 -- public keys are meant to be shared.
	if err := writeFileAtomic(r.PublicKeyPath(userID), pubPEM, 0644); err != nil {
		return fmt.Errorf("failed to write public key: %w", err)
	}
	return nil
}

// writeFileAtomic writes to a temp file in the same directory, then renames.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
