// Package registry stores each user's public key and password-protected
// private key.
//
// # Storage Layout
//
// FileRegistry keeps one file per key under a base directory:
//
//	<data>/registry/public_keys/<user id>.pub   PEM "PUBLIC KEY"
//	<data>/registry/private_keys/<user id>.key  ProtectedPrivateKey JSON
//
// A user with only a public key is valid; such a user can receive designs
// but cannot open them until a protected private key is saved.
package registry

import (
	"context"
	"crypto/rsa"
	"fmt"
	"strings"

	kerrors "github.com/stylevault/stylevault/internal/errors"
	"github.com/stylevault/stylevault/internal/secrets"
)

// KeyMaterial is what the registry knows about one user.
type KeyMaterial struct {
	PublicKey *rsa.PublicKey
	Protected *secrets.ProtectedPrivateKey
}

// Registry looks up and stores key material by user ID.
type Registry interface {
	// FindKeyMaterial returns ErrKeyNotFound when the user has no public key.
	FindKeyMaterial(ctx context.Context, userID string) (*KeyMaterial, error)
	SaveKeyMaterial(ctx context.Context, userID string, km *KeyMaterial) error
}

// ValidateUserID rejects IDs that cannot be used as a file name.
func ValidateUserID(userID string) error {
	if userID == "" || userID == "." || userID == ".." || strings.ContainsAny(userID, `/\`+"\x00") {
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidUserID, userID)
	}
	return nil
}
