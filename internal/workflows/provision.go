package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/stylevault/stylevault/internal/audit"
	kerrors "github.com/stylevault/stylevault/internal/errors"
	"github.com/stylevault/stylevault/internal/exchange"
	"github.com/stylevault/stylevault/internal/registry"
	"github.com/stylevault/stylevault/internal/secrets"
	"github.com/stylevault/stylevault/internal/workers"
)

// ProvisionOptions configures the provision workflow.
type ProvisionOptions struct {
	UserID   string
	Password secrets.Password

	// Force replaces an existing key pair. Designs sealed for the old key
	// can no longer be opened by this user.
	Force bool
}

// ProvisionResult contains the outcome of a provision operation.
type ProvisionResult struct {
	UserID       string
	PublicKeyPEM []byte

	// Replaced is true when an existing key pair was overwritten.
	Replaced bool
}

// Provision generates and stores a password-protected key pair for a user.
//
// Returns ErrInvalidUserID if the user ID cannot be stored.
// Returns ErrPublicKeyExists if the user already has keys and Force is false.
// Returns ErrUpstreamFailure if the registry cannot be read or written.
func (s *Service) Provision(ctx context.Context, opts ProvisionOptions) (*ProvisionResult, error) {
	if err := registry.ValidateUserID(opts.UserID); err != nil {
		return nil, err
	}

	_, err := s.Registry.FindKeyMaterial(ctx, opts.UserID)
	exists := err == nil
	if err != nil && !errors.Is(err, kerrors.ErrKeyNotFound) {
		return nil, s.upstream("checking existing keys", err)
	}
	if exists && !opts.Force {
		return nil, fmt.Errorf("%w: %s", kerrors.ErrPublicKeyExists, opts.UserID)
	}

	s.Logger.Infof("Generating RSA-%d key pair for %s", secrets.KeySize, opts.UserID)
	provisioned, err := workers.Do(ctx, s.Pool, func() (*exchange.Provisioned, error) {
		return exchange.GenerateAndWrapKeyPair(opts.Password)
	})
	if err != nil {
		return nil, err
	}

	if err := s.Registry.SaveKeyMaterial(ctx, opts.UserID, provisioned.KeyMaterial()); err != nil {
		return nil, s.upstream("saving keys", err)
	}
	s.Logger.Debugf("Stored key material for %s", opts.UserID)

	s.record(audit.Entry{
		UserID:       opts.UserID,
		Operation:    audit.OpKeyGenerated,
		ResourceType: audit.ResourceKey,
		ResourceID:   opts.UserID,
	})

	return &ProvisionResult{
		UserID:       opts.UserID,
		PublicKeyPEM: provisioned.PublicKeyPEM,
		Replaced:     exists,
	}, nil
}
