package workflows

import (
	"context"
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/stylevault/stylevault/internal/access"
	"github.com/stylevault/stylevault/internal/audit"
	kerrors "github.com/stylevault/stylevault/internal/errors"
	"github.com/stylevault/stylevault/internal/exchange"
	"github.com/stylevault/stylevault/internal/secrets"
	"github.com/stylevault/stylevault/internal/workers"
)

// RetrieveOptions configures the retrieve workflow.
type RetrieveOptions struct {
	DesignID string
	ViewerID string
	Password secrets.Password
}

// RetrieveResult contains the outcome of a retrieve operation.
type RetrieveResult struct {
	DesignID       string
	OwnerID        string
	CounterpartyID string
	Role           access.Role
	CreatedAt      time.Time

	// Payload is the canonical JSON of the design.
	Payload []byte

	// SignatureValid reports whether the owner's signature checked out.
	// The payload is returned either way.
	SignatureValid bool
}

// Retrieve opens a stored design for a viewer.
//
// Returns ErrDesignNotFound if no such design exists.
// Returns ErrAccessDenied, before any password is tried, if the viewer is not
// a recipient.
// Returns ErrMissingKeys if the viewer has no keys.
// Returns ErrInvalidPassword or ErrDecryptionFailed from the exchange core.
// Returns ErrUpstreamFailure if a collaborator fails.
func (s *Service) Retrieve(ctx context.Context, opts RetrieveOptions) (*RetrieveResult, error) {
	rec, err := s.Designs.Get(ctx, opts.DesignID)
	if err != nil {
		return nil, s.upstream("loading design", err)
	}

	if rec.Envelope == nil {
		return nil, fmt.Errorf("%w: design %s has no envelope", kerrors.ErrDecryptionFailed, rec.ID)
	}

	viewer := access.Viewer{
		ID:   opts.ViewerID,
		Role: access.RoleFor(opts.ViewerID, rec.OwnerID, rec.CounterpartyID),
	}
	if _, err := access.Select(rec.Envelope.WrappedKeys, viewer); err != nil {
		s.Logger.Infof("Refused %s access to design %s", opts.ViewerID, rec.ID)
		s.record(audit.Entry{
			UserID:       opts.ViewerID,
			Operation:    audit.OpAccessDenied,
			ResourceType: audit.ResourceDesign,
			ResourceID:   rec.ID,
			Reason:       "not a recipient",
		})
		return nil, err
	}

	viewerKeys, err := s.findKeys(ctx, opts.ViewerID)
	if err != nil {
		return nil, err
	}

	uploaderPub, err := s.uploaderKey(ctx, rec.OwnerID)
	if err != nil {
		return nil, err
	}

	opened, err := workers.Do(ctx, s.Pool, func() (*exchange.Opened, error) {
		return exchange.Retrieve(rec.Envelope, opts.ViewerID, opts.Password, viewerKeys, uploaderPub)
	})
	if err != nil {
		return nil, err
	}

	s.record(audit.Entry{
		UserID:       opts.ViewerID,
		Operation:    audit.OpEnvelopeOpened,
		ResourceType: audit.ResourceDesign,
		ResourceID:   rec.ID,
	})
	s.record(audit.Entry{
		UserID:         opts.ViewerID,
		Operation:      audit.OpSignatureVerified,
		ResourceType:   audit.ResourceDesign,
		ResourceID:     rec.ID,
		SignatureValid: audit.Bool(opened.SignatureValid),
	})
	s.record(audit.Entry{
		UserID:       opts.ViewerID,
		Operation:    audit.OpDesignViewed,
		ResourceType: audit.ResourceDesign,
		ResourceID:   rec.ID,
		Role:         string(viewer.Role),
	})

	if !opened.SignatureValid {
		s.Logger.WarnfUser("the signature on design %s does not verify against %s's key", rec.ID, rec.OwnerID)
	}

	return &RetrieveResult{
		DesignID:       rec.ID,
		OwnerID:        rec.OwnerID,
		CounterpartyID: rec.CounterpartyID,
		Role:           viewer.Role,
		CreatedAt:      rec.CreatedAt,
		Payload:        opened.Payload,
		SignatureValid: opened.SignatureValid,
	}, nil
}

// uploaderKey returns the owner's public key, or nil if the owner has since
// lost their keys; the signature then simply reports invalid.
func (s *Service) uploaderKey(ctx context.Context, ownerID string) (*rsa.PublicKey, error) {
	km, err := s.Registry.FindKeyMaterial(ctx, ownerID)
	if errors.Is(err, kerrors.ErrKeyNotFound) {
		s.Logger.Warnf("No public key for design owner %s; signature cannot be verified", ownerID)
		return nil, nil
	}
	if err != nil {
		return nil, s.upstream("looking up owner key", err)
	}
	return km.PublicKey, nil
}
