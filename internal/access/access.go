// Package access decides which wrapped-key slot of an envelope a viewer may use.
//
// The decision is made on identity alone and before any cryptography runs:
// a viewer whose ID is not a key of the envelope's wrapped-key map is refused
// with ErrAccessDenied. Role travels with the decision for the audit trail
// but never grants or removes access.
package access

import (
	"fmt"

	kerrors "github.com/stylevault/stylevault/internal/errors"
)

// Role describes how a viewer relates to a design.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStylist  Role = "stylist"
	RoleUnknown  Role = ""
)

// Viewer identifies who is asking to open an envelope.
type Viewer struct {
	ID   string
	Role Role
}

// Decision is the slot granted to a viewer.
type Decision struct {
	Viewer     Viewer
	WrappedKey []byte
}

// Select returns the wrapped-key entry for viewer.ID.
func Select(wrappedKeys map[string][]byte, viewer Viewer) (Decision, error) {
	if viewer.ID == "" {
		return Decision{}, fmt.Errorf("%w: viewer has no identity", kerrors.ErrAccessDenied)
	}
	key, ok := wrappedKeys[viewer.ID]
	if !ok {
		return Decision{}, kerrors.ErrAccessDenied
	}
	return Decision{Viewer: viewer, WrappedKey: key}, nil
}

// RoleFor infers the viewer's role on a design from its owner and counterparty.
func RoleFor(viewerID, ownerID, counterpartyID string) Role {
	switch viewerID {
	case ownerID:
		return RoleCustomer
	case counterpartyID:
		return RoleStylist
	default:
		return RoleUnknown
	}
}
