// Package workflows provides high-level orchestration for stylevault commands.
//
// A Service coordinates the key registry, stylist assignment, the design
// store and the audit log around the exchange core. Each method handles a
// single command's business logic, independent of CLI concerns like flag
// parsing, password prompts, spinners, and output formatting.
//
// # Available Workflows
//
//   - Provision: generates and stores a user's protected key pair
//   - Upload: assigns a stylist, seals a design for both parties, stores it
//   - Retrieve: checks access, opens a design, verifies the owner's signature
//   - ListDesigns, AddStylist, ListStylists, Log
//
// Expensive key generation and password derivation run through the
// Service's workers.Pool.
//
// # Error Handling
//
// Workflows return typed errors from the internal/errors package. Failures
// of a collaborator (registry, roster, store, audit reader) surface as
// ErrUpstreamFailure, except for conditions the caller acts on such as
// ErrDesignNotFound or ErrNoCounterpartyAvailable. Audit writes never fail
// an operation.
//
//	result, err := svc.Retrieve(ctx, opts)
//	if errors.Is(err, kerrors.ErrAccessDenied) {
//	    // Show user-friendly message
//	}
//
// # Context Usage
//
// All workflow methods accept a context.Context as their first parameter.
// It bounds waiting for a crypto worker and for the roster lock.
package workflows
