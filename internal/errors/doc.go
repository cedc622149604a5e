// Package errors provides typed error values for stylevault.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching.
//
// # Error Categories
//
//   - Key errors: ErrInvalidPassword, ErrMissingKeys, ErrKeyNotFound
//   - Envelope errors: ErrAccessDenied, ErrDecryptionFailed
//   - Collaborator errors: ErrUpstreamFailure, ErrNoCounterpartyAvailable
//
// ErrAccessDenied is always decided before any cryptography runs, so seeing it
// tells the caller nothing about key material. ErrInvalidPassword deliberately
// does not say whether the password was wrong or the stored record damaged.
//
// Signature failures are not errors. Retrieve returns a SignatureValid flag
// next to the decrypted payload instead.
//
// # Usage
//
//	result, err := svc.Retrieve(ctx, opts)
//	if errors.Is(err, kerrors.ErrAccessDenied) {
//	    // Show user-friendly message
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("%w: %v", kerrors.ErrUpstreamFailure, err)
package errors
