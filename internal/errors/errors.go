package errors

import "errors"

// Key errors indicate a participant's key material is unusable or absent.
var (
	// ErrInvalidPassword indicates a protected private key could not be unwrapped.
	// A wrong password and a corrupted record are reported identically.
	ErrInvalidPassword = errors.New("invalid password or corrupted key")

	// ErrMissingKeys indicates a required participant has no key pair provisioned.
	ErrMissingKeys = errors.New("encryption keys not provisioned")

	// ErrKeyNotFound indicates the registry holds no key material for a user.
	ErrKeyNotFound = errors.New("encryption key not found")

	// ErrPublicKeyExists indicates a key pair already exists for this user.
	ErrPublicKeyExists = errors.New("public key already exists")

	// ErrInvalidPublicKey indicates a public key is malformed or not RSA.
	ErrInvalidPublicKey = errors.New("invalid or unsupported public key format")
)

// Envelope errors indicate failures opening or building a secure envelope.
var (
	// ErrAccessDenied indicates the viewer has no wrapped-key entry in the envelope.
	ErrAccessDenied = errors.New("access denied")

	// ErrDecryptionFailed indicates envelope cryptography failed after access was granted.
	ErrDecryptionFailed = errors.New("failed to decrypt design")

	// ErrInvalidPayload indicates the design payload is not valid JSON.
	ErrInvalidPayload = errors.New("design payload is not valid JSON")
)

// Collaborator errors indicate a registry, roster, store or audit failure.
var (
	// ErrUpstreamFailure indicates a collaborator failed; it is never a cryptographic result.
	ErrUpstreamFailure = errors.New("upstream collaborator failed")

	// ErrNoCounterpartyAvailable indicates no stylist can take a new design.
	ErrNoCounterpartyAvailable = errors.New("no available stylists at the moment")

	// ErrStylistNotFound indicates the requested stylist is not on the roster.
	ErrStylistNotFound = errors.New("stylist not found")

	// ErrStylistUnavailable indicates the stylist is inactive or at capacity.
	ErrStylistUnavailable = errors.New("selected stylist is not available")

	// ErrStylistExists indicates a stylist with this ID is already on the roster.
	ErrStylistExists = errors.New("stylist already exists")

	// ErrDesignNotFound indicates no design record exists for the given ID.
	ErrDesignNotFound = errors.New("design not found")

	// ErrDesignExists indicates a design record with this ID was already stored.
	ErrDesignExists = errors.New("design already exists")
)

// Input errors.
var (
	// ErrInvalidDateFormat indicates a date filter was not YYYY-MM-DD.
	ErrInvalidDateFormat = errors.New("invalid date format")

	// ErrInvalidUserID indicates an empty or unsafe user identifier.
	ErrInvalidUserID = errors.New("invalid user identifier")
)
