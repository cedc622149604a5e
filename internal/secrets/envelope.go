package secrets

import (
	"crypto/hmac"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/hkdf"

	kerrors "github.com/stylevault/stylevault/internal/errors"
)

var macInfo = []byte("stylevault envelope mac v1")

// Envelope is a payload encrypted once under an ephemeral AES-256 key, with
// that key wrapped separately for each recipient. The keys of WrappedKeys are
// exactly the recipients allowed to open it.
type Envelope struct {
	Ciphertext  []byte            `json:"ciphertext"`
	IV          []byte            `json:"iv"`
	WrappedKeys map[string][]byte `json:"wrappedKeys"`
	MAC         []byte            `json:"mac"`
	Signature   []byte            `json:"signature"`
	Timestamp   time.Time         `json:"timestamp"`
}

// Recipients returns the recipient IDs in sorted order.
func (e *Envelope) Recipients() []string {
	ids := make([]string, 0, len(e.WrappedKeys))
	for id := range e.WrappedKeys {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// HasRecipient reports whether id holds a wrapped-key entry.
func (e *Envelope) HasRecipient(id string) bool {
	_, ok := e.WrappedKeys[id]
	return ok
}

// CreateEnvelope encrypts the canonical form of payload once and wraps the
// ephemeral key for every recipient, then signs the payload with signer.
//
// Returns ErrInvalidPayload if payload is not JSON.
// Returns ErrMissingKeys if recipients is empty or holds a nil key, or signer is nil.
func CreateEnvelope(payload []byte, recipients map[string]*rsa.PublicKey, signer *rsa.PrivateKey) (*Envelope, error) {
	if len(recipients) == 0 {
		return nil, fmt.Errorf("%w: envelope needs at least one recipient", kerrors.ErrMissingKeys)
	}
	for id, pub := range recipients {
		if pub == nil {
			return nil, fmt.Errorf("%w: recipient %s has no public key", kerrors.ErrMissingKeys, id)
		}
	}
	if signer == nil {
		return nil, fmt.Errorf("%w: no signing key", kerrors.ErrMissingKeys)
	}

	canonical, err := Canonicalize(payload)
	if err != nil {
		return nil, err
	}

	symKey, err := CreateSymmetricKey()
	if err != nil {
		return nil, fmt.Errorf("failed to generate symmetric key: %w", err)
	}
	defer memguard.WipeBytes(symKey)

	iv, err := CreateIV()
	if err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	ciphertext, err := encryptCBC(symKey, iv, canonical)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt payload: %w", err)
	}

	mac, err := envelopeMAC(symKey, iv, ciphertext)
	if err != nil {
		return nil, err
	}

	wrapped := make(map[string][]byte, len(recipients))
	for id, pub := range recipients {
		wrappedKey, err := EncryptWithPublicKey(symKey, pub)
		if err != nil {
			return nil, fmt.Errorf("failed to wrap key for recipient %s: %w", id, err)
		}
		wrapped[id] = wrappedKey
	}

	signature, err := Sign(canonical, signer)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Ciphertext:  ciphertext,
		IV:          iv,
		WrappedKeys: wrapped,
		MAC:         mac,
		Signature:   signature,
		Timestamp:   time.Now().UTC(),
	}, nil
}

// OpenEnvelope recovers the canonical payload for recipientID.
//
// Returns ErrAccessDenied, before any cryptography, if recipientID has no entry.
// Returns ErrDecryptionFailed on any cryptographic failure after that.
func OpenEnvelope(env *Envelope, recipientID string, privateKey *rsa.PrivateKey) ([]byte, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: no envelope", kerrors.ErrDecryptionFailed)
	}
	wrappedKey, ok := env.WrappedKeys[recipientID]
	if !ok {
		return nil, kerrors.ErrAccessDenied
	}
	if privateKey == nil {
		return nil, fmt.Errorf("%w: no private key for %s", kerrors.ErrMissingKeys, recipientID)
	}

	symKey, err := DecryptWithPrivateKey(wrappedKey, privateKey)
	if err != nil {
		return nil, fmt.Errorf("%w: unwrapping key", kerrors.ErrDecryptionFailed)
	}
	defer memguard.WipeBytes(symKey)
	if len(symKey) != SymmetricKeySize {
		return nil, fmt.Errorf("%w: unwrapped key has length %d", kerrors.ErrDecryptionFailed, len(symKey))
	}

	expected, err := envelopeMAC(symKey, env.IV, env.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrDecryptionFailed, err)
	}
	if !hmac.Equal(expected, env.MAC) {
		return nil, fmt.Errorf("%w: integrity check", kerrors.ErrDecryptionFailed)
	}

	plaintext, err := decryptCBC(symKey, env.IV, env.Ciphertext)
	if err != nil {
		return nil, fmt.Errorf("%w: decrypting payload", kerrors.ErrDecryptionFailed)
	}
	return plaintext, nil
}

// envelopeMAC authenticates iv||ciphertext under a key derived from the
// ephemeral key, so tampering is caught before any padding is inspected.
func envelopeMAC(symKey, iv, ciphertext []byte) ([]byte, error) {
	macKey := make([]byte, sha256.Size)
	if _, err := io.ReadFull(hkdf.New(sha256.New, symKey, nil, macInfo), macKey); err != nil {
		return nil, fmt.Errorf("failed to derive MAC key: %w", err)
	}
	defer memguard.WipeBytes(macKey)

	h := hmac.New(sha256.New, macKey)
	h.Write(iv)
	h.Write(ciphertext)
	return h.Sum(nil), nil
}
