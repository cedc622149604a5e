// Package exchange composes key handling, envelopes and signatures into the
// two operations users see: uploading a design for a counterparty and
// retrieving it again.
//
// Everything here is synchronous and stateless. Callers that need to bound
// the cost of RSA key generation and PBKDF2 run these functions through a
// workers.Pool.
package exchange

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/stylevault/stylevault/internal/access"
	kerrors "github.com/stylevault/stylevault/internal/errors"
	"github.com/stylevault/stylevault/internal/registry"
	"github.com/stylevault/stylevault/internal/secrets"
)

// Participant is a user taking part in an exchange, with whatever key
// material the registry holds for them.
type Participant struct {
	ID   string
	Keys *registry.KeyMaterial
}

func (p Participant) publicKey() *rsa.PublicKey {
	if p.Keys == nil {
		return nil
	}
	return p.Keys.PublicKey
}

// Provisioned is a new key pair ready to be stored.
type Provisioned struct {
	PublicKey    *rsa.PublicKey
	PublicKeyPEM []byte
	Protected    *secrets.ProtectedPrivateKey
}

// KeyMaterial returns the registry form of p.
func (p *Provisioned) KeyMaterial() *registry.KeyMaterial {
	return &registry.KeyMaterial{PublicKey: p.PublicKey, Protected: p.Protected}
}

// Opened is the result of a successful retrieve.
type Opened struct {
	Payload []byte
	// SignatureValid is advisory: an invalid signature never withholds the payload.
	SignatureValid bool
}

// GenerateAndWrapKeyPair creates an RSA-2048 key pair and protects its private
// half with password.
func GenerateAndWrapKeyPair(password secrets.Password) (*Provisioned, error) {
	if password.Empty() {
		return nil, fmt.Errorf("%w: password is required", kerrors.ErrInvalidPassword)
	}
	kp, err := secrets.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	protected, err := secrets.WrapPrivateKey(kp.PrivateKey, password)
	if err != nil {
		return nil, err
	}
	pubPEM, err := secrets.EncodePublicKeyPEM(kp.PublicKey)
	if err != nil {
		return nil, err
	}
	return &Provisioned{PublicKey: kp.PublicKey, PublicKeyPEM: pubPEM, Protected: protected}, nil
}

// Upload seals payload for the uploader and the counterparty and signs it with
// the uploader's key.
//
// Returns ErrMissingKeys if either participant lacks a public key or the
// uploader has no protected private key.
// Returns ErrInvalidPassword if password does not unlock the uploader's key.
// Returns ErrInvalidPayload if payload is not JSON.
func Upload(payload []byte, password secrets.Password, uploader, counterparty Participant) (*secrets.Envelope, error) {
	if uploader.ID == "" || counterparty.ID == "" {
		return nil, fmt.Errorf("%w: both participants need an identity", kerrors.ErrMissingKeys)
	}
	if uploader.publicKey() == nil || uploader.Keys.Protected == nil {
		return nil, fmt.Errorf("%w: uploader %s has no key pair", kerrors.ErrMissingKeys, uploader.ID)
	}
	if counterparty.publicKey() == nil {
		return nil, fmt.Errorf("%w: counterparty %s has no public key", kerrors.ErrMissingKeys, counterparty.ID)
	}

	// Reject bad payloads before paying for PBKDF2.
	if _, err := secrets.Canonicalize(payload); err != nil {
		return nil, err
	}

	signer, err := secrets.UnwrapPrivateKey(uploader.Keys.Protected, password)
	if err != nil {
		return nil, err
	}
	defer wipePrivateKey(signer)

	return secrets.CreateEnvelope(payload, map[string]*rsa.PublicKey{
		uploader.ID:     uploader.publicKey(),
		counterparty.ID: counterparty.publicKey(),
	}, signer)
}

// Retrieve opens env for viewerID and checks the uploader's signature.
//
// Returns ErrAccessDenied, before any password is tried, if viewerID is not a
// recipient of env.
// Returns ErrMissingKeys if the viewer has no protected private key.
// Returns ErrInvalidPassword if password does not unlock it.
// Returns ErrDecryptionFailed if the envelope does not open.
func Retrieve(env *secrets.Envelope, viewerID string, password secrets.Password, viewer *registry.KeyMaterial, uploaderPublicKey *rsa.PublicKey) (*Opened, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: no envelope", kerrors.ErrDecryptionFailed)
	}
	decision, err := access.Select(env.WrappedKeys, access.Viewer{ID: viewerID})
	if err != nil {
		return nil, err
	}

	if viewer == nil || viewer.Protected == nil {
		return nil, fmt.Errorf("%w: viewer %s has no private key", kerrors.ErrMissingKeys, viewerID)
	}
	priv, err := secrets.UnwrapPrivateKey(viewer.Protected, password)
	if err != nil {
		return nil, err
	}
	defer wipePrivateKey(priv)

	payload, err := secrets.OpenEnvelope(env, decision.Viewer.ID, priv)
	if err != nil {
		return nil, err
	}

	return &Opened{
		Payload:        payload,
		SignatureValid: secrets.Verify(payload, env.Signature, uploaderPublicKey),
	}, nil
}

// IsCryptoFailure reports whether err is one of the terminal cryptographic
// failures rather than a collaborator problem.
func IsCryptoFailure(err error) bool {
	return errors.Is(err, kerrors.ErrInvalidPassword) ||
		errors.Is(err, kerrors.ErrMissingKeys) ||
		errors.Is(err, kerrors.ErrAccessDenied) ||
		errors.Is(err, kerrors.ErrDecryptionFailed) ||
		errors.Is(err, kerrors.ErrInvalidPayload)
}

// wipePrivateKey zeroes the private exponent, primes and CRT values of an
// unwrapped key once it has been used.
func wipePrivateKey(priv *rsa.PrivateKey) {
	if priv == nil {
		return
	}
	wipeInt(priv.D)
	for _, p := range priv.Primes {
		wipeInt(p)
	}
	wipeInt(priv.Precomputed.Dp)
	wipeInt(priv.Precomputed.Dq)
	wipeInt(priv.Precomputed.Qinv)
	for _, crt := range priv.Precomputed.CRTValues {
		wipeInt(crt.Exp)
		wipeInt(crt.Coeff)
		wipeInt(crt.R)
	}
}

func wipeInt(n *big.Int) {
	if n == nil {
		return
	}
	words := n.Bits()
	for i := range words {
		words[i] = 0
	}
	n.SetInt64(0)
}
