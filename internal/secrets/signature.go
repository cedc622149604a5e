package secrets

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"fmt"
)

// Sign signs the canonical encoding of payload with RSASSA-PKCS1-v1_5 over SHA-256.
func Sign(payload []byte, privateKey *rsa.PrivateKey) ([]byte, error) {
	canonical, err := Canonicalize(payload)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256(canonical)
	signature, err := rsa.SignPKCS1v15(rand.Reader, privateKey, crypto.SHA256, digest[:])
	if err != nil {
		return nil, fmt.Errorf("failed to sign payload: %w", err)
	}
	return signature, nil
}

// Verify reports whether signature is a valid signature of payload by publicKey.
// Malformed payloads, signatures or keys yield false.
func Verify(payload, signature []byte, publicKey *rsa.PublicKey) bool {
	if publicKey == nil || len(signature) == 0 {
		return false
	}
	canonical, err := Canonicalize(payload)
	if err != nil {
		return false
	}
	digest := sha256.Sum256(canonical)
	return rsa.VerifyPKCS1v15(publicKey, crypto.SHA256, digest[:], signature) == nil
}
