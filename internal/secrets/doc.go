// Package secrets provides the cryptographic core of stylevault.
//
// This package handles RSA key pair management, password protection of
// private keys, the multi-recipient design envelope and payload signatures.
// It keeps no state between calls; every salt, IV and symmetric key is drawn
// fresh from crypto/rand.
//
// # Encryption Architecture
//
// stylevault uses a hybrid encryption scheme:
//
//  1. A random 256-bit key encrypts the canonical design payload once (AES-256-CBC)
//  2. Each recipient's RSA public key wraps a copy of that key (RSA-OAEP)
//  3. A recipient unwraps their copy with their private key, then decrypts the payload
//
// Adding a recipient costs one RSA operation; the payload is never
// re-encrypted. An HMAC-SHA256 over the IV and ciphertext, keyed by HKDF
// from the ephemeral key, is checked before any padding is looked at.
//
// # Key Management
//
// RSA-2048 key pairs are generated when a user is provisioned:
//   - Public keys are PEM "PUBLIC KEY" blocks
//   - Private keys are PEM "RSA PRIVATE KEY" text encrypted with AES-256-CBC
//     under PBKDF2-SHA256(password, 32-byte salt, 100000 rounds)
//
// A wrong password and a damaged record both surface as ErrInvalidPassword.
//
// # Signatures
//
// Payloads are signed over their canonical JSON encoding (sorted keys,
// compact, numbers verbatim) with RSASSA-PKCS1-v1_5 and SHA-256. Verify
// never fails loudly; it returns false.
package secrets
