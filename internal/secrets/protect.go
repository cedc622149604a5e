package secrets

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"

	"github.com/awnumar/memguard"
	"golang.org/x/crypto/pbkdf2"

	kerrors "github.com/stylevault/stylevault/internal/errors"
)

const (
	// SaltSize is the PBKDF2 salt length in bytes.
	SaltSize = 32

	// PBKDF2Iterations is fixed so existing records stay readable.
	PBKDF2Iterations = 100000

	derivedKeySize = 32
)

// ProtectedPrivateKey is a private key encrypted under a password-derived key.
// Binary fields serialize as standard base64.
type ProtectedPrivateKey struct {
	Salt       []byte `json:"salt"`
	IV         []byte `json:"iv"`
	Ciphertext []byte `json:"ciphertext"`
}

// UnmarshalJSON also accepts the older "encryptedData" field name.
func (p *ProtectedPrivateKey) UnmarshalJSON(data []byte) error {
	var raw struct {
		Salt          []byte `json:"salt"`
		IV            []byte `json:"iv"`
		Ciphertext    []byte `json:"ciphertext"`
		EncryptedData []byte `json:"encryptedData"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	p.Salt = raw.Salt
	p.IV = raw.IV
	p.Ciphertext = raw.Ciphertext
	if len(p.Ciphertext) == 0 {
		p.Ciphertext = raw.EncryptedData
	}
	return nil
}

// WrapPrivateKey encrypts privateKey's PEM text with AES-256-CBC under a key
// derived from password. Salt and IV are fresh on every call.
func WrapPrivateKey(privateKey *rsa.PrivateKey, password Password) (*ProtectedPrivateKey, error) {
	salt := make([]byte, SaltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	iv, err := CreateIV()
	if err != nil {
		return nil, fmt.Errorf("failed to generate IV: %w", err)
	}

	key := deriveKey(password, salt)
	defer memguard.WipeBytes(key)

	privPEM := EncodePrivateKeyPEM(privateKey)
	defer memguard.WipeBytes(privPEM)

	ciphertext, err := encryptCBC(key, iv, privPEM)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt private key: %w", err)
	}

	return &ProtectedPrivateKey{
		Salt:       salt,
		IV:         iv,
		Ciphertext: ciphertext,
	}, nil
}

// UnwrapPrivateKey recovers the private key protected by WrapPrivateKey.
//
// Returns ErrInvalidPassword whenever the decrypted text is not a well-formed
// PEM RSA key, whatever the cause.
func UnwrapPrivateKey(protected *ProtectedPrivateKey, password Password) (*rsa.PrivateKey, error) {
	if protected == nil || len(protected.Salt) == 0 {
		return nil, kerrors.ErrInvalidPassword
	}

	key := deriveKey(password, protected.Salt)
	defer memguard.WipeBytes(key)

	privPEM, err := decryptCBC(key, protected.IV, protected.Ciphertext)
	if err != nil {
		return nil, kerrors.ErrInvalidPassword
	}
	defer memguard.WipeBytes(privPEM)

	privateKey, err := ParsePrivateKeyPEM(privPEM)
	if err != nil {
		return nil, kerrors.ErrInvalidPassword
	}
	return privateKey, nil
}

func deriveKey(password Password, salt []byte) []byte {
	return pbkdf2.Key(password.Bytes(), salt, PBKDF2Iterations, derivedKeySize, sha256.New)
}
