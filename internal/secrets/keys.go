package secrets

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"fmt"
)

// KeySize is the RSA modulus size used for every participant.
const KeySize = 2048

const (
	privateKeyBlockType = "RSA PRIVATE KEY"
	publicKeyBlockType  = "PUBLIC KEY"
)

// KeyPair holds a user's RSA keys. The private half must only leave memory
// through WrapPrivateKey.
type KeyPair struct {
	PublicKey  *rsa.PublicKey
	PrivateKey *rsa.PrivateKey
}

// GenerateKeyPair creates a new RSA-2048 key pair.
func GenerateKeyPair() (*KeyPair, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, KeySize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key pair: %w", err)
	}

	return &KeyPair{
		PublicKey:  &privateKey.PublicKey,
		PrivateKey: privateKey,
	}, nil
}

// EncodePublicKeyPEM encodes a public key as a PKIX "PUBLIC KEY" PEM block.
func EncodePublicKeyPEM(publicKey *rsa.PublicKey) ([]byte, error) {
	pubASN1, err := x509.MarshalPKIXPublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	return pem.EncodeToMemory(&pem.Block{
		Type:  publicKeyBlockType,
		Bytes: pubASN1,
	}), nil
}

// ParsePublicKeyPEM decodes a PKIX "PUBLIC KEY" PEM block into an RSA public key.
func ParsePublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != publicKeyBlockType {
		return nil, fmt.Errorf("failed to decode PEM block containing public key")
	}
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		return nil, err
	}
	rsaPub, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("not an RSA public key")
	}
	return rsaPub, nil
}

// EncodePrivateKeyPEM encodes a private key as a PKCS#1 "RSA PRIVATE KEY" PEM block.
func EncodePrivateKeyPEM(privateKey *rsa.PrivateKey) []byte {
	return pem.EncodeToMemory(&pem.Block{
		Type:  privateKeyBlockType,
		Bytes: x509.MarshalPKCS1PrivateKey(privateKey),
	})
}

// ParsePrivateKeyPEM decodes a PKCS#1 "RSA PRIVATE KEY" PEM block.
func ParsePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != privateKeyBlockType {
		return nil, fmt.Errorf("failed to decode PEM block containing private key")
	}
	return x509.ParsePKCS1PrivateKey(block.Bytes)
}
