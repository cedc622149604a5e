package registry

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/stylevault/stylevault/internal/errors"
	"github.com/stylevault/stylevault/internal/secrets"
)

func testMaterial(t *testing.T, password string) (*KeyMaterial, *secrets.KeyPair) {
	t.Helper()
	kp, err := secrets.GenerateKeyPair()
	if err != nil {
		t.Fatalf("GenerateKeyPair failed: %v", err)
	}
	protected, err := secrets.WrapPrivateKey(kp.PrivateKey, secrets.PasswordFromString(password))
	if err != nil {
		t.Fatalf("WrapPrivateKey failed: %v", err)
	}
	return &KeyMaterial{PublicKey: kp.PublicKey, Protected: protected}, kp
}

func TestFileRegistry_RoundTrip(t *testing.T) {
	ctx := context.Background()
	baseDir := t.TempDir()

	reg, err := NewFileRegistry(baseDir)
	if err != nil {
		t.Fatalf("NewFileRegistry failed: %v", err)
	}

	km, kp := testMaterial(t, "pw1")
	if err := reg.SaveKeyMaterial(ctx, "alice", km); err != nil {
		t.Fatalf("SaveKeyMaterial failed: %v", err)
	}

	for _, path := range []string{
		filepath.Join(baseDir, "public_keys", "alice.pub"),
		filepath.Join(baseDir, "private_keys", "alice.key"),
	} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected %s to exist: %v", path, err)
		}
	}

	info, err := os.Stat(reg.PrivateKeyPath("alice"))
	if err != nil {
		t.Fatalf("stat private key: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("expected private key mode 0600, got %o", perm)
	}

	// A fresh registry over the same directory sees the stored keys.
	reopened, err := NewFileRegistry(baseDir)
	if err != nil {
		t.Fatalf("NewFileRegistry failed: %v", err)
	}
	found, err := reopened.FindKeyMaterial(ctx, "alice")
	if err != nil {
		t.Fatalf("FindKeyMaterial failed: %v", err)
	}
	if !found.PublicKey.Equal(kp.PublicKey) {
		t.Error("public key does not match")
	}
	if found.Protected == nil {
		t.Fatal("expected protected private key")
	}

	priv, err := secrets.UnwrapPrivateKey(found.Protected, secrets.PasswordFromString("pw1"))
	if err != nil {
		t.Fatalf("UnwrapPrivateKey failed: %v", err)
	}
	if !priv.Equal(kp.PrivateKey) {
		t.Error("private key does not match")
	}
}

func TestFileRegistry_PublicKeyOnly(t *testing.T) {
	ctx := context.Background()
	reg, err := NewFileRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileRegistry failed: %v", err)
	}

	km, _ := testMaterial(t, "pw")
	km.Protected = nil
	if err := reg.SaveKeyMaterial(ctx, "stylist-1", km); err != nil {
		t.Fatalf("SaveKeyMaterial failed: %v", err)
	}

	found, err := reg.FindKeyMaterial(ctx, "stylist-1")
	if err != nil {
		t.Fatalf("FindKeyMaterial failed: %v", err)
	}
	if found.Protected != nil {
		t.Error("expected no protected private key")
	}
}

func TestFileRegistry_NotFound(t *testing.T) {
	reg, err := NewFileRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileRegistry failed: %v", err)
	}
	_, err = reg.FindKeyMaterial(context.Background(), "nobody")
	if !errors.Is(err, kerrors.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}
}

func TestFileRegistry_LegacyPrivateKeyField(t *testing.T) {
	ctx := context.Background()
	reg, err := NewFileRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileRegistry failed: %v", err)
	}

	km, _ := testMaterial(t, "pw")
	if err := reg.SaveKeyMaterial(ctx, "old", km); err != nil {
		t.Fatalf("SaveKeyMaterial failed: %v", err)
	}

	legacy := `{"salt":"` + b64(km.Protected.Salt) + `","iv":"` + b64(km.Protected.IV) +
		`","encryptedData":"` + b64(km.Protected.Ciphertext) + `"}`
	if err := os.WriteFile(reg.PrivateKeyPath("old"), []byte(legacy), 0600); err != nil {
		t.Fatalf("write legacy record: %v", err)
	}

	found, err := reg.FindKeyMaterial(ctx, "old")
	if err != nil {
		t.Fatalf("FindKeyMaterial failed: %v", err)
	}
	if _, err := secrets.UnwrapPrivateKey(found.Protected, secrets.PasswordFromString("pw")); err != nil {
		t.Errorf("legacy record did not unwrap: %v", err)
	}
}

func TestFileRegistry_InvalidInput(t *testing.T) {
	ctx := context.Background()
	reg, err := NewFileRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileRegistry failed: %v", err)
	}

	for _, id := range []string{"", ".", "..", "../escape", `a\b`} {
		if _, err := reg.FindKeyMaterial(ctx, id); !errors.Is(err, kerrors.ErrInvalidUserID) {
			t.Errorf("FindKeyMaterial(%q): expected ErrInvalidUserID, got %v", id, err)
		}
	}

	if err := reg.SaveKeyMaterial(ctx, "alice", &KeyMaterial{}); !errors.Is(err, kerrors.ErrMissingKeys) {
		t.Errorf("expected ErrMissingKeys, got %v", err)
	}
}

func TestFileRegistry_CorruptPublicKey(t *testing.T) {
	ctx := context.Background()
	reg, err := NewFileRegistry(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileRegistry failed: %v", err)
	}

	if err := os.WriteFile(reg.PublicKeyPath("stylist-2"), []byte("not a pem block"), 0600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	if _, err := reg.FindKeyMaterial(ctx, "stylist-2"); !errors.Is(err, kerrors.ErrInvalidPublicKey) {
		t.Errorf("expected ErrInvalidPublicKey, got %v", err)
	}
}

func TestMemoryRegistry(t *testing.T) {
	ctx := context.Background()
	reg := NewMemoryRegistry()

	for _, id := range []string{"", "..", "../escape", `a\b`} {
		if _, err := reg.FindKeyMaterial(ctx, id); !errors.Is(err, kerrors.ErrInvalidUserID) {
			t.Errorf("FindKeyMaterial(%q): expected ErrInvalidUserID, got %v", id, err)
		}
	}

	if _, err := reg.FindKeyMaterial(ctx, "alice"); !errors.Is(err, kerrors.ErrKeyNotFound) {
		t.Errorf("expected ErrKeyNotFound, got %v", err)
	}

	km, kp := testMaterial(t, "pw")
	if err := reg.SaveKeyMaterial(ctx, "alice", km); err != nil {
		t.Fatalf("SaveKeyMaterial failed: %v", err)
	}
	found, err := reg.FindKeyMaterial(ctx, "alice")
	if err != nil {
		t.Fatalf("FindKeyMaterial failed: %v", err)
	}
	if !found.PublicKey.Equal(kp.PublicKey) {
		t.Error("public key does not match")
	}
}
