package secrets

import (
	"fmt"

	"github.com/awnumar/memguard"
)

const redacted = "[REDACTED]"

// Password carries a user password through a single operation.
//
// It formats as [REDACTED] under every fmt verb so it cannot leak into logs,
// and Destroy wipes the underlying bytes once the caller is done.
type Password struct {
	b []byte
}

// NewPassword copies p into a new Password. The caller may wipe p afterwards.
func NewPassword(p []byte) Password {
	b := make([]byte, len(p))
	copy(b, p)
	return Password{b: b}
}

// PasswordFromString builds a Password from a string literal or flag value.
func PasswordFromString(s string) Password {
	return Password{b: []byte(s)}
}

// Bytes returns the raw password. The slice is wiped by Destroy.
func (p Password) Bytes() []byte {
	return p.b
}

// Empty reports whether no password was supplied.
func (p Password) Empty() bool {
	return len(p.b) == 0
}

// Destroy zeroes the password bytes.
func (p Password) Destroy() {
	memguard.WipeBytes(p.b)
}

func (p Password) String() string {
	return redacted
}

func (p Password) GoString() string {
	return redacted
}

// Format implements fmt.Formatter so %x, %q and friends stay redacted too.
func (p Password) Format(f fmt.State, verb rune) {
	_, _ = f.Write([]byte(redacted))
}
