package secrets

import (
	"fmt"
	"strings"
	"testing"
)

func TestPassword_Redacted(t *testing.T) {
	pw := PasswordFromString("hunter2")

	for _, verb := range []string{"%s", "%v", "%+v", "%#v", "%q", "%x"} {
		out := fmt.Sprintf(verb, pw)
		if strings.Contains(out, "hunter2") || strings.Contains(out, "68756e74657232") {
			t.Errorf("verb %s leaked password: %s", verb, out)
		}
	}

	wrapped := fmt.Sprintf("%v", struct{ P Password }{pw})
	if strings.Contains(wrapped, "hunter2") {
		t.Errorf("struct formatting leaked password: %s", wrapped)
	}
}

func TestPassword_Destroy(t *testing.T) {
	src := []byte("pw1")
	pw := NewPassword(src)
	src[0] = 'X'

	if string(pw.Bytes()) != "pw1" {
		t.Fatalf("NewPassword did not copy input, got %q", pw.Bytes())
	}

	pw.Destroy()
	for i, b := range pw.Bytes() {
		if b != 0 {
			t.Errorf("byte %d not wiped: %x", i, b)
		}
	}
}

func TestPassword_Empty(t *testing.T) {
	if !PasswordFromString("").Empty() {
		t.Error("expected empty password")
	}
	if NewPassword([]byte("x")).Empty() {
		t.Error("expected non-empty password")
	}
}
