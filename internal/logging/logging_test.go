package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func init() {
	color.NoColor = true
}

func newTestLogger(verbose, debug bool) (Logger, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	return Logger{Verbose: verbose, Debug: debug, Out: &out, Err: &errOut}, &out, &errOut
}

func TestLogger_Levels(t *testing.T) {
	testCases := []struct {
		name                          string
		verbose, debug                bool
		wantInfo, wantDebug, wantWarn bool
		wantError                     bool
	}{
		{name: "Quiet"},
		{name: "Verbose", verbose: true, wantInfo: true, wantWarn: true},
		{name: "Debug", debug: true, wantInfo: true, wantDebug: true, wantWarn: true, wantError: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l, out, errOut := newTestLogger(tc.verbose, tc.debug)
			l.Infof("info %d", 1)
			l.Debugf("debug %d", 2)
			l.Warnf("warn %d", 3)
			l.Errorf("error %d", 4)

			check := func(buf *bytes.Buffer, s string, want bool) {
				if got := strings.Contains(buf.String(), s); got != want {
					t.Errorf("%q present=%v, want %v", s, got, want)
				}
			}
			check(out, "[info] info 1", tc.wantInfo)
			check(out, "[debug] debug 2", tc.wantDebug)
			check(errOut, "[warn] warn 3", tc.wantWarn)
			check(errOut, "[error] error 4", tc.wantError)
		})
	}
}

func TestLogger_AlwaysShown(t *testing.T) {
	l, _, errOut := newTestLogger(false, false)
	l.WarnfAlways("disk %s", "full")
	l.WarnfUser("signature could not be verified")

	if !strings.Contains(errOut.String(), "[warn] disk full") {
		t.Errorf("WarnfAlways missing: %q", errOut.String())
	}
	if !strings.Contains(errOut.String(), "Warning: signature could not be verified") {
		t.Errorf("WarnfUser missing: %q", errOut.String())
	}
}

func TestLogger_ErrorfAndReturn(t *testing.T) {
	sentinel := errors.New("registry unavailable")
	l, _, errOut := newTestLogger(false, true)

	err := l.ErrorfAndReturn("loading keys for %s: %w", "U", sentinel)
	if !errors.Is(err, sentinel) {
		t.Errorf("expected wrapped sentinel, got %v", err)
	}
	if !strings.Contains(errOut.String(), "loading keys for U: registry unavailable") {
		t.Errorf("error not logged: %q", errOut.String())
	}
}
