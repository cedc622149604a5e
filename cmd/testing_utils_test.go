package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// captureOutput captures stdout and stderr separately during function execution.
func captureOutput(fn func() error) (string, string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	drain := func(r io.Reader) <-chan string {
		out := make(chan string, 1)
		go func() {
			var buf bytes.Buffer
			if _, err := io.Copy(&buf, r); err != nil {
				log.Fatalf("Failed to run copy command: %s", err)
			}
			out <- buf.String()
		}()
		return out
	}
	stdoutChan := drain(stdoutReader)
	stderrChan := drain(stderrReader)

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan, <-stderrChan, err
}

// testCLI runs stylevault commands against a temporary config and data directory.
type testCLI struct {
	t          *testing.T
	configPath string
	dataDir    string
}

func newTestCLI(t *testing.T) *testCLI {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "share"))
	t.Setenv("NO_COLOR", "1")

	cli := &testCLI{
		t:          t,
		configPath: filepath.Join(dir, "config.toml"),
		dataDir:    filepath.Join(dir, "share", "stylevault"),
	}
	config := "[crypto]\nmax_concurrent_ops = 2\nqueue_timeout = \"1m\"\n"
	if err := os.WriteFile(cli.configPath, []byte(config), 0600); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}
	return cli
}

// exec executes one command line with stdin as its standard input.
func (c *testCLI) exec(stdin string, args ...string) (string, string, error) {
	c.t.Helper()
	ResetGlobalState()
	RootCmd.SetArgs(append([]string{"--config", c.configPath}, args...))
	RootCmd.SetIn(strings.NewReader(stdin))
	return captureOutput(func() error {
		return RootCmd.Execute()
	})
}

// run is exec with stdout and stderr combined.
func (c *testCLI) run(stdin string, args ...string) (string, error) {
	c.t.Helper()
	stdout, stderr, err := c.exec(stdin, args...)
	return stdout + stderr, err
}

// stdout runs a command that must succeed and returns only its stdout.
func (c *testCLI) stdout(stdin string, args ...string) string {
	c.t.Helper()
	stdout, stderr, err := c.exec(stdin, args...)
	if err != nil {
		c.t.Fatalf("stylevault %s failed: %v\noutput:\n%s%s", strings.Join(args, " "), err, stdout, stderr)
	}
	return stdout
}

// mustRun is run that fails the test on error.
func (c *testCLI) mustRun(stdin string, args ...string) string {
	c.t.Helper()
	output, err := c.run(stdin, args...)
	if err != nil {
		c.t.Fatalf("stylevault %s failed: %v\noutput:\n%s", strings.Join(args, " "), err, output)
	}
	return output
}

func (c *testCLI) writeDesign(name, content string) string {
	c.t.Helper()
	path := filepath.Join(c.t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		c.t.Fatalf("Failed to write design file: %v", err)
	}
	return path
}
