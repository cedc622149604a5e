package utils

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// MaxPayloadSize bounds how much a design file may hold.
const MaxPayloadSize = 1 << 20

// ReadLine reads the first line from r, without its line ending.
// An empty first line is an error.
func ReadLine(r io.Reader) ([]byte, error) {
	line, err := bufio.NewReader(r).ReadBytes('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read from stdin: %w", err)
	}
	line = bytes.TrimRight(line, "\r\n")
	if len(line) == 0 {
		return nil, fmt.Errorf("stdin is empty")
	}
	return line, nil
}

// ReadPayload reads a design file, or r when path is "-".
func ReadPayload(path string, r io.Reader) ([]byte, error) {
	if path == "-" {
		return readLimited(r, "stdin")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return readLimited(f, path)
}

func readLimited(r io.Reader, name string) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxPayloadSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	if len(data) > MaxPayloadSize {
		return nil, fmt.Errorf("%s is larger than %d bytes", name, MaxPayloadSize)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%s is empty", name)
	}
	return data, nil
}
