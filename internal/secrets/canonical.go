package secrets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	kerrors "github.com/stylevault/stylevault/internal/errors"
)

// Canonicalize returns the canonical encoding of a JSON payload: compact,
// object keys sorted by byte order, numbers kept verbatim, no HTML escaping
// and no trailing newline. Two payloads that differ only in key order or
// whitespace canonicalize to the same bytes.
func Canonicalize(payload []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidPayload, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after JSON value", kerrors.ErrInvalidPayload)
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// encoding/json writes map keys in sorted order.
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrInvalidPayload, err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
