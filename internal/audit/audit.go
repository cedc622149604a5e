package audit

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// TimestampFormat is how entry timestamps are written: RFC3339, UTC, microseconds.
const TimestampFormat = "2006-01-02T15:04:05.000000Z"

// Operation names.
const (
	OpKeyGenerated      = "KEY_GENERATED"
	OpDesignUploaded    = "DESIGN_UPLOADED"
	OpDesignViewed      = "DESIGN_VIEWED"
	OpEnvelopeCreated   = "ENVELOPE_CREATED"
	OpEnvelopeOpened    = "ENVELOPE_OPENED"
	OpSignatureVerified = "SIGNATURE_VERIFIED"
	OpStylistAssigned   = "STYLIST_ASSIGNED"
	OpStylistSelected   = "STYLIST_SELECTED"
	OpAccessDenied      = "ACCESS_DENIED"
)

// Resource types.
const (
	ResourceDesign  = "design"
	ResourceKey     = "key"
	ResourceStylist = "stylist"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // TimestampFormat.
	UserID    string `json:"user"` // Who performed the action.
	Operation string `json:"op"`

	ResourceType string `json:"resource_type,omitempty"`
	ResourceID   string `json:"resource_id,omitempty"`

	// Optional fields depending on operation.
	Role           string `json:"role,omitempty"`            // For DESIGN_VIEWED / ACCESS_DENIED.
	CounterpartyID string `json:"counterparty,omitempty"`    // For DESIGN_UPLOADED / STYLIST_*.
	Method         string `json:"method,omitempty"`          // automatic or manual.
	Recipients     int    `json:"recipients,omitempty"`      // For ENVELOPE_CREATED.
	SignatureValid *bool  `json:"signature_valid,omitempty"` // For SIGNATURE_VERIFIED.
	Reason         string `json:"reason,omitempty"`          // For ACCESS_DENIED.
}

// Sink stores audit entries.
type Sink interface {
	Record(entry Entry) error
}

// Log records entry through sink and returns the sink's error for the caller
// to report. Callers must not fail an operation because of it.
func Log(sink Sink, entry Entry) error {
	if sink == nil {
		return nil
	}
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format(TimestampFormat)
	}
	return sink.Record(entry)
}

// Bool returns a pointer to b, for Entry.SignatureValid.
func Bool(b bool) *bool {
	return &b
}

// FileSink appends entries as JSON Lines to a file.
type FileSink struct {
	path string
	mu   sync.Mutex
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

// Path returns the path to the audit log file.
func (s *FileSink) Path() string {
	return s.path
}

func (s *FileSink) Record(entry Entry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return err
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = f.Write(append(data, '\n'))
	return err
}

// ReadAll returns every entry recorded so far.
func (s *FileSink) ReadAll() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ReadEntries(s.path)
}

// MemorySink keeps entries in memory.
type MemorySink struct {
	mu      sync.Mutex
	entries []Entry
}

func (s *MemorySink) Record(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	return nil
}

// Entries returns a copy of the recorded entries.
func (s *MemorySink) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

func (s *MemorySink) ReadAll() ([]Entry, error) {
	return s.Entries(), nil
}

// Reader gives access to recorded entries.
type Reader interface {
	ReadAll() ([]Entry, error)
}

// ReadEntries reads all entries from the audit log at path.
// Returns an empty slice if the log doesn't exist.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Partial write or hand edit.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
