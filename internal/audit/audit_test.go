package audit

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func tempLogPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "data", "audit.jsonl")
}

func TestLog_CreatesFile(t *testing.T) {
	logPath := tempLogPath(t)
	sink := NewFileSink(logPath)

	Log(sink, Entry{UserID: "U", Operation: OpKeyGenerated, ResourceType: ResourceKey, ResourceID: "U"})

	if _, err := os.Stat(logPath); os.IsNotExist(err) {
		t.Fatalf("Audit log file was not created")
	}
}

func TestLog_AppendsEntries(t *testing.T) {
	logPath := tempLogPath(t)
	sink := NewFileSink(logPath)

	Log(sink, Entry{UserID: "U", Operation: OpDesignUploaded})
	Log(sink, Entry{UserID: "V", Operation: OpDesignViewed})
	Log(sink, Entry{UserID: "T", Operation: OpAccessDenied})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Errorf("Expected 3 lines, got %d", len(lines))
	}
}

func TestLog_ValidJSON(t *testing.T) {
	logPath := tempLogPath(t)

	Log(NewFileSink(logPath), Entry{
		UserID:         "V",
		Operation:      OpSignatureVerified,
		ResourceType:   ResourceDesign,
		ResourceID:     "design-1",
		SignatureValid: Bool(true),
	})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}

	var parsed Entry
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(data))), &parsed); err != nil {
		t.Fatalf("Entry is not valid JSON: %v", err)
	}

	if parsed.UserID != "V" {
		t.Errorf("Expected user V, got %s", parsed.UserID)
	}
	if parsed.Operation != OpSignatureVerified {
		t.Errorf("Expected operation %s, got %s", OpSignatureVerified, parsed.Operation)
	}
	if parsed.SignatureValid == nil || !*parsed.SignatureValid {
		t.Errorf("Expected signature_valid true, got %v", parsed.SignatureValid)
	}
}

func TestLog_TimestampFormat(t *testing.T) {
	sink := &MemorySink{}
	Log(sink, Entry{UserID: "U", Operation: OpKeyGenerated})

	entries := sink.Entries()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	ts := entries[0].Timestamp
	if ts == "" {
		t.Fatal("Timestamp should be auto-set")
	}
	if !strings.HasSuffix(ts, "Z") {
		t.Errorf("Timestamp should end with Z, got %s", ts)
	}
	if !strings.Contains(ts, ".") {
		t.Errorf("Timestamp should contain microseconds, got %s", ts)
	}
}

func TestLog_KeepsExplicitTimestamp(t *testing.T) {
	sink := &MemorySink{}
	Log(sink, Entry{Timestamp: "2024-01-15T10:30:00.123456Z", Operation: OpKeyGenerated})

	if got := sink.Entries()[0].Timestamp; got != "2024-01-15T10:30:00.123456Z" {
		t.Errorf("Timestamp overwritten: %s", got)
	}
}

func TestLog_OmitsEmptyFields(t *testing.T) {
	logPath := tempLogPath(t)
	Log(NewFileSink(logPath), Entry{UserID: "U", Operation: OpKeyGenerated})

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("Failed to read audit log: %v", err)
	}

	line := strings.TrimSpace(string(data))
	for _, field := range []string{`"role"`, `"counterparty"`, `"signature_valid"`, `"reason"`} {
		if strings.Contains(line, field) {
			t.Errorf("Empty %s field should be omitted", field)
		}
	}
}

type failingSink struct{ calls int }

func (s *failingSink) Record(Entry) error {
	s.calls++
	return errors.New("disk full")
}

func TestLog_BestEffort(t *testing.T) {
	sink := &failingSink{}
	if err := Log(sink, Entry{UserID: "U", Operation: OpDesignUploaded}); err == nil {
		t.Error("Expected the sink error to be returned")
	}
	if sink.calls != 1 {
		t.Errorf("Expected sink to be called once, got %d", sink.calls)
	}

	if err := Log(NewFileSink(filepath.Join("/dev/null", "audit.jsonl")), Entry{Operation: OpKeyGenerated}); err == nil {
		t.Error("Expected an error for an unwritable log location")
	}
	if err := Log(nil, Entry{Operation: OpKeyGenerated}); err != nil {
		t.Errorf("Expected nil sink to be a no-op, got %v", err)
	}
}

func TestReadEntries(t *testing.T) {
	logPath := tempLogPath(t)

	entries, err := ReadEntries(logPath)
	if err != nil {
		t.Fatalf("ReadEntries on missing log failed: %v", err)
	}
	if entries != nil {
		t.Errorf("Expected nil entries for missing log, got %v", entries)
	}

	sink := NewFileSink(logPath)
	Log(sink, Entry{UserID: "U", Operation: OpDesignUploaded})
	Log(sink, Entry{UserID: "V", Operation: OpDesignViewed})

	entries, err = ReadEntries(sink.Path())
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 || entries[1].UserID != "V" {
		t.Errorf("Unexpected entries: %+v", entries)
	}
}

func TestParseEntries_ValidData(t *testing.T) {
	data := []byte(`{"ts":"2024-01-15T10:30:00.123456Z","user":"U","op":"DESIGN_UPLOADED"}
{"ts":"2024-01-15T10:35:00.456789Z","user":"V","op":"DESIGN_VIEWED"}
`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Fatalf("Expected 2 entries, got %d", len(entries))
	}
	if entries[0].UserID != "U" {
		t.Errorf("Expected first user U, got %s", entries[0].UserID)
	}
	if entries[1].Operation != OpDesignViewed {
		t.Errorf("Expected second op %s, got %s", OpDesignViewed, entries[1].Operation)
	}
}

func TestParseEntries_SkipsMalformedLines(t *testing.T) {
	data := []byte(`{"ts":"2024-01-15T10:30:00.123456Z","user":"U","op":"DESIGN_UPLOADED"}
this is not valid json
{"ts":"2024-01-15T10:35:00.456789Z","user":"V","op":"DESIGN_VIEWED"}`)

	entries, err := ParseEntries(data)
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if len(entries) != 2 {
		t.Errorf("Expected 2 valid entries (malformed should be skipped), got %d", len(entries))
	}
}

func TestParseEntries_EmptyData(t *testing.T) {
	entries, err := ParseEntries([]byte{})
	if err != nil {
		t.Fatalf("ParseEntries failed: %v", err)
	}

	if entries != nil {
		t.Errorf("Expected nil entries for empty data, got %v", entries)
	}
}
