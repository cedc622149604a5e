package workflows

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stylevault/stylevault/internal/audit"
	kerrors "github.com/stylevault/stylevault/internal/errors"
)

// LogOptions configures the log workflow.
type LogOptions struct {
	// Limit is the maximum number of entries to return. 0 means no limit.
	Limit int

	// Reverse orders entries from most recent to oldest when true.
	Reverse bool

	// User filters entries by user ID.
	User string

	// Operations filters entries by operation types (comma-separated).
	Operations string

	// Since filters entries after this date (YYYY-MM-DD format).
	Since string

	// Until filters entries before this date (YYYY-MM-DD format).
	Until string
}

// LogResult contains the outcome of a log operation.
type LogResult struct {
	// Entries are the filtered audit log entries.
	Entries []audit.Entry

	// TotalEntriesBeforeFilter is the count of entries before filtering.
	TotalEntriesBeforeFilter int
}

// Log reads and filters the audit log.
//
// Returns ErrInvalidDateFormat if the date format is invalid.
// Returns ErrUpstreamFailure if the audit log cannot be read.
func (s *Service) Log(ctx context.Context, opts LogOptions) (*LogResult, error) {
	var since, until time.Time
	if opts.Since != "" {
		t, err := time.Parse("2006-01-02", opts.Since)
		if err != nil {
			return nil, fmt.Errorf("%w: --since date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		since = t
	}
	if opts.Until != "" {
		t, err := time.Parse("2006-01-02", opts.Until)
		if err != nil {
			return nil, fmt.Errorf("%w: --until date format invalid, use YYYY-MM-DD", kerrors.ErrInvalidDateFormat)
		}
		// Include the entire day.
		until = t.Add(24*time.Hour - time.Nanosecond)
	}

	entries, err := s.Audit.ReadAll()
	if err != nil {
		return nil, s.upstream("reading audit log", err)
	}

	result := &LogResult{
		TotalEntriesBeforeFilter: len(entries),
	}

	filtered := entries

	if opts.User != "" {
		filtered = filterByUser(filtered, opts.User)
	}

	if opts.Operations != "" {
		ops := strings.Split(opts.Operations, ",")
		for i := range ops {
			ops[i] = strings.TrimSpace(ops[i])
		}
		filtered = filterByOperations(filtered, ops)
	}

	if !since.IsZero() {
		filtered = filterTime(filtered, func(t time.Time) bool { return !t.Before(since) })
	}
	if !until.IsZero() {
		filtered = filterTime(filtered, func(t time.Time) bool { return !t.After(until) })
	}

	if opts.Reverse {
		for i, j := 0, len(filtered)-1; i < j; i, j = i+1, j-1 {
			filtered[i], filtered[j] = filtered[j], filtered[i]
		}
	}

	if opts.Limit > 0 && len(filtered) > opts.Limit {
		if opts.Reverse {
			// Reversed: the first N are the most recent.
			filtered = filtered[:opts.Limit]
		} else {
			filtered = filtered[len(filtered)-opts.Limit:]
		}
	}

	result.Entries = filtered
	return result, nil
}

func filterByUser(entries []audit.Entry, user string) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		if e.UserID == user {
			result = append(result, e)
		}
	}
	return result
}

// filterByOperations matches operation names case-insensitively.
func filterByOperations(entries []audit.Entry, ops []string) []audit.Entry {
	opSet := make(map[string]bool)
	for _, op := range ops {
		opSet[strings.ToUpper(op)] = true
	}

	var result []audit.Entry
	for _, e := range entries {
		if opSet[strings.ToUpper(e.Operation)] {
			result = append(result, e)
		}
	}
	return result
}

// filterTime keeps entries whose timestamp satisfies keep. Unparseable
// timestamps are dropped.
func filterTime(entries []audit.Entry, keep func(time.Time) bool) []audit.Entry {
	var result []audit.Entry
	for _, e := range entries {
		t, ok := parseTimestamp(e.Timestamp)
		if ok && keep(t) {
			result = append(result, e)
		}
	}
	return result
}

func parseTimestamp(ts string) (time.Time, bool) {
	t, err := time.Parse(audit.TimestampFormat, ts)
	if err != nil {
		t, err = time.Parse(time.RFC3339, ts)
	}
	return t, err == nil
}

// FormatDate formats a timestamp string to YYYY-MM-DD format.
func FormatDate(ts string) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		if len(ts) >= 10 {
			return ts[:10]
		}
		return ts
	}
	return t.Format("2006-01-02")
}

// FormatDateTime formats a timestamp string to YYYY-MM-DD HH:MM:SS format.
func FormatDateTime(ts string) string {
	t, ok := parseTimestamp(ts)
	if !ok {
		if len(ts) >= 19 {
			return ts[:19]
		}
		return ts
	}
	return t.Format("2006-01-02 15:04:05")
}

// FormatDetails describes the operation-specific fields of an entry.
func FormatDetails(e audit.Entry) string {
	switch e.Operation {
	case audit.OpDesignUploaded:
		return fmt.Sprintf("%s -> %s (%s)", e.ResourceID, e.CounterpartyID, e.Method)
	case audit.OpStylistAssigned, audit.OpStylistSelected:
		return fmt.Sprintf("%s (%s)", e.CounterpartyID, e.Method)
	case audit.OpEnvelopeCreated:
		return fmt.Sprintf("%s, %d recipients", e.ResourceID, e.Recipients)
	case audit.OpSignatureVerified:
		valid := e.SignatureValid != nil && *e.SignatureValid
		if valid {
			return e.ResourceID + " valid"
		}
		return e.ResourceID + " INVALID"
	case audit.OpDesignViewed:
		if e.Role != "" {
			return fmt.Sprintf("%s as %s", e.ResourceID, e.Role)
		}
		return e.ResourceID
	case audit.OpAccessDenied:
		if e.Reason != "" {
			return fmt.Sprintf("%s (%s)", e.ResourceID, e.Reason)
		}
		return e.ResourceID
	default:
		return e.ResourceID
	}
}
