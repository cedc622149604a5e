// Package audit provides the audit trail for stylevault operations.
//
// Key generation, uploads, envelope creation and opening, signature checks,
// stylist assignment and refused access are each recorded with who did it,
// to which resource, and when.
//
// # Log Format
//
// FileSink stores entries as JSON Lines (one JSON object per line) at:
//
//	<data dir>/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - User ID and operation name
//   - Resource type and ID
//   - Operation-specific details (role, counterparty, signature validity)
//
// # Usage
//
//	audit.Log(sink, audit.Entry{
//		UserID:       viewerID,
//		Operation:    audit.OpDesignViewed,
//		ResourceType: audit.ResourceDesign,
//		ResourceID:   designID,
//	})
//
// # Failure Handling
//
// Audit logging is best-effort. If recording fails (permissions, disk full,
// etc.), the operation continues without error.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit
