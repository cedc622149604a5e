// Package utils provides shared helpers for the stylevault command line.
//
// # Input
//
//   - ReadPassphrase: prompts for a password without echo (golang.org/x/term)
//   - ReadLine: reads a password piped with --password-stdin
//   - ReadPayload: reads a design file, or stdin for "-"
//
// # System
//
//   - GetUsername, DefaultUserID: the user ID assumed when --user is omitted
//
// # Formatting
//
//   - FormatPaths, ShortID
package utils
