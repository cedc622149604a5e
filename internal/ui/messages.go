package ui

// Done is a success line for a spinner's final message.
func Done(msg string) string {
	return Success.Sprint("✓") + " " + msg
}

// Fail is a failure line for a spinner's final message.
func Fail(msg string) string {
	return Error.Sprint("✗") + " " + msg
}

// Hint suggests a command to run next.
func Hint(msg, command string) string {
	return Info.Sprint("→") + " " + msg + " " + Code.Sprint(command)
}

// Signature describes a signature check result.
func Signature(valid bool) string {
	if valid {
		return Success.Sprint("valid")
	}
	return Error.Sprint("INVALID")
}
