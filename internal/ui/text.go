package ui

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Formatter renders one kind of CLI text: colored on a capable terminal,
// decorated with plain prefix and suffix otherwise.
type Formatter struct {
	color  *color.Color
	prefix string
	suffix string
}

func newFormatter(attr color.Attribute, prefix, suffix string) Formatter {
	return Formatter{color: color.New(attr), prefix: prefix, suffix: suffix}
}

// Sprint formats the arguments and returns the resulting string.
func (f Formatter) Sprint(a ...any) string {
	return f.render(fmt.Sprint(a...))
}

// Sprintf formats according to a format specifier and returns the resulting string.
func (f Formatter) Sprintf(format string, a ...any) string {
	return f.render(fmt.Sprintf(format, a...))
}

func (f Formatter) render(text string) string {
	if noColor() {
		return f.prefix + text + f.suffix
	}
	return f.color.Sprint(text)
}

// EnsureNewline ensures the string ends with a newline character.
func EnsureNewline(s string) string {
	if len(s) == 0 || s[len(s)-1] != '\n' {
		return s + "\n"
	}
	return s
}

// noColor honors NO_COLOR (https://no-color.org/) as well as fatih/color's
// own terminal detection.
func noColor() bool {
	if _, exists := os.LookupEnv("NO_COLOR"); exists {
		return true
	}
	return color.NoColor
}

var (
	// Code is a command to run: yellow, or `backticks`.
	Code = newFormatter(color.FgYellow, "`", "`")

	// Path is a file or directory: yellow, or bare.
	Path = newFormatter(color.FgYellow, "", "")

	// Success is green.
	Success = newFormatter(color.FgGreen, "", "")

	// Error is red.
	Error = newFormatter(color.FgRed, "", "")

	// Warning is yellow.
	Warning = newFormatter(color.FgYellow, "", "")

	// Info marks hints and arrows: cyan.
	Info = newFormatter(color.FgCyan, "", "")

	// Highlight is a user-supplied value such as a user or design ID: cyan, or 'quoted'.
	Highlight = newFormatter(color.FgCyan, "'", "'")

	// Muted is secondary text: gray, or (parenthesized).
	Muted = newFormatter(color.FgHiBlack, "(", ")")
)
