package utils

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompt reads a single line from stdin after printing a label. Input is
// read one byte at a time so consecutive prompts never consume each
// other's lines.
func Prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label+": ")

	var line strings.Builder
	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if n > 0 {
			if buf[0] == '\n' {
				break
			}
			line.WriteByte(buf[0])
		}
		if err != nil {
			if errors.Is(err, io.EOF) && line.Len() > 0 {
				break
			}
			return "", fmt.Errorf("failed to read input: %w", err)
		}
	}
	return strings.TrimSpace(line.String()), nil
}

// PromptHidden reads a line from stdin without echoing input.
// Returns an error if stdin is not a terminal.
func PromptHidden(label string) (string, error) {
	fd := int(os.Stdin.Fd())

	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("cannot read %s: stdin is not a terminal", label)
	}

	fmt.Fprint(os.Stderr, label+": ")
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // Add newline after hidden input

	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", label, err)
	}
	return string(secret), nil
}

// IsTerminal returns true if stdin is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
