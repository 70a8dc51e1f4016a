// Package ui provides semantic text formatting for CLI output.
//
// Formatters apply color when the terminal supports it and fall back to
// plain-text decorations when it does not (NO_COLOR, dumb terminals, pipes).
//
// # Usage
//
//	fmt.Println(ui.Success.Sprint("✓") + " Bucket " + ui.Highlight.Sprint(alias) + " was created")
//	fmt.Println("Run " + ui.Code.Sprint("kris auth") + " to authorize")
package ui
