package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// Confirm prompts on stdout and reads the answer from stdin. Returns true for yes.
func Confirm(prompt string) bool {
	return ConfirmFrom(os.Stdin, os.Stdout, StyleWarning.Render(prompt))
}

// ConfirmDanger is like Confirm but styled with the error color (for destructive actions).
func ConfirmDanger(prompt string) bool {
	return ConfirmFrom(os.Stdin, os.Stdout, StyleError.Render("⚠ "+prompt))
}

// ConfirmFrom writes prompt to out and reads a y/N answer from in.
func ConfirmFrom(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	line, _ := bufio.NewReader(in).ReadString('\n')
	line = strings.TrimSpace(strings.ToLower(line))
	return line == "y" || line == "yes"
}
