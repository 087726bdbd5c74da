// Package exit carries the message and status a command ends with.
package exit

import (
	"fmt"
	"io"
	"os"
)

const (
	CodeSuccess = 0
	// CodeFailure reports a document that could not be read or evaluated.
	CodeFailure = 1
	// CodeUsage reports bad flags or an expression or mapping that does not
	// compile.
	CodeUsage = 2
)

// Result holds the output destination and exit code for program termination.
type Result struct {
	Output   io.Writer
	ExitCode int
	Message  string
}

// New creates a result for code. Success goes to stdout, everything else to
// stderr.
func New(code int, message string) *Result {
	out := io.Writer(os.Stderr)
	if code == CodeSuccess {
		out = os.Stdout
	}
	return &Result{Output: out, ExitCode: code, Message: message}
}

// Success creates a successful result, such as requested help.
func Success(message string) *Result {
	return New(CodeSuccess, message)
}

// Usagef creates a usage or compile failure with a formatted message.
func Usagef(format string, a ...any) *Result {
	return New(CodeUsage, fmt.Sprintf(format, a...))
}

// Compile reports err from compiling an expression, mapping or format.
func Compile(err error) *Result {
	return Usagef("Error: %v\n", err)
}

// Print writes the result message to the configured output destination.
func (r *Result) Print() {
	fmt.Fprint(r.Output, r.Message)
}

// Report prints the result and returns its exit code.
func (r *Result) Report() int {
	r.Print()
	return r.ExitCode
}
