package cli

import (
	"fmt"
	"io"
)

// IO is a command's view of stdout and stderr.
//
// Warnings are non-fatal problems, typically a write that did not reach the
// disk while the command itself completed. They are printed to stderr before
// the first line of normal output and again by [IO.Finish], so they survive
// piping through head or tail, and they turn the exit code into 1.
type IO struct {
	out      io.Writer
	errOut   io.Writer
	warnings []string
	headed   bool // warnings already printed ahead of output
}

// NewIO returns an IO writing to out and errOut.
func NewIO(out, errOut io.Writer) *IO {
	return &IO{out: out, errOut: errOut}
}

// Warn records that issue happened because of err.
func (o *IO) Warn(issue string, err error) {
	o.warnings = append(o.warnings, issue+": "+err.Error())
}

// Println writes a line to stdout.
func (o *IO) Println(a ...any) {
	_, _ = fmt.Fprintln(o.Out(), a...)
}

// Printf writes formatted output to stdout.
func (o *IO) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(o.Out(), format, a...)
}

// Out returns stdout for commands that stream into it.
func (o *IO) Out() io.Writer {
	if !o.headed && len(o.warnings) > 0 {
		o.headed = true
		o.printWarnings()
	}

	return o.out
}

// ErrPrintln writes a line to stderr.
func (o *IO) ErrPrintln(a ...any) {
	_, _ = fmt.Fprintln(o.errOut, a...)
}

// Finish prints the warnings a final time and returns the exit code the
// warnings imply.
func (o *IO) Finish() int {
	if len(o.warnings) == 0 {
		return 0
	}

	// Without prior output the leading block is still owed.
	o.Out()
	o.printWarnings()

	return 1
}

func (o *IO) printWarnings() {
	for _, w := range o.warnings {
		_, _ = fmt.Fprintln(o.errOut, "warning:", w)
	}
}
