// Package ui prints user-facing progress for long-running commands:
// colored status lines, and a spinner while an external tool runs when the
// output is a terminal.
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// Reporter writes progress messages.
type Reporter struct {
	w           io.Writer
	interactive bool

	step    *color.Color
	success *color.Color
	warn    *color.Color

	mu   sync.Mutex
	spin *spinner.Spinner
}

// NewReporter returns a Reporter writing to w. Spinners are only shown when
// w is a terminal.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{
		w:           w,
		interactive: isTerminal(w),
		step:        color.New(color.FgCyan),
		success:     color.New(color.FgGreen, color.Bold),
		warn:        color.New(color.FgYellow),
	}
}

// Discard returns a Reporter that prints nothing.
func Discard() *Reporter {
	return NewReporter(io.Discard)
}

// Step prints a progress line.
func (r *Reporter) Step(format string, args ...any) {
	r.step.Fprintf(r.w, format+"\n", args...)
}

// Info prints a plain line.
func (r *Reporter) Info(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

// Warn prints a warning line.
func (r *Reporter) Warn(format string, args ...any) {
	r.warn.Fprintf(r.w, format+"\n", args...)
}

// Success prints a completion line.
func (r *Reporter) Success(format string, args ...any) {
	r.success.Fprintf(r.w, format+"\n", args...)
}

// Spin starts a spinner with the given suffix and returns a function that
// stops it. Without a terminal it does nothing.
func (r *Reporter) Spin(suffix string) (stop func()) {
	if !r.interactive {
		return func() {}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(r.w))
	s.Suffix = " " + suffix
	s.Start()
	r.spin = s

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()
		if r.spin != nil {
			r.spin.Stop()
			r.spin = nil
		}
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
