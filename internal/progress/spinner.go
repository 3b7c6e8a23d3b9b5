package progress

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
)

var (
	okColor   = color.New(color.FgGreen)
	failColor = color.New(color.FgRed)
)

// Spinner animates a status line on a terminal and prints a final result
// line when stopped. On anything that is not a terminal only the result
// line is written.
type Spinner struct {
	spin    *spinner.Spinner
	out     *os.File
	caps    TerminalCapabilities
	symbols ProgressSymbols
}

// NewSpinner creates a Spinner writing to out.
func NewSpinner(out *os.File, caps TerminalCapabilities) *Spinner {
	symbols := SelectSymbols(caps)
	return &Spinner{
		spin: spinner.New(spinner.CharSets[symbols.SpinnerSet], 100*time.Millisecond,
			spinner.WithWriterFile(out),
			spinner.WithHiddenCursor(caps.IsTTY)),
		out:     out,
		caps:    caps,
		symbols: symbols,
	}
}

// Start begins animating with msg as the status text.
func (s *Spinner) Start(msg string) {
	s.Update(msg)
	if s.caps.IsTTY {
		s.spin.Start()
	}
}

// Update replaces the status text.
func (s *Spinner) Update(msg string) {
	s.spin.Lock()
	s.spin.Suffix = " " + msg
	s.spin.Unlock()
}

// Counter returns a callback that shows "label done/total" on each call.
func (s *Spinner) Counter(label string) func(done, total int) {
	return func(done, total int) {
		s.Update(fmt.Sprintf("%s %d/%d", label, done, total))
	}
}

// Succeed stops the animation and prints msg with a checkmark.
func (s *Spinner) Succeed(msg string) {
	s.finish(s.symbols.Checkmark, okColor, msg)
}

// Fail stops the animation and prints msg with a failure mark.
func (s *Spinner) Fail(msg string) {
	s.finish(s.symbols.Failure, failColor, msg)
}

func (s *Spinner) finish(symbol string, c *color.Color, msg string) {
	s.spin.Stop()
	if s.caps.SupportsColor {
		symbol = c.Sprint(symbol)
	}
	fmt.Fprintf(s.out, "%s %s\n", symbol, msg)
}
