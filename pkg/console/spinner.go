package console

import (
	"time"

	"github.com/briandowns/spinner"
)

// Spinner shows progress for long operations. It stays silent when stdout
// is not a terminal, so command output remains pipeable.
type Spinner struct {
	spinner *spinner.Spinner
}

// NewSpinner creates a spinner with the given message. In a non-TTY
// context all methods are no-ops.
func NewSpinner(message string) *Spinner {
	s := &Spinner{}
	if isTTY() {
		s.spinner = spinner.New(spinner.CharSets[14], 100*time.Millisecond)
		s.spinner.Suffix = " " + message
		_ = s.spinner.Color("cyan")
	}
	return s
}

// Start begins the animation.
func (s *Spinner) Start() {
	if s.spinner != nil {
		s.spinner.Start()
	}
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	if s.spinner != nil {
		s.spinner.Stop()
	}
}

// UpdateMessage swaps the message next to the spinner.
func (s *Spinner) UpdateMessage(message string) {
	if s.spinner != nil {
		s.spinner.Suffix = " " + message
	}
}
