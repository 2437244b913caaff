package ui

import (
	"fmt"
	"io"
)

// StatusDisplay shows a transient single-line status, e.g. while a
// gateway call is in flight.
type StatusDisplay struct {
	formatter *Formatter
	out       io.Writer
	enabled   bool
}

func NewStatusDisplay(formatter *Formatter, out io.Writer, enabled bool) *StatusDisplay {
	return &StatusDisplay{
		formatter: formatter,
		out:       out,
		enabled:   enabled,
	}
}

func (s *StatusDisplay) Show(message string) {
	if !s.enabled {
		return
	}

	fmt.Fprint(s.out, "\r\033[K")
	fmt.Fprint(s.out, s.formatter.FormatStatus(message))
}

func (s *StatusDisplay) Hide() {
	if !s.enabled {
		return
	}

	fmt.Fprint(s.out, "\r\033[K")
}

func (s *StatusDisplay) Update(message string) {
	if !s.enabled {
		return
	}

	s.Hide()
	s.Show(message)
}
