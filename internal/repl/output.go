package repl

import (
	"fmt"
)

func (r *REPL) println(s string) {
	fmt.Fprintln(r, s)
}

func (r *REPL) displayError(err error) {
	r.status.Hide()
	r.println(r.formatter.FormatError(err))
}

func (r *REPL) displayInfo(msg string) {
	r.println(r.formatter.FormatInfo(msg))
}

func (r *REPL) displaySystem(msg string) {
	r.println(r.formatter.FormatSystem(msg))
}

func (r *REPL) displaySuccess(msg string) {
	r.println(r.formatter.FormatSuccess(msg))
}

func (r *REPL) displayWelcome() {
	r.println(r.formatter.FormatWelcome(r.transport, r.gate.Available()))
}

func (r *REPL) displayHelp() {
	fmt.Fprint(r, r.formatter.FormatHelp())
}

// displayList prints the reminders in display order, the completed
// section and, while speech is off, the audio hint.
func (r *REPL) displayList() {
	r.println(r.formatter.FormatReminderList(r.store.View(), r.highlighted()))
	r.println(r.formatter.FormatCompleted(r.store.Snapshot()))
	if !r.gate.Enabled() {
		r.println(r.formatter.FormatAudioHint())
	}
}
