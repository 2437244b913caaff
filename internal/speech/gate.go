// Package speech turns reminder text into audio through whatever
// text-to-speech capability the host offers.
package speech

import (
	"log"
	"sync"
)

// DefaultLocale is the language reminders are spoken in.
const DefaultLocale = "ru-RU"

// EnabledPhrase is spoken right after audio is switched on.
const EnabledPhrase = "Аудио включено"

// Synthesizer is a platform speech capability.
type Synthesizer interface {
	// Available reports whether speech can be produced at all.
	Available() bool
	// Speak renders text asynchronously and calls done (if non-nil) when
	// playback finished or failed.
	Speak(text, locale string, done func(error))
	Close() error
}

// Gate speaks only after the user has explicitly enabled audio.
type Gate struct {
	synth  Synthesizer
	locale string

	mu       sync.Mutex
	enabled  bool
	speaking int
}

// NewGate creates a disabled Gate over synth. A nil synth behaves as Unavailable.
func NewGate(synth Synthesizer, locale string) *Gate {
	if synth == nil {
		synth = Unavailable{}
	}
	if locale == "" {
		locale = DefaultLocale
	}
	return &Gate{synth: synth, locale: locale}
}

// Enable switches audio on and confirms it out loud.
func (g *Gate) Enable() {
	g.mu.Lock()
	g.enabled = true
	g.mu.Unlock()

	g.Speak(EnabledPhrase)
}

// Disable switches audio off. Utterances already queued still finish.
func (g *Gate) Disable() {
	g.mu.Lock()
	g.enabled = false
	g.mu.Unlock()
}

// Enabled reports whether audio is on.
func (g *Gate) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

// Available reports whether the underlying capability can speak.
func (g *Gate) Available() bool {
	return g.synth.Available()
}

// Speaking reports whether an utterance is in progress.
func (g *Gate) Speaking() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.speaking > 0
}

// Speak renders text if audio is enabled and supported, and silently
// skips it otherwise.
func (g *Gate) Speak(text string) {
	g.mu.Lock()
	enabled := g.enabled
	g.mu.Unlock()

	if !enabled || !g.synth.Available() {
		log.Printf("[speech] Speech synthesis unsupported or audio disabled, skipped: %q", text)
		return
	}

	g.mu.Lock()
	g.speaking++
	g.mu.Unlock()

	g.synth.Speak(text, g.locale, func(err error) {
		g.mu.Lock()
		g.speaking--
		g.mu.Unlock()

		if err != nil {
			log.Printf("[speech] Error: %v", err)
		}
	})
}

// Unavailable is the Synthesizer of a host without speech output.
type Unavailable struct{}

func (Unavailable) Available() bool { return false }

func (Unavailable) Speak(_, _ string, done func(error)) {
	if done != nil {
		done(nil)
	}
}

func (Unavailable) Close() error { return nil }
