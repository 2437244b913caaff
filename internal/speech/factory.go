package speech

import (
	"fmt"
	"log"

	"github.com/notexe/voice-reminder/internal/config"
)

// knownCommands lists the programs probed by the auto backend, in order,
// with the arguments each one needs. "--" ends option parsing so reminder
// text starting with a dash is spoken, not parsed.
var knownCommands = []struct {
	name string
	args []string
}{
	{"espeak-ng", []string{"-v", PlaceholderVoice, "--", PlaceholderText}},
	{"espeak", []string{"-v", PlaceholderVoice, "--", PlaceholderText}},
	{"spd-say", []string{"-w", "-l", PlaceholderLang, "--", PlaceholderText}},
	{"say", []string{"--", PlaceholderText}},
}

// New creates the Synthesizer selected by the configuration.
func New(cfg config.SpeechConfig) (Synthesizer, error) {
	opts := CommandOptions{
		Args:      cfg.Args,
		Voice:     cfg.Voice,
		QueueSize: cfg.QueueSize,
	}

	switch cfg.Backend {
	case config.SpeechNone:
		return Unavailable{}, nil

	case config.SpeechCommand:
		if cfg.Command == "" {
			return nil, fmt.Errorf("speech.command is required for the %s backend", config.SpeechCommand)
		}
		c := NewCommand(cfg.Command, opts)
		if !c.Available() {
			log.Printf("[speech] Command %q not found, audio will be skipped", cfg.Command)
		}
		return c, nil

	case config.SpeechAuto:
		for _, known := range knownCommands {
			if _, err := lookPath(known.name); err != nil {
				continue
			}
			if len(opts.Args) == 0 {
				opts.Args = known.args
			}
			log.Printf("[speech] Using %s", known.name)
			return NewCommand(known.name, opts), nil
		}
		log.Printf("[speech] No speech program found, audio will be skipped")
		return Unavailable{}, nil

	default:
		return nil, fmt.Errorf("unknown speech backend: %s (supported: %s, %s, %s)",
			cfg.Backend, config.SpeechAuto, config.SpeechCommand, config.SpeechNone)
	}
}
