package speech

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"sync"
)

// Placeholders substituted in command arguments.
const (
	PlaceholderText  = "{text}"
	PlaceholderVoice = "{voice}"
	PlaceholderLang  = "{lang}"
)

// ErrQueueFull is reported to done when too many utterances are pending.
var ErrQueueFull = errors.New("speech queue is full")

// ErrClosed is reported to done for utterances submitted after Close.
var ErrClosed = errors.New("speech synthesizer is closed")

// lookPath resolves command names; replaced in tests.
var lookPath = exec.LookPath

// runner executes one speech command to completion.
type runner func(ctx context.Context, path string, args []string) error

func execRunner(ctx context.Context, path string, args []string) error {
	out, err := exec.CommandContext(ctx, path, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s failed: %w: %s", path, err, strings.TrimSpace(string(out)))
	}
	return nil
}

type utterance struct {
	text   string
	locale string
	done   func(error)
}

// Command speaks through an external text-to-speech program such as
// espeak-ng. Utterances are played one after another, in order.
type Command struct {
	name  string
	path  string
	args  []string
	voice string
	run   runner

	queue  chan utterance
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

// CommandOptions configures NewCommand.
type CommandOptions struct {
	// Args may contain {text}, {voice} and {lang}; "--" and the text are
	// appended when {text} is absent.
	Args      []string
	Voice     string
	QueueSize int
}

// NewCommand resolves name on PATH. When it cannot be found the returned
// Command reports itself unavailable.
func NewCommand(name string, opts CommandOptions) *Command {
	return newCommand(name, opts, execRunner)
}

func newCommand(name string, opts CommandOptions, run runner) *Command {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 32
	}

	path, err := lookPath(name)
	if err != nil {
		path = ""
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Command{
		name:   name,
		path:   path,
		args:   opts.Args,
		voice:  opts.Voice,
		run:    run,
		queue:  make(chan utterance, opts.QueueSize),
		ctx:    ctx,
		cancel: cancel,
	}

	if c.path != "" {
		c.wg.Add(1)
		go c.worker()
	}
	return c
}

// Name returns the configured program name.
func (c *Command) Name() string {
	return c.name
}

// Available reports whether the program was found.
func (c *Command) Available() bool {
	return c.path != ""
}

// Speak queues text for playback.
func (c *Command) Speak(text, locale string, done func(error)) {
	if done == nil {
		done = func(error) {}
	}
	if !c.Available() {
		done(fmt.Errorf("speech command %q not found", c.name))
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		done(ErrClosed)
		return
	}

	select {
	case c.queue <- utterance{text: text, locale: locale, done: done}:
	default:
		done(ErrQueueFull)
	}
}

// Close stops playback and waits for the worker to exit.
func (c *Command) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	close(c.queue)
	c.mu.Unlock()

	c.cancel()
	c.wg.Wait()
	return nil
}

func (c *Command) worker() {
	defer c.wg.Done()

	for u := range c.queue {
		if c.ctx.Err() != nil {
			u.done(ErrClosed)
			continue
		}
		u.done(c.run(c.ctx, c.path, c.buildArgs(u.text, u.locale)))
	}
}

func (c *Command) buildArgs(text, locale string) []string {
	voice := c.voice
	if voice == "" {
		voice = languageOf(locale)
	}

	args := make([]string, 0, len(c.args)+1)
	hasText := false
	for _, a := range c.args {
		if strings.Contains(a, PlaceholderText) {
			hasText = true
		}
		a = strings.ReplaceAll(a, PlaceholderText, text)
		a = strings.ReplaceAll(a, PlaceholderVoice, voice)
		a = strings.ReplaceAll(a, PlaceholderLang, languageOf(locale))
		args = append(args, a)
	}
	if !hasText {
		args = append(args, "--", text)
	}
	return args
}

// languageOf turns "ru-RU" into "ru".
func languageOf(locale string) string {
	lang, _, _ := strings.Cut(locale, "-")
	return strings.ToLower(lang)
}
