package repl

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/chzyer/readline"

	"github.com/notexe/voice-reminder/internal/config"
	"github.com/notexe/voice-reminder/internal/reminder"
	"github.com/notexe/voice-reminder/internal/scheduler"
	"github.com/notexe/voice-reminder/internal/session"
	"github.com/notexe/voice-reminder/internal/speech"
	"github.com/notexe/voice-reminder/internal/ui"
)

// REPL is the reminder console. It owns the announcer and the blinker.
type REPL struct {
	store     *session.Store
	gate      *speech.Gate
	config    *config.Config
	announcer *scheduler.Announcer
	blinker   *scheduler.Blinker
	formatter *ui.Formatter
	status    *ui.StatusDisplay
	transport string

	rl *readline.Instance

	outMu sync.Mutex
	out   io.Writer

	mu          sync.Mutex
	highlightID int64
	quick       []string
	pick        func(title string, options []string) (int, error)
}

// Options carries the scheduler hooks used by tests.
type Options struct {
	Transport string
	Out       io.Writer
	NewTicker scheduler.TickerFunc
}

func NewREPL(store *session.Store, gate *speech.Gate, cfg *config.Config, opts Options) *REPL {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	formatter := ui.NewFormatter(cfg.UI.ColoredOutput)

	r := &REPL{
		store:     store,
		gate:      gate,
		config:    cfg,
		formatter: formatter,
		transport: opts.Transport,
		out:       opts.Out,
		quick:     append([]string(nil), QuickList...),
	}
	r.status = ui.NewStatusDisplay(formatter, r, cfg.UI.ColoredOutput)
	r.pick = func(title string, options []string) (int, error) {
		return ui.NewPicker(title, options, cfg.UI.ColoredOutput).Run()
	}

	r.announcer = scheduler.NewAnnouncer(store.View, gate, scheduler.AnnouncerOptions{
		Interval:   cfg.Announce.Interval(),
		OnAnnounce: r.onAnnounce,
		NewTicker:  opts.NewTicker,
	})
	r.blinker = scheduler.NewBlinker(scheduler.BlinkerOptions{
		Interval:  cfg.Alert.Interval(),
		OnToggle:  r.onToggle,
		NewTicker: opts.NewTicker,
	})

	return r
}

// Start runs the read loop until EOF, /quit or Stop.
func (r *REPL) Start(ctx context.Context) error {
	rl, err := setupReadline(r.formatter.FormatPrompt(false))
	if err != nil {
		return fmt.Errorf("failed to setup readline: %w", err)
	}
	defer rl.Close()

	r.outMu.Lock()
	r.rl = rl
	r.out = rl.Stdout()
	r.outMu.Unlock()

	r.displayWelcome()
	if r.config.Alert.Enabled {
		r.blinker.Enable()
	}
	if r.config.Announce.Autostart {
		r.announcer.Start()
	}
	r.displayList()

	for {
		input, err := r.readInput()
		if err != nil {
			if isEOF(err) {
				r.println("\nДо свидания!")
				return nil
			}
			return fmt.Errorf("failed to read input: %w", err)
		}

		if input == "" {
			continue
		}

		if quit := r.HandleLine(ctx, input); quit {
			return nil
		}
	}
}

// Stop interrupts a running read loop.
func (r *REPL) Stop() {
	r.outMu.Lock()
	rl := r.rl
	r.outMu.Unlock()

	if rl != nil {
		rl.Close()
	}
}

// Close stops the announcer and the blinker for good.
func (r *REPL) Close() {
	r.announcer.Close()
	r.blinker.Close()
}

// HandleLine executes one line of input and reports whether the console
// should exit.
func (r *REPL) HandleLine(ctx context.Context, input string) bool {
	isCommand, command, args := r.parseCommand(input)
	if !isCommand {
		if err := r.addReminder(ctx, input); err != nil {
			r.displayError(err)
		}
		return false
	}

	if command == "/quit" || command == "/exit" || command == "/q" {
		r.println("До свидания!")
		return true
	}

	if err := r.handleCommand(ctx, command, args); err != nil {
		r.displayError(err)
	}
	return false
}

// Write sends async-safe output to the console.
func (r *REPL) Write(p []byte) (int, error) {
	r.outMu.Lock()
	defer r.outMu.Unlock()
	return r.out.Write(p)
}

func (r *REPL) onAnnounce(_ int, rem reminder.Reminder) {
	r.mu.Lock()
	r.highlightID = rem.ID
	r.mu.Unlock()

	r.println(r.formatter.FormatAnnouncement(rem.Text))
}

func (r *REPL) onToggle(c scheduler.Color) {
	r.outMu.Lock()
	rl := r.rl
	r.outMu.Unlock()

	if rl == nil {
		return
	}
	rl.SetPrompt(r.formatter.FormatPrompt(c == scheduler.ColorAlert))
	rl.Refresh()
}

func (r *REPL) highlighted() int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.highlightID
}
