package scheduler

import (
	"sync"
	"time"

	"github.com/notexe/voice-reminder/internal/reminder"
)

// DefaultAnnounceInterval is the cadence used when none is configured.
const DefaultAnnounceInterval = 5 * time.Second

// Speaker renders text as speech.
type Speaker interface {
	Speak(text string)
}

// Source returns the reminder list as currently displayed.
type Source func() []reminder.Reminder

// AnnouncerOptions configures an Announcer.
type AnnouncerOptions struct {
	Interval time.Duration

	// OnAnnounce is called for every reminder spoken, with its position in
	// the source list.
	OnAnnounce func(index int, r reminder.Reminder)

	NewTicker TickerFunc
}

// Announcer speaks every undone reminder on each tick while active.
// It only reads the source; done flags are never touched.
type Announcer struct {
	source  Source
	speaker Speaker
	opts    AnnouncerOptions
	loop    *loop

	mu      sync.Mutex
	current int
}

// NewAnnouncer creates an inactive Announcer.
func NewAnnouncer(source Source, speaker Speaker, opts AnnouncerOptions) *Announcer {
	if opts.Interval <= 0 {
		opts.Interval = DefaultAnnounceInterval
	}
	a := &Announcer{
		source:  source,
		speaker: speaker,
		opts:    opts,
		current: -1,
	}
	a.loop = newLoop("announcer", opts.Interval, opts.NewTicker, a.fire)
	return a
}

// Start begins announcing. Calling it while active does nothing.
func (a *Announcer) Start() {
	a.loop.start()
}

// Stop cancels announcing. Calling it while inactive does nothing.
func (a *Announcer) Stop() {
	a.loop.stop()
}

// Close stops the announcer permanently.
func (a *Announcer) Close() {
	a.loop.close()
}

// Active reports whether announcements are running.
func (a *Announcer) Active() bool {
	return a.loop.isRunning()
}

// Interval returns the announcement cadence.
func (a *Announcer) Interval() time.Duration {
	return a.opts.Interval
}

// CurrentIndex returns the position of the most recently announced reminder.
func (a *Announcer) CurrentIndex() (int, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current, a.current >= 0
}

func (a *Announcer) fire() {
	for i, r := range a.source() {
		if r.Done {
			continue
		}
		a.speaker.Speak(r.Text)

		a.mu.Lock()
		a.current = i
		a.mu.Unlock()

		if a.opts.OnAnnounce != nil {
			a.opts.OnAnnounce(i, r)
		}
	}
}
