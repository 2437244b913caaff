package scheduler

import (
	"sync"
	"time"
)

// DefaultBlinkInterval is the toggle period used when none is configured.
const DefaultBlinkInterval = time.Second

// Color is the background state driven by the Blinker.
type Color string

const (
	ColorNormal Color = "normal"
	ColorAlert  Color = "alert"
)

// BlinkerOptions configures a Blinker.
type BlinkerOptions struct {
	Interval time.Duration

	// OnToggle receives the new color after every change.
	OnToggle func(Color)

	NewTicker TickerFunc
}

// Blinker alternates the background color between normal and alert.
type Blinker struct {
	opts BlinkerOptions
	loop *loop

	mu    sync.Mutex
	color Color
}

// NewBlinker creates a disabled Blinker showing the normal color.
func NewBlinker(opts BlinkerOptions) *Blinker {
	if opts.Interval <= 0 {
		opts.Interval = DefaultBlinkInterval
	}
	b := &Blinker{
		opts:  opts,
		color: ColorNormal,
	}
	b.loop = newLoop("blinker", opts.Interval, opts.NewTicker, b.toggle)
	return b
}

// Enable starts toggling from the normal color.
func (b *Blinker) Enable() {
	if b.loop.isRunning() {
		return
	}
	b.setColor(ColorNormal)
	b.loop.start()
}

// Disable stops toggling and always restores the normal color.
func (b *Blinker) Disable() {
	b.loop.stop()
	b.setColor(ColorNormal)
}

// Close disables the blinker permanently.
func (b *Blinker) Close() {
	b.loop.close()
	b.setColor(ColorNormal)
}

// Enabled reports whether the blinker is toggling.
func (b *Blinker) Enabled() bool {
	return b.loop.isRunning()
}

// Color returns the current background color.
func (b *Blinker) Color() Color {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.color
}

func (b *Blinker) toggle() {
	b.mu.Lock()
	if b.color == ColorNormal {
		b.color = ColorAlert
	} else {
		b.color = ColorNormal
	}
	c := b.color
	b.mu.Unlock()

	if b.opts.OnToggle != nil {
		b.opts.OnToggle(c)
	}
}

func (b *Blinker) setColor(c Color) {
	b.mu.Lock()
	changed := b.color != c
	b.color = c
	b.mu.Unlock()

	if changed && b.opts.OnToggle != nil {
		b.opts.OnToggle(c)
	}
}
