// Package scheduler runs the periodic parts of a reminder session: spoken
// announcements of undone reminders and the blinking alert color.
package scheduler

import (
	"log"
	"sync"
	"time"
)

// TickerFunc creates the tick source for a loop and returns the channel
// together with the function that releases it.
type TickerFunc func(d time.Duration) (<-chan time.Time, func())

// RealTicker is the TickerFunc backed by time.NewTicker.
func RealTicker(d time.Duration) (<-chan time.Time, func()) {
	t := time.NewTicker(d)
	return t.C, t.Stop
}

// loop calls tick on a fixed interval between start and stop.
type loop struct {
	name      string
	interval  time.Duration
	newTicker TickerFunc
	tick      func()

	mu      sync.Mutex
	running bool
	closed  bool
	stopCh  chan struct{}
	done    chan struct{}
}

func newLoop(name string, interval time.Duration, newTicker TickerFunc, tick func()) *loop {
	if newTicker == nil {
		newTicker = RealTicker
	}
	return &loop{
		name:      name,
		interval:  interval,
		newTicker: newTicker,
		tick:      tick,
	}
}

// start launches the loop goroutine. It reports false when the loop was
// already running or has been closed.
func (l *loop) start() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.running || l.closed {
		return false
	}

	l.running = true
	l.stopCh = make(chan struct{})
	l.done = make(chan struct{})

	c, release := l.newTicker(l.interval)
	go l.run(c, release, l.stopCh, l.done)

	log.Printf("[%s] Started. Interval: %s", l.name, l.interval)
	return true
}

// stop cancels the loop and waits for its goroutine to exit, so no tick
// runs after it returns. Must not be called from inside tick.
func (l *loop) stop() bool {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return false
	}
	l.running = false
	close(l.stopCh)
	done := l.done
	l.mu.Unlock()

	<-done
	log.Printf("[%s] Stopped.", l.name)
	return true
}

// close stops the loop for good; later starts are ignored.
func (l *loop) close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()

	l.stop()
}

func (l *loop) isRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

func (l *loop) run(c <-chan time.Time, release func(), stopCh, done chan struct{}) {
	defer close(done)
	defer release()

	for {
		select {
		case <-stopCh:
			return
		case <-c:
			// a stop that raced with the tick wins
			select {
			case <-stopCh:
				return
			default:
			}
			l.tick()
		}
	}
}
