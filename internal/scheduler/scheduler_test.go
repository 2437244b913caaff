package scheduler

import (
	"sync"
	"testing"
	"time"

	"github.com/notexe/voice-reminder/internal/reminder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const waitTimeout = 2 * time.Second

// manualTicker hands out one tick channel per start and records releases.
type manualTicker struct {
	mu       sync.Mutex
	c        chan time.Time
	released int
	interval time.Duration
}

func (m *manualTicker) factory(d time.Duration) (<-chan time.Time, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c = make(chan time.Time)
	m.interval = d
	return m.c, func() {
		m.mu.Lock()
		m.released++
		m.mu.Unlock()
	}
}

// tick delivers one tick and fails the test if no loop receives it.
func (m *manualTicker) tick(t *testing.T) {
	t.Helper()
	m.mu.Lock()
	c := m.c
	m.mu.Unlock()
	select {
	case c <- time.Now():
	case <-time.After(waitTimeout):
		t.Fatal("tick was not received")
	}
}

// assertNoReceiver checks that nothing consumes ticks any more.
func (m *manualTicker) assertNoReceiver(t *testing.T) {
	t.Helper()
	m.mu.Lock()
	c := m.c
	m.mu.Unlock()
	select {
	case c <- time.Now():
		t.Fatal("tick received after stop")
	case <-time.After(50 * time.Millisecond):
	}
}

func (m *manualTicker) releasedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.released
}

type chanSpeaker struct {
	texts chan string
}

func newChanSpeaker() *chanSpeaker {
	return &chanSpeaker{texts: make(chan string, 64)}
}

func (s *chanSpeaker) Speak(text string) { s.texts <- text }

func (s *chanSpeaker) next(t *testing.T) string {
	t.Helper()
	select {
	case text := <-s.texts:
		return text
	case <-time.After(waitTimeout):
		t.Fatal("nothing spoken")
		return ""
	}
}

func TestAnnouncerSpeaksOnlyUndone(t *testing.T) {
	list := []reminder.Reminder{
		{ID: 1, Text: "A"},
		{ID: 2, Text: "B", Done: true},
		{ID: 3, Text: "C"},
	}
	sp := newChanSpeaker()
	a := NewAnnouncer(func() []reminder.Reminder { return list }, sp, AnnouncerOptions{})

	for i := 0; i < 3; i++ {
		a.fire()
		assert.Equal(t, "A", sp.next(t))
		assert.Equal(t, "C", sp.next(t))
		assert.Empty(t, sp.texts)
	}

	idx, ok := a.CurrentIndex()
	assert.True(t, ok)
	assert.Equal(t, 2, idx)

	assert.False(t, list[0].Done)
	assert.True(t, list[1].Done)
	assert.False(t, list[2].Done)
}

func TestAnnouncerEmptyList(t *testing.T) {
	sp := newChanSpeaker()
	a := NewAnnouncer(func() []reminder.Reminder { return nil }, sp, AnnouncerOptions{})

	a.fire()

	assert.Empty(t, sp.texts)
	_, ok := a.CurrentIndex()
	assert.False(t, ok)
}

func TestAnnouncerSeesLatestSource(t *testing.T) {
	var mu sync.Mutex
	list := []reminder.Reminder{{ID: 1, Text: "A"}}
	source := func() []reminder.Reminder {
		mu.Lock()
		defer mu.Unlock()
		return append([]reminder.Reminder(nil), list...)
	}
	sp := newChanSpeaker()
	a := NewAnnouncer(source, sp, AnnouncerOptions{})

	a.fire()
	assert.Equal(t, "A", sp.next(t))

	mu.Lock()
	list = []reminder.Reminder{{ID: 2, Text: "B"}}
	mu.Unlock()

	a.fire()
	assert.Equal(t, "B", sp.next(t))
}

func TestAnnouncerLifecycle(t *testing.T) {
	mt := &manualTicker{}
	sp := newChanSpeaker()
	var announced []int
	var mu sync.Mutex
	a := NewAnnouncer(
		func() []reminder.Reminder { return []reminder.Reminder{{ID: 7, Text: "Выпить воды"}} },
		sp,
		AnnouncerOptions{
			NewTicker: mt.factory,
			OnAnnounce: func(i int, _ reminder.Reminder) {
				mu.Lock()
				announced = append(announced, i)
				mu.Unlock()
			},
		},
	)
	assert.False(t, a.Active())
	assert.Equal(t, DefaultAnnounceInterval, a.Interval())

	a.Start()
	a.Start() // idempotent
	require.True(t, a.Active())
	assert.Equal(t, DefaultAnnounceInterval, mt.interval)

	mt.tick(t)
	assert.Equal(t, "Выпить воды", sp.next(t))
	mt.tick(t)
	assert.Equal(t, "Выпить воды", sp.next(t))

	a.Stop()
	a.Stop() // idempotent
	assert.False(t, a.Active())
	assert.Equal(t, 1, mt.releasedCount())
	mt.assertNoReceiver(t)

	mu.Lock()
	assert.Equal(t, []int{0, 0}, announced)
	mu.Unlock()
}

func TestAnnouncerCloseIsFinal(t *testing.T) {
	mt := &manualTicker{}
	a := NewAnnouncer(func() []reminder.Reminder { return nil }, newChanSpeaker(), AnnouncerOptions{NewTicker: mt.factory})

	a.Start()
	a.Close()
	assert.False(t, a.Active())

	a.Start()
	assert.False(t, a.Active())
	assert.Equal(t, 1, mt.releasedCount())
}

func TestBlinkerAlternates(t *testing.T) {
	mt := &manualTicker{}
	colors := make(chan Color, 16)
	b := NewBlinker(BlinkerOptions{
		NewTicker: mt.factory,
		OnToggle:  func(c Color) { colors <- c },
	})
	assert.False(t, b.Enabled())
	assert.Equal(t, ColorNormal, b.Color())

	b.Enable()
	require.True(t, b.Enabled())
	assert.Equal(t, DefaultBlinkInterval, mt.interval)

	want := []Color{ColorAlert, ColorNormal, ColorAlert, ColorNormal, ColorAlert}
	for _, w := range want {
		mt.tick(t)
		select {
		case c := <-colors:
			assert.Equal(t, w, c)
		case <-time.After(waitTimeout):
			t.Fatal("no toggle")
		}
	}
	assert.Equal(t, ColorAlert, b.Color())

	b.Disable()
	assert.False(t, b.Enabled())
	assert.Equal(t, ColorNormal, b.Color())
	mt.assertNoReceiver(t)
	assert.Equal(t, ColorNormal, b.Color())
}

func TestBlinkerDisableInNormalPhase(t *testing.T) {
	mt := &manualTicker{}
	b := NewBlinker(BlinkerOptions{NewTicker: mt.factory})

	b.Enable()
	b.toggle()
	b.toggle()
	b.Disable()
	b.Disable()

	assert.Equal(t, ColorNormal, b.Color())
	assert.Equal(t, 1, mt.releasedCount())
}

func TestBlinkerEnableRestartsFromNormal(t *testing.T) {
	mt := &manualTicker{}
	b := NewBlinker(BlinkerOptions{NewTicker: mt.factory})

	b.Enable()
	mt.tick(t)
	b.Disable()

	b.Enable()
	assert.Equal(t, ColorNormal, b.Color())
	b.Close()
	assert.False(t, b.Enabled())
	assert.Equal(t, ColorNormal, b.Color())
}

func TestRealTickerLoopStops(t *testing.T) {
	var mu sync.Mutex
	count := 0
	l := newLoop("test", time.Millisecond, nil, func() {
		mu.Lock()
		count++
		mu.Unlock()
	})

	require.True(t, l.start())
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count >= 3
	}, waitTimeout, time.Millisecond)

	require.True(t, l.stop())
	mu.Lock()
	after := count
	mu.Unlock()

	time.Sleep(20 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, after, count)
	mu.Unlock()
}
