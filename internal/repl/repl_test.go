package repl

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notexe/voice-reminder/internal/config"
	"github.com/notexe/voice-reminder/internal/reminder"
	"github.com/notexe/voice-reminder/internal/session"
	"github.com/notexe/voice-reminder/internal/speech"
	"github.com/notexe/voice-reminder/internal/ui"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

type recordingSynth struct {
	mu     sync.Mutex
	spoken []string
}

func (s *recordingSynth) Available() bool { return true }

func (s *recordingSynth) Speak(text, _ string, done func(error)) {
	s.mu.Lock()
	s.spoken = append(s.spoken, text)
	s.mu.Unlock()
	if done != nil {
		done(nil)
	}
}

func (s *recordingSynth) Close() error { return nil }

func (s *recordingSynth) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}

// tickers hands out one controllable channel per interval.
type tickers struct {
	mu sync.Mutex
	ch map[time.Duration]chan time.Time
}

func (t *tickers) factory(d time.Duration) (<-chan time.Time, func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	c := make(chan time.Time)
	t.ch[d] = c
	return c, func() {}
}

func (t *tickers) tick(d time.Duration) {
	t.mu.Lock()
	c := t.ch[d]
	t.mu.Unlock()
	c <- time.Now()
}

type fixture struct {
	repl    *REPL
	out     *syncBuffer
	db      *reminder.DB
	store   *session.Store
	synth   *recordingSynth
	tickers *tickers
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.UI.ColoredOutput = false

	db, err := reminder.OpenDB(filepath.Join(t.TempDir(), "reminders.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	synth := &recordingSynth{}
	gate := speech.NewGate(synth, cfg.Speech.Locale)
	store := session.NewStore(db, gate, session.Options{
		SortingEnabled:   cfg.Features.Sorting,
		NotesEnabled:     cfg.Features.Notes,
		AnnounceInterval: cfg.Announce.Interval(),
	})

	out := &syncBuffer{}
	tk := &tickers{ch: map[time.Duration]chan time.Time{}}
	r := NewREPL(store, gate, cfg, Options{Transport: "local", Out: out, NewTicker: tk.factory})
	t.Cleanup(r.Close)

	return &fixture{repl: r, out: out, db: db, store: store, synth: synth, tickers: tk}
}

func (f *fixture) run(t *testing.T, lines ...string) string {
	t.Helper()
	f.out.Reset()
	for _, line := range lines {
		assert.False(t, f.repl.HandleLine(context.Background(), line), line)
	}
	return f.out.String()
}

func TestPlainTextAddsReminder(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, "Выпить воды")
	assert.Contains(t, out, "Добавлено: Выпить воды")
	assert.Contains(t, out, "Включите звук")

	stored, err := f.db.List(context.Background())
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "Выпить воды", stored[0].Text)
}

func TestBlankAddIsRejected(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, "/add    ")
	assert.Contains(t, out, "Ошибка:")
	assert.Equal(t, 0, f.store.Len())
}

func TestDoneAndList(t *testing.T) {
	f := newFixture(t)
	f.run(t, "Выпить воды", "Размяться")

	out := f.run(t, "/done 1")
	assert.Contains(t, out, "Общее количество выполненных дел: 1")
	assert.Contains(t, out, "Выполненные дела:")

	snap := f.store.Snapshot()
	assert.Equal(t, 1, snap.CompletedCount)
	assert.Equal(t, 1, snap.CheckboxCount)
}

func TestRemoveByNumber(t *testing.T) {
	f := newFixture(t)
	f.run(t, "Выпить воды")

	out := f.run(t, "/rm 5")
	assert.Contains(t, out, "нет напоминания с номером 5")

	out = f.run(t, "/rm 1")
	assert.Contains(t, out, "Удалено: Выпить воды")
	assert.Equal(t, 0, f.store.Len())
}

func TestNoteIsShownInList(t *testing.T) {
	f := newFixture(t)
	f.run(t, "Позвонить другу")

	out := f.run(t, "/note 1 вечером", "/list")
	assert.Contains(t, out, "Заметка: вечером")
}

func TestSortStatusPutsUndoneFirst(t *testing.T) {
	f := newFixture(t)
	f.run(t, "A", "B", "/sort date")
	// date order shows the newest first; B is number 1
	f.run(t, "/done 2")

	f.run(t, "/sort status")
	view := f.store.View()
	require.Len(t, view, 2)
	assert.Equal(t, "B", view[0].Text)
	assert.True(t, view[1].Done)

	out := f.run(t, "/sort name")
	assert.Contains(t, out, "usage: /sort")
}

func TestBundleByNumberAndPicker(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, "/bundle 1")
	assert.Contains(t, out, "добавлено 4 из 4")
	assert.Equal(t, 4, f.store.Len())

	f.repl.pick = func(string, []string) (int, error) { return 4, nil }
	f.run(t, "/bundle")
	assert.Equal(t, 8, f.store.Len())

	f.repl.pick = func(string, []string) (int, error) { return -1, ui.ErrCancelled }
	out = f.run(t, "/bundle")
	assert.Contains(t, out, "Выбор отменён")
	assert.Equal(t, 8, f.store.Len())

	out = f.run(t, "/bundle Утренняя рутина")
	assert.Contains(t, out, "добавлено 10 из 10")

	out = f.run(t, "/bundle Отпуск")
	assert.Contains(t, out, "неизвестный набор")
}

func TestQuickList(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, "/quick")
	assert.Contains(t, out, " 1. Выпить воды")
	assert.Contains(t, out, "20. Выход на работу")

	f.run(t, "/quick 3")
	view := f.store.View()
	require.Len(t, view, 1)
	assert.Equal(t, "Размяться", view[0].Text)

	f.run(t, "/quick + Полить цветы", "/quick 21")
	assert.Equal(t, 2, f.store.Len())

	out = f.run(t, "/quick 99")
	assert.Contains(t, out, "нет задания")
	assert.Len(t, QuickList, 20)
}

func TestAudioEnablesSpeech(t *testing.T) {
	f := newFixture(t)

	f.run(t, "/audio")
	f.run(t, "Выпить воды")

	assert.Equal(t, []string{
		speech.EnabledPhrase,
		"Хорошо, я буду напоминать вам каждые 5 секунд Выпить воды",
	}, f.synth.Spoken())

	out := f.run(t, "/list")
	assert.NotContains(t, out, "Включите звук")
}

func TestStartAnnouncesUndone(t *testing.T) {
	f := newFixture(t)
	f.run(t, "Выпить воды", "Размяться", "/done 2", "/audio")

	out := f.run(t, "/start")
	assert.Contains(t, out, "каждые 5 секунд")

	f.tickers.tick(5 * time.Second)
	assert.Eventually(t, func() bool {
		return strings.Contains(f.out.String(), "🔊 Выпить воды")
	}, time.Second, 5*time.Millisecond)
	assert.NotContains(t, f.out.String(), "🔊 Размяться")
	assert.NotZero(t, f.repl.highlighted())

	out = f.run(t, "/stop")
	assert.Contains(t, out, "остановлены")
}

func TestBlinkCommand(t *testing.T) {
	f := newFixture(t)

	f.run(t, "/blink on")
	assert.True(t, f.repl.blinker.Enabled())

	f.run(t, "/blink off")
	assert.False(t, f.repl.blinker.Enabled())

	out := f.run(t, "/blink maybe")
	assert.Contains(t, out, "usage: /blink")
}

func TestQuitAndUnknownCommand(t *testing.T) {
	f := newFixture(t)

	out := f.run(t, "/frobnicate")
	assert.Contains(t, out, "неизвестная команда")

	assert.True(t, f.repl.HandleLine(context.Background(), "/quit"))
}

func TestParseCommand(t *testing.T) {
	r := &REPL{}

	isCmd, cmd, args := r.parseCommand("/NOTE 2  купить хлеб ")
	assert.True(t, isCmd)
	assert.Equal(t, "/note", cmd)
	assert.Equal(t, "2  купить хлеб", args)

	isCmd, _, _ = r.parseCommand("Выпить воды")
	assert.False(t, isCmd)
}
