// Package session holds the in-memory reminder list of one console session
// and keeps it in step with the persistence gateway.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/notexe/voice-reminder/internal/reminder"
)

// Gateway is the durable copy of the reminder list.
type Gateway interface {
	Create(ctx context.Context, text string) (int64, error)
	List(ctx context.Context) ([]reminder.Reminder, error)
	SetDone(ctx context.Context, id int64, done bool) error
	Delete(ctx context.Context, id int64) error
}

// Speaker announces text. speech.Gate implements it.
type Speaker interface {
	Speak(text string)
}

// Order selects how SortedView arranges reminders.
type Order string

const (
	OrderInsertion Order = ""
	OrderDate      Order = "date"
	OrderStatus    Order = "status"
)

// ParseOrder converts a user-supplied order name.
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case OrderDate, OrderStatus:
		return o, nil
	default:
		return OrderInsertion, fmt.Errorf("%w: unknown sort order %q (supported: %s, %s)",
			reminder.ErrValidation, s, OrderDate, OrderStatus)
	}
}

// DefaultConfirmation is spoken after a reminder is added: interval seconds, then text.
const DefaultConfirmation = "Хорошо, я буду напоминать вам каждые %d секунд %s"

// Options configures a Store.
type Options struct {
	SortingEnabled   bool
	NotesEnabled     bool
	Order            Order
	AnnounceInterval time.Duration
	Confirmation     string

	// CallTimeout bounds every gateway round trip. Zero means no deadline
	// beyond the caller's context.
	CallTimeout time.Duration

	// OnChange receives a copy of the state after every successful change.
	// It runs outside the store lock.
	OnChange func(Snapshot)

	// Now overrides the clock used for CreatedAt.
	Now func() time.Time
}

// Snapshot is a consistent copy of the store state.
type Snapshot struct {
	Reminders      []reminder.Reminder
	CheckboxCount  int
	CompletedCount int
}

// Store owns the session's reminder list and its derived counters.
type Store struct {
	gateway Gateway
	speaker Speaker
	opts    Options

	// opMu serialises mutating operations so at most one gateway call is
	// in flight and nothing is applied before it returns.
	opMu sync.Mutex

	mu             sync.RWMutex
	reminders      []reminder.Reminder
	checkboxCount  int
	completedCount int
	order          Order
}

// NewStore creates an empty store. speaker may be nil.
func NewStore(gateway Gateway, speaker Speaker, opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Confirmation == "" {
		opts.Confirmation = DefaultConfirmation
	}
	if opts.AnnounceInterval <= 0 {
		opts.AnnounceInterval = 5 * time.Second
	}
	return &Store{
		gateway: gateway,
		speaker: speaker,
		opts:    opts,
		order:   opts.Order,
	}
}

// Load replaces the list with the gateway's copy.
func (s *Store) Load(ctx context.Context) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	list, err := s.gateway.List(callCtx)
	if err != nil {
		return persistenceError("load reminders", err)
	}

	s.commit(func() {
		s.reminders = slices.Clone(list)
		s.completedCount = 0
		for _, r := range s.reminders {
			if r.Done {
				s.completedCount++
			}
		}
	})
	log.Printf("[store] Loaded %d reminders", len(list))
	return nil
}

// Add persists a new reminder and appends it once the gateway confirms.
func (s *Store) Add(ctx context.Context, text string) (reminder.Reminder, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return reminder.Reminder{}, fmt.Errorf("%w: reminder text is empty", reminder.ErrValidation)
	}

	s.opMu.Lock()
	callCtx, cancel := s.callContext(ctx)
	id, err := s.gateway.Create(callCtx, text)
	cancel()
	if err != nil {
		s.opMu.Unlock()
		return reminder.Reminder{}, persistenceError("create reminder", err)
	}

	r := reminder.Reminder{
		ID:        id,
		Text:      text,
		CreatedAt: s.opts.Now(),
	}
	s.commit(func() { s.applyAppend(r) })
	s.opMu.Unlock()

	if s.speaker != nil {
		s.speaker.Speak(fmt.Sprintf(s.opts.Confirmation, int(s.opts.AnnounceInterval/time.Second), text))
	}
	return r, nil
}

// ToggleDone flips the done flag of the reminder with the given id.
func (s *Store) ToggleDone(ctx context.Context, id int64) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	current, ok := s.Find(id)
	if !ok {
		return notFound(id)
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	if err := s.gateway.SetDone(callCtx, id, !current.Done); err != nil {
		return persistenceError("update reminder", err)
	}

	s.commit(func() { s.applyToggle(id) })
	return nil
}

// Remove deletes the reminder with the given id.
func (s *Store) Remove(ctx context.Context, id int64) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if _, ok := s.Find(id); !ok {
		return notFound(id)
	}

	callCtx, cancel := s.callContext(ctx)
	defer cancel()

	if err := s.gateway.Delete(callCtx, id); err != nil {
		return persistenceError("delete reminder", err)
	}

	s.commit(func() { s.applyRemove(id) })
	return nil
}

// AttachNote sets the local note of a reminder. Notes are not persisted.
func (s *Store) AttachNote(id int64, note string) error {
	if !s.opts.NotesEnabled {
		return fmt.Errorf("%w: notes are disabled", reminder.ErrValidation)
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	if _, ok := s.Find(id); !ok {
		return notFound(id)
	}

	s.commit(func() {
		if i := s.indexOf(id); i >= 0 {
			s.reminders[i].Note = strings.TrimSpace(note)
		}
	})
	return nil
}

// SortedView returns a sorted copy of the list. Stored order is untouched.
func (s *Store) SortedView(order Order) []reminder.Reminder {
	s.mu.RLock()
	view := slices.Clone(s.reminders)
	s.mu.RUnlock()

	if !s.opts.SortingEnabled {
		return view
	}

	switch order {
	case OrderDate:
		slices.SortStableFunc(view, func(a, b reminder.Reminder) int {
			return b.CreatedAt.Compare(a.CreatedAt)
		})
	case OrderStatus:
		slices.SortStableFunc(view, func(a, b reminder.Reminder) int {
			return boolRank(a.Done) - boolRank(b.Done)
		})
	}
	return view
}

// SetOrder changes the display order used by View.
func (s *Store) SetOrder(order Order) {
	s.mu.Lock()
	s.order = order
	s.mu.Unlock()
}

// Order returns the display order.
func (s *Store) Order() Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order
}

// View returns the list in display order.
func (s *Store) View() []reminder.Reminder {
	return s.SortedView(s.Order())
}

// Find returns a copy of the reminder with the given id.
func (s *Store) Find(id int64) (reminder.Reminder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i := s.indexOf(id); i >= 0 {
		return s.reminders[i], true
	}
	return reminder.Reminder{}, false
}

// Len returns the number of reminders.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.reminders)
}

// Snapshot returns a consistent copy of the list and counters.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

// CheckConsistency reports an error when the derived counter disagrees
// with the done flags.
func (s *Store) CheckConsistency() error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	done := 0
	for _, r := range s.reminders {
		if r.Done {
			done++
		}
	}
	if done != s.completedCount {
		return fmt.Errorf("completed count %d does not match %d done reminders", s.completedCount, done)
	}
	return nil
}

func (s *Store) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.opts.CallTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, s.opts.CallTimeout)
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Reminders:      slices.Clone(s.reminders),
		CheckboxCount:  s.checkboxCount,
		CompletedCount: s.completedCount,
	}
}

// commit runs one state transition under the write lock, then notifies.
func (s *Store) commit(transition func()) {
	s.mu.Lock()
	transition()
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if s.opts.OnChange != nil {
		s.opts.OnChange(snap)
	}
}

func (s *Store) applyAppend(r reminder.Reminder) {
	s.reminders = append(s.reminders, r)
	if r.Done {
		s.completedCount++
	}
}

func (s *Store) applyToggle(id int64) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	s.reminders[i].Done = !s.reminders[i].Done
	if s.reminders[i].Done {
		s.completedCount++
	} else {
		s.completedCount--
	}
	s.checkboxCount++
}

func (s *Store) applyRemove(id int64) {
	i := s.indexOf(id)
	if i < 0 {
		return
	}
	if s.reminders[i].Done {
		s.completedCount--
	}
	s.reminders = slices.Delete(s.reminders, i, i+1)
}

func (s *Store) indexOf(id int64) int {
	return slices.IndexFunc(s.reminders, func(r reminder.Reminder) bool { return r.ID == id })
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}

func notFound(id int64) error {
	return fmt.Errorf("%w: %d", reminder.ErrNotFound, id)
}

func persistenceError(op string, err error) error {
	if errors.Is(err, reminder.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %w", op, reminder.ErrPersistence, err)
}
