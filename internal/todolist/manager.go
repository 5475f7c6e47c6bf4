// Package todolist owns the in-memory todo list and mirrors every change to a
// store.Adapter.
//
// A Manager is created once per session and handed to whatever renders the
// list. Renderers forward user intents (SetPendingInput, Commit,
// ToggleComplete, DeleteItem, DeleteAll) and read back through Items,
// PendingInput or a Subscribe callback. Each mutation ends with a full
// write of the snapshot; there is no batching.
package todolist

import (
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/idilsaglam/todolist/internal/model"
	"github.com/idilsaglam/todolist/internal/store"
)

// State is a settled copy of what a renderer displays.
type State struct {
	Items        []model.Item
	PendingInput string
}

type subscriber struct {
	id int
	fn func(State)
}

// Manager is the authoritative todo list for one session.
type Manager struct {
	mu          sync.Mutex
	adapter     store.Adapter
	logger      *log.Logger
	items       []model.Item
	pending     string
	initialized bool
	lastSyncErr error

	version uint64 // bumped on every published state, guarded by mu

	subMu  sync.Mutex
	subs   []subscriber
	nextID int

	// notifyMu orders deliveries; delivered is the newest version handed out
	notifyMu  sync.Mutex
	delivered uint64
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger; the default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// New returns a Manager over adapter. Call Initialize before use.
func New(adapter store.Adapter, opts ...Option) *Manager {
	m := &Manager{
		adapter: adapter,
		logger:  log.Default(),
		items:   []model.Item{},
	}
	for _, o := range opts {
		o(m)
	}
	m.logger = m.logger.With("component", "todolist")
	return m
}

// Initialize loads the stored snapshot. A missing or empty value starts an
// empty list. A value that cannot be decoded also starts an empty list and
// is reported as a *DataCorruptionError; a failing read is reported as a
// *store.StorageError. In both cases the Manager is usable afterwards.
func (m *Manager) Initialize() error {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return ErrInitialized
	}
	m.initialized = true
	err := m.load()
	st, v := m.stateLocked()
	m.mu.Unlock()

	m.notify(st, v)
	return err
}

func (m *Manager) load() error {
	m.items = []model.Item{}

	raw, ok, err := m.adapter.Load()
	if err != nil {
		m.logger.Error("load snapshot failed, starting empty", "err", err)
		return fmt.Errorf("load snapshot: %w", err)
	}
	if !ok || raw == "" {
		m.logger.Debug("no snapshot, starting empty")
		return nil
	}

	items, err := Decode(raw)
	if err != nil {
		m.logger.Warn("discarding corrupt snapshot, starting empty", "bytes", len(raw), "err", err)
		return &DataCorruptionError{Raw: raw, Err: err}
	}
	m.items = items
	m.logger.Debug("snapshot loaded", "items", len(items))
	return nil
}

// SetPendingInput replaces the uncommitted text. Nothing is persisted.
func (m *Manager) SetPendingInput(text string) {
	m.mu.Lock()
	m.pending = text
	st, v := m.stateLocked()
	m.mu.Unlock()

	m.notify(st, v)
}

// Commit appends the pending text as a new open item and clears it.
// Only the exact empty string is rejected; whitespace is a valid title.
// It reports whether an item was added.
func (m *Manager) Commit() bool {
	m.mu.Lock()
	if m.pending == "" {
		m.mu.Unlock()
		return false
	}
	m.items = append(m.items, model.Item{Text: m.pending, Completed: false})
	m.pending = ""
	m.sync()
	st, v := m.stateLocked()
	m.mu.Unlock()

	m.notify(st, v)
	return true
}

// ToggleComplete flips the completed flag of the item at index.
func (m *Manager) ToggleComplete(index int) error {
	m.mu.Lock()
	if err := m.checkIndex("toggle", index); err != nil {
		m.mu.Unlock()
		return err
	}
	m.items[index].Completed = !m.items[index].Completed
	m.sync()
	st, v := m.stateLocked()
	m.mu.Unlock()

	m.notify(st, v)
	return nil
}

// DeleteItem removes the item at index; later items shift down by one.
func (m *Manager) DeleteItem(index int) error {
	m.mu.Lock()
	if err := m.checkIndex("delete", index); err != nil {
		m.mu.Unlock()
		return err
	}
	m.items = append(m.items[:index:index], m.items[index+1:]...)
	m.sync()
	st, v := m.stateLocked()
	m.mu.Unlock()

	m.notify(st, v)
	return nil
}

// DeleteAll empties the list. It always writes, even if already empty.
func (m *Manager) DeleteAll() {
	m.mu.Lock()
	m.items = []model.Item{}
	m.sync()
	st, v := m.stateLocked()
	m.mu.Unlock()

	m.notify(st, v)
}

func (m *Manager) checkIndex(op string, index int) error {
	if index < 0 || index >= len(m.items) {
		err := &IndexError{Op: op, Index: index, Len: len(m.items)}
		m.logger.Error("rejected out-of-range index", "op", op, "index", index, "len", len(m.items))
		return err
	}
	return nil
}

// sync writes the whole list through the adapter. Failures are logged and
// kept for LastSyncError; memory stays authoritative. Caller holds m.mu.
func (m *Manager) sync() {
	snap, err := Encode(m.items)
	if err == nil {
		err = m.adapter.Save(snap)
	}
	if err != nil {
		m.lastSyncErr = err
		m.logger.Warn("snapshot not persisted", "items", len(m.items), "err", err)
		return
	}
	m.lastSyncErr = nil
	m.logger.Debug("snapshot persisted", "items", len(m.items), "bytes", len(snap))
}

// LastSyncError is the error from the most recent write, nil if it succeeded.
func (m *Manager) LastSyncError() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSyncErr
}

// Items returns a copy of the list.
func (m *Manager) Items() []model.Item {
	m.mu.Lock()
	defer m.mu.Unlock()
	return cloneItems(m.items)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

func (m *Manager) PendingInput() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pending
}

// Stats counts completed and open items.
func (m *Manager) Stats() (done, pending int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items {
		if it.Completed {
			done++
		} else {
			pending++
		}
	}
	return
}

// Subscribe registers fn to run after Initialize and after every change,
// once the change has been written through. fn runs on the goroutine that
// made the change, outside the Manager's lock, and sees states in the order
// they were produced: a state overtaken by a newer one before delivery is
// skipped. fn may read the Manager but must not mutate it.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextID
	m.nextID++
	m.subs = append(m.subs, subscriber{id: id, fn: fn})
	m.subMu.Unlock()

	return func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		for i, s := range m.subs {
			if s.id == id {
				m.subs = append(m.subs[:i], m.subs[i+1:]...)
				return
			}
		}
	}
}

func (m *Manager) notify(st State, version uint64) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()
	if version <= m.delivered {
		return
	}
	m.delivered = version

	m.subMu.Lock()
	subs := make([]subscriber, len(m.subs))
	copy(subs, m.subs)
	m.subMu.Unlock()

	for _, s := range subs {
		s.fn(State{Items: cloneItems(st.Items), PendingInput: st.PendingInput})
	}
}

// stateLocked snapshots the state for subscribers. Caller holds m.mu.
func (m *Manager) stateLocked() (State, uint64) {
	m.version++
	return State{Items: cloneItems(m.items), PendingInput: m.pending}, m.version
}

func cloneItems(items []model.Item) []model.Item {
	out := make([]model.Item, len(items))
	copy(out, items)
	return out
}
