package assistant

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/wolfman30/coachflow/pkg/logging"
)

// Manager hosts many conversations. Turns on the same session run one at a time;
// different sessions proceed in parallel.
type Manager struct {
	assistant *Assistant
	store     SessionStore
	logger    *logging.Logger

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock is held in Manager.locks only while some turn holds or waits for it.
type sessionLock struct {
	mu   sync.Mutex
	refs int
}

func NewManager(a *Assistant, store SessionStore, logger *logging.Logger) *Manager {
	if a == nil {
		panic("assistant: assistant required")
	}
	if store == nil {
		store = NewMemorySessionStore()
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Manager{
		assistant: a,
		store:     store,
		logger:    logger,
		locks:     make(map[string]*sessionLock),
	}
}

func (m *Manager) lock(id string) func() {
	m.mu.Lock()
	l, ok := m.locks[id]
	if !ok {
		l = &sessionLock{}
		m.locks[id] = l
	}
	l.refs++
	m.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		m.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(m.locks, id)
		}
		m.mu.Unlock()
	}
}

func (m *Manager) lockCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}

// Create starts an empty conversation.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	sess := NewSession(uuid.NewString())
	sess.UpdatedAt = m.assistant.now()
	if err := m.store.Save(ctx, sess); err != nil {
		return nil, err
	}
	m.logger.Info("assistant session created", "session_id", sess.ID)
	return sess, nil
}

// Open loads the session, creating it under the given id if it does not exist.
func (m *Manager) Open(ctx context.Context, id string) (*Session, error) {
	if id == "" {
		return m.Create(ctx)
	}
	unlock := m.lock(id)
	defer unlock()

	sess, err := m.store.Load(ctx, id)
	if errors.Is(err, ErrSessionNotFound) {
		sess = NewSession(id)
		sess.UpdatedAt = m.assistant.now()
		if err := m.store.Save(ctx, sess); err != nil {
			return nil, err
		}
		return sess, nil
	}
	return sess, err
}

func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.store.Load(ctx, id)
}

// Send runs one turn on the session and persists the result.
func (m *Manager) Send(ctx context.Context, id, text string) (Message, error) {
	unlock := m.lock(id)
	defer unlock()

	sess, err := m.store.Load(ctx, id)
	if err != nil {
		return Message{}, err
	}
	msg := m.assistant.Handle(ctx, sess, text)
	if err := m.store.Save(ctx, sess); err != nil {
		m.logger.Error("failed to save assistant session", "session_id", id, "error", err)
		return msg, err
	}
	return msg, nil
}

// Reset clears transcript, flow and memory of the session together.
func (m *Manager) Reset(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()

	sess, err := m.store.Load(ctx, id)
	if err != nil {
		return err
	}
	m.assistant.Reset(sess)
	return m.store.Save(ctx, sess)
}

// Delete ends the conversation.
func (m *Manager) Delete(ctx context.Context, id string) error {
	unlock := m.lock(id)
	defer unlock()
	return m.store.Delete(ctx, id)
}
