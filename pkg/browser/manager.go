package browser

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"

	"github.com/webqa-agent/webqa-engine/pkg/model"
)

// Manager indexes live sessions by id under a single RWMutex, mirroring
// the worker pool's active-session registry: registration/lookup/removal
// are held under the lock, IO (launch/close) happens outside it.
type Manager struct {
	pw *playwright.Playwright

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager starts the Playwright driver process once for the manager's
// lifetime; all sessions it creates share that driver.
func NewManager() (*Manager, error) {
	pw, err := playwright.Run()
	if err != nil {
		return nil, fmt.Errorf("starting playwright driver: %w", err)
	}
	return &Manager{pw: pw, sessions: make(map[string]*Session)}, nil
}

// CreateSession launches and registers a new session for cfg.
func (m *Manager) CreateSession(cfg model.BrowserConfig) (*Session, error) {
	id := uuid.NewString()
	sess, err := NewSession(m.pw, id, cfg)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	m.sessions[id] = sess
	m.mu.Unlock()
	return sess, nil
}

// Get returns a registered session by id, or nil.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessions[id]
}

// Remove unregisters and closes a session.
func (m *Manager) Remove(id string) error {
	m.mu.Lock()
	sess, ok := m.sessions[id]
	if ok {
		delete(m.sessions, id)
	}
	m.mu.Unlock()
	if !ok {
		return nil
	}
	return sess.Close()
}

// CloseAll closes every registered session, collecting the first error.
func (m *Manager) CloseAll() error {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for id, sess := range m.sessions {
		sessions = append(sessions, sess)
		delete(m.sessions, id)
	}
	m.mu.Unlock()

	var firstErr error
	for _, sess := range sessions {
		if err := sess.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// Stop closes all sessions and stops the underlying Playwright driver.
func (m *Manager) Stop() error {
	err := m.CloseAll()
	if stopErr := m.pw.Stop(); stopErr != nil && err == nil {
		err = stopErr
	}
	return err
}
