package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/contviz-dev/contviz/interp"
	"github.com/contviz-dev/contviz/runner"
	"github.com/google/uuid"
)

var ErrUnknownSession = errors.New("unknown session")

type managedSession struct {
	mu sync.Mutex
	s  *Session
}

// Manager owns independent sessions. Calls on one session are serialized;
// different sessions never share state and proceed in parallel.
type Manager struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*managedSession
	// NewSession builds each session; nil means NewSession.
	NewSession func() *Session
}

func NewManager() *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*managedSession),
	}
}

// Create starts a session holding text and returns its id.
func (m *Manager) Create(text string) uuid.UUID {
	build := m.NewSession
	if build == nil {
		build = NewSession
	}
	s := build()
	s.LoadTrace(text)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions == nil {
		m.sessions = make(map[uuid.UUID]*managedSession)
	}
	m.sessions[s.ID] = &managedSession{s: s}
	return s.ID
}

func (m *Manager) Drop(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// with runs f while holding the session's lock.
func (m *Manager) with(id uuid.UUID, f func(s *Session) error) error {
	m.mu.RLock()
	ms, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSession, id)
	}
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return f(ms.s)
}

func (m *Manager) Step(id uuid.UUID) (interp.StepResult, error) {
	var res interp.StepResult
	err := m.with(id, func(s *Session) error {
		var err error
		res, err = s.Step()
		return err
	})
	return res, err
}

func (m *Manager) Reset(id uuid.UUID) error {
	return m.with(id, func(s *Session) error {
		s.Reset()
		return nil
	})
}

func (m *Manager) LoadTrace(id uuid.UUID, text string) error {
	return m.with(id, func(s *Session) error {
		s.LoadTrace(text)
		return nil
	})
}

func (m *Manager) Seek(id uuid.UUID, n int) error {
	return m.with(id, func(s *Session) error {
		return s.Seek(n)
	})
}

func (m *Manager) Snapshot(id uuid.UUID) (Projection, error) {
	var p Projection
	err := m.with(id, func(s *Session) error {
		p = s.Snapshot()
		return nil
	})
	return p, err
}

// Evaluate runs source through r and loads the result into the session. On
// evaluator failure the session is loaded with an empty trace and the
// evaluator's error is returned.
func (m *Manager) Evaluate(ctx context.Context, id uuid.UUID, r runner.Runner, source string) error {
	text, runErr := runner.Acquire(ctx, r, source)
	err := m.LoadTrace(id, text)
	if err != nil {
		return err
	}
	return runErr
}
