package tutor

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/tomhallmain/Spracherwerb/internal/engine"
	"github.com/tomhallmain/Spracherwerb/internal/session"
)

var (
	// ErrSessionNotFound is returned for unknown session IDs.
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionAlreadyActive is returned when starting a session while
	// another is active. One session runs at a time.
	ErrSessionAlreadyActive = errors.New("another session is already active")

	// ErrNoActiveSession is returned by the manager verbs that need an
	// active session.
	ErrNoActiveSession = errors.New("no active session")
)

// Manager tracks sessions and enforces the single-active-session rule.
type Manager struct {
	sessions map[string]*Session
	activeID string
	log      logrus.FieldLogger
}

// NewManager creates an empty manager.
func NewManager(log logrus.FieldLogger) *Manager {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Manager{
		sessions: make(map[string]*Session),
		log:      log,
	}
}

// CreateSession registers a new unstarted session and returns its ID.
func (m *Manager) CreateSession(cfg session.Config, hooks Hooks, deps engine.Deps) string {
	id := uuid.NewString()
	m.sessions[id] = NewSession(cfg, hooks, deps)
	m.log.WithField("session_id", id).Debug("created session")
	return id
}

// Session returns the session with the given ID, or nil.
func (m *Manager) Session(id string) *Session {
	return m.sessions[id]
}

// StartSession starts the identified session. Rejected when another
// session is already active.
func (m *Manager) StartSession(id string) error {
	sess, ok := m.sessions[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if m.activeID != "" {
		return ErrSessionAlreadyActive
	}

	if err := sess.Start(); err != nil {
		return err
	}
	m.activeID = id
	return nil
}

// ActiveSession returns the active session, or nil.
func (m *Manager) ActiveSession() *Session {
	if m.activeID == "" {
		return nil
	}
	return m.sessions[m.activeID]
}

// PauseSession pauses the active session.
func (m *Manager) PauseSession() error {
	return m.applyAction(session.ActionPause, false)
}

// ResumeSession resumes the active session.
func (m *Manager) ResumeSession() error {
	return m.applyAction(session.ActionResume, false)
}

// EndSession stops the active session and releases the active slot.
func (m *Manager) EndSession() error {
	return m.applyAction(session.ActionStop, true)
}

// CancelSession cancels the active session and releases the active slot.
func (m *Manager) CancelSession() error {
	return m.applyAction(session.ActionCancel, true)
}

// SkipCurrentActivity skips the activity in flight in the active session.
func (m *Manager) SkipCurrentActivity() error {
	return m.applyAction(session.ActionSkipActivity, false)
}

func (m *Manager) applyAction(action session.UserAction, releases bool) error {
	sess := m.ActiveSession()
	if sess == nil {
		return ErrNoActiveSession
	}
	if err := sess.HandleUserAction(action); err != nil {
		return err
	}
	if releases {
		m.activeID = ""
	}
	return nil
}

// SessionProgress reports the active session's progress, or (zero, false)
// when no session is active.
func (m *Manager) SessionProgress() (SessionProgress, bool) {
	sess := m.ActiveSession()
	if sess == nil {
		return SessionProgress{}, false
	}
	return sess.Progress(), true
}

// Cleanup releases every session and clears the registry.
func (m *Manager) Cleanup() {
	for _, sess := range m.sessions {
		sess.Cleanup()
	}
	m.sessions = make(map[string]*Session)
	m.activeID = ""
}
