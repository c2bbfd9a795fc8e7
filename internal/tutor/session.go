// Package tutor exposes the session-level API: one Session wraps the
// engine and session accounting for a single learner sitting; the
// Manager enforces the one-active-session rule across sessions.
package tutor

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tomhallmain/Spracherwerb/internal/engine"
	"github.com/tomhallmain/Spracherwerb/internal/learning"
	"github.com/tomhallmain/Spracherwerb/internal/session"
)

// ErrNotStarted is returned when a session operation runs before Start.
var ErrNotStarted = errors.New("session not started")

// Hooks are optional callbacks fired on session events. Nil hooks are
// skipped.
type Hooks struct {
	ActivityStarted       func(activityType learning.ActivityType, result *engine.ActivityResult)
	ActivityCompleted     func(result *engine.ActivityResult)
	UserResponseProcessed func(reply string)
	MediaGenerated        func(artifact string)
	ErrorOccurred         func(err error)
}

func (h Hooks) reportError(err error) {
	if h.ErrorOccurred != nil {
		h.ErrorOccurred(err)
	}
}

// SessionProgress is the session counters view exposed to callers.
type SessionProgress = session.Progress

// Session is one learner sitting: config, accounting state, and engine.
type Session struct {
	cfg   session.Config
	hooks Hooks
	deps  engine.Deps
	log   logrus.FieldLogger

	state  *session.Context
	engine *engine.Engine
}

// NewSession creates an unstarted session.
func NewSession(cfg session.Config, hooks Hooks, deps engine.Deps) *Session {
	log := deps.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Session{cfg: cfg, hooks: hooks, deps: deps, log: log}
}

// Config returns the session's configuration.
func (s *Session) Config() session.Config { return s.cfg }

// Started reports whether Start has succeeded.
func (s *Session) Started() bool { return s.engine != nil }

// Start validates the config and brings up the engine.
func (s *Session) Start() error {
	if err := s.cfg.Validate(); err != nil {
		err = fmt.Errorf("start session: %w", err)
		s.hooks.reportError(err)
		return err
	}

	s.state = session.NewContext(s.deps.Clock)
	s.engine = engine.New(s.cfg, s.state, s.deps)
	s.log.WithField("config", s.cfg.String()).Info("started learning session")
	return nil
}

// StartActivity begins a new activity through the engine.
func (s *Session) StartActivity(ctx context.Context, activityType learning.ActivityType) (*engine.ActivityResult, error) {
	if s.engine == nil {
		return nil, ErrNotStarted
	}

	result, err := s.engine.StartActivity(ctx, activityType)
	if err != nil {
		s.hooks.reportError(err)
		return nil, err
	}
	if s.hooks.ActivityStarted != nil {
		s.hooks.ActivityStarted(activityType, result)
	}
	return result, nil
}

// ProcessUserResponse forwards a learner reply to the engine.
func (s *Session) ProcessUserResponse(ctx context.Context, response string) (string, error) {
	if s.engine == nil {
		return "", ErrNotStarted
	}

	reply, err := s.engine.ProcessUserResponse(ctx, response)
	if err != nil {
		s.hooks.reportError(err)
		return "", err
	}
	if s.hooks.UserResponseProcessed != nil {
		s.hooks.UserResponseProcessed(reply)
	}
	return reply, nil
}

// GenerateMedia produces visual content for the current activity.
// Failures are reported through hooks and swallowed; media is best-effort.
func (s *Session) GenerateMedia(ctx context.Context, content string) string {
	if s.engine == nil {
		return ""
	}

	artifact, err := s.engine.GenerateMedia(ctx, content)
	if err != nil {
		s.hooks.reportError(err)
		return ""
	}
	if artifact != "" && s.hooks.MediaGenerated != nil {
		s.hooks.MediaGenerated(artifact)
	}
	return artifact
}

// CompleteCurrentActivity finishes the activity in flight.
func (s *Session) CompleteCurrentActivity() (*engine.ActivityResult, error) {
	if s.engine == nil {
		return nil, ErrNotStarted
	}

	result, err := s.engine.CompleteActivity()
	if err != nil {
		s.hooks.reportError(err)
		return nil, err
	}
	if s.hooks.ActivityCompleted != nil {
		s.hooks.ActivityCompleted(result)
	}
	return result, nil
}

// HandleUserAction applies a control action to the session.
func (s *Session) HandleUserAction(action session.UserAction) error {
	if s.engine == nil {
		return ErrNotStarted
	}
	s.engine.HandleUserAction(action)
	return nil
}

// State returns the session's accounting context, or nil before Start.
func (s *Session) State() *session.Context { return s.state }

// Progress reports the session counters and the activity in flight.
func (s *Session) Progress() SessionProgress {
	if s.state == nil {
		return SessionProgress{}
	}
	return s.state.Progress()
}

// Cleanup releases engine resources. The session cannot be restarted.
func (s *Session) Cleanup() {
	if s.engine != nil {
		s.engine.Cleanup()
	}
	s.engine = nil
}
