package session

import (
	"time"

	"github.com/tomhallmain/Spracherwerb/internal/learning"
)

// UserAction is a control signal the learner can send to a running session.
type UserAction int

const (
	ActionNone UserAction = iota
	ActionPause
	ActionResume
	ActionStop
	ActionSkipActivity
	ActionCancel
)

// String returns the action name for logs.
func (a UserAction) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionPause:
		return "pause"
	case ActionResume:
		return "resume"
	case ActionStop:
		return "stop"
	case ActionSkipActivity:
		return "skip_activity"
	case ActionCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// State is the lifecycle state of a session.
type State int

const (
	StateActive State = iota
	StatePaused
	StateStopped
	StateCancelled
)

// String returns the state name for logs.
func (s State) String() string {
	switch s {
	case StateActive:
		return "active"
	case StatePaused:
		return "paused"
	case StateStopped:
		return "stopped"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// CompletedActivity is one entry in the session's completion log.
type CompletedActivity struct {
	Activity       learning.ActivityType
	Results        ActivityResults
	CompletionTime time.Time
}

// ActivityResults carries the outcome of a completed activity back into
// the session counters.
type ActivityResults struct {
	NewWords      []string
	GrammarPoints []string
}

// Progress is a point-in-time view of a session's counters.
type Progress struct {
	ActivitiesCompleted  int
	VocabularyLearned    int
	GrammarPointsCovered int
	TimeSpent            time.Duration
	State                State
	CurrentActivity      learning.ActivityType
}

// Context tracks the accounting state of one learning session: what was
// completed, what was learned, and where the pause/stop state machine
// stands.
type Context struct {
	StartTime time.Time

	ActivitiesCompleted  []CompletedActivity
	VocabularyLearned    []string
	GrammarPointsCovered []string

	// TimeSpent accumulates the paused duration on each resume. The name
	// is historical; ElapsedTime is the wall-clock view.
	TimeSpent time.Duration

	CurrentActivity learning.ActivityType
	PauseTime       time.Time
	EndTime         time.Time
	TotalTime       time.Duration

	LastUserAction UserAction
	LastActionTime time.Time

	state               State
	skipCurrentActivity bool

	clock learning.Clock
}

// NewContext starts session accounting at the clock's current time.
func NewContext(clock learning.Clock) *Context {
	if clock == nil {
		clock = learning.SystemClock()
	}
	now := clock.Now()
	return &Context{
		StartTime:      now,
		LastActionTime: now,
		state:          StateActive,
		clock:          clock,
	}
}

// UpdateAction applies a user action to the state machine.
func (c *Context) UpdateAction(action UserAction) {
	now := c.clock.Now()
	c.LastUserAction = action
	c.LastActionTime = now

	switch action {
	case ActionPause:
		c.state = StatePaused
		c.PauseTime = now
	case ActionResume:
		c.state = StateActive
		if !c.PauseTime.IsZero() {
			c.TimeSpent += now.Sub(c.PauseTime)
			c.PauseTime = time.Time{}
		}
	case ActionStop:
		c.state = StateStopped
		c.EndTime = now
		c.TotalTime = c.EndTime.Sub(c.StartTime)
	case ActionSkipActivity:
		c.skipCurrentActivity = true
	case ActionCancel:
		c.state = StateCancelled
		c.EndTime = now
		c.TotalTime = c.EndTime.Sub(c.StartTime)
	}
}

// State returns the current lifecycle state.
func (c *Context) State() State {
	return c.state
}

// IsActive reports whether the session is neither paused nor ended.
func (c *Context) IsActive() bool {
	return c.state == StateActive && c.EndTime.IsZero()
}

// SetCurrentActivity records the activity in flight and clears any
// pending skip request.
func (c *Context) SetCurrentActivity(activity learning.ActivityType) {
	c.CurrentActivity = activity
	c.skipCurrentActivity = false
}

// ShouldSkipCurrentActivity reports whether a skip was requested since the
// current activity was set.
func (c *Context) ShouldSkipCurrentActivity() bool {
	return c.skipCurrentActivity
}

// CompleteActivity logs a finished activity and folds its results into
// the vocabulary and grammar counters.
func (c *Context) CompleteActivity(activity learning.ActivityType, results ActivityResults) {
	c.ActivitiesCompleted = append(c.ActivitiesCompleted, CompletedActivity{
		Activity:       activity,
		Results:        results,
		CompletionTime: c.clock.Now(),
	})

	switch activity {
	case learning.ActivityVocabularyBuilder:
		c.VocabularyLearned = append(c.VocabularyLearned, results.NewWords...)
	case learning.ActivityGrammarPractice:
		c.GrammarPointsCovered = append(c.GrammarPointsCovered, results.GrammarPoints...)
	}
}

// ElapsedTime returns the session's elapsed wall-clock time: the final
// total once ended, the frozen TimeSpent while paused, and the running
// delta from start otherwise.
func (c *Context) ElapsedTime() time.Duration {
	if !c.EndTime.IsZero() {
		return c.TotalTime
	}
	if c.state == StatePaused && !c.PauseTime.IsZero() {
		return c.TimeSpent
	}
	return c.clock.Now().Sub(c.StartTime)
}

// Progress summarizes the session counters.
func (c *Context) Progress() Progress {
	return Progress{
		ActivitiesCompleted:  len(c.ActivitiesCompleted),
		VocabularyLearned:    len(c.VocabularyLearned),
		GrammarPointsCovered: len(c.GrammarPointsCovered),
		TimeSpent:            c.TimeSpent,
		State:                c.state,
		CurrentActivity:      c.CurrentActivity,
	}
}
