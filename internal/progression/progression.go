package progression

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tomhallmain/Spracherwerb/internal/learning"
	"github.com/tomhallmain/Spracherwerb/internal/memory"
)

// Progress summarizes the state of a progression.
type Progress struct {
	CompletedCount  int
	UpcomingCount   int
	TotalActivities int
	CurrentActivity *Activity
	SessionDuration float64 // seconds spent in completed activities
}

// Config wires a progression to its collaborators.
type Config struct {
	Language string
	Memory   *memory.Memory
	Clock    learning.Clock
	Logger   logrus.FieldLogger
}

// Progression sequences learning activities: queued activities are pulled
// one at a time, wrapped in a learning spot while current, and archived
// into memory on completion. An activity is in exactly one of the queue,
// the current slot, or the completed list; the history holds all of them.
type Progression struct {
	upcoming  []*Activity
	completed []*Activity
	history   []*Activity
	current   *Activity

	language string
	memory   *memory.Memory
	clock    learning.Clock
	log      logrus.FieldLogger
}

// New creates an empty progression.
func New(cfg Config) *Progression {
	if cfg.Clock == nil {
		cfg.Clock = learning.SystemClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Progression{
		language: cfg.Language,
		memory:   cfg.Memory,
		clock:    cfg.Clock,
		log:      cfg.Logger,
	}
}

// Add enqueues an activity and advances the per-language activity counter.
func (p *Progression) Add(activity *Activity) {
	p.upcoming = append(p.upcoming, activity)
	if p.memory != nil {
		p.memory.AdvanceActivityProgress(p.language, activity.Type)
	}
}

// StartNext pops the front of the queue and makes it current, stamping its
// start time and attaching a fresh learning spot. Returns nil when the
// queue is empty.
func (p *Progression) StartNext() *Activity {
	if len(p.upcoming) == 0 {
		return nil
	}

	now := p.clock.Now()
	p.current = p.upcoming[0]
	p.upcoming = p.upcoming[1:]
	p.current.StartTime = now

	spot := learning.NewSpot(p.current.Content, now)
	spot.RequiresResponse = len(p.current.ExpectedResponses) > 0
	spot.MediaGenerated = p.current.MediaGenerated
	p.current.Spot = spot

	p.log.WithFields(logrus.Fields{
		"activity_type": p.current.Type,
		"difficulty":    p.current.DifficultyLevel,
	}).Debug("started activity")

	return p.current
}

// Current returns the activity in flight, or nil between activities.
func (p *Progression) Current() *Activity {
	return p.current
}

// CompleteCurrent marks the current activity done, archives it locally and
// pushes its spot into long-term memory. A no-op when nothing is current.
func (p *Progression) CompleteCurrent() {
	if p.current == nil {
		return
	}

	p.current.MarkCompleted(p.clock.Now())
	p.completed = append(p.completed, p.current)
	p.history = append(p.history, p.current)

	if p.memory != nil && p.current.Spot != nil {
		p.memory.RecordSpot(p.current.Spot, p.current.Type)
	}

	p.current = nil
}

// AddUserResponse appends a learner response to the current activity.
// Ignored when nothing is current.
func (p *Progression) AddUserResponse(response string) {
	if p.current == nil {
		return
	}
	p.current.AddUserResponse(response)
}

// AdjustDifficulty shifts every queued activity's difficulty by delta,
// clamped into [MinDifficulty, MaxDifficulty]. The current activity is
// unaffected.
func (p *Progression) AdjustDifficulty(delta int) {
	for _, activity := range p.upcoming {
		activity.DifficultyLevel = clampDifficulty(activity.DifficultyLevel + delta)
	}
}

// Reorder rearranges the queue according to newOrder, a permutation of the
// queue's indices. An invalid order is rejected with the queue unchanged.
func (p *Progression) Reorder(newOrder []int) error {
	if len(newOrder) != len(p.upcoming) {
		err := &learning.ValidationError{
			Op:     "reorder activities",
			Reason: fmt.Sprintf("got %d indices for %d queued activities", len(newOrder), len(p.upcoming)),
		}
		p.log.Warn(err)
		return err
	}

	seen := make(map[int]bool, len(newOrder))
	for _, i := range newOrder {
		if i < 0 || i >= len(p.upcoming) || seen[i] {
			err := &learning.ValidationError{
				Op:     "reorder activities",
				Reason: fmt.Sprintf("index list is not a permutation of 0..%d", len(p.upcoming)-1),
			}
			p.log.Warn(err)
			return err
		}
		seen[i] = true
	}

	reordered := make([]*Activity, len(newOrder))
	for pos, i := range newOrder {
		reordered[pos] = p.upcoming[i]
	}
	p.upcoming = reordered
	return nil
}

// Upcoming returns the queued activities in order.
func (p *Progression) Upcoming() []*Activity { return p.upcoming }

// Completed returns the finished activities in completion order.
func (p *Progression) Completed() []*Activity { return p.completed }

// History returns every activity this progression has seen.
func (p *Progression) History() []*Activity { return p.history }

// Progress reports counts and the total time spent in completed activities.
func (p *Progression) Progress() Progress {
	var duration float64
	for _, activity := range p.completed {
		duration += activity.Duration().Seconds()
	}
	return Progress{
		CompletedCount:  len(p.completed),
		UpcomingCount:   len(p.upcoming),
		TotalActivities: len(p.history),
		CurrentActivity: p.current,
		SessionDuration: duration,
	}
}
