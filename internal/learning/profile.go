package learning

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultMaxScanIterations is the fail-safe cap on the backward history
// scan in LastSpokenSpot.
const DefaultMaxScanIterations = 100

// SpotLookup resolves the spot at the given backward index, restricted to
// spots created strictly before createdBefore when that time is non-zero.
type SpotLookup func(idx int, createdBefore time.Time) *Spot

// ContentLookup resolves the next content to be presented, or "" when none.
type ContentLookup func() string

// ProfileDeps carries the injected collaborators for a SpotProfile.
// Rand, Clock, History, and Logger fall back to production defaults when
// nil; the lookup capabilities stay nil unless supplied, and using them
// unset fails with ErrCallbackNotSet.
type ProfileDeps struct {
	Config       Config
	Rand         Rand
	Clock        Clock
	History      *History
	Logger       logrus.FieldLogger
	PreviousSpot SpotLookup
	NextContent  ContentLookup
}

// SpotProfile is the ephemeral decision record for one upcoming
// interaction. The four derived booleans are rolled exactly once at
// construction and never recomputed.
type SpotProfile struct {
	ActivityType   ActivityType
	PreviousSpotIn *Spot
	CurrentContent string
	CreatedAt      time.Time

	// PreparationTime is set once content is actually being prepared.
	// Zero means not yet prepared.
	PreparationTime time.Time

	ProvideIntroduction bool
	ProvideFeedback     bool
	ProvideExplanation  bool
	GenerateMedia       bool

	IsPrepared       bool
	HasAlreadySpoken bool

	isFirstInteraction bool

	cfg          Config
	clock        Clock
	history      *History
	log          logrus.FieldLogger
	previousSpot SpotLookup
	nextContent  ContentLookup
}

// NewSpotProfile builds the decision bundle for one upcoming interaction.
// The history buffer is consulted and updated as a side effect: non-empty
// content differing from the latest recorded entry is appended.
func NewSpotProfile(activityType ActivityType, previous *Spot, currentContent string, deps ProfileDeps) *SpotProfile {
	if deps.Rand == nil {
		deps.Rand = SystemRand()
	}
	if deps.Clock == nil {
		deps.Clock = SystemClock()
	}
	if deps.History == nil {
		deps.History = NewHistory()
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}

	now := deps.Clock.Now()
	historyWasEmpty := deps.History.Empty()
	deps.History.Record(currentContent, now)

	p := &SpotProfile{
		ActivityType:   activityType,
		PreviousSpotIn: previous,
		CurrentContent: currentContent,
		CreatedAt:      now,
		cfg:            deps.Config,
		clock:          deps.Clock,
		history:        deps.History,
		log:            deps.Logger,
		previousSpot:   deps.PreviousSpot,
		nextContent:    deps.NextContent,
	}

	p.isFirstInteraction = previous == nil && historyWasEmpty
	if p.isFirstInteraction {
		p.log.Info("first interaction of activity - preparing introduction")
		p.ProvideIntroduction = true
	}

	p.ProvideFeedback = previous != nil &&
		previous.RequiresResponse &&
		deps.Rand.Float64() < deps.Config.ChanceFeedbackAfterResponse

	p.ProvideExplanation = currentContent != "" &&
		deps.Rand.Float64() < deps.Config.ChanceExplanationBeforeQuestion

	p.GenerateMedia = currentContent != "" &&
		deps.Config.EnableVisualLearning &&
		deps.Rand.Float64() < mediaChance(activityType)

	return p
}

// IsFirstInteraction reports whether this profile saw an empty history and
// no previous spot at construction.
func (p *SpotProfile) IsFirstInteraction() bool { return p.isFirstInteraction }

// PreviousSpot resolves the spot idx positions back, restricted to spots
// created before this profile. Fails when no lookup capability was set.
func (p *SpotProfile) PreviousSpot(idx int) (*Spot, error) {
	if p.previousSpot == nil {
		return nil, ErrCallbackNotSet
	}
	return p.previousSpot(idx, p.CreatedAt), nil
}

// NextContent resolves the next content to present. Fails when no lookup
// capability was set.
func (p *SpotProfile) NextContent() (string, error) {
	if p.nextContent == nil {
		return "", ErrCallbackNotSet
	}
	return p.nextContent(), nil
}

// IsGoingToSaySomething decides whether this interaction results in
// speech. Introductions, feedback, and explanations always speak; plain
// content is throttled by the minimum gap since the last spoken spot.
func (p *SpotProfile) IsGoingToSaySomething() (bool, error) {
	if p.ProvideIntroduction || p.ProvideFeedback || p.ProvideExplanation {
		return true, nil
	}

	pastRestriction, err := p.lastSpotOlderThan(p.cfg.MinSecondsBetweenSpots)
	if err != nil {
		return false, err
	}
	if !pastRestriction {
		p.log.Info("time restriction applied to current spot preparation")
		return false, nil
	}
	return true, nil
}

// lastSpotOlderThan reports whether more than gap has elapsed since the
// last spot that was actually spoken. No spoken spot means no restriction.
func (p *SpotProfile) lastSpotOlderThan(gap time.Duration) (bool, error) {
	last, err := p.LastSpokenSpot(DefaultMaxScanIterations)
	if err != nil {
		return false, err
	}
	if last == nil {
		return true, nil
	}
	return p.clock.Now().Sub(last.CreatedAt) > gap, nil
}

// LastSpokenSpot scans backward through history for the most recent spot
// with WasSpoken set. The scan stops when the lookup returns nil (history
// exhausted) or after maxIterations lookups; exhausting the cap is treated
// as "not found", never as an error, to guarantee termination against
// malformed or cyclic history data.
func (p *SpotProfile) LastSpokenSpot(maxIterations int) (*Spot, error) {
	for idx := 0; ; {
		spot, err := p.PreviousSpot(idx)
		if err != nil {
			return nil, err
		}
		if spot == nil {
			p.log.Debugf("no spot found at index %d", idx)
			return nil, nil
		}
		if spot.WasSpoken {
			return spot, nil
		}
		idx++
		if idx >= maxIterations {
			p.log.Errorf("failsafe triggered: last spoken spot scan exceeded %d iterations", maxIterations)
			return nil, nil
		}
	}
}

// SetPreparationTime records that content preparation has started.
func (p *SpotProfile) SetPreparationTime() {
	p.PreparationTime = p.clock.Now()
}

// EffectiveTime returns the preparation time when set, otherwise the
// creation time.
func (p *SpotProfile) EffectiveTime() time.Time {
	if p.PreparationTime.IsZero() {
		return p.CreatedAt
	}
	return p.PreparationTime
}

// MarkAsSpoken records that this profile's content was voiced and flips
// the matching history entry in place.
func (p *SpotProfile) MarkAsSpoken() {
	p.HasAlreadySpoken = true
	if p.CurrentContent != "" {
		p.history.MarkSpoken(p.CurrentContent)
	}
}

// Reset clears the preparation state only. The decision booleans are never
// re-rolled after construction.
func (p *SpotProfile) Reset() {
	p.IsPrepared = false
	p.PreparationTime = time.Time{}
}

// String renders the active decisions for logging.
func (p *SpotProfile) String() string {
	var b strings.Builder
	b.WriteString("Activity: " + string(p.ActivityType) + "\n")
	if p.CurrentContent != "" {
		b.WriteString("Current Content: " + p.CurrentContent + "\n")
	}
	if p.ProvideIntroduction {
		b.WriteString(" - Providing introduction\n")
	}
	if p.ProvideFeedback {
		b.WriteString(" - Providing feedback\n")
	}
	if p.ProvideExplanation {
		b.WriteString(" - Providing explanation\n")
	}
	if p.GenerateMedia {
		b.WriteString(" - Generating media\n")
	}
	return b.String()
}
