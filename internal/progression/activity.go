package progression

import (
	"time"

	"github.com/tomhallmain/Spracherwerb/internal/learning"
)

const (
	// MinDifficulty and MaxDifficulty bound the activity difficulty scale.
	MinDifficulty = 1
	MaxDifficulty = 10
)

// Activity is one scheduled teaching activity.
type Activity struct {
	Type              learning.ActivityType
	Content           string
	ExpectedResponses []string
	DifficultyLevel   int
	RequiresMedia     bool
	MediaGenerated    bool
	Completed         bool
	UserResponses     []string

	// StartTime is set when the activity becomes current; EndTime is set
	// exactly once, by MarkCompleted.
	StartTime time.Time
	EndTime   time.Time

	// Spot is created lazily when the activity becomes current.
	Spot *learning.Spot
}

// NewActivity creates a queued activity. The difficulty level is clamped
// into [MinDifficulty, MaxDifficulty].
func NewActivity(activityType learning.ActivityType, content string, expectedResponses []string, difficulty int, requiresMedia bool) *Activity {
	return &Activity{
		Type:              activityType,
		Content:           content,
		ExpectedResponses: expectedResponses,
		DifficultyLevel:   clampDifficulty(difficulty),
		RequiresMedia:     requiresMedia,
	}
}

// MarkCompleted flags the activity as done and records the end time. The
// transition happens at most once; later calls are no-ops.
func (a *Activity) MarkCompleted(now time.Time) {
	if a.Completed {
		return
	}
	a.Completed = true
	a.EndTime = now
}

// AddUserResponse appends a learner response to the activity.
func (a *Activity) AddUserResponse(response string) {
	a.UserResponses = append(a.UserResponses, response)
}

// Duration returns the time the activity was current, or zero while it is
// still open.
func (a *Activity) Duration() time.Duration {
	if a.StartTime.IsZero() || a.EndTime.IsZero() {
		return 0
	}
	return a.EndTime.Sub(a.StartTime)
}

func clampDifficulty(level int) int {
	if level < MinDifficulty {
		return MinDifficulty
	}
	if level > MaxDifficulty {
		return MaxDifficulty
	}
	return level
}
