package learning

import "time"

// Config holds the tuning knobs for the spot decision engine.
type Config struct {
	// ChanceFeedbackAfterResponse is the probability of giving feedback
	// after a spot that required a learner response.
	ChanceFeedbackAfterResponse float64

	// ChanceExplanationBeforeQuestion is the probability of prefacing
	// content with an explanation.
	ChanceExplanationBeforeQuestion float64

	// MinSecondsBetweenSpots throttles how often the tutor may speak when
	// no introduction, feedback, or explanation forces an utterance.
	MinSecondsBetweenSpots time.Duration

	// MaxInteractionsPerActivity bounds interactions within one activity.
	MaxInteractionsPerActivity int

	// EnableVisualLearning gates all media generation.
	EnableVisualLearning bool
}

// DefaultConfig returns the production decision-engine defaults.
func DefaultConfig() Config {
	return Config{
		ChanceFeedbackAfterResponse:     0.7,
		ChanceExplanationBeforeQuestion: 0.5,
		MinSecondsBetweenSpots:          5 * time.Second,
		MaxInteractionsPerActivity:      10,
		EnableVisualLearning:            true,
	}
}

// mediaChance returns the media-generation probability threshold for an
// activity type. Vocabulary and cultural content get the highest chance.
func mediaChance(activityType ActivityType) float64 {
	switch activityType {
	case ActivityVocabularyBuilder, ActivityCulturalContext:
		return 0.8
	case ActivityGrammarPractice, ActivitySituationalDialogues:
		return 0.5
	default:
		return 0.3
	}
}
