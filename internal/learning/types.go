package learning

import "time"

// InteractionType classifies what kind of utterance a spot carries.
type InteractionType string

const (
	InteractionText        InteractionType = "text"
	InteractionQuestion    InteractionType = "question"
	InteractionFeedback    InteractionType = "feedback"
	InteractionExplanation InteractionType = "explanation"
)

// ActivityType identifies a kind of teaching activity.
type ActivityType string

const (
	ActivityVocabularyBuilder      ActivityType = "vocabulary_builder"
	ActivityGrammarPractice        ActivityType = "grammar_practice"
	ActivityConversationPractice   ActivityType = "conversation_practice"
	ActivityListeningComprehension ActivityType = "listening_comprehension"
	ActivityWritingPractice        ActivityType = "writing_practice"
	ActivityCulturalContext        ActivityType = "cultural_context"
	ActivityPronunciationGuide     ActivityType = "pronunciation_guide"
	ActivityIdiomsAndExpressions   ActivityType = "idioms_and_expressions"
	ActivityReadingComprehension   ActivityType = "reading_comprehension"
	ActivitySituationalDialogues   ActivityType = "situational_dialogues"
	ActivityVisualVocabulary       ActivityType = "visual_vocabulary"
)

// ParseActivityType maps a stored or configured name to an activity type.
func ParseActivityType(s string) (ActivityType, error) {
	for _, t := range AllActivityTypes() {
		if string(t) == s {
			return t, nil
		}
	}
	return "", &ValidationError{Op: "parse activity type", Reason: "unknown activity type " + s}
}

// AllActivityTypes lists every activity type in presentation order.
func AllActivityTypes() []ActivityType {
	return []ActivityType{
		ActivityVocabularyBuilder,
		ActivityGrammarPractice,
		ActivityConversationPractice,
		ActivityListeningComprehension,
		ActivityWritingPractice,
		ActivityCulturalContext,
		ActivityPronunciationGuide,
		ActivityIdiomsAndExpressions,
		ActivityReadingComprehension,
		ActivitySituationalDialogues,
		ActivityVisualVocabulary,
	}
}

// Spot is a single recorded learning interaction.
type Spot struct {
	// Content is the text shown or spoken for this interaction.
	Content string

	// CreatedAt is assigned at construction and never changes afterwards.
	CreatedAt time.Time

	// WasSpoken records whether the content was actually voiced.
	// It starts false and only ever transitions false -> true.
	WasSpoken bool

	// InteractionType classifies the utterance.
	InteractionType InteractionType

	// RequiresResponse is true when the learner is expected to answer.
	RequiresResponse bool

	// MediaGenerated is true when media was produced for this spot.
	MediaGenerated bool
}

// NewSpot creates a spot with the given content and creation time.
func NewSpot(content string, createdAt time.Time) *Spot {
	return &Spot{
		Content:         content,
		CreatedAt:       createdAt,
		InteractionType: InteractionText,
	}
}

// MarkSpoken flags the spot as voiced. The transition is one-way.
func (s *Spot) MarkSpoken() {
	s.WasSpoken = true
}

// SpotSnapshot is the compact, immutable form a spot takes after eviction
// from the live bounded history.
type SpotSnapshot struct {
	CreatedAt        time.Time
	Content          string
	WasSpoken        bool
	InteractionType  InteractionType
	RequiresResponse bool
	MediaGenerated   bool
	ActivityType     ActivityType
}

// SnapshotOf creates a snapshot from a full spot and its owning activity type.
func SnapshotOf(spot *Spot, activityType ActivityType) SpotSnapshot {
	return SpotSnapshot{
		CreatedAt:        spot.CreatedAt,
		Content:          spot.Content,
		WasSpoken:        spot.WasSpoken,
		InteractionType:  spot.InteractionType,
		RequiresResponse: spot.RequiresResponse,
		MediaGenerated:   spot.MediaGenerated,
		ActivityType:     activityType,
	}
}
