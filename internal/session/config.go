package session

import (
	"fmt"
	"time"

	"github.com/tomhallmain/Spracherwerb/internal/learning"
)

// SessionType selects the overall shape of a session.
type SessionType int

const (
	TypeRegular SessionType = iota
	TypeFocused
	TypeReview
	TypeAssessment
	TypeCustom
)

// String returns the session type name.
func (t SessionType) String() string {
	switch t {
	case TypeRegular:
		return "regular"
	case TypeFocused:
		return "focused"
	case TypeReview:
		return "review"
	case TypeAssessment:
		return "assessment"
	case TypeCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// ParseSessionType maps a configured name to a session type.
func ParseSessionType(s string) (SessionType, error) {
	switch s {
	case "regular":
		return TypeRegular, nil
	case "focused":
		return TypeFocused, nil
	case "review":
		return TypeReview, nil
	case "assessment":
		return TypeAssessment, nil
	case "custom":
		return TypeCustom, nil
	}
	return 0, &learning.ValidationError{Op: "parse session type", Reason: "unknown session type " + s}
}

// DifficultyLevel is the coarse difficulty band used for activity setup.
type DifficultyLevel int

const (
	DifficultyBeginner DifficultyLevel = iota
	DifficultyIntermediate
	DifficultyAdvanced
)

// String returns the difficulty band name.
func (d DifficultyLevel) String() string {
	switch d {
	case DifficultyBeginner:
		return "beginner"
	case DifficultyIntermediate:
		return "intermediate"
	case DifficultyAdvanced:
		return "advanced"
	default:
		return "unknown"
	}
}

// ParseDifficulty maps a configured name to a difficulty band.
func ParseDifficulty(s string) (DifficultyLevel, error) {
	switch s {
	case "beginner":
		return DifficultyBeginner, nil
	case "intermediate":
		return DifficultyIntermediate, nil
	case "advanced":
		return DifficultyAdvanced, nil
	}
	return 0, &learning.ValidationError{Op: "parse difficulty", Reason: "unknown difficulty " + s}
}

// Config describes one learning session before it starts.
type Config struct {
	SessionType SessionType
	Duration    time.Duration
	AutoStart   bool

	// Language is the target language being learned.
	Language string

	// Activities lists the activity types this session will run, in order.
	Activities []learning.ActivityType

	VocabularyDifficulty DifficultyLevel
	GrammarDifficulty    DifficultyLevel
}

// DefaultConfig returns a 30-minute regular session covering the three
// staple activities.
func DefaultConfig(language string) Config {
	return Config{
		SessionType: TypeRegular,
		Duration:    30 * time.Minute,
		Language:    language,
		Activities: []learning.ActivityType{
			learning.ActivityVocabularyBuilder,
			learning.ActivityGrammarPractice,
			learning.ActivityConversationPractice,
		},
		VocabularyDifficulty: DifficultyIntermediate,
		GrammarDifficulty:    DifficultyIntermediate,
	}
}

// Validate rejects configs that cannot produce a runnable session.
func (c Config) Validate() error {
	if c.Duration <= 0 {
		return &learning.ValidationError{Op: "validate session config", Reason: "duration must be positive"}
	}
	if len(c.Activities) == 0 {
		return &learning.ValidationError{Op: "validate session config", Reason: "at least one activity is required"}
	}
	if c.Language == "" {
		return &learning.ValidationError{Op: "validate session config", Reason: "target language is required"}
	}
	return nil
}

// String renders the config for logs.
func (c Config) String() string {
	return fmt.Sprintf("%s session (%s, %d activities, %s)",
		c.SessionType, c.Duration, len(c.Activities), c.Language)
}
