// Package config loads application configuration from file and
// environment, and builds the derived learning and session configs.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/tomhallmain/Spracherwerb/internal/learning"
	"github.com/tomhallmain/Spracherwerb/internal/session"
)

// Config holds all configuration for the application.
type Config struct {
	Language string         `mapstructure:"language"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Learning LearningConfig `mapstructure:"learning"`
	Log      LogConfig      `mapstructure:"log"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// SessionConfig holds the defaults for new learning sessions.
type SessionConfig struct {
	Type            string   `mapstructure:"type"`
	DurationMinutes int      `mapstructure:"duration_minutes"`
	Activities      []string `mapstructure:"activities"`
	Vocabulary      string   `mapstructure:"vocabulary_difficulty"`
	Grammar         string   `mapstructure:"grammar_difficulty"`
}

// LearningConfig holds the decision-engine tuning knobs.
type LearningConfig struct {
	FeedbackChance       float64 `mapstructure:"feedback_chance"`
	ExplanationChance    float64 `mapstructure:"explanation_chance"`
	SpotThrottleSeconds  int     `mapstructure:"spot_throttle_seconds"`
	MaxInteractions      int     `mapstructure:"max_interactions"`
	EnableVisualLearning bool    `mapstructure:"enable_visual_learning"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// Environment variables use the SPRACHERWERB prefix, e.g.
// SPRACHERWERB_SESSION_DURATION_MINUTES.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("spracherwerb")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$XDG_CONFIG_HOME/spracherwerb")
	v.AddConfigPath("$HOME/.config/spracherwerb")

	setDefaults(v)

	v.SetEnvPrefix("SPRACHERWERB")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("language", "de")

	// Session defaults
	v.SetDefault("session.type", session.TypeRegular.String())
	v.SetDefault("session.duration_minutes", 30)
	v.SetDefault("session.activities", []string{
		string(learning.ActivityVocabularyBuilder),
		string(learning.ActivityGrammarPractice),
		string(learning.ActivityConversationPractice),
	})
	v.SetDefault("session.vocabulary_difficulty", session.DifficultyIntermediate.String())
	v.SetDefault("session.grammar_difficulty", session.DifficultyIntermediate.String())

	// Learning defaults match the engine's production values.
	v.SetDefault("learning.feedback_chance", 0.7)
	v.SetDefault("learning.explanation_chance", 0.5)
	v.SetDefault("learning.spot_throttle_seconds", 5)
	v.SetDefault("learning.max_interactions", 10)
	v.SetDefault("learning.enable_visual_learning", true)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// LearningConfig converts the loaded values into the engine's config.
func (c *Config) LearningConfig() learning.Config {
	return learning.Config{
		ChanceFeedbackAfterResponse:     c.Learning.FeedbackChance,
		ChanceExplanationBeforeQuestion: c.Learning.ExplanationChance,
		MinSecondsBetweenSpots:          time.Duration(c.Learning.SpotThrottleSeconds) * time.Second,
		MaxInteractionsPerActivity:      c.Learning.MaxInteractions,
		EnableVisualLearning:            c.Learning.EnableVisualLearning,
	}
}

// SessionConfig converts the loaded values into a validated session config.
func (c *Config) SessionConfig() (session.Config, error) {
	sessionType, err := session.ParseSessionType(c.Session.Type)
	if err != nil {
		return session.Config{}, err
	}
	vocabDifficulty, err := session.ParseDifficulty(c.Session.Vocabulary)
	if err != nil {
		return session.Config{}, err
	}
	grammarDifficulty, err := session.ParseDifficulty(c.Session.Grammar)
	if err != nil {
		return session.Config{}, err
	}

	activities := make([]learning.ActivityType, 0, len(c.Session.Activities))
	for _, a := range c.Session.Activities {
		activityType, err := learning.ParseActivityType(a)
		if err != nil {
			return session.Config{}, err
		}
		activities = append(activities, activityType)
	}

	cfg := session.Config{
		SessionType:          sessionType,
		Duration:             time.Duration(c.Session.DurationMinutes) * time.Minute,
		Language:             c.Language,
		Activities:           activities,
		VocabularyDifficulty: vocabDifficulty,
		GrammarDifficulty:    grammarDifficulty,
	}
	if err := cfg.Validate(); err != nil {
		return session.Config{}, err
	}
	return cfg, nil
}
