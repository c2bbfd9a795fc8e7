package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tomhallmain/Spracherwerb/internal/learning"
	"github.com/tomhallmain/Spracherwerb/internal/session"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Language != "de" {
		t.Errorf("Language = %q, want de", cfg.Language)
	}
	if cfg.Session.DurationMinutes != 30 {
		t.Errorf("DurationMinutes = %d, want 30", cfg.Session.DurationMinutes)
	}
	if cfg.Learning.FeedbackChance != 0.7 {
		t.Errorf("FeedbackChance = %v, want 0.7", cfg.Learning.FeedbackChance)
	}
	if !cfg.Learning.EnableVisualLearning {
		t.Error("visual learning should default on")
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Log.Level = %q, want info", cfg.Log.Level)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("SPRACHERWERB_LANGUAGE", "fr")
	t.Setenv("SPRACHERWERB_SESSION_DURATION_MINUTES", "45")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Language != "fr" {
		t.Errorf("Language = %q, want fr", cfg.Language)
	}
	if cfg.Session.DurationMinutes != 45 {
		t.Errorf("DurationMinutes = %d, want 45", cfg.Session.DurationMinutes)
	}
}

func TestSessionConfig(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	sessCfg, err := cfg.SessionConfig()
	if err != nil {
		t.Fatalf("SessionConfig: %v", err)
	}
	if sessCfg.SessionType != session.TypeRegular {
		t.Errorf("SessionType = %v, want regular", sessCfg.SessionType)
	}
	if sessCfg.Duration != 30*time.Minute {
		t.Errorf("Duration = %v, want 30m", sessCfg.Duration)
	}
	if len(sessCfg.Activities) != 3 || sessCfg.Activities[0] != learning.ActivityVocabularyBuilder {
		t.Errorf("Activities = %v", sessCfg.Activities)
	}
}

func TestSessionConfig_RejectsUnknownActivity(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Session.Activities = []string{"time_travel"}

	if _, err := cfg.SessionConfig(); err == nil {
		t.Fatal("expected an error for an unknown activity type")
	}
}

func TestLearningConfig(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	learnCfg := cfg.LearningConfig()
	if learnCfg.MinSecondsBetweenSpots != 5*time.Second {
		t.Errorf("MinSecondsBetweenSpots = %v, want 5s", learnCfg.MinSecondsBetweenSpots)
	}
	if learnCfg.MaxInteractionsPerActivity != 10 {
		t.Errorf("MaxInteractionsPerActivity = %d, want 10", learnCfg.MaxInteractionsPerActivity)
	}
}

func TestNewLogger(t *testing.T) {
	cfg := &Config{Log: LogConfig{Level: "debug", Format: "json"}}
	logger, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}
	if logger.GetLevel() != logrus.DebugLevel {
		t.Errorf("level = %v, want debug", logger.GetLevel())
	}

	cfg.Log.Level = "loud"
	if _, err := NewLogger(cfg); err == nil {
		t.Fatal("expected an error for a bad level")
	}
}
