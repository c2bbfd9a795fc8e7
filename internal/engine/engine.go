// Package engine orchestrates one learning session: it drives activities
// through the LLM, consults the per-interaction decision profile, and
// routes results into the session context and long-term memory.
package engine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tomhallmain/Spracherwerb/internal/learning"
	"github.com/tomhallmain/Spracherwerb/internal/llm"
	"github.com/tomhallmain/Spracherwerb/internal/media"
	"github.com/tomhallmain/Spracherwerb/internal/memory"
	"github.com/tomhallmain/Spracherwerb/internal/session"
	"github.com/tomhallmain/Spracherwerb/internal/voice"
)

var (
	// ErrSessionInactive is returned when an operation needs an active
	// session but the session is paused, stopped, or cancelled.
	ErrSessionInactive = errors.New("session is not active")

	// ErrNoActiveActivity is returned when an operation needs a current
	// activity but none has been started.
	ErrNoActiveActivity = errors.New("no active activity")
)

// Exchange is one learner/tutor turn within an activity.
type Exchange struct {
	UserInput      string
	SystemResponse string
	Timestamp      time.Time
}

// ActivityResult accumulates the outcome of one activity.
type ActivityResult struct {
	ActivityType   learning.ActivityType
	StartTime      time.Time
	EndTime        time.Time
	Content        string
	Responses      []Exchange
	NewWords       []string
	GrammarPoints  []string
	MediaGenerated []string
}

// Duration returns the activity's wall-clock span once completed.
func (r *ActivityResult) Duration() time.Duration {
	if r.EndTime.IsZero() {
		return 0
	}
	return r.EndTime.Sub(r.StartTime)
}

// Deps wires the engine to its collaborators. Voice, Media, Rand, Clock,
// and Logger fall back to no-op or production defaults when nil.
type Deps struct {
	Provider llm.Provider
	Voice    voice.Voice
	Media    media.Generator
	Memory   *memory.Memory

	LearningConfig learning.Config
	Rand           learning.Rand
	Clock          learning.Clock
	Logger         logrus.FieldLogger
}

// Engine runs activities for one session.
type Engine struct {
	cfg   session.Config
	state *session.Context

	provider llm.Provider
	voice    voice.Voice
	media    media.Generator
	memory   *memory.Memory

	learnCfg learning.Config
	history  *learning.History
	rand     learning.Rand
	clock    learning.Clock
	log      logrus.FieldLogger

	// llmContext is the opaque token context threaded between requests on
	// backends that support it.
	llmContext []int

	currentActivity learning.ActivityType
	currentResult   *ActivityResult
	active          bool
}

// New creates an engine for one session.
func New(cfg session.Config, state *session.Context, deps Deps) *Engine {
	if deps.Voice == nil {
		deps.Voice = voice.Noop{}
	}
	if deps.Media == nil {
		deps.Media = media.Noop{}
	}
	if deps.Rand == nil {
		deps.Rand = learning.SystemRand()
	}
	if deps.Clock == nil {
		deps.Clock = learning.SystemClock()
	}
	if deps.Logger == nil {
		deps.Logger = logrus.StandardLogger()
	}
	return &Engine{
		cfg:      cfg,
		state:    state,
		provider: deps.Provider,
		voice:    deps.Voice,
		media:    deps.Media,
		memory:   deps.Memory,
		learnCfg: deps.LearningConfig,
		history:  learning.NewHistory(),
		rand:     deps.Rand,
		clock:    deps.Clock,
		log:      deps.Logger,
	}
}

// StartActivity begins a new activity: it asks the LLM for content, runs
// the per-interaction decision profile against session memory, and speaks
// or illustrates the content as the decisions dictate.
func (e *Engine) StartActivity(ctx context.Context, activityType learning.ActivityType) (*ActivityResult, error) {
	if !e.state.IsActive() {
		return nil, ErrSessionInactive
	}

	e.currentActivity = activityType
	e.state.SetCurrentActivity(activityType)
	e.currentResult = &ActivityResult{
		ActivityType: activityType,
		StartTime:    e.clock.Now(),
	}
	e.active = true

	content, err := e.requestContent(ctx, activityType)
	if err != nil {
		return nil, fmt.Errorf("request activity content: %w", err)
	}
	e.currentResult.Content = content.Content
	e.currentResult.NewWords = append(e.currentResult.NewWords, content.NewWords...)
	e.currentResult.GrammarPoints = append(e.currentResult.GrammarPoints, content.GrammarPoints...)

	e.recordLearnedItems(content)
	e.realizeSpot(ctx, activityType, content)

	return e.currentResult, nil
}

// requestContent asks the LLM for structured activity content.
func (e *Engine) requestContent(ctx context.Context, activityType learning.ActivityType) (*activityContent, error) {
	resp, err := e.provider.Ask(llm.WithPurpose(ctx, "activity-content"), llm.Request{
		System:      systemPrompt(e.cfg),
		Prompt:      activityPrompt(activityType, e.cfg),
		Context:     e.llmContext,
		Schema:      activitySchema,
		MaxTokens:   1024,
		Temperature: 0.7,
	})
	if err != nil {
		return nil, err
	}
	if resp.ContextProvided {
		e.llmContext = resp.Context
	}

	var content activityContent
	if err := json.Unmarshal(resp.Content, &content); err != nil {
		return nil, fmt.Errorf("decode activity content: %w", err)
	}
	return &content, nil
}

// recordLearnedItems folds new vocabulary and grammar into long-term memory.
func (e *Engine) recordLearnedItems(content *activityContent) {
	if e.memory == nil {
		return
	}
	for _, word := range content.NewWords {
		e.memory.AddVocabulary(e.cfg.Language, word)
	}
	for _, point := range content.GrammarPoints {
		e.memory.AddGrammarPoint(e.cfg.Language, point)
	}
}

// realizeSpot builds the decision profile for the new content and carries
// out its speech and media decisions.
func (e *Engine) realizeSpot(ctx context.Context, activityType learning.ActivityType, content *activityContent) {
	var previous *learning.Spot
	if e.memory != nil {
		previous = e.memory.PreviousSessionSpot(0, time.Time{})
	}

	profile := learning.NewSpotProfile(activityType, previous, content.Content, learning.ProfileDeps{
		Config:  e.learnCfg,
		Rand:    e.rand,
		Clock:   e.clock,
		History: e.history,
		Logger:  e.log,
		PreviousSpot: func(idx int, createdBefore time.Time) *learning.Spot {
			if e.memory == nil {
				return nil
			}
			return e.memory.PreviousSessionSpot(idx, createdBefore)
		},
		NextContent: func() string { return content.Content },
	})

	spot := learning.NewSpot(content.Content, e.clock.Now())
	spot.RequiresResponse = len(content.ExpectedResponses) > 0

	speak, err := profile.IsGoingToSaySomething()
	if err != nil {
		e.log.WithError(err).Warn("speech decision failed")
	} else if speak {
		profile.SetPreparationTime()
		if err := e.voice.PrepareToSay(ctx, content.Content, string(activityType)); err != nil {
			e.log.WithError(err).Warn("voice preparation failed")
		} else {
			profile.MarkAsSpoken()
			spot.MarkSpoken()
		}
	}

	if profile.GenerateMedia {
		if artifact, err := e.GenerateMedia(ctx, content.Content); err != nil {
			e.log.WithError(err).Warn("media generation failed")
		} else if artifact != "" {
			spot.MediaGenerated = true
			e.currentResult.MediaGenerated = append(e.currentResult.MediaGenerated, artifact)
		}
	}

	if e.memory != nil {
		e.memory.RecordSessionSpot(spot)
	}
}

// ProcessUserResponse sends a learner reply to the LLM and records the
// exchange on the current activity.
func (e *Engine) ProcessUserResponse(ctx context.Context, response string) (string, error) {
	if !e.active {
		return "", ErrNoActiveActivity
	}

	resp, err := e.provider.Ask(llm.WithPurpose(ctx, "response-eval"), llm.Request{
		System:      systemPrompt(e.cfg),
		Prompt:      responsePrompt(e.currentActivity, response),
		Context:     e.llmContext,
		Schema:      responseSchema,
		MaxTokens:   512,
		Temperature: 0.7,
	})
	if err != nil {
		return "", fmt.Errorf("evaluate response: %w", err)
	}
	if resp.ContextProvided {
		e.llmContext = resp.Context
	}

	var reply tutorReply
	if err := json.Unmarshal(resp.Content, &reply); err != nil {
		return "", fmt.Errorf("decode tutor reply: %w", err)
	}

	e.currentResult.Responses = append(e.currentResult.Responses, Exchange{
		UserInput:      response,
		SystemResponse: reply.Content,
		Timestamp:      e.clock.Now(),
	})

	if err := e.voice.Say(ctx, reply.Content, string(e.currentActivity)); err != nil {
		e.log.WithError(err).Warn("voice playback failed")
	}

	return reply.Content, nil
}

// GenerateMedia produces visual content for the current activity. Returns
// "" without error when visual learning is disabled.
func (e *Engine) GenerateMedia(ctx context.Context, content string) (string, error) {
	if !e.learnCfg.EnableVisualLearning {
		return "", nil
	}
	return e.media.Generate(ctx, content, e.currentActivity)
}

// CompleteActivity finishes the current activity, folds its results into
// the session context, and returns them.
func (e *Engine) CompleteActivity() (*ActivityResult, error) {
	if !e.active {
		return nil, ErrNoActiveActivity
	}

	e.currentResult.EndTime = e.clock.Now()
	e.state.CompleteActivity(e.currentActivity, session.ActivityResults{
		NewWords:      e.currentResult.NewWords,
		GrammarPoints: e.currentResult.GrammarPoints,
	})

	result := e.currentResult
	e.currentResult = nil
	e.currentActivity = ""
	e.active = false
	return result, nil
}

// HandleUserAction applies a control action to the session and its
// collaborators. A skip request completes the current activity.
func (e *Engine) HandleUserAction(action session.UserAction) {
	e.state.UpdateAction(action)

	switch action {
	case session.ActionPause:
		e.voice.Pause()
	case session.ActionResume:
		e.voice.Resume()
	case session.ActionSkipActivity:
		if e.active {
			if _, err := e.CompleteActivity(); err != nil {
				e.log.WithError(err).Warn("skip failed to complete activity")
			}
		}
	}
}

// CurrentActivity returns the activity type in flight, or "" when idle.
func (e *Engine) CurrentActivity() learning.ActivityType {
	if !e.active {
		return ""
	}
	return e.currentActivity
}

// Cleanup releases collaborator resources. The engine is unusable after.
func (e *Engine) Cleanup() {
	if err := e.voice.Cleanup(); err != nil {
		e.log.WithError(err).Warn("voice cleanup failed")
	}
	e.currentResult = nil
	e.currentActivity = ""
	e.active = false
}
