package engine

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/tomhallmain/Spracherwerb/internal/learning"
	"github.com/tomhallmain/Spracherwerb/internal/llm"
	"github.com/tomhallmain/Spracherwerb/internal/media"
	"github.com/tomhallmain/Spracherwerb/internal/memory"
	"github.com/tomhallmain/Spracherwerb/internal/session"
	"github.com/tomhallmain/Spracherwerb/internal/voice"
)

func contentResponse(content string, words, points []string) llm.MockResponse {
	payload := map[string]any{
		"content":        content,
		"new_words":      words,
		"grammar_points": points,
	}
	raw, _ := json.Marshal(payload)
	return llm.MockResponse{Content: raw}
}

type engineFixture struct {
	engine *Engine
	state  *session.Context
	mem    *memory.Memory
	mock   *llm.MockProvider
	voice  *voice.Recorder
	media  *media.Recorder
}

func newFixture(t *testing.T, responses ...llm.MockResponse) *engineFixture {
	t.Helper()
	clock := learning.FixedClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC))
	state := session.NewContext(clock)
	mem := memory.New(memory.Config{})
	mock := llm.NewMockProvider(responses...)
	vr := &voice.Recorder{}
	mr := &media.Recorder{Artifact: "image.png"}

	e := New(session.DefaultConfig("de"), state, Deps{
		Provider:       mock,
		Voice:          vr,
		Media:          mr,
		Memory:         mem,
		LearningConfig: learning.DefaultConfig(),
		Rand:           learning.FixedRand(0.99), // suppress all probability rolls
		Clock:          clock,
	})

	return &engineFixture{engine: e, state: state, mem: mem, mock: mock, voice: vr, media: mr}
}

func TestStartActivity_InactiveSession(t *testing.T) {
	f := newFixture(t)
	f.state.UpdateAction(session.ActionPause)

	_, err := f.engine.StartActivity(context.Background(), learning.ActivityVocabularyBuilder)
	if !errors.Is(err, ErrSessionInactive) {
		t.Fatalf("err = %v, want ErrSessionInactive", err)
	}
}

func TestStartActivity_RecordsVocabularyAndSpot(t *testing.T) {
	f := newFixture(t, contentResponse("Haus means house", []string{"Haus"}, nil))

	result, err := f.engine.StartActivity(context.Background(), learning.ActivityVocabularyBuilder)
	if err != nil {
		t.Fatalf("StartActivity: %v", err)
	}
	if result.Content != "Haus means house" {
		t.Errorf("content = %q", result.Content)
	}
	if len(result.NewWords) != 1 || result.NewWords[0] != "Haus" {
		t.Errorf("new words = %v", result.NewWords)
	}
	if got := f.mem.Vocabulary("de"); len(got) != 1 || got[0] != "Haus" {
		t.Errorf("memory vocabulary = %v", got)
	}
	if spot := f.mem.PreviousSessionSpot(0, time.Time{}); spot == nil || spot.Content != "Haus means house" {
		t.Errorf("session spot = %v, want the activity content", spot)
	}
	if f.engine.CurrentActivity() != learning.ActivityVocabularyBuilder {
		t.Errorf("current activity = %q", f.engine.CurrentActivity())
	}
}

func TestStartActivity_FirstInteractionSpeaks(t *testing.T) {
	// First interaction always introduces, so speech happens even with
	// every probability roll suppressed.
	f := newFixture(t, contentResponse("Willkommen!", nil, nil))

	if _, err := f.engine.StartActivity(context.Background(), learning.ActivityConversationPractice); err != nil {
		t.Fatalf("StartActivity: %v", err)
	}
	if len(f.voice.Prepared) != 1 || f.voice.Prepared[0].Text != "Willkommen!" {
		t.Fatalf("prepared utterances = %v, want the introduction", f.voice.Prepared)
	}
}

func TestStartActivity_ThreadsLLMContext(t *testing.T) {
	first := contentResponse("Erstens", nil, nil)
	first.Context = []int{7, 8, 9}
	f := newFixture(t, first, contentResponse("Zweitens", nil, nil))

	if _, err := f.engine.StartActivity(context.Background(), learning.ActivityVocabularyBuilder); err != nil {
		t.Fatalf("first StartActivity: %v", err)
	}
	if _, err := f.engine.CompleteActivity(); err != nil {
		t.Fatalf("CompleteActivity: %v", err)
	}
	if _, err := f.engine.StartActivity(context.Background(), learning.ActivityGrammarPractice); err != nil {
		t.Fatalf("second StartActivity: %v", err)
	}

	if got := f.mock.Calls[1].Context; len(got) != 3 || got[0] != 7 {
		t.Errorf("second request context = %v, want the threaded tokens", got)
	}
}

func TestProcessUserResponse(t *testing.T) {
	f := newFixture(t,
		contentResponse("Wie heisst du?", nil, nil),
		llm.MockResponse{Content: json.RawMessage(`{"content":"Sehr gut!","correct":true}`)},
	)

	if _, err := f.engine.StartActivity(context.Background(), learning.ActivityConversationPractice); err != nil {
		t.Fatalf("StartActivity: %v", err)
	}

	reply, err := f.engine.ProcessUserResponse(context.Background(), "Ich heisse Anna")
	if err != nil {
		t.Fatalf("ProcessUserResponse: %v", err)
	}
	if reply != "Sehr gut!" {
		t.Errorf("reply = %q", reply)
	}
	if len(f.voice.Said) != 1 || f.voice.Said[0].Text != "Sehr gut!" {
		t.Errorf("spoken replies = %v", f.voice.Said)
	}

	result, err := f.engine.CompleteActivity()
	if err != nil {
		t.Fatalf("CompleteActivity: %v", err)
	}
	if len(result.Responses) != 1 || result.Responses[0].UserInput != "Ich heisse Anna" {
		t.Errorf("recorded exchanges = %v", result.Responses)
	}
}

func TestProcessUserResponse_NoActivity(t *testing.T) {
	f := newFixture(t)
	if _, err := f.engine.ProcessUserResponse(context.Background(), "hallo"); !errors.Is(err, ErrNoActiveActivity) {
		t.Fatalf("err = %v, want ErrNoActiveActivity", err)
	}
}

func TestGenerateMedia_DisabledVisualLearning(t *testing.T) {
	f := newFixture(t)
	cfg := learning.DefaultConfig()
	cfg.EnableVisualLearning = false
	f.engine.learnCfg = cfg

	artifact, err := f.engine.GenerateMedia(context.Background(), "ein Haus")
	if err != nil {
		t.Fatalf("GenerateMedia: %v", err)
	}
	if artifact != "" {
		t.Errorf("artifact = %q, want empty when visual learning is off", artifact)
	}
	if len(f.media.Requests) != 0 {
		t.Error("backend must not be called when visual learning is off")
	}
}

func TestCompleteActivity_FoldsIntoSession(t *testing.T) {
	f := newFixture(t, contentResponse("Haus means house", []string{"Haus"}, nil))

	if _, err := f.engine.StartActivity(context.Background(), learning.ActivityVocabularyBuilder); err != nil {
		t.Fatalf("StartActivity: %v", err)
	}
	if _, err := f.engine.CompleteActivity(); err != nil {
		t.Fatalf("CompleteActivity: %v", err)
	}

	progress := f.state.Progress()
	if progress.ActivitiesCompleted != 1 || progress.VocabularyLearned != 1 {
		t.Errorf("session progress = %+v", progress)
	}
	if f.engine.CurrentActivity() != "" {
		t.Error("expected no current activity after completion")
	}

	if _, err := f.engine.CompleteActivity(); !errors.Is(err, ErrNoActiveActivity) {
		t.Errorf("second completion err = %v, want ErrNoActiveActivity", err)
	}
}

func TestHandleUserAction_PauseResumeVoice(t *testing.T) {
	f := newFixture(t)

	f.engine.HandleUserAction(session.ActionPause)
	if f.voice.Paused != 1 || f.state.State() != session.StatePaused {
		t.Error("pause did not propagate to voice and session")
	}

	f.engine.HandleUserAction(session.ActionResume)
	if f.voice.Resumed != 1 || f.state.State() != session.StateActive {
		t.Error("resume did not propagate to voice and session")
	}
}

func TestHandleUserAction_SkipCompletesActivity(t *testing.T) {
	f := newFixture(t, contentResponse("Inhalt", nil, nil))

	if _, err := f.engine.StartActivity(context.Background(), learning.ActivityReadingComprehension); err != nil {
		t.Fatalf("StartActivity: %v", err)
	}

	f.engine.HandleUserAction(session.ActionSkipActivity)
	if f.engine.CurrentActivity() != "" {
		t.Error("skip should complete the current activity")
	}
	if f.state.Progress().ActivitiesCompleted != 1 {
		t.Error("skipped activity should still be logged as completed")
	}
}

func TestCleanup(t *testing.T) {
	f := newFixture(t, contentResponse("Inhalt", nil, nil))
	if _, err := f.engine.StartActivity(context.Background(), learning.ActivityWritingPractice); err != nil {
		t.Fatalf("StartActivity: %v", err)
	}

	f.engine.Cleanup()
	if f.voice.CleanedUp != 1 {
		t.Error("expected voice cleanup")
	}
	if f.engine.CurrentActivity() != "" {
		t.Error("expected no current activity after cleanup")
	}
}
