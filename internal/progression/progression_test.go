package progression

import (
	"testing"
	"time"

	"github.com/tomhallmain/Spracherwerb/internal/learning"
	"github.com/tomhallmain/Spracherwerb/internal/memory"
)

func newTestProgression(mem *memory.Memory) *Progression {
	return New(Config{
		Language: "de",
		Memory:   mem,
		Clock:    learning.FixedClock(time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)),
	})
}

func TestStartNext_EmptyQueue(t *testing.T) {
	p := newTestProgression(nil)
	if got := p.StartNext(); got != nil {
		t.Errorf("StartNext on empty queue = %v, want nil", got)
	}
}

func TestStartNext_AttachesSpot(t *testing.T) {
	p := newTestProgression(nil)
	p.Add(NewActivity(learning.ActivityVocabularyBuilder, "Haus means house", []string{"house"}, 3, false))
	p.Add(NewActivity(learning.ActivityCulturalContext, "On greetings", nil, 3, false))

	first := p.StartNext()
	if first == nil {
		t.Fatal("expected an activity")
	}
	if first.Spot == nil {
		t.Fatal("expected a spot to be attached")
	}
	if first.Spot.Content != "Haus means house" {
		t.Errorf("spot content = %q, want activity content", first.Spot.Content)
	}
	if !first.Spot.RequiresResponse {
		t.Error("expected RequiresResponse when the activity has expected responses")
	}
	if first.StartTime.IsZero() {
		t.Error("expected StartTime to be stamped")
	}

	p.CompleteCurrent()
	second := p.StartNext()
	if second.Spot.RequiresResponse {
		t.Error("expected no RequiresResponse without expected responses")
	}
}

func TestExclusiveStateInvariant(t *testing.T) {
	// An activity lives in exactly one of queue, current slot, completed.
	p := newTestProgression(nil)
	a := NewActivity(learning.ActivityGrammarPractice, "dative prepositions", nil, 5, false)
	p.Add(a)

	if len(p.Upcoming()) != 1 || p.Current() != nil || len(p.Completed()) != 0 {
		t.Fatal("queued activity not exclusively in the queue")
	}

	p.StartNext()
	if len(p.Upcoming()) != 0 || p.Current() != a || len(p.Completed()) != 0 {
		t.Fatal("current activity not exclusively current")
	}

	p.CompleteCurrent()
	if len(p.Upcoming()) != 0 || p.Current() != nil || len(p.Completed()) != 1 {
		t.Fatal("completed activity not exclusively completed")
	}
	if len(p.History()) != 1 {
		t.Errorf("history length = %d, want 1", len(p.History()))
	}
}

func TestCompleteCurrent_PushesSpotIntoMemory(t *testing.T) {
	mem := memory.New(memory.Config{})
	p := newTestProgression(mem)
	p.Add(NewActivity(learning.ActivityVocabularyBuilder, "Baum means tree", nil, 2, false))

	p.StartNext()
	p.CompleteCurrent()

	if mem.SpotCount() != 1 {
		t.Errorf("memory spot count = %d, want 1", mem.SpotCount())
	}
	if p.Current() != nil {
		t.Error("expected no current activity after completion")
	}

	// Completing with nothing current is a no-op.
	p.CompleteCurrent()
	if mem.SpotCount() != 1 {
		t.Error("no-op completion must not touch memory")
	}
}

func TestAdd_AdvancesActivityProgress(t *testing.T) {
	mem := memory.New(memory.Config{})
	p := newTestProgression(mem)
	p.Add(NewActivity(learning.ActivityVocabularyBuilder, "a", nil, 3, false))
	p.Add(NewActivity(learning.ActivityVocabularyBuilder, "b", nil, 3, false))

	if got := mem.ActivityProgress("de")[learning.ActivityVocabularyBuilder]; got != 2 {
		t.Errorf("activity progress = %d, want 2", got)
	}
}

func TestAddUserResponse_OnlyWhileCurrent(t *testing.T) {
	p := newTestProgression(nil)
	p.AddUserResponse("ignored")

	p.Add(NewActivity(learning.ActivityConversationPractice, "introduce yourself", []string{"ich heisse"}, 4, false))
	p.StartNext()
	p.AddUserResponse("Ich heisse Anna")

	a := p.Current()
	if len(a.UserResponses) != 1 || a.UserResponses[0] != "Ich heisse Anna" {
		t.Errorf("user responses = %v, want one recorded response", a.UserResponses)
	}
}

func TestAdjustDifficulty_ClampsQueuedActivities(t *testing.T) {
	p := newTestProgression(nil)
	p.Add(NewActivity(learning.ActivityGrammarPractice, "a", nil, 2, false))
	p.Add(NewActivity(learning.ActivityGrammarPractice, "b", nil, 9, false))

	p.AdjustDifficulty(3)
	if got := p.Upcoming()[0].DifficultyLevel; got != 5 {
		t.Errorf("difficulty = %d, want 5", got)
	}
	if got := p.Upcoming()[1].DifficultyLevel; got != 10 {
		t.Errorf("difficulty = %d, want clamp at 10", got)
	}

	p.AdjustDifficulty(-20)
	for i, a := range p.Upcoming() {
		if a.DifficultyLevel != 1 {
			t.Errorf("activity %d difficulty = %d, want clamp at 1", i, a.DifficultyLevel)
		}
	}
}

func TestReorder(t *testing.T) {
	p := newTestProgression(nil)
	for _, content := range []string{"a", "b", "c"} {
		p.Add(NewActivity(learning.ActivityVocabularyBuilder, content, nil, 3, false))
	}

	if err := p.Reorder([]int{2, 0, 1}); err != nil {
		t.Fatalf("Reorder returned %v", err)
	}
	got := []string{p.Upcoming()[0].Content, p.Upcoming()[1].Content, p.Upcoming()[2].Content}
	want := []string{"c", "a", "b"}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("queue[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReorder_RejectsInvalidOrder(t *testing.T) {
	p := newTestProgression(nil)
	for _, content := range []string{"a", "b"} {
		p.Add(NewActivity(learning.ActivityVocabularyBuilder, content, nil, 3, false))
	}

	cases := [][]int{
		{0},       // length mismatch
		{0, 0},    // duplicate index
		{0, 5},    // out of range
		{0, 1, 2}, // too long
	}
	for _, order := range cases {
		if err := p.Reorder(order); err == nil {
			t.Errorf("Reorder(%v) accepted an invalid order", order)
		}
		if p.Upcoming()[0].Content != "a" || p.Upcoming()[1].Content != "b" {
			t.Fatalf("queue changed after rejected Reorder(%v)", order)
		}
	}
}

func TestMarkCompleted_SetOnce(t *testing.T) {
	a := NewActivity(learning.ActivityWritingPractice, "write a postcard", nil, 4, false)
	first := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	a.StartTime = first.Add(-time.Minute)
	a.MarkCompleted(first)
	a.MarkCompleted(first.Add(time.Hour))

	if !a.EndTime.Equal(first) {
		t.Errorf("EndTime = %v, want first completion time %v", a.EndTime, first)
	}
	if a.Duration() != time.Minute {
		t.Errorf("Duration = %v, want 1m", a.Duration())
	}
}

func TestProgress_SumsCompletedDurations(t *testing.T) {
	p := newTestProgression(nil)
	p.Add(NewActivity(learning.ActivityVocabularyBuilder, "a", nil, 3, false))

	a := p.StartNext()
	a.StartTime = a.StartTime.Add(-30 * time.Second)
	p.CompleteCurrent()

	progress := p.Progress()
	if progress.CompletedCount != 1 || progress.UpcomingCount != 0 || progress.TotalActivities != 1 {
		t.Errorf("unexpected counts: %+v", progress)
	}
	if progress.SessionDuration != 30 {
		t.Errorf("SessionDuration = %v, want 30", progress.SessionDuration)
	}
}

func TestNewActivity_ClampsDifficulty(t *testing.T) {
	if got := NewActivity(learning.ActivityVocabularyBuilder, "a", nil, 0, false).DifficultyLevel; got != 1 {
		t.Errorf("difficulty = %d, want 1", got)
	}
	if got := NewActivity(learning.ActivityVocabularyBuilder, "a", nil, 99, false).DifficultyLevel; got != 10 {
		t.Errorf("difficulty = %d, want 10", got)
	}
}
