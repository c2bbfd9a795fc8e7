package engine

import (
	"fmt"

	"github.com/tomhallmain/Spracherwerb/internal/learning"
	"github.com/tomhallmain/Spracherwerb/internal/llm"
	"github.com/tomhallmain/Spracherwerb/internal/session"
)

// activitySchema is the structured output contract for activity content.
var activitySchema = &llm.Schema{
	Name:        "learning-activity",
	Description: "Content for one language learning activity",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{
				"type":        "string",
				"description": "The teaching content to present to the learner",
			},
			"expected_responses": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Acceptable learner responses, empty if none expected",
			},
			"new_words": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "New vocabulary introduced by this content",
			},
			"grammar_points": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Grammar points covered by this content",
			},
		},
		"required": []any{"content"},
	},
}

// responseSchema is the structured output contract for follow-up turns.
var responseSchema = &llm.Schema{
	Name:        "tutor-response",
	Description: "The tutor's reply to a learner response",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"content": map[string]any{
				"type":        "string",
				"description": "The tutor's reply",
			},
			"correct": map[string]any{
				"type":        "boolean",
				"description": "Whether the learner's response was acceptable",
			},
		},
		"required": []any{"content"},
	},
}

// activityContent is the parsed form of an activitySchema response.
type activityContent struct {
	Content           string   `json:"content"`
	ExpectedResponses []string `json:"expected_responses"`
	NewWords          []string `json:"new_words"`
	GrammarPoints     []string `json:"grammar_points"`
}

// tutorReply is the parsed form of a responseSchema response.
type tutorReply struct {
	Content string `json:"content"`
	Correct bool   `json:"correct"`
}

// activityInstructions maps each activity type to its prompt template.
var activityInstructions = map[learning.ActivityType]string{
	learning.ActivityVocabularyBuilder:      "Introduce a small set of %s vocabulary words with example sentences.",
	learning.ActivityGrammarPractice:        "Teach one %s grammar point with examples and a short exercise.",
	learning.ActivityConversationPractice:   "Start a short everyday conversation in %s and invite the learner to reply.",
	learning.ActivityListeningComprehension: "Produce a short %s passage to be read aloud, followed by a comprehension question.",
	learning.ActivityWritingPractice:        "Give the learner a short %s writing task with a model answer.",
	learning.ActivityCulturalContext:        "Explain one cultural topic relevant to %s speakers, weaving in useful phrases.",
	learning.ActivityPronunciationGuide:     "Walk through the pronunciation of a few tricky %s sounds with example words.",
	learning.ActivityIdiomsAndExpressions:   "Teach a few common %s idioms with literal and figurative meanings.",
	learning.ActivityReadingComprehension:   "Provide a short %s text and ask questions that check understanding.",
	learning.ActivitySituationalDialogues:   "Present a situational %s dialogue (shop, station, restaurant) with key phrases.",
	learning.ActivityVisualVocabulary:       "Describe a visual scene and teach the %s vocabulary needed to talk about it.",
}

// systemPrompt builds the tutor persona for a session.
func systemPrompt(cfg session.Config) string {
	return fmt.Sprintf(
		"You are a patient %s language tutor. Teach at the %s level, keep turns short, "+
			"and always respond with JSON matching the requested schema.",
		cfg.Language, cfg.VocabularyDifficulty)
}

// activityPrompt builds the user prompt that kicks off an activity.
func activityPrompt(activityType learning.ActivityType, cfg session.Config) string {
	instruction, ok := activityInstructions[activityType]
	if !ok {
		instruction = "Run a short %s learning activity."
	}
	return fmt.Sprintf(instruction, cfg.Language)
}

// responsePrompt builds the user prompt for a learner's reply.
func responsePrompt(activityType learning.ActivityType, response string) string {
	return fmt.Sprintf(
		"The learner responded to the %s activity with: %q. "+
			"Evaluate the response and continue the activity.",
		activityType, response)
}
