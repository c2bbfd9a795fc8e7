// Package voice abstracts text-to-speech output. The core treats speech
// as a best-effort collaborator: a missing backend degrades to a no-op,
// never a failure.
package voice

import "context"

// Voice speaks tutor content aloud.
type Voice interface {
	// Say speaks text immediately. The topic labels the utterance for
	// queue management in backends that batch speech.
	Say(ctx context.Context, text, topic string) error

	// PrepareToSay queues text for later playback without blocking.
	PrepareToSay(ctx context.Context, text, topic string) error

	// Pause suspends playback.
	Pause()

	// Resume continues suspended playback.
	Resume()

	// Cleanup releases backend resources. Safe to call more than once.
	Cleanup() error
}

// Noop is the degraded Voice used when no speech backend is configured.
type Noop struct{}

func (Noop) Say(context.Context, string, string) error          { return nil }
func (Noop) PrepareToSay(context.Context, string, string) error { return nil }
func (Noop) Pause()                                             {}
func (Noop) Resume()                                            {}
func (Noop) Cleanup() error                                     { return nil }

// Utterance is one recorded speech request.
type Utterance struct {
	Text  string
	Topic string
}

// Recorder is a Voice that records calls for tests.
type Recorder struct {
	Said      []Utterance
	Prepared  []Utterance
	Paused    int
	Resumed   int
	CleanedUp int
}

func (r *Recorder) Say(_ context.Context, text, topic string) error {
	r.Said = append(r.Said, Utterance{Text: text, Topic: topic})
	return nil
}

func (r *Recorder) PrepareToSay(_ context.Context, text, topic string) error {
	r.Prepared = append(r.Prepared, Utterance{Text: text, Topic: topic})
	return nil
}

func (r *Recorder) Pause()  { r.Paused++ }
func (r *Recorder) Resume() { r.Resumed++ }

func (r *Recorder) Cleanup() error {
	r.CleanedUp++
	return nil
}
