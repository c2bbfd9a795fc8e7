// Package media abstracts visual-learning content generation (images,
// flashcards). Like voice, a missing backend degrades to a no-op.
package media

import (
	"context"

	"github.com/tomhallmain/Spracherwerb/internal/learning"
)

// Generator produces visual content for a learning spot.
type Generator interface {
	// Generate produces media for the given content and returns a
	// reference to the artifact (a file path or URL), or "" when the
	// backend produced nothing.
	Generate(ctx context.Context, content string, activityType learning.ActivityType) (string, error)
}

// Noop is the degraded Generator used when visual learning is disabled
// or no backend is configured.
type Noop struct{}

func (Noop) Generate(context.Context, string, learning.ActivityType) (string, error) {
	return "", nil
}

// Request is one recorded generation call.
type Request struct {
	Content      string
	ActivityType learning.ActivityType
}

// Recorder is a Generator that records calls and returns a fixed artifact
// reference. Test helper.
type Recorder struct {
	Artifact string
	Err      error
	Requests []Request
}

func (r *Recorder) Generate(_ context.Context, content string, activityType learning.ActivityType) (string, error) {
	r.Requests = append(r.Requests, Request{Content: content, ActivityType: activityType})
	if r.Err != nil {
		return "", r.Err
	}
	return r.Artifact, nil
}
