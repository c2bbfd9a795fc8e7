package learning

import "time"

// maxHistoryEntries caps the rolling interaction-history buffer.
const maxHistoryEntries = 100

// History is the rolling buffer of lightweight interaction records that
// lets a profile answer "is this the first interaction ever seen" without
// consulting a collaborator. It is owned by whoever wires the decision
// engine, never shared process-wide.
type History struct {
	entries []*Spot
}

// NewHistory creates an empty interaction-history buffer.
func NewHistory() *History {
	return &History{}
}

// Len returns the number of recorded entries.
func (h *History) Len() int { return len(h.entries) }

// Empty reports whether no interactions have been recorded.
func (h *History) Empty() bool { return len(h.entries) == 0 }

// Record appends a lightweight record for content unless it matches the
// most recently recorded entry. Oldest entries are evicted past the cap.
func (h *History) Record(content string, now time.Time) {
	if content == "" {
		return
	}
	if n := len(h.entries); n > 0 && h.entries[n-1].Content == content {
		return
	}
	h.entries = append(h.entries, NewSpot(content, now))
	if len(h.entries) > maxHistoryEntries {
		h.entries = h.entries[len(h.entries)-maxHistoryEntries:]
	}
}

// MarkSpoken flips the was-spoken flag on the first entry matching content.
// Scanning stops at the first match, so repeated calls are idempotent.
func (h *History) MarkSpoken(content string) {
	for _, spot := range h.entries {
		if spot.Content == content {
			spot.MarkSpoken()
			return
		}
	}
}

// Last returns the most recently recorded entry, or nil.
func (h *History) Last() *Spot {
	if len(h.entries) == 0 {
		return nil
	}
	return h.entries[len(h.entries)-1]
}
