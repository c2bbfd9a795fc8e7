package memory

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tomhallmain/Spracherwerb/internal/learning"
)

const (
	// DefaultMaxMemorySize caps the live learning-spot ring.
	DefaultMaxMemorySize = 1000

	// DefaultMaxHistoricalSnapshots caps the evicted snapshot map.
	DefaultMaxHistoricalSnapshots = 5000

	// maxSessionHistory caps the rolling list of completed sessions.
	maxSessionHistory = 100
)

// Config tunes the memory bounds.
type Config struct {
	MaxMemorySize          int
	MaxHistoricalSnapshots int
	Logger                 logrus.FieldLogger
}

// SessionRecord is the compact trace a completed session leaves behind.
type SessionRecord struct {
	SessionID            string        `json:"session_id"`
	Language             string        `json:"language"`
	StartedAt            time.Time     `json:"started_at"`
	Duration             time.Duration `json:"duration"`
	ActivitiesCompleted  int           `json:"activities_completed"`
	VocabularyLearned    int           `json:"vocabulary_learned"`
	GrammarPointsCovered int           `json:"grammar_points_covered"`
}

// Memory is the bounded cross-session store of learning spots and
// progress counters. It assumes a single-threaded caller: one active
// session at a time, enforced by the session manager.
type Memory struct {
	allSpots     []*learning.Spot // most recent first
	sessionSpots []*learning.Spot // most recent first, scoped to one session

	snapshots map[time.Time]learning.SpotSnapshot

	vocabulary       map[string][]string
	grammarPoints    map[string][]string
	activityProgress map[string]map[learning.ActivityType]int
	sessionHistory   []SessionRecord

	maxMemorySize int
	maxSnapshots  int
	log           logrus.FieldLogger
}

// New creates an empty memory with the given bounds. Zero bounds fall back
// to the defaults.
func New(cfg Config) *Memory {
	if cfg.MaxMemorySize <= 0 {
		cfg.MaxMemorySize = DefaultMaxMemorySize
	}
	if cfg.MaxHistoricalSnapshots <= 0 {
		cfg.MaxHistoricalSnapshots = DefaultMaxHistoricalSnapshots
	}
	if cfg.Logger == nil {
		cfg.Logger = logrus.StandardLogger()
	}
	return &Memory{
		snapshots:        make(map[time.Time]learning.SpotSnapshot),
		vocabulary:       make(map[string][]string),
		grammarPoints:    make(map[string][]string),
		activityProgress: make(map[string]map[learning.ActivityType]int),
		maxMemorySize:    cfg.MaxMemorySize,
		maxSnapshots:     cfg.MaxHistoricalSnapshots,
		log:              cfg.Logger,
	}
}

// RecordSpot prepends a spot to the live ring. Spots pushed past the cap
// are converted to snapshots keyed by creation time; the insert-then-cap
// sequence runs as a unit on the calling goroutine.
func (m *Memory) RecordSpot(spot *learning.Spot, activityType learning.ActivityType) {
	m.allSpots = append([]*learning.Spot{spot}, m.allSpots...)

	if len(m.allSpots) > m.maxMemorySize {
		for _, evicted := range m.allSpots[m.maxMemorySize:] {
			m.addSnapshot(evicted, activityType)
		}
		m.allSpots = m.allSpots[:m.maxMemorySize]
	}
}

// addSnapshot stores the compact form of an evicted spot and purges the
// oldest snapshots past the cap.
func (m *Memory) addSnapshot(spot *learning.Spot, activityType learning.ActivityType) {
	m.snapshots[spot.CreatedAt] = learning.SnapshotOf(spot, activityType)

	if len(m.snapshots) <= m.maxSnapshots {
		return
	}
	keys := make([]time.Time, 0, len(m.snapshots))
	for k := range m.snapshots {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })
	for _, k := range keys[:len(keys)-m.maxSnapshots] {
		delete(m.snapshots, k)
	}
}

// RecordSessionSpot prepends a spot to the session-scoped ring with the
// same cap behavior as the live ring.
func (m *Memory) RecordSessionSpot(spot *learning.Spot) {
	m.sessionSpots = append([]*learning.Spot{spot}, m.sessionSpots...)
	if len(m.sessionSpots) > m.maxMemorySize {
		m.sessionSpots = m.sessionSpots[:m.maxMemorySize]
	}
}

// ClearSessionSpots resets the session-scoped ring at a session boundary.
func (m *Memory) ClearSessionSpots() {
	m.sessionSpots = nil
}

// PreviousSessionSpot returns the spot idx positions back in the
// most-recent-first session ring. When createdBefore is non-zero, the scan
// first skips entries at or after that cutoff (starting at position idx)
// and then applies idx again as an offset past the cutoff. The double use
// of idx is intentional: it lets a caller asking for the Nth-previous
// spot older than its own creation time compose with a backward scan.
func (m *Memory) PreviousSessionSpot(idx int, createdBefore time.Time) *learning.Spot {
	if len(m.sessionSpots) <= idx {
		return nil
	}
	if createdBefore.IsZero() {
		return m.sessionSpots[idx]
	}

	base, ok := m.findCutoffPosition(idx, createdBefore)
	if !ok {
		return nil
	}
	return m.offsetFrom(base, idx)
}

// findCutoffPosition scans forward from position start for the first spot
// created strictly before the cutoff.
func (m *Memory) findCutoffPosition(start int, cutoff time.Time) (int, bool) {
	pos := start
	for pos < len(m.sessionSpots) {
		if m.sessionSpots[pos].CreatedAt.Before(cutoff) {
			return pos, true
		}
		pos++
	}
	return 0, false
}

// offsetFrom returns the spot idx positions past base, or nil out of range.
func (m *Memory) offsetFrom(base, idx int) *learning.Spot {
	target := base + idx
	if target >= len(m.sessionSpots) {
		return nil
	}
	return m.sessionSpots[target]
}

// AddVocabulary records a learned word for a language. Duplicate words are
// a no-op.
func (m *Memory) AddVocabulary(language, word string) {
	m.vocabulary[language] = appendUnique(m.vocabulary[language], word)
}

// AddGrammarPoint records a covered grammar point for a language.
// Duplicates are a no-op.
func (m *Memory) AddGrammarPoint(language, point string) {
	m.grammarPoints[language] = appendUnique(m.grammarPoints[language], point)
}

func appendUnique(list []string, item string) []string {
	for _, existing := range list {
		if existing == item {
			return list
		}
	}
	return append(list, item)
}

// AdvanceActivityProgress increments the per-language counter for an
// activity type, initializing it on first touch.
func (m *Memory) AdvanceActivityProgress(language string, activityType learning.ActivityType) {
	byActivity := m.activityProgress[language]
	if byActivity == nil {
		byActivity = make(map[learning.ActivityType]int)
		m.activityProgress[language] = byActivity
	}
	byActivity[activityType]++
}

// AddSessionToHistory appends a completed session, dropping the oldest
// records past the cap.
func (m *Memory) AddSessionToHistory(record SessionRecord) {
	m.sessionHistory = append(m.sessionHistory, record)
	if len(m.sessionHistory) > maxSessionHistory {
		m.sessionHistory = m.sessionHistory[len(m.sessionHistory)-maxSessionHistory:]
	}
}

// Vocabulary returns the learned words for a language.
func (m *Memory) Vocabulary(language string) []string { return m.vocabulary[language] }

// GrammarPoints returns the covered grammar points for a language.
func (m *Memory) GrammarPoints(language string) []string { return m.grammarPoints[language] }

// ActivityProgress returns the per-activity counters for a language.
func (m *Memory) ActivityProgress(language string) map[learning.ActivityType]int {
	return m.activityProgress[language]
}

// SessionHistory returns the rolling list of completed sessions.
func (m *Memory) SessionHistory() []SessionRecord { return m.sessionHistory }

// SpotCount returns the size of the live spot ring.
func (m *Memory) SpotCount() int { return len(m.allSpots) }

// SnapshotCount returns the size of the historical snapshot map.
func (m *Memory) SnapshotCount() int { return len(m.snapshots) }

// Snapshots returns the historical snapshots keyed by creation time.
func (m *Memory) Snapshots() map[time.Time]learning.SpotSnapshot { return m.snapshots }

// Load restores the reduced projection from the store. A missing
// projection initializes empty state; any other failure is logged and the
// current state is left as-is. Live spot rings are session-local and are
// never restored.
func (m *Memory) Load(ctx context.Context, store Store) {
	proj, err := store.LoadProjection(ctx)
	if err != nil {
		m.log.Warnf("error loading learning memory: %v", err)
		return
	}
	if proj == nil {
		return
	}
	if proj.Vocabulary != nil {
		m.vocabulary = proj.Vocabulary
	}
	if proj.GrammarPoints != nil {
		m.grammarPoints = proj.GrammarPoints
	}
	if proj.ActivityProgress != nil {
		m.activityProgress = proj.ActivityProgress
	}
	if proj.SessionHistory != nil {
		m.sessionHistory = proj.SessionHistory
	}
	if proj.Snapshots != nil {
		m.snapshots = proj.Snapshots
	}
}

// Save persists the reduced projection. Failures are logged; in-memory
// state stays valid for the rest of the process either way.
func (m *Memory) Save(ctx context.Context, store Store) {
	proj := &Projection{
		Vocabulary:       m.vocabulary,
		GrammarPoints:    m.grammarPoints,
		ActivityProgress: m.activityProgress,
		SessionHistory:   m.sessionHistory,
		Snapshots:        m.snapshots,
	}
	if err := store.SaveProjection(ctx, proj); err != nil {
		m.log.Warnf("error saving learning memory: %v", err)
	}
}
