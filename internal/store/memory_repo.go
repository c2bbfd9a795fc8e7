package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/tomhallmain/Spracherwerb/internal/learning"
	"github.com/tomhallmain/Spracherwerb/internal/memory"
)

const savedAtKey = "memory_saved_at"

// MemoryRepo persists the reduced learning-memory projection.
// It implements memory.Store.
type MemoryRepo struct {
	db *sql.DB
}

// LoadProjection reads the persisted projection. Returns (nil, nil) when
// no projection has ever been saved.
func (r *MemoryRepo) LoadProjection(ctx context.Context) (*memory.Projection, error) {
	var savedAt string
	err := r.db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = ?`, savedAtKey).Scan(&savedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query meta: %w", err)
	}

	proj := &memory.Projection{
		Vocabulary:       make(map[string][]string),
		GrammarPoints:    make(map[string][]string),
		ActivityProgress: make(map[string]map[learning.ActivityType]int),
		Snapshots:        make(map[time.Time]learning.SpotSnapshot),
	}

	if err := r.loadPairs(ctx, `SELECT language, word FROM vocabulary ORDER BY rowid`, proj.Vocabulary); err != nil {
		return nil, fmt.Errorf("load vocabulary: %w", err)
	}
	if err := r.loadPairs(ctx, `SELECT language, point FROM grammar_points ORDER BY rowid`, proj.GrammarPoints); err != nil {
		return nil, fmt.Errorf("load grammar points: %w", err)
	}
	if err := r.loadProgress(ctx, proj); err != nil {
		return nil, fmt.Errorf("load activity progress: %w", err)
	}
	if err := r.loadSessionHistory(ctx, proj); err != nil {
		return nil, fmt.Errorf("load session history: %w", err)
	}
	if err := r.loadSnapshots(ctx, proj); err != nil {
		return nil, fmt.Errorf("load snapshots: %w", err)
	}

	return proj, nil
}

func (r *MemoryRepo) loadPairs(ctx context.Context, query string, dest map[string][]string) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var language, value string
		if err := rows.Scan(&language, &value); err != nil {
			return err
		}
		dest[language] = append(dest[language], value)
	}
	return rows.Err()
}

func (r *MemoryRepo) loadProgress(ctx context.Context, proj *memory.Projection) error {
	rows, err := r.db.QueryContext(ctx, `SELECT language, activity_type, count FROM activity_progress`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var language, activityType string
		var count int
		if err := rows.Scan(&language, &activityType, &count); err != nil {
			return err
		}
		byActivity := proj.ActivityProgress[language]
		if byActivity == nil {
			byActivity = make(map[learning.ActivityType]int)
			proj.ActivityProgress[language] = byActivity
		}
		byActivity[learning.ActivityType(activityType)] = count
	}
	return rows.Err()
}

func (r *MemoryRepo) loadSessionHistory(ctx context.Context, proj *memory.Projection) error {
	rows, err := r.db.QueryContext(ctx, `SELECT data FROM session_history ORDER BY position`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return err
		}
		var record memory.SessionRecord
		if err := json.Unmarshal([]byte(data), &record); err != nil {
			return fmt.Errorf("decode session record: %w", err)
		}
		proj.SessionHistory = append(proj.SessionHistory, record)
	}
	return rows.Err()
}

func (r *MemoryRepo) loadSnapshots(ctx context.Context, proj *memory.Projection) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT created_at, content, was_spoken, interaction_type, requires_response, media_generated, activity_type
		FROM spot_snapshots`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var createdAt int64
		var snap learning.SpotSnapshot
		var wasSpoken, requiresResponse, mediaGenerated int
		var interactionType, activityType string
		if err := rows.Scan(&createdAt, &snap.Content, &wasSpoken, &interactionType, &requiresResponse, &mediaGenerated, &activityType); err != nil {
			return err
		}
		snap.CreatedAt = time.Unix(0, createdAt).UTC()
		snap.WasSpoken = wasSpoken != 0
		snap.InteractionType = learning.InteractionType(interactionType)
		snap.RequiresResponse = requiresResponse != 0
		snap.MediaGenerated = mediaGenerated != 0
		snap.ActivityType = learning.ActivityType(activityType)
		proj.Snapshots[snap.CreatedAt] = snap
	}
	return rows.Err()
}

// SaveProjection replaces the persisted projection in one transaction.
func (r *MemoryRepo) SaveProjection(ctx context.Context, proj *memory.Projection) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"vocabulary", "grammar_points", "activity_progress", "session_history", "spot_snapshots"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for language, words := range proj.Vocabulary {
		for _, word := range words {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO vocabulary (language, word) VALUES (?, ?)`, language, word); err != nil {
				return fmt.Errorf("insert vocabulary: %w", err)
			}
		}
	}

	for language, points := range proj.GrammarPoints {
		for _, point := range points {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO grammar_points (language, point) VALUES (?, ?)`, language, point); err != nil {
				return fmt.Errorf("insert grammar point: %w", err)
			}
		}
	}

	for language, byActivity := range proj.ActivityProgress {
		for activityType, count := range byActivity {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO activity_progress (language, activity_type, count) VALUES (?, ?, ?)`,
				language, string(activityType), count); err != nil {
				return fmt.Errorf("insert activity progress: %w", err)
			}
		}
	}

	for _, record := range proj.SessionHistory {
		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("encode session record: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO session_history (data) VALUES (?)`, string(data)); err != nil {
			return fmt.Errorf("insert session record: %w", err)
		}
	}

	for _, snap := range proj.Snapshots {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO spot_snapshots
			(created_at, content, was_spoken, interaction_type, requires_response, media_generated, activity_type)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			snap.CreatedAt.UnixNano(),
			snap.Content,
			boolToInt(snap.WasSpoken),
			string(snap.InteractionType),
			boolToInt(snap.RequiresResponse),
			boolToInt(snap.MediaGenerated),
			string(snap.ActivityType),
		); err != nil {
			return fmt.Errorf("insert snapshot: %w", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		savedAtKey, time.Now().UTC().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("update meta: %w", err)
	}

	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
