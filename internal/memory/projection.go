package memory

import (
	"context"
	"time"

	"github.com/tomhallmain/Spracherwerb/internal/learning"
)

// Projection is the reduced persisted form of Memory. The live spot rings
// are deliberately excluded to bound serialized size; they are
// session-local and rebuilt from scratch each process.
type Projection struct {
	Vocabulary       map[string][]string
	GrammarPoints    map[string][]string
	ActivityProgress map[string]map[learning.ActivityType]int
	SessionHistory   []SessionRecord
	Snapshots        map[time.Time]learning.SpotSnapshot
}

// Store persists the reduced projection. LoadProjection returns (nil, nil)
// when no projection has ever been saved.
type Store interface {
	LoadProjection(ctx context.Context) (*Projection, error)
	SaveProjection(ctx context.Context, proj *Projection) error
}
