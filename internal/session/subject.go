package session

import (
	"sync"

	"github.com/google/uuid"
)

// SubjectIDGenerator produces the identifier stamped on every result row.
// Implemented by UUIDv7Generator (production) and FixedGenerator (tests).
type SubjectIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 subject ids.
//
// UUIDv7 embeds a timestamp in the most significant bits, so result files
// sort by session start.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7.
// Panics if UUID generation fails (should never happen in practice).
func (UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedGenerator returns predetermined subject ids in order.
//
// Panics when all ids are consumed; a test that starts more sessions than it
// scripted is misconfigured.
type FixedGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedGenerator creates a generator that returns ids in order.
func NewFixedGenerator(ids ...string) *FixedGenerator {
	return &FixedGenerator{ids: ids}
}

// Generate returns the next predetermined id.
func (g *FixedGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.idx >= len(g.ids) {
		panic("FixedGenerator: all subject ids exhausted")
	}
	id := g.ids[g.idx]
	g.idx++
	return id
}
