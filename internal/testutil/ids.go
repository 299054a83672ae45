package testutil

import (
	"fmt"
	"sync"
)

// FixedIDGenerator returns predetermined identifiers in order.
//
// It satisfies store.IDGenerator so catalog tests can assert on exact batch
// IDs. Once the list is exhausted it returns the last identifier with a
// counter suffix ("last-2", "last-3", ...), so IDs stay unique.
//
// Thread-safety: FixedIDGenerator is safe for concurrent use.
type FixedIDGenerator struct {
	mu  sync.Mutex
	ids []string
	idx int
}

// NewFixedIDGenerator creates a generator over ids. With no ids it starts
// from "test-batch-default".
func NewFixedIDGenerator(ids ...string) *FixedIDGenerator {
	if len(ids) == 0 {
		ids = []string{"test-batch-default"}
	}
	return &FixedIDGenerator{ids: ids}
}

// Generate returns the next identifier.
func (g *FixedIDGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	n := g.idx
	g.idx++
	if n < len(g.ids) {
		return g.ids[n]
	}
	return fmt.Sprintf("%s-%d", g.ids[len(g.ids)-1], n-len(g.ids)+2)
}
