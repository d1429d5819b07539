package testutil

import (
	"fmt"
	"sync"
)

// SequentialIDs generates run ids "<prefix>-1", "<prefix>-2", ...
//
// Unlike uuid.NewV7 the sequence is reproducible, which keeps golden
// output stable. Reset restarts it for test reuse.
type SequentialIDs struct {
	mu     sync.Mutex
	prefix string
	seq    int64
}

// NewSequentialIDs creates a generator. An empty prefix becomes "run".
func NewSequentialIDs(prefix string) *SequentialIDs {
	if prefix == "" {
		prefix = "run"
	}
	return &SequentialIDs{prefix: prefix}
}

// Next returns the next id. It never fails; the error matches the
// run id generator signature.
func (g *SequentialIDs) Next() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq++
	return fmt.Sprintf("%s-%d", g.prefix, g.seq), nil
}

// Reset restarts the sequence at 1.
func (g *SequentialIDs) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.seq = 0
}
