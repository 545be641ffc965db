// Package ids generates the unique identifiers the data model needs:
// dense 64-bit numeric ids for Features and PeakGroups, and UUID-based
// identifiers for documents and source files where global (not just
// per-process) uniqueness matters.
package ids

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/openms-go/mscore/internal/errs"
)

// Generator hands out monotonically increasing 64-bit ids, scoped to a
// single instance so tests can construct independent generators instead
// of sharing hidden global state (see spec.md §9, "Mutable global
// state").
//
// The zero value is not usable; construct with NewGenerator.
type Generator struct {
	next atomic.Uint64
	mu   sync.Mutex // guards the depletion check below next
}

// NewGenerator returns a Generator whose first id is start (start=1 is
// the conventional choice; 0 is reserved to mean "unassigned").
func NewGenerator(start uint64) *Generator {
	g := &Generator{}
	g.next.Store(start)
	return g
}

// Next returns the next unique id from this generator. It returns
// DepletedIDPool if the 64-bit space has been exhausted, which in
// practice never happens but is checked so the contract is total.
func (g *Generator) Next() (uint64, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	v := g.next.Load()
	if v == ^uint64(0) {
		return 0, errs.New(errs.DepletedIDPool, "64-bit id pool exhausted")
	}
	g.next.Store(v + 1)
	return v, nil
}

// MustNext is Next but panics on depletion; convenient for
// construction paths that cannot return an error (e.g. default
// zero-value constructors for value types described in spec.md §3).
func (g *Generator) MustNext() uint64 {
	id, err := g.Next()
	if err != nil {
		panic(err)
	}
	return id
}

// NewDocumentID returns a new random UUID string suitable for an
// Experiment's document identifier or a ConsensusMap column's
// file-unique-id, where uniqueness must hold across processes and
// machines (unlike the dense per-process Feature ids above).
func NewDocumentID() string {
	return uuid.NewString()
}
