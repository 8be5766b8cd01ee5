// Package overlay holds the client-side state machine that keeps a UI in step
// with the overlay service.
//
// The machine is a pure function, Update(state, msg) -> (state, commands).
// Commands describe the service calls to make; Run executes one and returns
// the result message to feed back into Update. Nothing here depends on a
// rendering framework or async runtime, so any event loop that delivers
// messages one at a time can drive it.
//
// Refreshes are tagged with a generation counter that moves only when a
// mutation succeeds. A listing tagged older than the newest issued refresh is
// dropped, so the displayed list never regresses to an earlier view.
package overlay

import (
	"maps"
	"slices"

	"github.com/dvrpc/tp-updater/internal/catalog"
)

type opKind int

const (
	opAdd opKind = iota
	opRemove
)

type pendingOp struct {
	kind opKind
	name string
}

// State is the client view. The exported fields are what a UI renders;
// Status and Error are never both set.
type State struct {
	Selected string   // "" when no valid indicator is selected
	Overlaid []string // last successful listing, sorted
	Status   string
	Error    string

	catalog    *catalog.Catalog
	generation uint64
	refreshGen uint64
	refreshing bool
	pending    map[pendingOp]struct{}
}

// New returns the initial state and the mount refresh.
func New(cat *catalog.Catalog) (State, []Command) {
	if cat == nil {
		cat = catalog.Default()
	}
	s := State{
		Overlaid: []string{},
		catalog:  cat,
	}
	return s.issueRefresh()
}

// Catalog returns the catalog used for selection.
func (s State) Catalog() *catalog.Catalog { return s.catalog }

// CanMutate reports whether Add and Remove are enabled.
func (s State) CanMutate() bool { return s.Selected != "" }

// Generation returns the count of successful mutations so far.
func (s State) Generation() uint64 { return s.generation }

// Refreshing reports whether the newest issued listing is still outstanding.
func (s State) Refreshing() bool { return s.refreshing }

// InFlight returns the number of outstanding add/remove calls.
func (s State) InFlight() int { return len(s.pending) }

// IsOverlaid reports whether name is in the last known listing.
func (s State) IsOverlaid(name string) bool {
	_, found := slices.BinarySearch(s.Overlaid, name)
	return found
}

func (s State) isPending(op pendingOp) bool {
	_, ok := s.pending[op]
	return ok
}

// withPending returns a copy of s with op marked (or cleared) so earlier
// State values keep their own map.
func (s State) withPending(op pendingOp, on bool) State {
	next := maps.Clone(s.pending)
	if next == nil {
		next = make(map[pendingOp]struct{})
	}
	if on {
		next[op] = struct{}{}
	} else {
		delete(next, op)
	}
	s.pending = next
	return s
}

func (s State) withStatus(msg string) State {
	s.Status = msg
	s.Error = ""
	return s
}

func (s State) withError(msg string) State {
	s.Error = msg
	s.Status = ""
	return s
}

func (s State) issueRefresh() (State, []Command) {
	s.refreshGen = s.generation
	s.refreshing = true
	return s, []Command{ListCommand{Generation: s.generation}}
}

// normalize returns a sorted, de-duplicated copy of names.
func normalize(names []string) []string {
	out := slices.Clone(names)
	if out == nil {
		out = []string{}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
