package overlay

import (
	"fmt"

	"github.com/dvrpc/tp-updater/internal/model"
)

// User-facing messages.
const (
	MsgNotSelected = "No indicator selected"
	MsgAdded       = "Indicator added"
	MsgRemoved     = "Indicator removed"
)

// Update applies msg to s and returns the next state with the service calls
// to make. It never blocks and never mutates s.
func Update(s State, msg Msg) (State, []Command) {
	switch msg := msg.(type) {
	case SelectIndicator:
		if s.catalog.Contains(msg.Name) {
			s.Selected = msg.Name
			s.Error = ""
		} else {
			s.Selected = ""
		}
		return s, nil

	case Add:
		return s.dispatch(opAdd)

	case Remove:
		return s.dispatch(opRemove)

	case Refresh:
		// One listing per generation is enough; a second would only race it.
		if s.refreshing && s.refreshGen == s.generation {
			return s, nil
		}
		return s.issueRefresh()

	case AddResult:
		s = s.withPending(pendingOp{opAdd, msg.Name}, false)
		if msg.Err != nil {
			return s.withError(fmt.Sprintf("Cannot add %s: %s", msg.Name, model.Describe(msg.Err))), nil
		}
		return s.mutated(MsgAdded)

	case RemoveResult:
		s = s.withPending(pendingOp{opRemove, msg.Name}, false)
		if msg.Err != nil {
			return s.withError(fmt.Sprintf("Cannot remove %s: %s", msg.Name, model.Describe(msg.Err))), nil
		}
		return s.mutated(MsgRemoved)

	case ListResult:
		if msg.Generation < s.refreshGen {
			return s, nil
		}
		s.refreshing = false
		if msg.Err != nil {
			return s.withError("Cannot load recently updated indicators: " + model.Describe(msg.Err)), nil
		}
		s.Overlaid = normalize(msg.Names)
		return s, nil
	}

	return s, nil
}

// dispatch issues an add or remove for the current selection. A repeat of a
// request that is still in flight for the same indicator is dropped.
func (s State) dispatch(kind opKind) (State, []Command) {
	if s.Selected == "" {
		return s.withError(MsgNotSelected), nil
	}
	op := pendingOp{kind, s.Selected}
	if s.isPending(op) {
		return s, nil
	}

	s = s.withPending(op, true)
	s.Error = ""
	s.Status = ""
	if kind == opAdd {
		return s, []Command{AddCommand{Name: op.name}}
	}
	return s, []Command{RemoveCommand{Name: op.name}}
}

// mutated records a successful mutation and requests the listing for the
// new generation.
func (s State) mutated(status string) (State, []Command) {
	s.generation++
	s = s.withStatus(status)
	return s.issueRefresh()
}
