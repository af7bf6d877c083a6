// internal/domain/cart/reducer.go
package cart

import "fmt"

// Op identifies a cart operation
type Op int

// Cart operations
const (
	OpFetch Op = iota
	OpAdd
	OpUpdate
	OpRemove
	OpClear
)

// Phase is the lifecycle stage of an asynchronous operation
type Phase int

// Operation phases
const (
	Pending Phase = iota
	Fulfilled
	Rejected
)

// State is the cart store's state. Items are in server/display order.
// Initialized flips true exactly once per session, after the first fetch
// settles (fulfilled or rejected), and gates automatic re-fetching.
type State struct {
	Items       []Item
	Loading     bool
	Err         string
	Initialized bool
}

// InitialState returns the state of a fresh (or just reset) cart
func InitialState() State {
	return State{Items: []Item{}}
}

// Action is the tagged result of an operation phase, consumed by the pure
// reducer independently of the transport that produced it.
type Action struct {
	Op    Op
	Phase Phase

	// Fulfilled payloads, by operation
	Items     []Item        // fetch, add: wholesale replacement
	Update    *UpdateResult // update: full collection or partial ack
	RemovedID string        // remove: cart-line identifier to filter out

	// Rejected payload
	Err string

	// Fetch rejection fallback: items recovered from the local cache
	CacheItems []Item
}

// Reduce applies an action to the state, returning the next state and an
// optional diagnostic for conditions that are dropped rather than surfaced.
func Reduce(s State, a Action) (State, string) {
	switch a.Phase {
	case Pending:
		s.Loading = true
		s.Err = ""
		return s, ""

	case Rejected:
		s.Loading = false
		s.Err = a.Err
		if a.Op == OpFetch {
			// First render must not be blocked by a failing server
			s.Initialized = true
			s.Items = a.CacheItems
			if s.Items == nil {
				s.Items = []Item{}
			}
		}
		return s, ""

	case Fulfilled:
		s.Loading = false
		s.Err = ""
		switch a.Op {
		case OpFetch:
			s.Initialized = true
			s.Items = a.Items
			if s.Items == nil {
				s.Items = []Item{}
			}
		case OpAdd:
			s.Items = a.Items
			if s.Items == nil {
				s.Items = []Item{}
			}
		case OpUpdate:
			return reduceUpdate(s, a.Update)
		case OpRemove:
			kept := make([]Item, 0, len(s.Items))
			for _, item := range s.Items {
				if item.CartItemID != a.RemovedID {
					kept = append(kept, item)
				}
			}
			s.Items = kept
		case OpClear:
			s.Items = []Item{}
		}
		return s, ""
	}

	return s, ""
}

// reduceUpdate applies the dual-shape quantity update response: a full
// nested collection replaces items wholesale; a partial acknowledgement
// mutates the matching line in place and is dropped with a diagnostic when
// no line matches.
func reduceUpdate(s State, result *UpdateResult) (State, string) {
	if result == nil {
		return s, ""
	}

	if result.Entries != nil {
		s.Items = FlattenEntries(result.Entries)
		return s, ""
	}

	if result.Ack != nil {
		items := append([]Item(nil), s.Items...)
		for i := range items {
			if items[i].ID == result.Ack.ID || items[i].CartItemID == result.Ack.ID {
				items[i].Quantity = result.Ack.Quantity
				s.Items = items
				return s, ""
			}
		}
		return s, fmt.Sprintf("could not find cart item with ID %s to update", result.Ack.ID)
	}

	return s, ""
}
