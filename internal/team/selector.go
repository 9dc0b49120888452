// Package team reconciles an asynchronously loaded roster with a
// caller-owned committed multi-selection. The parent form owns the committed
// value; the Selector only mirrors it for controlled rendering and reports
// every change upward through the callback.
package team

import "taskflow/internal/types"

// LoadState models roster loading as an explicit two-state value so the
// default-selection rule can be edge-triggered.
type LoadState int

const (
	Loading LoadState = iota
	Loaded
)

// Selector keeps a local multi-selection in sync with the parent's committed
// selection and the loaded roster. Not safe for concurrent use; it lives on
// the host's event loop.
type Selector struct {
	state     LoadState
	members   []types.Principal
	committed []types.Principal
	selected  map[string]bool
	defaulted bool // default rule already applied for this load
	onChange  func([]types.Principal)
}

// NewSelector creates a selector in the Loading state. committed is the
// parent's current selection (possibly empty); onChange receives every
// selection change, synchronously.
func NewSelector(committed []types.Principal, onChange func([]types.Principal)) *Selector {
	s := &Selector{
		state:    Loading,
		selected: make(map[string]bool, len(committed)),
		onChange: onChange,
	}
	s.committed = append(s.committed, committed...)
	for _, p := range committed {
		s.selected[p.ID] = true
	}
	return s
}

// State returns the roster load state.
func (s *Selector) State() LoadState { return s.state }

// SetOnChange replaces the upward-propagation callback. Hosts whose models
// are copied by value rebind the callback before mutating the selection.
func (s *Selector) SetOnChange(fn func([]types.Principal)) { s.onChange = fn }

// Members returns the loaded roster in the backend's order.
func (s *Selector) Members() []types.Principal { return s.members }

// RosterLoaded delivers the roster. On the Loading→Loaded edge — and only
// there — the default rule runs once: an empty committed selection becomes
// exactly [members[0]] and is propagated upward; a non-empty committed
// selection is authoritative and is mirrored as-is. Later calls (background
// refreshes) just swap the member list and never touch the selection.
func (s *Selector) RosterLoaded(members []types.Principal) {
	s.members = members

	if s.state == Loaded || s.defaulted {
		return
	}
	s.state = Loaded
	s.defaulted = true

	if len(s.committed) == 0 {
		if len(members) == 0 {
			// Nothing to default to; no data is fabricated.
			return
		}
		s.selected = map[string]bool{members[0].ID: true}
		s.propagate()
		return
	}

	// Parent is authoritative: mirror the committed value exactly.
	s.selected = make(map[string]bool, len(s.committed))
	for _, p := range s.committed {
		s.selected[p.ID] = true
	}
}

// Toggle flips membership of the roster entry with the given id and
// propagates the new selection upward immediately. Unknown ids are ignored.
func (s *Selector) Toggle(id string) {
	found := false
	for _, p := range s.members {
		if p.ID == id {
			found = true
			break
		}
	}
	if !found {
		return
	}

	if s.selected[id] {
		delete(s.selected, id)
	} else {
		s.selected[id] = true
	}
	s.propagate()
}

// IsSelected reports membership for rendering.
func (s *Selector) IsSelected(id string) bool { return s.selected[id] }

// Selected returns the current selection: roster members in the roster's
// order, never insertion order, followed by committed members the roster
// does not contain. Committed entries are never dropped just because a
// (possibly empty) roster load lacks them. Before the roster loads it
// returns the committed value as provided.
func (s *Selector) Selected() []types.Principal {
	if s.state == Loading {
		out := make([]types.Principal, len(s.committed))
		copy(out, s.committed)
		return out
	}
	known := make(map[string]bool, len(s.members))
	var out []types.Principal
	for _, p := range s.members {
		known[p.ID] = true
		if s.selected[p.ID] {
			out = append(out, p)
		}
	}
	for _, p := range s.committed {
		if s.selected[p.ID] && !known[p.ID] {
			out = append(out, p)
		}
	}
	return out
}

func (s *Selector) propagate() {
	sel := s.Selected()
	s.committed = sel
	if s.onChange != nil {
		s.onChange(sel)
	}
}
