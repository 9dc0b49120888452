package team

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"taskflow/internal/types"
)

func roster() []types.Principal {
	return []types.Principal{
		{ID: "1", Name: "A"},
		{ID: "2", Name: "B"},
		{ID: "3", Name: "C"},
	}
}

func TestDefaultsToFirstRosterEntryWhenCommittedEmpty(t *testing.T) {
	var propagated [][]types.Principal
	s := NewSelector(nil, func(sel []types.Principal) {
		propagated = append(propagated, sel)
	})

	s.RosterLoaded(roster())

	want := []types.Principal{{ID: "1", Name: "A"}}
	if diff := cmp.Diff(want, s.Selected()); diff != "" {
		t.Errorf("local selection mismatch (-want +got):\n%s", diff)
	}
	if len(propagated) != 1 {
		t.Fatalf("expected exactly one upward propagation, got %d", len(propagated))
	}
	if diff := cmp.Diff(want, propagated[0]); diff != "" {
		t.Errorf("propagated selection mismatch (-want +got):\n%s", diff)
	}
}

func TestNonEmptyCommittedIsAuthoritative(t *testing.T) {
	committed := []types.Principal{{ID: "2", Name: "B"}, {ID: "3", Name: "C"}}
	var calls int
	s := NewSelector(committed, func([]types.Principal) { calls++ })

	s.RosterLoaded(roster())

	if diff := cmp.Diff(committed, s.Selected()); diff != "" {
		t.Errorf("selection mismatch (-want +got):\n%s", diff)
	}
	if calls != 0 {
		t.Errorf("mirroring a committed value must not propagate, got %d calls", calls)
	}
}

func TestDefaultDoesNotRefireOnBackgroundRefresh(t *testing.T) {
	var calls int
	s := NewSelector(nil, func([]types.Principal) { calls++ })

	s.RosterLoaded(roster())
	if calls != 1 {
		t.Fatalf("expected one propagation after load, got %d", calls)
	}

	// User narrows the selection down to nothing but B.
	s.Toggle("1")
	s.Toggle("2")
	if diff := cmp.Diff([]types.Principal{{ID: "2", Name: "B"}}, s.Selected()); diff != "" {
		t.Fatalf("selection after toggles (-want +got):\n%s", diff)
	}

	// A background refresh delivers the same roster again: the default rule
	// must not run and the user's selection must survive.
	before := calls
	s.RosterLoaded(roster())
	if diff := cmp.Diff([]types.Principal{{ID: "2", Name: "B"}}, s.Selected()); diff != "" {
		t.Errorf("refresh overwrote selection (-want +got):\n%s", diff)
	}
	if calls != before {
		t.Errorf("refresh must not propagate, calls went %d -> %d", before, calls)
	}
}

func TestTogglePropagatesSynchronously(t *testing.T) {
	var last []types.Principal
	s := NewSelector(nil, func(sel []types.Principal) { last = sel })
	s.RosterLoaded(roster())

	s.Toggle("3")
	want := []types.Principal{{ID: "1", Name: "A"}, {ID: "3", Name: "C"}}
	if diff := cmp.Diff(want, last); diff != "" {
		t.Errorf("propagated value (-want +got):\n%s", diff)
	}

	s.Toggle("1")
	want = []types.Principal{{ID: "3", Name: "C"}}
	if diff := cmp.Diff(want, last); diff != "" {
		t.Errorf("propagated value after deselect (-want +got):\n%s", diff)
	}
}

func TestDisplayOrderFollowsRosterNotInsertion(t *testing.T) {
	s := NewSelector(nil, nil)
	s.RosterLoaded(roster())

	// Deselect the default, then select in reverse roster order.
	s.Toggle("1")
	s.Toggle("3")
	s.Toggle("2")

	want := []types.Principal{{ID: "2", Name: "B"}, {ID: "3", Name: "C"}}
	if diff := cmp.Diff(want, s.Selected()); diff != "" {
		t.Errorf("selection order must follow roster (-want +got):\n%s", diff)
	}
}

func TestEmptyRosterFabricatesNothing(t *testing.T) {
	var calls int
	s := NewSelector(nil, func([]types.Principal) { calls++ })

	s.RosterLoaded(nil)

	if got := s.Selected(); len(got) != 0 {
		t.Errorf("expected empty selection, got %v", got)
	}
	if calls != 0 {
		t.Errorf("empty roster must not propagate, got %d calls", calls)
	}
}

func TestUnknownToggleIgnored(t *testing.T) {
	var calls int
	s := NewSelector(nil, func([]types.Principal) { calls++ })
	s.RosterLoaded(roster())
	before := calls

	s.Toggle("nope")
	if calls != before {
		t.Error("toggling an unknown id must not propagate")
	}
}

func TestSelectedBeforeLoadReturnsCommitted(t *testing.T) {
	committed := []types.Principal{{ID: "2", Name: "B"}}
	s := NewSelector(committed, nil)

	if diff := cmp.Diff(committed, s.Selected()); diff != "" {
		t.Errorf("pre-load selection (-want +got):\n%s", diff)
	}
	if s.State() != Loading {
		t.Error("selector should start in Loading")
	}
}

func TestCommittedSurvivesEmptyRosterLoad(t *testing.T) {
	committed := []types.Principal{{ID: "9", Name: "Z"}}
	var calls int
	s := NewSelector(committed, func([]types.Principal) { calls++ })

	s.RosterLoaded(nil)

	if diff := cmp.Diff(committed, s.Selected()); diff != "" {
		t.Errorf("committed selection lost on empty roster (-want +got):\n%s", diff)
	}
	if calls != 0 {
		t.Errorf("mirroring must not propagate, got %d calls", calls)
	}
}

func TestCommittedMemberAbsentFromRosterIsRetained(t *testing.T) {
	committed := []types.Principal{{ID: "9", Name: "Z"}}
	s := NewSelector(committed, nil)

	s.RosterLoaded(roster())

	// 9 is not in the roster; it still belongs to the selection, after the
	// roster-ordered members.
	if diff := cmp.Diff(committed, s.Selected()); diff != "" {
		t.Errorf("absent committed member dropped (-want +got):\n%s", diff)
	}

	s.Toggle("2")
	want := []types.Principal{{ID: "2", Name: "B"}, {ID: "9", Name: "Z"}}
	if diff := cmp.Diff(want, s.Selected()); diff != "" {
		t.Errorf("selection after toggle (-want +got):\n%s", diff)
	}
}
