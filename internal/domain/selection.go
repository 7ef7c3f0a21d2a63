package domain

import (
	"github.com/vitalboard/vitalboard-server/internal/errors"
)

// Scope is the aggregation level a view targets.
type Scope string

// View scopes.
const (
	ScopeAll         Scope = "ALL"
	ScopeGroup       Scope = "GROUP"
	ScopeParticipant Scope = "PARTICIPANT"
)

// Valid returns true if the scope is a recognized value.
func (s Scope) Valid() bool {
	switch s {
	case ScopeAll, ScopeGroup, ScopeParticipant:
		return true
	default:
		return false
	}
}

// ViewSelection is the single source of truth for what is being viewed.
//
// Scope consistency: ALL means both IDs are empty; GROUP means GroupID is
// set and ParticipantID is empty; PARTICIPANT means both are set.
type ViewSelection struct {
	Scope         Scope  `json:"scope"`
	GroupID       string `json:"group_id,omitempty"`
	ParticipantID string `json:"participant_id,omitempty"`
}

// Validate checks the scope-consistency invariant.
func (v ViewSelection) Validate() error {
	switch v.Scope {
	case ScopeAll:
		if v.GroupID != "" || v.ParticipantID != "" {
			return errors.InvalidSelection("ALL scope must not carry group or participant")
		}
	case ScopeGroup:
		if v.GroupID == "" {
			return errors.InvalidSelection("GROUP scope requires a group")
		}
		if v.ParticipantID != "" {
			return errors.InvalidSelection("GROUP scope must not carry a participant")
		}
	case ScopeParticipant:
		if v.GroupID == "" || v.ParticipantID == "" {
			return errors.InvalidSelection("PARTICIPANT scope requires both group and participant")
		}
	default:
		return errors.InvalidSelectionf("unknown scope %q", v.Scope)
	}
	return nil
}

// SelectionState is the resolver's full state: the current selection, the
// show-all flag, and a side-cache of the last scoped selection so toggling
// show-all off restores the user's place without re-querying defaults.
type SelectionState struct {
	Selection ViewSelection `json:"selection"`
	ShowAll   bool          `json:"show_all"`
	// Cached holds the last GROUP or PARTICIPANT selection captured when
	// show-all was switched on. Zero value means nothing cached.
	Cached ViewSelection `json:"cached,omitempty"`
}

// NewSelectionState builds the initial state for a session: first group
// and its first participant, falling back to a wider scope when the
// roster is thin or empty.
func NewSelectionState(roster GroupRoster) SelectionState {
	group, ok := roster.FirstGroup()
	if !ok {
		return SelectionState{Selection: ViewSelection{Scope: ScopeAll}}
	}
	participant, ok := roster.FirstParticipant(group.ID)
	if !ok {
		return SelectionState{Selection: ViewSelection{Scope: ScopeGroup, GroupID: group.ID}}
	}
	return SelectionState{Selection: ViewSelection{
		Scope:         ScopeParticipant,
		GroupID:       group.ID,
		ParticipantID: participant.ID,
	}}
}

// ToggleShowAll switches the show-all flag. Switching on forces ALL scope
// and caches the scoped selection. Switching off restores the cache,
// re-validating the cached participant against the current roster since
// rosters can change between toggles; a stale participant falls back to
// the group's first participant, and a vanished group falls back to the
// roster's first group.
func (s SelectionState) ToggleShowAll(on bool, roster GroupRoster) SelectionState {
	next := s
	if on {
		if s.Selection.Scope != ScopeAll {
			next.Cached = s.Selection
		}
		next.Selection = ViewSelection{Scope: ScopeAll}
		next.ShowAll = true
		return next
	}

	next.ShowAll = false
	next.Selection = restoreFromCache(s.Cached, roster)
	return next
}

// restoreFromCache revalidates a cached selection against a roster and
// degrades gracefully when pieces of it no longer exist.
func restoreFromCache(cached ViewSelection, roster GroupRoster) ViewSelection {
	groupID := cached.GroupID
	if groupID == "" || !roster.HasGroup(groupID) {
		group, ok := roster.FirstGroup()
		if !ok {
			return ViewSelection{Scope: ScopeAll}
		}
		groupID = group.ID
	}

	if cached.Scope == ScopeParticipant {
		if roster.HasParticipant(groupID, cached.ParticipantID) {
			return ViewSelection{Scope: ScopeParticipant, GroupID: groupID, ParticipantID: cached.ParticipantID}
		}
		if first, ok := roster.FirstParticipant(groupID); ok {
			return ViewSelection{Scope: ScopeParticipant, GroupID: groupID, ParticipantID: first.ID}
		}
	}
	return ViewSelection{Scope: ScopeGroup, GroupID: groupID}
}

// SelectGroup switches to GROUP scope on the given group and clears the
// participant; the cascade supplies the new default. Selecting a group is
// an explicit scoped action, so show-all switches off.
func (s SelectionState) SelectGroup(groupID string, roster GroupRoster) (SelectionState, error) {
	if groupID == "" {
		return s, errors.InvalidSelection("group id is required")
	}
	if !roster.HasGroup(groupID) {
		return s, errors.InvalidSelectionf("unknown group %q", groupID)
	}

	next := s
	next.ShowAll = false
	next.Selection = ViewSelection{Scope: ScopeGroup, GroupID: groupID}
	return next, nil
}

// SelectParticipant switches to PARTICIPANT scope. Requires an active
// group; guarded here independently of the UI since the event is also
// reachable via stale or replayed requests.
func (s SelectionState) SelectParticipant(participantID string, roster GroupRoster) (SelectionState, error) {
	if participantID == "" {
		return s, errors.InvalidSelection("participant id is required")
	}
	if s.Selection.GroupID == "" {
		return s, errors.InvalidSelection("cannot select a participant without an active group")
	}
	if !roster.HasParticipant(s.Selection.GroupID, participantID) {
		return s, errors.InvalidSelectionf("participant %q is not in group %q", participantID, s.Selection.GroupID)
	}

	next := s
	next.ShowAll = false
	next.Selection = ViewSelection{
		Scope:         ScopeParticipant,
		GroupID:       s.Selection.GroupID,
		ParticipantID: participantID,
	}
	return next, nil
}
