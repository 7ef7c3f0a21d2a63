package domain

// GroupOption is a selectable group in the group dropdown.
type GroupOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ParticipantOption is a selectable participant in the participant dropdown.
type ParticipantOption struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// GroupRoster is a read-only snapshot of groups and their participants,
// refreshed whenever the dropdowns are repopulated. It is sourced from
// the store and never mutated in place.
type GroupRoster struct {
	Groups       []GroupOption
	Participants map[string][]ParticipantOption // keyed by group ID
}

// HasGroup reports whether the roster contains the group.
func (r GroupRoster) HasGroup(groupID string) bool {
	for _, g := range r.Groups {
		if g.ID == groupID {
			return true
		}
	}
	return false
}

// HasParticipant reports whether the participant belongs to the group's
// roster entry.
func (r GroupRoster) HasParticipant(groupID, participantID string) bool {
	for _, p := range r.Participants[groupID] {
		if p.ID == participantID {
			return true
		}
	}
	return false
}

// FirstGroup returns the first group in roster order.
func (r GroupRoster) FirstGroup() (GroupOption, bool) {
	if len(r.Groups) == 0 {
		return GroupOption{}, false
	}
	return r.Groups[0], true
}

// FirstParticipant returns the first participant of a group in sorted
// display order, matching the cascade's default-selection rule.
func (r GroupRoster) FirstParticipant(groupID string) (ParticipantOption, bool) {
	opts := SortParticipants(r.Participants[groupID])
	if len(opts) == 0 {
		return ParticipantOption{}, false
	}
	return opts[0], true
}
