package domain

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// AllGroupsOptionID is the synthetic group option shown while show-all is
// active.
const AllGroupsOptionID = "__all__"

// ParticipantOptions is the cascade's output for the participant dropdown.
type ParticipantOptions struct {
	Options []ParticipantOption `json:"options"`
	// Default is the participant to preselect, empty when nothing is
	// selectable.
	Default string `json:"default,omitempty"`
}

// GroupOptions is the cascade's output for the group dropdown.
type GroupOptions struct {
	Options  []GroupOption `json:"options"`
	Default  string        `json:"default,omitempty"`
	Disabled bool          `json:"disabled"`
}

// caseInsensitive orders display names without regard to case, so
// "alice" and "Alice" sort together regardless of how names were entered.
var caseInsensitive = collate.New(language.Und, collate.IgnoreCase)

// SortParticipants returns participants in stable case-insensitive
// display-name order. Equal names keep their input order, so the result
// is deterministic for a given roster snapshot.
func SortParticipants(opts []ParticipantOption) []ParticipantOption {
	sorted := make([]ParticipantOption, len(opts))
	copy(sorted, opts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return caseInsensitive.CompareString(sorted[i].DisplayName, sorted[j].DisplayName) < 0
	})
	return sorted
}

// SortGroups returns groups in stable case-insensitive name order.
func SortGroups(groups []GroupOption) []GroupOption {
	sorted := make([]GroupOption, len(groups))
	copy(sorted, groups)
	sort.SliceStable(sorted, func(i, j int) bool {
		return caseInsensitive.CompareString(sorted[i].Name, sorted[j].Name) < 0
	})
	return sorted
}

// PopulateParticipants keeps the participant dropdown synchronized with
// the selected group. An empty group or a group absent from the roster
// yields empty options with no default, signaling "nothing selectable"
// upstream. Otherwise the default is the first sorted option, unless the
// resolver's cached participant is still present in this roster, in which
// case the cached one wins so user intent survives unrelated re-renders.
//
// Idempotent: identical inputs always produce identical output.
func PopulateParticipants(groupID string, roster GroupRoster, cachedParticipantID string) ParticipantOptions {
	if groupID == "" {
		return ParticipantOptions{Options: []ParticipantOption{}}
	}
	entries, ok := roster.Participants[groupID]
	if !ok || len(entries) == 0 {
		return ParticipantOptions{Options: []ParticipantOption{}}
	}

	options := SortParticipants(entries)

	def := options[0].ID
	if cachedParticipantID != "" {
		for _, opt := range options {
			if opt.ID == cachedParticipantID {
				def = cachedParticipantID
				break
			}
		}
	}

	return ParticipantOptions{Options: options, Default: def}
}

// PopulateGroups builds the group dropdown. While show-all is active the
// dropdown shows a single disabled synthetic "all groups" option.
// Otherwise it lists the groups in stable order, defaulting to the
// previously selected group when still present and the first group when
// not.
//
// Idempotent: identical inputs always produce identical output.
func PopulateGroups(groups []GroupOption, showAll bool, selectedGroupID string) GroupOptions {
	if showAll {
		return GroupOptions{
			Options:  []GroupOption{{ID: AllGroupsOptionID, Name: "All groups"}},
			Default:  AllGroupsOptionID,
			Disabled: true,
		}
	}

	options := SortGroups(groups)
	if len(options) == 0 {
		return GroupOptions{Options: []GroupOption{}}
	}

	def := options[0].ID
	if selectedGroupID != "" {
		for _, opt := range options {
			if opt.ID == selectedGroupID {
				def = selectedGroupID
				break
			}
		}
	}

	return GroupOptions{Options: options, Default: def}
}
