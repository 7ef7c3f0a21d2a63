package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulateParticipants_SortedCaseInsensitive(t *testing.T) {
	roster := testRoster()

	out := PopulateParticipants("g1", roster, "")

	require.Len(t, out.Options, 3)
	assert.Equal(t, "alice", out.Options[0].DisplayName)
	assert.Equal(t, "Bob", out.Options[1].DisplayName)
	assert.Equal(t, "Carol", out.Options[2].DisplayName)
	assert.Equal(t, "p2", out.Default, "default is the first sorted option")
}

func TestPopulateParticipants_CachedParticipantPreferred(t *testing.T) {
	roster := testRoster()

	out := PopulateParticipants("g1", roster, "p3")

	assert.Equal(t, "p3", out.Default)
}

func TestPopulateParticipants_StaleCacheIgnored(t *testing.T) {
	roster := testRoster()

	// p4 is in g2, not g1; the cache must not leak across groups.
	out := PopulateParticipants("g1", roster, "p4")

	assert.Equal(t, "p2", out.Default)
}

func TestPopulateParticipants_NothingSelectable(t *testing.T) {
	roster := testRoster()

	for _, groupID := range []string{"", "g9"} {
		out := PopulateParticipants(groupID, roster, "p1")
		assert.Empty(t, out.Options, "group %q", groupID)
		assert.Empty(t, out.Default, "group %q", groupID)
	}
}

func TestPopulateParticipants_Idempotent(t *testing.T) {
	roster := testRoster()

	first := PopulateParticipants("g1", roster, "p3")
	second := PopulateParticipants("g1", roster, "p3")

	assert.Equal(t, first, second)
}

func TestPopulateParticipants_EqualNamesKeepInputOrder(t *testing.T) {
	roster := GroupRoster{
		Groups: []GroupOption{{ID: "g1", Name: "Alpha"}},
		Participants: map[string][]ParticipantOption{
			"g1": {
				{ID: "pa", DisplayName: "Sam"},
				{ID: "pb", DisplayName: "sam"},
			},
		},
	}

	out := PopulateParticipants("g1", roster, "")

	require.Len(t, out.Options, 2)
	assert.Equal(t, "pa", out.Options[0].ID)
	assert.Equal(t, "pb", out.Options[1].ID)
}

func TestPopulateGroups_ShowAllDisablesDropdown(t *testing.T) {
	out := PopulateGroups(testRoster().Groups, true, "g2")

	assert.True(t, out.Disabled)
	require.Len(t, out.Options, 1)
	assert.Equal(t, AllGroupsOptionID, out.Options[0].ID)
	assert.Equal(t, AllGroupsOptionID, out.Default)
}

func TestPopulateGroups_DefaultsToFirstWhenNoneSelected(t *testing.T) {
	out := PopulateGroups(testRoster().Groups, false, "")

	assert.False(t, out.Disabled)
	require.Len(t, out.Options, 2)
	assert.Equal(t, "g1", out.Default)
}

func TestPopulateGroups_KeepsExistingSelection(t *testing.T) {
	out := PopulateGroups(testRoster().Groups, false, "g2")

	assert.Equal(t, "g2", out.Default)
}

func TestPopulateGroups_EmptyGroups(t *testing.T) {
	out := PopulateGroups(nil, false, "")

	assert.Empty(t, out.Options)
	assert.Empty(t, out.Default)
	assert.False(t, out.Disabled)
}

func TestPopulateGroups_Idempotent(t *testing.T) {
	groups := testRoster().Groups

	first := PopulateGroups(groups, false, "g2")
	second := PopulateGroups(groups, false, "g2")

	assert.Equal(t, first, second)
}
