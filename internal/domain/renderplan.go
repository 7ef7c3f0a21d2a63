package domain

import "time"

// RenderMode is one of the mutually exclusive dashboard render shapes.
type RenderMode string

// Render modes.
const (
	RenderAggregateAll      RenderMode = "AGGREGATE_ALL"
	RenderGroupSummary      RenderMode = "GROUP_SUMMARY"
	RenderParticipantDetail RenderMode = "PARTICIPANT_DETAIL"
	RenderEmpty             RenderMode = "EMPTY"
)

// QueryParams carries the filters a render pass needs from the store.
type QueryParams struct {
	GroupID       string    `json:"group_id,omitempty"`
	ParticipantID string    `json:"participant_id,omitempty"`
	Start         time.Time `json:"start"`
	End           time.Time `json:"end"`
	// SingleDay tells the detail renderer to pick a fine-grained timeline
	// over a heatmap.
	SingleDay bool `json:"single_day"`
}

// RenderPlan is the resolved "what to display" decision for one pass.
type RenderPlan struct {
	Mode   RenderMode  `json:"mode"`
	Query  QueryParams `json:"query"`
	Reason string      `json:"reason,omitempty"` // set only for EMPTY
}

// BuildPlan maps a selection and date range to a render plan. It never
// fails: every degenerate or inconsistent selection resolves to EMPTY
// with a human-readable reason, keeping the boundary between "no data"
// and "system error" explicit. Invariant violations (a PARTICIPANT scope
// missing its group) degrade to EMPTY rather than rendering stale data
// from a previous plan.
func BuildPlan(sel ViewSelection, dr DateRangeState) RenderPlan {
	base := QueryParams{
		Start:     dr.Start,
		End:       dr.End,
		SingleDay: dr.SingleDay(),
	}

	switch sel.Scope {
	case ScopeAll:
		return RenderPlan{Mode: RenderAggregateAll, Query: base}

	case ScopeGroup:
		if sel.GroupID == "" {
			return emptyPlan(base, "no group selected")
		}
		base.GroupID = sel.GroupID
		return RenderPlan{Mode: RenderGroupSummary, Query: base}

	case ScopeParticipant:
		if sel.GroupID == "" {
			return emptyPlan(base, "participant view has no group")
		}
		if sel.ParticipantID == "" {
			return emptyPlan(base, "no participant selected")
		}
		base.GroupID = sel.GroupID
		base.ParticipantID = sel.ParticipantID
		return RenderPlan{Mode: RenderParticipantDetail, Query: base}

	default:
		return emptyPlan(base, "nothing selected")
	}
}

// EmptyPlan builds an EMPTY plan carrying a reason, used by callers that
// degrade errors at the render boundary.
func EmptyPlan(reason string) RenderPlan {
	return RenderPlan{Mode: RenderEmpty, Reason: reason}
}

func emptyPlan(q QueryParams, reason string) RenderPlan {
	return RenderPlan{Mode: RenderEmpty, Query: q, Reason: reason}
}
