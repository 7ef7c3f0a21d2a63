// Package viewstate owns the per-user dashboard view state: the current
// selection and date range, replaced atomically as control events arrive.
package viewstate

import (
	"sync"
	"time"

	"github.com/vitalboard/vitalboard-server/internal/domain"
	"github.com/vitalboard/vitalboard-server/internal/errors"
)

// EventType identifies a view control event.
type EventType string

// Control events accepted by Apply.
const (
	EventSetMode           EventType = "set_mode"
	EventSetAnchor         EventType = "set_anchor"
	EventSetCustomStart    EventType = "set_custom_start"
	EventToggleShowAll     EventType = "toggle_show_all"
	EventSelectGroup       EventType = "select_group"
	EventSelectParticipant EventType = "select_participant"
)

// Event is one raw control change from the UI. Only the fields relevant
// to the event type are read.
type Event struct {
	Type EventType `json:"type"`

	Mode          domain.RangeMode `json:"mode,omitempty"`           // set_mode
	N             int              `json:"n,omitempty"`              // set_mode (LAST_N)
	Date          string           `json:"date,omitempty"`           // set_anchor, set_custom_start (YYYY-MM-DD)
	On            bool             `json:"on,omitempty"`             // toggle_show_all
	GroupID       string           `json:"group_id,omitempty"`       // select_group
	ParticipantID string           `json:"participant_id,omitempty"` // select_participant
}

// Snapshot is one fully formed view state, tagged with a monotonically
// increasing sequence number. Render passes carry the sequence so
// out-of-order query results from superseded passes can be discarded.
type Snapshot struct {
	Seq       uint64                `json:"seq"`
	Selection domain.SelectionState `json:"selection"`
	DateRange domain.DateRangeState `json:"date_range"`
}

// Container holds one user's view state. It has a single writer: all
// mutations go through Apply, which folds a whole batch of events into
// exactly one new snapshot. Readers always observe a complete snapshot,
// never a partial update.
type Container struct {
	mu        sync.Mutex
	seq       uint64
	selection domain.SelectionState
	dateRange domain.DateRangeState
}

// New creates a container seeded with the given state at sequence 1.
func New(selection domain.SelectionState, dateRange domain.DateRangeState) *Container {
	return &Container{
		seq:       1,
		selection: selection,
		dateRange: dateRange,
	}
}

// Snapshot returns the current state.
func (c *Container) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{Seq: c.seq, Selection: c.selection, DateRange: c.dateRange}
}

// Apply folds all events of one tick into a single transition. The batch
// is atomic: events are applied to a working copy in order, and any
// failure discards the whole batch, leaving the container untouched and
// the sequence number unchanged. On success the new state is committed as
// one snapshot with the next sequence number.
func (c *Container) Apply(roster domain.GroupRoster, events ...Event) (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	selection := c.selection
	dateRange := c.dateRange

	for _, ev := range events {
		var err error
		selection, dateRange, err = applyEvent(selection, dateRange, roster, ev)
		if err != nil {
			return Snapshot{}, err
		}
	}

	c.selection = selection
	c.dateRange = dateRange
	c.seq++
	return Snapshot{Seq: c.seq, Selection: c.selection, DateRange: c.dateRange}, nil
}

func applyEvent(
	sel domain.SelectionState,
	dr domain.DateRangeState,
	roster domain.GroupRoster,
	ev Event,
) (domain.SelectionState, domain.DateRangeState, error) {
	switch ev.Type {
	case EventSetMode:
		next, err := dr.SetMode(ev.Mode, ev.N)
		return sel, next, err

	case EventSetAnchor:
		anchor, err := domain.ParseDate(ev.Date)
		if err != nil {
			return sel, dr, err
		}
		return sel, dr.SetAnchor(anchor), nil

	case EventSetCustomStart:
		start, err := domain.ParseDate(ev.Date)
		if err != nil {
			return sel, dr, err
		}
		next, err := dr.SetCustomStart(start)
		return sel, next, err

	case EventToggleShowAll:
		return sel.ToggleShowAll(ev.On, roster), dr, nil

	case EventSelectGroup:
		next, err := sel.SelectGroup(ev.GroupID, roster)
		return next, dr, err

	case EventSelectParticipant:
		next, err := sel.SelectParticipant(ev.ParticipantID, roster)
		return next, dr, err

	default:
		return sel, dr, errors.Validationf("unknown view event %q", ev.Type)
	}
}

// Registry hands out one container per user, creating them on demand
// with role-specific defaults.
type Registry struct {
	mu              sync.Mutex
	containers      map[string]*Container
	defaultLookback int
}

// NewRegistry creates a registry. New containers start as a LAST_N range
// of defaultLookback days.
func NewRegistry(defaultLookback int) *Registry {
	if defaultLookback < 1 {
		defaultLookback = 7
	}
	return &Registry{
		containers:      make(map[string]*Container),
		defaultLookback: defaultLookback,
	}
}

// GetOrCreate returns the user's container, initializing it on first use.
// Defaults depend on role: admins start at the roster's first group and
// participant, supervisors inside their fixed group, and participants on
// their own detail view.
func (r *Registry) GetOrCreate(user *domain.User, roster domain.GroupRoster, today time.Time) *Container {
	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.containers[user.ID]; ok {
		return c
	}

	c := New(defaultSelection(user, roster), domain.NewDateRange(today, r.defaultLookback))
	r.containers[user.ID] = c
	return c
}

// Drop discards a user's container, e.g. on logout.
func (r *Registry) Drop(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.containers, userID)
}

func defaultSelection(user *domain.User, roster domain.GroupRoster) domain.SelectionState {
	switch user.Role {
	case domain.RoleSupervisor:
		if user.GroupID != "" && roster.HasGroup(user.GroupID) {
			return domain.SelectionState{Selection: domain.ViewSelection{
				Scope:   domain.ScopeGroup,
				GroupID: user.GroupID,
			}}
		}
		return domain.NewSelectionState(roster)

	case domain.RoleParticipant:
		if user.GroupID != "" && roster.HasParticipant(user.GroupID, user.ID) {
			return domain.SelectionState{Selection: domain.ViewSelection{
				Scope:         domain.ScopeParticipant,
				GroupID:       user.GroupID,
				ParticipantID: user.ID,
			}}
		}
		return domain.NewSelectionState(roster)

	default:
		return domain.NewSelectionState(roster)
	}
}
