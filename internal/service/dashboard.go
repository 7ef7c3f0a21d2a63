package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vitalboard/vitalboard-server/internal/domain"
	domainerrors "github.com/vitalboard/vitalboard-server/internal/errors"
	"github.com/vitalboard/vitalboard-server/internal/store"
	"github.com/vitalboard/vitalboard-server/internal/viewstate"
)

// DashboardService resolves a user's view state into rendered dashboard
// data: snapshot -> render plan -> store queries -> view model.
type DashboardService struct {
	store    store.Store
	roster   *RosterService
	registry *viewstate.Registry
	logger   *slog.Logger
}

// NewDashboardService creates a dashboard service.
func NewDashboardService(
	store store.Store,
	roster *RosterService,
	registry *viewstate.Registry,
	logger *slog.Logger,
) *DashboardService {
	return &DashboardService{
		store:    store,
		roster:   roster,
		registry: registry,
		logger:   logger,
	}
}

// GroupAverage is one group's averaged metrics in the all-groups view.
type GroupAverage struct {
	GroupID string               `json:"group_id"`
	Name    string               `json:"name"`
	Summary domain.MetricSummary `json:"summary"`
}

// ParticipantDetail is the single-participant render payload.
type ParticipantDetail struct {
	ParticipantID string               `json:"participant_id"`
	DisplayName   string               `json:"display_name"`
	Summary       domain.MetricSummary `json:"summary"`
	Latest        *domain.DailyMetric  `json:"latest,omitempty"`
	History       []domain.DailyMetric `json:"history"`
}

// RenderResult is one complete render pass. Exactly one of the payload
// fields is populated, matching the plan's mode. A superseded result
// carries no payload; the client should re-render from the current
// snapshot.
type RenderResult struct {
	Seq        uint64                      `json:"seq"`
	Superseded bool                        `json:"superseded,omitempty"`
	Plan       domain.RenderPlan           `json:"plan"`
	Aggregate  []GroupAverage              `json:"aggregate,omitempty"`
	GroupRows  []domain.ParticipantSummary `json:"group_rows,omitempty"`
	Detail     *ParticipantDetail          `json:"detail,omitempty"`
}

// View returns the user's current view-state snapshot, creating the
// container with role defaults on first use.
func (s *DashboardService) View(ctx context.Context, user *domain.User) (viewstate.Snapshot, error) {
	roster, err := s.roster.Snapshot(ctx, user)
	if err != nil {
		return viewstate.Snapshot{}, err
	}
	return s.registry.GetOrCreate(user, roster, s.defaultAnchor(ctx, user)).Snapshot(), nil
}

// defaultAnchor picks the anchor date for a freshly created view.
// Participants land on their most recent data day, so the default window
// is not empty after a reporting gap; everyone else starts at today. Only
// the first view of a session uses it; existing containers keep their
// own anchor.
func (s *DashboardService) defaultAnchor(ctx context.Context, user *domain.User) time.Time {
	if user.Role == domain.RoleParticipant {
		if date, ok, err := s.store.LatestDataDate(ctx, user.ID); err == nil && ok {
			return date
		}
	}
	return time.Now()
}

// ApplyEvents folds a batch of control events into the user's view state
// and returns the resulting snapshot. The batch is atomic.
func (s *DashboardService) ApplyEvents(ctx context.Context, user *domain.User, events []viewstate.Event) (viewstate.Snapshot, error) {
	roster, err := s.roster.Snapshot(ctx, user)
	if err != nil {
		return viewstate.Snapshot{}, err
	}
	return s.registry.GetOrCreate(user, roster, s.defaultAnchor(ctx, user)).Apply(roster, events...)
}

// DropViewState discards a user's view-state container, e.g. on logout.
func (s *DashboardService) DropViewState(userID string) {
	s.registry.Drop(userID)
}

// Render executes a render pass against the current snapshot. A non-zero
// expectedSeq marks the pass as belonging to that snapshot; if the state
// has moved on since, the result comes back superseded and empty so stale
// query results never reach the screen.
func (s *DashboardService) Render(ctx context.Context, user *domain.User, expectedSeq uint64) (*RenderResult, error) {
	roster, err := s.roster.Snapshot(ctx, user)
	if err != nil {
		return nil, err
	}

	snap := s.registry.GetOrCreate(user, roster, s.defaultAnchor(ctx, user)).Snapshot()
	if expectedSeq != 0 && expectedSeq != snap.Seq {
		return &RenderResult{
			Seq:        snap.Seq,
			Superseded: true,
			Plan:       domain.EmptyPlan("render pass superseded"),
		}, nil
	}

	plan := domain.BuildPlan(snap.Selection.Selection, snap.DateRange)
	result := &RenderResult{Seq: snap.Seq, Plan: plan}

	switch plan.Mode {
	case domain.RenderAggregateAll:
		result.Aggregate, err = s.renderAggregate(ctx, roster, plan.Query)
	case domain.RenderGroupSummary:
		result.GroupRows, err = s.renderGroupSummary(ctx, roster, plan.Query)
	case domain.RenderParticipantDetail:
		result.Detail, err = s.renderDetail(ctx, roster, plan.Query)
	case domain.RenderEmpty:
		// Nothing to fetch; the plan carries the reason.
	}
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeDataUnavailable, "dashboard data unavailable")
	}

	return result, nil
}

// renderAggregate averages each visible group's metrics over the window,
// from a single range query. Records of participants outside the visible
// roster are dropped.
func (s *DashboardService) renderAggregate(ctx context.Context, roster domain.GroupRoster, q domain.QueryParams) ([]GroupAverage, error) {
	records, err := s.store.QueryAllMetrics(ctx, q.Start, q.End)
	if err != nil {
		return nil, fmt.Errorf("query all groups: %w", err)
	}

	groupOf := make(map[string]string)
	for groupID, participants := range roster.Participants {
		for _, p := range participants {
			groupOf[p.ID] = groupID
		}
	}
	byGroup := make(map[string][]domain.DailyMetric)
	for _, r := range records {
		if groupID, ok := groupOf[r.ParticipantID]; ok {
			byGroup[groupID] = append(byGroup[groupID], r)
		}
	}

	out := make([]GroupAverage, 0, len(roster.Groups))
	for _, g := range roster.Groups {
		out = append(out, GroupAverage{
			GroupID: g.ID,
			Name:    g.Name,
			Summary: domain.Summarize(byGroup[g.ID]),
		})
	}
	return out, nil
}

// renderGroupSummary builds one row per group participant. Participants
// without data in the window still get a row, with a zero-day summary.
func (s *DashboardService) renderGroupSummary(ctx context.Context, roster domain.GroupRoster, q domain.QueryParams) ([]domain.ParticipantSummary, error) {
	records, err := s.store.QueryGroupMetrics(ctx, q.GroupID, q.Start, q.End)
	if err != nil {
		return nil, fmt.Errorf("query group %s: %w", q.GroupID, err)
	}

	byParticipant := make(map[string][]domain.DailyMetric)
	for _, r := range records {
		byParticipant[r.ParticipantID] = append(byParticipant[r.ParticipantID], r)
	}

	participants := domain.SortParticipants(roster.Participants[q.GroupID])
	rows := make([]domain.ParticipantSummary, 0, len(participants))
	for _, p := range participants {
		rows = append(rows, domain.ParticipantSummary{
			ParticipantID: p.ID,
			DisplayName:   p.DisplayName,
			Summary:       domain.Summarize(byParticipant[p.ID]),
		})
	}
	return rows, nil
}

// renderDetail builds the single-participant payload: full history in the
// window plus the latest record as a headline.
func (s *DashboardService) renderDetail(ctx context.Context, roster domain.GroupRoster, q domain.QueryParams) (*ParticipantDetail, error) {
	records, err := s.store.QueryParticipantMetrics(ctx, q.ParticipantID, q.Start, q.End)
	if err != nil {
		return nil, fmt.Errorf("query participant %s: %w", q.ParticipantID, err)
	}

	detail := &ParticipantDetail{
		ParticipantID: q.ParticipantID,
		DisplayName:   q.ParticipantID,
		Summary:       domain.Summarize(records),
		History:       records,
	}
	for _, p := range roster.Participants[q.GroupID] {
		if p.ID == q.ParticipantID {
			detail.DisplayName = p.DisplayName
			break
		}
	}
	if len(records) > 0 {
		latest := records[len(records)-1]
		detail.Latest = &latest
	}
	return detail, nil
}
