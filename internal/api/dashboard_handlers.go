package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vitalboard/vitalboard-server/internal/service"
	"github.com/vitalboard/vitalboard-server/internal/viewstate"
)

func (s *Server) registerDashboardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getView",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard/view",
		Summary:     "Get view state",
		Description: "Returns the caller's current dashboard view-state snapshot, creating it with role defaults on first use.",
		Tags:        []string{"Dashboard"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetView)

	huma.Register(s.api, huma.Operation{
		OperationID: "applyViewEvents",
		Method:      http.MethodPost,
		Path:        "/api/v1/dashboard/view",
		Summary:     "Apply view events",
		Description: "Folds a batch of view control events into one atomic state transition and returns the new snapshot.",
		Tags:        []string{"Dashboard"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleApplyViewEvents)

	huma.Register(s.api, huma.Operation{
		OperationID: "renderDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/dashboard/render",
		Summary:     "Render dashboard",
		Description: "Resolves the current view state into a render plan and fetches its data. Passing seq marks the pass as belonging to that snapshot; stale passes come back superseded.",
		Tags:        []string{"Dashboard"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleRender)
}

// ViewOutput wraps a view-state snapshot for Huma.
type ViewOutput struct {
	Body viewstate.Snapshot
}

// ViewEventsRequest is a batch of view control events.
type ViewEventsRequest struct {
	Events []viewstate.Event `json:"events" validate:"required,min=1" doc:"Control events, applied in order as one transition"`
}

// ViewEventsInput wraps the events request for Huma.
type ViewEventsInput struct {
	Body ViewEventsRequest
}

// RenderInput carries the optional snapshot sequence a render pass
// belongs to.
type RenderInput struct {
	Seq uint64 `query:"seq" doc:"Snapshot sequence this pass belongs to; 0 renders the latest"`
}

// RenderOutput wraps the render result for Huma.
type RenderOutput struct {
	Body service.RenderResult
}

func (s *Server) handleGetView(ctx context.Context, _ *struct{}) (*ViewOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.services.Dashboard.View(ctx, user)
	if err != nil {
		return nil, err
	}
	return &ViewOutput{Body: snap}, nil
}

func (s *Server) handleApplyViewEvents(ctx context.Context, input *ViewEventsInput) (*ViewOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	snap, err := s.services.Dashboard.ApplyEvents(ctx, user, input.Body.Events)
	if err != nil {
		return nil, err
	}
	return &ViewOutput{Body: snap}, nil
}

func (s *Server) handleRender(ctx context.Context, input *RenderInput) (*RenderOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	result, err := s.services.Dashboard.Render(ctx, user, input.Seq)
	if err != nil {
		return nil, err
	}
	return &RenderOutput{Body: *result}, nil
}
