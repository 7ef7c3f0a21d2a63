package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/vitalboard/vitalboard-server/internal/domain"
)

func (s *Server) registerRosterRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGroups",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups",
		Summary:     "Group dropdown options",
		Description: "Returns the group dropdown options for the caller's scope. While show-all is active the dropdown is a single disabled option.",
		Tags:        []string{"Roster"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGroups)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGroupParticipants",
		Method:      http.MethodGet,
		Path:        "/api/v1/groups/{id}/participants",
		Summary:     "Participant dropdown options",
		Description: "Returns the participant dropdown options for a group, keeping a still-valid cached selection as the default.",
		Tags:        []string{"Roster"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListGroupParticipants)
}

// GroupOptionsInput carries the view-state flags the cascade depends on.
type GroupOptionsInput struct {
	ShowAll  bool   `query:"show_all" doc:"Whether the show-all toggle is active"`
	Selected string `query:"selected" doc:"Currently selected group ID"`
}

// GroupOptionsOutput wraps the group dropdown for Huma.
type GroupOptionsOutput struct {
	Body domain.GroupOptions
}

// ParticipantOptionsInput identifies the group and cached selection.
type ParticipantOptionsInput struct {
	GroupID string `path:"id" doc:"Group ID"`
	Cached  string `query:"cached" doc:"Previously selected participant ID, if any"`
}

// ParticipantOptionsOutput wraps the participant dropdown for Huma.
type ParticipantOptionsOutput struct {
	Body domain.ParticipantOptions
}

func (s *Server) handleListGroups(ctx context.Context, input *GroupOptionsInput) (*GroupOptionsOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	opts, err := s.services.Roster.GroupOptions(ctx, user, input.ShowAll, input.Selected)
	if err != nil {
		return nil, err
	}
	return &GroupOptionsOutput{Body: opts}, nil
}

func (s *Server) handleListGroupParticipants(ctx context.Context, input *ParticipantOptionsInput) (*ParticipantOptionsOutput, error) {
	user, err := GetUser(ctx)
	if err != nil {
		return nil, err
	}

	opts, err := s.services.Roster.ParticipantOptions(ctx, user, input.GroupID, input.Cached)
	if err != nil {
		return nil, err
	}
	return &ParticipantOptionsOutput{Body: opts}, nil
}
