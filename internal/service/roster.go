package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vitalboard/vitalboard-server/internal/domain"
	domainerrors "github.com/vitalboard/vitalboard-server/internal/errors"
	"github.com/vitalboard/vitalboard-server/internal/store"
)

// RosterService builds roster snapshots and dropdown options, scoped to
// what the requesting user's role may see. Admins see every group,
// supervisors and participants only their own.
type RosterService struct {
	store  store.Store
	logger *slog.Logger
}

// NewRosterService creates a roster service.
func NewRosterService(store store.Store, logger *slog.Logger) *RosterService {
	return &RosterService{store: store, logger: logger}
}

// Snapshot fetches a fresh roster for the user. The snapshot is a value;
// callers may hold it across a whole resolution pass without it shifting
// underneath them.
func (s *RosterService) Snapshot(ctx context.Context, user *domain.User) (domain.GroupRoster, error) {
	groups, err := s.visibleGroups(ctx, user)
	if err != nil {
		return domain.GroupRoster{}, err
	}

	roster := domain.GroupRoster{
		Groups:       domain.SortGroups(groups),
		Participants: make(map[string][]domain.ParticipantOption, len(groups)),
	}

	for _, g := range roster.Groups {
		participants, err := s.store.ListParticipants(ctx, g.ID)
		if err != nil {
			return domain.GroupRoster{}, fmt.Errorf("list participants of %s: %w", g.ID, err)
		}
		roster.Participants[g.ID] = participants
	}

	return roster, nil
}

// GroupOptions populates the group dropdown for the given view state.
func (s *RosterService) GroupOptions(
	ctx context.Context,
	user *domain.User,
	showAll bool,
	selectedGroupID string,
) (domain.GroupOptions, error) {
	groups, err := s.visibleGroups(ctx, user)
	if err != nil {
		return domain.GroupOptions{}, err
	}
	return domain.PopulateGroups(groups, showAll, selectedGroupID), nil
}

// ParticipantOptions populates the participant dropdown for a group. The
// cached participant, when still present, wins the default slot.
func (s *RosterService) ParticipantOptions(
	ctx context.Context,
	user *domain.User,
	groupID string,
	cachedParticipantID string,
) (domain.ParticipantOptions, error) {
	if groupID != "" && !s.canSeeGroup(user, groupID) {
		return domain.ParticipantOptions{}, domainerrors.Forbidden("group is outside your scope")
	}

	roster, err := s.Snapshot(ctx, user)
	if err != nil {
		return domain.ParticipantOptions{}, err
	}
	return domain.PopulateParticipants(groupID, roster, cachedParticipantID), nil
}

// visibleGroups returns the groups the user's role is allowed to see.
func (s *RosterService) visibleGroups(ctx context.Context, user *domain.User) ([]domain.GroupOption, error) {
	if user.IsAdmin() {
		groups, err := s.store.ListGroups(ctx)
		if err != nil {
			return nil, fmt.Errorf("list groups: %w", err)
		}
		return groups, nil
	}

	if user.GroupID == "" {
		return []domain.GroupOption{}, nil
	}

	group, err := s.store.GetGroup(ctx, user.GroupID)
	if err != nil {
		if domainerrors.Is(err, store.ErrNotFound) {
			if s.logger != nil {
				s.logger.Warn("User references missing group",
					"user_id", user.ID,
					"group_id", user.GroupID,
				)
			}
			return []domain.GroupOption{}, nil
		}
		return nil, fmt.Errorf("get group %s: %w", user.GroupID, err)
	}

	return []domain.GroupOption{{ID: group.ID, Name: group.Name}}, nil
}

// canSeeGroup is the role guard for group-scoped reads.
func (s *RosterService) canSeeGroup(user *domain.User, groupID string) bool {
	if user.IsAdmin() {
		return true
	}
	return user.GroupID == groupID
}
