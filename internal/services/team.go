package services

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cfteams/apiserver/internal/common"
	"github.com/cfteams/apiserver/types"
)

// TeamRepository defines persistence operations for teams.
type TeamRepository interface {
	Insert(ctx context.Context, team types.Team) error
	Get(ctx context.Context, id string) (types.Team, error)
	List(ctx context.Context) ([]types.Team, error)
	Delete(ctx context.Context, id string) error
}

// SummaryFetcher provides the lightweight per-user lookup used to
// validate members and build leaderboards. Implementations share the
// global rate gate, so sequential calls are naturally spaced.
type SummaryFetcher interface {
	UserSummary(ctx context.Context, handle string) (types.UserSummary, error)
}

// TeamService encapsulates team use-cases.
type TeamService struct {
	repo   TeamRepository
	client SummaryFetcher
	log    *slog.Logger
}

func NewTeamService(repo TeamRepository, client SummaryFetcher, logger *slog.Logger) *TeamService {
	if logger == nil {
		logger = slog.Default()
	}
	return &TeamService{repo: repo, client: client, log: logger.With("component", "team")}
}

// CreateTeam validates every member against Codeforces and persists the
// team only when all of them exist. All members are checked even after
// the first failure so the response can list every invalid handle.
func (s *TeamService) CreateTeam(ctx context.Context, name string, members []string, createdBy string) (types.Team, error) {
	name = strings.TrimSpace(name)
	createdBy = strings.TrimSpace(createdBy)

	if name == "" || len(members) == 0 {
		return types.Team{}, &common.ValidationError{Message: "team name and members array are required"}
	}
	if createdBy == "" {
		return types.Team{}, &common.ValidationError{Message: "createdBy field is required"}
	}

	var invalid []string
	for _, member := range members {
		if _, err := s.client.UserSummary(ctx, member); err != nil {
			s.log.Warn("member validation failed", "member", member, "error", err)
			invalid = append(invalid, member)
		}
	}
	if len(invalid) > 0 {
		return types.Team{}, &common.ValidationError{
			Message:        "some usernames are invalid",
			InvalidMembers: invalid,
		}
	}

	team := types.Team{
		ID:        uuid.NewString(),
		Name:      name,
		Members:   members,
		CreatedBy: createdBy,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Insert(ctx, team); err != nil {
		return types.Team{}, err
	}

	s.log.Info("team created", "id", team.ID, "name", team.Name, "members", len(team.Members))
	return team, nil
}

func (s *TeamService) GetTeam(ctx context.Context, id string) (types.Team, error) {
	return s.repo.Get(ctx, id)
}

// ListTeams returns all teams, newest first.
func (s *TeamService) ListTeams(ctx context.Context) ([]types.Team, error) {
	return s.repo.List(ctx)
}

func (s *TeamService) DeleteTeam(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// GetLeaderboard loads the team and fetches each member's summary
// sequentially. A failed member fetch does not abort the leaderboard:
// that member appears with placeholder fields and an error marker.
func (s *TeamService) GetLeaderboard(ctx context.Context, teamID string) (types.Leaderboard, error) {
	team, err := s.repo.Get(ctx, teamID)
	if err != nil {
		return types.Leaderboard{}, err
	}

	entries := make([]types.LeaderboardEntry, 0, len(team.Members))
	for _, member := range team.Members {
		summary, err := s.client.UserSummary(ctx, member)
		if err != nil {
			s.log.Warn("leaderboard member fetch failed", "member", member, "error", err)
			entries = append(entries, types.LeaderboardEntry{
				UserSummary: types.UserSummary{
					Username:     member,
					Rank:         "Unknown",
					MaxRank:      "Unknown",
					Country:      "Unknown",
					Organization: "Unknown",
				},
				Error: "Failed to fetch data",
			})
			continue
		}
		entries = append(entries, types.LeaderboardEntry{UserSummary: summary})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Rating != entries[j].Rating {
			return entries[i].Rating > entries[j].Rating
		}
		return entries[i].SolvedCount > entries[j].SolvedCount
	})
	for i := range entries {
		entries[i].Position = i + 1
	}

	return types.Leaderboard{
		TeamID:      team.ID,
		TeamName:    team.Name,
		MemberCount: len(team.Members),
		Leaderboard: entries,
	}, nil
}
