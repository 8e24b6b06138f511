package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cfteams/apiserver/internal/codeforces"
	"github.com/cfteams/apiserver/internal/common"
	"github.com/cfteams/apiserver/types"
)

// CodeforcesClient is the subset of the API client the profile service
// depends on.
type CodeforcesClient interface {
	UserInfo(ctx context.Context, handle string) (codeforces.UserInfo, error)
	UserStatus(ctx context.Context, handle string) ([]codeforces.Submission, error)
	UserRating(ctx context.Context, handle string) ([]types.ContestResult, error)
}

// ProfileService aggregates raw Codeforces data into full user
// profiles.
type ProfileService struct {
	client CodeforcesClient
	log    *slog.Logger
}

func NewProfileService(client CodeforcesClient, logger *slog.Logger) *ProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProfileService{client: client, log: logger.With("component", "profile")}
}

// GetUserProfile fetches user info, submission history, and rating
// history in parallel and derives the aggregated profile. A failed
// rating-history fetch degrades to an empty history; info and status
// failures propagate. The returned profile carries the full
// deduplicated solved list; callers cap it for API payloads.
func (s *ProfileService) GetUserProfile(ctx context.Context, handle string) (types.UserProfile, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return types.UserProfile{}, &common.ValidationError{Message: "username is required"}
	}

	var (
		info        codeforces.UserInfo
		submissions []codeforces.Submission
		history     []types.ContestResult
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		info, err = s.client.UserInfo(gctx, handle)
		return err
	})
	g.Go(func() error {
		var err error
		submissions, err = s.client.UserStatus(gctx, handle)
		return err
	})
	g.Go(func() error {
		// Best-effort: unrated accounts have no rating history and the
		// endpoint fails for them.
		h, err := s.client.UserRating(gctx, handle)
		if err != nil {
			s.log.Warn("rating history unavailable", "handle", handle, "error", err)
			return nil
		}
		history = h
		return nil
	})
	if err := g.Wait(); err != nil {
		return types.UserProfile{}, err
	}

	solved := aggregateSolved(submissions)
	if history == nil {
		history = []types.ContestResult{}
	}

	avatar := info.Avatar
	if avatar == "" {
		avatar = info.TitlePhoto
	}

	return types.UserProfile{
		Username:                info.Handle,
		Rating:                  info.Rating,
		MaxRating:               info.MaxRating,
		Rank:                    orDefault(info.Rank, "Unrated"),
		MaxRank:                 orDefault(info.MaxRank, "Unrated"),
		Country:                 orDefault(info.Country, "Unknown"),
		Organization:            orDefault(info.Organization, "N/A"),
		Avatar:                  avatar,
		FriendOfCount:           info.FriendOfCount,
		Contribution:            info.Contribution,
		RegistrationTimeSeconds: info.RegistrationTimeSeconds,
		SolvedCount:             len(solved.problems),
		SubmissionStats:         submissionStats(submissions),
		ProblemsByTag:           solved.byTag,
		ProblemsByRating:        solved.byRating,
		RatingHistory:           history,
		HeatmapData:             heatmap(submissions),
		SolvedProblems:          solved.problems,
	}, nil
}

// solvedStats holds the per-problem aggregates derived from a
// submission history.
type solvedStats struct {
	problems []types.SolvedProblem
	byTag    map[string]int
	byRating map[int]int
}

// aggregateSolved deduplicates accepted submissions by problem
// (contest id + index), keeping the first acceptance in input order as
// the representative solve. Tag and rating-bucket counters only see
// first-seen solves, so resubmissions never double-count.
func aggregateSolved(submissions []codeforces.Submission) solvedStats {
	stats := solvedStats{
		problems: []types.SolvedProblem{},
		byTag:    map[string]int{},
		byRating: map[int]int{},
	}

	seen := make(map[string]struct{})
	for _, sub := range submissions {
		if sub.Verdict != codeforces.VerdictOK {
			continue
		}
		p := sub.Problem
		key := fmt.Sprintf("%d-%s", p.ContestID, p.Index)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		stats.problems = append(stats.problems, types.SolvedProblem{
			ContestID: p.ContestID,
			Index:     p.Index,
			Name:      p.Name,
			Rating:    types.ProblemRating(p.Rating),
			Tags:      p.Tags,
			SolvedAt:  sub.CreationTimeSeconds,
		})

		for _, tag := range p.Tags {
			stats.byTag[tag]++
		}
		if p.Rating > 0 {
			stats.byRating[p.Rating/100*100]++
		}
	}

	return stats
}

// submissionStats counts verdicts over all submissions, without
// deduplication.
func submissionStats(submissions []codeforces.Submission) types.SubmissionStats {
	stats := types.SubmissionStats{Total: len(submissions)}
	for _, sub := range submissions {
		switch sub.Verdict {
		case codeforces.VerdictOK:
			stats.Accepted++
		case codeforces.VerdictWrongAnswer:
			stats.WrongAnswer++
		case codeforces.VerdictTimeLimitExceeded:
			stats.TimeLimitExceeded++
		case codeforces.VerdictRuntimeError:
			stats.RuntimeError++
		case codeforces.VerdictCompilationError:
			stats.CompilationError++
		default:
			stats.Other++
		}
	}
	return stats
}

// heatmap counts accepted submissions per UTC calendar day. Repeated
// solves of the same problem on different days each count.
func heatmap(submissions []codeforces.Submission) []types.HeatmapEntry {
	counts := make(map[string]int)
	for _, sub := range submissions {
		if sub.Verdict != codeforces.VerdictOK {
			continue
		}
		day := time.Unix(sub.CreationTimeSeconds, 0).UTC().Format("2006-01-02")
		counts[day]++
	}

	entries := make([]types.HeatmapEntry, 0, len(counts))
	for day, count := range counts {
		entries = append(entries, types.HeatmapEntry{Date: day, Count: count})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Date < entries[j].Date })
	return entries
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
