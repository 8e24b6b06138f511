package services

import (
	"context"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/cfteams/apiserver/internal/common"
	"github.com/cfteams/apiserver/types"
)

// Handles may contain only Latin letters, digits, underscore, or dash.
var handlePattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ProfileProvider supplies full aggregated profiles.
type ProfileProvider interface {
	GetUserProfile(ctx context.Context, handle string) (types.UserProfile, error)
}

// CompareService computes set differences and merged distributions for
// a pair of profiles.
type CompareService struct {
	profiles ProfileProvider
}

func NewCompareService(profiles ProfileProvider) *CompareService {
	return &CompareService{profiles: profiles}
}

// Compare validates both handles, fetches both full profiles in
// parallel, and derives common/unique problem sets plus tag and rating
// comparisons. Validation happens before any fetch; format failures for
// both handles are reported together, not fail-fast.
func (s *CompareService) Compare(ctx context.Context, user1, user2 string) (types.ComparisonResult, error) {
	user1 = strings.TrimSpace(user1)
	user2 = strings.TrimSpace(user2)

	if user1 == "" || user2 == "" {
		return types.ComparisonResult{}, &common.ValidationError{
			Message: `both "user1" and "user2" must be provided`,
		}
	}

	var bad []common.FieldError
	if !handlePattern.MatchString(user1) {
		bad = append(bad, common.FieldError{Field: "user1", Value: user1})
	}
	if !handlePattern.MatchString(user2) {
		bad = append(bad, common.FieldError{Field: "user2", Value: user2})
	}
	if len(bad) > 0 {
		return types.ComparisonResult{}, &common.ValidationError{
			Message: "handles may contain only Latin letters, digits, underscore (_), or dash (-)",
			Details: bad,
		}
	}

	var p1, p2 types.UserProfile
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		p1, err = s.profiles.GetUserProfile(gctx, user1)
		return err
	})
	g.Go(func() error {
		var err error
		p2, err = s.profiles.GetUserProfile(gctx, user2)
		return err
	})
	if err := g.Wait(); err != nil {
		return types.ComparisonResult{}, err
	}

	return types.ComparisonResult{
		User1:      trimmedUser(p1),
		User2:      trimmedUser(p2),
		Comparison: compareProfiles(p1, p2),
	}, nil
}

func trimmedUser(p types.UserProfile) types.ComparedUser {
	return types.ComparedUser{
		Username:    p.Username,
		Rating:      p.Rating,
		MaxRating:   p.MaxRating,
		Rank:        p.Rank,
		SolvedCount: p.SolvedCount,
	}
}

// compareProfiles partitions both solved sets by the problem identity
// key and merges the tag distributions.
func compareProfiles(p1, p2 types.UserProfile) types.Comparison {
	set1 := make(map[string]struct{}, len(p1.SolvedProblems))
	for _, prob := range p1.SolvedProblems {
		set1[prob.Key()] = struct{}{}
	}
	set2 := make(map[string]struct{}, len(p2.SolvedProblems))
	for _, prob := range p2.SolvedProblems {
		set2[prob.Key()] = struct{}{}
	}

	commonProblems := []types.SolvedProblem{}
	user1Unique := []types.SolvedProblem{}
	user2Unique := []types.SolvedProblem{}

	for _, prob := range p1.SolvedProblems {
		if _, ok := set2[prob.Key()]; ok {
			commonProblems = append(commonProblems, prob)
		} else {
			user1Unique = append(user1Unique, prob)
		}
	}
	for _, prob := range p2.SolvedProblems {
		if _, ok := set1[prob.Key()]; !ok {
			user2Unique = append(user2Unique, prob)
		}
	}

	return types.Comparison{
		CommonProblems:            commonProblems,
		User1Unique:               user1Unique,
		User2Unique:               user2Unique,
		TagDistributionComparison: tagDistribution(p1.ProblemsByTag, p2.ProblemsByTag),
		RatingComparison: types.RatingComparison{
			User1:    p1.Rating,
			User2:    p2.Rating,
			MaxUser1: p1.MaxRating,
			MaxUser2: p2.MaxRating,
		},
	}
}

// tagDistribution merges both tag histograms over the union of tags,
// sorted by combined count descending with tag name as the tie-break.
func tagDistribution(tags1, tags2 map[string]int) []types.TagDistribution {
	union := make(map[string]struct{}, len(tags1)+len(tags2))
	for tag := range tags1 {
		union[tag] = struct{}{}
	}
	for tag := range tags2 {
		union[tag] = struct{}{}
	}

	dist := make([]types.TagDistribution, 0, len(union))
	for tag := range union {
		dist = append(dist, types.TagDistribution{Tag: tag, User1: tags1[tag], User2: tags2[tag]})
	}
	sort.Slice(dist, func(i, j int) bool {
		ci := dist[i].User1 + dist[i].User2
		cj := dist[j].User1 + dist[j].User2
		if ci != cj {
			return ci > cj
		}
		return dist[i].Tag < dist[j].Tag
	})
	return dist
}
