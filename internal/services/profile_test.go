package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfteams/apiserver/internal/codeforces"
	"github.com/cfteams/apiserver/internal/common"
	"github.com/cfteams/apiserver/types"
)

type fakeClient struct {
	info   func(handle string) (codeforces.UserInfo, error)
	status func(handle string) ([]codeforces.Submission, error)
	rating func(handle string) ([]types.ContestResult, error)
}

func (f *fakeClient) UserInfo(_ context.Context, handle string) (codeforces.UserInfo, error) {
	return f.info(handle)
}

func (f *fakeClient) UserStatus(_ context.Context, handle string) ([]codeforces.Submission, error) {
	return f.status(handle)
}

func (f *fakeClient) UserRating(_ context.Context, handle string) ([]types.ContestResult, error) {
	return f.rating(handle)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newFakeClient(info codeforces.UserInfo, submissions []codeforces.Submission) *fakeClient {
	return &fakeClient{
		info:   func(string) (codeforces.UserInfo, error) { return info, nil },
		status: func(string) ([]codeforces.Submission, error) { return submissions, nil },
		rating: func(string) ([]types.ContestResult, error) { return []types.ContestResult{}, nil },
	}
}

func sub(verdict string, contestID int, index, name string, rating int, tags []string, at int64) codeforces.Submission {
	return codeforces.Submission{
		CreationTimeSeconds: at,
		Verdict:             verdict,
		Problem: codeforces.Problem{
			ContestID: contestID,
			Index:     index,
			Name:      name,
			Rating:    rating,
			Tags:      tags,
		},
	}
}

func TestGetUserProfileDeduplicatesSolves(t *testing.T) {
	client := newFakeClient(codeforces.UserInfo{Handle: "alice"}, []codeforces.Submission{
		sub("OK", 1, "A", "P1", 800, nil, 100),
		sub("OK", 1, "A", "P1", 800, nil, 200),
		sub("OK", 2, "B", "P2", 1200, nil, 300),
		sub("WRONG_ANSWER", 3, "C", "P3", 1500, nil, 400),
	})
	svc := NewProfileService(client, testLogger())

	profile, err := svc.GetUserProfile(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, 2, profile.SolvedCount)
	assert.Len(t, profile.SolvedProblems, 2)
	assert.Equal(t, types.SubmissionStats{Total: 4, Accepted: 3, WrongAnswer: 1}, profile.SubmissionStats)
}

func TestGetUserProfileKeepsFirstAcceptanceInInputOrder(t *testing.T) {
	// Upstream ordering decides the representative solve, not the
	// earliest timestamp.
	client := newFakeClient(codeforces.UserInfo{Handle: "alice"}, []codeforces.Submission{
		sub("OK", 1, "A", "P1", 800, nil, 200),
		sub("OK", 1, "A", "P1", 800, nil, 100),
	})
	svc := NewProfileService(client, testLogger())

	profile, err := svc.GetUserProfile(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, profile.SolvedProblems, 1)
	assert.Equal(t, int64(200), profile.SolvedProblems[0].SolvedAt)
}

func TestGetUserProfileTagHistogram(t *testing.T) {
	client := newFakeClient(codeforces.UserInfo{Handle: "alice"}, []codeforces.Submission{
		sub("OK", 1, "A", "P1", 800, []string{"dp", "math"}, 100),
		sub("OK", 1, "A", "P1", 800, []string{"dp", "math"}, 200),
		sub("OK", 2, "B", "P2", 1200, []string{"dp"}, 300),
	})
	svc := NewProfileService(client, testLogger())

	profile, err := svc.GetUserProfile(context.Background(), "alice")
	require.NoError(t, err)

	// A problem with k tags contributes one to each of k counters, and
	// resubmissions never double-count.
	assert.Equal(t, map[string]int{"dp": 2, "math": 1}, profile.ProblemsByTag)
}

func TestGetUserProfileRatingBuckets(t *testing.T) {
	client := newFakeClient(codeforces.UserInfo{Handle: "alice"}, []codeforces.Submission{
		sub("OK", 1, "A", "P1", 1534, nil, 100),
		sub("OK", 2, "B", "P2", 1599, nil, 200),
		sub("OK", 3, "C", "P3", 1600, nil, 300),
		sub("OK", 4, "D", "P4", 0, nil, 400),
	})
	svc := NewProfileService(client, testLogger())

	profile, err := svc.GetUserProfile(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, map[int]int{1500: 2, 1600: 1}, profile.ProblemsByRating)
	assert.Equal(t, 4, profile.SolvedCount, "unrated problems still count as solved")
}

func TestGetUserProfileVerdictStats(t *testing.T) {
	client := newFakeClient(codeforces.UserInfo{Handle: "alice"}, []codeforces.Submission{
		sub("OK", 1, "A", "P1", 800, nil, 100),
		sub("TIME_LIMIT_EXCEEDED", 1, "A", "P1", 800, nil, 200),
		sub("RUNTIME_ERROR", 1, "A", "P1", 800, nil, 300),
		sub("COMPILATION_ERROR", 1, "A", "P1", 800, nil, 400),
		sub("MEMORY_LIMIT_EXCEEDED", 1, "A", "P1", 800, nil, 500),
	})
	svc := NewProfileService(client, testLogger())

	profile, err := svc.GetUserProfile(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, types.SubmissionStats{
		Total:             5,
		Accepted:          1,
		TimeLimitExceeded: 1,
		RuntimeError:      1,
		CompilationError:  1,
		Other:             1,
	}, profile.SubmissionStats)
}

func TestGetUserProfileHeatmap(t *testing.T) {
	const (
		day1 = 1700000000 // 2023-11-14 UTC
		day2 = 1700100000 // 2023-11-16 UTC
	)
	client := newFakeClient(codeforces.UserInfo{Handle: "alice"}, []codeforces.Submission{
		sub("OK", 1, "A", "P1", 800, nil, day1),
		sub("OK", 1, "A", "P1", 800, nil, day2),
		sub("OK", 2, "B", "P2", 900, nil, day2),
		sub("WRONG_ANSWER", 3, "C", "P3", 900, nil, day2),
	})
	svc := NewProfileService(client, testLogger())

	profile, err := svc.GetUserProfile(context.Background(), "alice")
	require.NoError(t, err)

	// Repeated solves of one problem on different days each count;
	// rejected submissions do not. Entries come out date-sorted.
	assert.Equal(t, []types.HeatmapEntry{
		{Date: "2023-11-14", Count: 1},
		{Date: "2023-11-16", Count: 2},
	}, profile.HeatmapData)
}

func TestGetUserProfileRatingHistoryDegrades(t *testing.T) {
	client := newFakeClient(codeforces.UserInfo{Handle: "alice"}, nil)
	client.rating = func(string) ([]types.ContestResult, error) {
		return nil, &common.ExternalAPIError{StatusCode: 400, Comment: "user is unrated"}
	}
	svc := NewProfileService(client, testLogger())

	profile, err := svc.GetUserProfile(context.Background(), "alice")
	require.NoError(t, err, "rating history failures must not fail the profile")
	assert.Empty(t, profile.RatingHistory)
	assert.NotNil(t, profile.RatingHistory)
}

func TestGetUserProfileSubmissionFailurePropagates(t *testing.T) {
	client := newFakeClient(codeforces.UserInfo{Handle: "alice"}, nil)
	client.status = func(string) ([]codeforces.Submission, error) {
		return nil, &common.ExternalAPIError{StatusCode: 503}
	}
	svc := NewProfileService(client, testLogger())

	_, err := svc.GetUserProfile(context.Background(), "alice")
	require.ErrorIs(t, err, common.ErrExternalAPI)
}

func TestGetUserProfileNotFoundPropagates(t *testing.T) {
	client := newFakeClient(codeforces.UserInfo{}, nil)
	client.info = func(string) (codeforces.UserInfo, error) {
		return codeforces.UserInfo{}, fmt.Errorf("user %q not found on Codeforces: %w", "ghost", common.ErrNotFound)
	}
	svc := NewProfileService(client, testLogger())

	_, err := svc.GetUserProfile(context.Background(), "ghost")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetUserProfileDefaults(t *testing.T) {
	client := newFakeClient(codeforces.UserInfo{Handle: "newbie", TitlePhoto: "https://example.org/t.jpg"}, nil)
	svc := NewProfileService(client, testLogger())

	profile, err := svc.GetUserProfile(context.Background(), "newbie")
	require.NoError(t, err)

	assert.Equal(t, "Unrated", profile.Rank)
	assert.Equal(t, "Unrated", profile.MaxRank)
	assert.Equal(t, "Unknown", profile.Country)
	assert.Equal(t, "N/A", profile.Organization)
	assert.Equal(t, "https://example.org/t.jpg", profile.Avatar, "avatar falls back to title photo")
}

func TestGetUserProfileEmptyHandle(t *testing.T) {
	svc := NewProfileService(newFakeClient(codeforces.UserInfo{}, nil), testLogger())

	_, err := svc.GetUserProfile(context.Background(), "  ")
	require.ErrorIs(t, err, common.ErrValidation)
}
