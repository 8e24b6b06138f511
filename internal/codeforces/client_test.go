package codeforces

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cfteams/apiserver/internal/common"
)

func newTestClient(t *testing.T, handler http.Handler, interval time.Duration) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	return NewClient(Config{
		BaseURL:         ts.URL,
		MinCallInterval: interval,
		CacheTTL:        time.Minute,
		SummaryCacheTTL: time.Minute,
		HTTPTimeout:     5 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func okEnvelope(result string) string {
	return fmt.Sprintf(`{"status":"OK","result":%s}`, result)
}

const touristInfo = `[{"handle":"tourist","rating":3700,"maxRating":3979,"rank":"legendary grandmaster","maxRank":"legendary grandmaster","country":"Belarus","contribution":128,"friendOfCount":5000,"registrationTimeSeconds":1265987288,"avatar":"https://example.org/a.jpg","titlePhoto":"https://example.org/t.jpg"}]`

func TestUserInfo(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user.info", r.URL.Path)
		assert.Equal(t, "tourist", r.URL.Query().Get("handles"))
		fmt.Fprint(w, okEnvelope(touristInfo))
	}), time.Millisecond)

	info, err := client.UserInfo(context.Background(), "tourist")
	require.NoError(t, err)
	assert.Equal(t, "tourist", info.Handle)
	assert.Equal(t, 3700, info.Rating)
	assert.Equal(t, "legendary grandmaster", info.Rank)
}

func TestUserInfoCachedWithinTTL(t *testing.T) {
	var hits atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, okEnvelope(touristInfo))
	}), time.Millisecond)

	first, err := client.UserInfo(context.Background(), "tourist")
	require.NoError(t, err)
	second, err := client.UserInfo(context.Background(), "tourist")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), hits.Load(), "second lookup must be served from cache")
}

func TestUserInfoNotFound(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"status":"FAILED","comment":"handles: User with handle nosuchuser not found"}`)
	}), time.Millisecond)

	_, err := client.UserInfo(context.Background(), "nosuchuser")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestUserInfoUpstreamFailure(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		fmt.Fprint(w, "<html>maintenance</html>")
	}), time.Millisecond)

	_, err := client.UserInfo(context.Background(), "tourist")
	require.ErrorIs(t, err, common.ErrExternalAPI)

	var apiErr *common.ExternalAPIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.StatusCode)
}

func TestMinimumIntervalBetweenCalls(t *testing.T) {
	const interval = 150 * time.Millisecond

	var hits atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, okEnvelope(touristInfo))
	}), interval)

	// Different handles so the cache cannot absorb the second call.
	start := time.Now()
	_, err := client.UserInfo(context.Background(), "alice")
	require.NoError(t, err)
	_, err = client.UserInfo(context.Background(), "bob")
	require.NoError(t, err)

	assert.Equal(t, int64(2), hits.Load())
	assert.GreaterOrEqual(t, time.Since(start), interval,
		"back-to-back outbound calls must be spaced by the minimum interval")
}

func TestCacheHitBypassesRateGate(t *testing.T) {
	const interval = 500 * time.Millisecond

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, okEnvelope(touristInfo))
	}), interval)

	_, err := client.UserInfo(context.Background(), "tourist")
	require.NoError(t, err)

	start := time.Now()
	_, err = client.UserInfo(context.Background(), "tourist")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), interval/2, "cache hit must not wait on the gate")
}

func TestConcurrentMissesCoalesced(t *testing.T) {
	var hits atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		time.Sleep(50 * time.Millisecond)
		fmt.Fprint(w, okEnvelope(touristInfo))
	}), time.Millisecond)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			info, err := client.UserInfo(context.Background(), "tourist")
			assert.NoError(t, err)
			assert.Equal(t, "tourist", info.Handle)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), hits.Load(), "concurrent misses for one key must share a single upstream call")
}

func TestUserStatus(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user.status", r.URL.Path)
		fmt.Fprint(w, okEnvelope(`[
			{"id":1,"creationTimeSeconds":1700000000,"verdict":"OK","problem":{"contestId":1,"index":"A","name":"Theatre Square","rating":1000,"tags":["math"]}},
			{"id":2,"creationTimeSeconds":1700000100,"verdict":"WRONG_ANSWER","problem":{"contestId":1,"index":"B","name":"Spreadsheets","rating":1600,"tags":["implementation","math"]}}
		]`))
	}), time.Millisecond)

	submissions, err := client.UserStatus(context.Background(), "tourist")
	require.NoError(t, err)
	require.Len(t, submissions, 2)
	assert.Equal(t, VerdictOK, submissions[0].Verdict)
	assert.Equal(t, "Theatre Square", submissions[0].Problem.Name)
	assert.Equal(t, []string{"implementation", "math"}, submissions[1].Problem.Tags)
}

func TestUserRating(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user.rating", r.URL.Path)
		fmt.Fprint(w, okEnvelope(`[{"contestId":1,"contestName":"Codeforces Beta Round #1","rank":3,"ratingUpdateTimeSeconds":1266588000,"oldRating":0,"newRating":1602}]`))
	}), time.Millisecond)

	history, err := client.UserRating(context.Background(), "tourist")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, 1602, history[0].NewRating)
}

func TestUserSummary(t *testing.T) {
	var hits atomic.Int64
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.URL.Path {
		case "/user.info":
			fmt.Fprint(w, okEnvelope(`[{"handle":"alice","rating":1500,"maxRating":1600,"titlePhoto":"https://example.org/t.jpg"}]`))
		case "/user.status":
			fmt.Fprint(w, okEnvelope(`[
				{"verdict":"OK","problem":{"contestId":1,"index":"A","name":"P1"}},
				{"verdict":"OK","problem":{"contestId":1,"index":"A","name":"P1"}},
				{"verdict":"OK","problem":{"contestId":2,"index":"B","name":"P2"}},
				{"verdict":"WRONG_ANSWER","problem":{"contestId":3,"index":"C","name":"P3"}}
			]`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}), time.Millisecond)

	summary, err := client.UserSummary(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", summary.Username)
	assert.Equal(t, 2, summary.SolvedCount, "solved count must deduplicate repeated acceptances")
	assert.Equal(t, "Unrated", summary.Rank)
	assert.Equal(t, "Unknown", summary.Country)
	assert.Equal(t, "https://example.org/t.jpg", summary.Avatar)

	// The whole summary is cached; a second lookup issues no calls.
	before := hits.Load()
	_, err = client.UserSummary(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, before, hits.Load())
}
