package codeforces

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/cfteams/apiserver/internal/common"
	"github.com/cfteams/apiserver/types"
)

// Cache key namespaces. Each endpoint is cached independently.
const (
	keyUserInfo    = "userInfo_"
	keyUserStatus  = "userStatus_"
	keyUserRating  = "userRating_"
	keyUserSummary = "userSummary_"
)

const (
	defaultBaseURL         = "https://codeforces.com/api"
	defaultMinCallInterval = 2 * time.Second
	defaultCacheTTL        = 10 * time.Minute
	defaultSummaryTTL      = 5 * time.Minute
	defaultHTTPTimeout     = 30 * time.Second
	cacheCleanupInterval   = 2 * time.Minute
)

// Config controls a Client. Zero values fall back to the Codeforces
// production defaults.
type Config struct {
	BaseURL         string
	MinCallInterval time.Duration
	CacheTTL        time.Duration
	SummaryCacheTTL time.Duration
	HTTPTimeout     time.Duration
}

// Client talks to the Codeforces REST API. All outbound calls funnel
// through one rate gate enforcing a global minimum interval, and every
// endpoint result is cached with a TTL. Cache hits bypass the gate
// entirely. Concurrent misses for the same key are coalesced into a
// single upstream call.
type Client struct {
	baseURL    string
	httpClient *http.Client
	gate       *rate.Limiter
	cache      *gocache.Cache
	summaryTTL time.Duration
	group      singleflight.Group
	log        *slog.Logger
}

// NewClient constructs a Client with its own cache instance.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MinCallInterval <= 0 {
		cfg.MinCallInterval = defaultMinCallInterval
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = defaultCacheTTL
	}
	if cfg.SummaryCacheTTL <= 0 {
		cfg.SummaryCacheTTL = defaultSummaryTTL
	}
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = defaultHTTPTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.HTTPTimeout},
		gate:       rate.NewLimiter(rate.Every(cfg.MinCallInterval), 1),
		cache:      gocache.New(cfg.CacheTTL, cacheCleanupInterval),
		summaryTTL: cfg.SummaryCacheTTL,
		log:        logger.With("component", "codeforces"),
	}
}

// UserInfo fetches basic account data for a handle. Unknown handles map
// to common.ErrNotFound.
func (c *Client) UserInfo(ctx context.Context, handle string) (UserInfo, error) {
	v, err := c.cached(keyUserInfo+handle, gocache.DefaultExpiration, func() (any, error) {
		api, err := c.fetch(ctx, c.baseURL+"/user.info?handles="+url.QueryEscape(handle))
		if err != nil {
			// Codeforces answers unknown handles with a FAILED
			// envelope on HTTP 400.
			var apiErr *common.ExternalAPIError
			if errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusBadRequest || apiErr.Comment != "") {
				return nil, fmt.Errorf("user %q not found on Codeforces: %w", handle, common.ErrNotFound)
			}
			return nil, err
		}

		var infos []UserInfo
		if err := json.Unmarshal(api.Result, &infos); err != nil {
			return nil, fmt.Errorf("decode user.info result: %w", err)
		}
		if len(infos) == 0 {
			return nil, fmt.Errorf("user %q not found on Codeforces: %w", handle, common.ErrNotFound)
		}
		return infos[0], nil
	})
	if err != nil {
		return UserInfo{}, err
	}
	return v.(UserInfo), nil
}

// UserStatus fetches the full submission history for a handle.
func (c *Client) UserStatus(ctx context.Context, handle string) ([]Submission, error) {
	v, err := c.cached(keyUserStatus+handle, gocache.DefaultExpiration, func() (any, error) {
		api, err := c.fetch(ctx, c.baseURL+"/user.status?handle="+url.QueryEscape(handle))
		if err != nil {
			return nil, err
		}

		var submissions []Submission
		if err := json.Unmarshal(api.Result, &submissions); err != nil {
			return nil, fmt.Errorf("decode user.status result: %w", err)
		}
		return submissions, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Submission), nil
}

// UserRating fetches the rated contest history for a handle. Unrated
// accounts fail upstream; callers treat this dataset as best-effort.
func (c *Client) UserRating(ctx context.Context, handle string) ([]types.ContestResult, error) {
	v, err := c.cached(keyUserRating+handle, gocache.DefaultExpiration, func() (any, error) {
		api, err := c.fetch(ctx, c.baseURL+"/user.rating?handle="+url.QueryEscape(handle))
		if err != nil {
			return nil, err
		}

		var history []types.ContestResult
		if err := json.Unmarshal(api.Result, &history); err != nil {
			return nil, fmt.Errorf("decode user.rating result: %w", err)
		}
		return history, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]types.ContestResult), nil
}

// UserSummary fetches the lightweight view used by team validation and
// leaderboards: basic info plus the deduplicated solved count. It is
// cached as a whole under its own namespace and TTL.
func (c *Client) UserSummary(ctx context.Context, handle string) (types.UserSummary, error) {
	v, err := c.cached(keyUserSummary+handle, c.summaryTTL, func() (any, error) {
		info, err := c.UserInfo(ctx, handle)
		if err != nil {
			return nil, err
		}
		submissions, err := c.UserStatus(ctx, handle)
		if err != nil {
			return nil, err
		}

		solved := make(map[string]struct{})
		for _, sub := range submissions {
			if sub.Verdict != VerdictOK {
				continue
			}
			solved[strconv.Itoa(sub.Problem.ContestID)+"-"+sub.Problem.Index] = struct{}{}
		}

		avatar := info.TitlePhoto
		if avatar == "" {
			avatar = info.Avatar
		}

		return types.UserSummary{
			Username:     info.Handle,
			Rating:       info.Rating,
			MaxRating:    info.MaxRating,
			Rank:         orDefault(info.Rank, "Unrated"),
			MaxRank:      orDefault(info.MaxRank, "Unrated"),
			Country:      orDefault(info.Country, "Unknown"),
			Organization: orDefault(info.Organization, "Unknown"),
			SolvedCount:  len(solved),
			Avatar:       avatar,
			Contribution: info.Contribution,
		}, nil
	})
	if err != nil {
		return types.UserSummary{}, err
	}
	return v.(types.UserSummary), nil
}

// cached returns the value under key, filling it on a miss. Concurrent
// misses for the same key share one fill; hits never touch the rate
// gate.
func (c *Client) cached(key string, ttl time.Duration, fill func() (any, error)) (any, error) {
	if v, ok := c.cache.Get(key); ok {
		c.log.Debug("cache hit", "key", key)
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A concurrent flight may have populated the cache while this
		// caller was queued behind group.Do.
		if v, ok := c.cache.Get(key); ok {
			return v, nil
		}
		v, err := fill()
		if err != nil {
			return nil, err
		}
		c.cache.Set(key, v, ttl)
		c.log.Debug("cached", "key", key)
		return v, nil
	})
	return v, err
}

// fetch issues one GET against the API, waiting on the global gate
// first. Non-2xx responses and FAILED envelopes become
// ExternalAPIError.
func (c *Client) fetch(ctx context.Context, rawURL string) (*apiResponse, error) {
	if err := c.gate.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &common.ExternalAPIError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &common.ExternalAPIError{Err: err}
	}

	var api apiResponse
	if err := json.Unmarshal(body, &api); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &common.ExternalAPIError{StatusCode: resp.StatusCode}
		}
		return nil, &common.ExternalAPIError{Err: fmt.Errorf("decode response: %w", err)}
	}

	if resp.StatusCode != http.StatusOK || api.Status != "OK" {
		c.log.Warn("upstream call failed", "url", rawURL, "status", resp.StatusCode, "comment", api.Comment)
		return nil, &common.ExternalAPIError{StatusCode: resp.StatusCode, Comment: api.Comment}
	}

	return &api, nil
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
