// Package github fetches repository star counts for the status badge,
// caching results so repeated lookups don't burn unauthenticated API
// rate limit.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cli/go-gh/v2/pkg/api"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/kvstore"
)

const cacheKeyPrefix = "github_star_cache_"

// DefaultCacheTTL is how long a fetched star count stays fresh.
const DefaultCacheTTL = 30 * time.Minute

// RepoInfo is the subset of the repository API response the badge
// needs.
type RepoInfo struct {
	StargazersCount int    `json:"stargazers_count"`
	HTMLURL         string `json:"html_url"`
	FullName        string `json:"full_name"`
}

// Fetcher retrieves repository info. The REST implementation talks to
// the GitHub API; tests substitute a fake.
type Fetcher interface {
	FetchRepo(ctx context.Context, owner, repo string) (*RepoInfo, error)
}

// RESTFetcher fetches repository info over the GitHub REST API without
// authentication. Public repositories only, 60 requests/hour.
type RESTFetcher struct {
	client *api.RESTClient
}

// NewRESTFetcher creates an unauthenticated REST fetcher.
func NewRESTFetcher() (*RESTFetcher, error) {
	client, err := api.NewRESTClient(api.ClientOptions{})
	if err != nil {
		return nil, err
	}
	return &RESTFetcher{client: client}, nil
}

// FetchRepo fetches repository metadata.
func (f *RESTFetcher) FetchRepo(ctx context.Context, owner, repo string) (*RepoInfo, error) {
	if owner == "" || repo == "" {
		return nil, errors.NewInvalidRequest("owner and repo are required")
	}

	var info RepoInfo
	endpoint := fmt.Sprintf("repos/%s/%s", owner, repo)
	if err := f.client.DoWithContext(ctx, "GET", endpoint, nil, &info); err != nil {
		return nil, errors.NewUnavailable(fmt.Sprintf("GitHub API request failed: %v", err))
	}
	return &info, nil
}

// cachedRepo wraps a fetched response with its fetch time.
type cachedRepo struct {
	Data      RepoInfo `json:"data"`
	Timestamp int64    `json:"timestamp"`
}

// Service answers star lookups from cache when fresh, from the API
// otherwise. When the API fails, a stale cache entry is served rather
// than nothing.
type Service struct {
	fetcher Fetcher
	store   kvstore.Store
	ttl     time.Duration
	now     func() time.Time
}

// NewService creates a star lookup service. A zero ttl means
// DefaultCacheTTL.
func NewService(fetcher Fetcher, store kvstore.Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &Service{
		fetcher: fetcher,
		store:   store,
		ttl:     ttl,
		now:     time.Now,
	}
}

// StarResult is a star lookup outcome.
type StarResult struct {
	Repo   RepoInfo `json:"repo"`
	Cached bool     `json:"cached"` // true when served from a stale cache after a failed fetch
}

// Stars returns the repository's star info. Fresh cache hits skip the
// network entirely; on a fetch failure a stale entry is returned with
// Cached set.
func (s *Service) Stars(ctx context.Context, owner, repo string) (*StarResult, error) {
	cacheKey := fmt.Sprintf("%s%s_%s", cacheKeyPrefix, owner, repo)

	cached, age := s.readCache(cacheKey)
	if cached != nil && age < s.ttl {
		return &StarResult{Repo: *cached}, nil
	}

	info, err := s.fetcher.FetchRepo(ctx, owner, repo)
	if err != nil {
		// Expired cache beats no answer at all.
		if cached != nil {
			return &StarResult{Repo: *cached, Cached: true}, nil
		}
		return nil, err
	}

	entry := cachedRepo{Data: *info, Timestamp: s.now().UnixMilli()}
	if raw, marshalErr := json.Marshal(entry); marshalErr == nil {
		_ = s.store.Set(cacheKey, string(raw))
	}

	return &StarResult{Repo: *info}, nil
}

// readCache returns the cached entry and its age, or nil when absent
// or unreadable.
func (s *Service) readCache(key string) (*RepoInfo, time.Duration) {
	raw, ok := s.store.Get(key)
	if !ok || raw == "" {
		return nil, 0
	}
	var entry cachedRepo
	if err := json.Unmarshal([]byte(raw), &entry); err != nil {
		_ = s.store.Delete(key)
		return nil, 0
	}
	age := time.Duration(s.now().UnixMilli()-entry.Timestamp) * time.Millisecond
	return &entry.Data, age
}

// FormatStarCount humanizes a star count: 1000 and up becomes k-units
// with one decimal place.
func FormatStarCount(count int) string {
	if count >= 1000 {
		return fmt.Sprintf("%.1fk", float64(count)/1000)
	}
	return fmt.Sprintf("%d", count)
}
