package github

import (
	"context"
	"testing"
	"time"

	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/errors"
	"github.com/ai-coding-labs/ai-coding-prompt-builder/internal/kvstore"
)

type fakeFetcher struct {
	info  *RepoInfo
	err   error
	calls int
}

func (f *fakeFetcher) FetchRepo(ctx context.Context, owner, repo string) (*RepoInfo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.info, nil
}

func repoInfo(stars int) *RepoInfo {
	return &RepoInfo{
		StargazersCount: stars,
		HTMLURL:         "https://github.com/ai-coding-labs/ai-coding-prompt-builder",
		FullName:        "ai-coding-labs/ai-coding-prompt-builder",
	}
}

func TestStars_FetchesAndCaches(t *testing.T) {
	fetcher := &fakeFetcher{info: repoInfo(1234)}
	svc := NewService(fetcher, kvstore.NewMem(), 0)

	result, err := svc.Stars(context.Background(), "ai-coding-labs", "ai-coding-prompt-builder")
	if err != nil {
		t.Fatalf("Stars failed: %v", err)
	}
	if result.Repo.StargazersCount != 1234 || result.Cached {
		t.Errorf("Stars = %+v, want fresh 1234", result)
	}

	// Second call inside the TTL is answered from cache.
	if _, err := svc.Stars(context.Background(), "ai-coding-labs", "ai-coding-prompt-builder"); err != nil {
		t.Fatal(err)
	}
	if fetcher.calls != 1 {
		t.Errorf("fetcher called %d times, want 1", fetcher.calls)
	}
}

func TestStars_ExpiredCacheRefetches(t *testing.T) {
	fetcher := &fakeFetcher{info: repoInfo(10)}
	svc := NewService(fetcher, kvstore.NewMem(), time.Minute)

	current := time.Unix(1000, 0)
	svc.now = func() time.Time { return current }

	if _, err := svc.Stars(context.Background(), "o", "r"); err != nil {
		t.Fatal(err)
	}

	current = current.Add(2 * time.Minute)
	fetcher.info = repoInfo(20)
	result, err := svc.Stars(context.Background(), "o", "r")
	if err != nil {
		t.Fatal(err)
	}
	if result.Repo.StargazersCount != 20 || fetcher.calls != 2 {
		t.Errorf("expired cache should refetch: %+v, calls=%d", result, fetcher.calls)
	}
}

func TestStars_StaleFallbackOnFailure(t *testing.T) {
	fetcher := &fakeFetcher{info: repoInfo(42)}
	svc := NewService(fetcher, kvstore.NewMem(), time.Minute)

	current := time.Unix(1000, 0)
	svc.now = func() time.Time { return current }

	if _, err := svc.Stars(context.Background(), "o", "r"); err != nil {
		t.Fatal(err)
	}

	// Cache expires, then the API starts failing.
	current = current.Add(time.Hour)
	fetcher.err = errors.NewUnavailable("rate limited")

	result, err := svc.Stars(context.Background(), "o", "r")
	if err != nil {
		t.Fatalf("stale fallback should not error: %v", err)
	}
	if result.Repo.StargazersCount != 42 || !result.Cached {
		t.Errorf("Stars = %+v, want stale 42 flagged Cached", result)
	}
}

func TestStars_FailureWithoutCache(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.NewUnavailable("down")}
	svc := NewService(fetcher, kvstore.NewMem(), 0)

	_, err := svc.Stars(context.Background(), "o", "r")
	if !errors.Is(err, errors.ErrUnavailable) {
		t.Errorf("Stars with no cache = %v, want UNAVAILABLE", err)
	}
}

func TestFormatStarCount(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1.0k"},
		{1500, "1.5k"},
		{12345, "12.3k"},
	}
	for _, tt := range tests {
		if got := FormatStarCount(tt.count); got != tt.want {
			t.Errorf("FormatStarCount(%d) = %q, want %q", tt.count, got, tt.want)
		}
	}
}
