package services

import (
	"context"
	"net/http"
	"time"

	"github.com/custodia-labs/calsync/internal/core/domain"
	"github.com/custodia-labs/calsync/internal/core/ports/driven"
	"github.com/custodia-labs/calsync/internal/logger"
)

// FetchOutcome classifies a page fetch.
type FetchOutcome int

const (
	// FetchData means a page was returned.
	FetchData FetchOutcome = iota
	// FetchEmpty means the fetch failed without a usable status; paging stops.
	FetchEmpty
	// FetchHTTPError means the provider reported a failure status.
	FetchHTTPError
)

// FetchResult is the outcome of one page fetch: either a page or a status.
type FetchResult struct {
	Page   *domain.RemotePage
	Status int
}

// Outcome classifies the result.
func (r FetchResult) Outcome() FetchOutcome {
	switch {
	case r.Page != nil:
		return FetchData
	case r.Status == 0:
		return FetchEmpty
	default:
		return FetchHTTPError
	}
}

// PageFetcher requests single pages of the remote change feed. It never
// retries; the orchestrator decides what a failure means for the run.
type PageFetcher struct {
	feed     driven.RemoteFeed
	settings domain.SyncSettings
	now      func() time.Time
}

// NewPageFetcher creates a fetcher using the wall clock.
func NewPageFetcher(feed driven.RemoteFeed, settings domain.SyncSettings) *PageFetcher {
	return &PageFetcher{feed: feed, settings: settings, now: time.Now}
}

// Query builds the feed query for a continuation token and page cursor.
// With a token only the token and cursor are sent; without one the query
// covers the configured time window, includes cancelled events and expands
// recurring events into single instances.
func (f *PageFetcher) Query(token, pageToken string) domain.FeedQuery {
	if token != "" {
		return domain.FeedQuery{SyncToken: token, PageToken: pageToken}
	}
	start, end := f.settings.Window(f.now())
	return domain.FeedQuery{
		PageToken:    pageToken,
		TimeMin:      start.UTC().Format(time.RFC3339),
		TimeMax:      end.UTC().Format(time.RFC3339),
		ShowDeleted:  true,
		SingleEvents: true,
		MaxResults:   f.settings.PageSize,
	}
}

// Fetch requests one page. Provider failures are returned as a status code
// instead of an error; a failure carrying status 200 is coerced to an empty
// result. Failures without any status are reported as 408.
func (f *PageFetcher) Fetch(ctx context.Context, remoteID, token, pageToken string) FetchResult {
	query := f.Query(token, pageToken)
	page, err := f.feed.ListEvents(ctx, remoteID, query)
	if err == nil && page != nil {
		return FetchResult{Page: page}
	}
	if err == nil {
		return FetchResult{}
	}

	status, ok := domain.RemoteStatus(err)
	if !ok {
		logger.Debug("Feed request for %s failed without status: %v", remoteID, err)
		return FetchResult{Status: http.StatusRequestTimeout}
	}
	if status == http.StatusOK {
		return FetchResult{}
	}
	logger.Debug("Feed request for %s returned status %d: %v", remoteID, status, err)
	return FetchResult{Status: status}
}
