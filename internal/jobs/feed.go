// Package jobs holds the job browser feed, the interaction tracker and the
// cover-letter flow.
package jobs

import (
	"context"
	"fmt"
	"log"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/jonathan/job-assistant/internal/types"
)

// Searcher runs one job search page.
type Searcher interface {
	SearchJobs(ctx context.Context, filters types.SearchFilters) (*types.JobPage, error)
}

// Feed is an infinite-scroll job list. Pages are appended until the
// searcher reports no more results.
type Feed struct {
	searcher Searcher
	group    singleflight.Group

	mu         sync.Mutex
	filters    types.SearchFilters
	jobs       []types.Job
	seen       map[string]struct{}
	page       int
	hasMore    bool
	generation int
}

// NewFeed returns an empty feed. Call Reset to load the first page.
func NewFeed(searcher Searcher) *Feed {
	return &Feed{searcher: searcher, seen: make(map[string]struct{})}
}

// Reset replaces the filters and loads page one.
func (f *Feed) Reset(ctx context.Context, filters types.SearchFilters) ([]types.Job, error) {
	filters.Page = 1
	filters.CurrentJobIDs = nil
	filters.Normalize()

	f.mu.Lock()
	f.generation++
	gen := f.generation
	f.filters = filters
	f.jobs = nil
	f.seen = make(map[string]struct{})
	f.page = 0
	f.hasMore = false
	f.mu.Unlock()

	resp, err := f.searcher.SearchJobs(ctx, filters)
	if err != nil {
		log.Printf("[jobs] search failed: %v", err)
		return nil, fmt.Errorf("failed to search jobs: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		return f.snapshotLocked(), nil
	}
	f.appendLocked(resp)
	f.page = 1
	return f.snapshotLocked(), nil
}

// OnVisible reports that the job at index was rendered on screen. The next
// page is fetched only when it is the last loaded job and more results
// are available.
func (f *Feed) OnVisible(ctx context.Context, index int) (int, error) {
	f.mu.Lock()
	if index != len(f.jobs)-1 || !f.hasMore || f.page == 0 {
		f.mu.Unlock()
		return 0, nil
	}
	gen, next := f.generation, f.page+1
	f.mu.Unlock()
	return f.load(ctx, gen, next)
}

// LoadMore fetches the next page when the previous one reported more
// results. It returns the number of jobs added.
func (f *Feed) LoadMore(ctx context.Context) (int, error) {
	f.mu.Lock()
	if !f.hasMore || f.page == 0 {
		f.mu.Unlock()
		return 0, nil
	}
	gen, next := f.generation, f.page+1
	f.mu.Unlock()
	return f.load(ctx, gen, next)
}

// load fetches one page. Concurrent calls for the same page share a
// single fetch, and a page that already arrived is not fetched again.
func (f *Feed) load(ctx context.Context, gen, page int) (int, error) {
	key := fmt.Sprintf("%d:%d", gen, page)
	v, err, _ := f.group.Do(key, func() (any, error) {
		return f.fetchPage(ctx, gen, page)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (f *Feed) fetchPage(ctx context.Context, gen, page int) (int, error) {
	f.mu.Lock()
	if gen != f.generation || f.page >= page {
		f.mu.Unlock()
		return 0, nil
	}
	filters := f.filters
	filters.Page = page
	filters.CurrentJobIDs = make([]string, 0, len(f.jobs))
	for _, j := range f.jobs {
		filters.CurrentJobIDs = append(filters.CurrentJobIDs, j.ID)
	}
	f.mu.Unlock()

	resp, err := f.searcher.SearchJobs(ctx, filters)
	if err != nil {
		log.Printf("[jobs] failed to load page %d: %v", page, err)
		return 0, fmt.Errorf("failed to load more jobs: %w", err)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		return 0, nil
	}
	added := f.appendLocked(resp)
	f.page = page
	return added, nil
}

func (f *Feed) appendLocked(resp *types.JobPage) int {
	added := 0
	for _, j := range resp.Data {
		if _, dup := f.seen[j.ID]; dup {
			continue
		}
		f.seen[j.ID] = struct{}{}
		f.jobs = append(f.jobs, j)
		added++
	}
	f.hasMore = resp.HasMore
	return added
}

func (f *Feed) snapshotLocked() []types.Job {
	return append([]types.Job(nil), f.jobs...)
}

// Jobs returns the loaded jobs in order.
func (f *Feed) Jobs() []types.Job {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

// HasMore reports whether another page is available.
func (f *Feed) HasMore() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hasMore
}

// Filters returns the active filters.
func (f *Feed) Filters() types.SearchFilters {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.filters
}
