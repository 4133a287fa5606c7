package searchbox

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/xhd2015/partsearch/models"
)

type fakeTimer struct {
	at      time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// fakeClock fires timers synchronously from Advance.
type fakeClock struct {
	now    time.Duration
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{at: c.now + d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) Advance(d time.Duration) {
	target := c.now + d
	for {
		var due []*fakeTimer
		for _, t := range c.timers {
			if !t.stopped && !t.fired && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			break
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
		t := due[0]
		c.now = t.at
		t.fired = true
		t.f()
	}
	c.now = target
}

func (c *fakeClock) pending() int {
	n := 0
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

type productResult struct {
	product *models.Product
	err     error
}

// fakeCatalog records requests and answers from canned tables.
type fakeCatalog struct {
	mu sync.Mutex

	suggestionQueries []string
	productIDs        []models.PartID

	suggestions    map[string][]models.Suggestion
	suggestionErr  error
	products       map[models.PartID]productResult
	lastSuggestCtx context.Context
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		suggestions: map[string][]models.Suggestion{},
		products:    map[models.PartID]productResult{},
	}
}

func (f *fakeCatalog) Suggestions(ctx context.Context, query string) ([]models.Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.suggestionQueries = append(f.suggestionQueries, query)
	f.lastSuggestCtx = ctx
	if f.suggestionErr != nil {
		return nil, f.suggestionErr
	}
	return f.suggestions[query], nil
}

func (f *fakeCatalog) Product(ctx context.Context, id models.PartID) (*models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.productIDs = append(f.productIDs, id)
	res, ok := f.products[id]
	if !ok {
		return &models.Product{ID: id, PartNumber: "PN-" + id.String()}, nil
	}
	return res.product, res.err
}

// workQueue defers background work until run is called, so tests can
// resolve requests in any order.
type workQueue struct {
	jobs []func()
}

func (q *workQueue) Go(fn func()) {
	q.jobs = append(q.jobs, fn)
}

func (q *workQueue) run(i int) {
	job := q.jobs[i]
	q.jobs = append(q.jobs[:i], q.jobs[i+1:]...)
	job()
}

func (q *workQueue) runAll() {
	for len(q.jobs) > 0 {
		q.run(0)
	}
}
