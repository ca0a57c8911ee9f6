package viewmodel

import (
	"context"
	"sync"

	"careerhub/internal/models"
	"careerhub/internal/observability"
)

// PageSize is the fixed page length of paginated feeds.
const PageSize = 20

// PageFetcher loads one page of items.
type PageFetcher[P comparable, T any] func(ctx context.Context, params P, skip, limit int) ([]T, error)

// PageState is a snapshot of a Pager.
type PageState[T any] struct {
	Items   []T
	Page    int
	HasMore bool
	Status  Status
	Loading bool
	Err     string
}

// Pager is the skip/limit variant of Container used by the job feed.
//
// HasMore is inferred from the length of the last page: a collection whose size is an exact
// multiple of PageSize reports HasMore until the following empty page has been fetched.
type Pager[P comparable, T any] struct {
	mu      sync.Mutex
	fetch   PageFetcher[P, T]
	opts    options
	params  P
	started bool
	state   PageState[T]
}

// NewPager creates an idle pager.
func NewPager[P comparable, T any](fetch PageFetcher[P, T], params P, opts ...Option) *Pager[P, T] {
	o := options{name: "feed", fallbackMsg: "Something went wrong"}
	for _, opt := range opts {
		opt(&o)
	}
	return &Pager[P, T]{fetch: fetch, opts: o, params: params}
}

// State returns a snapshot with a copy of the items.
func (p *Pager[P, T]) State() PageState[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.Items = append([]T(nil), p.state.Items...)
	return s
}

// Params returns the current filter.
func (p *Pager[P, T]) Params() P {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.params
}

// Reset loads page 0 for params and replaces the items.
func (p *Pager[P, T]) Reset(ctx context.Context, params P) error {
	p.mu.Lock()
	p.params = params
	p.started = true
	p.mu.Unlock()
	return p.load(ctx, 0, true)
}

// LoadMore fetches the next page and appends it.
func (p *Pager[P, T]) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	next := p.state.Page + 1
	if !p.started {
		next = 0
		p.started = true
	}
	p.mu.Unlock()
	return p.load(ctx, next, next == 0)
}

// Refresh reloads page 0 with the current params.
func (p *Pager[P, T]) Refresh(ctx context.Context) error {
	return p.Reset(ctx, p.Params())
}

func (p *Pager[P, T]) load(ctx context.Context, page int, replace bool) error {
	p.mu.Lock()
	params := p.params
	p.state.Loading = true
	p.state.Status = Loading
	p.state.Err = ""
	p.mu.Unlock()

	items, err := p.fetch(ctx, params, page*PageSize, PageSize)
	observability.ViewLoads.WithLabelValues(p.opts.name, outcome(err)).Inc()

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Loading = false
	if err != nil {
		p.state.Status = Error
		p.state.Err = models.UserMessage(err, p.opts.fallbackMsg)
		if p.opts.clearOnError && replace {
			p.state.Items = nil
			p.state.HasMore = false
		}
		return err
	}
	if replace {
		p.state.Items = append([]T(nil), items...)
	} else {
		p.state.Items = append(p.state.Items, items...)
	}
	p.state.Page = page
	p.state.HasMore = len(items) == PageSize
	p.state.Status = Success
	return nil
}

// Fail records a client-side or write error without touching the items.
func (p *Pager[P, T]) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Status = Error
	p.state.Err = models.UserMessage(err, p.opts.fallbackMsg)
}
