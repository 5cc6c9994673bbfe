package catalogclient

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rupamlabs/ecatalog/pkg/api"
	"github.com/rupamlabs/ecatalog/pkg/cache"
)

// Mode selects how a fetched page is consumed.
type Mode int

const (
	// Replace makes the returned page the full visible set (classic pagination).
	Replace Mode = iota
	// Append merges the returned page into the accumulated set, deduplicated
	// by product ID (infinite scroll).
	Append
)

// State is the pager lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoadingFirstPage
	StateLoadingMore
	StateLoadingReplace
	StateReady
)

const (
	// DefaultTTL is how long a cached page is trusted without re-fetching.
	DefaultTTL = 60 * time.Second
	// DefaultDebounce is how long a search term must be stable before it
	// triggers a query.
	DefaultDebounce = 300 * time.Millisecond
	// DefaultLimit is the storefront batch size for incremental loading.
	DefaultLimit = 24
)

// Pager drives paginated catalog consumption for one view. Each consumer
// (storefront, admin table) owns an independent Pager so cached totals never
// cross-contaminate.
//
// Lifecycle: IDLE -> LOADING_FIRST_PAGE -> READY, then LOADING_MORE (Append)
// or LOADING_REPLACE (Replace) back to READY. Any search or category change
// resets to page 1; category changes additionally clear the cache, because a
// category switch changes total pages and counts for every cached query.
type Pager struct {
	mu      sync.Mutex
	fetcher Fetcher
	cache   *cache.Memory[*api.ProductListResponse]

	limit         int
	includeHidden bool
	debounce      time.Duration
	onCommit      func()

	state         State
	page          int
	search        string
	category      string
	gen           uint64
	debounceTimer *time.Timer

	products      []api.Product
	totalPages    int
	totalProducts int
	categories    []string
	company       api.CompanyProfile
	err           error
}

// Snapshot is a point-in-time copy of the pager's view state.
type Snapshot struct {
	State         State
	Products      []api.Product
	Page          int
	TotalPages    int
	TotalProducts int
	Categories    []string
	Company       api.CompanyProfile
	Search        string
	Category      string
	Err           error
}

// Option configures a Pager.
type Option func(*pagerConfig)

type pagerConfig struct {
	ttl           time.Duration
	debounce      time.Duration
	limit         int
	includeHidden bool
	now           func() time.Time
	onCommit      func()
}

// WithTTL overrides the cache TTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *pagerConfig) { c.ttl = ttl }
}

// WithDebounce overrides the search debounce interval.
func WithDebounce(d time.Duration) Option {
	return func(c *pagerConfig) { c.debounce = d }
}

// WithLimit overrides the page size.
func WithLimit(limit int) Option {
	return func(c *pagerConfig) { c.limit = limit }
}

// WithIncludeHidden requests hidden products on every query (admin views).
func WithIncludeHidden() Option {
	return func(c *pagerConfig) { c.includeHidden = true }
}

// WithClock overrides the cache time source. Used by tests to control TTL expiry.
func WithClock(now func() time.Time) Option {
	return func(c *pagerConfig) { c.now = now }
}

// WithOnSearchCommitted registers a hook invoked after a debounced search term
// settles. Typical use is triggering LoadFirstPage.
func WithOnSearchCommitted(fn func()) Option {
	return func(c *pagerConfig) { c.onCommit = fn }
}

// NewPager creates a pager over the given fetcher with its own cache instance.
func NewPager(fetcher Fetcher, opts ...Option) *Pager {
	cfg := pagerConfig{
		ttl:      DefaultTTL,
		debounce: DefaultDebounce,
		limit:    DefaultLimit,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Pager{
		fetcher:       fetcher,
		cache:         cache.NewMemory(cfg.ttl, cache.WithClock[*api.ProductListResponse](cfg.now)),
		limit:         cfg.limit,
		includeHidden: cfg.includeHidden,
		debounce:      cfg.debounce,
		onCommit:      cfg.onCommit,
		state:         StateIdle,
		page:          1,
		company:       api.DefaultCompanyProfile(),
	}
}

// LoadFirstPage fetches page 1 in Replace mode.
func (p *Pager) LoadFirstPage(ctx context.Context) error {
	return p.load(ctx, 1, Replace, StateLoadingFirstPage)
}

// LoadMore fetches the next page in Append mode. No-op when no more pages are
// expected.
func (p *Pager) LoadMore(ctx context.Context) error {
	p.mu.Lock()
	if p.page >= p.totalPages {
		p.mu.Unlock()
		return nil
	}
	next := p.page + 1
	p.mu.Unlock()
	return p.load(ctx, next, Append, StateLoadingMore)
}

// JumpToPage fetches the given page in Replace mode.
func (p *Pager) JumpToPage(ctx context.Context, page int) error {
	if page < 1 {
		page = 1
	}
	state := StateLoadingReplace
	if page == 1 {
		state = StateLoadingFirstPage
	}
	return p.load(ctx, page, Replace, state)
}

// SetCategory switches the active category, clears the entire cache and resets
// pagination to page 1. The caller follows up with LoadFirstPage.
func (p *Pager) SetCategory(category string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.category == category {
		return
	}
	p.category = category
	p.page = 1
	p.gen++
	p.cache.Clear()
}

// SetSearch records a search term change. The term takes effect only after it
// has been stable for the debounce interval; then pagination resets to page 1
// and the commit hook fires. The cache map is kept (entries for other terms
// simply stop matching by key).
func (p *Pager) SetSearch(term string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.debounceTimer != nil {
		p.debounceTimer.Stop()
	}
	p.debounceTimer = time.AfterFunc(p.debounce, func() {
		p.commitSearch(term)
	})
}

func (p *Pager) commitSearch(term string) {
	p.mu.Lock()
	trimmed := strings.TrimSpace(term)
	if trimmed == p.search {
		p.mu.Unlock()
		return
	}
	p.search = trimmed
	p.page = 1
	p.gen++
	onCommit := p.onCommit
	p.mu.Unlock()

	if onCommit != nil {
		onCommit()
	}
}

// HasMore reports whether the current page is below the most recently observed
// page count.
func (p *Pager) HasMore() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.page < p.totalPages
}

// InvalidateCache drops every cached page. Called after a successful product
// mutation, since any cached page may contain the affected product.
func (p *Pager) InvalidateCache() {
	p.cache.Clear()
}

// Snapshot returns a copy of the current view state.
func (p *Pager) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Snapshot{
		State:         p.state,
		Products:      append([]api.Product(nil), p.products...),
		Page:          p.page,
		TotalPages:    p.totalPages,
		TotalProducts: p.totalProducts,
		Categories:    append([]string(nil), p.categories...),
		Company:       p.company,
		Search:        p.search,
		Category:      p.category,
		Err:           p.err,
	}
}

// load runs one fetch: cache lookup, network call on miss, then apply. The
// fetch is tagged with the generation at issue time; a result whose generation
// no longer matches (superseded by a newer search or category) is discarded.
func (p *Pager) load(ctx context.Context, page int, mode Mode, loadingState State) error {
	p.mu.Lock()
	q := api.Query{
		Page:          page,
		Limit:         p.limit,
		Search:        p.search,
		Category:      p.category,
		IncludeHidden: p.includeHidden,
	}
	gen := p.gen
	p.state = loadingState
	p.mu.Unlock()

	key := q.Key()
	if resp, ok := p.cache.Get(key); ok {
		p.apply(gen, page, mode, resp)
		return nil
	}

	resp, err := p.fetcher.ListProducts(ctx, q)
	if err != nil {
		p.applyError(gen, page, err)
		return err
	}
	// An entry that expired while this fetch was in flight is simply
	// overwritten here.
	p.cache.Set(key, resp)
	p.apply(gen, page, mode, resp)
	return nil
}

func (p *Pager) apply(gen uint64, page int, mode Mode, resp *api.ProductListResponse) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen != gen {
		// Superseded while in flight; discard rather than apply.
		return
	}

	switch mode {
	case Append:
		p.products = mergeProducts(p.products, resp.Products)
	default:
		p.products = append([]api.Product(nil), resp.Products...)
	}
	p.page = page
	p.totalPages = resp.TotalPages
	if p.totalPages < 1 {
		p.totalPages = 1
	}
	p.totalProducts = resp.Total
	p.categories = append([]string(nil), resp.Categories...)
	p.company = resp.Company
	p.err = nil
	p.state = StateReady
}

func (p *Pager) applyError(gen uint64, page int, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.gen != gen {
		return
	}

	// First-page failures empty the visible set; later pages keep what the
	// user already has.
	if page == 1 {
		p.products = nil
	}
	p.totalPages = 1
	p.totalProducts = 0
	p.err = err
	p.state = StateReady
}

// mergeProducts appends incoming products to existing, dropping incoming items
// whose ID is already present. Guards against an item appearing twice across
// overlapping fetches.
func mergeProducts(existing, incoming []api.Product) []api.Product {
	existingIDs := make(map[string]struct{}, len(existing))
	for _, item := range existing {
		existingIDs[item.ID] = struct{}{}
	}
	out := append([]api.Product(nil), existing...)
	for _, item := range incoming {
		if _, ok := existingIDs[item.ID]; ok {
			continue
		}
		out = append(out, item)
	}
	return out
}
