package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"investor-radar/internal/radar/dto"
	"investor-radar/internal/radar/repository"
	"investor-radar/pkg/common"
	"investor-radar/pkg/logger"
)

const (
	msgSearchFailed      = "search failed"
	msgSearchUnavailable = "search service is temporarily unavailable, please try again later"
)

var (
	// ErrCompanyNotInResults is returned by Select for ids outside the current result set.
	ErrCompanyNotInResults = errors.New("company is not in the current result set")
	// ErrSearchSuperseded is returned when a newer search was dispatched before
	// this one completed; its response was discarded.
	ErrSearchSuperseded = errors.New("search superseded by a newer query")
)

// SearchError is the user-facing failure of a search.
type SearchError struct {
	Query   string
	Message string
	Err     error
}

func (e *SearchError) Error() string {
	return e.Message
}

func (e *SearchError) Unwrap() error {
	return e.Err
}

// selection points into the result set it was made against.
type selection struct {
	version uint64
	index   int
}

// Snapshot is a consistent copy of a dashboard's view state.
type Snapshot struct {
	Query    string
	Stats    dto.PlatformStats
	Trending []dto.TrendingEntry
	Results  []dto.Company
	Selected *dto.Company
	// SelectedKey is the CompanyKey of Selected.
	SelectedKey string
	Busy        bool
}

// Dashboard holds the view state of one viewer: platform stats, trending
// companies, the current result set and the selected company. It is safe for
// concurrent use; network calls are made outside the lock.
type Dashboard struct {
	repo          repository.RadarAPIRepository
	logger        *logger.Logger
	trendingLimit int

	mu            sync.Mutex
	query         string
	stats         dto.PlatformStats
	trending      []dto.TrendingEntry
	results       []dto.Company
	resultVersion uint64
	selected      *selection
	inFlight      int
	lastSeq       uint64
	notice        string
}

// NewDashboard creates an empty dashboard. A non-positive trendingLimit uses
// the default of five entries.
func NewDashboard(repo repository.RadarAPIRepository, logger *logger.Logger, trendingLimit int) *Dashboard {
	if trendingLimit <= 0 {
		trendingLimit = common.DefaultTrendingLimit
	}
	return &Dashboard{
		repo:          repo,
		logger:        logger,
		trendingLimit: trendingLimit,
		trending:      []dto.TrendingEntry{},
		results:       []dto.Company{},
	}
}

// FetchStats replaces the stats snapshot. Failures are logged and leave the
// previous snapshot in place.
func (d *Dashboard) FetchStats(ctx context.Context) error {
	stats, err := d.repo.GetStats(ctx)
	if err != nil {
		d.logger.WarnContext(ctx, "Failed to fetch platform stats", logger.ErrorField(err))
		return err
	}

	d.mu.Lock()
	d.stats = *stats
	d.mu.Unlock()
	return nil
}

// FetchTrending replaces the trending list with at most trendingLimit
// entries. Failures are logged and leave the previous list in place.
func (d *Dashboard) FetchTrending(ctx context.Context) error {
	entries, err := d.repo.GetTrending(ctx)
	if err != nil {
		d.logger.WarnContext(ctx, "Failed to fetch trending companies", logger.ErrorField(err))
		return err
	}
	if len(entries) > d.trendingLimit {
		entries = entries[:d.trendingLimit]
	}
	trending := make([]dto.TrendingEntry, len(entries))
	copy(trending, entries)

	d.mu.Lock()
	d.trending = trending
	d.mu.Unlock()
	return nil
}

// Search runs a company search. Blank queries are ignored. On success the
// result set is replaced and its first company selected; on failure a notice
// is recorded for the viewer and a *SearchError returned, leaving the
// previous results untouched. Only the most recently dispatched search may
// change state; older ones return ErrSearchSuperseded.
func (d *Dashboard) Search(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}

	d.mu.Lock()
	d.lastSeq++
	seq := d.lastSeq
	d.inFlight++
	d.query = query
	d.mu.Unlock()

	companies, err := d.repo.Search(ctx, query)

	d.mu.Lock()
	defer d.mu.Unlock()
	d.inFlight--

	if seq != d.lastSeq {
		d.logger.DebugContext(ctx, "Discarding superseded search response",
			logger.StringField("query", query),
			logger.Field("seq", seq),
			logger.Field("latest_seq", d.lastSeq))
		return ErrSearchSuperseded
	}

	if err != nil {
		searchErr := &SearchError{Query: query, Message: searchFailureMessage(err), Err: err}
		d.notice = searchErr.Message
		d.logger.ErrorContext(ctx, "Search failed", logger.StringField("query", query), logger.ErrorField(err))
		return searchErr
	}

	d.onNewResultSet(companies)
	d.logger.InfoContext(ctx, "Search completed", logger.StringField("query", query), logger.IntField("results", len(companies)))
	return nil
}

// onNewResultSet must be called with mu held.
func (d *Dashboard) onNewResultSet(companies []dto.Company) {
	results := make([]dto.Company, len(companies))
	copy(results, companies)

	d.results = results
	d.resultVersion++
	d.selected = nil
	if len(results) > 0 {
		d.selected = &selection{version: d.resultVersion, index: 0}
	}
}

// CompanyKey identifies a company within its result set: its id, or its
// position when the API sent none.
func CompanyKey(company dto.Company, index int) string {
	if id := company.ID.String(); id != "" {
		return id
	}
	return "#" + strconv.Itoa(index)
}

// Select makes the company with the given key (see CompanyKey) the
// selection. The company must belong to the current result set.
func (d *Dashboard) Select(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	for i := range d.results {
		if CompanyKey(d.results[i], i) == key {
			d.selected = &selection{version: d.resultVersion, index: i}
			return nil
		}
	}
	return ErrCompanyNotInResults
}

// Selected returns the selected company, if any.
func (d *Dashboard) Selected() (dto.Company, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	company := d.selectedLocked()
	if company == nil {
		return dto.Company{}, false
	}
	return *company, true
}

func (d *Dashboard) selectedLocked() *dto.Company {
	if d.selected == nil || d.selected.version != d.resultVersion || d.selected.index >= len(d.results) {
		return nil
	}
	return &d.results[d.selected.index]
}

// Busy reports whether a search is in flight.
func (d *Dashboard) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inFlight > 0
}

// TakeNotice returns the pending failure notice and clears it.
func (d *Dashboard) TakeNotice() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	notice := d.notice
	d.notice = ""
	return notice
}

// Snapshot returns a copy of the current view state.
func (d *Dashboard) Snapshot() Snapshot {
	d.mu.Lock()
	defer d.mu.Unlock()

	snap := Snapshot{
		Query:    d.query,
		Stats:    d.stats,
		Trending: append([]dto.TrendingEntry{}, d.trending...),
		Results:  append([]dto.Company{}, d.results...),
		Busy:     d.inFlight > 0,
	}
	if company := d.selectedLocked(); company != nil {
		selected := *company
		snap.Selected = &selected
		snap.SelectedKey = CompanyKey(selected, d.selected.index)
	}
	return snap
}

func searchFailureMessage(err error) string {
	var envelopeErr *repository.EnvelopeError
	if errors.As(err, &envelopeErr) {
		if envelopeErr.Message != "" {
			return envelopeErr.Message
		}
		return msgSearchFailed
	}
	return msgSearchUnavailable
}
