package transaction

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/till/internal/fold"
)

// endOfDay extends a date-only upper bound to cover the whole day.
const endOfDay = " 23:59:59"

// Filters is the user-editable part of the filter state. From and To are
// dates (YYYY-MM-DD); empty means unbounded.
type Filters struct {
	Query    string
	From     string
	To       string
	PageSize int
}

// PageInfo describes the current page of the filtered view.
type PageInfo struct {
	Page  int
	Pages int
	Count int
}

// Stats summarizes the full, unfiltered transaction set.
type Stats struct {
	Count   int
	Revenue decimal.Decimal
	Last    string
}

// Filter derives filtered, paginated views of a fetched transaction list. The
// source list is never modified.
type Filter struct {
	all             []*Transaction
	filters         Filters
	page            int
	defaultPageSize int
}

// NewFilter returns an empty filter. defaultPageSize is used whenever a page
// size below 1 is requested.
func NewFilter(defaultPageSize int) *Filter {
	defaultPageSize = max(defaultPageSize, 1)

	return &Filter{
		filters:         Filters{PageSize: defaultPageSize},
		page:            1,
		defaultPageSize: defaultPageSize,
	}
}

// SetTransactions replaces the source list, keeping the current filters and
// page. The page is re-clamped on the next read.
func (f *Filter) SetTransactions(txs []*Transaction) {
	f.all = txs
}

func (f *Filter) Transactions() []*Transaction {
	return f.all
}

// SetFilters replaces the filter state and returns to the first page.
func (f *Filter) SetFilters(filters Filters) {
	filters.Query = strings.TrimSpace(filters.Query)
	if filters.PageSize < 1 {
		filters.PageSize = f.defaultPageSize
	}

	f.filters = filters
	f.page = 1
}

func (f *Filter) Filters() Filters {
	return f.filters
}

// ClearFilters drops the query and date range and restores the default page
// size.
func (f *Filter) ClearFilters() {
	f.SetFilters(Filters{PageSize: f.defaultPageSize})
}

// SetDateRange replaces only the date bounds and returns to the first page.
func (f *Filter) SetDateRange(from, to string) {
	filters := f.filters
	filters.From = from
	filters.To = to

	f.SetFilters(filters)
}

// Filtered returns the transactions matching the query and date range, in
// source order.
func (f *Filter) Filtered() []*Transaction {
	var out []*Transaction

	for _, tx := range f.all {
		if f.matches(tx) {
			out = append(out, tx)
		}
	}

	return out
}

func (f *Filter) matches(tx *Transaction) bool {
	if q := f.filters.Query; q != "" {
		if !fold.Contains(strconv.FormatInt(tx.ID, 10), q) && !fold.Contains(tx.Timestamp, q) {
			return false
		}
	}

	if f.filters.From != "" && tx.Timestamp < f.filters.From {
		return false
	}

	if f.filters.To != "" && tx.Timestamp > f.filters.To+endOfDay {
		return false
	}

	return true
}

// SetPage moves to page n. Out-of-range pages are clamped when read.
func (f *Filter) SetPage(n int) {
	f.page = max(n, 1)
}

func (f *Filter) NextPage() {
	f.page++
	f.clamp(len(f.Filtered()))
}

func (f *Filter) PrevPage() {
	f.page--
	f.clamp(len(f.Filtered()))
}

func (f *Filter) pages(count int) int {
	return max(1, (count+f.filters.PageSize-1)/f.filters.PageSize)
}

func (f *Filter) clamp(count int) {
	f.page = min(max(f.page, 1), f.pages(count))
}

// Page returns the current page of the filtered view. The page number is
// clamped first, since the filtered count may have shrunk since the last call.
func (f *Filter) Page() []*Transaction {
	list := f.Filtered()
	f.clamp(len(list))

	start := (f.page - 1) * f.filters.PageSize
	end := min(start+f.filters.PageSize, len(list))

	return list[start:end]
}

func (f *Filter) PageInfo() PageInfo {
	count := len(f.Filtered())
	f.clamp(count)

	return PageInfo{
		Page:  f.page,
		Pages: f.pages(count),
		Count: count,
	}
}

// Stats covers every fetched transaction regardless of the filters. Last is
// the first entry's timestamp, the server listing newest first, or "-" when
// there are no transactions.
func (f *Filter) Stats() Stats {
	st := Stats{
		Count:   len(f.all),
		Revenue: decimal.Zero,
		Last:    "-",
	}

	for _, tx := range f.all {
		st.Revenue = st.Revenue.Add(tx.TotalAmount)
	}

	if len(f.all) > 0 {
		st.Last = f.all[0].Timestamp
	}

	return st
}

// ExportCSV serializes the filtered view, ignoring pagination.
func (f *Filter) ExportCSV() string {
	return ListCSV(f.Filtered())
}
