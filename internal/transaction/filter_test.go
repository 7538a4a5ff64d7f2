package transaction_test

import (
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/till/internal/transaction"
)

func tx(id int64, ts, total string) *transaction.Transaction {
	return &transaction.Transaction{
		ID:          id,
		Timestamp:   ts,
		TotalAmount: decimal.RequireFromString(total),
	}
}

func ids(txs []*transaction.Transaction) []int64 {
	out := make([]int64, len(txs))
	for i, t := range txs {
		out[i] = t.ID
	}

	return out
}

func numbered(n int) []*transaction.Transaction {
	txs := make([]*transaction.Transaction, n)
	for i := range txs {
		txs[i] = tx(int64(i+1), fmt.Sprintf("2024-05-%02d 10:00:00", i+1), "1")
	}

	return txs
}

func TestFilter_Query(t *testing.T) {
	source := []*transaction.Transaction{
		tx(1, "2024-01-01 09:00:00", "4.50"),
		tx(2, "2024-01-02 09:00:00", "7.25"),
		tx(3, "2024-01-04 09:00:00", "1.00"),
		tx(13, "2024-01-05 09:00:00", "9.10"),
	}

	tests := []struct {
		name  string
		query string
		want  []int64
	}{
		{name: "MatchesID", query: "3", want: []int64{3, 13}},
		{name: "MatchesTimestamp", query: "01-02", want: []int64{2}},
		{name: "Trimmed", query: "  13 ", want: []int64{13}},
		{name: "Empty", query: "", want: []int64{1, 2, 3, 13}},
		{name: "NoMatch", query: "xyz", want: []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := transaction.NewFilter(10)
			f.SetTransactions(source)
			f.SetFilters(transaction.Filters{Query: tt.query})

			assert.Equal(t, tt.want, ids(f.Filtered()))
		})
	}
}

func TestFilter_DateRange(t *testing.T) {
	source := []*transaction.Transaction{
		tx(4, "2024-03-03 08:00:00", "1"),
		tx(3, "2024-03-02 23:59:59", "1"),
		tx(2, "2024-03-02 00:00:00", "1"),
		tx(1, "2024-03-01 12:00:00", "1"),
	}

	tests := []struct {
		name string
		from string
		to   string
		want []int64
	}{
		{name: "FromInclusive", from: "2024-03-02", want: []int64{4, 3, 2}},
		{name: "ToCoversWholeDay", to: "2024-03-02", want: []int64{3, 2, 1}},
		{name: "SingleDay", from: "2024-03-02", to: "2024-03-02", want: []int64{3, 2}},
		{name: "Unbounded", want: []int64{4, 3, 2, 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := transaction.NewFilter(10)
			f.SetTransactions(source)
			f.SetFilters(transaction.Filters{From: tt.from, To: tt.to})

			assert.Equal(t, tt.want, ids(f.Filtered()))
		})
	}
}

func TestFilter_QueryAndDateCombine(t *testing.T) {
	f := transaction.NewFilter(10)
	f.SetTransactions([]*transaction.Transaction{
		tx(31, "2024-03-05 10:00:00", "1"),
		tx(30, "2024-02-05 10:00:00", "1"),
		tx(3, "2024-03-01 10:00:00", "1"),
	})
	f.SetFilters(transaction.Filters{Query: "3", From: "2024-03-02"})

	assert.Equal(t, []int64{31}, ids(f.Filtered()))
}

func TestFilter_DoesNotMutateSource(t *testing.T) {
	source := numbered(5)
	snapshot := ids(source)

	f := transaction.NewFilter(2)
	f.SetTransactions(source)
	f.SetFilters(transaction.Filters{Query: "4", PageSize: 2})
	_ = f.Page()

	assert.Equal(t, snapshot, ids(source))
}

func TestFilter_Pagination(t *testing.T) {
	source := numbered(25)

	f := transaction.NewFilter(10)
	f.SetTransactions(source)

	assert.Equal(t, ids(source[0:10]), ids(f.Page()))

	f.SetPage(3)
	assert.Equal(t, ids(source[20:25]), ids(f.Page()))

	f.SetPage(4)
	assert.Equal(t, ids(source[20:25]), ids(f.Page()))
	assert.Equal(t, transaction.PageInfo{Page: 3, Pages: 3, Count: 25}, f.PageInfo())
}

func TestFilter_PageClampsWhenFilteredCountShrinks(t *testing.T) {
	f := transaction.NewFilter(10)
	f.SetTransactions(numbered(25))
	f.SetPage(3)
	require.Len(t, f.Page(), 5)

	f.SetTransactions(numbered(12))
	assert.Len(t, f.Page(), 2)
	assert.Equal(t, 2, f.PageInfo().Page)
}

func TestFilter_PageSizeChangeResetsPage(t *testing.T) {
	for _, size := range []int{5, 10, 20} {
		t.Run(fmt.Sprint(size), func(t *testing.T) {
			f := transaction.NewFilter(10)
			f.SetTransactions(numbered(25))
			f.SetPage(3)

			filters := f.Filters()
			filters.PageSize = size
			f.SetFilters(filters)

			assert.Equal(t, 1, f.PageInfo().Page)
		})
	}
}

func TestFilter_PageSizeDefaults(t *testing.T) {
	f := transaction.NewFilter(7)
	f.SetFilters(transaction.Filters{PageSize: 0})
	assert.Equal(t, 7, f.Filters().PageSize)

	f.SetFilters(transaction.Filters{Query: "x", PageSize: 3})
	f.ClearFilters()
	assert.Equal(t, transaction.Filters{PageSize: 7}, f.Filters())
}

func TestFilter_NextPrevStayInBounds(t *testing.T) {
	f := transaction.NewFilter(10)
	f.SetTransactions(numbered(15))

	f.PrevPage()
	assert.Equal(t, 1, f.PageInfo().Page)

	f.NextPage()
	f.NextPage()
	f.NextPage()
	assert.Equal(t, 2, f.PageInfo().Page)

	f.PrevPage()
	assert.Equal(t, 1, f.PageInfo().Page)
}

func TestFilter_EmptyList(t *testing.T) {
	f := transaction.NewFilter(10)

	assert.Empty(t, f.Page())
	assert.Equal(t, transaction.PageInfo{Page: 1, Pages: 1, Count: 0}, f.PageInfo())

	st := f.Stats()
	assert.Equal(t, 0, st.Count)
	assert.True(t, st.Revenue.IsZero())
	assert.Equal(t, "-", st.Last)
}

func TestFilter_StatsIgnoreFilters(t *testing.T) {
	f := transaction.NewFilter(10)
	f.SetTransactions([]*transaction.Transaction{
		tx(3, "2024-06-03 10:00:00", "10.50"),
		tx(2, "2024-06-02 10:00:00", "4.25"),
		tx(1, "2024-06-01 10:00:00", "0.25"),
	})
	f.SetFilters(transaction.Filters{Query: "2"})

	st := f.Stats()
	assert.Equal(t, 3, st.Count)
	assert.True(t, decimal.RequireFromString("15").Equal(st.Revenue), "revenue %s", st.Revenue)
	assert.Equal(t, "2024-06-03 10:00:00", st.Last)
}

func TestFilter_ExportCSVUsesFilteredList(t *testing.T) {
	f := transaction.NewFilter(1)
	f.SetTransactions([]*transaction.Transaction{
		tx(12, "2024-06-03 10:00:00", "10.5"),
		tx(11, "2024-06-02 10:00:00", "4.25"),
		tx(2, "2024-06-01 10:00:00", "3"),
	})
	f.SetFilters(transaction.Filters{Query: "1", PageSize: 1})

	want := "transaction_id,timestamp,total_amount\n" +
		"12,\"2024-06-03 10:00:00\",10.5\n" +
		"11,\"2024-06-02 10:00:00\",4.25\n" +
		"2,\"2024-06-01 10:00:00\",3\n"

	// "1" also matches every 2024 timestamp.
	assert.Equal(t, want, f.ExportCSV())
}

func TestFilter_SetDateRangeKeepsQuery(t *testing.T) {
	f := transaction.NewFilter(10)
	f.SetTransactions(numbered(25))
	f.SetFilters(transaction.Filters{Query: "1", PageSize: 2})
	f.SetPage(3)

	f.SetDateRange("2024-05-10", "2024-05-19")

	filters := f.Filters()
	assert.Equal(t, "1", filters.Query)
	assert.Equal(t, 2, filters.PageSize)
	assert.Equal(t, 1, f.PageInfo().Page)
	assert.Equal(t, []int64{10, 11, 12, 13, 14, 15, 16, 17, 18, 19}, ids(f.Filtered()))
}
