// Package projection turns the daily ledger into ordered, displayable day views.
// All functions are pure and recomputed after every mutation.
package projection

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/simaogato/pricelist-backend/internal/domain"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey selects the ordering of records within a day
type SortKey string

const (
	SortByName       SortKey = "name"
	SortByPrice      SortKey = "price"
	SortByDifference SortKey = "difference"
)

// ParseSortKey validates a sort key; the empty string means SortByName
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(strings.ToLower(strings.TrimSpace(s))) {
	case "", SortByName:
		return SortByName, nil
	case SortByPrice:
		return SortByPrice, nil
	case SortByDifference:
		return SortByDifference, nil
	default:
		return "", fmt.Errorf("unknown sort key %q, want one of name, price, difference", s)
	}
}

// Query is the search text and sort order of a view
type Query struct {
	Search string
	SortBy SortKey
}

// Row is a record with its derived display values
type Row struct {
	Record     domain.PriceRecord
	Difference decimal.Decimal
	Trend      domain.Trend
	UnitsToBuy *decimal.Decimal // rounded to whole units; nil when not computable
}

// DayView is one visible day with its filtered, sorted rows
type DayView struct {
	Day  domain.Day
	Rows []Row
}

// Filter keeps records whose name or category contains search, case-insensitively
func Filter(records []domain.PriceRecord, search string) []domain.PriceRecord {
	needle := strings.ToLower(search)
	out := make([]domain.PriceRecord, 0, len(records))
	for _, r := range records {
		if strings.Contains(strings.ToLower(r.Name), needle) ||
			strings.Contains(strings.ToLower(r.Category), needle) {
			out = append(out, r)
		}
	}
	return out
}

// Sort returns a stably sorted copy of records in ascending order of key.
// Names are compared with locale-aware collation. An unknown key keeps the input order.
func Sort(records []domain.PriceRecord, key SortKey) []domain.PriceRecord {
	out := append([]domain.PriceRecord(nil), records...)

	var less func(a, b domain.PriceRecord) bool
	switch key {
	case SortByName:
		c := collate.New(language.Und)
		less = func(a, b domain.PriceRecord) bool { return c.CompareString(a.Name, b.Name) < 0 }
	case SortByPrice:
		less = func(a, b domain.PriceRecord) bool { return a.CurrentPrice.LessThan(b.CurrentPrice) }
	case SortByDifference:
		less = func(a, b domain.PriceRecord) bool { return a.Difference().LessThan(b.Difference()) }
	default:
		return out
	}

	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// NewRow derives the display values of a record
func NewRow(r domain.PriceRecord) Row {
	diff := r.Difference()
	row := Row{Record: r, Difference: diff, Trend: domain.TrendOf(diff)}
	if units, ok := r.UnitsToBuy(); ok {
		rounded := units.Round(0)
		row.UnitsToBuy = &rounded
	}
	return row
}

// Project returns the days with at least one visible record, most recent first.
// Records are filtered and sorted within their own day only.
func Project(ledger domain.DailyLedger, q Query) []DayView {
	views := make([]DayView, 0, len(ledger.Buckets))
	for i := len(ledger.Buckets) - 1; i >= 0; i-- {
		bucket := ledger.Buckets[i]
		visible := Sort(Filter(bucket.Items, q.Search), q.SortBy)
		if len(visible) == 0 {
			continue
		}

		rows := make([]Row, 0, len(visible))
		for _, r := range visible {
			rows = append(rows, NewRow(r))
		}
		views = append(views, DayView{Day: bucket.Date, Rows: rows})
	}
	return views
}
