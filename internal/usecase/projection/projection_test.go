package projection

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/simaogato/pricelist-backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(name, category, prev, cur string) domain.PriceRecord {
	return domain.PriceRecord{
		ID:            uuid.New(),
		Name:          name,
		Category:      category,
		PreviousPrice: decimal.RequireFromString(prev),
		CurrentPrice:  decimal.RequireFromString(cur),
	}
}

func names(records []domain.PriceRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Name)
	}
	return out
}

func TestFilter(t *testing.T) {
	records := []domain.PriceRecord{
		record("Milk", "Dairy", "1", "1"),
		record("Bread", "Bakery", "1", "1"),
		record("Yoghurt", "dairy", "1", "1"),
	}

	assert.Equal(t, []string{"Milk", "Yoghurt"}, names(Filter(records, "DAIRY")))
	assert.Equal(t, []string{"Bread"}, names(Filter(records, "rea")))
	assert.Len(t, Filter(records, ""), 3)
	assert.Empty(t, Filter(records, "fish"))
}

func TestSort_ByDifference(t *testing.T) {
	records := []domain.PriceRecord{
		record("a", "", "100", "90"),
		record("b", "", "100", "110"),
		record("c", "", "100", "100"),
	}

	sorted := Sort(records, SortByDifference)

	diffs := make([]string, 0, len(sorted))
	for _, r := range sorted {
		diffs = append(diffs, r.Difference().String())
	}
	assert.Equal(t, []string{"-10", "0", "10"}, diffs)
	assert.Equal(t, []string{"a", "b", "c"}, names(records), "input is not reordered")
}

func TestSort_ByPrice(t *testing.T) {
	records := []domain.PriceRecord{
		record("a", "", "5", "5"),
		record("b", "", "2", "2"),
		record("c", "", "3", "3"),
	}

	assert.Equal(t, []string{"b", "c", "a"}, names(Sort(records, SortByPrice)))
}

func TestSort_ByNameIsLocaleAware(t *testing.T) {
	records := []domain.PriceRecord{
		record("banana", "", "1", "1"),
		record("Éclair", "", "1", "1"),
		record("apple", "", "1", "1"),
		record("Zucchini", "", "1", "1"),
	}

	assert.Equal(t, []string{"apple", "banana", "Éclair", "Zucchini"}, names(Sort(records, SortByName)))
}

func TestSort_IsStable(t *testing.T) {
	records := []domain.PriceRecord{
		record("first", "", "2", "2"),
		record("second", "", "1", "1"),
		record("third", "", "2", "2"),
	}

	assert.Equal(t, []string{"second", "first", "third"}, names(Sort(records, SortByPrice)))
}

func TestParseSortKey(t *testing.T) {
	key, err := ParseSortKey("")
	require.NoError(t, err)
	assert.Equal(t, SortByName, key)

	key, err = ParseSortKey("Difference")
	require.NoError(t, err)
	assert.Equal(t, SortByDifference, key)

	_, err = ParseSortKey("date")
	assert.Error(t, err)
}

func TestProject_OrdersDaysDescendingAndHidesEmptyDays(t *testing.T) {
	ledger := domain.NewDailyLedger(
		domain.Bucket{Date: domain.MustParseDay("2024-06-13"), Items: []domain.PriceRecord{record("Milk", "Dairy", "2", "2")}},
		domain.Bucket{Date: domain.MustParseDay("2024-06-14")},
		domain.Bucket{Date: domain.MustParseDay("2024-06-15"), Items: []domain.PriceRecord{
			record("Tea", "Pantry", "4", "4"),
			record("Cheese", "Dairy", "5", "4"),
		}},
	)

	views := Project(ledger, Query{SortBy: SortByName})

	require.Len(t, views, 2)
	assert.Equal(t, "2024-06-15", views[0].Day.String())
	assert.Equal(t, "2024-06-13", views[1].Day.String())
	require.Len(t, views[0].Rows, 2)
	assert.Equal(t, "Cheese", views[0].Rows[0].Record.Name)
	assert.Equal(t, domain.TrendFavorable, views[0].Rows[0].Trend)

	dairy := Project(ledger, Query{Search: "dairy", SortBy: SortByName})
	require.Len(t, dairy, 2)
	assert.Len(t, dairy[0].Rows, 1)

	tea := Project(ledger, Query{Search: "tea"})
	require.Len(t, tea, 1, "days without a visible record are hidden")
}

func TestNewRow_UnitsToBuy(t *testing.T) {
	r := record("Coffee", "", "4", "4")
	target := decimal.NewFromInt(20)
	r.TargetPurchase = &target

	row := NewRow(r)
	require.NotNil(t, row.UnitsToBuy)
	assert.Equal(t, "5", row.UnitsToBuy.String())

	r.CurrentPrice = decimal.Zero
	assert.Nil(t, NewRow(r).UnitsToBuy, "zero price is omitted, not a divide-by-zero")

	r.CurrentPrice = decimal.RequireFromString("6")
	assert.Equal(t, "3", NewRow(r).UnitsToBuy.String(), "20/6 rounds to 3")
}

func TestCursor_Clamps(t *testing.T) {
	c := NewCursor(3, 10)
	assert.Equal(t, 2, c.Index())

	c = c.Next()
	assert.Equal(t, 2, c.Index())

	c = c.Prev().Prev().Prev()
	assert.Equal(t, 0, c.Index())

	empty := NewCursor(0, 4)
	assert.Equal(t, 0, empty.Index())
}

func TestPage(t *testing.T) {
	views := []DayView{{Day: domain.MustParseDay("2024-06-15")}, {Day: domain.MustParseDay("2024-06-14")}}

	v, ok := Page(views, NewCursor(len(views), 1))
	require.True(t, ok)
	assert.Equal(t, "2024-06-14", v.Day.String())

	_, ok = Page(nil, NewCursor(0, 0))
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	view := DayView{Rows: []Row{
		NewRow(record("a", "", "100", "90")),
		NewRow(record("b", "", "100", "120")),
		NewRow(record("c", "", "100", "100")),
	}}

	s := Summarize(view)

	assert.Equal(t, 3, s.Count)
	assert.Equal(t, 1, s.Favorable)
	assert.Equal(t, 1, s.Unfavorable)
	assert.Equal(t, 1, s.Neutral)
	assert.Equal(t, "3.3333333333333333", s.MeanDifference.String())
	assert.True(t, Summarize(DayView{}).MeanDifference.IsZero())
}
