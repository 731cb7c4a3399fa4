package projection

import (
	"github.com/shopspring/decimal"
	"github.com/simaogato/pricelist-backend/internal/domain"
)

// Cursor pages through visible days one at a time.
// Its index is always clamped to [0, count-1].
type Cursor struct {
	index int
	count int
}

// NewCursor returns a cursor over count days positioned at index
func NewCursor(count, index int) Cursor {
	return Cursor{count: count}.Seek(index)
}

// Index returns the current position
func (c Cursor) Index() int { return c.index }

// Seek moves to index, clamped into range
func (c Cursor) Seek(index int) Cursor {
	switch {
	case c.count <= 0 || index < 0:
		c.index = 0
	case index >= c.count:
		c.index = c.count - 1
	default:
		c.index = index
	}
	return c
}

// Next moves one day back in time (views are ordered most recent first)
func (c Cursor) Next() Cursor { return c.Seek(c.index + 1) }

// Prev moves one day forward in time
func (c Cursor) Prev() Cursor { return c.Seek(c.index - 1) }

// Page returns the view under the cursor
func Page(views []DayView, c Cursor) (DayView, bool) {
	c = NewCursor(len(views), c.index)
	if len(views) == 0 {
		return DayView{}, false
	}
	return views[c.index], true
}

// Summary aggregates the rows of one day
type Summary struct {
	Count          int
	Favorable      int
	Unfavorable    int
	Neutral        int
	MeanDifference decimal.Decimal
}

// Summarize counts rows by trend and averages their percent difference
func Summarize(v DayView) Summary {
	s := Summary{Count: len(v.Rows)}
	total := decimal.Zero
	for _, row := range v.Rows {
		total = total.Add(row.Difference)
		switch row.Trend {
		case domain.TrendFavorable:
			s.Favorable++
		case domain.TrendUnfavorable:
			s.Unfavorable++
		default:
			s.Neutral++
		}
	}
	if s.Count > 0 {
		s.MeanDifference = total.Div(decimal.NewFromInt(int64(s.Count)))
	}
	return s
}
