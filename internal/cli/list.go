package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/simaogato/pricelist-backend/internal/domain"
	"github.com/simaogato/pricelist-backend/internal/usecase/projection"
)

type listCmd struct {
	env    *Env
	search string
	sortBy string
	page   int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "show the price lists, most recent day first" }
func (*listCmd) Usage() string {
	return `pricectl list [-search <text>] [-sort name|price|difference] [-page <n>]

  Shows every day that has at least one matching item, most recent first.
  -search matches the name or the category, ignoring case.
  -page shows a single day, 0 being the most recent.
`
}

func (p *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.search, "search", "", "Only show items whose name or category contains this text.")
	f.StringVar(&p.sortBy, "sort", "name", "Sort items within a day by name, price or difference.")
	f.IntVar(&p.page, "page", -1, "Show only the n-th visible day (0 is the most recent); negative shows all.")
}

func (p *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sortBy, err := projection.ParseSortKey(p.sortBy)
	if err != nil {
		return p.env.usage("%v", err)
	}

	service, err := p.env.Open(ctx)
	if err != nil {
		return p.env.fail(err)
	}

	views := service.View(projection.Query{Search: p.search, SortBy: sortBy})
	if len(views) == 0 {
		fmt.Fprintln(p.env.Out, "no items")
		return subcommands.ExitSuccess
	}

	if p.page >= 0 {
		cursor := projection.NewCursor(len(views), p.page)
		view, _ := projection.Page(views, cursor)
		fmt.Fprintf(p.env.Out, "page %d of %d\n", cursor.Index()+1, len(views))
		views = []projection.DayView{view}
	}

	today := service.Today()
	for i, view := range views {
		if i > 0 {
			fmt.Fprintln(p.env.Out)
		}
		if err := p.render(p.env.Out, view, today); err != nil {
			return p.env.fail(err)
		}
	}
	return subcommands.ExitSuccess
}

func (p *listCmd) render(out io.Writer, view projection.DayView, today domain.Day) error {
	title := view.Day.String()
	if view.Day == today {
		title += " (today)"
	}
	fmt.Fprintln(out, title)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPREVIOUS\tCURRENT\tDIFF\tBUY")
	for _, row := range view.Rows {
		r := row.Record
		units := "-"
		if row.UnitsToBuy != nil {
			units = row.UnitsToBuy.String()
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s%%\t%s\n",
			r.ID, r.Name, r.Category,
			p.env.Money(r.PreviousPrice), p.env.Money(r.CurrentPrice),
			trendSign(row.Trend)+row.Difference.Abs().StringFixed(1), units)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	s := projection.Summarize(view)
	fmt.Fprintf(out, "%d items: %d down, %d up, %d unchanged, mean %s%%\n",
		s.Count, s.Favorable, s.Unfavorable, s.Neutral, s.MeanDifference.StringFixed(1))
	return nil
}

func trendSign(t domain.Trend) string {
	switch t {
	case domain.TrendFavorable:
		return "-"
	case domain.TrendUnfavorable:
		return "+"
	default:
		return ""
	}
}
