package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/google/uuid"

	"github.com/simaogato/pricelist-backend/internal/domain"
)

// itemFlags are the form fields shared by add and edit
type itemFlags struct {
	name     string
	price    string
	category string
	target   string
}

func (p *itemFlags) set(f *flag.FlagSet) {
	f.StringVar(&p.name, "name", "", "Item name (required).")
	f.StringVar(&p.price, "price", "", "Previous price, a positive decimal (required).")
	f.StringVar(&p.category, "category", "", "Free text category.")
	f.StringVar(&p.target, "target", "", "Optional target purchase amount.")
}

func (p *itemFlags) input() domain.ItemInput {
	return domain.ItemInput{Name: p.name, PreviousPrice: p.price, Category: p.category, TargetPurchase: p.target}
}

type addCmd struct {
	env *Env
	itemFlags
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add an item to today's list" }
func (*addCmd) Usage() string {
	return `pricectl add -name <name> -price <price> [-category <category>] [-target <amount>]

  Adds an item to today's list. Its current price starts equal to the previous price.
  Names must be unique within a day, ignoring case.
`
}

func (p *addCmd) SetFlags(f *flag.FlagSet) { p.itemFlags.set(f) }

func (p *addCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	service, err := p.env.Open(ctx)
	if err != nil {
		return p.env.fail(err)
	}

	record, err := service.AddItem(ctx, p.input())
	if err != nil {
		return p.env.fail(err)
	}

	fmt.Fprintf(p.env.Out, "added %s %s at %s\n", record.ID, record.Name, p.env.Money(record.PreviousPrice))
	return subcommands.ExitSuccess
}

type editCmd struct {
	env *Env
	id  string
	itemFlags
}

func (*editCmd) Name() string     { return "edit" }
func (*editCmd) Synopsis() string { return "replace the fields of one of today's items" }
func (*editCmd) Usage() string {
	return `pricectl edit -id <id> -name <name> -price <price> [-category <category>] [-target <amount>]

  Replaces an item of today's list. The current price is reset to the new previous price.
  Items from earlier days cannot be edited.
`
}

func (p *editCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Id of the item to edit (required).")
	p.itemFlags.set(f)
}

func (p *editCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := uuid.Parse(p.id)
	if err != nil {
		return p.env.usage("invalid -id %q", p.id)
	}

	service, err := p.env.Open(ctx)
	if err != nil {
		return p.env.fail(err)
	}

	record, err := service.EditItem(ctx, id, p.input())
	if err != nil {
		return p.env.fail(err)
	}
	if record == nil {
		fmt.Fprintf(p.env.Out, "no item %s in today's list\n", id)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(p.env.Out, "edited %s %s at %s\n", record.ID, record.Name, p.env.Money(record.PreviousPrice))
	return subcommands.ExitSuccess
}

type rmCmd struct {
	env *Env
}

func (*rmCmd) Name() string     { return "rm" }
func (*rmCmd) Synopsis() string { return "delete items from today's list" }
func (*rmCmd) Usage() string {
	return `pricectl rm <id>...

  Deletes items from today's list. Items from earlier days cannot be deleted.
`
}

func (*rmCmd) SetFlags(*flag.FlagSet) {}

func (p *rmCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return p.env.usage("at least one id is required")
	}

	ids := make([]uuid.UUID, 0, f.NArg())
	for _, arg := range f.Args() {
		id, err := uuid.Parse(arg)
		if err != nil {
			return p.env.usage("invalid id %q", arg)
		}
		ids = append(ids, id)
	}

	service, err := p.env.Open(ctx)
	if err != nil {
		return p.env.fail(err)
	}

	status := subcommands.ExitSuccess
	for _, id := range ids {
		deleted, err := service.DeleteItem(ctx, id)
		if err != nil {
			return p.env.fail(err)
		}
		if !deleted {
			fmt.Fprintf(p.env.Out, "no item %s in today's list\n", id)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Fprintf(p.env.Out, "deleted %s\n", id)
	}
	return status
}

type adjustCmd struct {
	env   *Env
	id    string
	price string
}

func (*adjustCmd) Name() string     { return "adjust" }
func (*adjustCmd) Synopsis() string { return "set the current price of one of today's items" }
func (*adjustCmd) Usage() string {
	return `pricectl adjust -id <id> -price <price>

  Sets the current price of an item in today's list and remembers it in the history.
  Like the slider, the price is rounded to cents and kept within 50% and 150% of
  the previous price.
`
}

func (p *adjustCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.id, "id", "", "Id of the item to adjust (required).")
	f.StringVar(&p.price, "price", "", "New current price (required).")
}

func (p *adjustCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	id, err := uuid.Parse(p.id)
	if err != nil {
		return p.env.usage("invalid -id %q", p.id)
	}
	price, ok := domain.ParsePrice(p.price)
	if !ok {
		return p.env.usage("invalid -price %q", p.price)
	}

	service, err := p.env.Open(ctx)
	if err != nil {
		return p.env.fail(err)
	}

	today := service.Today()
	var current *domain.PriceRecord
	for _, r := range service.Snapshot().Ledger.Records(today) {
		if r.ID == id {
			current = &r
			break
		}
	}
	if current == nil {
		fmt.Fprintf(p.env.Out, "no item %s in today's list\n", id)
		return subcommands.ExitFailure
	}

	clamped := domain.ClampPrice(current.PreviousPrice, price)
	if !clamped.Equal(price) {
		low, high := domain.SliderBounds(current.PreviousPrice)
		fmt.Fprintf(p.env.Err, "price %s adjusted to %s (allowed %s to %s)\n",
			price, clamped, p.env.Money(low), p.env.Money(high))
	}

	record, err := service.AdjustCurrentPrice(ctx, id, clamped)
	if err != nil {
		return p.env.fail(err)
	}
	if record == nil {
		fmt.Fprintf(p.env.Out, "no item %s in today's list\n", id)
		return subcommands.ExitFailure
	}

	fmt.Fprintf(p.env.Out, "%s now %s (%s%%)\n", record.Name, p.env.Money(record.CurrentPrice), record.Difference().StringFixed(1))
	return subcommands.ExitSuccess
}
