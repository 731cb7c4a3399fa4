package cli

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
)

type recallCmd struct {
	env *Env
}

func (*recallCmd) Name() string     { return "recall" }
func (*recallCmd) Synopsis() string { return "show the remembered price and category of an item name" }
func (*recallCmd) Usage() string {
	return `pricectl recall <name>

  Prints the last adjusted price and category recorded for an exact item name,
  ready to be used as -price and -category of "pricectl add".
`
}

func (*recallCmd) SetFlags(*flag.FlagSet) {}

func (p *recallCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return p.env.usage("exactly one name is required")
	}

	service, err := p.env.Open(ctx)
	if err != nil {
		return p.env.fail(err)
	}

	recall, ok := service.RecallFromHistory(f.Arg(0))
	if !ok {
		fmt.Fprintf(p.env.Out, "no history for %q\n", f.Arg(0))
		return subcommands.ExitFailure
	}

	fmt.Fprintf(p.env.Out, "pricectl add -name=%q -price=%s -category=%q\n",
		recall.Name, recall.PreviousPrice.String(), recall.Category)
	return subcommands.ExitSuccess
}

type historyCmd struct {
	env *Env
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list every remembered item name" }
func (*historyCmd) Usage() string {
	return `pricectl history

  Lists the history index: the last adjusted price and category of every item name.
`
}

func (*historyCmd) SetFlags(*flag.FlagSet) {}

func (p *historyCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	service, err := p.env.Open(ctx)
	if err != nil {
		return p.env.fail(err)
	}

	w := tabwriter.NewWriter(p.env.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCATEGORY\tLAST PRICE\tUPDATED")
	for _, e := range service.History() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.Name, e.Category, p.env.Money(e.LastPrice), e.LastUpdated.Format(time.DateTime))
	}
	if err := w.Flush(); err != nil {
		return p.env.fail(err)
	}
	return subcommands.ExitSuccess
}
