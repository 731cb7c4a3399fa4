package cli

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/simaogato/pricelist-backend/internal/usecase/legacy"
)

type importLegacyCmd struct {
	env *Env
}

func (*importLegacyCmd) Name() string     { return "import-legacy" }
func (*importLegacyCmd) Synopsis() string { return "import a price list exported by the old app" }
func (*importLegacyCmd) Usage() string {
	return `pricectl import-legacy <file.json>

  Imports the flat "priceItems" list of the old app. Each item goes to the day it
  was created on. Items imported before are skipped, so the command can be re-run.
`
}

func (*importLegacyCmd) SetFlags(*flag.FlagSet) {}

func (p *importLegacyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		return p.env.usage("exactly one file is required")
	}

	file, err := os.Open(f.Arg(0))
	if err != nil {
		return p.env.fail(err)
	}
	defer file.Close()

	items, err := legacy.Decode(file)
	if err != nil {
		return p.env.fail(err)
	}

	service, err := p.env.Open(ctx)
	if err != nil {
		return p.env.fail(err)
	}

	result, err := service.ImportLegacy(ctx, items)
	if err != nil {
		return p.env.fail(err)
	}

	for _, r := range result.Rejected {
		fmt.Fprintf(p.env.Err, "skipped %s %q: %s\n", r.ID, r.Name, r.Reason)
	}
	fmt.Fprintf(p.env.Out, "imported %d, already present %d, rejected %d\n",
		result.Imported, result.Existing, len(result.Rejected))
	return subcommands.ExitSuccess
}
