package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/avoir-app/avoir"
	"github.com/avoir-app/avoir/renderer"
	"github.com/google/subcommands"
)

type ratesCmd struct {
	full bool
}

func (*ratesCmd) Name() string     { return "rates" }
func (*ratesCmd) Synopsis() string { return "show the current exchange rate matrix" }
func (*ratesCmd) Usage() string {
	return `avoir rates [-full]

  Refreshes and prints the exchange rate matrix: for each base currency the
  quantity of every quote asset obtained for 1 unit of the base.

  -full also fetches the baseline crypto tickers, as on application start.
`
}

func (c *ratesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.full, "full", false, "Also fetch the baseline crypto tickers")
}

func (c *ratesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	engine := NewEngine()
	m, err := engine.GetRates(ctx, c.full)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error refreshing rates: %v\n", err)
		return subcommands.ExitFailure
	}

	saved, err := avoir.NewFileRateStorage(DataPath()).LastSaved(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not read last save time: %v\n", err)
	}

	printMarkdown(renderer.RenderRates(renderer.NewRates(m, saved)))
	return subcommands.ExitSuccess
}
