package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/avoir-app/avoir"
	"github.com/avoir-app/avoir/renderer"
	"github.com/google/subcommands"
)

type valueCmd struct {
	currency string
}

func (*valueCmd) Name() string     { return "value" }
func (*valueCmd) Synopsis() string { return "value all holdings in a single currency" }
func (*valueCmd) Usage() string {
	return `avoir value [-currency <code>]

  Converts every holding into the target currency through the current
  exchange rates and prints a report with a grand total. Holdings whose
  rate is unknown are listed but excluded from the total.
`
}

func (c *valueCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.currency, "currency", "EUR", "Target currency code")
}

func (c *valueCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	currency := strings.ToUpper(c.currency)
	if err := avoir.ValidateCurrency(currency); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	hs, err := avoir.LoadHoldings(DataPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	m, err := NewEngine().GetRates(ctx, false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error refreshing rates: %v\n", err)
		return subcommands.ExitFailure
	}

	v := avoir.Value(hs, m, currency)
	printMarkdown(renderer.RenderValuation(renderer.NewValuation(v)))
	return subcommands.ExitSuccess
}
