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

type holdingsCmd struct{}

func (*holdingsCmd) Name() string             { return "holdings" }
func (*holdingsCmd) Synopsis() string         { return "list the holdings ledger" }
func (*holdingsCmd) SetFlags(f *flag.FlagSet) {}
func (*holdingsCmd) Usage() string {
	return `avoir holdings

  Lists every holding recorded in the ledger.
`
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	hs, err := avoir.LoadHoldings(DataPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading holdings: %v\n", err)
		return subcommands.ExitFailure
	}

	printMarkdown(renderer.RenderHoldings(renderer.NewHoldings(hs)))
	return subcommands.ExitSuccess
}
