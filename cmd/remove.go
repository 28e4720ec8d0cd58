package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/avoir-app/avoir"
	"github.com/google/subcommands"
)

type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove a holding from the ledger" }
func (*removeCmd) Usage() string {
	return `avoir remove <name>

  Removes every holding recorded under the given name and rewrites the
  ledger.

Usage Examples:
$ avoir remove "Checking"

`
}

func (*removeCmd) SetFlags(f *flag.FlagSet) {}

func (c *removeCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected exactly one holding name")
		return subcommands.ExitUsageError
	}
	name := f.Arg(0)

	hs, err := avoir.LoadHoldings(DataPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	if !hs.Remove(name) {
		fmt.Fprintf(os.Stderr, "Error: no holding named %q\n", name)
		return subcommands.ExitFailure
	}
	if err := avoir.SaveHoldings(DataPath(), hs); err != nil {
		fmt.Fprintf(os.Stderr, "Error rewriting ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Removed %q from %s\n", name, DataPath())
	return subcommands.ExitSuccess
}
