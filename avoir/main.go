// Command avoir tracks personal holdings and values them with live
// exchange rates.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/avoir-app/avoir/cmd"
	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	completion()

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	cmd.Register(commander)

	flag.Parse()

	// An unknown subcommand may be an avoir-<name> extension on the PATH.
	if args := flag.Args(); len(args) > 0 && !registered(args[0]) {
		if found, code := cmd.RunExtension(args[0], args[1:]); found {
			os.Exit(code)
		}
	}

	os.Exit(int(commander.Execute(context.Background())))
}

// registered reports whether name is a built-in subcommand.
func registered(name string) bool {
	if name == "help" || name == "flags" {
		return true
	}
	for _, c := range cmd.Commands {
		if c.Name() == name {
			return true
		}
	}
	return false
}

// completion handles shell completion requests and exits when one is in
// progress. Install with: COMP_INSTALL=1 avoir
func completion() {
	sub := make(map[string]*complete.Command, len(cmd.Commands))
	for _, c := range cmd.Commands {
		sub[c.Name()] = &complete.Command{}
	}
	sub["value"].Flags = map[string]complete.Predictor{
		"currency": predict.Set{"EUR", "USD"},
	}
	sub["topic"].Args = predict.Set{"readme", "getting-started", "holdings", "rates", "valuation"}

	root := &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"data-path": predict.Dirs("*"),
			"v":         predict.Nothing,
		},
	}
	root.Complete(path.Base(os.Args[0]))
}
