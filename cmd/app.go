// Package cmd implements the CLI application to track holdings and value
// them with live exchange rates.
package cmd

import (
	"flag"
	"os"

	"github.com/avoir-app/avoir"
	"github.com/google/subcommands"
)

// Commands lists every subcommand, in registration order. A main package
// registers them on a commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&addCmd{},
	&removeCmd{},
	&holdingsCmd{},
	&ratesCmd{},
	&valueCmd{},
	&assistCmd{},
	&topicCmd{},
	&versionCmd{},
}

// Register registers all subcommands on the commander.
func Register(c *subcommands.Commander) {
	for _, cmd := range Commands {
		c.Register(cmd, "")
	}
}

// As a CLI application it has a very short lived lifecycle, so it is ok to
// use global variables.

var dataPath = flag.String("data-path", envOr(EnvDataPath, ".avoir"), "Path to the data folder holding the ledger and rate cache")
var Verbose = flag.Bool("v", envOr(EnvVerbose, "") == "true", "Enable verbose logging")

// envOr returns the environment value of key, or fallback when unset.
func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

// DataPath returns the configured data folder.
func DataPath() string { return *dataPath }

// NewEngine builds the rate engine over the real providers and the
// file-backed cache, reading held crypto assets from the ledger.
func NewEngine() *avoir.RateEngine {
	return avoir.NewRateEngine(
		avoir.NewCurrencyAPI(avoir.SupportedCurrencies),
		avoir.NewMetalsAPI(),
		avoir.NewCryptoDesk(),
		avoir.NewFileRateStorage(DataPath()),
		&avoir.HoldingsReader{DataPath: DataPath()},
	)
}
