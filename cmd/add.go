package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/avoir-app/avoir"
	"github.com/avoir-app/avoir/date"
	"github.com/google/subcommands"
)

type addCmd struct {
	product   string
	name      string
	currency  string
	amount    string
	symbol    string
	address   string
	commodity string
	unit      string
	date      string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "append a holding to the ledger" }
func (*addCmd) Usage() string {
	return `avoir add -product <type> -name <name> -amount <amount> [options]

  Appends a holding to the ledger. The options required depend on the
  product type:

    ACCOUNT, FUND, LOAN, REAL_ESTATE:  -currency
    CRYPTO:                            -symbol or -address
    COMMODITY:                         -commodity and -unit

Usage Examples:
# Record a bank account balance.
$ avoir add -product ACCOUNT -name "Checking" -currency EUR -amount 1500

# Record half a bitcoin.
$ avoir add -product CRYPTO -name "Cold wallet" -symbol BTC -amount 0.5

`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.product, "product", "", "Product type (ACCOUNT, FUND, LOAN, CRYPTO, COMMODITY, REAL_ESTATE)")
	f.StringVar(&c.name, "name", "", "Display name of the holding")
	f.StringVar(&c.currency, "currency", "", "Currency code for fiat products")
	f.StringVar(&c.amount, "amount", "", "Amount held")
	f.StringVar(&c.symbol, "symbol", "", "Crypto ticker symbol")
	f.StringVar(&c.address, "address", "", "Crypto token contract address")
	f.StringVar(&c.commodity, "commodity", "", "Commodity (GOLD, SILVER, PLATINUM, PALLADIUM)")
	f.StringVar(&c.unit, "unit", string(avoir.TroyOunce), "Commodity weight unit (TROY_OUNCE, GRAM)")
	f.StringVar(&c.date, "date", "", "Date of the balance (defaults to today)")
}

func (c *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	h, err := c.holding()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitUsageError
	}

	if err := avoir.AppendHolding(DataPath(), h); err != nil {
		fmt.Fprintf(os.Stderr, "Error appending to ledger: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully recorded %q in %s\n", h.Name, DataPath())
	return subcommands.ExitSuccess
}

func (c *addCmd) holding() (avoir.Holding, error) {
	h := avoir.Holding{
		Product:         avoir.ProductType(strings.ToUpper(c.product)),
		Name:            c.name,
		Currency:        strings.ToUpper(c.currency),
		Symbol:          strings.ToUpper(c.symbol),
		ContractAddress: strings.ToLower(c.address),
		Commodity:       avoir.Commodity(strings.ToUpper(c.commodity)),
	}
	if c.commodity != "" {
		h.Unit = avoir.WeightUnit(strings.ToUpper(c.unit))
	}

	if c.amount == "" {
		return h, fmt.Errorf("missing -amount")
	}
	amount, err := avoir.ParseRate(c.amount)
	if err != nil {
		return h, fmt.Errorf("invalid -amount %q: %w", c.amount, err)
	}
	h.Amount = avoir.Q(amount.Decimal())

	if c.date == "" {
		h.Date = date.Today()
	} else {
		h.Date, err = date.Parse(c.date)
		if err != nil {
			return h, err
		}
	}

	return h, h.Validate()
}
