package avoir

import (
	"context"
	"fmt"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
)

// client for precious metal spot prices. gold-api.com serves all four
// metals; goldprice.org covers gold and silver and is kept as a fallback.

const (
	goldAPIURL   = "https://api.gold-api.com/price/%s"
	goldPriceURL = "https://data-asg.goldprice.org/dbXRates/USD"
)

// MetalsAPI implements CommodityPriceProvider over the public spot feeds.
// Both feeds quote in USD per troy ounce.
type MetalsAPI struct {
	client *http.Client
}

func NewMetalsAPI() *MetalsAPI {
	return &MetalsAPI{client: http.DefaultClient}
}

func (m *MetalsAPI) Price(ctx context.Context, c Commodity) (CommodityPrice, error) {
	ticker := c.Ticker()
	if ticker == "" {
		return CommodityPrice{}, fmt.Errorf("unknown commodity %q", string(c))
	}

	price, err := m.spot(ctx, ticker)
	if err != nil {
		price, err = m.fallbackSpot(ctx, ticker, err)
	}
	if err != nil {
		return CommodityPrice{}, err
	}
	return CommodityPrice{Price: price, Currency: "USD", Unit: TroyOunce}, nil
}

/*
	gold-api.com response:
	{
	    "name": "Gold",
	    "price": 2037.25,
	    "symbol": "XAU",
	    "updatedAt": "2026-08-28T09:00:00Z"
	}
*/
func (m *MetalsAPI) spot(ctx context.Context, ticker string) (Rate, error) {
	var payload struct {
		Price  any    `json:"price"`
		Symbol string `json:"symbol"`
	}
	if err := jwget(ctx, m.client, fmt.Sprintf(goldAPIURL, ticker), &payload); err != nil {
		return Rate{}, fmt.Errorf("error retrieving %s spot: %w", ticker, err)
	}
	price, err := ParseRate(payload.Price)
	if err != nil {
		return Rate{}, fmt.Errorf("invalid %s spot price: %w", ticker, err)
	}
	return price, nil
}

// fallbackSpot reads goldprice.org, which only carries gold and silver. The
// primary error is wrapped so both failures surface together.
func (m *MetalsAPI) fallbackSpot(ctx context.Context, ticker string, primary error) (Rate, error) {
	var path string
	switch ticker {
	case "XAU":
		path = "$.items[0].xauPrice"
	case "XAG":
		path = "$.items[0].xagPrice"
	default:
		return Rate{}, primary
	}

	var jobj any
	if err := jwget(ctx, m.client, goldPriceURL, &jobj); err != nil {
		return Rate{}, fmt.Errorf("%w (fallback: %v)", primary, err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return Rate{}, fmt.Errorf("%w (fallback: parsing %q: %v)", primary, path, err)
	}
	// jsonpath is never clear about whether it returns a list of one answer
	// or a single answer, keep the first one if any.
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	price, err := ParseRate(jval)
	if err != nil {
		return Rate{}, fmt.Errorf("%w (fallback: invalid %s price: %v)", primary, ticker, err)
	}
	return price, nil
}
