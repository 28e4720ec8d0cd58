package agent

import (
	"context"
	"fmt"

	"github.com/avoir-app/avoir"
	"github.com/avoir-app/avoir/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// newFacilitator creates the expert in charge of the conversation.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skills from the Tools and ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to get information about his assets: bank accounts, funds,
			crypto, precious metals, real estate and loans, and what they are worth.

			Devise a plan of questions to ask each expert and come up with the best response
			to the user's request.

			The user will assume that you know his holdings, check the ledger first to understand what they are.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewTrader returns the market expert, grounded by Google Search.
func NewTrader() *Expert {
	return &Expert{
		Name: "Trader",
		Description: `This is an expert trader,
		very well aware of financial products, currencies, crypto assets and precious metal markets,
		and of the latest related news.
		Ask the Trader whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in trading, you can search and find anything related to
			financial institutions, currencies, crypto assets, commodities and markets.
			You leverage Google Search to ground your assertions in a solid truth.
			You can get the latest news too, and you know how to relate them to the user's request.
				`}}},
		},
	}
}

// NewBookkeeper returns the expert in charge of the user's holdings ledger
// and of the exchange rates. dataPath locates the ledger; the engine serves
// current rates.
func NewBookkeeper(dataPath string, engine *avoir.RateEngine) *Expert {
	lib := []Function{
		holdingsTool(dataPath),
		ratesTool(dataPath, engine),
		valuationTool(dataPath, engine),
	}

	return &Expert{
		Name: "Bookkeeper",
		Description: `This is the Bookkeeper. He is in charge of reading the user's holdings ledger
		and the current exchange rates. He can value the whole portfolio in a given currency.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a bookkeeper in charge of the user's holdings ledger.
				You know how to use the Tools to extract relevant information about the user's wealth.
				You are part of a team of experts, yours is everything about the user's holdings:
				  - the list of holdings
				  - the current exchange rates
				  - the total value in a given currency
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function from a declaration and a closure.
type Func struct {
	Decl *genai.FunctionDeclaration
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID: id, Name: name,
		Response: map[string]any{"error": err.Error()},
	}
}

func okResponse(id, name, output string) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID: id, Name: name,
		Response: map[string]any{"output": output},
	}
}

func holdingsTool(dataPath string) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Holdings",
			Description: `Holdings lists all entries of the user's ledger: product type, name, asset and amount.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of all holdings.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			hs, err := avoir.LoadHoldings(dataPath)
			if err != nil {
				return errResponse(id, "Holdings", err)
			}
			return okResponse(id, "Holdings", renderer.RenderHoldings(renderer.NewHoldings(hs)))
		},
	}
}

func ratesTool(dataPath string, engine *avoir.RateEngine) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Rates",
			Description: `Rates returns the current exchange rate matrix: for each base currency,
			the quantity of every quote asset (fiat, metal, crypto) per 1 unit of base.`,
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of the rate matrix.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			m, err := engine.GetRates(ctx, false)
			if err != nil {
				return errResponse(id, "Rates", err)
			}
			saved, _ := avoir.NewFileRateStorage(dataPath).LastSaved(ctx)
			return okResponse(id, "Rates", renderer.RenderRates(renderer.NewRates(m, saved)))
		},
	}
}

func valuationTool(dataPath string, engine *avoir.RateEngine) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Valuation",
			Description: `Valuation values all the user's holdings in the given currency and returns a report with a grand total.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"currency": {
						Type:        genai.TypeString,
						Description: "The target currency code, EUR or USD. EUR is the default.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted valuation report.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			currency := "EUR"
			if c, ok := args["currency"].(string); ok && c != "" {
				currency = c
			}
			if err := avoir.ValidateCurrency(currency); err != nil {
				return errResponse(id, "Valuation", err)
			}

			hs, err := avoir.LoadHoldings(dataPath)
			if err != nil {
				return errResponse(id, "Valuation", err)
			}
			m, err := engine.GetRates(ctx, false)
			if err != nil {
				return errResponse(id, "Valuation", fmt.Errorf("could not refresh rates: %w", err))
			}
			v := avoir.Value(hs, m, currency)
			return okResponse(id, "Valuation", renderer.RenderValuation(renderer.NewValuation(v)))
		},
	}
}
