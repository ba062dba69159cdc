package agent

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/coinfolio/coinfolio"
	"github.com/coinfolio/coinfolio/renderer"
)

const model = "gemini-2.5-flash"

// EventSource loads the resolved event log on demand, so every tool call
// sees the ledger as currently stored.
type EventSource func() ([]coinfolio.Event, error)

// newFacilitator builds the expert in charge of the conversation. It has no
// tools of its own, only the other experts.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are the facilitator of a crypto portfolio assistant. The user asks
			about their holdings, their realized gains, their tax situation, or the
			market context around their assets.

			Learn each expert's skill from the Tools and ask them questions. They
			are at your service and keep the context of your previous questions.

			Always check the user's actual portfolio through the Accountant before
			making claims about what they hold. Devise a plan of questions and
			come up with the best response to the user's request. Never give
			legal or investment advice.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewAnalyst builds the market expert, grounded in web search.
func NewAnalyst() *Expert {
	return &Expert{
		Name: "Analyst",
		Description: `This is a crypto market analyst. Ask the Analyst whenever
		you need recent or grounding information about a token, a protocol, an
		exchange, or the market at large.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a crypto market analyst. You leverage Google Search to ground
			your assertions. You can get the latest news about tokens, protocols
			and exchanges, and you know how to relate them to the user's request.
			`}}},
		},
	}
}

// NewAccountant builds the expert with function-calling access to the user's
// ledger: positions on a day, and yearly tax figures.
func NewAccountant(src EventSource, settings coinfolio.Settings) *Expert {
	lib := []Function{positionsTool(src, settings), taxReportTool(src, settings)}

	return &Expert{
		Name: "Accountant",
		Description: `This is the Accountant. He has read access to the user's
		ledger and can compute the relevant figures about the user's holdings,
		cost basis and taxes.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an accountant in charge of the user's crypto ledger. Use the
			available tools to get information about the user's portfolio:
			  - open positions and their cost basis on a given day
			  - realized gains, income and warnings for a tax year
			Pardon the other experts' approximative language and figure out what
			they meant. Report figures exactly as the tools return them.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func is a Function implemented by a plain callback.
type Func struct {
	Decl *genai.FunctionDeclaration
	Fn   func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Fn(ctx, id, args)
}

func errorResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func positionsTool(src EventSource, settings coinfolio.Settings) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "Positions",
			Description: `Positions lists the assets held at the end of a given
			day, with quantity, total cost basis and average cost per unit.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date": {
						Type:        genai.TypeString,
						Description: "The day on which to compute the positions, formatted YYYY-MM-DD. Today is the default.",
					},
				},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown table of the open positions.",
			},
		},
		Fn: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			day, err := parseDateArg(args)
			if err != nil {
				return errorResponse(id, "Positions", err)
			}
			events, err := src()
			if err != nil {
				return errorResponse(id, "Positions", err)
			}

			var upTo []coinfolio.Event
			for _, ev := range events {
				if ev.When().Before(day.EndExclusive()) {
					upTo = append(upTo, ev)
				}
			}
			eng, err := coinfolio.Replay(upTo, settings, settings.LotMethodDefault)
			if err != nil {
				return errorResponse(id, "Positions", err)
			}

			return &genai.FunctionResponse{
				ID:   id,
				Name: "Positions",
				Response: map[string]any{
					"output": renderer.PositionsMarkdown(eng.Positions(), day),
				},
			}
		},
	}
}

func taxReportTool(src EventSource, settings coinfolio.Settings) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "TaxReport",
			Description: `TaxReport computes the tax figures for a calendar
			year: every disposal with proceeds, cost basis and gain, the income
			rows, the year-end holdings, and any data-quality warnings.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"year": {
						Type:        genai.TypeInteger,
						Description: "The calendar year to report on.",
					},
				},
				Required: []string{"year"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown report of the year's tax figures.",
			},
		},
		Fn: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			year, err := parseYearArg(args)
			if err != nil {
				return errorResponse(id, "TaxReport", err)
			}
			events, err := src()
			if err != nil {
				return errorResponse(id, "TaxReport", err)
			}

			report, err := coinfolio.NewTaxReport(events, settings, year, nil)
			if err != nil {
				return errorResponse(id, "TaxReport", err)
			}

			return &genai.FunctionResponse{
				ID:   id,
				Name: "TaxReport",
				Response: map[string]any{
					"output": renderer.TaxMarkdown(report),
				},
			}
		},
	}
}

func parseDateArg(args map[string]any) (coinfolio.Date, error) {
	idate, hasDate := args["date"]
	if !hasDate {
		return coinfolio.Today(), nil
	}
	sdate, ok := idate.(string)
	if !ok {
		return coinfolio.Date{}, fmt.Errorf("argument 'date' is not a string as expected but %T", idate)
	}
	if sdate == "" {
		return coinfolio.Today(), nil
	}
	return coinfolio.ParseDate(sdate)
}

func parseYearArg(args map[string]any) (int, error) {
	switch v := args["year"].(type) {
	case float64:
		return int(v), nil
	case int:
		return v, nil
	case nil:
		return 0, fmt.Errorf("argument 'year' is required")
	default:
		return 0, fmt.Errorf("argument 'year' is not a number as expected but %T", v)
	}
}
