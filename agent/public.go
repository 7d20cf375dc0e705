package agent

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/etnz/taxlot"
	"github.com/etnz/taxlot/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// creates the facilitator
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

			Learn about the expert's skill that you can get from the Tools to ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user is here primarily to understand the tax consequences of his equity compensation:
			vested stock, exercised options, purchase plan shares, and the sales thereof.

			Devise a plan of questions to ask to each experts and come up with the best response
			to the user's request. Always remind the user that the final numbers belong on forms
			prepared with a tax professional.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewResearcher returns the expert grounded in public tax rules.
func NewResearcher() *Expert {
	return &Expert{
		Name: "Researcher",
		Description: `This is an expert researcher on equity compensation taxation.
		Very well aware of the IRS rules on restricted stock, option exercises,
		purchase plans and wash sales, and of their recent changes.
		Ask the Researcher whenever you need grounding information on a tax rule.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert in equity compensation taxation. You can search and find
			about anything related to restricted stock vesting, option exercises, employee
			stock purchase plans, wash sales and the alternative minimum tax. You leverage
			Google Search to ground your assertions in a solid truth, and you cite the
			publication or form your answer comes from.
				`}}},
		},
	}
}

// NewPreparer returns the expert in charge of the user's event ledger.
func NewPreparer() *Expert {

	lib := []Function{Reconciliation, OpenLots}

	return &Expert{
		Name: "Preparer",
		Description: `This is the Preparer. He is in charge of reading the user's equity event
		ledger. He can replay the ledger to compute lot level figures: corrected basis, realized
		gains, wash-sale disallowances and the AMT side of incentive exercises.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a tax preparer in charge of the user's equity event ledger.
				You know how to use the Tools to extract relevant figures from the ledger.
				You are part of a team of experts, yours is everything recorded in the ledger.
				They might ask you questions about the user's lots and sales, pardon their
				approximative language and figure out what they meant.

				Use the available tools to get information about the user's equity
				  - the yearly reconciliation of sales against the lot register
				  - the open lots and their corrected basis
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

var yearParameter = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"year": {
			Type:        genai.TypeInteger,
			Description: "The tax year to report on. The current year is the default.",
		},
	},
}

var Reconciliation = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "Reconciliation",
		Description: `Reconciliation replays the event ledger for a tax year and reports every
		sale with its corrected basis, gain character (short or long term), ordinary income,
		wash-sale disallowances, and the discrepancy against the broker's basis figures.`,
		Parameters: yearParameter,
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted reconciliation report, one row per sale, with totals.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		return respond(id, "Reconciliation", args, func(report *taxlot.Report) string {
			return renderer.ReconciliationMarkdown(report)
		})
	},
}

var OpenLots = &Func{
	Decl: &genai.FunctionDeclaration{
		Name: "OpenLots",
		Description: `OpenLots lists the lots still held at the end of a tax year, with their
		acquisition date, source, remaining shares, and regular and AMT basis per share.`,
		Parameters: yearParameter,
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "A markdown-formatted table of the open lots in the register.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		return respond(id, "OpenLots", args, func(report *taxlot.Report) string {
			return renderer.LotsMarkdown(report.OpenLots())
		})
	},
}

// respond runs the reconciliation for the requested year and renders it
// with the given renderer, packing errors the way genai expects them.
func respond(id, name string, args map[string]any, render func(*taxlot.Report) string) *genai.FunctionResponse {
	report, err := reconcile(parseYear(args))
	if err != nil {
		return &genai.FunctionResponse{
			ID:   id,
			Name: name,
			Response: map[string]any{
				"error": err.Error(),
			},
		}
	}
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"output": render(report),
		},
	}
}

func reconcile(year int) (*taxlot.Report, error) {
	ledger, err := DecodeLedger()
	if err != nil {
		return nil, fmt.Errorf("could not load ledger: %w", err)
	}
	return taxlot.Reconcile(ledger, taxlot.Options{Period: taxlot.TaxYear(year)})
}

// DecodeLedger decodes the ledger from the application's default ledger file.
// If the file does not exist, it returns a new empty ledger.
func DecodeLedger() (*taxlot.Ledger, error) {
	ledgerFile := "events.jsonl"
	f, err := os.Open(ledgerFile)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// If the file doesn't exist, it's an empty ledger.
			return taxlot.NewLedger(), nil
		}
		return nil, fmt.Errorf("could not open ledger file %q: %w", ledgerFile, err)
	}
	defer f.Close()

	ledger, err := taxlot.DecodeLedger(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode ledger file %q: %w", ledgerFile, err)
	}
	return ledger, nil
}

func parseYear(args map[string]any) int {
	iyear, ok := args["year"]
	if !ok {
		return taxlot.Today().Year()
	}
	switch y := iyear.(type) {
	case float64:
		return int(y)
	case int:
		return y
	}
	return taxlot.Today().Year()
}
