package persona

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/scriptloop/internal/llm"
)

// #region generator
// Generator produces debtor personas through the generation capability.
// Persona variety is the point of this component, so there is no canned
// fallback: generation failures propagate to the caller.
type Generator struct {
	client llm.Client
	log    *logrus.Logger
}

// NewGenerator wires a persona generator. The client is required.
func NewGenerator(client llm.Client, log *logrus.Logger) *Generator {
	return &Generator{client: client, log: log}
}

const generatorSystemPrompt = "You generate diverse and realistic personas of people who have defaulted on loans. You MUST return valid JSON matching the requested format exactly."

const generatorPrompt = `Create a realistic persona for a loan defaulter that a debt collection agency would call.

The response MUST be a valid JSON object with EXACTLY these fields:
- name: A person's full name (string)
- age: Age in years (integer between 18-75)
- occupation: Current job or profession (string)
- income: Monthly income in dollars (float between 1000-10000)
- debt_amount: Amount of debt in dollars (float between 1000-20000)
- months_behind: Number of months behind on payment (integer between 1-12)
- reasons_for_default: List of reasons for defaulting (array of 2-4 strings)
- communication_style: How they communicate (string describing their style)
- negotiation_style: Their approach to negotiation (string)
- objections: Common objections they raise (array of 2-4 strings)
- financial_situation: Brief description of their finances (string)
- willingness_to_pay: Number between 0.0 and 1.0 (float)

Be creative and realistic. Generate a fully formed character with a believable financial situation.
Ensure diverse representation across different personas.`

// requiredFields guards against structurally valid JSON that silently omits
// persona attributes.
var requiredFields = []string{
	"name", "age", "occupation", "income", "debt_amount",
	"months_behind", "reasons_for_default", "communication_style",
	"negotiation_style", "objections", "financial_situation",
	"willingness_to_pay",
}

// Generate produces count personas, one completion each at high temperature
// for variety. IDs are assigned locally as persona_1..persona_N; any model
// id is overwritten. The first failure aborts the whole batch.
func (g *Generator) Generate(ctx context.Context, count int) ([]*Persona, error) {
	if g.client == nil {
		return nil, fmt.Errorf("persona generation requires a configured generation capability")
	}

	personas := make([]*Persona, 0, count)
	for i := 0; i < count; i++ {
		raw, err := g.client.GenerateStructured(ctx, []string{generatorSystemPrompt}, generatorPrompt, 0.9)
		if err != nil {
			return nil, fmt.Errorf("generate persona %d: %w", i+1, err)
		}

		if err := checkRequiredFields(raw); err != nil {
			return nil, fmt.Errorf("generate persona %d: %w", i+1, err)
		}

		var p Persona
		if err := llm.Decode(raw, &p); err != nil {
			return nil, fmt.Errorf("generate persona %d: %w", i+1, err)
		}
		p.ID = fmt.Sprintf("persona_%d", i+1)

		personas = append(personas, &p)
		g.log.WithField("name", p.Name).Info("generated persona")
	}
	return personas, nil
}

// checkRequiredFields verifies every persona attribute is present in the
// raw document, not merely zero-valued after decoding.
func checkRequiredFields(raw json.RawMessage) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return &llm.ParseError{Detail: "persona document is not an object", Err: err}
	}
	var missing []string
	for _, f := range requiredFields {
		if _, ok := doc[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return &llm.ParseError{Detail: "missing required fields: " + strings.Join(missing, ", ")}
	}
	return nil
}

// #endregion generator
