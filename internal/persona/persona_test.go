package persona

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/scriptloop/internal/llm"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

const validPersonaJSON = `{
	"id": "model_supplied_id",
	"name": "Maria Santos",
	"age": 42,
	"occupation": "retail manager",
	"income": 3800,
	"debt_amount": 7200.50,
	"months_behind": 4,
	"reasons_for_default": ["medical bills", "reduced hours"],
	"communication_style": "polite but guarded",
	"negotiation_style": "cautious",
	"objections": ["already paid some of this", "amount seems wrong"],
	"financial_situation": "living paycheck to paycheck after a hospital stay",
	"willingness_to_pay": 0.6
}`

// scriptedClient replays canned responses in order.
type scriptedClient struct {
	responses []string
	errs      []error
	calls     int
}

func (c *scriptedClient) GenerateStructured(context.Context, []string, string, float64) (json.RawMessage, error) {
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return nil, c.errs[i]
	}
	return json.RawMessage(c.responses[i]), nil
}

func (c *scriptedClient) Chat(context.Context, string, []llm.Turn, float64, int) (string, error) {
	return "", nil
}

func TestGenerate_AssignsLocalIDs(t *testing.T) {
	client := &scriptedClient{responses: []string{validPersonaJSON, validPersonaJSON, validPersonaJSON}}
	g := NewGenerator(client, quietLog())

	personas, err := g.Generate(context.Background(), 3)
	require.NoError(t, err)
	require.Len(t, personas, 3)

	for i, p := range personas {
		assert.Equal(t, fmt.Sprintf("persona_%d", i+1), p.ID, "model-supplied id must be overwritten")
		assert.Equal(t, "Maria Santos", p.Name)
	}
}

func TestGenerate_MissingFieldAbortsBatch(t *testing.T) {
	incomplete := `{"name": "Jo", "age": 30}`
	client := &scriptedClient{responses: []string{validPersonaJSON, incomplete}}
	g := NewGenerator(client, quietLog())

	_, err := g.Generate(context.Background(), 2)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "occupation")
	assert.Contains(t, err.Error(), "persona 2")
}

func TestGenerate_CapabilityFailurePropagates(t *testing.T) {
	client := &scriptedClient{
		responses: []string{validPersonaJSON, ""},
		errs:      []error{nil, &llm.GenerationError{Err: fmt.Errorf("timeout")}},
	}
	g := NewGenerator(client, quietLog())

	_, err := g.Generate(context.Background(), 2)
	require.Error(t, err)
	var genErr *llm.GenerationError
	assert.ErrorAs(t, err, &genErr)
}

func TestGenerate_NilClient(t *testing.T) {
	g := NewGenerator(nil, quietLog())
	_, err := g.Generate(context.Background(), 1)
	require.Error(t, err)
}

func TestToPrompt(t *testing.T) {
	p := &Persona{
		Name:               "Maria Santos",
		Age:                42,
		Occupation:         "retail manager",
		DebtAmount:         7200.50,
		MonthsBehind:       4,
		ReasonsForDefault:  []string{"medical bills", "reduced hours"},
		CommunicationStyle: "polite but guarded",
		NegotiationStyle:   "cautious",
		Objections:         []string{"amount seems wrong"},
		FinancialSituation: "tight budget",
		WillingnessToPay:   0.6,
	}
	prompt := p.ToPrompt()

	assert.True(t, strings.Contains(prompt, "Maria Santos, a 42 year old retail manager"))
	assert.Contains(t, prompt, "$7200.50")
	assert.Contains(t, prompt, "willingness to pay is 60%")
	assert.Contains(t, prompt, "medical bills, reduced hours")
}
