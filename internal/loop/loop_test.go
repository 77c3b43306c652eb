package loop

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielpatrickdp/scriptloop/internal/conversation"
	"github.com/danielpatrickdp/scriptloop/internal/feedback"
	"github.com/danielpatrickdp/scriptloop/internal/improver"
	"github.com/danielpatrickdp/scriptloop/internal/metrics"
	"github.com/danielpatrickdp/scriptloop/internal/persona"
	"github.com/danielpatrickdp/scriptloop/internal/script"
	"github.com/danielpatrickdp/scriptloop/internal/simulate"
)

func quietLog() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type staticPersonas struct {
	err error
}

func (s staticPersonas) Generate(_ context.Context, count int) ([]*persona.Persona, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := make([]*persona.Persona, count)
	for i := range out {
		out[i] = &persona.Persona{
			ID:         fmt.Sprintf("persona_%d", i+1),
			Name:       "Test Debtor",
			DebtAmount: 5000,
		}
	}
	return out, nil
}

func newRunner(log *logrus.Logger) *Runner {
	return &Runner{
		Personas:      staticPersonas{},
		Simulator:     simulate.New(nil, log),
		Synthesizer:   feedback.RuleSynthesizer{},
		Improver:      improver.New(nil, nil, log),
		Gate:          DefaultGate(),
		Log:           log,
		PersonaCount:  2,
		MaxTurns:      4,
		MaxIterations: 3,
	}
}

func TestGateDecide(t *testing.T) {
	g := DefaultGate()
	tests := []struct {
		name     string
		report   metrics.Report
		wantStop bool
	}{
		{"both-targets-met", metrics.Report{RepetitionRate: 0.1, NegotiationEffectiveness: 0.8}, true},
		{"boundary-values", metrics.Report{RepetitionRate: 0.2, NegotiationEffectiveness: 0.7}, true},
		{"repetition-too-high", metrics.Report{RepetitionRate: 0.3, NegotiationEffectiveness: 0.9}, false},
		{"negotiation-too-low", metrics.Report{RepetitionRate: 0.1, NegotiationEffectiveness: 0.5}, false},
		{"both-off-target", metrics.Report{RepetitionRate: 0.5, NegotiationEffectiveness: 0.2}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := g.Decide(tt.report)
			assert.Equal(t, tt.wantStop, d.Stop)
			assert.NotEmpty(t, d.Reason)
		})
	}
}

func TestRun_ExhaustsIterationBudget(t *testing.T) {
	r := newRunner(quietLog())

	// The canned no-client conversations score 0.5 on negotiation, so the
	// gate never releases and every iteration improves the script.
	result, err := r.Run(context.Background(), script.Default())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Iterations)
	assert.Equal(t, "1.3", result.FinalScript.Version)
	assert.Contains(t, result.StopReason, "budget")
}

func TestRun_GateStopsEarly(t *testing.T) {
	r := newRunner(quietLog())
	r.evaluate = func([]*conversation.Conversation) metrics.Report {
		return metrics.Report{RepetitionRate: 0.1, NegotiationEffectiveness: 0.9}
	}

	result, err := r.Run(context.Background(), script.Default())
	require.NoError(t, err)

	assert.Equal(t, 1, result.Iterations)
	assert.Equal(t, "1.0", result.FinalScript.Version, "no improvement after the gate releases")
	assert.Contains(t, result.StopReason, "targets met")
}

func TestRun_PersonaFailureAborts(t *testing.T) {
	r := newRunner(quietLog())
	r.Personas = staticPersonas{err: fmt.Errorf("capability unavailable")}

	_, err := r.Run(context.Background(), script.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "iteration 1")
}

func TestRun_VersionFormatErrorAborts(t *testing.T) {
	r := newRunner(quietLog())
	sc := script.Default()
	sc.Version = "not-a-number"

	_, err := r.Run(context.Background(), sc)
	require.Error(t, err)
	var vfe *improver.VersionFormatError
	assert.ErrorAs(t, err, &vfe)
}
