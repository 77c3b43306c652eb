package feedback

import (
	"context"
	"strings"

	"github.com/danielpatrickdp/scriptloop/internal/conversation"
	"github.com/danielpatrickdp/scriptloop/internal/metrics"
)

// #region thresholds

const (
	// RepetitionHigh flags too-frequent repetition.
	RepetitionHigh = 0.3
	// NegotiationLow flags a weak negotiation approach.
	NegotiationLow = 0.6
	// NegotiationCritical additionally proposes an alternatives section.
	NegotiationCritical = 0.4
	// ResolutionLow flags conversations ending without resolution.
	ResolutionLow = 0.5
	// ResolutionCritical additionally proposes an objection-handling section.
	ResolutionCritical = 0.3
	// ComplianceLow flags missing compliance elements.
	ComplianceLow = 0.8
)

// #endregion thresholds

// #region rule-synthesizer
// RuleSynthesizer derives a directive from a fixed threshold table. Every
// condition is evaluated independently; general-feedback clauses concatenate
// in table order. Deterministic with zero external dependencies, so it serves
// as both the default path and the fallback when model-assisted synthesis fails.
type RuleSynthesizer struct{}

// Synthesize applies the threshold table to the batch report. The context
// and conversations are unused by the rule path; the signature is shared
// with the model path.
func (RuleSynthesizer) Synthesize(_ context.Context, _ []*conversation.Conversation, report metrics.Report) Directive {
	d := Directive{
		Metrics:             report,
		SectionImprovements: map[string]Improvement{},
	}
	var clauses []string

	if report.RepetitionRate > RepetitionHigh {
		clauses = append(clauses, "The agent is repeating information too frequently.")
		d.SectionImprovements["payment_discussion"] = FreeText(
			"Reduce repetition of payment options. Consolidate payment information into clearer, more concise statements.")
	}

	if report.NegotiationEffectiveness < NegotiationLow {
		clauses = append(clauses, "The agent's negotiation approach needs improvement.")
		d.SectionImprovements["payment_plan"] = FreeText(
			"Include more flexible payment options. Add language that acknowledges customer concerns and offers alternatives based on their situation.")
	}

	if report.ResolutionRate < ResolutionLow {
		clauses = append(clauses, "Many conversations are ending without a clear resolution.")
		d.SectionImprovements["confirmation"] = FreeText(
			"Strengthen the closing agreement language. Add more direct questions to confirm customer agreement and commitment.")
	}

	if report.ComplianceScore < ComplianceLow {
		clauses = append(clauses, "There are compliance issues in the agent's script.")
		d.SectionImprovements["introduction"] = FreeText(
			"Ensure all compliance elements are present: agent identification, company name, recording disclosure, and purpose of call.")
	}

	if report.NegotiationEffectiveness < NegotiationCritical {
		d.AdditionalSections = append(d.AdditionalSections, ProposedSection{
			Name: "Alternative Payment Options",
			Content: `Let me share some additional payment options that might work better for your situation:

1. Reduced monthly payments over a longer term
2. Interest-only payments for a limited time
3. A one-time settlement option

Which of these might work better for you?`,
		})
	}

	if report.ResolutionRate < ResolutionCritical {
		d.AdditionalSections = append(d.AdditionalSections, ProposedSection{
			Name: "Objection Handling",
			Content: `I understand your concerns about [specific objection]. Many customers have similar questions.

Let me address this by explaining [explanation addressing objection].

Does that help clarify the situation?`,
		})
	}

	if len(clauses) == 0 {
		d.GeneralFeedback = "The agent is performing adequately overall."
	} else {
		d.GeneralFeedback = strings.Join(clauses, " ")
	}
	return d
}

// #endregion rule-synthesizer
