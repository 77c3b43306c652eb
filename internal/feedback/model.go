package feedback

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/scriptloop/internal/conversation"
	"github.com/danielpatrickdp/scriptloop/internal/llm"
	"github.com/danielpatrickdp/scriptloop/internal/metrics"
)

// #region synthesizer-interface
// Synthesizer turns a batch report and transcript sample into a directive.
// Implementations never fail: degraded output is acceptable, no output is not.
type Synthesizer interface {
	Synthesize(ctx context.Context, convs []*conversation.Conversation, report metrics.Report) Directive
}

// #endregion synthesizer-interface

// #region constants

const sampleLimit = 3 // transcripts included in analysis prompts

const analystSystemPrompt = "You analyze debt collection conversations and provide expert feedback."
const editorSystemPrompt = "You improve debt collection scripts based on conversation analysis."

// #endregion constants

// #region model-synthesizer
// ModelSynthesizer asks the generation capability for a performance
// narrative and per-section edit instructions, in two structured
// completions. Any capability or parse failure falls back to the rule
// table for the whole directive; a directive is never partially
// model-populated.
type ModelSynthesizer struct {
	client llm.Client
	rules  RuleSynthesizer
	log    *logrus.Logger
}

// NewModelSynthesizer wires a model-assisted synthesizer over the client.
func NewModelSynthesizer(client llm.Client, log *logrus.Logger) *ModelSynthesizer {
	return &ModelSynthesizer{client: client, log: log}
}

// Synthesize runs the two-step analysis, falling back to rules on failure.
func (m *ModelSynthesizer) Synthesize(ctx context.Context, convs []*conversation.Conversation, report metrics.Report) Directive {
	d, err := m.synthesize(ctx, convs, report)
	if err != nil {
		m.log.WithError(err).Warn("model-assisted synthesis failed, using rule table")
		return m.rules.Synthesize(ctx, convs, report)
	}
	return d
}

func (m *ModelSynthesizer) synthesize(ctx context.Context, convs []*conversation.Conversation, report metrics.Report) (Directive, error) {
	samples := transcriptSamples(convs)
	metricsJSON, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return Directive{}, fmt.Errorf("marshal metrics: %w", err)
	}

	// Step 1: overall assessment and improvement areas.
	generalPrompt := fmt.Sprintf(`You are an expert in analyzing debt collection conversations.

METRICS:
%s

CONVERSATION SAMPLES:
%s

Based on these conversations and metrics, provide:
1. General feedback on the agent's performance
2. 3-5 specific areas for improvement

Format your response as JSON with these fields:
- general_feedback: A paragraph of overall assessment
- improvement_areas: Array of specific improvement suggestions`, metricsJSON, samples)

	raw, err := m.client.GenerateStructured(ctx, []string{analystSystemPrompt}, generalPrompt, 0.4)
	if err != nil {
		return Directive{}, err
	}
	var general struct {
		GeneralFeedback  string   `json:"general_feedback"`
		ImprovementAreas []string `json:"improvement_areas"`
	}
	if err := llm.Decode(raw, &general); err != nil {
		return Directive{}, err
	}

	areasJSON, err := json.MarshalIndent(general.ImprovementAreas, "", "  ")
	if err != nil {
		return Directive{}, fmt.Errorf("marshal improvement areas: %w", err)
	}

	// Step 2: map improvement areas onto section edits and new sections.
	sectionPrompt := fmt.Sprintf(`You are an expert in improving debt collection scripts.

METRICS:
%s

CONVERSATION SAMPLES:
%s

IMPROVEMENT AREAS:
%s

Based on this analysis, provide specific script improvements:
1. Identify which script sections need improvement
2. Suggest specific text changes for those sections
3. Recommend any new sections that should be added

Format your response as JSON with these fields:
- section_improvements: Object with section_id keys and improvement text values
- additional_sections_needed: Array of objects with name and content fields`, metricsJSON, samples, areasJSON)

	raw, err = m.client.GenerateStructured(ctx, []string{editorSystemPrompt}, sectionPrompt, 0.4)
	if err != nil {
		return Directive{}, err
	}
	var edits struct {
		SectionImprovements map[string]Improvement `json:"section_improvements"`
		AdditionalSections  []ProposedSection      `json:"additional_sections_needed"`
	}
	if err := llm.Decode(raw, &edits); err != nil {
		return Directive{}, err
	}

	d := Directive{
		Metrics:             report,
		GeneralFeedback:     general.GeneralFeedback,
		SectionImprovements: edits.SectionImprovements,
		AdditionalSections:  edits.AdditionalSections,
	}
	if d.SectionImprovements == nil {
		d.SectionImprovements = map[string]Improvement{}
	}
	return d, nil
}

// transcriptSamples renders up to sampleLimit conversations for a prompt.
func transcriptSamples(convs []*conversation.Conversation) string {
	var parts []string
	for i, c := range convs {
		if i >= sampleLimit {
			break
		}
		parts = append(parts, fmt.Sprintf("CONVERSATION %d (Persona: %s):\n%s", i+1, c.PersonaName, c.Transcript()))
	}
	return strings.Join(parts, "\n\n")
}

// #endregion model-synthesizer

// #region selector
// NewSynthesizer selects the model-assisted path when a generation client
// is configured, otherwise the rule table. Capability availability is an
// injected configuration value, not ambient environment state.
func NewSynthesizer(client llm.Client, log *logrus.Logger) Synthesizer {
	if client == nil {
		return RuleSynthesizer{}
	}
	return NewModelSynthesizer(client, log)
}

// #endregion selector
