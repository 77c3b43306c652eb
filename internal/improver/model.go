package improver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/danielpatrickdp/scriptloop/internal/feedback"
	"github.com/danielpatrickdp/scriptloop/internal/llm"
	"github.com/danielpatrickdp/scriptloop/internal/script"
)

// #region rewrite-prompt

const rewriteSystemPrompt = "You are an expert in optimizing debt collection scripts."

const rewritePromptTemplate = `You are an expert in optimizing debt collection scripts. Based on the following feedback and metrics,
improve the debt collection script to address the identified issues.

CURRENT SCRIPT:
%s

PERFORMANCE METRICS:
%s

GENERAL FEEDBACK:
%s

SECTION-SPECIFIC IMPROVEMENTS NEEDED:
%s

ADDITIONAL SECTIONS RECOMMENDED:
%s

Please provide an improved version of the script that addresses these issues. For each section,
modify the content as needed while maintaining the overall structure and flow.

Return the improved script as a JSON object with the same structure as the original script.
Each section should have: section_id, name, description, content, and next_sections.

You may also add new sections if they would address the feedback.`

// #endregion rewrite-prompt

// #region section-patch
// sectionPatch is one section's worth of model output. Pointer fields
// distinguish "field absent" from "field set to empty" so a partial patch
// never wipes what the model left alone.
type sectionPatch struct {
	Name         *string   `json:"name"`
	Description  *string   `json:"description"`
	Content      *string   `json:"content"`
	NextSections *[]string `json:"next_sections"`
}

// #endregion section-patch

// #region model-rewrite
// modelRewrite asks the generation capability to rewrite the whole script and
// applies the returned patches onto improved. current is read-only context for
// the prompt. Any capability or parse failure is returned so the caller can
// fall back to rule edits; improved is only patched after a successful parse.
func (im *Improver) modelRewrite(ctx context.Context, current, improved *script.Script, d feedback.Directive) error {
	prompt, err := buildRewritePrompt(current, d)
	if err != nil {
		return err
	}

	raw, err := im.client.GenerateStructured(ctx, []string{rewriteSystemPrompt}, prompt, 0.3)
	if err != nil {
		return err
	}

	patches, err := decodePatches(raw)
	if err != nil {
		return err
	}

	for id, patch := range patches {
		if sec := improved.Section(id); sec != nil {
			applyPatch(sec, patch)
			continue
		}
		improved.AddSection(newSectionFromPatch(id, patch))
		im.log.WithField("section_id", id).Info("added new section from rewrite")
	}
	return nil
}

// buildRewritePrompt renders the current script and directive for the model.
func buildRewritePrompt(current *script.Script, d feedback.Directive) (string, error) {
	type promptSection struct {
		Name         string   `json:"name"`
		Description  string   `json:"description"`
		Content      string   `json:"content"`
		NextSections []string `json:"next_sections"`
	}
	sections := map[string]promptSection{}
	for id, sec := range current.Sections {
		sections[id] = promptSection{
			Name:         sec.Name,
			Description:  sec.Description,
			Content:      sec.Content,
			NextSections: sec.Next,
		}
	}

	sectionsJSON, err := json.MarshalIndent(sections, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal script sections: %w", err)
	}
	metricsJSON, err := json.MarshalIndent(d.Metrics, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal metrics: %w", err)
	}
	improvementsJSON, err := json.MarshalIndent(d.SectionImprovements, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal section improvements: %w", err)
	}
	additionalJSON, err := json.MarshalIndent(d.AdditionalSections, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal additional sections: %w", err)
	}

	return fmt.Sprintf(rewritePromptTemplate,
		sectionsJSON, metricsJSON, d.GeneralFeedback, improvementsJSON, additionalJSON), nil
}

// decodePatches accepts either a bare {section_id: patch} object or the same
// object under a top-level "sections" key, which models emit interchangeably.
func decodePatches(raw json.RawMessage) (map[string]sectionPatch, error) {
	var wrapper struct {
		Sections map[string]sectionPatch `json:"sections"`
	}
	if err := json.Unmarshal(raw, &wrapper); err == nil && wrapper.Sections != nil {
		return wrapper.Sections, nil
	}

	var patches map[string]sectionPatch
	if err := llm.Decode(raw, &patches); err != nil {
		return nil, err
	}
	return patches, nil
}

// applyPatch overlays the fields a patch carries onto an existing section.
func applyPatch(sec *script.Section, patch sectionPatch) {
	if patch.Content != nil {
		sec.Content = *patch.Content
	}
	if patch.Description != nil {
		sec.Description = *patch.Description
	}
	if patch.Name != nil {
		sec.Name = *patch.Name
	}
	if patch.NextSections != nil {
		sec.Next = *patch.NextSections
	}
}

// newSectionFromPatch builds a full section from a patch, filling defaults
// for anything the model omitted.
func newSectionFromPatch(id string, patch sectionPatch) *script.Section {
	sec := &script.Section{
		ID:          id,
		Name:        titleFromID(id),
		Description: "Added based on performance feedback",
		Next:        []string{"confirmation"},
	}
	if patch.Name != nil {
		sec.Name = *patch.Name
	}
	if patch.Description != nil {
		sec.Description = *patch.Description
	}
	if patch.Content != nil {
		sec.Content = *patch.Content
	}
	if patch.NextSections != nil {
		sec.Next = *patch.NextSections
	}
	return sec
}

// titleFromID turns "objection_handling" into "Objection Handling".
func titleFromID(id string) string {
	words := strings.Split(strings.ReplaceAll(id, "_", " "), " ")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// #endregion model-rewrite
