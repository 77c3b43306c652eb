package feedback

import (
	"encoding/json"

	"github.com/danielpatrickdp/scriptloop/internal/metrics"
)

// #region improvement
// Improvement is one section-level edit instruction. It arrives either as
// free-text guidance or as a structured patch that replaces content (and
// optionally description) outright.
type Improvement struct {
	Text        string `json:"-"`
	Content     string `json:"content,omitempty"`
	Description string `json:"description,omitempty"`
}

// Structured reports whether this improvement carries a content patch.
func (im Improvement) Structured() bool {
	return im.Content != ""
}

// FreeText returns free-text guidance for an unstructured improvement.
func FreeText(text string) Improvement {
	return Improvement{Text: text}
}

// UnmarshalJSON accepts either a bare string or a {content, description}
// object, matching what structured completions produce.
func (im *Improvement) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*im = Improvement{Text: text}
		return nil
	}
	type patch struct {
		Content     string `json:"content"`
		Description string `json:"description"`
	}
	var p patch
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*im = Improvement{Content: p.Content, Description: p.Description}
	return nil
}

// MarshalJSON mirrors UnmarshalJSON.
func (im Improvement) MarshalJSON() ([]byte, error) {
	if !im.Structured() {
		return json.Marshal(im.Text)
	}
	type patch struct {
		Content     string `json:"content"`
		Description string `json:"description,omitempty"`
	}
	return json.Marshal(patch{Content: im.Content, Description: im.Description})
}

// #endregion improvement

// #region proposed-section
// ProposedSection describes a new section to add to the script.
type ProposedSection struct {
	Name         string   `json:"name"`
	Content      string   `json:"content"`
	Description  string   `json:"description,omitempty"`
	NextSections []string `json:"next_sections,omitempty"`
}

// #endregion proposed-section

// #region directive
// Directive is a structured set of improvement instructions produced by one
// evaluation cycle and consumed exactly once by the script improver.
type Directive struct {
	Metrics             metrics.Report         `json:"metrics"`
	GeneralFeedback     string                 `json:"general_feedback"`
	SectionImprovements map[string]Improvement `json:"section_improvements"`
	AdditionalSections  []ProposedSection      `json:"additional_sections_needed"`
}

// #endregion directive
