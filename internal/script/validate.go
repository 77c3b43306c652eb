package script

import "fmt"

// #region warning
// Warning flags a non-fatal structural defect. Scripts with warnings still
// render and simulate; the improvement loop tolerates dangling edges.
type Warning struct {
	SectionID string
	Ref       string
	Message   string
}

func (w Warning) String() string {
	return fmt.Sprintf("section %q: %s", w.SectionID, w.Message)
}

// #endregion warning

// #region validate
// Validate collects warnings for edges whose target section does not exist.
// Every next_sections id SHOULD reference a section in the owning script;
// violations are surfaced here, never enforced.
func (s *Script) Validate() []Warning {
	var warnings []Warning
	for _, id := range s.Order {
		for _, next := range s.Sections[id].Next {
			if _, ok := s.Sections[next]; !ok {
				warnings = append(warnings, Warning{
					SectionID: id,
					Ref:       next,
					Message:   fmt.Sprintf("next_sections references unknown section %q", next),
				})
			}
		}
	}
	return warnings
}

// #endregion validate
