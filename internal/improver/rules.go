package improver

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/scriptloop/internal/feedback"
	"github.com/danielpatrickdp/scriptloop/internal/script"
)

// #region rule-edits
// applyRuleEdits applies the directive's section improvements and proposed
// sections deterministically. Reports whether anything changed.
func (im *Improver) applyRuleEdits(sc *script.Script, d feedback.Directive) bool {
	changed := im.applySectionImprovements(sc, d)
	if im.addProposedSections(sc, d) {
		changed = true
	}
	return changed
}

// applySectionImprovements edits existing sections in place. Unknown section
// ids are skipped. Free-text guidance appends an improvement note to the
// description and rewrites content through a transform keyed on the section
// and the metric that flagged it; structured patches replace content outright.
func (im *Improver) applySectionImprovements(sc *script.Script, d feedback.Directive) bool {
	changed := false
	for id, imp := range d.SectionImprovements {
		sec := sc.Section(id)
		if sec == nil {
			continue
		}
		im.log.WithFields(logrus.Fields{"section": sec.Name, "section_id": id}).Info("improving section")
		changed = true

		if imp.Structured() {
			sec.Content = imp.Content
			if imp.Description != "" {
				sec.Description = imp.Description
			}
			continue
		}

		sec.Description = fmt.Sprintf("%s\nImproved: %s", sec.Description, imp.Text)

		switch {
		case id == "payment_discussion" && d.Metrics.RepetitionRate > feedback.RepetitionHigh:
			sec.Content = reduceRepetition(sec.Content)
		case id == "payment_plan" && d.Metrics.NegotiationEffectiveness < feedback.NegotiationLow:
			sec.Content = enhanceNegotiation(sec.Content)
		case id == "confirmation" && d.Metrics.ResolutionRate < feedback.ResolutionLow:
			sec.Content = strengthenClosing(sec.Content)
		case id == "introduction" && d.Metrics.ComplianceScore < feedback.ComplianceLow:
			sec.Content = improveCompliance(sec.Content)
		default:
			sec.Content = fmt.Sprintf("%s\n\n[Note: %s]", sec.Content, imp.Text)
		}
	}
	return changed
}

// addProposedSections materializes new sections from the directive and wires
// them into the flow. Section ids derive from the name; a collision gets a
// numeric suffix so an existing section is never clobbered.
func (im *Improver) addProposedSections(sc *script.Script, d feedback.Directive) bool {
	changed := false
	for _, ps := range d.AdditionalSections {
		if ps.Name == "" || ps.Content == "" {
			continue
		}

		id := strings.ToLower(strings.ReplaceAll(ps.Name, " ", "_"))
		if sc.Section(id) != nil {
			id = fmt.Sprintf("%s_%d", id, len(sc.Sections))
		}

		desc := ps.Description
		if desc == "" {
			desc = "Added based on performance feedback"
		}
		next := ps.NextSections
		if len(next) == 0 {
			next = []string{"confirmation"}
		}

		sc.AddSection(&script.Section{
			ID:          id,
			Name:        ps.Name,
			Description: desc,
			Content:     ps.Content,
			Next:        next,
		})
		changed = true

		switch {
		case strings.Contains(id, "objection"):
			sc.AddEdge("payment_discussion", id)
			sc.AddEdge("hardship_options", id)
		case strings.Contains(id, "payment"), strings.Contains(id, "option"):
			sc.AddEdge("payment_discussion", id)
		}

		im.log.WithFields(logrus.Fields{"section": ps.Name, "section_id": id}).Info("added new section")
	}
	return changed
}

// #endregion rule-edits
