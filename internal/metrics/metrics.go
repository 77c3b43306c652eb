package metrics

import (
	"github.com/danielpatrickdp/scriptloop/internal/conversation"
)

// #region report
// Report is the batch-averaged set of quality signals for a set of
// conversations. All fields except AverageTurnCount are bounded to [0, 1].
// RepetitionRate is lower-is-better; the rest are higher-is-better.
type Report struct {
	RepetitionRate           float64 `json:"repetition_rate"`
	NegotiationEffectiveness float64 `json:"negotiation_effectiveness"`
	AverageTurnCount         float64 `json:"average_turn_count"`
	ResolutionRate           float64 `json:"resolution_rate"`
	ComplianceScore          float64 `json:"compliance_score"`
}

// #endregion report

// #region evaluate
// Evaluate computes the arithmetic mean of each per-conversation score
// across the batch. An empty batch yields the zero Report, not an error.
//
// Every score is a pure function of literal phrase patterns so that any
// value can be explained by exactly which patterns fired; the rule-based
// improvement path keys specific edits off specific thresholds.
func Evaluate(batch []*conversation.Conversation) Report {
	if len(batch) == 0 {
		return Report{}
	}

	var r Report
	for _, c := range batch {
		r.RepetitionRate += repetitionRate(c)
		r.NegotiationEffectiveness += negotiationEffectiveness(c)
		r.AverageTurnCount += float64(len(c.Messages) / 2) // agent+customer pair = one turn
		r.ResolutionRate += resolutionScore(c)
		r.ComplianceScore += complianceScore(c)
	}

	n := float64(len(batch))
	r.RepetitionRate /= n
	r.NegotiationEffectiveness /= n
	r.AverageTurnCount /= n
	r.ResolutionRate /= n
	r.ComplianceScore /= n
	return r
}

// #endregion evaluate
