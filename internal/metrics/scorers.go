package metrics

import (
	"strings"

	"github.com/danielpatrickdp/scriptloop/internal/conversation"
)

// #region repetition
// repetitionRate measures how often the agent repeats itself. Sentences of
// more than 5 words are extracted from agent messages in order; each one is
// compared against every previously seen significant sentence by word-set
// Jaccard similarity, counting at most one repetition per sentence.
// Returns 0 with one or fewer agent messages or no significant sentences.
func repetitionRate(c *conversation.Conversation) float64 {
	agentMessages := c.AgentMessages()
	if len(agentMessages) <= 1 {
		return 0.0
	}

	repetitions := 0
	var seen []string

	for _, msg := range agentMessages {
		for _, raw := range sentencePattern.FindAllString(msg, -1) {
			sentence := strings.TrimSpace(raw)
			if len(strings.Fields(sentence)) <= 5 {
				continue
			}
			for _, prior := range seen {
				if jaccard(sentence, prior) > 0.7 {
					repetitions++
					break // first match only, never double-count
				}
			}
			seen = append(seen, sentence)
		}
	}

	if len(seen) == 0 {
		return 0.0
	}
	rate := float64(repetitions) / float64(len(seen))
	if rate > 1.0 {
		rate = 1.0
	}
	return rate
}

// jaccard computes |intersection|/|union| over lowercased word sets.
func jaccard(a, b string) float64 {
	setA := wordSet(a)
	setB := wordSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func wordSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = struct{}{}
	}
	return set
}

// #endregion repetition

// #region negotiation
// negotiationEffectiveness checks for the presence of 5 negotiation
// behaviors across all agent messages: offering options, acknowledging
// difficulty, proposing alternatives, explaining benefit, and soliciting
// closing agreement. Score = behaviors present / 5.
//
// Short conversations (<3 agent or <2 customer messages) return the neutral
// 0.5: insufficient signal to judge, deliberately not scored as failure.
func negotiationEffectiveness(c *conversation.Conversation) float64 {
	agentMessages := c.AgentMessages()
	customerMessages := c.CustomerMessages()
	if len(agentMessages) < 3 || len(customerMessages) < 2 {
		return 0.5
	}

	behaviors := 0
	for _, family := range negotiationFamilies {
		for _, msg := range agentMessages {
			if anyMatch(family, strings.ToLower(msg)) {
				behaviors++
				break
			}
		}
	}
	return float64(behaviors) / 5.0
}

// #endregion negotiation

// #region resolution
// resolutionScore inspects the last 4 messages for resolution indicators
// (+1 per fired family pattern) and non-resolution indicators (−1 each),
// normalizing the −3..+3 point range to [0, 1]. Conversations shorter than
// 4 messages are too short to have a resolution and score 0.
func resolutionScore(c *conversation.Conversation) float64 {
	if len(c.Messages) < 4 {
		return 0.0
	}

	last := c.Messages[len(c.Messages)-4:]
	parts := make([]string, len(last))
	for i, m := range last {
		parts[i] = strings.ToLower(m.Content)
	}
	text := strings.Join(parts, " ")

	points := countMatched(resolutionPatterns, text) - countMatched(nonResolutionPatterns, text)

	score := (float64(points) + 3.0) / 6.0
	if score < 0.0 {
		score = 0.0
	}
	if score > 1.0 {
		score = 1.0
	}
	return score
}

// #endregion resolution

// #region compliance
// complianceScore checks all agent text for the 5 required compliance
// elements (base = present/5) and penalizes 0.2 per prohibited-language
// pattern fired, floored at 0. Zero agent messages score 0.
func complianceScore(c *conversation.Conversation) float64 {
	agentMessages := c.AgentMessages()
	if len(agentMessages) == 0 {
		return 0.0
	}

	text := strings.ToLower(strings.Join(agentMessages, " "))

	base := float64(countMatched(requiredCompliancePatterns, text)) / float64(len(requiredCompliancePatterns))
	penalty := 0.2 * float64(countMatched(prohibitedPatterns, text))

	score := base - penalty
	if score < 0.0 {
		score = 0.0
	}
	return score
}

// #endregion compliance
