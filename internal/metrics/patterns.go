package metrics

import "regexp"

// Pattern families below are matched against lowercased text. Each family
// contributes a boolean "fired" signal, never a count, except the prohibited
// families where every fired pattern is penalized individually.

// #region sentence-extraction

var sentencePattern = regexp.MustCompile(`[^.!?]+[.!?]`)

// #endregion sentence-extraction

// #region negotiation-patterns

var optionsPatterns = compileAll(
	`(option|plan|alternative) [123]`,
	`(several|multiple|different) options`,
	`(could|can|might) (offer|provide|suggest)`,
)

var acknowledgmentPatterns = compileAll(
	`(understand|appreciate|recognize) (your|the) (concern|situation|difficulty)`,
	`(sorry|apologize) to hear`,
	`(must be|sounds) (difficult|challenging|tough)`,
	`thank you for (explaining|sharing)`,
)

var alternativePatterns = compileAll(
	`(another|different|alternative) (option|approach|plan)`,
	`(instead|alternatively)`,
	`(we could|we can|let's) (try|consider)`,
)

var benefitPatterns = compileAll(
	`(benefit|advantage|help) (you|your)`,
	`(this way|this will|this means)`,
	`(allow you to|enable you to|help you)`,
)

var closingPatterns = compileAll(
	`(do we have|have we reached) (an agreement|a deal)`,
	`(does that|is this) (work|acceptable|agreeable)`,
	`(shall we|should we) (proceed|move forward)`,
	`(confirm|agree to) (the|this) (plan|arrangement|payment)`,
)

// negotiationFamilies lists the 5 behavior families in scoring order.
var negotiationFamilies = [][]*regexp.Regexp{
	optionsPatterns,
	acknowledgmentPatterns,
	alternativePatterns,
	benefitPatterns,
	closingPatterns,
}

// #endregion negotiation-patterns

// #region resolution-patterns

var resolutionPatterns = compileAll(
	`(agree|agreed|accept|commitment) (to|on) (payment|plan)`,
	`(will|can) pay (.*) on (.*)`,
	`(schedule|set up) (the|a) payment`,
	`(thank you|appreciate) (for|your) (help|assistance|understanding)`,
	`(next|follow-up|confirmation) (steps|process|email)`,
)

var nonResolutionPatterns = compileAll(
	`(call back|contact you later|think about it)`,
	`(not|can't) (agree|accept|afford)`,
	`(need more|additional) (time|information)`,
	`(unhappy|dissatisfied) with`,
	`(disconnect|hang up)`,
)

// #endregion resolution-patterns

// #region compliance-patterns

var requiredCompliancePatterns = compileAll(
	`(my name is|this is) [a-z]+`,                        // agent identifies self
	`(calling from|with) [a-z ]+`,                        // company identification
	`(call|conversation) (may be|is being) recorded`,     // recording disclosure
	`(verify|confirm) (your|identity|information)`,       // identity verification
	`(regarding|about|concerning) (your|the) (loan|account|payment)`, // purpose statement
)

var prohibitedPatterns = compileAll(
	// threatening
	`(legal action|lawsuit|court|police|arrest)`,
	`(must|have to|required to) pay (immediately|now)`,
	`(consequences|penalties) (will|shall) (occur|happen|follow)`,
	// harassment
	`(fail|refuse|neglect) to pay`,
	`(irresponsible|negligent|delinquent)`,
	`(repeatedly|continuously|again and again)`,
	// false statements
	`(only|last|final) (chance|opportunity)`,
	`(guaranteed|promise) to (remove|clear|fix)`,
	`(immediately|instantly) (improve|increase|raise)`,
)

// #endregion compliance-patterns

// #region helpers

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(p)
	}
	return out
}

// anyMatch reports whether any pattern in the family matches text.
func anyMatch(patterns []*regexp.Regexp, text string) bool {
	for _, p := range patterns {
		if p.MatchString(text) {
			return true
		}
	}
	return false
}

// countMatched counts how many patterns in the family fire at least once.
func countMatched(patterns []*regexp.Regexp, text string) int {
	n := 0
	for _, p := range patterns {
		if p.MatchString(text) {
			n++
		}
	}
	return n
}

// #endregion helpers
