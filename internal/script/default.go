package script

// #region default
// Default returns the base debt collection script, version 1.0. Placeholder
// tokens like [Amount] are filled in at simulation time.
func Default() *Script {
	s := New(
		"base_debt_collection_script",
		"1.0",
		`This script provides a framework for debt collection calls. The goal is to establish a
repayment plan while being respectful and understanding of the customer's situation.
Adapt your approach based on the customer's responses and circumstances.`,
	)

	s.AddSection(&Section{
		ID:          "introduction",
		Name:        "Introduction",
		Description: "Begin the call by identifying yourself and the company",
		Content: `Hello, my name is [Agent Name] calling from [Company Name].
Am I speaking with [Customer Name]?

I'm calling regarding your loan account ending in [Last 4 Digits], which is currently past due.

Before we continue, I need to inform you that this call may be recorded for quality assurance purposes.`,
		Next: []string{"verification"},
	})

	s.AddSection(&Section{
		ID:          "verification",
		Name:        "Identity Verification",
		Description: "Verify the customer's identity for security and compliance",
		Content: `For security purposes, could you please confirm your date of birth and the last 4 digits of your SSN?

Thank you for verifying your information.`,
		Next: []string{"situation_assessment"},
	})

	s.AddSection(&Section{
		ID:          "situation_assessment",
		Name:        "Situation Assessment",
		Description: "Understand why the customer has fallen behind on payments",
		Content: `I see that your account is [X] months past due with a total outstanding balance of $[Amount].

I understand that financial difficulties can happen to anyone. Could you help me understand what has prevented you from making your payments?

[Listen carefully to the customer's explanation]`,
		Next: []string{"payment_discussion", "hardship_options"},
	})

	s.AddSection(&Section{
		ID:          "payment_discussion",
		Name:        "Payment Discussion",
		Description: "Discuss payment options and negotiate a repayment plan",
		Content: `Thank you for explaining your situation. We have several options to help you get back on track.

The full outstanding amount is $[Amount]. Would you be able to make a payment today?

[If customer can make a payment]
That's great. How much would you be able to pay today?

[If customer cannot make a payment]
I understand. Let's discuss a payment plan that might work better for your current situation.`,
		Next: []string{"payment_plan", "hardship_options"},
	})

	s.AddSection(&Section{
		ID:          "payment_plan",
		Name:        "Payment Plan Setup",
		Description: "Establish a formal payment plan based on customer's ability to pay",
		Content: `Based on what you've shared, I'd like to suggest a payment plan:

Option 1: [Payment plan details]
Option 2: [Alternative payment plan details]

Which option would work better for you?

[Discuss and adjust based on customer feedback]

Once we have agreed on a plan, I'll send a confirmation email with all the details.`,
		Next: []string{"confirmation"},
	})

	s.AddSection(&Section{
		ID:          "hardship_options",
		Name:        "Hardship Options",
		Description: "Present options for customers experiencing significant financial hardship",
		Content: `I understand you're going through a difficult time. We have special hardship programs that might help in your situation:

1. Temporary reduced payment plan
2. Interest rate reduction
3. Payment deferral for [X] months

Would any of these options help your current situation?`,
		Next: []string{"payment_plan", "escalation"},
	})

	s.AddSection(&Section{
		ID:          "escalation",
		Name:        "Escalation Process",
		Description: "Process for when standard options don't meet customer needs",
		Content: `I understand our standard options may not work for your situation. I'd like to connect you with our financial hardship specialist who has additional tools to assist you.

Would it be okay if I transfer you, or would you prefer they call you back at a more convenient time?`,
		Next: []string{"confirmation"},
	})

	s.AddSection(&Section{
		ID:          "confirmation",
		Name:        "Confirmation and Next Steps",
		Description: "Confirm the agreement and explain next steps",
		Content: `Let me confirm what we've agreed to today:

[Summarize the agreement]

You'll receive a confirmation email within 24 hours with these details.

Is there anything else I can help you with today?`,
		Next: []string{"closing"},
	})

	s.AddSection(&Section{
		ID:          "closing",
		Name:        "Closing",
		Description: "End the call professionally",
		Content: `Thank you for your time today, [Customer Name]. We appreciate your commitment to resolving this matter.

If you have any questions or need to make changes to your plan, please don't hesitate to call us at [Phone Number] or email us at [Email].

Have a good day.`,
		Next: []string{},
	})

	return s
}

// #endregion default
