package script

import (
	"fmt"
	"strings"
)

// #region guidelines
const guidelines = `IMPORTANT RULES:
- Be respectful and professional at all times
- Do not make threats or use aggressive language
- Listen to the borrower's concerns
- Try to find a mutually acceptable payment plan
- Document any agreements made during the call
- Follow legal compliance guidelines for debt collection`

// #endregion guidelines

// #region to-prompt
// ToPrompt renders the whole script into a single system-prompt block:
// global guidance, then each section's name and content in insertion order,
// then the fixed behavioral guidelines. Deterministic for a given script value.
func (s *Script) ToPrompt() string {
	var b strings.Builder

	b.WriteString("You are a debt collection agent working to collect a past-due loan.\n")
	b.WriteString("Your job is to negotiate with the borrower to establish a repayment plan.\n\n")
	b.WriteString("SCRIPT GUIDELINES:\n")
	b.WriteString(strings.TrimSpace(s.Description))
	b.WriteString("\n\nSCRIPT SECTIONS:\n")

	for _, sec := range s.InOrder() {
		fmt.Fprintf(&b, "\n--- %s ---\n%s\n", sec.Name, strings.TrimSpace(sec.Content))
	}

	b.WriteString("\n")
	b.WriteString(guidelines)
	b.WriteString("\n")

	return b.String()
}

// #endregion to-prompt
