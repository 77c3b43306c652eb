package persona

import (
	"fmt"
	"strings"
)

// #region persona
// Persona is a simulated loan defaulter used to exercise the script against
// varied customer behavior.
type Persona struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Age                int      `json:"age"`
	Occupation         string   `json:"occupation"`
	Income             float64  `json:"income"`
	DebtAmount         float64  `json:"debt_amount"`
	MonthsBehind       int      `json:"months_behind"`
	ReasonsForDefault  []string `json:"reasons_for_default"`
	CommunicationStyle string   `json:"communication_style"`
	NegotiationStyle   string   `json:"negotiation_style"`
	Objections         []string `json:"objections"`
	FinancialSituation string   `json:"financial_situation"`
	WillingnessToPay   float64  `json:"willingness_to_pay"` // 0.0-1.0
}

// ToPrompt renders the persona as a role-play system prompt for the
// simulated customer.
func (p *Persona) ToPrompt() string {
	return fmt.Sprintf(`You are role-playing as %s, a %d year old %s who is currently
%d months behind on a loan payment of $%.2f.

Your current financial situation: %s

Your reasons for defaulting on the loan include:
%s

When communicating with debt collectors:
- You have a %s communication style
- Your negotiation approach is %s
- Your willingness to pay is %d%%

Common objections you might raise:
%s

Respond as this character would to a debt collection call. Be authentic to this persona.`,
		p.Name, p.Age, p.Occupation,
		p.MonthsBehind, p.DebtAmount,
		p.FinancialSituation,
		strings.Join(p.ReasonsForDefault, ", "),
		p.CommunicationStyle,
		p.NegotiationStyle,
		int(p.WillingnessToPay*100),
		strings.Join(p.Objections, ", "))
}

// #endregion persona
