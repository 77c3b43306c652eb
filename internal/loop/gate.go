package loop

import (
	"fmt"

	"github.com/danielpatrickdp/scriptloop/internal/metrics"
)

// #region decision
// Decision is the gate's verdict on one evaluation batch.
type Decision struct {
	Stop   bool
	Reason string
}

// #endregion decision

// #region gate
// Gate stops the loop once the script performs well enough. Both targets
// must hold at once.
type Gate struct {
	RepetitionMax  float64 // stop requires repetition <= this
	NegotiationMin float64 // stop requires negotiation >= this
}

// DefaultGate uses the stock targets.
func DefaultGate() Gate {
	return Gate{RepetitionMax: 0.2, NegotiationMin: 0.7}
}

// Decide checks the report against the targets.
func (g Gate) Decide(r metrics.Report) Decision {
	if r.RepetitionRate <= g.RepetitionMax && r.NegotiationEffectiveness >= g.NegotiationMin {
		return Decision{
			Stop: true,
			Reason: fmt.Sprintf("targets met: repetition %.2f <= %.2f, negotiation %.2f >= %.2f",
				r.RepetitionRate, g.RepetitionMax, r.NegotiationEffectiveness, g.NegotiationMin),
		}
	}
	if r.RepetitionRate > g.RepetitionMax {
		return Decision{Reason: fmt.Sprintf("repetition %.2f above target %.2f", r.RepetitionRate, g.RepetitionMax)}
	}
	return Decision{Reason: fmt.Sprintf("negotiation %.2f below target %.2f", r.NegotiationEffectiveness, g.NegotiationMin)}
}

// #endregion gate
