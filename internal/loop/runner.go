package loop

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/scriptloop/internal/conversation"
	"github.com/danielpatrickdp/scriptloop/internal/feedback"
	"github.com/danielpatrickdp/scriptloop/internal/improver"
	"github.com/danielpatrickdp/scriptloop/internal/metrics"
	"github.com/danielpatrickdp/scriptloop/internal/persona"
	"github.com/danielpatrickdp/scriptloop/internal/script"
	"github.com/danielpatrickdp/scriptloop/internal/simulate"
	"github.com/danielpatrickdp/scriptloop/internal/telemetry"
)

// #region wiring
// PersonaSource produces a batch of debtor personas for one iteration.
type PersonaSource interface {
	Generate(ctx context.Context, count int) ([]*persona.Persona, error)
}

// Runner drives the improvement loop: simulate a batch of calls, score them,
// and rewrite the script, until the gate is satisfied or the iteration
// budget runs out. Iterations are strictly sequential; each one's script is
// the input to the next.
type Runner struct {
	Personas    PersonaSource
	Simulator   *simulate.Simulator
	Synthesizer feedback.Synthesizer
	Improver    *improver.Improver
	Gate        Gate
	Telemetry   *telemetry.Metrics
	Log         *logrus.Logger

	PersonaCount  int
	MaxTurns      int
	MaxIterations int

	// OnIteration, when set, observes each iteration's outcome.
	OnIteration func(iteration int, version string, report metrics.Report)

	// evaluate is swapped in tests.
	evaluate func([]*conversation.Conversation) metrics.Report
}

// Result summarizes a finished run.
type Result struct {
	FinalScript *script.Script
	Iterations  int
	FinalReport metrics.Report
	StopReason  string
}

// #endregion wiring

// #region run
// Run executes the loop starting from sc. Persona generation and version
// format failures abort the run; everything else degrades inside the
// iteration and the loop continues.
func (r *Runner) Run(ctx context.Context, sc *script.Script) (Result, error) {
	if r.evaluate == nil {
		r.evaluate = metrics.Evaluate
	}

	var result Result
	result.FinalScript = sc

	for i := 0; i < r.MaxIterations; i++ {
		started := time.Now()
		r.Log.WithFields(logrus.Fields{
			"iteration": i + 1,
			"version":   result.FinalScript.Version,
		}).Info("starting iteration")

		personas, err := r.Personas.Generate(ctx, r.PersonaCount)
		if err != nil {
			return result, fmt.Errorf("iteration %d: %w", i+1, err)
		}

		convs := make([]*conversation.Conversation, 0, len(personas))
		for _, p := range personas {
			conv := r.Simulator.Run(ctx, result.FinalScript, p, simulate.Options{MaxTurns: r.MaxTurns})
			convs = append(convs, conv)
		}

		report := r.evaluate(convs)
		result.FinalReport = report
		result.Iterations = i + 1
		r.Telemetry.ObserveReport(report)
		if r.Telemetry != nil {
			r.Telemetry.IterationsTotal.Inc()
		}

		if r.OnIteration != nil {
			r.OnIteration(i+1, result.FinalScript.Version, report)
		}

		r.Log.WithFields(logrus.Fields{
			"repetition_rate":           report.RepetitionRate,
			"negotiation_effectiveness": report.NegotiationEffectiveness,
			"resolution_rate":           report.ResolutionRate,
			"compliance_score":          report.ComplianceScore,
			"average_turn_count":        report.AverageTurnCount,
		}).Info("batch evaluated")

		decision := r.Gate.Decide(report)
		if decision.Stop {
			result.StopReason = decision.Reason
			r.Log.WithField("reason", decision.Reason).Info("gate satisfied, stopping")
			r.observeDuration(started)
			return result, nil
		}
		r.Log.WithField("reason", decision.Reason).Info("gate not satisfied, improving")

		directive := r.Synthesizer.Synthesize(ctx, convs, report)
		improved, err := r.Improver.Improve(ctx, result.FinalScript, directive)
		if err != nil {
			return result, fmt.Errorf("iteration %d: %w", i+1, err)
		}
		result.FinalScript = improved
		r.observeDuration(started)
	}

	result.StopReason = fmt.Sprintf("iteration budget of %d exhausted", r.MaxIterations)
	return result, nil
}

func (r *Runner) observeDuration(started time.Time) {
	if r.Telemetry != nil {
		r.Telemetry.IterationDuration.Observe(time.Since(started).Seconds())
	}
}

// #endregion run
