package replay

import (
	"context"

	"github.com/danielpatrickdp/scriptloop/internal/feedback"
	"github.com/danielpatrickdp/scriptloop/internal/improver"
	"github.com/danielpatrickdp/scriptloop/internal/loop"
	"github.com/danielpatrickdp/scriptloop/internal/metrics"
	"github.com/danielpatrickdp/scriptloop/internal/script"
)

// #region types
// CycleResult captures the outcome of replaying one recorded batch through
// the evaluate-gate-synthesize-improve pipeline.
type CycleResult struct {
	Label    string
	Action   string // "improved" | "stopped"
	Reason   string
	Report   metrics.Report
	Version  string // script version after this cycle
	Feedback string // general feedback from the directive, empty when stopped
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalCycles  int
	Improvements int
	Stopped      bool
	FinalVersion string
	FinalReport  metrics.Report
}

// #endregion types

// #region replay
// Replay runs recorded conversation batches through the full pipeline
// without a live capability: evaluate, gate, synthesize, improve. Mirrors
// the loop's semantics, so a satisfied gate ends the run early. Operates
// entirely in-memory; only a malformed script version fails it.
func Replay(ctx context.Context, start *script.Script, cycles []FixtureCycle, synth feedback.Synthesizer, imp *improver.Improver, gate loop.Gate) ([]CycleResult, error) {
	current := start
	results := make([]CycleResult, 0, len(cycles))

	for _, cycle := range cycles {
		report := metrics.Evaluate(cycle.Conversations)

		decision := gate.Decide(report)
		if decision.Stop {
			results = append(results, CycleResult{
				Label:   cycle.Label,
				Action:  "stopped",
				Reason:  decision.Reason,
				Report:  report,
				Version: current.Version,
			})
			break
		}

		directive := synth.Synthesize(ctx, cycle.Conversations, report)
		improved, err := imp.Improve(ctx, current, directive)
		if err != nil {
			return results, err
		}
		current = improved

		results = append(results, CycleResult{
			Label:    cycle.Label,
			Action:   "improved",
			Reason:   decision.Reason,
			Report:   report,
			Version:  current.Version,
			Feedback: directive.GeneralFeedback,
		})
	}

	return results, nil
}

// Summarize computes aggregate stats from replay results.
func Summarize(results []CycleResult, final metrics.Report) Summary {
	s := Summary{
		TotalCycles: len(results),
		FinalReport: final,
	}
	for _, r := range results {
		switch r.Action {
		case "improved":
			s.Improvements++
		case "stopped":
			s.Stopped = true
		}
		s.FinalVersion = r.Version
	}
	return s
}

// #endregion replay
