package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/scriptloop/internal/feedback"
	"github.com/danielpatrickdp/scriptloop/internal/improver"
	"github.com/danielpatrickdp/scriptloop/internal/loop"
	"github.com/danielpatrickdp/scriptloop/internal/metrics"
	"github.com/danielpatrickdp/scriptloop/internal/replay"
)

// #region main

func main() {
	fixturePath := flag.String("fixture", "", "path to replay fixture JSON")
	repetitionMax := flag.Float64("repetition-max", 0.2, "gate target: maximum repetition rate")
	negotiationMin := flag.Float64("negotiation-min", 0.7, "gate target: minimum negotiation effectiveness")
	jsonOut := flag.Bool("json", false, "output as JSON instead of text")
	flag.Parse()

	if *fixturePath == "" {
		fmt.Fprintln(os.Stderr, "usage: replay --fixture path/to/fixture.json [--repetition-max X] [--negotiation-min Y] [--json]")
		os.Exit(2)
	}

	log := logrus.New()
	log.SetOutput(io.Discard)

	fixture, err := replay.LoadFixture(*fixturePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	start, err := fixture.StartScript()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	gate := loop.Gate{RepetitionMax: *repetitionMax, NegotiationMin: *negotiationMin}
	results, err := replay.Replay(context.Background(), start, fixture.Cycles,
		feedback.RuleSynthesizer{}, improver.New(nil, nil, log), gate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var finalReport metrics.Report
	if len(results) > 0 {
		finalReport = results[len(results)-1].Report
	}
	summary := replay.Summarize(results, finalReport)

	if *jsonOut {
		out := struct {
			Description string               `json:"description"`
			Results     []replay.CycleResult `json:"results"`
			Summary     replay.Summary       `json:"summary"`
		}{fixture.Description, results, summary}
		if err := json.NewEncoder(os.Stdout).Encode(out); err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	printText(fixture.Description, results, summary)
}

// #endregion main

// #region text-output

func printText(description string, results []replay.CycleResult, summary replay.Summary) {
	if description != "" {
		fmt.Println(description)
		fmt.Println()
	}

	for _, r := range results {
		fmt.Printf("[%s] %s -> v%s\n", r.Label, r.Action, r.Version)
		fmt.Printf("  repetition=%.2f negotiation=%.2f resolution=%.2f compliance=%.2f turns=%.1f\n",
			r.Report.RepetitionRate, r.Report.NegotiationEffectiveness,
			r.Report.ResolutionRate, r.Report.ComplianceScore, r.Report.AverageTurnCount)
		fmt.Printf("  %s\n", r.Reason)
		if r.Feedback != "" {
			fmt.Printf("  feedback: %s\n", r.Feedback)
		}
	}

	fmt.Println()
	fmt.Printf("cycles=%d improvements=%d stopped=%v final=v%s\n",
		summary.TotalCycles, summary.Improvements, summary.Stopped, summary.FinalVersion)
}

// #endregion text-output
