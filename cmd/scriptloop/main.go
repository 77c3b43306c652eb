package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/scriptloop/internal/config"
	"github.com/danielpatrickdp/scriptloop/internal/feedback"
	"github.com/danielpatrickdp/scriptloop/internal/improver"
	"github.com/danielpatrickdp/scriptloop/internal/llm"
	"github.com/danielpatrickdp/scriptloop/internal/loop"
	"github.com/danielpatrickdp/scriptloop/internal/metrics"
	"github.com/danielpatrickdp/scriptloop/internal/persona"
	"github.com/danielpatrickdp/scriptloop/internal/server"
	"github.com/danielpatrickdp/scriptloop/internal/simulate"
	"github.com/danielpatrickdp/scriptloop/internal/store"
	"github.com/danielpatrickdp/scriptloop/internal/telemetry"
)

// #region main
func main() {
	cfg := config.Load()
	log := newLogger(cfg.LogLevel)

	st, err := store.Open(cfg.DBPath, log)
	if err != nil {
		log.WithError(err).Fatal("open store")
	}
	defer st.Close()

	// Resume from the active version when one exists, otherwise seed from
	// the base script.
	sc, err := st.GetActive()
	if err != nil {
		sc = st.LoadBase(cfg.BaseScriptPath)
		if err := st.SaveVersion(sc); err != nil {
			log.WithError(err).Fatal("seed base script")
		}
	}
	log.WithFields(logrus.Fields{"script_id": sc.ID, "version": sc.Version}).Info("starting script")

	var client llm.Client
	if cfg.GenerationEnabled() {
		c, err := llm.NewOpenAIClient(llm.Config{
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.Model,
			APIKey:  cfg.OpenAIKey,
		})
		if err != nil {
			log.WithError(err).Fatal("generation client")
		}
		client = c
	} else {
		log.Fatal("OPENAI_API_KEY is required: persona generation has no offline fallback")
	}

	tel := telemetry.New()
	state := server.NewState()

	srv := server.NewHTTPServer(cfg.Port, st, state, log)
	go func() {
		log.WithField("port", cfg.Port).Info("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("HTTP server")
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	imp := improver.New(client, st, log)
	imp.Observer = tel

	runner := &loop.Runner{
		Personas:    persona.NewGenerator(client, log),
		Simulator:   simulate.New(client, log),
		Synthesizer: feedback.NewSynthesizer(client, log),
		Improver:    imp,
		Gate: loop.Gate{
			RepetitionMax:  cfg.RepetitionThreshold,
			NegotiationMin: cfg.NegotiationThreshold,
		},
		Telemetry:     tel,
		Log:           log,
		PersonaCount:  cfg.PersonaCount,
		MaxTurns:      cfg.MaxTurns,
		MaxIterations: cfg.MaxIterations,
		OnIteration: func(iteration int, version string, report metrics.Report) {
			state.Update(iteration, version, report)
		},
	}

	result, err := runner.Run(ctx, sc)
	if err != nil {
		state.Finish(fmt.Sprintf("aborted: %v", err))
		log.WithError(err).Fatal("improvement loop")
	}
	state.Finish(result.StopReason)

	fmt.Println("Improvement loop finished.")
	fmt.Printf("  iterations:  %d\n", result.Iterations)
	fmt.Printf("  final score: repetition=%.2f negotiation=%.2f resolution=%.2f compliance=%.2f\n",
		result.FinalReport.RepetitionRate,
		result.FinalReport.NegotiationEffectiveness,
		result.FinalReport.ResolutionRate,
		result.FinalReport.ComplianceScore)
	fmt.Printf("  final script: %s v%s\n", result.FinalScript.ID, result.FinalScript.Version)
	fmt.Printf("  stop reason:  %s\n", result.StopReason)

	_ = srv.Shutdown(context.Background())
}

// #endregion main

// #region helpers
func newLogger(level string) *logrus.Logger {
	log := logrus.New()
	if lvl, err := logrus.ParseLevel(level); err == nil {
		log.SetLevel(lvl)
	}
	return log
}

// #endregion helpers
