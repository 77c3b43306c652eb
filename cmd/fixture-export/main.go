package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/scriptloop/internal/config"
	"github.com/danielpatrickdp/scriptloop/internal/conversation"
	"github.com/danielpatrickdp/scriptloop/internal/llm"
	"github.com/danielpatrickdp/scriptloop/internal/persona"
	"github.com/danielpatrickdp/scriptloop/internal/replay"
	"github.com/danielpatrickdp/scriptloop/internal/script"
	"github.com/danielpatrickdp/scriptloop/internal/simulate"
)

// #region main

// fixture-export records a simulated conversation batch as a replay fixture,
// so pipeline changes can be evaluated offline against the same transcripts.
func main() {
	out := flag.String("out", "fixture.json", "output fixture path")
	count := flag.Int("count", 3, "personas to simulate")
	maxTurns := flag.Int("max-turns", 10, "turn cap per conversation")
	label := flag.String("label", "recorded", "cycle label")
	flag.Parse()

	cfg := config.Load()
	log := logrus.New()

	var client llm.Client
	if cfg.GenerationEnabled() {
		c, err := llm.NewOpenAIClient(llm.Config{
			BaseURL: cfg.OpenAIBaseURL,
			Model:   cfg.Model,
			APIKey:  cfg.OpenAIKey,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "generation client: %v\n", err)
			os.Exit(1)
		}
		client = c
	} else {
		log.Warn("no OPENAI_API_KEY set, exporting canned conversations")
	}

	personas, err := loadPersonas(client, *count, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "personas: %v\n", err)
		os.Exit(1)
	}

	sc := script.Default()
	sim := simulate.New(client, log)

	convs := make([]*conversation.Conversation, 0, len(personas))
	for _, p := range personas {
		conv := sim.Run(context.Background(), sc, p, simulate.Options{MaxTurns: *maxTurns})
		convs = append(convs, conv)
		log.WithFields(logrus.Fields{"persona": p.Name, "messages": len(conv.Messages)}).Info("recorded conversation")
	}

	scriptDoc, err := json.Marshal(sc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal script: %v\n", err)
		os.Exit(1)
	}

	fixture := replay.Fixture{
		Description: fmt.Sprintf("recorded batch of %d conversations against %s v%s", len(convs), sc.ID, sc.Version),
		Script:      scriptDoc,
		Cycles: []replay.FixtureCycle{
			{Label: *label, Conversations: convs},
		},
	}

	f, err := os.Create(*out)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create %s: %v\n", *out, err)
		os.Exit(1)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fixture); err != nil {
		fmt.Fprintf(os.Stderr, "write fixture: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("wrote %s (%d conversations)\n", *out, len(convs))
}

// #endregion main

// #region personas

// loadPersonas generates personas when a client is available, otherwise
// falls back to a fixed local set so canned exports still work.
func loadPersonas(client llm.Client, count int, log *logrus.Logger) ([]*persona.Persona, error) {
	if client != nil {
		return persona.NewGenerator(client, log).Generate(context.Background(), count)
	}

	out := make([]*persona.Persona, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, &persona.Persona{
			ID:           fmt.Sprintf("persona_%d", i+1),
			Name:         fmt.Sprintf("Canned Debtor %d", i+1),
			Age:          40,
			Occupation:   "placeholder",
			DebtAmount:   5000,
			MonthsBehind: 3,
		})
	}
	return out, nil
}

// #endregion personas
