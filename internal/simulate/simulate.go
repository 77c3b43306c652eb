package simulate

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/danielpatrickdp/scriptloop/internal/conversation"
	"github.com/danielpatrickdp/scriptloop/internal/llm"
	"github.com/danielpatrickdp/scriptloop/internal/persona"
	"github.com/danielpatrickdp/scriptloop/internal/script"
)

// #region options
// DefaultMaxTurns bounds a simulated call when the caller does not say.
const DefaultMaxTurns = 10

// Options tunes one simulation run.
type Options struct {
	MaxTurns int
	// OnMessage, when set, observes every message as it is produced.
	OnMessage func(role conversation.Role, content string)
}

func (o Options) maxTurns() int {
	if o.MaxTurns <= 0 {
		return DefaultMaxTurns
	}
	return o.MaxTurns
}

// #endregion options

// #region simulator
// Simulator plays a scripted agent against a debtor persona, both sides
// driven by the generation capability. A simulation never fails: capability
// trouble mid-call degrades the transcript rather than aborting it, and with
// no client configured a canned two-message exchange is returned so the rest
// of the pipeline stays exercisable.
type Simulator struct {
	client llm.Client
	log    *logrus.Logger
}

// New wires a simulator. The client may be nil.
func New(client llm.Client, log *logrus.Logger) *Simulator {
	return &Simulator{client: client, log: log}
}

// Run simulates one call and returns the finished conversation.
func (s *Simulator) Run(ctx context.Context, sc *script.Script, p *persona.Persona, opts Options) *conversation.Conversation {
	conv := conversation.New(sc.Version, p.ID, p.Name)

	if s.client == nil {
		s.log.Warn("no generation capability configured, returning canned conversation")
		s.say(conv, conversation.RoleAgent, "Hello, this is a debt collection agent.", opts)
		s.say(conv, conversation.RoleCustomer, "I can't pay right now.", opts)
		conv.Finish()
		return conv
	}

	s.say(conv, conversation.RoleAgent, openingMessage(sc, p), opts)

	maxTurns := opts.maxTurns()
	for turn := 0; turn < maxTurns; turn++ {
		customerLine, err := s.customerTurn(ctx, p, conv)
		if err != nil {
			s.abort(conv, err, opts)
			return conv
		}
		s.say(conv, conversation.RoleCustomer, customerLine, opts)
		if shouldEnd(customerLine, turn, maxTurns) {
			break
		}

		agentLine, err := s.agentTurn(ctx, sc, p, conv)
		if err != nil {
			s.abort(conv, err, opts)
			return conv
		}
		s.say(conv, conversation.RoleAgent, agentLine, opts)
		if shouldEnd(agentLine, turn, maxTurns) {
			break
		}
	}

	conv.Finish()
	return conv
}

func (s *Simulator) say(conv *conversation.Conversation, role conversation.Role, content string, opts Options) {
	conv.Add(role, content)
	if opts.OnMessage != nil {
		opts.OnMessage(role, content)
	}
}

// abort records why the call was cut short and finishes the conversation.
func (s *Simulator) abort(conv *conversation.Conversation, err error, opts Options) {
	s.log.WithError(err).Error("simulation aborted mid-call")
	s.say(conv, conversation.RoleSystem, fmt.Sprintf("Simulation error: %v", err), opts)
	conv.Finish()
}

// #endregion simulator

// #region opening
// openingMessage renders the script's starting section with persona data
// substituted for the placeholder tokens.
func openingMessage(sc *script.Script, p *persona.Persona) string {
	start := sc.StartingSection()
	if start == nil {
		return fmt.Sprintf("Hello %s, this is regarding your past-due account of $%.2f.", p.Name, p.DebtAmount)
	}
	r := strings.NewReplacer(
		"[Agent Name]", "AI Agent",
		"[Customer Name]", p.Name,
		"[Last 4 Digits]", "1234",
		"[Amount]", fmt.Sprintf("%.2f", p.DebtAmount),
		"[X]", fmt.Sprintf("%d", p.MonthsBehind),
	)
	return r.Replace(start.Content)
}

// #endregion opening

// #region turns
func (s *Simulator) customerTurn(ctx context.Context, p *persona.Persona, conv *conversation.Conversation) (string, error) {
	system := fmt.Sprintf(`You are roleplaying as a customer with debt who is being contacted by a debt collection agent.

Customer Profile:
- Name: %s
- Age: %d
- Occupation: %s
- Debt Amount: $%.2f
- Months Behind: %d
- Reasons for Default: %s
- Communication Style: %s
- Willingness to Pay: %.0f%%

Stay in character as this customer. Respond naturally based on your financial situation, personality, and willingness to pay. Be realistic about your objections and concerns. Do not reveal internal details about your willingness to pay percentage - let this influence your responses naturally.`,
		p.Name, p.Age, p.Occupation, p.DebtAmount, p.MonthsBehind,
		strings.Join(p.ReasonsForDefault, ", "), p.CommunicationStyle,
		p.WillingnessToPay*100)

	// From the customer's side, agent lines are the user turns.
	history := historyAs(conv, conversation.RoleCustomer)
	line, err := s.client.Chat(ctx, system, history, 0.8, 150)
	if err != nil {
		return "", fmt.Errorf("customer turn: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func (s *Simulator) agentTurn(ctx context.Context, sc *script.Script, p *persona.Persona, conv *conversation.Conversation) (string, error) {
	system := fmt.Sprintf(`You are a professional debt collection agent following a script. Your goal is to collect payment while maintaining compliance and professionalism.

Agent Script: %s

Customer Information (for context only - do not reveal directly):
- Debt Amount: $%.2f
- Months Behind: %d

Follow your script sections appropriately based on the customer's responses. Be professional, empathetic, and focused on finding a resolution. Adapt your script to the conversation flow while staying compliant with debt collection regulations.`,
		sc.ToPrompt(), p.DebtAmount, p.MonthsBehind)

	history := historyAs(conv, conversation.RoleAgent)
	line, err := s.client.Chat(ctx, system, history, 0.7, 200)
	if err != nil {
		return "", fmt.Errorf("agent turn: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// historyAs maps the transcript into chat turns from one speaker's point of
// view: their own lines become assistant turns, the counterpart's become
// user turns. System messages are omitted.
func historyAs(conv *conversation.Conversation, self conversation.Role) []llm.Turn {
	var turns []llm.Turn
	for _, m := range conv.Messages {
		switch m.Role {
		case self:
			turns = append(turns, llm.Turn{Role: llm.TurnAssistant, Content: m.Content})
		case conversation.RoleSystem:
			// skip
		default:
			turns = append(turns, llm.Turn{Role: llm.TurnUser, Content: m.Content})
		}
	}
	return turns
}

// #endregion turns

// #region end-detection
// endPhrases terminate a call when either side utters one: dismissals,
// escalation threats, and successful closes alike.
var endPhrases = []string{
	"goodbye", "bye", "talk later", "call back", "hang up",
	"not interested", "stop calling", "remove me", "don't call",
	"attorney", "lawyer", "legal", "harassment",
	"agreed", "deal", "payment arrangement", "will pay",
}

func shouldEnd(message string, turn, maxTurns int) bool {
	lower := strings.ToLower(message)
	for _, phrase := range endPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return turn >= maxTurns-1
}

// #endregion end-detection
