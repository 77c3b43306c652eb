package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"
)

// #region types
// TurnRole marks which side of a chat exchange authored a turn.
type TurnRole string

const (
	TurnUser      TurnRole = "user"
	TurnAssistant TurnRole = "assistant"
)

// Turn is one prior exchange handed to Chat as conversation history.
type Turn struct {
	Role    TurnRole
	Content string
}

// Client abstracts the text-generation capability so consumers can be
// tested without a live endpoint.
type Client interface {
	// GenerateStructured requests a completion constrained to a JSON object.
	GenerateStructured(ctx context.Context, system []string, user string, temperature float64) (json.RawMessage, error)
	// Chat requests a free-text completion over a role-tagged history.
	Chat(ctx context.Context, system string, history []Turn, temperature float64, maxTokens int) (string, error)
}

// Config holds connection settings for an OpenAI-compatible endpoint.
type Config struct {
	BaseURL string
	Model   string
	APIKey  string
}

// #endregion types

// #region client
// OpenAIClient talks to an OpenAI-compatible chat completion API via
// langchaingo. JSON response format is a client-level option there, so two
// inner models are held: one constrained to JSON objects, one free-text.
type OpenAIClient struct {
	jsonModel llms.Model
	textModel llms.Model
}

// NewOpenAIClient builds a client for the configured endpoint.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	opts := []openai.Option{
		openai.WithModel(cfg.Model),
		openai.WithToken(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	textModel, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("openai client: %w", err)
	}

	jsonOpts := append(append([]openai.Option{}, opts...),
		openai.WithResponseFormat(openai.ResponseFormatJSON))
	jsonModel, err := openai.New(jsonOpts...)
	if err != nil {
		return nil, fmt.Errorf("openai json client: %w", err)
	}

	return &OpenAIClient{jsonModel: jsonModel, textModel: textModel}, nil
}

// GenerateStructured sends the prompts in JSON mode and validates that the
// response body is a JSON document.
func (c *OpenAIClient) GenerateStructured(ctx context.Context, system []string, user string, temperature float64) (json.RawMessage, error) {
	msgs := make([]llms.MessageContent, 0, len(system)+1)
	for _, s := range system {
		msgs = append(msgs, llms.TextParts(schema.ChatMessageTypeSystem, s))
	}
	msgs = append(msgs, llms.TextParts(schema.ChatMessageTypeHuman, user))

	resp, err := c.jsonModel.GenerateContent(ctx, msgs, llms.WithTemperature(temperature))
	if err != nil {
		return nil, &GenerationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return nil, &GenerationError{Err: fmt.Errorf("empty completion")}
	}

	raw := json.RawMessage(resp.Choices[0].Content)
	if !json.Valid(raw) {
		return nil, &ParseError{Detail: "completion is not valid JSON"}
	}
	return raw, nil
}

// Chat sends a role-tagged history and returns the completion text.
func (c *OpenAIClient) Chat(ctx context.Context, system string, history []Turn, temperature float64, maxTokens int) (string, error) {
	msgs := make([]llms.MessageContent, 0, len(history)+1)
	msgs = append(msgs, llms.TextParts(schema.ChatMessageTypeSystem, system))
	for _, turn := range history {
		role := schema.ChatMessageTypeHuman
		if turn.Role == TurnAssistant {
			role = schema.ChatMessageTypeAI
		}
		msgs = append(msgs, llms.TextParts(role, turn.Content))
	}

	resp, err := c.textModel.GenerateContent(ctx, msgs,
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
	)
	if err != nil {
		return "", &GenerationError{Err: err}
	}
	if len(resp.Choices) == 0 {
		return "", &GenerationError{Err: fmt.Errorf("empty completion")}
	}
	return resp.Choices[0].Content, nil
}

// #endregion client

// #region decode
// Decode unmarshals a structured completion into out, wrapping shape
// mismatches as ParseError so fallback logic can classify them.
func Decode(raw json.RawMessage, out interface{}) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return &ParseError{Detail: "unexpected response shape", Err: err}
	}
	return nil
}

// #endregion decode
