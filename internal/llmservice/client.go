package llmservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"prodesk-chatbot/internal/config"
	"prodesk-chatbot/internal/models"
)

// ErrUpstreamUnavailable reports a failed, timed out, or non-success
// generation call. The orchestrator answers from the fallback responder
// in that case; the error never reaches the end user.
var ErrUpstreamUnavailable = errors.New("generation upstream unavailable")

// Request is one generation call: a fixed persona instruction, the
// retrieved grounding context, prior session turns, and the current query.
type Request struct {
	System  string
	Context string
	History []models.SessionTurn
	Query   string
}

// Generator abstracts the external language-model call.
type Generator interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// Unavailable is the Generator used when no upstream is configured.
// Every call reports ErrUpstreamUnavailable, so answers come from the
// fallback responder.
type Unavailable struct{}

func (Unavailable) Complete(context.Context, Request) (string, error) {
	return "", ErrUpstreamUnavailable
}

// Client calls an OpenAI-compatible chat completions endpoint. It holds
// no mutable state; a call has no side effect beyond the network request.
type Client struct {
	llm         *openai.LLM
	temperature float64
	maxTokens   int
	timeout     time.Duration
}

func NewClient(cfg *config.LLMConfig) (*Client, error) {
	llm, err := openai.New(
		openai.WithBaseURL(cfg.BaseURL),
		openai.WithToken(strings.TrimPrefix(cfg.Key, "Bearer ")),
		openai.WithModel(cfg.Model),
	)
	if err != nil {
		return nil, fmt.Errorf("initializing generation LLM: %w", err)
	}
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		llm:         llm,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     timeout,
	}, nil
}

// Complete sends the assembled prompt and returns the generated text.
// The call carries a hard timeout: a hung upstream is treated the same as
// an unreachable one. Partial or streamed output is not accepted.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	messages := make([]llms.MessageContent, 0, len(req.History)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.System))
	for _, turn := range req.History {
		role := llms.ChatMessageTypeHuman
		if turn.Role == models.RoleAssistant {
			role = llms.ChatMessageTypeAI
		}
		messages = append(messages, llms.TextParts(role, turn.Text))
	}
	prompt := fmt.Sprintf(models.ContextPromptTemplate, req.Context, req.Query)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, prompt))

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	res, err := c.llm.GenerateContent(ctx, messages,
		llms.WithTemperature(c.temperature),
		llms.WithMaxTokens(c.maxTokens),
	)
	if err != nil {
		log.Error().Err(err).Msg("generation call failed")
		return "", fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(res.Choices) == 0 || res.Choices[0].Content == "" {
		return "", ErrUpstreamUnavailable
	}
	return res.Choices[0].Content, nil
}
