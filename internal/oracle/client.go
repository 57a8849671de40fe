// Package oracle wraps the natural-language model used as an opaque
// text-in/text-out transformer. The model is an external, sometimes
// unreliable collaborator: callers must treat replies as untrusted text.
package oracle

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	openai "github.com/sashabaranov/go-openai"
)

// Message roles accepted by the oracle.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single prompt message.
type Message struct {
	Role    string
	Content string
}

// Options bound a single oracle call. MaxTokens caps the reply length;
// Temperature controls sampling randomness.
type Options struct {
	Temperature float32
	MaxTokens   int
}

// Chatter is the oracle contract the rest of the system depends on.
type Chatter interface {
	Chat(ctx context.Context, msgs []Message, opts Options) (string, error)
}

// Client is the OpenAI-backed oracle.
type Client struct {
	api     *openai.Client
	model   string
	timeout time.Duration
}

// NewClient creates an oracle client. The timeout is applied per call when
// the caller's context carries no deadline.
func NewClient(apiKey, model string, timeout time.Duration) *Client {
	return &Client{
		api:     openai.NewClient(apiKey),
		model:   model,
		timeout: timeout,
	}
}

// Chat sends the messages and returns the trimmed reply text.
func (c *Client) Chat(ctx context.Context, msgs []Message, opts Options) (string, error) {
	if _, hasDeadline := ctx.Deadline(); !hasDeadline && c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
		Messages:    make([]openai.ChatCompletionMessage, 0, len(msgs)),
	}
	for _, m := range msgs {
		req.Messages = append(req.Messages, openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		})
	}

	start := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Warn().Err(err).Str("model", c.model).Dur("elapsed", time.Since(start)).Msg("Oracle call failed")
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion returned")
	}

	reply := strings.TrimSpace(resp.Choices[0].Message.Content)
	if reply == "" {
		return "", fmt.Errorf("empty completion returned")
	}

	log.Debug().
		Str("model", c.model).
		Int("messages", len(msgs)).
		Int("replyLen", len(reply)).
		Dur("elapsed", time.Since(start)).
		Msg("Oracle call completed")

	return reply, nil
}
