// Package insights turns the analytics figures into a short written briefing
// for store managers using an OpenAI chat model.
package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	"salesdash/internal/logger"
)

// ErrEmptyResponse is returned when the model answers with no text.
var ErrEmptyResponse = errors.New("empty response from model")

// Config configures the narrator
type Config struct {
	Model       string  // gpt-4o-mini, gpt-4o
	MaxRetries  int     // attempts before giving up
	Temperature float32 // sampling temperature
	MaxTokens   int     // response length cap
}

// DefaultConfig returns the narrator defaults for model
func DefaultConfig(model string) Config {
	if model == "" {
		model = openai.GPT4oMini
	}
	return Config{
		Model:       model,
		MaxRetries:  3,
		Temperature: 0.3,
		MaxTokens:   600,
	}
}

// Narrator writes executive summaries
type Narrator struct {
	client *openai.Client
	config Config
	log    zerolog.Logger
}

// NewNarrator creates a narrator over an OpenAI client
func NewNarrator(client *openai.Client, config Config) *Narrator {
	if config.MaxRetries < 1 {
		config.MaxRetries = 1
	}
	return &Narrator{
		client: client,
		config: config,
		log:    logger.WithComponent("insights"),
	}
}

const systemPrompt = `Eres un analista comercial de una cadena de tiendas de materiales.
Recibes indicadores de ventas y auditoría de caja de un periodo y escribes un resumen ejecutivo
en español, de cuatro a seis viñetas, con cifras concretas. Señala riesgos de caja y
oportunidades de venta. No inventes datos que no estén en el mensaje.`

// Summarize asks the model for a briefing on d
func (n *Narrator) Summarize(ctx context.Context, d Digest) (string, error) {
	const op = "Summarize"

	prompt := d.prompt()
	n.log.Debug().
		Int("prompt_length", len(prompt)).
		Str("model", n.config.Model).
		Msg("Sending summary request")

	var lastErr error
	for attempt := 1; attempt <= n.config.MaxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%s: %w", op, err)
		}

		resp, err := n.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:       n.config.Model,
			Temperature: n.config.Temperature,
			MaxTokens:   n.config.MaxTokens,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
				{Role: openai.ChatMessageRoleUser, Content: prompt},
			},
		})
		if err != nil {
			lastErr = err
			n.log.Warn().
				Err(err).
				Int("attempt", attempt).
				Int("max_retries", n.config.MaxRetries).
				Msg("Summary request failed, retrying")
			continue
		}

		if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
			lastErr = ErrEmptyResponse
			n.log.Warn().Int("attempt", attempt).Msg("Empty summary, retrying")
			continue
		}

		n.log.Info().
			Int("attempt", attempt).
			Int("tokens", resp.Usage.TotalTokens).
			Msg("Summary generated")
		return strings.TrimSpace(resp.Choices[0].Message.Content), nil
	}

	return "", fmt.Errorf("%s: all %d attempts failed, last error: %w", op, n.config.MaxRetries, lastErr)
}
