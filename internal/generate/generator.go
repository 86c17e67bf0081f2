// Package generate wraps the outbound completion call in a fail-soft
// contract: every failure mode becomes a readable string so the
// interactive surfaces never crash on a bad generation.
package generate

import (
	"context"
	"fmt"
	"strings"

	"github.com/avellar/docask/internal/groq"
)

// Fixed sampling parameters for every completion request.
const (
	temperature = 0.7
	maxTokens   = 1000
)

// NotConfiguredMessage is returned, without any network call, when no
// API credential was configured.
const NotConfiguredMessage = "Groq client not configured.\n" +
	"Set the GROQ_API_KEY environment variable (or add groq.api_key to your config file) and restart.\n" +
	"Example: export GROQ_API_KEY=your_key_here"

// Completer is the single outbound call the generator depends on.
// Implemented by groq.Client.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req groq.ChatRequest) (groq.ChatResponse, error)
}

// Generator turns assembled messages into answer text.
type Generator struct {
	client Completer
}

// New creates a Generator. A nil client is valid and means "not
// configured": Generate then returns guidance instead of calling out.
func New(client Completer) *Generator {
	return &Generator{client: client}
}

// Configured reports whether an outbound client is available.
func (g *Generator) Configured() bool {
	return g.client != nil
}

// Generate issues one synchronous completion call and normalizes the
// outcome into a response string. Call failures come back as
// descriptive text, never as an error; an unexpectedly shaped success
// falls back to the raw response body.
func (g *Generator) Generate(ctx context.Context, messages []groq.Message, model string) string {
	if g.client == nil {
		return NotConfiguredMessage
	}

	resp, err := g.client.CreateChatCompletion(ctx, groq.ChatRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return fmt.Sprintf("Error generating response: %v", err)
	}

	if text, ok := resp.FirstContent(); ok {
		return text
	}
	if raw := strings.TrimSpace(string(resp.Raw)); raw != "" {
		return raw
	}
	return fmt.Sprintf("%+v", resp)
}
