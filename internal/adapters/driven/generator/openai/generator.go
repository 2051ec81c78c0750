// Package openai provides answer generation adapters backed by the
// OpenAI chat completions API.
package openai

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/physica-labs/physica-cli/internal/core/ports/driven"
)

// Ensure the adapters implement their interfaces.
var (
	_ driven.AnswerGenerator = (*Generator)(nil)
	_ driven.MCQAgent        = (*MCQAgent)(nil)
)

// Default configuration values.
const (
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second
)

// systemPrompt frames the assistant as a physics tutor that answers
// strictly from the supplied material.
const systemPrompt = `You are a physics tutor. Answer the student's question using the provided course material.
Base your answer on the material; if it does not cover the question, say so and answer from general physics knowledge, noting the distinction.
Be concise and show formulas in plain text.`

// mcqSystemPrompt instructs the model to resolve multiple-choice
// questions.
const mcqSystemPrompt = `You answer multiple-choice physics questions.
Reply with the letter of the correct option followed by a one-sentence justification.`

// Config holds configuration for the OpenAI generator adapters.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL overrides the API base URL for compatible APIs.
	BaseURL string

	// Model is the chat model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration

	// Temperature controls sampling. Zero keeps answers reproducible.
	Temperature float32
}

// Generator answers questions with a chat completion over the
// retrieved context.
type Generator struct {
	client      *goopenai.Client
	model       string
	temperature float32
}

// NewGenerator creates an OpenAI-backed answer generator.
func NewGenerator(cfg Config) (*Generator, error) {
	client, model, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return &Generator{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
	}, nil
}

// Generate produces an answer to question grounded on supportingContext.
// An empty context still produces an answer; the prompt tells the model
// to flag the missing material.
func (g *Generator) Generate(ctx context.Context, question, supportingContext string) (string, error) {
	user := fmt.Sprintf("Course material:\n%s\n\nQuestion: %s", supportingContext, question)
	if strings.TrimSpace(supportingContext) == "" {
		user = fmt.Sprintf("Course material: (none found)\n\nQuestion: %s", question)
	}

	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       g.model,
		Temperature: g.temperature,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: user},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// ModelName returns the chat model in use.
func (g *Generator) ModelName() string {
	return g.model
}

// Close releases resources.
func (g *Generator) Close() error {
	return nil
}

// MCQAgent answers multiple-choice questions with a dedicated model,
// typically a fine-tune.
type MCQAgent struct {
	client *goopenai.Client
	model  string
}

// NewMCQAgent creates an OpenAI-backed multiple-choice agent.
func NewMCQAgent(cfg Config) (*MCQAgent, error) {
	client, model, err := newClient(cfg)
	if err != nil {
		return nil, err
	}
	return &MCQAgent{client: client, model: model}, nil
}

// Answer returns the selected option with a short justification.
func (a *MCQAgent) Answer(ctx context.Context, question string) (string, error) {
	resp, err := a.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: a.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: mcqSystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: question},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func newClient(cfg Config) (*goopenai.Client, string, error) {
	if cfg.APIKey == "" {
		return nil, "", fmt.Errorf("openai: API key is required")
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: timeout}

	return goopenai.NewClientWithConfig(clientCfg), model, nil
}
