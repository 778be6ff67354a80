package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fitquest/config"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"
)

// Generator turns one prompt into model text. jsonMode asks the backend for a JSON object.
type Generator interface {
	Generate(ctx context.Context, prompt string, jsonMode bool) (string, error)
}

// NewGenerator builds the backend named by cfg.LLMBackend.
func NewGenerator(cfg config.Config) (Generator, error) {
	switch cfg.LLMBackend {
	case config.BackendOpenAI:
		slog.Info("Initializing go-openai backend", "model", cfg.OpenAIModel)
		return NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel), nil
	case config.BackendLangChain, "":
		opts := []lcopenai.Option{
			lcopenai.WithToken(cfg.OpenAIAPIKey),
			lcopenai.WithModel(cfg.OpenAIModel),
		}
		if cfg.OpenAIBaseURL != "" {
			opts = append(opts, lcopenai.WithBaseURL(cfg.OpenAIBaseURL))
		}
		llm, err := lcopenai.New(opts...)
		if err != nil {
			return nil, fmt.Errorf("init langchain openai client: %w", err)
		}
		slog.Info("Initializing langchaingo backend", "model", cfg.OpenAIModel)
		return NewLangChainGenerator(llm), nil
	default:
		return nil, fmt.Errorf("unknown LLM backend %q", cfg.LLMBackend)
	}
}

// LangChainGenerator sends prompts through any langchaingo model.
type LangChainGenerator struct {
	llm llms.Model
}

func NewLangChainGenerator(llm llms.Model) *LangChainGenerator {
	return &LangChainGenerator{llm: llm}
}

func (g *LangChainGenerator) Generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	var opts []llms.CallOption
	if jsonMode {
		opts = append(opts, llms.WithJSONMode())
	}
	text, err := llms.GenerateFromSinglePrompt(ctx, g.llm, prompt, opts...)
	if err != nil {
		return "", fmt.Errorf("langchain generate: %w", err)
	}
	return text, nil
}

// OpenAIGenerator calls the chat completion API with the prompt as the only user message.
type OpenAIGenerator struct {
	client *goopenai.Client
	model  string
}

func NewOpenAIGenerator(apiKey, baseURL, model string) *OpenAIGenerator {
	cfg := goopenai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGenerator{client: goopenai.NewClientWithConfig(cfg), model: model}
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
	}
	if jsonMode {
		req.ResponseFormat = &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}
	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
