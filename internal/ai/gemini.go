package ai

import (
	"context"
	"errors"
	"fmt"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
)

const defaultGeminiModel = "gemini-2.5-flash"

type geminiClient struct {
	llm llms.Model
}

// NewGeminiClient builds a Gemini chat model through langchaingo.
func NewGeminiClient(ctx context.Context, apiKey, model string) (*geminiClient, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: api key is empty")
	}
	if model == "" {
		model = defaultGeminiModel
	}
	llm, err := googleai.New(ctx,
		googleai.WithAPIKey(apiKey),
		googleai.WithDefaultModel(model),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &geminiClient{llm: llm}, nil
}

func (g *geminiClient) Complete(ctx context.Context, system, user string) (string, error) {
	resp, err := llms.GenerateFromSinglePrompt(ctx, g.llm, system+"\n\n"+user, llms.WithTemperature(0.3))
	if err != nil {
		return "", fmt.Errorf("gemini: %w", err)
	}
	return resp, nil
}
