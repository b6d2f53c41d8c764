package llm_provider

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const GeminiDefaultModel = "gemini-2.5-flash-lite"

type GeminiProvider struct {
	Client *genai.Client
	Model  string
}

func NewGeminiProvider(ctx context.Context, apiKey string) (*GeminiProvider, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	return &GeminiProvider{Client: client, Model: GeminiDefaultModel}, nil
}

func (g *GeminiProvider) Generate(ctx context.Context, prompt string) (string, error) {
	model := g.Client.GenerativeModel(g.Model)
	model.SetTemperature(0.3)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(4096)
	model.SystemInstruction = genai.NewUserContent(genai.Text(`
		You are an expert film production scheduler.
		You receive a scene breakdown and scheduling constraints, and you reply
		with an optimized shooting schedule as a single JSON object matching the
		structure requested in the prompt.
		Respond ONLY with the JSON object. Do not add commentary around it.
	`))

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty response")
	}

	var text string
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text += string(t)
		}
	}
	return text, nil
}
