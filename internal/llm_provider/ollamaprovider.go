package llm_provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
)

type OllamaProvider struct {
	Endpoint string
	Model    string
	Client   *http.Client
}

func NewOllamaProvider(endpoint, model string) *OllamaProvider {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	if model == "" {
		model = "llama3"
	}
	return &OllamaProvider{
		Endpoint: endpoint,
		Model:    model,
		Client:   &http.Client{Timeout: 90 * time.Second},
	}
}

func (o *OllamaProvider) Generate(ctx context.Context, prompt string) (string, error) {
	systemInstruction := `You are an expert film production scheduler.
You receive a scene breakdown and scheduling constraints, and you reply with an
optimized shooting schedule as a single JSON object matching the structure
requested in the prompt. Respond ONLY with the JSON object.`

	log.Printf("[Ollama] Sending request. Model: %s, Prompt Length: %d chars", o.Model, len(prompt))

	payload := map[string]any{
		"model":  o.Model,
		"prompt": prompt,
		"system": systemInstruction,
		"stream": false,
		"format": "json",
		"options": map[string]any{
			"temperature": 0.3,
			"top_k":       40,
			"top_p":       0.95,
		},
	}

	body, _ := json.Marshal(payload)
	req, err := http.NewRequestWithContext(ctx, "POST", o.Endpoint+"/api/generate", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}

	resp, err := o.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("ollama error status: %d", resp.StatusCode)
	}

	var result struct {
		Response string `json:"response"`
		Done     bool   `json:"done"`
		Error    string `json:"error,omitempty"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode ollama response: %w", err)
	}

	if result.Error != "" {
		return "", fmt.Errorf("ollama internal error: %s", result.Error)
	}

	trimmed := strings.TrimSpace(result.Response)
	if trimmed == "" {
		log.Printf("[Ollama] Received empty response string. Done status: %v", result.Done)
	}

	return trimmed, nil
}
