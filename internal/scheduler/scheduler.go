package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/oranjParker/Slateflow/internal/utils"
)

// DefaultCallInterval is the minimum gap between two upstream LLM calls.
// Free-tier Gemini tolerates roughly one request every four seconds.
const DefaultCallInterval = 4 * time.Second

// LLMProvider is satisfied by every provider in internal/llm_provider.
type LLMProvider interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Scheduler builds the scheduling prompt, hands it to an LLM provider and
// extracts the schedule JSON from the reply. Every failure mode degrades to
// the mock schedule; the Go error channel is reserved for programmer errors,
// not remote ones.
type Scheduler struct {
	Provider LLMProvider
	Model    string
	Interval time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

func New(provider LLMProvider, model string) *Scheduler {
	return &Scheduler{
		Provider: provider,
		Model:    model,
		Interval: DefaultCallInterval,
	}
}

// Generate produces a schedule document for the breakdown. The result always
// carries a generation_info envelope; on failure it carries the mock schedule
// plus an error field.
func (s *Scheduler) Generate(ctx context.Context, col *SceneCollection) Result {
	prompt := BuildPrompt(col)
	res := s.callProvider(ctx, prompt)

	res["generation_info"] = map[string]any{
		"generated_at":  time.Now().UTC().Format(time.RFC3339),
		"input_scenes":  len(col.ShootingSchedule.Scenes),
		"ai_model":      s.Model,
		"prompt_length": len(prompt),
	}
	return res
}

func (s *Scheduler) callProvider(ctx context.Context, prompt string) Result {
	if s.Provider == nil {
		return Result{
			"error":              "no LLM provider configured: set GEMINI_API_KEY or OLLAMA_URL",
			"mock_response":      true,
			"optimized_schedule": MockSchedule(),
		}
	}

	s.waitTurn()

	text, err := s.Provider.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[Scheduler] LLM call failed: %v", err)
		return Result{
			"error":              fmt.Sprintf("LLM call failed: %v", err),
			"optimized_schedule": MockSchedule(),
		}
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Result{
			"error":              "empty response from LLM",
			"optimized_schedule": MockSchedule(),
		}
	}

	parsed, err := ExtractJSON(text)
	if err != nil {
		log.Printf("[Scheduler] unparsable LLM response: %v", err)
		return Result{
			"error":              err.Error(),
			"raw_response":       utils.SanitizeUTF8(text),
			"optimized_schedule": MockSchedule(),
		}
	}

	return parsed
}

// waitTurn enforces the inter-call gap behind a mutex so concurrent callers
// are serialized against the same last-call timestamp.
func (s *Scheduler) waitTurn() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if elapsed := time.Since(s.lastCall); elapsed < s.Interval {
		time.Sleep(s.Interval - elapsed)
	}
	s.lastCall = time.Now()
}

// ExtractJSON pulls the first balanced-looking JSON object out of free text.
// Models wrap their JSON in prose and markdown fences, so we cut from the
// first '{' to the last '}' and parse that.
func ExtractJSON(raw string) (Result, error) {
	startIndex := strings.Index(raw, "{")
	endIndex := strings.LastIndex(raw, "}")

	if startIndex == -1 || endIndex == -1 || startIndex > endIndex {
		return nil, errors.New("no valid JSON found in LLM response")
	}

	var out Result
	if err := json.Unmarshal([]byte(raw[startIndex:endIndex+1]), &out); err != nil {
		return nil, fmt.Errorf("failed to parse JSON from LLM response: %w", err)
	}

	return out, nil
}
