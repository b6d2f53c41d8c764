package llm_provider

import "context"

// MockProvider for free local testing. Returns a minimal but valid schedule
// document so the full parse path is exercised without a live model.
type MockProvider struct{}

func (m *MockProvider) Generate(ctx context.Context, prompt string) (string, error) {
	return `{
		"optimized_schedule": {
			"scheduling_strategy": "Mock provider response - single day, input order",
			"total_shooting_days": 1,
			"daily_schedules": [],
			"actor_schedules": {},
			"location_schedule": {},
			"optimization_benefits": ["No API cost"],
			"potential_risks": ["Not a real schedule"]
		}
	}`, nil
}
