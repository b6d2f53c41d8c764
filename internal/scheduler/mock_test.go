package scheduler

import (
	"bytes"
	"testing"
)

func TestMockSchedule_ByteIdentical(t *testing.T) {
	first := MockScheduleJSON()
	for i := 0; i < 5; i++ {
		if !bytes.Equal(first, MockScheduleJSON()) {
			t.Fatal("mock schedule encoding varies between calls")
		}
	}
}

func TestMockSchedule_FreshValue(t *testing.T) {
	a := MockSchedule()
	b := MockSchedule()

	a["total_shooting_days"] = 99
	if b["total_shooting_days"] == 99 {
		t.Error("MockSchedule returns shared state")
	}
}

func TestMockSchedule_Shape(t *testing.T) {
	m := MockSchedule()

	for _, key := range []string{
		"scheduling_strategy",
		"total_shooting_days",
		"daily_schedules",
		"actor_schedules",
		"location_schedule",
		"optimization_benefits",
		"potential_risks",
	} {
		if _, ok := m[key]; !ok {
			t.Errorf("mock schedule missing %q", key)
		}
	}

	days, ok := m["daily_schedules"].([]any)
	if !ok || len(days) != 1 {
		t.Fatalf("daily_schedules = %v", m["daily_schedules"])
	}
	day := days[0].(map[string]any)
	scenes := day["scenes"].([]any)
	if len(scenes) != 3 {
		t.Errorf("expected 3 mock scenes, got %d", len(scenes))
	}
}
