package scheduler

import "encoding/json"

// MockSchedule returns the canned schedule used whenever the live call cannot
// be completed or parsed. Callers get a fresh value each time, but the
// canonical JSON encoding never varies.
func MockSchedule() Result {
	return Result{
		"scheduling_strategy": "Mock AI-optimized schedule - Location clustering with time-of-day optimization",
		"total_shooting_days": 3,
		"daily_schedules": []any{
			map[string]any{
				"day":            1,
				"date":           "TBD",
				"location_focus": "Radio Station Complex",
				"scenes": []any{
					map[string]any{
						"scene_number":               9,
						"scene_title":                "EXT. RADIO STATION - PARKING AREA - DUSK",
						"location":                   "Radio Station Parking Area",
						"time_of_day":                "DUSK",
						"estimated_duration_minutes": 60,
						"actors_needed":              []any{"Maya"},
						"extras_needed":              []any{},
						"call_time":                  "17:00",
						"estimated_wrap":             "18:00",
						"setup_notes":                "Golden hour lighting setup required",
					},
					map[string]any{
						"scene_number":               1,
						"scene_title":                "EXT. ABANDONED RADIO STATION - NIGHT",
						"location":                   "Abandoned Radio Station",
						"time_of_day":                "NIGHT",
						"estimated_duration_minutes": 60,
						"actors_needed":              []any{},
						"extras_needed":              []any{},
						"call_time":                  "19:00",
						"estimated_wrap":             "20:00",
						"setup_notes":                "Night lighting and atmospheric effects",
					},
					map[string]any{
						"scene_number":               2,
						"scene_title":                "INT. RADIO STATION - CONTROL ROOM - NIGHT",
						"location":                   "Radio Station Control Room",
						"time_of_day":                "NIGHT",
						"estimated_duration_minutes": 60,
						"actors_needed":              []any{"Maya Chen"},
						"extras_needed":              []any{},
						"call_time":                  "20:30",
						"estimated_wrap":             "21:30",
						"setup_notes":                "Interior lighting setup, practical radio equipment",
					},
				},
				"daily_summary": map[string]any{
					"total_scenes":           3,
					"total_duration_minutes": 180,
					"primary_actors":         []any{"Maya", "Maya Chen"},
					"location_changes":       2,
					"special_requirements":   []any{"Night shooting equipment", "Atmospheric effects"},
				},
			},
		},
		"actor_schedules": map[string]any{
			"Maya": map[string]any{
				"total_working_days": 2,
				"scenes":             []any{3, 4, 5, 7, 8, 9},
				"schedule_notes":     "Primary character - appears in most scenes",
			},
			"Maya Chen": map[string]any{
				"total_working_days": 1,
				"scenes":             []any{2},
				"schedule_notes":     "Single scene appearance",
			},
		},
		"location_schedule": map[string]any{
			"Radio Station Complex": map[string]any{
				"days_needed":        []any{1},
				"total_scenes":       3,
				"setup_requirements": "Lighting equipment, atmospheric effects, practical radio gear",
			},
		},
		"optimization_benefits": []any{
			"Grouped Radio Station scenes for efficient setup",
			"Natural time progression (DUSK -> NIGHT)",
			"Minimized location changes",
			"Optimized actor schedules",
		},
		"potential_risks": []any{
			"Weather dependency for outdoor scenes",
			"Night shooting may require overtime pay",
			"Equipment availability for atmospheric effects",
		},
	}
}

// MockScheduleJSON is the canonical encoding of MockSchedule. json.Marshal
// sorts map keys, so these bytes are stable across calls.
func MockScheduleJSON() []byte {
	data, err := json.Marshal(MockSchedule())
	if err != nil {
		// The literal above contains only marshalable types.
		panic(err)
	}
	return data
}
