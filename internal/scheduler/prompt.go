package scheduler

import (
	"fmt"
	"strings"
)

const promptConstraints = `
## SCHEDULING CONSTRAINTS:
1. **Location Efficiency**: Group scenes by location to minimize setup/teardown time and costs
2. **Actor Availability**: Consider actor scheduling conflicts and minimize their total working days
3. **Time of Day Logic**: Schedule DAY scenes first, then DUSK, then NIGHT within each location
4. **Equipment Sharing**: Consider shared equipment needs between similar scenes
5. **Weather Dependencies**: Outdoor scenes should be grouped and have backup indoor options
6. **Crew Efficiency**: Minimize crew overtime by balancing daily workloads
`

const promptOutputFormat = `
## REQUIRED OUTPUT FORMAT:
Please provide a JSON response with the following structure:

` + "```json" + `
{
  "optimized_schedule": {
    "scheduling_strategy": "Brief explanation of the optimization strategy used",
    "total_shooting_days": number,
    "daily_schedules": [...],
    "actor_schedules": {...},
    "location_schedule": {...},
    "optimization_benefits": [...],
    "potential_risks": [...]
  }
}
` + "```" + `
Generate the most efficient shooting schedule considering all constraints and provide detailed reasoning for your scheduling decisions.
`

// BuildPrompt serializes a breakdown into the scheduling prompt. Every scene
// contributes its number, title, location, time of day, duration and cast.
func BuildPrompt(col *SceneCollection) string {
	scenes := col.ShootingSchedule.Scenes

	title := col.ProjectTitle
	if title == "" {
		title = "Film Project"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert film production scheduler. Create an optimal shooting schedule for %q based on the following constraints and data:\n", title)
	fmt.Fprintf(&b, "\n## PROJECT DATA:\nTotal Scenes: %d\nLocations: %s\nMain Actors: %s\n",
		len(scenes),
		strings.Join(col.Locations(), ", "),
		strings.Join(col.ActorNames(), ", "),
	)

	b.WriteString("\n## SCENES TO SCHEDULE:\n")
	for _, scene := range scenes {
		names := make([]string, 0, len(scene.Actors))
		for _, a := range scene.Actors {
			names = append(names, a.Name)
		}

		fmt.Fprintf(&b, "\nScene %d: %s\n", scene.SceneNumber, scene.SceneTitle)
		fmt.Fprintf(&b, "- Location: %s\n", scene.Location)
		fmt.Fprintf(&b, "- Time of Day: %s\n", scene.TimeOfDay)
		fmt.Fprintf(&b, "- Duration: %d minutes\n", scene.EstimatedDurationMinutes)
		fmt.Fprintf(&b, "- Actors: %s\n", joinOrNone(names))
		fmt.Fprintf(&b, "- Extras: %s\n", joinOrNone(scene.Extras))
	}

	b.WriteString(promptConstraints)

	if len(col.ProductionNotes) > 0 {
		b.WriteString("\n## ADDITIONAL CONSIDERATIONS:\n")
		for _, note := range col.ProductionNotes {
			fmt.Fprintf(&b, "- %s\n", note)
		}
	}

	b.WriteString(promptOutputFormat)
	return b.String()
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "None"
	}
	return strings.Join(items, ", ")
}
