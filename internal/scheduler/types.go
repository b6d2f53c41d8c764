package scheduler

import "github.com/oranjParker/Slateflow/internal/utils"

type Actor struct {
	Name string `json:"name"`
}

type Scene struct {
	SceneNumber              int      `json:"scene_number"`
	SceneTitle               string   `json:"scene_title"`
	Location                 string   `json:"location"`
	TimeOfDay                string   `json:"time_of_day"`
	EstimatedDurationMinutes int      `json:"estimated_duration_minutes"`
	Actors                   []Actor  `json:"actors,omitempty"`
	Extras                   []string `json:"extras,omitempty"`
}

type ShootingSchedule struct {
	Scenes []Scene `json:"scenes"`
}

// SceneCollection is the breakdown a production submits for scheduling.
// It is pass-through data: copied into the prompt, never interpreted.
type SceneCollection struct {
	ProjectTitle     string           `json:"project_title"`
	ShootingSchedule ShootingSchedule `json:"shooting_schedule"`
	ProductionNotes  []string         `json:"production_notes,omitempty"`
}

// Result is the schedule document handed back to callers. Its shape is
// defined by the model (or the mock), not by us, so it stays an open map:
// we forward or substitute, we do not validate.
type Result map[string]any

func (c *SceneCollection) Locations() []string {
	locs := make([]string, 0, len(c.ShootingSchedule.Scenes))
	for _, s := range c.ShootingSchedule.Scenes {
		if s.Location != "" {
			locs = append(locs, s.Location)
		}
	}
	return utils.UniqueStrings(locs)
}

func (c *SceneCollection) ActorNames() []string {
	names := make([]string, 0)
	for _, s := range c.ShootingSchedule.Scenes {
		for _, a := range s.Actors {
			if a.Name != "" {
				names = append(names, a.Name)
			}
		}
	}
	return utils.UniqueStrings(names)
}
