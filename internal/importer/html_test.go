package importer

import (
	"strings"
	"testing"
)

const sampleBreakdown = `
<html>
<head><title>Export</title></head>
<body>
<h1>Static on the Dial</h1>
<table>
  <tr><th>#</th><th>Scene</th><th>Location</th><th>Time</th><th>Min</th><th>Actors</th><th>Extras</th></tr>
  <tr>
    <td>1</td>
    <td>EXT. ABANDONED RADIO STATION - NIGHT</td>
    <td>Abandoned Radio Station</td>
    <td>night</td>
    <td>60</td>
    <td>Maya Chen, Ray Okafor</td>
    <td>Engineer</td>
  </tr>
  <tr>
    <td>2</td>
    <td>INT. CONTROL ROOM - NIGHT</td>
    <td>Radio Station Control Room</td>
    <td>NIGHT</td>
    <td>45</td>
    <td>None</td>
    <td></td>
  </tr>
  <tr><td colspan="7">DAY BREAK</td></tr>
</table>
</body>
</html>`

func TestParseBreakdown(t *testing.T) {
	col, err := ParseBreakdown(strings.NewReader(sampleBreakdown))
	if err != nil {
		t.Fatalf("ParseBreakdown failed: %v", err)
	}

	if col.ProjectTitle != "Static on the Dial" {
		t.Errorf("ProjectTitle = %q", col.ProjectTitle)
	}
	if len(col.ShootingSchedule.Scenes) != 2 {
		t.Fatalf("expected 2 scenes, got %d", len(col.ShootingSchedule.Scenes))
	}

	first := col.ShootingSchedule.Scenes[0]
	if first.SceneNumber != 1 {
		t.Errorf("SceneNumber = %d", first.SceneNumber)
	}
	if first.Location != "Abandoned Radio Station" {
		t.Errorf("Location = %q", first.Location)
	}
	if first.TimeOfDay != "NIGHT" {
		t.Errorf("TimeOfDay not normalized: %q", first.TimeOfDay)
	}
	if first.EstimatedDurationMinutes != 60 {
		t.Errorf("EstimatedDurationMinutes = %d", first.EstimatedDurationMinutes)
	}
	if len(first.Actors) != 2 || first.Actors[0].Name != "Maya Chen" || first.Actors[1].Name != "Ray Okafor" {
		t.Errorf("Actors = %v", first.Actors)
	}
	if len(first.Extras) != 1 || first.Extras[0] != "Engineer" {
		t.Errorf("Extras = %v", first.Extras)
	}

	second := col.ShootingSchedule.Scenes[1]
	if len(second.Actors) != 0 {
		t.Errorf("placeholder None should yield no actors, got %v", second.Actors)
	}
	if len(second.Extras) != 0 {
		t.Errorf("empty cell should yield no extras, got %v", second.Extras)
	}
}

func TestParseBreakdown_TitleFallback(t *testing.T) {
	html := `<html><head><title>Night Shoot</title></head><body>
		<table><tr><td>1</td><td>Open</td><td>Stage A</td><td>DAY</td><td>30</td></tr></table>
		</body></html>`

	col, err := ParseBreakdown(strings.NewReader(html))
	if err != nil {
		t.Fatal(err)
	}
	if col.ProjectTitle != "Night Shoot" {
		t.Errorf("ProjectTitle = %q, want fallback to <title>", col.ProjectTitle)
	}
}

func TestParseBreakdown_NoScenes(t *testing.T) {
	html := `<html><body><h1>Empty</h1><table><tr><th>#</th><th>Scene</th><th>Location</th><th>Time</th><th>Min</th></tr></table></body></html>`

	if _, err := ParseBreakdown(strings.NewReader(html)); err == nil {
		t.Fatal("expected error for breakdown without scene rows")
	}
}
