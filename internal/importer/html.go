package importer

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/oranjParker/Slateflow/internal/scheduler"
)

// ParseBreakdown reads an HTML breakdown export (the table format most
// stripboard tools produce) into a scene collection. Expected cell order per
// row: scene number, title, location, time of day, duration in minutes,
// actors, extras. Rows whose first cell is not a number are skipped, which
// covers header rows and section separators.
func ParseBreakdown(r io.Reader) (*scheduler.SceneCollection, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, err
	}

	col := &scheduler.SceneCollection{}

	col.ProjectTitle = strings.TrimSpace(doc.Find("h1").First().Text())
	if col.ProjectTitle == "" {
		col.ProjectTitle = strings.TrimSpace(doc.Find("title").First().Text())
	}

	doc.Find("table tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 5 {
			return
		}

		num, err := strconv.Atoi(strings.TrimSpace(cells.Eq(0).Text()))
		if err != nil {
			return
		}

		duration, _ := strconv.Atoi(strings.TrimSpace(cells.Eq(4).Text()))

		scene := scheduler.Scene{
			SceneNumber:              num,
			SceneTitle:               strings.TrimSpace(cells.Eq(1).Text()),
			Location:                 strings.TrimSpace(cells.Eq(2).Text()),
			TimeOfDay:                strings.ToUpper(strings.TrimSpace(cells.Eq(3).Text())),
			EstimatedDurationMinutes: duration,
		}

		if cells.Length() > 5 {
			for _, name := range splitList(cells.Eq(5).Text()) {
				scene.Actors = append(scene.Actors, scheduler.Actor{Name: name})
			}
		}
		if cells.Length() > 6 {
			scene.Extras = splitList(cells.Eq(6).Text())
		}

		col.ShootingSchedule.Scenes = append(col.ShootingSchedule.Scenes, scene)
	})

	if len(col.ShootingSchedule.Scenes) == 0 {
		return nil, errors.New("no scene rows found in breakdown")
	}

	return col, nil
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || strings.EqualFold(p, "none") {
			continue
		}
		out = append(out, p)
	}
	return out
}
