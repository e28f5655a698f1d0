package duplication

import (
	"context"
	"fmt"
	"sort"
	"time"

	"trame-planner/internal/models"
	"trame-planner/internal/repository"
)

// WeekBuckets holds the model-week placements by weekday, Monday first.
type WeekBuckets [7][]*models.Course

// Template is the model week of one layer.
type Template struct {
	LayerID int64
	Groups  []models.Group
	Buckets WeekBuckets

	byID map[int64]*models.Course
}

func (t *Template) Placement(id int64) (*models.Course, bool) {
	p, ok := t.byID[id]
	return p, ok
}

func (t *Template) Len() int {
	return len(t.byID)
}

type TemplateExtractor struct {
	groups    repository.GroupRepository
	courses   repository.CourseRepository
	weekStart time.Time
}

func NewTemplateExtractor(groups repository.GroupRepository, courses repository.CourseRepository, weekStart time.Time) *TemplateExtractor {
	return &TemplateExtractor{
		groups:    groups,
		courses:   courses,
		weekStart: models.DateOnly(weekStart),
	}
}

// Extract loads the groups of the layer with their model-week courses. A
// course shared by several groups appears once.
func (e *TemplateExtractor) Extract(ctx context.Context, layerID int64) (*Template, error) {
	groups, err := e.groups.GetByLayer(ctx, layerID)
	if err != nil {
		return nil, fmt.Errorf("load groups of layer %d: %w", layerID, err)
	}

	weekEnd := e.weekStart.AddDate(0, 0, 6)
	tpl := &Template{
		LayerID: layerID,
		Groups:  groups,
		byID:    make(map[int64]*models.Course),
	}

	for _, g := range groups {
		courses, err := e.courses.GetByGroup(ctx, g.ID, e.weekStart, weekEnd)
		if err != nil {
			return nil, fmt.Errorf("load model week of group %d: %w", g.ID, err)
		}
		for i := range courses {
			c := courses[i]
			if _, seen := tpl.byID[c.ID]; seen {
				continue
			}
			d := models.DateOnly(c.Date)
			if d.Before(e.weekStart) || d.After(weekEnd) {
				continue
			}
			tpl.byID[c.ID] = &c
			day := models.WeekdayIndex(d)
			tpl.Buckets[day] = append(tpl.Buckets[day], &c)
		}
	}

	for day := range tpl.Buckets {
		bucket := tpl.Buckets[day]
		sort.Slice(bucket, func(i, j int) bool {
			if bucket[i].StartHour != bucket[j].StartHour {
				return bucket[i].StartHour < bucket[j].StartHour
			}
			return bucket[i].ID < bucket[j].ID
		})
	}

	return tpl, nil
}
