package duplication

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trame-planner/internal/models"
	"trame-planner/internal/repository/memory"
)

func TestTemplateExtractor_Extract(t *testing.T) {
	db := memory.Open()
	layer := db.AddLayer(models.Layer{Name: "L1"})
	g1 := db.AddGroup(models.Group{Name: "G1"}, layer.ID)
	g2 := db.AddGroup(models.Group{Name: "G2"}, layer.ID)
	other := db.AddGroup(models.Group{Name: "other layer"})

	late := db.AddCourse(models.Course{UnitID: 1, Type: models.SessionCM, Date: modelMonday, StartHour: 14, Duration: 2, GroupIDs: []int64{g1.ID}})
	shared := db.AddCourse(models.Course{UnitID: 1, Type: models.SessionCM, Date: modelMonday, StartHour: 8, Duration: 2, GroupIDs: []int64{g1.ID, g2.ID}})
	tie := db.AddCourse(models.Course{UnitID: 2, Type: models.SessionTD, Date: modelMonday, StartHour: 8, Duration: 1, GroupIDs: []int64{g2.ID}})
	friday := db.AddCourse(models.Course{UnitID: 2, Type: models.SessionTP, Date: modelMonday.AddDate(0, 0, 4), StartHour: 10, Duration: 3, GroupIDs: []int64{g2.ID}})
	db.AddCourse(models.Course{UnitID: 3, Type: models.SessionCM, Date: modelMonday, StartHour: 8, Duration: 1, GroupIDs: []int64{other.ID}})
	db.AddCourse(models.Course{UnitID: 1, Type: models.SessionCM, Date: day("2024-09-02"), StartHour: 8, Duration: 2, GroupIDs: []int64{g1.ID}})

	e := NewTemplateExtractor(memory.NewGroupRepository(db), memory.NewCourseRepository(db), modelMonday)
	tpl, err := e.Extract(context.Background(), layer.ID)
	require.NoError(t, err)

	assert.Equal(t, 4, tpl.Len())
	assert.Len(t, tpl.Groups, 2)

	var monday []int64
	for _, c := range tpl.Buckets[0] {
		monday = append(monday, c.ID)
	}
	assert.Equal(t, []int64{shared.ID, tie.ID, late.ID}, monday)

	require.Len(t, tpl.Buckets[4], 1)
	assert.Equal(t, friday.ID, tpl.Buckets[4][0].ID)

	p, ok := tpl.Placement(shared.ID)
	require.True(t, ok)
	assert.ElementsMatch(t, []int64{g1.ID, g2.ID}, p.GroupIDs)
}
