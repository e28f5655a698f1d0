package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trame-planner/internal/logger"
	"trame-planner/internal/models"
	"trame-planner/internal/progress"
	"trame-planner/internal/repository/memory"
	budget_service "trame-planner/internal/service/budget"
	calendar_service "trame-planner/internal/service/calendar"
	"trame-planner/internal/service/duplication"
)

type testServer struct {
	db     *memory.DB
	jobs   *progress.Registry
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := memory.Open()
	jobs := progress.NewRegistry(time.Minute)
	log := logger.NewNop()
	trammes := memory.NewTrammeRepository(db)
	dup := duplication.NewDuplicationService(
		trammes,
		memory.NewTeachingUnitRepository(db),
		memory.NewGroupRepository(db),
		memory.NewCourseRepository(db),
		memory.NewCalendarRepository(db),
		memory.NewConflictRepository(db),
		memory.NewGenerationStore(db),
		jobs,
		nil,
		log,
		duplication.Options{},
	)
	h := NewHandler(
		dup,
		calendar_service.NewCalendarService(trammes, memory.NewCalendarRepository(db)),
		budget_service.NewBudgetService(memory.NewHourBudgetRepository(db)),
		log,
	)
	return &testServer{db: db, jobs: jobs, router: h.Routes()}
}

func (s *testServer) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// seed creates a tramme ready to be duplicated.
func (s *testServer) seed() (models.Tramme, models.TeachingUnit) {
	start := time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 9, 15, 0, 0, 0, 0, time.UTC)
	tr := s.db.AddTramme(models.Tramme{Name: "S1", StartDate: &start, EndDate: &end})
	layer := s.db.AddLayer(models.Layer{TrammeID: tr.ID, Name: "L1"})
	g := s.db.AddGroup(models.Group{Name: "G1"}, layer.ID)
	u := s.db.AddUnit(models.TeachingUnit{LayerID: layer.ID, VolumeCM: 3})
	s.db.AddCourse(models.Course{UnitID: u.ID, Type: models.SessionCM, Date: models.DefaultModelWeekStart, StartHour: 8, Duration: 1.5, GroupIDs: []int64{g.ID}})
	return tr, u
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) APIError {
	t.Helper()
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestStartDuplication(t *testing.T) {
	s := newTestServer(t)
	tr, u := s.seed()
	path := "/api/trammes/" + itoa(tr.ID) + "/duplication"

	rec := s.do(http.MethodPost, path, "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.JSONEq(t, `{"status":"started"}`, rec.Body.String())

	require.Eventually(t, func() bool {
		rec := s.do(http.MethodGet, path, "")
		var snap struct {
			State           string `json:"state"`
			PercentageTotal int    `json:"percentageTotal"`
			StartDate       string `json:"startDate"`
		}
		if json.Unmarshal(rec.Body.Bytes(), &snap) != nil {
			return false
		}
		return snap.State == "done" && snap.PercentageTotal == 100 && strings.HasPrefix(snap.StartDate, "2024-09-02")
	}, 2*time.Second, 10*time.Millisecond)

	rec = s.do(http.MethodGet, "/api/units/"+itoa(u.ID)+"/budgets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Budgets []models.HourBudget `json:"budgets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Budgets, 3)
	for _, b := range body.Budgets {
		assert.Equal(t, 0.0, b.Hours)
	}
}

func TestStartDuplication_Errors(t *testing.T) {
	s := newTestServer(t)
	tr, _ := s.seed()
	noDates := s.db.AddTramme(models.Tramme{Name: "draft"})

	_, err := s.jobs.Begin(context.Background(), tr.ID)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{name: "invalid id", path: "/api/trammes/abc/duplication", status: http.StatusBadRequest, code: "invalid_tramme_id"},
		{name: "negative id", path: "/api/trammes/-3/duplication", status: http.StatusBadRequest, code: "invalid_tramme_id"},
		{name: "unknown tramme", path: "/api/trammes/999/duplication", status: http.StatusNotFound, code: "not_found"},
		{name: "missing dates", path: "/api/trammes/" + itoa(noDates.ID) + "/duplication", status: http.StatusBadRequest, code: "validation_failed"},
		{name: "already running", path: "/api/trammes/" + itoa(tr.ID) + "/duplication", status: http.StatusConflict, code: "already_running"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := s.do(http.MethodPost, tt.path, "")
			require.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.code, decodeError(t, rec).Code)
		})
	}

	rec := s.do(http.MethodPost, "/api/trammes/"+itoa(noDates.ID)+"/duplication", "")
	fields := decodeError(t, rec).Fields
	require.Len(t, fields, 2)
	assert.Equal(t, "start_date", fields[0].Field)
	assert.Equal(t, "end_date", fields[1].Field)
}

func TestGetProgress_Idle(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/trammes/42/duplication", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"state":"idle","currentLayerName":"","percentageLayer":0,"percentageTotal":0}`, rec.Body.String())
}

func TestCancelDuplication(t *testing.T) {
	s := newTestServer(t)

	rec := s.do(http.MethodDelete, "/api/trammes/5/duplication", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "no_running_job", decodeError(t, rec).Code)

	job, err := s.jobs.Begin(context.Background(), 5)
	require.NoError(t, err)

	rec = s.do(http.MethodDelete, "/api/trammes/5/duplication", "")
	require.Equal(t, http.StatusAccepted, rec.Code)
	assert.ErrorIs(t, job.Context().Err(), context.Canceled)
}

func TestImportCalendar(t *testing.T) {
	s := newTestServer(t)
	tr, _ := s.seed()
	base := "/api/trammes/" + itoa(tr.ID)

	rec := s.do(http.MethodPost, base+"/blocked-dates", "date,reason\n2024-11-01,Toussaint\n2024-11-11,Armistice\n")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"imported":2}`, rec.Body.String())

	rec = s.do(http.MethodPost, base+"/events", "name,date,start,end\nForum,2024-10-03,10:00,12:30\n")
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"imported":1}`, rec.Body.String())

	rec = s.do(http.MethodPost, base+"/events", "name,date,start,end\nForum,2024-10-03,12:00,10:00\n")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failed", decodeError(t, rec).Code)

	rec = s.do(http.MethodPost, base+"/blocked-dates", "date,reason\n01/11/2024,Toussaint\n")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_csv", decodeError(t, rec).Code)

	rec = s.do(http.MethodPost, "/api/trammes/999/blocked-dates", "date,reason\n2024-11-01,x\n")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUnitBudgets_InvalidID(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(http.MethodGet, "/api/units/zero/budgets", "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_unit_id", decodeError(t, rec).Code)

	rec = s.do(http.MethodGet, "/api/units/12/budgets", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"budgets":[]}`, rec.Body.String())
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
