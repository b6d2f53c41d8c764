package schedule

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/nats-io/nats.go"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/redis/go-redis/v9"

	"github.com/oranjParker/Slateflow/internal/core"
)

type mockJetStream struct {
	publishedSubject string
	publishedData    []byte
	err              error
}

func (m *mockJetStream) Publish(subj string, data []byte, opts ...nats.PubOpt) (*nats.PubAck, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.publishedSubject = subj
	m.publishedData = data
	return &nats.PubAck{Sequence: 1, Stream: "SCHEDULE_JOBS"}, nil
}

func testRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func newTestServer(t *testing.T, js JetStreamPublisher, rdb *redis.Client) (*Server, pgxmock.PgxPoolIface) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mockDB, err := pgxmock.NewPool()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(mockDB.Close)

	return NewServer(mockDB, js, rdb, nil), mockDB
}

const breakdownJSON = `{
	"project_title": "Static on the Dial",
	"shooting_schedule": {
		"scenes": [
			{"scene_number": 1, "scene_title": "EXT. RADIO STATION - NIGHT", "location": "Abandoned Radio Station", "time_of_day": "NIGHT", "estimated_duration_minutes": 60, "actors": [{"name": "Maya Chen"}]}
		]
	}
}`

func TestCreateSchedule_Success(t *testing.T) {
	jsMock := &mockJetStream{}
	server, mockDB := newTestServer(t, jsMock, nil)

	mockDB.ExpectExec("INSERT INTO schedule_jobs").
		WithArgs(pgxmock.AnyArg(), "Static on the Dial", 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/schedules", strings.NewReader(breakdownJSON))
	req.Header.Set("Content-Type", "application/json")
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["job_id"] == "" || resp["status"] != "QUEUED" {
		t.Errorf("unexpected response: %v", resp)
	}

	if jsMock.publishedSubject != JobsSubject {
		t.Errorf("published to %s, want %s", jsMock.publishedSubject, JobsSubject)
	}

	var task core.Task[string]
	if err := json.Unmarshal(jsMock.publishedData, &task); err != nil {
		t.Fatalf("bad queue payload: %v", err)
	}
	if task.ID != resp["job_id"] {
		t.Errorf("queued task ID %s does not match job id %s", task.ID, resp["job_id"])
	}
	if !strings.Contains(task.Content, "Abandoned Radio Station") {
		t.Error("queued task does not carry the breakdown")
	}

	if err := mockDB.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet DB expectations: %v", err)
	}
}

func TestCreateSchedule_Validation(t *testing.T) {
	server, _ := newTestServer(t, &mockJetStream{}, nil)
	router := server.Router()

	t.Run("Malformed Body", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/schedules", strings.NewReader("{not json"))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d", w.Code)
		}
	})

	t.Run("No Scenes", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest("POST", "/api/v1/schedules", strings.NewReader(`{"project_title": "Empty"}`))
		router.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d", w.Code)
		}
	})
}

func TestCreateSchedule_QueueFailureMarksJobFailed(t *testing.T) {
	jsMock := &mockJetStream{err: fmt.Errorf("jetstream unavailable")}
	server, mockDB := newTestServer(t, jsMock, nil)

	mockDB.ExpectExec("INSERT INTO schedule_jobs").
		WithArgs(pgxmock.AnyArg(), "Static on the Dial", 1).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mockDB.ExpectExec("UPDATE schedule_jobs SET status = 'FAILED'").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/schedules", strings.NewReader(breakdownJSON))
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("status = %d", w.Code)
	}
	if err := mockDB.ExpectationsWereMet(); err != nil {
		t.Errorf("Unmet DB expectations: %v", err)
	}
}

func TestGetSchedule_FromDatabase(t *testing.T) {
	rdb := testRedis(t)
	server, mockDB := newTestServer(t, &mockJetStream{}, rdb)

	result := `{"optimized_schedule": {"total_shooting_days": 1}}`
	mockDB.ExpectQuery("SELECT status, result FROM schedules").
		WithArgs("job-1").
		WillReturnRows(pgxmock.NewRows([]string{"status", "result"}).AddRow("COMPLETED", result))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/schedules/job-1", nil)
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "COMPLETED" {
		t.Errorf("status = %v", body["status"])
	}
	if _, ok := body["schedule"].(map[string]any); !ok {
		t.Errorf("schedule not embedded as object: %T", body["schedule"])
	}
}

func TestGetSchedule_CacheHit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	server, _ := newTestServer(t, &mockJetStream{}, rdb)

	cached := `{"job_id": "job-1", "status": "COMPLETED", "schedule": {}}`
	if err := mr.Set("schedule:job-1", cached); err != nil {
		t.Fatal(err)
	}

	// No DB expectations registered: a query would fail the test.
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/schedules/job-1", nil)
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Body.String() != cached {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestGetSchedule_PendingJob(t *testing.T) {
	server, mockDB := newTestServer(t, &mockJetStream{}, nil)

	mockDB.ExpectQuery("SELECT status, result FROM schedules").
		WithArgs("job-2").
		WillReturnError(pgx.ErrNoRows)
	mockDB.ExpectQuery("SELECT status FROM schedule_jobs").
		WithArgs("job-2").
		WillReturnRows(pgxmock.NewRows([]string{"status"}).AddRow("PENDING"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/schedules/job-2", nil)
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["status"] != "PENDING" {
		t.Errorf("status = %v", body["status"])
	}
}

func TestGetSchedule_UnknownJob(t *testing.T) {
	server, mockDB := newTestServer(t, &mockJetStream{}, nil)

	mockDB.ExpectQuery("SELECT status, result FROM schedules").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)
	mockDB.ExpectQuery("SELECT status FROM schedule_jobs").
		WithArgs("nope").
		WillReturnError(pgx.ErrNoRows)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/schedules/nope", nil)
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d", w.Code)
	}
}

func TestSuggest(t *testing.T) {
	server, _ := newTestServer(t, &mockJetStream{}, nil)
	server.names.InsertAll("Abandoned Radio Station", "Abandoned Mill", "Downtown Loft")

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/suggest?prefix=Abandoned", nil)
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var body struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if len(body.Suggestions) != 2 {
		t.Errorf("suggestions = %v", body.Suggestions)
	}
}

func TestImportBreakdown(t *testing.T) {
	server, _ := newTestServer(t, &mockJetStream{}, nil)

	html := `<html><body><h1>Static on the Dial</h1><table>
		<tr><td>1</td><td>Opening</td><td>Radio Station</td><td>NIGHT</td><td>60</td></tr>
	</table></body></html>`

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/v1/breakdowns/import", strings.NewReader(html))
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Radio Station") {
		t.Errorf("parsed breakdown missing location: %s", w.Body.String())
	}
}

func TestSimilar_Unconfigured(t *testing.T) {
	server, _ := newTestServer(t, &mockJetStream{}, nil)

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/schedules/similar?q=night+shoot", nil)
	server.Router().ServeHTTP(w, req)

	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d", w.Code)
	}
}
