package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/lkay21/AI-Gym-Feedback-Companion/internal/models"
)

type stubSnapshotStore struct {
	snapshots  map[string]*models.WorkoutSnapshot
	lastLimit  int
	lastOffset int
}

func newStubSnapshotStore() *stubSnapshotStore {
	return &stubSnapshotStore{snapshots: map[string]*models.WorkoutSnapshot{}}
}

func (s *stubSnapshotStore) Create(_ context.Context, snapshot *models.WorkoutSnapshot) error {
	snapshot.CreatedAt = time.Now().UTC()
	out := *snapshot
	s.snapshots[snapshot.SnapshotID] = &out
	return nil
}

func (s *stubSnapshotStore) Get(_ context.Context, snapshotID string) (*models.WorkoutSnapshot, error) {
	snapshot, ok := s.snapshots[snapshotID]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	out := *snapshot
	return &out, nil
}

func (s *stubSnapshotStore) ListByUser(_ context.Context, userID string, limit, offset int) ([]models.WorkoutSnapshot, int, error) {
	s.lastLimit = limit
	s.lastOffset = offset
	out := []models.WorkoutSnapshot{}
	for _, snapshot := range s.snapshots {
		if snapshot.UserID == userID {
			out = append(out, *snapshot)
		}
	}
	return out, len(out), nil
}

func snapshotTestApp(store workoutSnapshotStore) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", "u1")
		return c.Next()
	})
	handler := NewWorkoutSnapshotHandler(store)
	app.Post("/api/workout-snapshots", handler.Create)
	app.Get("/api/workout-snapshots", handler.List)
	app.Get("/api/workout-snapshots/:snapshot_id", handler.Get)
	return app
}

const validSnapshotBody = `{
	"workout_id": "2026-08-28#abc",
	"workout_type": "strength",
	"duration_minutes": 45,
	"total_volume": 3200.5,
	"calories_burned": 410,
	"average_heart_rate": 132,
	"exercises_completed": [{"name": "Squat", "sets": 5}],
	"completed_at": "2026-08-28T18:30:00Z"
}`

func TestCreateSnapshotStoresAndReturnsIt(t *testing.T) {
	store := newStubSnapshotStore()
	app := snapshotTestApp(store)

	resp := postJSON(t, app, "/api/workout-snapshots", validSnapshotBody)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}

	var body struct {
		Snapshot models.WorkoutSnapshot `json:"snapshot"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Snapshot.SnapshotID == "" || body.Snapshot.UserID != "u1" {
		t.Fatalf("unexpected snapshot identity: %+v", body.Snapshot)
	}
	if body.Snapshot.TotalVolume != 3200.5 || body.Snapshot.CaloriesBurned != 410 {
		t.Fatalf("unexpected totals: %+v", body.Snapshot)
	}
	if len(body.Snapshot.ExercisesCompleted) != 1 || body.Snapshot.ExercisesCompleted[0]["name"] != "Squat" {
		t.Fatalf("unexpected exercises: %+v", body.Snapshot.ExercisesCompleted)
	}
	if len(store.snapshots) != 1 {
		t.Fatalf("expected 1 stored snapshot, got %d", len(store.snapshots))
	}
}

func TestCreateSnapshotReportsMissingFields(t *testing.T) {
	app := snapshotTestApp(newStubSnapshotStore())

	resp := postJSON(t, app, "/api/workout-snapshots", `{"workout_type":"strength"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	want := "Missing required fields: calories_burned, completed_at, duration_minutes, exercises_completed, total_volume, workout_id"
	if body.Error != want {
		t.Fatalf("expected %q, got %q", want, body.Error)
	}
}

func TestCreateSnapshotValidatesNumericFields(t *testing.T) {
	app := snapshotTestApp(newStubSnapshotStore())

	cases := []struct {
		field string
		value string
		want  string
	}{
		{"duration_minutes", "0", "duration_minutes must be a positive integer"},
		{"total_volume", "-1", "total_volume must be a positive number"},
		{"calories_burned", "-5", "calories_burned must be a positive integer"},
		{"average_heart_rate", "0", "average_heart_rate must be a positive integer"},
	}
	for _, tc := range cases {
		body := fmt.Sprintf(`{
			"workout_id": "w1", "workout_type": "strength",
			"duration_minutes": 45, "total_volume": 3200, "calories_burned": 410,
			"exercises_completed": [{}], "completed_at": "2026-08-28T18:30:00Z",
			%q: %s
		}`, tc.field, tc.value)
		resp := postJSON(t, app, "/api/workout-snapshots", body)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", tc.field, resp.StatusCode)
		}
		var got struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
			t.Fatalf("Decode: %v", err)
		}
		resp.Body.Close()
		if got.Error != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.field, tc.want, got.Error)
		}
	}
}

func TestCreateSnapshotValidatesExercisesShape(t *testing.T) {
	app := snapshotTestApp(newStubSnapshotStore())

	base := `{"workout_id":"w1","workout_type":"strength","duration_minutes":45,` +
		`"total_volume":3200,"calories_burned":410,"completed_at":"2026-08-28T18:30:00Z",` +
		`"exercises_completed":%s}`

	resp := postJSON(t, app, "/api/workout-snapshots", fmt.Sprintf(base, `{"name":"Squat"}`))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-array, got %d", resp.StatusCode)
	}

	resp = postJSON(t, app, "/api/workout-snapshots", fmt.Sprintf(base, `["Squat"]`))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for non-object element, got %d", resp.StatusCode)
	}
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Error != "exercises_completed must contain only objects" {
		t.Fatalf("unexpected error: %q", body.Error)
	}
}

func TestCreateSnapshotValidatesCompletedAt(t *testing.T) {
	store := newStubSnapshotStore()
	app := snapshotTestApp(store)

	body := `{"workout_id":"w1","workout_type":"strength","duration_minutes":45,` +
		`"total_volume":3200,"calories_burned":410,"exercises_completed":[{}],` +
		`"completed_at":"yesterday"}`
	resp := postJSON(t, app, "/api/workout-snapshots", body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad timestamp, got %d", resp.StatusCode)
	}

	// No zone offset is still accepted.
	body = `{"workout_id":"w1","workout_type":"strength","duration_minutes":45,` +
		`"total_volume":3200,"calories_burned":410,"exercises_completed":[{}],` +
		`"completed_at":"2026-08-28T18:30:00"}`
	resp = postJSON(t, app, "/api/workout-snapshots", body)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("expected 201 for offset-less timestamp, got %d", resp.StatusCode)
	}
}

func TestGetSnapshotHidesOtherUsers(t *testing.T) {
	store := newStubSnapshotStore()
	store.snapshots["s1"] = &models.WorkoutSnapshot{SnapshotID: "s1", UserID: "u1"}
	store.snapshots["s2"] = &models.WorkoutSnapshot{SnapshotID: "s2", UserID: "u2"}
	app := snapshotTestApp(store)

	req := httptest.NewRequest(http.MethodGet, "/api/workout-snapshots/s1", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 for own snapshot, got %d", resp.StatusCode)
	}

	for _, id := range []string{"s2", "missing"} {
		req = httptest.NewRequest(http.MethodGet, "/api/workout-snapshots/"+id, nil)
		resp, err = app.Test(req)
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404 for %s, got %d", id, resp.StatusCode)
		}
	}
}

func TestListSnapshotsValidatesAndForwardsPaging(t *testing.T) {
	store := newStubSnapshotStore()
	store.snapshots["s1"] = &models.WorkoutSnapshot{SnapshotID: "s1", UserID: "u1"}
	app := snapshotTestApp(store)

	req := httptest.NewRequest(http.MethodGet, "/api/workout-snapshots?limit=0", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for limit=0, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/workout-snapshots?offset=-1", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 for offset=-1, got %d", resp.StatusCode)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/workout-snapshots?limit=5&offset=10", nil)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if store.lastLimit != 5 || store.lastOffset != 10 {
		t.Fatalf("expected paging forwarded, got limit=%d offset=%d", store.lastLimit, store.lastOffset)
	}

	var body struct {
		Snapshots []models.WorkoutSnapshot `json:"snapshots"`
		Count     int                      `json:"count"`
		Total     int                      `json:"total"`
		Limit     int                      `json:"limit"`
		Offset    int                      `json:"offset"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if body.Count != 1 || body.Total != 1 || body.Limit != 5 || body.Offset != 10 {
		t.Fatalf("unexpected envelope: %+v", body)
	}
}
