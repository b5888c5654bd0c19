package handlers

import (
	"context"
	"encoding/json"
	"intersect-service/internal/adapters/repositories"
	"intersect-service/internal/domain"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func post(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) (msg, kind string) {
	t.Helper()
	var body struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return body.Error, body.Kind
}

func TestSolveCircleCircle(t *testing.T) {
	h := &SolveHandler{Config: domain.DefaultSolverConfig()}

	rec := post(t, h.Solve, `{
		"observations": [
			{"id":"c1","kind":"distance","x":0,"y":0,"measured":5},
			{"id":"c2","kind":"circle","x":6,"y":0,"measured":5}
		],
		"guess": {"x":3,"y":10}
	}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var sol struct {
		Point struct{ X, Y float64 }
		Method    string
		Residuals []struct {
			Weight float64 `json:"weight"`
		}
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sol); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sol.Method != "circle-circle" {
		t.Fatalf("method = %q, want circle-circle", sol.Method)
	}
	if d := (sol.Point.X-3)*(sol.Point.X-3) + (sol.Point.Y-4)*(sol.Point.Y-4); d > 1e-12 {
		t.Fatalf("point = (%v, %v), want (3, 4)", sol.Point.X, sol.Point.Y)
	}
	// Missing precision falls back to the distance default 0.025.
	if len(sol.Residuals) != 2 || sol.Residuals[0].Weight != 1/(0.025*0.025) {
		t.Fatalf("residuals = %+v, want 2 with weight %v", sol.Residuals, 1/(0.025*0.025))
	}
}

func TestSolveWithoutGuessStartsFromStationCentroid(t *testing.T) {
	h := &SolveHandler{Config: domain.DefaultSolverConfig()}

	// A station sits at the origin, so a zero-valued guess would land on it.
	rec := post(t, h.Solve, `{"observations":[
		{"id":"a","kind":"distance","x":0,"y":0,"measured":50},
		{"id":"b","kind":"distance","x":100,"y":0,"measured":80.62257748298549},
		{"id":"c","kind":"distance","x":50,"y":100,"measured":63.245553203367585}
	]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var sol struct {
		Point     struct{ X, Y float64 }
		Converged bool
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sol); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !sol.Converged {
		t.Fatalf("converged = false, want true")
	}
	if math.Abs(sol.Point.X-30) > 1e-6 || math.Abs(sol.Point.Y-40) > 1e-6 {
		t.Fatalf("point = (%v, %v), want (30, 40)", sol.Point.X, sol.Point.Y)
	}

	rec = post(t, h.Batch, `{"problems":[{"observations":[
		{"id":"a","kind":"distance","x":0,"y":0,"measured":50},
		{"id":"b","kind":"distance","x":100,"y":0,"measured":80.62257748298549},
		{"id":"c","kind":"distance","x":50,"y":100,"measured":63.245553203367585}
	]}]}`)
	if rec.Code != http.StatusOK || strings.Contains(rec.Body.String(), "singular_system") {
		t.Fatalf("batch without guess: status = %d body = %s", rec.Code, rec.Body.String())
	}
}

func TestSolveErrorMapping(t *testing.T) {
	h := &SolveHandler{Config: domain.DefaultSolverConfig()}

	tests := []struct {
		name   string
		body   string
		status int
		kind   string
	}{
		{
			name:   "single observation",
			body:   `{"observations":[{"id":"a","kind":"distance","x":0,"y":0,"measured":5}]}`,
			status: http.StatusBadRequest,
			kind:   "invalid_input",
		},
		{
			name: "disjoint circles",
			body: `{"observations":[
				{"id":"a","kind":"distance","x":0,"y":0,"measured":1},
				{"id":"b","kind":"distance","x":10,"y":0,"measured":1}]}`,
			status: http.StatusUnprocessableEntity,
			kind:   "no_intersection",
		},
		{
			name: "parallel rays",
			body: `{"observations":[
				{"id":"a","kind":"direction","x":0,"y":0,"measured":0},
				{"id":"b","kind":"direction","x":5,"y":0,"measured":0}]}`,
			status: http.StatusUnprocessableEntity,
			kind:   "parallel_lines",
		},
		{
			name: "negative precision",
			body: `{"observations":[
				{"id":"a","kind":"distance","x":0,"y":0,"measured":5,"precision":-1},
				{"id":"b","kind":"distance","x":6,"y":0,"measured":5}]}`,
			status: http.StatusBadRequest,
			kind:   "invalid_input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(t, h.Solve, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (body=%s)", rec.Code, tt.status, rec.Body.String())
			}
			if _, kind := decodeError(t, rec); kind != tt.kind {
				t.Fatalf("kind = %q, want %q", kind, tt.kind)
			}
		})
	}
}

func TestSolveRejectsMalformedBodies(t *testing.T) {
	h := &SolveHandler{Config: domain.DefaultSolverConfig()}

	for _, body := range []string{
		`not json`,
		`{"observations":[],"unknown":1}`,
		`{"observations":[]} {"observations":[]}`,
		`{"observations":[{"id":"a","kind":"bearing","x":0,"y":0,"measured":1}]}`,
	} {
		rec := post(t, h.Solve, body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: status = %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
	}

	rec := httptest.NewRecorder()
	h.Solve(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}

func TestSolveRequireConverged(t *testing.T) {
	cfg := domain.DefaultSolverConfig()
	cfg.MaxIterations = 1
	h := &SolveHandler{Config: cfg}

	// Three inconsistent distances started far away cannot settle in one step.
	body := `{
		"observations": [
			{"id":"a","kind":"distance","x":0,"y":0,"measured":70},
			{"id":"b","kind":"distance","x":100,"y":0,"measured":70},
			{"id":"c","kind":"distance","x":50,"y":100,"measured":60}
		],
		"guess": {"x":-300,"y":400},
		"require_converged": true
	}`

	rec := post(t, h.Solve, body)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusUnprocessableEntity, rec.Body.String())
	}
	if _, kind := decodeError(t, rec); kind != "non_convergence" {
		t.Fatalf("kind = %q, want non_convergence", kind)
	}

	rec = post(t, h.Solve, strings.Replace(body, `"require_converged": true`, `"require_converged": false`, 1))
	if rec.Code != http.StatusOK {
		t.Fatalf("status without requirement = %d, want %d", rec.Code, http.StatusOK)
	}
	var sol struct {
		Converged bool `json:"converged"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &sol); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sol.Converged {
		t.Fatalf("converged = true, want false")
	}
}

func TestBatchKeepsPerProblemErrors(t *testing.T) {
	h := &SolveHandler{Config: domain.DefaultSolverConfig()}

	rec := post(t, h.Batch, `{"problems":[
		{"observations":[
			{"id":"c1","kind":"distance","x":0,"y":0,"measured":5},
			{"id":"c2","kind":"distance","x":6,"y":0,"measured":5}],
		 "guess":{"x":3,"y":-10}},
		{"observations":[
			{"id":"a","kind":"distance","x":0,"y":0,"measured":1},
			{"id":"b","kind":"distance","x":10,"y":0,"measured":1}]}
	]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusOK, rec.Body.String())
	}

	var res struct {
		Results []struct {
			Solution *struct {
				Point struct{ X, Y float64 }
			}
			Error string
			Kind  string
		}
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(res.Results) != 2 {
		t.Fatalf("results = %d, want 2", len(res.Results))
	}
	if res.Results[0].Solution == nil || res.Results[0].Solution.Point.Y > 0 {
		t.Fatalf("first result = %+v, want solution near (3, -4)", res.Results[0])
	}
	if res.Results[1].Solution != nil || res.Results[1].Kind != "no_intersection" {
		t.Fatalf("second result = %+v, want no_intersection error", res.Results[1])
	}
}

func TestObservationsSaveAndList(t *testing.T) {
	repo := repositories.NewMemoryObservationRepository(nil)
	h := &ObservationHandler{Repo: repo, Config: domain.DefaultSolverConfig()}

	rec := post(t, h.Handle, `{"observations":[
		{"id":"d1","kind":"orientation","x":1,"y":2,"measured":0.5},
		{"id":"c1","kind":"distance","x":0,"y":0,"measured":5,"precision":0.01}
	]}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body=%s)", rec.Code, http.StatusCreated, rec.Body.String())
	}

	stored, err := repo.ListObservations(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(stored) != 2 || stored[0].ID != "c1" || stored[1].ID != "d1" {
		t.Fatalf("stored = %+v, want c1, d1", stored)
	}
	if stored[1].Kind != domain.KindDirection || stored[1].Precision != 0.5 {
		t.Fatalf("d1 = %+v, want direction with default precision 0.5", stored[1])
	}

	rec = httptest.NewRecorder()
	h.Handle(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), `"kind":"direction"`) {
		t.Fatalf("list body = %s, want canonical kind names", rec.Body.String())
	}

	rec = post(t, h.Handle, `{"observations":[{"kind":"distance","x":0,"y":0,"measured":5}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing id status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestIntersectNeedsTwoObservations(t *testing.T) {
	repo := repositories.NewMemoryObservationRepository([]domain.Observation{
		{ID: "c1", Kind: domain.KindDistance, Origin: domain.Point{}, Measured: 5, Precision: 0.01},
	})
	h := &IntersectionHandler{Repo: repo, Config: domain.DefaultSolverConfig()}

	rec := post(t, h.Intersect, `{"x":3,"y":4,"tolerance":1}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	rec = post(t, h.Intersect, `{"x":3,"y":4,"tolerance":1,"persist":true}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("persist without store status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestObservationsDelete(t *testing.T) {
	repo := repositories.NewMemoryObservationRepository([]domain.Observation{
		{ID: "c1", Kind: domain.KindDistance, Measured: 5, Precision: 0.01},
		{ID: "c2", Kind: domain.KindDistance, Measured: 5, Precision: 0.01},
		{ID: "r1", Kind: domain.KindDirection, Measured: 1, Precision: 0.001},
	})
	h := &ObservationHandler{Repo: repo, Config: domain.DefaultSolverConfig()}

	del := func(target string) int64 {
		t.Helper()
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodDelete, target, nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("DELETE %s status = %d, want %d", target, rec.Code, http.StatusOK)
		}
		var res struct {
			Deleted int64 `json:"deleted"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("decode: %v", err)
		}
		return res.Deleted
	}

	if n := del("/observations?id=c1&id=missing"); n != 1 {
		t.Fatalf("deleted = %d, want 1", n)
	}
	left, err := repo.ListObservations(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 2 || left[0].ID != "c2" || left[1].ID != "r1" {
		t.Fatalf("left = %+v, want c2, r1", left)
	}

	if n := del("/observations"); n != 2 {
		t.Fatalf("deleted = %d, want 2", n)
	}
	left, err = repo.ListObservations(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(left) != 0 {
		t.Fatalf("left = %+v, want none", left)
	}
}
