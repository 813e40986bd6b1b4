package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/francojjuarez61-dev/Barber-turnos/internal/models"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/projection"
	"github.com/francojjuarez61-dev/Barber-turnos/internal/scheduler"
)

var art = time.FixedZone("ART", -3*60*60)

type failingSaver struct{}

func (failingSaver) SaveState(models.State) error { return errors.New("disk full") }

func newTestShop(t *testing.T, saver scheduler.Saver) *scheduler.Scheduler {
	t.Helper()
	n := 0
	return scheduler.New(saver,
		scheduler.WithClock(func() time.Time { return time.Date(2026, time.March, 10, 9, 0, 0, 0, art) }),
		scheduler.WithIDGenerator(func() string { n++; return "job-" + string(rune('0'+n)) }),
	)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeMutation(t *testing.T, w *httptest.ResponseRecorder) MutationResponse {
	t.Helper()
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var resp MutationResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json: %v", err)
	}
	return resp
}

func TestHealthz(t *testing.T) {
	h := NewMux(newTestShop(t, nil), Options{})
	w := do(t, h, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
}

func TestServicesHandler(t *testing.T) {
	h := NewMux(newTestShop(t, nil), Options{})
	w := do(t, h, http.MethodGet, "/api/services", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body struct {
		Services []struct {
			ID       string `json:"id"`
			Category string `json:"category"`
		} `json:"services"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if len(body.Services) != 5 || body.Services[0].ID != "haircut" {
		t.Fatalf("unexpected services: %+v", body.Services)
	}
}

func TestAddJob_StartThenQueue(t *testing.T) {
	h := NewMux(newTestShop(t, nil), Options{})

	resp := decodeMutation(t, do(t, h, http.MethodPost, "/api/jobs", `{"service":"haircut","speed":"normal"}`))
	if resp.Result.Placement != scheduler.PlacementActive || !resp.Result.Changed {
		t.Fatalf("first job: %+v", resp.Result)
	}
	if resp.Projection.Level != projection.OnTime {
		t.Errorf("level = %s, want on_time", resp.Projection.Level)
	}

	resp = decodeMutation(t, do(t, h, http.MethodPost, "/api/jobs", `{"service":"haircut_beard","speed":"slow","mode":"start"}`))
	if resp.Result.Placement != scheduler.PlacementQueued {
		t.Fatalf("start while busy should queue: %+v", resp.Result)
	}
	if len(resp.Projection.Queue) != 1 {
		t.Fatalf("queue ETAs = %+v", resp.Projection.Queue)
	}
	want := time.Date(2026, time.March, 10, 10, 55, 0, 0, art)
	if got := resp.Projection.Queue[0].End; !got.Equal(want) {
		t.Errorf("queued ETA end = %v, want %v", got, want)
	}

	resp = decodeMutation(t, do(t, h, http.MethodPost, "/api/jobs", `{"service":"color","mode":"queue"}`))
	if resp.Result.Placement != scheduler.PlacementParallel {
		t.Errorf("parallel service should be routed to the parallel set: %+v", resp.Result)
	}
}

func TestAddJob_Validation(t *testing.T) {
	h := NewMux(newTestShop(t, nil), Options{MaxBodyBytes: 64})

	tests := []struct {
		name        string
		body        string
		contentType string
		wantStatus  int
		wantError   string
	}{
		{"unknown service", `{"service":"shave"}`, "application/json", http.StatusBadRequest, `unknown service "shave"`},
		{"missing service", `{}`, "application/json", http.StatusBadRequest, "service is required"},
		{"bad mode", `{"service":"haircut","mode":"later"}`, "application/json", http.StatusBadRequest, "mode must be"},
		{"bad json", `{`, "application/json", http.StatusBadRequest, "invalid JSON body"},
		{"too large", `{"service":"` + strings.Repeat("x", 100) + `"}`, "application/json", http.StatusBadRequest, "invalid JSON body"},
		{"wrong content type", `{"service":"haircut"}`, "text/plain", http.StatusUnsupportedMediaType, "Content-Type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/jobs", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", tt.contentType)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Fatalf("status=%d want %d body=%s", w.Code, tt.wantStatus, w.Body.String())
			}
			var body ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("json: %v", err)
			}
			if !strings.Contains(body.Error, tt.wantError) || body.Code != tt.wantStatus {
				t.Errorf("error body = %+v", body)
			}
		})
	}

	w := do(t, h, http.MethodPost, "/api/jobs", `{"service":"shave"}`)
	var body ErrorResponse
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if len(body.Valid) != 5 {
		t.Errorf("valid ids = %v", body.Valid)
	}
}

func TestStartParallel(t *testing.T) {
	h := NewMux(newTestShop(t, nil), Options{})

	resp := decodeMutation(t, do(t, h, http.MethodPost, "/api/parallel", `{"service":"perm"}`))
	if resp.Result.Placement != scheduler.PlacementParallel || len(resp.Projection.Parallel) != 1 {
		t.Fatalf("perm: %+v", resp)
	}

	resp = decodeMutation(t, do(t, h, http.MethodPost, "/api/parallel", `{"service":"haircut"}`))
	if resp.Result.Changed || resp.Result.Message != scheduler.MsgNotParallel {
		t.Errorf("sequential service in parallel: %+v", resp.Result)
	}
}

func TestQueueLifecycle(t *testing.T) {
	shop := newTestShop(t, nil)
	h := NewMux(shop, Options{})

	for _, svc := range []string{"haircut", "haircut", "haircut_sealing", "haircut_beard"} {
		decodeMutation(t, do(t, h, http.MethodPost, "/api/jobs", `{"service":"`+svc+`"}`))
	}
	// job-1 in the chair, job-2..job-4 queued

	resp := decodeMutation(t, do(t, h, http.MethodPost, "/api/queue/job-4/up", ""))
	if !resp.Result.Changed {
		t.Fatalf("up: %+v", resp.Result)
	}
	resp = decodeMutation(t, do(t, h, http.MethodPost, "/api/queue/job-2/up", ""))
	if resp.Result.Changed || resp.Result.Message != scheduler.MsgAtEdge {
		t.Errorf("head up should be a no-op: %+v", resp.Result)
	}
	resp = decodeMutation(t, do(t, h, http.MethodDelete, "/api/queue/job-3", ""))
	if !resp.Result.Changed {
		t.Fatalf("remove: %+v", resp.Result)
	}

	st, _ := shop.Read()
	got := []string{}
	for _, j := range st.Queue {
		got = append(got, j.ID)
	}
	if strings.Join(got, ",") != "job-2,job-4" {
		t.Errorf("queue = %v, want [job-2 job-4]", got)
	}

	decodeMutation(t, do(t, h, http.MethodPost, "/api/active/finish", ""))
	resp = decodeMutation(t, do(t, h, http.MethodPost, "/api/next", ""))
	if resp.Result.JobID != "job-2" || resp.Result.Placement != scheduler.PlacementActive {
		t.Errorf("next: %+v", resp.Result)
	}

	resp = decodeMutation(t, do(t, h, http.MethodPost, "/api/reset", ""))
	if !resp.Result.Changed || len(resp.Projection.Queue) != 0 {
		t.Errorf("reset: %+v", resp)
	}
}

func TestUnknownIDIsNoop(t *testing.T) {
	h := NewMux(newTestShop(t, nil), Options{})
	for _, path := range []string{"/api/parallel/nope/finish", "/api/queue/nope/down"} {
		resp := decodeMutation(t, do(t, h, http.MethodPost, path, ""))
		if resp.Result.Changed || resp.Result.Message != scheduler.MsgNotFound {
			t.Errorf("%s: %+v", path, resp.Result)
		}
	}
}

func TestSaveFailureIsWarning(t *testing.T) {
	h := NewMux(newTestShop(t, failingSaver{}), Options{})
	resp := decodeMutation(t, do(t, h, http.MethodPost, "/api/jobs", `{"service":"haircut"}`))
	if !resp.Result.Changed {
		t.Fatalf("change should be applied in memory: %+v", resp.Result)
	}
	if !strings.Contains(resp.Warning, "disk full") {
		t.Errorf("warning = %q", resp.Warning)
	}

	w := do(t, h, http.MethodGet, "/api/state", "")
	var board Board
	if err := json.Unmarshal(w.Body.Bytes(), &board); err != nil {
		t.Fatalf("json: %v", err)
	}
	if board.State.Active == nil {
		t.Error("state should keep the unsaved change")
	}
}

func TestStateAndProjection(t *testing.T) {
	shop := newTestShop(t, nil)
	h := NewMux(shop, Options{})
	decodeMutation(t, do(t, h, http.MethodPost, "/api/jobs", `{"service":"haircut"}`))

	w := do(t, h, http.MethodGet, "/api/state", "")
	var board Board
	if err := json.Unmarshal(w.Body.Bytes(), &board); err != nil {
		t.Fatalf("json: %v", err)
	}
	if board.Status != "Everything fits inside the shift." {
		t.Errorf("status = %q", board.Status)
	}
	if board.Projection.Shift.Key != "morning" || !board.Projection.Shift.Upcoming {
		t.Errorf("shift = %+v", board.Projection.Shift)
	}

	w = do(t, h, http.MethodGet, "/api/projection", "")
	var p projection.Projection
	if err := json.Unmarshal(w.Body.Bytes(), &p); err != nil {
		t.Fatalf("json: %v", err)
	}
	want := time.Date(2026, time.March, 10, 10, 0, 0, 0, art)
	if !p.ProjectedEnd.Equal(want) {
		t.Errorf("projected end = %v, want %v", p.ProjectedEnd, want)
	}
}

func TestCORSPreflight(t *testing.T) {
	h := NewMux(newTestShop(t, nil), Options{CORSOrigins: []string{"http://shop.local"}})
	req := httptest.NewRequest(http.MethodOptions, "/api/jobs", nil)
	req.Header.Set("Origin", "http://shop.local")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://shop.local" {
		t.Fatalf("Access-Control-Allow-Origin = %q", got)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.Header.Set("Origin", "http://evil.example")
	h.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin allowed: %q", got)
	}
}

func TestSecurityHeader(t *testing.T) {
	h := NewMux(newTestShop(t, nil), Options{})
	w := do(t, h, http.MethodGet, "/api/state", "")
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}
}

func TestAccessLog(t *testing.T) {
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf))
	defer func() { zlog = nil }()

	h := NewMux(newTestShop(t, nil), Options{LogRequests: true})
	do(t, h, http.MethodPost, "/api/jobs", `{"service":"haircut"}`)

	out := buf.String()
	for _, want := range []string{`"intent":"start"`, `"path":"/api/jobs"`, `"status":200`} {
		if !strings.Contains(out, want) {
			t.Errorf("log missing %s: %s", want, out)
		}
	}
}
