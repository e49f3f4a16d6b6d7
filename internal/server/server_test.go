package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mid "github.com/sigco3111/relationship-visualizer/internal/server/middleware"
	"github.com/sigco3111/relationship-visualizer/internal/session"
	"github.com/sigco3111/relationship-visualizer/pkg/graph"
	"github.com/sigco3111/relationship-visualizer/pkg/layout"

	"github.com/labstack/echo/v4"
)

type stubAnalyzer struct {
	payload string
}

func (s stubAnalyzer) Analyze(ctx context.Context, req graph.Request) (graph.Result, error) {
	return graph.Normalize(s.payload), nil
}

type apiResponse struct {
	Message string        `json:"message"`
	Session *session.View `json:"session"`
	Result  *struct {
		Fallback       graph.FallbackKind `json:"fallback"`
		Warnings       []graph.Warning    `json:"warnings"`
		NeedsAttention bool               `json:"needs_attention"`
	} `json:"result"`
}

func newTestServer(payload string) (*echo.Echo, *mid.App) {
	app := &mid.App{
		Sessions: session.NewRegistry(layout.DefaultCanvas),
		Analyzer: stubAnalyzer{payload: payload},
	}
	return New(app), app
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, apiResponse) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var res apiResponse
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
			t.Fatalf("invalid json response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, res
}

func createSession(t *testing.T, e *echo.Echo) string {
	t.Helper()
	rec, res := do(t, e, http.MethodPost, "/api/sessions", "")
	if rec.Code != http.StatusCreated || res.Session == nil || res.Session.ID == "" {
		t.Fatalf("create session: %d %s", rec.Code, rec.Body.String())
	}
	return res.Session.ID
}

func TestHealth(t *testing.T) {
	e, _ := newTestServer("")
	rec, _ := do(t, e, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("health: %d %q", rec.Code, rec.Body.String())
	}
}

func TestCatalog(t *testing.T) {
	e, _ := newTestServer("")
	req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("catalog: %d", rec.Code)
	}
	var res struct {
		Roles []struct {
			Role  string `json:"role"`
			Color string `json:"color"`
		} `json:"roles"`
		RelationshipTypes []struct {
			Type  string `json:"type"`
			Label string `json:"label"`
		} `json:"relationship_types"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if len(res.Roles) != 4 || res.Roles[0].Role != "main" || res.Roles[0].Color != "#ff6b6b" {
		t.Fatalf("unexpected roles: %+v", res.Roles)
	}
	if len(res.RelationshipTypes) != 6 || res.RelationshipTypes[0].Label != "Family" {
		t.Fatalf("unexpected relationship types: %+v", res.RelationshipTypes)
	}
}

func TestUnknownSession(t *testing.T) {
	e, _ := newTestServer("")

	tests := []struct {
		method string
		path   string
		body   string
	}{
		{http.MethodGet, "/api/sessions/missing", ""},
		{http.MethodDelete, "/api/sessions/missing", ""},
		{http.MethodPost, "/api/sessions/missing/characters", `{"name":"A"}`},
		{http.MethodPost, "/api/sessions/missing/analyze", `{"mode":"title","input":"Hamlet"}`},
		{http.MethodPut, "/api/sessions/missing/selection", `{"node_id":""}`},
	}

	for _, tc := range tests {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			rec, _ := do(t, e, tc.method, tc.path, tc.body)
			if rec.Code != http.StatusNotFound {
				t.Fatalf("status = %d, want 404", rec.Code)
			}
		})
	}
}

func TestAddCharacter(t *testing.T) {
	e, _ := newTestServer("")
	id := createSession(t, e)
	path := "/api/sessions/" + id + "/characters"

	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "valid", body: `{"name":"Hamlet","role":"main","description":"Prince of Denmark"}`, want: http.StatusOK},
		{name: "default role", body: `{"name":"Horatio"}`, want: http.StatusOK},
		{name: "empty name", body: `{"name":"","role":"main"}`, want: http.StatusBadRequest},
		{name: "blank name", body: `{"name":"   "}`, want: http.StatusBadRequest},
		{name: "unknown role", body: `{"name":"Ghost","role":"spirit"}`, want: http.StatusBadRequest},
		{name: "duplicate", body: `{"name":"Hamlet"}`, want: http.StatusConflict},
		{name: "malformed body", body: `{"name":`, want: http.StatusBadRequest},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec, _ := do(t, e, http.MethodPost, path, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}

	_, res := do(t, e, http.MethodGet, "/api/sessions/"+id, "")
	if len(res.Session.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(res.Session.Nodes))
	}
	if res.Session.Characters[1].Role != "main" {
		t.Fatalf("default role = %q, want main", res.Session.Characters[1].Role)
	}
}

func TestRelationshipAndPointerFlow(t *testing.T) {
	e, _ := newTestServer("")
	id := createSession(t, e)
	base := "/api/sessions/" + id

	do(t, e, http.MethodPost, base+"/characters", `{"name":"A"}`)
	do(t, e, http.MethodPost, base+"/characters", `{"name":"B"}`)

	rec, res := do(t, e, http.MethodPost, base+"/relationships", `{"from":"A","to":"Z","type":"enemy"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("add relationship: %d %s", rec.Code, rec.Body.String())
	}
	if len(res.Session.Relationships) != 1 || len(res.Session.Links) != 0 {
		t.Fatalf("dangling relationship: relationships=%d links=%d", len(res.Session.Relationships), len(res.Session.Links))
	}

	rec, _ = do(t, e, http.MethodPost, base+"/relationships", `{"from":"","to":"B"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty endpoint: status = %d, want 400", rec.Code)
	}

	rec, _ = do(t, e, http.MethodPost, base+"/pointer", `{"event":"down"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("down without node: status = %d, want 400", rec.Code)
	}
	rec, _ = do(t, e, http.MethodPost, base+"/pointer", `{"event":"hover"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown event: status = %d, want 400", rec.Code)
	}

	do(t, e, http.MethodPost, base+"/pointer", `{"event":"down","node_id":"A","origin_x":10,"origin_y":20}`)
	_, res = do(t, e, http.MethodPost, base+"/pointer", `{"event":"move","x":160,"y":140}`)
	if res.Session.Dragging != "A" {
		t.Fatalf("dragging = %q, want A", res.Session.Dragging)
	}
	_, res = do(t, e, http.MethodPost, base+"/pointer", `{"event":"up"}`)
	if res.Session.Dragging != "" {
		t.Fatalf("still dragging %q", res.Session.Dragging)
	}
	if res.Session.Nodes[0].X != 150 || res.Session.Nodes[0].Y != 120 {
		t.Fatalf("node A = (%v,%v), want (150,120)", res.Session.Nodes[0].X, res.Session.Nodes[0].Y)
	}

	_, res = do(t, e, http.MethodPut, base+"/selection", `{"node_id":"B"}`)
	if res.Session.Selected != "B" {
		t.Fatalf("selected = %q, want B", res.Session.Selected)
	}
	rec, _ = do(t, e, http.MethodPut, base+"/selection", `{"node_id":"Z"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("select unknown: status = %d, want 404", rec.Code)
	}
}

func TestAnalyze(t *testing.T) {
	t.Run("applied", func(t *testing.T) {
		e, _ := newTestServer("```json\n{\"characters\":[{\"name\":\"A\",\"role\":\"main\",\"description\":\"d\"}],\"relationships\":[]}\n```")
		id := createSession(t, e)

		rec, res := do(t, e, http.MethodPost, "/api/sessions/"+id+"/analyze", `{"mode":"title","input":"Hamlet"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("analyze: %d %s", rec.Code, rec.Body.String())
		}
		if res.Result.NeedsAttention || res.Result.Fallback != graph.FallbackNone {
			t.Fatalf("unexpected result: %+v", res.Result)
		}
		if len(res.Session.Nodes) != 1 || res.Session.Nodes[0].ID != "A" {
			t.Fatalf("unexpected nodes: %+v", res.Session.Nodes)
		}
	})

	t.Run("fallback", func(t *testing.T) {
		e, _ := newTestServer("not json at all")
		id := createSession(t, e)

		rec, res := do(t, e, http.MethodPost, "/api/sessions/"+id+"/analyze", `{"mode":"content","input":"A story."}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("analyze: %d %s", rec.Code, rec.Body.String())
		}
		if !res.Result.NeedsAttention || res.Result.Fallback != graph.FallbackParse {
			t.Fatalf("unexpected result: %+v", res.Result)
		}
		if len(res.Session.Nodes) != 2 {
			t.Fatalf("got %d nodes, want 2", len(res.Session.Nodes))
		}
		if res.Message != res.Result.Warnings[0].Message {
			t.Fatalf("advisory not surfaced as message: %q", res.Message)
		}
	})

	t.Run("invalid body", func(t *testing.T) {
		e, _ := newTestServer("")
		id := createSession(t, e)

		for _, body := range []string{`{"mode":"poem","input":"x"}`, `{"mode":"title","input":""}`} {
			rec, _ := do(t, e, http.MethodPost, "/api/sessions/"+id+"/analyze", body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("%s: status = %d, want 400", body, rec.Code)
			}
		}
	})
}

func TestCancelAndDeleteSession(t *testing.T) {
	e, app := newTestServer("")
	id := createSession(t, e)

	rec, res := do(t, e, http.MethodDelete, "/api/sessions/"+id+"/analyze", "")
	if rec.Code != http.StatusOK || res.Message != "No analysis pending" {
		t.Fatalf("cancel: %d %q", rec.Code, res.Message)
	}

	rec, _ = do(t, e, http.MethodDelete, "/api/sessions/"+id, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	if app.Sessions.Len() != 0 {
		t.Fatalf("session still registered")
	}
}

func TestMetrics(t *testing.T) {
	e, _ := newTestServer("")
	createSession(t, e)

	req := httptest.NewRequest(http.MethodGet, "/api/metrics", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var res struct {
		Sessions int `json:"sessions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if rec.Code != http.StatusOK || res.Sessions != 1 {
		t.Fatalf("metrics: %d %+v", rec.Code, res)
	}
}

func TestMasterAPIKey(t *testing.T) {
	e, app := newTestServer("")
	app.MasterAPIKey = "secret"

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "missing header", want: http.StatusUnauthorized},
		{name: "wrong key", header: "Bearer nope", want: http.StatusUnauthorized},
		{name: "master key", header: "Bearer secret", want: http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/catalog", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
		})
	}

	rec, _ := do(t, e, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health must not require auth, got %d", rec.Code)
	}
}
