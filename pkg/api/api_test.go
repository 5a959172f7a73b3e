package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowlayout/pkg/cache"
	"github.com/matzehuels/flowlayout/pkg/graph"
	"github.com/matzehuels/flowlayout/pkg/pipeline"
)

const diamondGraph = `{"nodes":[
	{"id":"A"},
	{"id":"B","level":1,"in":["A"]},
	{"id":"C","level":1,"in":["A"]},
	{"id":"D","level":2,"in":["B","C"]}
]}`

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache() error = %v", err)
	}
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(c, nil, logger)
	t.Cleanup(func() { _ = runner.Close() })
	return New(runner, opts, logger)
}

func post(t *testing.T, s *Server, path, body string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body is not JSON: %v\n%s", err, rec.Body.String())
	}
	return body.Error.Code
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"status":"ok"`) {
		t.Errorf("body = %s", rec.Body.String())
	}
	if id := rec.Header().Get(HeaderRequestID); len(id) != 36 {
		t.Errorf("generated request id = %q, want a uuid", id)
	}
}

func TestRequestIDEchoed(t *testing.T) {
	s := newTestServer(t, Options{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "trace-42")
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	if got := rec.Header().Get(HeaderRequestID); got != "trace-42" {
		t.Errorf("X-Request-ID = %q, want %q", got, "trace-42")
	}
}

func TestLayout(t *testing.T) {
	s := newTestServer(t, Options{})
	body := `{"graph":` + diamondGraph + `}`

	rec := post(t, s, "/v1/layout", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("Content-Type = %q", got)
	}
	if got := rec.Header().Get(HeaderCache); got != "miss" {
		t.Errorf("first X-Cache = %q, want miss", got)
	}

	l, err := graph.UnmarshalLayout(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("UnmarshalLayout() error = %v", err)
	}
	want := map[string][2]float64{"A": {0, 0}, "B": {-11.75, 41}, "C": {11.75, 41}, "D": {0, 82}}
	for _, n := range l.Nodes {
		w := want[n.ID]
		if n.X != w[0] || n.Y != w[1] {
			t.Errorf("node %s at (%v, %v), want (%v, %v)", n.ID, n.X, n.Y, w[0], w[1])
		}
	}

	rec = post(t, s, "/v1/layout", body)
	if got := rec.Header().Get(HeaderCache); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
}

func TestLayoutOptions(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := post(t, s, "/v1/layout", `{"graph":`+diamondGraph+`,"options":{"layout":{"min_vertical_gap":100}}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	l, _ := graph.UnmarshalLayout(rec.Body.Bytes())
	if got := l.Nodes[1].Y; got != 101 {
		t.Errorf("B.y = %v, want 101 with a 100 gap", got)
	}
}

func TestLayoutErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"bad json", `{"graph":`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"unknown field", `{"graph":{"nodes":[]},"extra":1}`, http.StatusBadRequest, "INVALID_FORMAT"},
		{"missing graph", `{}`, http.StatusBadRequest, "INVALID_INPUT"},
		{"unknown node", `{"graph":{"nodes":[{"id":"a"}],"edges":[{"from":"a","to":"ghost"}]}}`, http.StatusUnprocessableEntity, "INVALID_GRAPH_REFERENCE"},
		{"upward edge", `{"graph":{"nodes":[{"id":"a","level":1},{"id":"b"}],"edges":[{"from":"a","to":"b"}]}}`, http.StatusUnprocessableEntity, "NON_MONOTONIC_EDGE"},
		{"bad engine", `{"graph":{"nodes":[]},"options":{"engine":"force"}}`, http.StatusBadRequest, "INVALID_CONFIG"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(t, Options{})
			rec := post(t, s, "/v1/layout", tt.body)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d (body %s)", rec.Code, tt.status, rec.Body.String())
			}
			if got := errorCode(t, rec); got != tt.code {
				t.Errorf("code = %q, want %q", got, tt.code)
			}
		})
	}
}

func TestRenderFromGraph(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := post(t, s, "/v1/render", `{"graph":`+diamondGraph+`,"options":{"format":"svg"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("Content-Type = %q", got)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("<svg")) {
		t.Errorf("body does not start with <svg: %.60s", rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `id="node-D"`) {
		t.Error("svg is missing node D")
	}
}

func TestRenderFromLayout(t *testing.T) {
	s := newTestServer(t, Options{})
	layoutRec := post(t, s, "/v1/layout", `{"graph":`+diamondGraph+`}`)
	if layoutRec.Code != http.StatusOK {
		t.Fatalf("layout status = %d", layoutRec.Code)
	}

	body := fmt.Sprintf(`{"layout":%s}`, layoutRec.Body.String())
	rec := post(t, s, "/v1/render", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get(HeaderCache); got != "miss" {
		t.Errorf("X-Cache = %q, want miss", got)
	}
	rec = post(t, s, "/v1/render", body)
	if got := rec.Header().Get(HeaderCache); got != "hit" {
		t.Errorf("second X-Cache = %q, want hit", got)
	}
}

func TestRenderRequiresOneInput(t *testing.T) {
	s := newTestServer(t, Options{})
	for _, body := range []string{
		`{}`,
		`{"graph":` + diamondGraph + `,"layout":{"nodes":[]}}`,
	} {
		rec := post(t, s, "/v1/render", body)
		if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "INVALID_INPUT" {
			t.Errorf("body %.30s: status = %d, body = %s", body, rec.Code, rec.Body.String())
		}
	}
}

func TestRenderBadFormat(t *testing.T) {
	s := newTestServer(t, Options{})
	rec := post(t, s, "/v1/render", `{"graph":`+diamondGraph+`,"options":{"format":"gif"}}`)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "INVALID_CONFIG" {
		t.Errorf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestNamespaces(t *testing.T) {
	s := newTestServer(t, Options{})
	body := `{"graph":` + diamondGraph + `}`

	steps := []struct {
		ns   string
		want string
	}{
		{"team-a", "miss"},
		{"team-b", "miss"},
		{"team-a", "hit"},
	}
	for _, step := range steps {
		rec := post(t, s, "/v1/layout", body, HeaderNamespace, step.ns)
		if got := rec.Header().Get(HeaderCache); got != step.want {
			t.Errorf("namespace %s: X-Cache = %q, want %q", step.ns, got, step.want)
		}
	}

	rec := post(t, s, "/v1/layout", body, HeaderNamespace, "a/b")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid namespace: status = %d, want 400", rec.Code)
	}
}

func TestDefaultsMergedUnderRequest(t *testing.T) {
	s := newTestServer(t, Options{Defaults: pipeline.Options{Format: pipeline.FormatJSON}})
	rec := post(t, s, "/v1/render", `{"graph":`+diamondGraph+`}`)
	if got := rec.Header().Get("Content-Type"); got != "application/json" {
		t.Errorf("default format: Content-Type = %q", got)
	}
	rec = post(t, s, "/v1/render", `{"graph":`+diamondGraph+`,"options":{"format":"svg"}}`)
	if got := rec.Header().Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("override: Content-Type = %q", got)
	}
}

func TestBodyTooLarge(t *testing.T) {
	s := newTestServer(t, Options{MaxBodyBytes: 16})
	rec := post(t, s, "/v1/layout", `{"graph":`+diamondGraph+`}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestRouting(t *testing.T) {
	s := newTestServer(t, Options{})

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v2/nothing", nil))
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "NOT_FOUND" {
		t.Errorf("unknown route: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/layout", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET /v1/layout: status = %d, want 405", rec.Code)
	}
}

func TestFailMapsContextErrors(t *testing.T) {
	s := newTestServer(t, Options{})
	req := httptest.NewRequest(http.MethodPost, "/v1/layout", nil)

	rec := httptest.NewRecorder()
	s.fail(rec, req, fmt.Errorf("layout: %w", context.DeadlineExceeded))
	if rec.Code != http.StatusGatewayTimeout || errorCode(t, rec) != "TIMEOUT" {
		t.Errorf("deadline: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	s.fail(rec, req, fmt.Errorf("boom"))
	if rec.Code != http.StatusInternalServerError || errorCode(t, rec) != "INTERNAL_ERROR" {
		t.Errorf("plain error: status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if strings.Contains(rec.Body.String(), "boom") {
		t.Error("internal error details leaked to the client")
	}
}

func TestListenAndServeStopsOnCancel(t *testing.T) {
	s := newTestServer(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.ListenAndServe(ctx, "127.0.0.1:0") }()
	cancel()
	if err := <-done; err != nil {
		t.Errorf("ListenAndServe() error = %v", err)
	}
}
