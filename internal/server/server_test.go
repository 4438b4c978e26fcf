package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/matzehuels/archdraw/pkg/cache"
	"github.com/matzehuels/archdraw/pkg/config"
	"github.com/matzehuels/archdraw/pkg/errors"
	"github.com/matzehuels/archdraw/pkg/pipeline"
)

const doc = `{
  "services": [
    {"id": "api", "title": "API", "icon": "server"},
    {"id": "db", "icon": "database"}
  ],
  "edges": [{"source": "api", "target": "db"}]
}`

func newTestServer(t *testing.T, cfg config.Values) *httptest.Server {
	t.Helper()
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := pipeline.NewRunner(fc, nil, nil)
	if cfg == nil {
		cfg = config.Merge(config.Defaults(), config.Values{config.KeyTextMetrics: config.MetricsApprox})
	}
	ts := httptest.NewServer(New(runner, Options{Config: cfg}).Handler())
	t.Cleanup(func() {
		ts.Close()
		runner.Close()
	})
	return ts
}

func post(t *testing.T, ts *httptest.Server, query, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+"/render"+query, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeError(t *testing.T, resp *http.Response) errorBody {
	t.Helper()
	var body errorBody
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]string
	json.NewDecoder(resp.Body).Decode(&body)
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want ok", body["status"])
	}
	if _, err := uuid.Parse(resp.Header.Get(HeaderRequestID)); err != nil {
		t.Errorf("%s = %q, want a uuid", HeaderRequestID, resp.Header.Get(HeaderRequestID))
	}
}

func TestRequestIDEchoed(t *testing.T) {
	ts := newTestServer(t, nil)
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/healthz", nil)
	req.Header.Set(HeaderRequestID, "trace-42")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if got := resp.Header.Get(HeaderRequestID); got != "trace-42" {
		t.Errorf("%s = %q, want trace-42", HeaderRequestID, got)
	}
}

func TestIcons(t *testing.T) {
	ts := newTestServer(t, nil)
	resp, err := http.Get(ts.URL + "/icons")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()

	var body map[string][]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	found := false
	for _, name := range body["icons"] {
		if name == "database" {
			found = true
		}
	}
	if !found {
		t.Errorf("icons = %v, want database listed", body["icons"])
	}
}

func TestRenderSVG(t *testing.T) {
	ts := newTestServer(t, nil)

	resp := post(t, ts, "?engine=grid", doc)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200: %+v", resp.StatusCode, decodeError(t, resp))
	}
	if got := resp.Header.Get("Content-Type"); got != "image/svg+xml" {
		t.Errorf("Content-Type = %q, want image/svg+xml", got)
	}
	if got := resp.Header.Get(HeaderCache); got != "miss" {
		t.Errorf("%s = %q, want miss", HeaderCache, got)
	}
	if _, err := uuid.Parse(resp.Header.Get(HeaderRenderID)); err != nil {
		t.Errorf("%s is not a uuid", HeaderRenderID)
	}

	again := post(t, ts, "?engine=grid", doc)
	if got := again.Header.Get(HeaderCache); got != "hit" {
		t.Errorf("second %s = %q, want hit", HeaderCache, got)
	}
}

func TestRenderJSON(t *testing.T) {
	ts := newTestServer(t, nil)
	resp := post(t, ts, "?engine=grid&format=json", doc)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["registry"]; !ok {
		t.Errorf("json artifact keys = %v, want registry", body)
	}
}

func TestRenderErrors(t *testing.T) {
	tests := []struct {
		name   string
		cfg    config.Values
		query  string
		body   string
		status int
		code   errors.Code
	}{
		{"bad format", nil, "?format=gif", doc, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"bad engine", nil, "?engine=elk", doc, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad scale", nil, "?scale=big", doc, http.StatusBadRequest, errors.ErrCodeInvalidInput},
		{"bad json", nil, "?engine=grid", "{", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"unknown endpoint", nil, "?engine=grid",
			`{"services":[{"id":"a"}],"edges":[{"source":"a","target":"b"}]}`,
			http.StatusBadRequest, errors.ErrCodeUnknownEntity},
		{"missing icon size", config.Values{}, "?engine=grid", doc, http.StatusUnprocessableEntity, errors.ErrCodeConfigMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, tt.cfg)
			resp := post(t, ts, tt.query, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if body := decodeError(t, resp); body.Code != string(tt.code) {
				t.Errorf("code = %q, want %s (%s)", body.Code, tt.code, body.Error)
			}
		})
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errors.New(errors.ErrCodeDuplicateID, "dup"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeInvalidConfig, "cfg"), http.StatusBadRequest},
		{errors.New(errors.ErrCodeLayoutFailure, "layout"), http.StatusUnprocessableEntity},
		{errors.New(errors.ErrCodeNotFound, "nf"), http.StatusNotFound},
		{errors.New(errors.ErrCodeUnsupported, "pdf"), http.StatusNotImplemented},
		{fmt.Errorf("layout: %w", errors.New(errors.ErrCodeLayoutFailure, "x")), http.StatusUnprocessableEntity},
		{fmt.Errorf("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := Status(tt.err); got != tt.want {
			t.Errorf("Status(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
