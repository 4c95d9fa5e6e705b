package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/harnesskit/pkg/errors"
	"github.com/matzehuels/harnesskit/pkg/observability"
	"github.com/matzehuels/harnesskit/pkg/pipeline"
	"github.com/matzehuels/harnesskit/pkg/store"
	"github.com/matzehuels/harnesskit/pkg/validate"
)

const jumperTOML = `
name = "Jumper"

[[components]]
kind = "connector"
mpn = "43025-0200"
manufacturer = "Molex"
positions = 2

[[components]]
kind = "connector"
mpn = "43025-0200"
manufacturer = "Molex"
positions = 2

[[connections]]
end1 = "X1.1"
end2 = "X2.1"
wire = {mpn = "UL1007-22-RD", manufacturer = "Alpha Wire", awg = 22, color = "red"}
`

func newTestServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	logger := log.NewWithOptions(io.Discard, log.Options{})
	srv := New(pipeline.NewRunner(nil, logger), nil, opts...)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func do(t *testing.T, method, url, contentType, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequestWithContext(context.Background(), method, url, strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return resp, string(data)
}

func errorCode(t *testing.T, body string) errors.Code {
	t.Helper()
	var eb errorBody
	if err := json.Unmarshal([]byte(body), &eb); err != nil {
		t.Fatalf("decode error body %q: %v", body, err)
	}
	return eb.Error.Code
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, http.MethodGet, ts.URL+"/healthz", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if !strings.Contains(body, `"status": "ok"`) {
		t.Errorf("body = %s", body)
	}
}

func TestValidate(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, http.MethodPost, ts.URL+"/v1/validate", "application/toml", jumperTOML)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var res validate.Result
	if err := json.Unmarshal([]byte(body), &res); err != nil {
		t.Fatal(err)
	}
	if !res.Valid || len(res.Errors) != 0 || len(res.Warnings) != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestValidateErrors(t *testing.T) {
	ts := newTestServer(t)
	tests := []struct {
		name        string
		query       string
		contentType string
		body        string
		status      int
		code        errors.Code
	}{
		{"malformed toml", "", "application/toml", "name = ", http.StatusBadRequest, errors.ErrCodeInvalidFormat},
		{"unknown format param", "?format=xml", "", jumperTOML, http.StatusUnsupportedMediaType, errors.ErrCodeUnsupported},
		{"unknown content type", "", "image/png", jumperTOML, http.StatusUnsupportedMediaType, errors.ErrCodeUnsupported},
		{"format param wins", "?format=json", "application/toml", jumperTOML, http.StatusBadRequest, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodPost, ts.URL+"/v1/validate"+tt.query, tt.contentType, tt.body)
			if resp.StatusCode != tt.status {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.status)
			}
			if code := errorCode(t, body); code != tt.code {
				t.Errorf("code = %s, want %s", code, tt.code)
			}
		})
	}
}

func TestExport(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, http.MethodPost, ts.URL+"/v1/export?format=toml", "", jumperTOML)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"bom", "data"} {
		if _, ok := doc[key]; !ok {
			t.Errorf("document has no %q", key)
		}
	}
}

func TestExportStrict(t *testing.T) {
	ts := newTestServer(t)
	empty := `name = "Empty"`

	resp, body := do(t, http.MethodPost, ts.URL+"/v1/export?strict=true", "application/toml", empty)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Errorf("strict status = %d, want 422", resp.StatusCode)
	}
	if code := errorCode(t, body); code != errors.ErrCodeValidationFailed {
		t.Errorf("code = %s", code)
	}

	resp, _ = do(t, http.MethodPost, ts.URL+"/v1/export", "application/toml", empty)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("lenient status = %d, want 200", resp.StatusCode)
	}
}

func TestDiagramDOT(t *testing.T) {
	ts := newTestServer(t)
	resp, body := do(t, http.MethodPost, ts.URL+"/v1/diagram?output=dot", "application/toml", jumperTOML)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/vnd.graphviz") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.HasPrefix(body, "digraph G {") {
		t.Errorf("body = %q", body)
	}

	resp, _ = do(t, http.MethodPost, ts.URL+"/v1/diagram?output=png", "application/toml", jumperTOML)
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("png status = %d", resp.StatusCode)
	}
}

func TestDocuments(t *testing.T) {
	ts := newTestServer(t, WithStore(store.NewMemoryStore()))
	base := ts.URL + "/v1/documents"

	resp, body := do(t, http.MethodPut, base+"/jumper", "application/toml", jumperTOML)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("put status = %d: %s", resp.StatusCode, body)
	}
	var info store.Info
	if err := json.Unmarshal([]byte(body), &info); err != nil {
		t.Fatal(err)
	}
	if info.Key != "jumper" || info.Size == 0 || info.Hash == "" {
		t.Errorf("info = %+v", info)
	}

	resp, body = do(t, http.MethodGet, base+"/", "", "")
	var infos []store.Info
	if err := json.Unmarshal([]byte(body), &infos); err != nil || resp.StatusCode != http.StatusOK {
		t.Fatalf("list = %d %s", resp.StatusCode, body)
	}
	if len(infos) != 1 || infos[0].Key != "jumper" {
		t.Errorf("list = %+v", infos)
	}

	resp, body = do(t, http.MethodGet, base+"/jumper", "", "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(body, `"mapping"`) {
		t.Errorf("get = %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, http.MethodDelete, base+"/jumper", "", "")
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d", resp.StatusCode)
	}

	resp, body = do(t, http.MethodGet, base+"/jumper", "", "")
	if resp.StatusCode != http.StatusNotFound || errorCode(t, body) != errors.ErrCodeNotFound {
		t.Errorf("get after delete = %d %s", resp.StatusCode, body)
	}

	resp, _ = do(t, http.MethodPut, base+"/.hidden", "application/toml", jumperTOML)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad key status = %d", resp.StatusCode)
	}
}

func TestDocumentsDisabled(t *testing.T) {
	ts := newTestServer(t)
	resp, _ := do(t, http.MethodGet, ts.URL+"/v1/documents/", "", "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404 without a store", resp.StatusCode)
	}
}

func TestBodyLimit(t *testing.T) {
	ts := newTestServer(t, WithMaxBody(16))
	resp, body := do(t, http.MethodPost, ts.URL+"/v1/validate", "application/toml", jumperTOML)
	if resp.StatusCode != http.StatusBadRequest || errorCode(t, body) != errors.ErrCodeInvalidInput {
		t.Errorf("response = %d %s", resp.StatusCode, body)
	}
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()
	m.Install()
	defer observability.Reset()

	ts := newTestServer(t, WithMetrics(m))
	do(t, http.MethodPost, ts.URL+"/v1/validate", "application/toml", jumperTOML)

	resp, body := do(t, http.MethodGet, ts.URL+"/metrics", "", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	for _, want := range []string{
		`harnesskit_validations_total{result="valid"} 1`,
		`harnesskit_design_loads_total{format="toml",result="ok"} 1`,
		`harnesskit_http_requests_total{method="POST",route="/v1/validate",status="200"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %s", want)
		}
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code errors.Code
		want int
	}{
		{errors.ErrCodeInvalidFormat, http.StatusBadRequest},
		{errors.ErrCodeDuplicateIdentifier, http.StatusBadRequest},
		{errors.ErrCodeValidationFailed, http.StatusUnprocessableEntity},
		{errors.ErrCodeNotFound, http.StatusNotFound},
		{errors.ErrCodeNetwork, http.StatusBadGateway},
		{errors.ErrCodeInternal, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.code); got != tt.want {
			t.Errorf("statusFor(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
