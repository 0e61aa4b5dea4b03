package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jobsieve/jobsieve/internal/ai"
	"github.com/jobsieve/jobsieve/internal/metrics"
	"github.com/jobsieve/jobsieve/internal/model"
	"github.com/jobsieve/jobsieve/internal/parse"
)

type stubCompleter struct {
	fn func(req ai.Request) (*ai.Completion, error)
}

func (s *stubCompleter) Complete(_ context.Context, req ai.Request) (*ai.Completion, error) {
	return s.fn(req)
}

func newTestServer(fn func(req ai.Request) (*ai.Completion, error)) *httptest.Server {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	completer := &stubCompleter{fn: fn}

	pipeline := parse.NewPipeline(
		parse.NewExtractor(completer, 0, time.Millisecond, 60_000, 4000, logger),
		parse.NewRateCache(completer, time.Hour, time.Second, nil, logger, nil),
		parse.NewEstimator(completer, time.Second, logger),
		logger,
		nil,
	)
	return httptest.NewServer(NewServer(pipeline, logger, metrics.New()).Handler())
}

func postExtract(t *testing.T, server *httptest.Server, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(server.URL+"/api/v1/jobs/extract", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func TestServer_Health(t *testing.T) {
	server := newTestServer(nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/health")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestServer_ExtractSuccess(t *testing.T) {
	server := newTestServer(func(req ai.Request) (*ai.Completion, error) {
		if strings.Contains(req.System, "salary research assistant") {
			return &ai.Completion{Content: `{"min": null, "max": null}`, FinishReason: ai.FinishStop}, nil
		}
		return &ai.Completion{
			Content:      `{"title":"Backend Engineer","company":"Acme","location":"Remote","techStack":["Go"],"role":"Backend Engineer","experience":"","source":""}`,
			FinishReason: ai.FinishStop,
		}, nil
	})
	defer server.Close()

	resp := postExtract(t, server, `{"text":"Backend Engineer at Acme. We use Go."}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}

	var body struct {
		Record *model.Record `json:"record"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Record == nil || body.Record.Title != "Backend Engineer" {
		t.Fatalf("unexpected record: %+v", body.Record)
	}
}

func TestServer_ExtractBadBody(t *testing.T) {
	server := newTestServer(nil)
	defer server.Close()

	resp := postExtract(t, server, `{"nope": true}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", resp.StatusCode)
	}
}

func TestServer_ErrorKindToStatus(t *testing.T) {
	cases := []struct {
		name string
		fn   func(req ai.Request) (*ai.Completion, error)
		want int
	}{
		{"rejected is 422", func(_ ai.Request) (*ai.Completion, error) {
			return &ai.Completion{FinishReason: ai.FinishContentFilter}, nil
		}, http.StatusUnprocessableEntity},
		{"transient is 502", func(_ ai.Request) (*ai.Completion, error) {
			return nil, &model.HTTPError{StatusCode: 503, Err: errors.New("unavailable")}
		}, http.StatusBadGateway},
		{"config is 503", func(_ ai.Request) (*ai.Completion, error) {
			return nil, ai.ErrNoAPIKey
		}, http.StatusServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := newTestServer(tc.fn)
			defer server.Close()

			resp := postExtract(t, server, `{"text":"a posting"}`)
			defer resp.Body.Close()
			if resp.StatusCode != tc.want {
				t.Fatalf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	server := newTestServer(nil)
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}
