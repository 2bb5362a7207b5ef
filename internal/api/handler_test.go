package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"stockrecon/internal/apperror"
	"stockrecon/internal/logger"
	"stockrecon/internal/model"
	"stockrecon/internal/service/analyzer"
)

type fakeRunner struct {
	gotOpts analyzer.Options
	result  *analyzer.RunResult
	err     error
}

func (f *fakeRunner) Run(_ context.Context, opts analyzer.Options) (*analyzer.RunResult, error) {
	f.gotOpts = opts
	return f.result, f.err
}

func (f *fakeRunner) Status() analyzer.Status {
	return analyzer.Status{Suppliers: []string{"HE"}, Sites: []string{"SITE_X"}, TargetMonth: "2025-06", LastRun: f.result}
}

func newTestRouter(runner Runner) (*gin.Engine, *Handler) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(runner, logger.Nop())
	h.RegisterRoutes(r.Group("/api"))
	return r, h
}

func okResult() *analyzer.RunResult {
	return &analyzer.RunResult{
		RunID:       "run-1",
		TargetMonth: model.Month("2025-03"),
		Import:      &model.ImportReport{TotalSources: 2, ImportedSources: 2},
		ReportName:  "Warehouse_Analysis_Report_20250301_000000.xlsx",
		Workbook:    []byte("xlsx-bytes"),
	}
}

func TestAnalyze_ThenDownloadOnce(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{result: okResult()}
	r, _ := newTestRouter(runner)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader(`{"targetMonth":"2025-03"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("analyze status want=200 got=%d body=%s", w.Code, w.Body.String())
	}
	if runner.gotOpts.TargetMonth != "2025-03" || runner.gotOpts.OutputDir != "" {
		t.Fatalf("unexpected runner options: %+v", runner.gotOpts)
	}

	var resp AnalyzeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.RunID != "run-1" || resp.TargetMonth != "2025-03" || !strings.HasPrefix(resp.DownloadURL, "/api/report/download/") {
		t.Fatalf("unexpected response: %+v", resp)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil))
	if w.Code != http.StatusOK || w.Body.String() != "xlsx-bytes" {
		t.Fatalf("download want=200 xlsx-bytes got=%d %q", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Fatalf("content type want=%s got=%s", xlsxContentType, ct)
	}
	if cd := w.Header().Get("Content-Disposition"); !strings.Contains(cd, "Warehouse_Analysis_Report_20250301_000000.xlsx") {
		t.Fatalf("unexpected content disposition %q", cd)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, resp.DownloadURL, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("second download want=404 got=%d", w.Code)
	}
}

func TestAnalyze_EmptyBody(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{result: okResult()}
	r, _ := newTestRouter(runner)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/analyze", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("empty body should use configured month, got %d %s", w.Code, w.Body.String())
	}
	if runner.gotOpts.TargetMonth != "" {
		t.Fatalf("target month should not be overridden, got %q", runner.gotOpts.TargetMonth)
	}
}

func TestAnalyze_InvalidJSON(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(&fakeRunner{result: okResult()})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/analyze", strings.NewReader("{")))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("want=400 got=%d", w.Code)
	}
}

func TestAnalyze_ErrorMapping(t *testing.T) {
	t.Parallel()

	cases := []struct {
		err  error
		want int
		code string
	}{
		{apperror.NewNoInputData(), http.StatusUnprocessableEntity, apperror.CodeNoInputData},
		{apperror.NewInvalidConfig("bad month"), http.StatusBadRequest, apperror.CodeInvalidConfig},
	}
	for _, tc := range cases {
		r, _ := newTestRouter(&fakeRunner{result: &analyzer.RunResult{Import: &model.ImportReport{FailedSources: 3}}, err: tc.err})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/analyze", nil))
		if w.Code != tc.want {
			t.Fatalf("%s: status want=%d got=%d", tc.code, tc.want, w.Code)
		}
		var body map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &body)
		if body["code"] != tc.code {
			t.Fatalf("code want=%s got=%v", tc.code, body["code"])
		}
		if _, ok := body["import"]; !ok {
			t.Fatalf("import report should be returned with the error")
		}
	}
}

func TestGetStatus(t *testing.T) {
	t.Parallel()

	r, _ := newTestRouter(&fakeRunner{result: okResult()})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/status", nil))

	var resp StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Suppliers) != 1 || resp.TargetMonth != "2025-06" || resp.LastRun == nil || resp.LastRun.RunID != "run-1" {
		t.Fatalf("unexpected status: %+v", resp)
	}
}

func TestDownloadStore_Expires(t *testing.T) {
	t.Parallel()

	s := newReportDownloadStore()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	token, _ := s.put(reportDownload{name: "r.xlsx"}, DownloadTTL)
	if _, ok := s.get(token); !ok {
		t.Fatalf("fresh token should resolve")
	}

	now = now.Add(DownloadTTL + time.Second)
	if _, ok := s.get(token); ok {
		t.Fatalf("expired token should not resolve")
	}
	if s.size() != 0 {
		t.Fatalf("expired items should be purged, got %d", s.size())
	}
}
