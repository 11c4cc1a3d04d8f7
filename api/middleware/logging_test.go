package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/paintdepot/inkstock-backend/pkg/logger"
)

func TestLoggingRecordsDownstreamStatus(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test-logging", Output: &buf})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	resp := httptest.NewRecorder()
	Logging(logg)(next).ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
	out := buf.String()
	if !strings.Contains(out, "request.complete") {
		t.Fatalf("completion line missing from log: %s", out)
	}
	if !strings.Contains(out, `"status":404`) {
		t.Fatalf("downstream status missing from log: %s", out)
	}
}

func TestLoggingDefaultsStatusToOK(t *testing.T) {
	var buf bytes.Buffer
	logg := logger.New(logger.Options{ServiceName: "test-logging", Output: &buf})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	resp := httptest.NewRecorder()
	Logging(logg)(next).ServeHTTP(resp, req)

	if !strings.Contains(buf.String(), `"status":200`) {
		t.Fatalf("expected implicit 200 in log: %s", buf.String())
	}
}
