package apperr

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteStatus(t *testing.T) {
	req := httptest.NewRequest("GET", "/search/external", nil)
	req.Header.Set("X-Request-ID", "rid-1")
	rec := httptest.NewRecorder()

	WriteStatus(rec, req, http.StatusBadRequest, "Invalid query", "too long")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("Content-Type: got %q", ct)
	}
	var p Problem
	if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
		t.Fatal(err)
	}
	if p.Type != "about:blank" || p.Instance != "/search/external" || p.RequestID != "rid-1" || p.Retryable {
		t.Errorf("Unexpected problem: %+v", p)
	}
}

func TestWrite_RetryableStatuses(t *testing.T) {
	for _, status := range []int{http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		rec := httptest.NewRecorder()
		Write(rec, nil, Problem{Status: status, Title: "busy"})

		var p Problem
		if err := json.Unmarshal(rec.Body.Bytes(), &p); err != nil {
			t.Fatal(err)
		}
		if !p.Retryable {
			t.Errorf("%d should be retryable", status)
		}
	}
}
