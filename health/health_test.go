package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRegistryCheck(t *testing.T) {
	r := NewRegistry(0)
	r.Register("b", func(context.Context) error { return errors.New("down") })
	r.Register("a", func(context.Context) error { return nil })

	results := r.Check(context.Background())
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "a" || !results[0].OK {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].Name != "b" || results[1].OK || results[1].Error != "down" {
		t.Errorf("unexpected second result: %+v", results[1])
	}
}

func TestHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := NewRegistry(0)
	r.Register("cache", func(context.Context) error { return nil })

	engine := gin.New()
	engine.GET("/healthz", r.Handler())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	r.Register("cache", func(context.Context) error { return errors.New("closed") })
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}
	var body struct {
		Checks []Result `json:"checks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(body.Checks) != 1 || body.Checks[0].Error != "closed" {
		t.Errorf("unexpected checks: %+v", body.Checks)
	}
}
