package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/wyfcoding/geodesic/contextx"
	"github.com/wyfcoding/geodesic/metrics"
	"github.com/wyfcoding/geodesic/xerrors"
)

func newEngine(middlewares ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middlewares...)
	return engine
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestRequestContext(t *testing.T) {
	engine := newEngine(RequestContext())
	var seen string
	engine.GET("/", func(c *gin.Context) {
		seen = contextx.GetRequestID(c.Request.Context())
	})

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	if id := w.Header().Get(HeaderXRequestID); id == "" || id != seen || !strings.HasPrefix(id, "R") {
		t.Errorf("unexpected generated id %q (context %q)", id, seen)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderXRequestID, "abc")
	w = serve(engine, req)
	if w.Header().Get(HeaderXRequestID) != "abc" || seen != "abc" {
		t.Errorf("expected passthrough id, got %q", w.Header().Get(HeaderXRequestID))
	}
}

func TestRecovery(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	engine := newEngine(Recovery(logger))
	engine.GET("/", func(c *gin.Context) { panic("boom") })

	w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("panic not logged: %s", buf.String())
	}
}

func TestHTTPErrorHandler(t *testing.T) {
	engine := newEngine(HTTPErrorHandler())
	engine.GET("/", func(c *gin.Context) {
		_ = c.Error(xerrors.ErrTooManyPoints.Clone())
	})
	engine.GET("/written", func(c *gin.Context) {
		c.String(http.StatusAccepted, "ok")
		_ = c.Error(errors.New("ignored"))
	})

	if w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
	if w := serve(engine, httptest.NewRequest(http.MethodGet, "/written", nil)); w.Code != http.StatusAccepted {
		t.Errorf("written response should be kept, got %d", w.Code)
	}
}

func TestMaxBodyBytes(t *testing.T) {
	engine := newEngine(MaxBodyBytes(8))
	engine.POST("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"lines":[[1,2,3]]}`))
	if w := serve(engine, req); w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	if w := serve(engine, req); w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestTimeoutMiddleware(t *testing.T) {
	engine := newEngine(TimeoutMiddleware(10 * time.Millisecond))
	engine.GET("/", func(c *gin.Context) {
		<-c.Request.Context().Done()
	})
	if w := serve(engine, httptest.NewRequest(http.MethodGet, "/", nil)); w.Code != http.StatusGatewayTimeout {
		t.Errorf("expected 504, got %d", w.Code)
	}
}

func TestLocalRateLimit(t *testing.T) {
	engine := newEngine(NewLocalRateLimitMiddleware(1, 1))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := func(ip string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = ip + ":1234"
		return r
	}
	if w := serve(engine, req("10.0.0.1")); w.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", w.Code)
	}
	if w := serve(engine, req("10.0.0.1")); w.Code != http.StatusTooManyRequests {
		t.Errorf("second request should be limited, got %d", w.Code)
	}
	if w := serve(engine, req("10.0.0.2")); w.Code != http.StatusOK {
		t.Errorf("other clients have their own bucket, got %d", w.Code)
	}
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	m := metrics.NewMetrics("test")
	engine := newEngine(HTTPMetricsMiddleware(m, MetricsOptions{SkipPaths: []string{"/healthz"}}))
	engine.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/v1/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	serve(engine, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	serve(engine, httptest.NewRequest(http.MethodGet, "/v1/x", nil))
	serve(engine, httptest.NewRequest(http.MethodGet, "/v1/x", nil))

	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/v1/x", "200")); got != 2 {
		t.Errorf("expected 2 requests, got %f", got)
	}
	if got := testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/healthz", "200")); got != 0 {
		t.Errorf("skipped path should not be counted, got %f", got)
	}
}

func TestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	engine := newEngine(RequestContext(), Logger(logger, time.Nanosecond))
	engine.GET("/", func(c *gin.Context) {
		time.Sleep(time.Millisecond)
		c.Status(http.StatusOK)
	})

	serve(engine, httptest.NewRequest(http.MethodGet, "/?q=1", nil))
	out := buf.String()
	for _, want := range []string{"HTTP Request (slow)", `"request_id"`, `"query":"q=1"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s: %s", want, out)
		}
	}
}

func TestTracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	engine := newEngine(Tracing("geodesicd", "/healthz"), TraceIDHeader())
	engine.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/v1/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := serve(engine, httptest.NewRequest(http.MethodGet, "/healthz", nil)); w.Header().Get(HeaderXTraceID) != "" {
		t.Error("skipped path should not be traced")
	}
	w := serve(engine, httptest.NewRequest(http.MethodGet, "/v1/x", nil))
	if len(w.Header().Get(HeaderXTraceID)) != 32 {
		t.Errorf("expected trace id header, got %q", w.Header().Get(HeaderXTraceID))
	}
	if n := len(recorder.Ended()); n != 1 {
		t.Errorf("expected 1 span, got %d", n)
	}
}
