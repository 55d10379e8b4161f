package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wyfcoding/geodesic/xerrors"

	"github.com/gin-gonic/gin"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) Body {
	t.Helper()
	var b Body
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("invalid body %q: %v", rec.Body.String(), err)
	}
	return b
}

func TestSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	Success(c, map[string]int{"n": 1})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if b := decode(t, rec); b.Code != 0 || b.Msg != "success" || b.Data == nil {
		t.Errorf("unexpected body %+v", b)
	}
}

func TestError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   int
	}{
		{"xerrors", xerrors.ErrNegativeDepth.Clone(), http.StatusBadRequest, 400101},
		{"wrapped xerrors", errors.Join(errors.New("ctx"), xerrors.ErrTooManyPoints), http.StatusTooManyRequests, 429101},
		{"grpc", status.Error(codes.NotFound, "nope"), http.StatusNotFound, http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			Error(c, tt.err)
			if rec.Code != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, rec.Code)
			}
			if b := decode(t, rec); b.Code != tt.code {
				t.Errorf("expected code %d, got %d", tt.code, b.Code)
			}
		})
	}
}

func TestGRPCCodeToHTTP(t *testing.T) {
	if grpcCodeToHTTP(codes.ResourceExhausted) != http.StatusTooManyRequests {
		t.Error("ResourceExhausted should map to 429")
	}
	if grpcCodeToHTTP(codes.DataLoss) != http.StatusInternalServerError {
		t.Error("DataLoss should map to 500")
	}
}
