package xerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"google.golang.org/grpc/codes"
)

func TestCloneKeepsIdentity(t *testing.T) {
	err := ErrNegativeDepth.Clone().WithContext("depth", -1)
	if !errors.Is(err, ErrNegativeDepth) {
		t.Fatal("clone should match its sentinel")
	}
	if errors.Is(err, ErrInvalidSteps) {
		t.Fatal("clone should not match a different code")
	}
	if _, ok := ErrNegativeDepth.Context["depth"]; ok {
		t.Fatal("clone must not mutate the sentinel context")
	}
	if len(err.Stack) == 0 {
		t.Error("expected captured stack")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil, ErrInternal, "x") != nil {
		t.Fatal("wrapping nil should return nil")
	}

	cause := fmt.Errorf("disk full")
	err := WrapInternal(cause, "write failed")
	if !errors.Is(err, cause) {
		t.Error("wrapped error should unwrap to its cause")
	}
	if err.HTTPStatus() != http.StatusInternalServerError {
		t.Errorf("unexpected status %d", err.HTTPStatus())
	}

	// 包装目录错误时保留业务码
	wrapped := Wrap(ErrInvalidRadius, ErrInternal, "circle")
	if wrapped.Code != ErrInvalidRadius.Code || wrapped.Type != ErrInvalidArg {
		t.Errorf("expected code %d, got %d", ErrInvalidRadius.Code, wrapped.Code)
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		err  *Error
		http int
		grpc codes.Code
	}{
		{ErrNegativeDepth, http.StatusBadRequest, codes.InvalidArgument},
		{ErrTooManyPoints, http.StatusTooManyRequests, codes.ResourceExhausted},
		{NotFound("route"), http.StatusNotFound, codes.NotFound},
		{Internal("boom", nil), http.StatusInternalServerError, codes.Internal},
		{ErrBodyTooLarge, http.StatusRequestEntityTooLarge, codes.ResourceExhausted},
		{ErrTimeout, http.StatusGatewayTimeout, codes.DeadlineExceeded},
		{New(ErrorType(99), 1, "odd", "", nil), http.StatusInternalServerError, codes.Unknown},
	}
	for _, tt := range tests {
		if got := tt.err.HTTPStatus(); got != tt.http {
			t.Errorf("%v: expected HTTP %d, got %d", tt.err, tt.http, got)
		}
		if got := tt.err.GRPCCode(); got != tt.grpc {
			t.Errorf("%v: expected gRPC %v, got %v", tt.err, tt.grpc, got)
		}
		if got := tt.err.ToGRPCStatus().Code(); got != tt.grpc {
			t.Errorf("%v: status code %v", tt.err, got)
		}
	}
}

func TestErrorTypeString(t *testing.T) {
	if ErrInvalidArg.String() != "InvalidArg" {
		t.Errorf("unexpected name %q", ErrInvalidArg.String())
	}
	if ErrorType(99).String() != "Unknown" {
		t.Error("out of range type should be Unknown")
	}
	if _, ok := FromError(errors.New("plain")); ok {
		t.Error("plain error should not convert")
	}
	if e, ok := FromError(fmt.Errorf("render: %w", ErrTooManyPoints)); !ok || e.Code != ErrTooManyPoints.Code {
		t.Error("expected *Error found in wrapped chain")
	}
}
