package contextx

import (
	"context"
	"log/slog"
	"testing"
)

func TestMeta(t *testing.T) {
	ctx := context.Background()
	if GetRequestID(ctx) != "" || LogAttrs(ctx) != nil {
		t.Fatal("expected empty metadata")
	}

	ctx = WithMeta(ctx, Meta{RequestID: "42", ClientIP: "10.0.0.1"})
	if GetRequestID(ctx) != "42" {
		t.Errorf("request id not propagated")
	}
	m, ok := MetaFrom(ctx)
	if !ok || m.ClientIP != "10.0.0.1" || m.UserAgent != "" {
		t.Errorf("unexpected meta %+v", m)
	}

	attrs := LogAttrs(ctx)
	if len(attrs) != 2 {
		t.Fatalf("expected 2 attrs, got %d", len(attrs))
	}
	if a := attrs[0].(slog.Attr); a.Key != "request_id" || a.Value.String() != "42" {
		t.Errorf("unexpected attr %v", a)
	}
	if a := attrs[1].(slog.Attr); a.Key != "client_ip" {
		t.Errorf("unexpected attr %v", a)
	}
}
