package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tenantgate/tenantgate/internal/application/ports"
)

func TestHTTPEmitterPostsEvent(t *testing.T) {
	var received ports.AuditEvent
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Content-Type = %q", ct)
		}
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	e := NewHTTPEmitter(srv.URL, WithHeader("Authorization", "Bearer hook-token"))
	ev := ports.AuditEvent{
		RequestID: "req-1",
		Stage:     "tenant",
		Outcome:   "forbidden",
		Reason:    "not_a_member",
		Path:      "/organization",
	}
	if err := e.Emit(context.Background(), ev); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if received != ev {
		t.Errorf("received %+v, want %+v", received, ev)
	}
	if gotAuth != "Bearer hook-token" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestHTTPEmitterNon2xxIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	e := NewHTTPEmitter(srv.URL)
	if err := e.Emit(context.Background(), ports.AuditEvent{Stage: "identity"}); err == nil {
		t.Fatal("expected an error for a 502 response")
	}
}

func TestNoopEmitter(t *testing.T) {
	if err := NewNoopEmitter().Emit(context.Background(), ports.AuditEvent{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
