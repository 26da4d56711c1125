package webhook

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/wardenlabs/warden/adapter"
)

func testEvent() *adapter.MutationCommittedEvent {
	return &adapter.MutationCommittedEvent{
		EventType:    adapter.EventTypeMutationCommitted,
		ExecutionID:  "x-001",
		StateID:      "S",
		Operation:    "enable_feature",
		Category:     "feature_flags",
		ActorID:      "alice",
		Mode:         "commit",
		ChangesCount: 1,
		Timestamp:    "2026-03-10T12:00:00Z",
	}
}

func TestPublish_Success(t *testing.T) {
	var received adapter.MutationCommittedEvent
	var contentType string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a, err := New(Config{URL: srv.URL, Retries: 0})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = a.Close() }()

	if err := a.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if received.ExecutionID != "x-001" {
		t.Errorf("execution id = %s", received.ExecutionID)
	}
	if contentType != "application/json" {
		t.Errorf("content type = %s", contentType)
	}
}

func TestPublish_CustomHeaders(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a, err := New(Config{
		URL:     srv.URL,
		Headers: map[string]string{"Authorization": "Bearer secret"},
		Retries: 0,
	})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = a.Close() }()

	if err := a.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if got != "Bearer secret" {
		t.Errorf("Authorization = %q", got)
	}
}

func TestPublish_4xxIsNonRetriable(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	a, err := New(Config{URL: srv.URL, Retries: 3})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = a.Close() }()

	if err := a.Publish(context.Background(), testEvent()); err == nil {
		t.Fatal("4xx response reported success")
	}
	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1 (no retries on 4xx)", calls.Load())
	}
}

func TestPublish_5xxRetries(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	a, err := New(Config{URL: srv.URL, Retries: 3, Timeout: time.Second})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	defer func() { _ = a.Close() }()

	if err := a.Publish(context.Background(), testEvent()); err != nil {
		t.Fatalf("publish after retries: %v", err)
	}
	if calls.Load() != 3 {
		t.Errorf("calls = %d, want 3", calls.Load())
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("empty URL accepted")
	}
	if _, err := New(Config{URL: "http://localhost", Retries: -1}); err == nil {
		t.Error("negative retries accepted")
	}
}
