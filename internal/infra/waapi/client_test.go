package waapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSendSuccess(t *testing.T) {
	var gotPath, gotAuth, gotRequestID string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("x-request-id")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"wamid.abc123"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "12345", "secret-token")

	messageID, err := client.Send(context.Background(), "5515991775589@c.us", "Oi Maria!")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	if messageID != "wamid.abc123" {
		t.Errorf("messageID = %q, want %q", messageID, "wamid.abc123")
	}
	if gotPath != "/instances/12345/client/action/send-message" {
		t.Errorf("path = %q, want %q", gotPath, "/instances/12345/client/action/send-message")
	}
	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer secret-token")
	}
	if gotRequestID == "" {
		t.Error("expected x-request-id header to be set")
	}
	if gotBody["chatId"] != "5515991775589@c.us" {
		t.Errorf("chatId = %q, want %q", gotBody["chatId"], "5515991775589@c.us")
	}
	if gotBody["message"] != "Oi Maria!" {
		t.Errorf("message = %q, want %q", gotBody["message"], "Oi Maria!")
	}
}

func TestSendMessageIDFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"messageId":"fallback-id"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "12345", "token")

	messageID, err := client.Send(context.Background(), "5515991775589@c.us", "hello")
	if err != nil {
		t.Fatalf("Send() error = %v", err)
	}
	if messageID != "fallback-id" {
		t.Errorf("messageID = %q, want %q", messageID, "fallback-id")
	}
}

func TestSendErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"invalid token"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "12345", "bad-token")

	_, err := client.Send(context.Background(), "5515991775589@c.us", "hello")
	if err == nil {
		t.Fatal("expected error for 401 response")
	}
	if !strings.Contains(err.Error(), "HTTP 401") {
		t.Errorf("error = %q, want it to contain %q", err.Error(), "HTTP 401")
	}
	if !strings.Contains(err.Error(), "invalid token") {
		t.Errorf("error = %q, want it to contain response body", err.Error())
	}
}

func TestSendInvalidResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "12345", "token")

	_, err := client.Send(context.Background(), "5515991775589@c.us", "hello")
	if err == nil {
		t.Fatal("expected error for invalid response body")
	}
}
