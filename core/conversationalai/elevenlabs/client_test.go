package elevenlabs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestConversationURLWithoutAPIKeyUsesPublicEndpoint(t *testing.T) {
	client, err := NewClient("agent_123")
	if err != nil {
		t.Fatalf("expected client construction to succeed, got %v", err)
	}

	conversationURL, err := client.conversationURL(context.Background())
	if err != nil {
		t.Fatalf("expected public conversation url, got %v", err)
	}
	if !strings.HasPrefix(conversationURL, "wss://api.elevenlabs.io/v1/convai/conversation") {
		t.Fatalf("expected public convai endpoint, got %q", conversationURL)
	}
	if !strings.Contains(conversationURL, "agent_id=agent_123") {
		t.Fatalf("expected agent id in query, got %q", conversationURL)
	}
}

func TestConversationURLWithAPIKeyFetchesSignedURL(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if r.URL.Path != "/convai/conversation/get_signed_url" {
			t.Fatalf("expected signed url path, got %q", r.URL.Path)
		}
		if got := r.Header.Get("xi-api-key"); got != "sk_test" {
			t.Fatalf("expected api key header, got %q", got)
		}
		if got := r.URL.Query().Get("agent_id"); got != "agent_123" {
			t.Fatalf("expected agent id query, got %q", got)
		}
		json.NewEncoder(w).Encode(map[string]string{
			"signed_url": "wss://api.elevenlabs.io/v1/convai/conversation?token=signed",
		})
	}))
	defer server.Close()

	client, err := NewClient("agent_123", WithAPIKey("sk_test"), WithAPIBase(server.URL))
	if err != nil {
		t.Fatalf("expected client construction to succeed, got %v", err)
	}
	if !client.RequiresAuth() {
		t.Fatalf("expected auth required when an api key is configured")
	}

	conversationURL, err := client.conversationURL(context.Background())
	if err != nil {
		t.Fatalf("expected signed conversation url, got %v", err)
	}
	if !strings.Contains(conversationURL, "token=signed") {
		t.Fatalf("expected signed url from provider, got %q", conversationURL)
	}
	if requests != 1 {
		t.Fatalf("expected exactly one signed url request, got %d", requests)
	}
}

func TestConversationURLSurfacesSignedURLFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client, err := NewClient("agent_123", WithAPIKey("sk_bad"), WithAPIBase(server.URL))
	if err != nil {
		t.Fatalf("expected client construction to succeed, got %v", err)
	}

	if _, err := client.conversationURL(context.Background()); err == nil {
		t.Fatalf("expected signed url failure to propagate")
	}
}

func TestNewClientRequiresAgentID(t *testing.T) {
	if _, err := NewClient(""); err == nil {
		t.Fatalf("expected empty agent id to be rejected")
	}
}
