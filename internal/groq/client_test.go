package groq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func chatReq() ChatRequest {
	return ChatRequest{
		Model:       "test-model",
		Messages:    []Message{{Role: RoleUser, Content: "hi"}},
		Temperature: 0.7,
		MaxTokens:   1000,
	}
}

func TestCreateChatCompletion(t *testing.T) {
	var gotPath, gotAuth string
	var gotReq ChatRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(ChatResponse{
			ID:    "cmpl-1",
			Model: "test-model",
			Choices: []Choice{
				{Index: 0, Message: Message{Role: RoleAssistant, Content: "hello"}, FinishReason: "stop"},
			},
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("sk-test", srv.URL)
	resp, err := c.CreateChatCompletion(context.Background(), chatReq())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/chat/completions" {
		t.Errorf("expected /chat/completions, got %q", gotPath)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("unexpected authorization header: %q", gotAuth)
	}
	if gotReq.Model != "test-model" || gotReq.MaxTokens != 1000 {
		t.Errorf("request not forwarded intact: %+v", gotReq)
	}

	text, ok := resp.FirstContent()
	if !ok || text != "hello" {
		t.Errorf("expected first content %q, got %q (ok=%v)", "hello", text, ok)
	}
}

func TestCreateChatCompletionRetriesRateLimit(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(ChatResponse{
			Choices: []Choice{{Message: Message{Role: RoleAssistant, Content: "ok"}}},
		})
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("sk-test", srv.URL)
	resp, err := c.CreateChatCompletion(context.Background(), chatReq())
	if err != nil {
		t.Fatalf("unexpected error after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
	if text, _ := resp.FirstContent(); text != "ok" {
		t.Errorf("expected retried response, got %q", text)
	}
}

func TestCreateChatCompletionErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"bad key"}}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("sk-bad", srv.URL)
	_, err := c.CreateChatCompletion(context.Background(), chatReq())
	if err == nil {
		t.Fatal("expected error for non-200 status")
	}
	if !strings.Contains(err.Error(), "401") || !strings.Contains(err.Error(), "bad key") {
		t.Errorf("error should carry status and body: %v", err)
	}
}

func TestCreateChatCompletionUndecodableBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain text, not json"))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("sk-test", srv.URL)
	resp, err := c.CreateChatCompletion(context.Background(), chatReq())
	if err != nil {
		t.Fatalf("undecodable 200 body must not be an error: %v", err)
	}
	if _, ok := resp.FirstContent(); ok {
		t.Error("expected no decodable content")
	}
	if string(resp.Raw) != "plain text, not json" {
		t.Errorf("raw body not preserved: %q", resp.Raw)
	}
}

func TestFirstContent(t *testing.T) {
	var empty ChatResponse
	if _, ok := empty.FirstContent(); ok {
		t.Error("expected ok=false with no choices")
	}

	blank := ChatResponse{Choices: []Choice{{Message: Message{Content: ""}}}}
	if _, ok := blank.FirstContent(); ok {
		t.Error("expected ok=false with empty content")
	}
}
