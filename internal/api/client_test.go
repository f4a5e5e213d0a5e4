// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func testClient(url string) *Client {
	return NewClientWithConfig(&ClientConfig{
		BaseURL:           url,
		ChatTimeout:       5 * time.Second,
		ToolTimeout:       5 * time.Second,
		RequestsPerSecond: 1000,
	})
}

// =============================================================================
// CHAT TESTS
// =============================================================================

func TestChat_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("Bad request body: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("Expected full history, got %d messages", len(req.Messages))
		}
		json.NewEncoder(w).Encode(ChatResponse{
			Choices: []ChatChoice{{Message: ChatMessage{Role: "assistant", Content: "hi there"}}},
			Model:   req.Model,
		})
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	resp, err := client.Chat(context.Background(), []ChatMessage{
		{Role: "user", Content: "hello"},
		{Role: "assistant", Content: "yes?"},
	}, "studio-chat-small")
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if resp.Content() != "hi there" {
		t.Errorf("Unexpected content: %q", resp.Content())
	}
	if resp.Model != "studio-chat-small" {
		t.Errorf("Unexpected model: %q", resp.Model)
	}
}

func TestChat_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	client := NewClientWithConfig(&ClientConfig{
		BaseURL:           srv.URL,
		ChatTimeout:       50 * time.Millisecond,
		RequestsPerSecond: 1000,
	})
	_, err := client.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "x"}}, "")
	if !IsTimeout(err) {
		t.Errorf("Expected timeout error, got %v", err)
	}
}

func TestChat_ModelUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Chat(context.Background(), []ChatMessage{{Role: "user", Content: "x"}}, "gone")
	if !IsModelUnavailable(err) {
		t.Errorf("Expected model unavailable, got %v", err)
	}
}

func TestChat_ServerErrorMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"error": "capacity exceeded"})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Chat(context.Background(), []ChatMessage{{Role: "user", Content: "x"}}, "")
	if err == nil || !strings.Contains(err.Error(), "capacity exceeded") {
		t.Errorf("Expected backend error message, got %v", err)
	}
}

func TestChat_BackendDown(t *testing.T) {
	client := testClient("http://127.0.0.1:1")
	_, err := client.Chat(context.Background(), []ChatMessage{{Role: "user", Content: "x"}}, "")
	if !IsUnavailable(err) {
		t.Errorf("Expected unavailable, got %v", err)
	}
}

func TestChat_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(ChatResponse{})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).Chat(context.Background(), []ChatMessage{{Role: "user", Content: "x"}}, "")
	if err == nil {
		t.Fatal("Expected error for empty choices")
	}
}

// =============================================================================
// TOOL ENDPOINT TESTS
// =============================================================================

func TestInvokeTool_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/tools/website-scanner" {
			t.Errorf("Unexpected path: %s", r.URL.Path)
		}
		var params map[string]string
		json.NewDecoder(r.Body).Decode(&params)
		if params["url"] != "https://example.com" {
			t.Errorf("Unexpected params: %v", params)
		}
		w.Write([]byte(`{"categories":["saas","b2b"],"links":[{"href":"/about"}]}`))
	}))
	defer srv.Close()

	resp, err := testClient(srv.URL).InvokeTool(context.Background(), "website-scanner", ToolRequest{"url": "https://example.com"})
	if err != nil {
		t.Fatalf("InvokeTool failed: %v", err)
	}
	if !json.Valid(resp.Payload) {
		t.Error("Expected valid JSON payload")
	}
}

func TestInvokeTool_InvalidJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).InvokeTool(context.Background(), "website-scanner", ToolRequest{"url": "x"})
	if err == nil {
		t.Fatal("Expected error for non-JSON payload")
	}
}

func TestInvokeTool_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).InvokeTool(context.Background(), "website-scanner", ToolRequest{"url": "x"})
	if err == nil {
		t.Fatal("Expected error for 502")
	}
}

// =============================================================================
// MODEL LIST TESTS
// =============================================================================

func TestListModels_StringList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`["studio-chat-small","studio-chat-large"]`))
	}))
	defer srv.Close()

	models, err := testClient(srv.URL).ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(models) != 2 {
		t.Errorf("Expected 2 models, got %v", models)
	}
}

func TestListModels_DetailMap(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"studio-chat-small":{"ctx":8192},"studio-chat-large":{"ctx":32768}}`))
	}))
	defer srv.Close()

	models, err := testClient(srv.URL).ListModels(context.Background())
	if err != nil {
		t.Fatalf("ListModels failed: %v", err)
	}
	if len(models) != 2 {
		t.Errorf("Expected 2 models, got %v", models)
	}
}

func TestListModels_MalformedShape_KeepsDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`42`))
	}))
	defer srv.Close()

	models, err := testClient(srv.URL).ListModels(context.Background())
	if err != nil {
		t.Fatalf("Malformed shape must not error: %v", err)
	}
	if len(models) != 0 {
		t.Errorf("Expected no models, got %v", models)
	}
}

// =============================================================================
// ERROR MESSAGE TESTS
// =============================================================================

func TestUserMessage_Categories(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains string
	}{
		{"timeout suggests smaller parts", ErrTimeout, "smaller parts"},
		{"model unavailable suggests switching", ErrModelUnavailable, "different model"},
		{"backend down suggests checking", ErrUnavailable, "backend"},
		{"server error is surfaced", &ClientError{Type: ErrTypeServer, Message: "boom"}, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := UserMessage(tt.err)
			if !strings.Contains(got, tt.contains) {
				t.Errorf("UserMessage(%v) = %q, want to contain %q", tt.err, got, tt.contains)
			}
		})
	}
}

func TestDefaultConfig_Fill(t *testing.T) {
	client := NewClientWithConfig(&ClientConfig{})
	cfg := client.GetConfig()
	if cfg.BaseURL == "" || cfg.ChatTimeout == 0 || cfg.ToolTimeout == 0 || cfg.DefaultModel == "" {
		t.Errorf("Defaults not filled: %+v", cfg)
	}
}
