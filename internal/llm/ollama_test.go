package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOllamaProvider_Classify_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("Expected path /api/generate, got %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"model": "llama3.1:8b",
			"created_at": "2026-08-24T10:00:00Z",
			"response": "{\"category\": \"archive\", \"subcategory\": \"old-projects\", \"tags\": [], \"summary\": \"Abandoned side project\"}",
			"done": true
		}`))
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{
		BaseURL: server.URL,
		Model:   "llama3.1:8b",
		Timeout: 5,
	})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	result, err := provider.Classify(context.Background(), ClassifyRequest{
		Filename: "old-idea.md",
		Content:  "TODO: finish this someday",
	})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}

	if result.Category != "archive" || result.Subcategory != "old-projects" {
		t.Errorf("got %s/%s, want archive/old-projects", result.Category, result.Subcategory)
	}
}

func TestOllamaProvider_Classify_RequiresModel(t *testing.T) {
	provider, err := NewOllamaProvider(Config{BaseURL: "http://localhost:11434"})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if _, err := provider.Classify(context.Background(), ClassifyRequest{Filename: "x.md", Content: "x"}); err == nil {
		t.Fatal("expected error when no model is configured")
	}
}

func TestOllamaProvider_IsAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{"models": []}`))
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	provider, err := NewOllamaProvider(Config{BaseURL: server.URL, Timeout: 5})
	if err != nil {
		t.Fatalf("Failed to create provider: %v", err)
	}

	if !provider.IsAvailable(context.Background()) {
		t.Error("IsAvailable = false for a responding server")
	}
}
