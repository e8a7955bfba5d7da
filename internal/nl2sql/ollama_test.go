package nl2sql

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestOllamaTranslatorRequiresModel(t *testing.T) {
	if _, err := NewOllamaTranslator(OllamaConfig{}); err == nil {
		t.Fatal("expected error without model")
	}
}

func TestOllamaTranslatorSendsChatRequest(t *testing.T) {
	var gotPath string
	var gotPayload ollamaChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotPayload)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"model":"phi","message":{"role":"assistant","content":"SELECT Name FROM Students"}}`))
	}))
	defer srv.Close()

	translator, err := NewOllamaTranslator(OllamaConfig{BaseURL: srv.URL, Model: "phi", Temperature: 0.1})
	if err != nil {
		t.Fatalf("NewOllamaTranslator() error = %v", err)
	}

	result, err := translator.Translate(context.Background(), Request{
		Question: "List the students",
		Schema:   "Table Students (Name varchar)",
	})
	if err != nil {
		t.Fatalf("Translate() error = %v", err)
	}
	if gotPath != "/api/chat" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotPayload.Stream {
		t.Fatal("stream must be disabled")
	}
	if gotPayload.Model != "phi" {
		t.Fatalf("model = %q", gotPayload.Model)
	}
	if len(gotPayload.Messages) != 2 || gotPayload.Messages[0].Role != "system" {
		t.Fatalf("messages = %+v", gotPayload.Messages)
	}
	if !strings.Contains(gotPayload.Messages[1].Content, "List the students") {
		t.Fatalf("user message missing question: %q", gotPayload.Messages[1].Content)
	}
	if result.SQL != "SELECT Name FROM Students" {
		t.Fatalf("SQL = %q", result.SQL)
	}
	if result.Provider != "ollama" {
		t.Fatalf("Provider = %q", result.Provider)
	}
}

func TestOllamaTranslatorSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"model 'phi' not found"}`))
	}))
	defer srv.Close()

	translator, err := NewOllamaTranslator(OllamaConfig{BaseURL: srv.URL, Model: "phi"})
	if err != nil {
		t.Fatalf("NewOllamaTranslator() error = %v", err)
	}
	if _, err := translator.Translate(context.Background(), Request{Question: "q"}); err == nil {
		t.Fatal("expected error for missing model")
	}
}
