package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/op5no29/subtitle-generator/internal/domain/language"
)

func TestTranslate(t *testing.T) {
	var gotPath, gotKey string
	var gotReq messagesRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "  It is fast.  "}},
		})
	}))
	defer srv.Close()

	a := New("test-key", "", srv.URL)
	got, err := a.Translate(context.Background(), "速いです。", language.Pair{Source: language.Japanese, Target: language.English})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "It is fast." {
		t.Errorf("got %q", got)
	}
	if gotPath != "/v1/messages" {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "test-key" {
		t.Errorf("api key header = %q", gotKey)
	}
	if len(gotReq.Messages) != 1 || !strings.Contains(gotReq.Messages[0].Content, "速いです。") {
		t.Errorf("prompt missing source text: %+v", gotReq.Messages)
	}
	if !strings.Contains(gotReq.Messages[0].Content, "English") {
		t.Errorf("prompt missing target language name")
	}
}

func TestTranslate_EmptyInput(t *testing.T) {
	a := New("key", "", "http://unreachable.invalid")
	got, err := a.Translate(context.Background(), "   ", language.Pair{Source: language.Japanese, Target: language.English})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Errorf("got %q, want empty (no API call for empty text)", got)
	}
}

func TestTranslate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"overloaded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	a := New("key", "", srv.URL)
	_, err := a.Translate(context.Background(), "hello", language.Pair{Source: language.English, Target: language.Japanese})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error should carry the status code: %v", err)
	}
}
