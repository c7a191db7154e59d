package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/srab2001/myteacher-sub005/internal/logger"
)

func newTestClient(t *testing.T, baseURL string) Client {
	t.Helper()
	t.Setenv("OPENAI_API_KEY", "test-key")
	t.Setenv("OPENAI_BASE_URL", baseURL)
	t.Setenv("OPENAI_CHAT_MODEL", "test-model")
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	c, err := NewClient(log)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	if _, err := NewClient(log); err == nil {
		t.Fatal("want error without api key")
	}
}

func TestGenerateText(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Fatalf("path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Fatalf("auth header: %q", auth)
		}
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"hello back"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	out, err := c.GenerateText(context.Background(), "sys", "hi")
	if err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	if out != "hello back" {
		t.Fatalf("out: %q", out)
	}
	messages := gotBody["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("want system+user messages got %d", len(messages))
	}
}

func TestGenerateTextOmitsEmptySystem(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"x"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.GenerateText(context.Background(), "", "prompt carries its own framing"); err != nil {
		t.Fatalf("GenerateText: %v", err)
	}
	messages := gotBody["messages"].([]any)
	if len(messages) != 1 {
		t.Fatalf("want lone user message got %d", len(messages))
	}
}

func TestGenerateTextWithPartsEncodesImages(t *testing.T) {
	var gotBody struct {
		Messages []struct {
			Role    string `json:"role"`
			Content json.RawMessage
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &gotBody)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"x"}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	parts := []Part{
		TextPart("look at this"),
		ImagePart(DataURL("image/png", []byte{1, 2, 3})),
	}
	if _, err := c.GenerateTextWithParts(context.Background(), "sys", parts); err != nil {
		t.Fatalf("GenerateTextWithParts: %v", err)
	}

	user := gotBody.Messages[len(gotBody.Messages)-1]
	var contentParts []map[string]any
	if err := json.Unmarshal(user.Content, &contentParts); err != nil {
		t.Fatalf("user content is not a part list: %v", err)
	}
	if contentParts[0]["type"] != "text" {
		t.Fatalf("part 0: %v", contentParts[0])
	}
	if contentParts[1]["type"] != "image_url" {
		t.Fatalf("part 1: %v", contentParts[1])
	}
	imageURL := contentParts[1]["image_url"].(map[string]any)["url"].(string)
	if !strings.HasPrefix(imageURL, "data:image/png;base64,") {
		t.Fatalf("image url: %s", imageURL)
	}
}

func TestGenerateTextUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	c := newTestClient(t, srv.URL)
	if _, err := c.GenerateText(context.Background(), "s", "u"); err == nil {
		t.Fatal("want error on non-200 response")
	}
}

func TestDataURL(t *testing.T) {
	got := DataURL("image/jpeg", []byte("abc"))
	if got != "data:image/jpeg;base64,YWJj" {
		t.Fatalf("DataURL: %s", got)
	}
}
