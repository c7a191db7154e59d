package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/srab2001/myteacher-sub005/internal/logger"
	"github.com/srab2001/myteacher-sub005/internal/utils"
)

// Part is one typed entry of a multimodal user message. Exactly one of
// Text or ImageURL is set; ImageURL may be an https URL or a base64 data
// URL.
type Part struct {
	Text     string
	ImageURL string
}

func TextPart(text string) Part      { return Part{Text: text} }
func ImagePart(imageURL string) Part { return Part{ImageURL: imageURL} }
func (p Part) IsImage() bool         { return p.ImageURL != "" }

// DataURL encodes raw image bytes as a base64 data URL for multimodal
// submission.
func DataURL(mimeType string, data []byte) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(data))
}

// Client is the generation boundary, injected into services. Callers
// own timeout and cancellation policy through ctx. No call is ever
// retried here.
type Client interface {
	GenerateText(ctx context.Context, system string, user string) (string, error)
	GenerateTextWithParts(ctx context.Context, system string, parts []Part) (string, error)
}

type client struct {
	log        *logger.Logger
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
}

func NewClient(log *logger.Logger) (Client, error) {
	clientLog := log.With("platform", "openai")
	apiKey := strings.TrimSpace(utils.GetEnv("OPENAI_API_KEY", "", log))
	if apiKey == "" {
		return nil, fmt.Errorf("missing OPENAI_API_KEY")
	}
	baseURL := strings.TrimRight(utils.GetEnv("OPENAI_BASE_URL", "https://api.openai.com/v1", log), "/")
	model := utils.GetEnv("OPENAI_CHAT_MODEL", "gpt-4o", log)
	timeout := utils.GetEnvAsInt("OPENAI_TIMEOUT_SECONDS", 120, log)
	return &client{
		log:     clientLog,
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		httpClient: &http.Client{
			Timeout: time.Duration(timeout) * time.Second,
		},
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type chatContentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *chatImageURL `json:"image_url,omitempty"`
}

type chatImageURL struct {
	URL string `json:"url"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

func (c *client) GenerateText(ctx context.Context, system string, user string) (string, error) {
	var messages []chatMessage
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})
	return c.complete(ctx, messages)
}

func (c *client) GenerateTextWithParts(ctx context.Context, system string, parts []Part) (string, error) {
	contentParts := make([]chatContentPart, 0, len(parts))
	for _, p := range parts {
		if p.IsImage() {
			contentParts = append(contentParts, chatContentPart{
				Type:     "image_url",
				ImageURL: &chatImageURL{URL: p.ImageURL},
			})
			continue
		}
		contentParts = append(contentParts, chatContentPart{Type: "text", Text: p.Text})
	}
	var messages []chatMessage
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: contentParts})
	return c.complete(ctx, messages)
}

func (c *client) complete(ctx context.Context, messages []chatMessage) (string, error) {
	body, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai call: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("openai read body: %w", err)
	}
	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("openai decode (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(raw))
		if parsed.Error != nil {
			msg = parsed.Error.Message
		}
		return "", fmt.Errorf("openai status %d: %s", resp.StatusCode, msg)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	c.log.Debug("openai completion finished", "model", c.model, "elapsed", time.Since(start).String())
	return parsed.Choices[0].Message.Content, nil
}
