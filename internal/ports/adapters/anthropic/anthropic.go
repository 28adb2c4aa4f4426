package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/op5no29/subtitle-generator/internal/domain/language"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	defaultModel   = "claude-3-5-sonnet-20241022"
	apiVersion     = "2023-06-01"
	maxTokens      = 4000
	requestTimeout = 5 * time.Minute
)

type Adapter struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

func New(apiKey, model, baseURL string) *Adapter {
	if model == "" {
		model = defaultModel
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Adapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		client:  &http.Client{Timeout: requestTimeout},
	}
}

type messagesRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// Translate sends the whole transcript in one request so the model sees
// cross-sentence context, and returns only the translated text.
func (a *Adapter) Translate(ctx context.Context, text string, pair language.Pair) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	body, err := json.Marshal(messagesRequest{
		Model:     a.model,
		MaxTokens: maxTokens,
		Messages:  []message{{Role: "user", Content: buildPrompt(text, pair)}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/v1/messages", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("translation API returned status %d: %s", resp.StatusCode, string(respBody))
	}

	var mr messagesResponse
	if err := json.NewDecoder(resp.Body).Decode(&mr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	for _, c := range mr.Content {
		if c.Type == "text" && strings.TrimSpace(c.Text) != "" {
			return strings.TrimSpace(c.Text), nil
		}
	}
	return "", fmt.Errorf("translation response contained no text")
}

func buildPrompt(text string, pair language.Pair) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Translate the following text into natural %s.\n\n", pair.Target.Name())
	b.WriteString("Instructions:\n")
	b.WriteString("- Consider the full context and overall flow, not sentence-by-sentence literal meaning\n")
	fmt.Fprintf(&b, "- Prefer phrasing a native %s speaker would use\n", pair.Target.Name())
	b.WriteString("- Translate technical terms and proper nouns appropriately\n")
	b.WriteString("- Keep the tone of the original, including spoken-language register\n")
	b.WriteString("- Return only the translation, with no preamble or explanation\n\n")
	b.WriteString("Text to translate:\n")
	b.WriteString(text)
	return b.String()
}
