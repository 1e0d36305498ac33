package ollama

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

	"repdf/internal/config"
	"repdf/internal/port"
	"repdf/internal/recognizer"
)

const (
	defaultBaseURL = "http://localhost:11434"
	defaultModel   = "qwen3-vl:8b"
)

// Backend implements port.RecognitionBackend against a local Ollama server.
type Backend struct {
	model    string
	endpoint string
	client   *http.Client
}

// NewBackend creates an Ollama-based recognition backend.
func NewBackend(cfg *config.RecognizerProviderConfig) *Backend {
	model := cfg.DefaultModel
	if model == "" {
		model = defaultModel
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	// local models are slow on large pages
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &Backend{
		model:    model,
		endpoint: baseURL + "/api/generate",
		client:   &http.Client{Timeout: timeout},
	}
}

func (b *Backend) Name() string {
	return "ollama"
}

type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Images  []string        `json:"images"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

type generateResponse struct {
	Model    string `json:"model"`
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

func (b *Backend) Recognize(ctx context.Context, input port.RecognizeInput) (string, error) {
	body := generateRequest{
		Model:  b.model,
		Prompt: recognizer.BuildOCRPrompt(input.Width, input.Height),
		Images: []string{base64.StdEncoding.EncodeToString(input.Image)},
		Stream: false,
		Options: generateOptions{
			Temperature: 0.1,
			NumPredict:  4096,
		},
	}

	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.endpoint, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling ollama: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		baseErr := fmt.Errorf("ollama error (status %d): %s", resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode == http.StatusServiceUnavailable {
			retryAfter := recognizer.ParseRetryAfterHeader(resp.Header.Get("Retry-After"))
			return "", recognizer.NewRateLimitError("ollama", baseErr, retryAfter)
		}
		return "", baseErr
	}

	var out generateResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("unmarshaling response: %w", err)
	}
	return strings.TrimSpace(out.Response), nil
}
