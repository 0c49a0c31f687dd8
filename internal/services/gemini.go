package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// TextGenerator produces free text from a prompt. The Gemini client is the
// remote implementation; callers are expected to degrade to a local fallback
// when Generate fails.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const (
	geminiMaxAttempts = 3
	geminiBaseDelay   = time.Second
)

type GeminiClient struct {
	endpoint string
	apiKey   string
	client   *http.Client
	log      zerolog.Logger
}

var _ TextGenerator = (*GeminiClient)(nil)

// NewGeminiClient builds the client with an explicit per-request timeout so a
// hung call cannot block a caller past the retry loop.
func NewGeminiClient(endpoint, apiKey string, log zerolog.Logger) *GeminiClient {
	return &GeminiClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 30 * time.Second},
		log:      log.With().Str("component", "gemini").Logger(),
	}
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// Generate posts the prompt and returns the first candidate's text. It retries
// up to 3 times with exponential backoff starting at one second.
func (g *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal gemini request: %w", err)
	}

	delay := geminiBaseDelay
	var lastErr error
	for attempt := 1; attempt <= geminiMaxAttempts; attempt++ {
		text, err := g.call(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		g.log.Warn().Err(err).Int("attempt", attempt).Msg("generation attempt failed")

		if attempt == geminiMaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return "", fmt.Errorf("gemini: all %d attempts failed: %w", geminiMaxAttempts, lastErr)
}

func (g *GeminiClient) call(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("gemini status %d: %s", resp.StatusCode, data)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
