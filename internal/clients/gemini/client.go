package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/envutil"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/httpx"
	"github.com/tushar-behera15/padh-ai-tracker/internal/platform/logger"
	"github.com/tushar-behera15/padh-ai-tracker/internal/scheduler"
)

// Client asks Gemini for a revision strategy. Any failure (transport,
// non-2xx, malformed JSON, structurally invalid strategy) surfaces as an
// error; the caller decides whether to fall back.
type Client interface {
	GenerateStrategy(ctx context.Context, scorePercentage float64, daysLeft int) (scheduler.Strategy, error)
}

type client struct {
	log        *logger.Logger
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	maxRetries int
}

func NewClient(log *logger.Logger) (Client, error) {
	serviceLog := log.With("client", "GeminiClient")
	apiKey := envutil.Str("GEMINI_API_KEY", "")
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	baseURL := envutil.Str("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta")
	model := envutil.Str("GEMINI_MODEL", "gemini-2.5-flash")
	timeout := envutil.Seconds("GEMINI_TIMEOUT_SECONDS", 20*time.Second)
	return &client{
		log:        serviceLog,
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		timeout:    timeout,
		maxRetries: 1,
	}, nil
}

const strategyPrompt = `You are a study-planning AI.

Inputs:
score_percentage: %v
days_left: %d

Return ONLY valid JSON (no explanation, no markdown):

{
  "revision_count": number,
  "initial_gap": number,
  "gap_multiplier": number
}

Rules:
- Lower score = more revisions
- Lower score = smaller initial_gap
- revision_count <= days_left
- gap_multiplier between 1.4 and 2.2
`

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

type httpError struct {
	status int
	body   string
}

func (e *httpError) Error() string {
	return fmt.Sprintf("gemini: status %d: %s", e.status, e.body)
}

func (e *httpError) HTTPStatusCode() int { return e.status }

func (c *client) GenerateStrategy(ctx context.Context, scorePercentage float64, daysLeft int) (scheduler.Strategy, error) {
	// The enclosing DB transaction stays open for the duration of this
	// call, so it is always bounded.
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	prompt := fmt.Sprintf(strategyPrompt, scorePercentage, daysLeft)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return scheduler.Strategy{}, ctx.Err()
			case <-time.After(httpx.JitterSleep(500 * time.Millisecond)):
			}
		}
		text, err := c.generateContent(ctx, prompt)
		if err != nil {
			lastErr = err
			if httpx.IsRetryableError(err) {
				c.log.Warn("Gemini call failed, retrying", "attempt", attempt, "error", err)
				continue
			}
			return scheduler.Strategy{}, err
		}
		return parseStrategy(text)
	}
	return scheduler.Strategy{}, lastErr
}

func (c *client) generateContent(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("gemini read body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &httpError{status: resp.StatusCode, body: strings.TrimSpace(string(raw))}
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("gemini decode response: %w", err)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini: empty response")
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// parseStrategy extracts the strategy JSON from raw model output. Models
// routinely wrap JSON in markdown fences despite instructions not to.
func parseStrategy(text string) (scheduler.Strategy, error) {
	clean := stripCodeFences(text)
	var s scheduler.Strategy
	if err := json.Unmarshal([]byte(clean), &s); err != nil {
		return scheduler.Strategy{}, fmt.Errorf("gemini returned invalid JSON: %w", err)
	}
	if err := scheduler.Validate(s); err != nil {
		return scheduler.Strategy{}, fmt.Errorf("gemini returned invalid strategy: %w", err)
	}
	return s, nil
}

func stripCodeFences(src string) string {
	s := strings.TrimSpace(src)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	lines := strings.Split(s, "\n")
	if len(lines) < 2 {
		return s
	}
	body := lines[1:]
	if strings.TrimSpace(lines[len(lines)-1]) == "```" {
		body = lines[1 : len(lines)-1]
	}
	return strings.TrimSpace(strings.Join(body, "\n"))
}
