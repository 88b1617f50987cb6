// Package analysis talks to the Gemini generateContent endpoint to summarize
// text and score its sentiment.
package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/config"
	"github.com/ahmetcoskunkizilkaya/intelligent-content-api/internal/metrics"
)

var (
	ErrTimeout     = apperr.New(apperr.KindTimeout, "The analysis request timed out. Please try again later.")
	ErrRateLimited = apperr.New(apperr.KindRateLimited, "Monthly quota exceeded. Please try again later.")
	ErrProvider    = apperr.New(apperr.KindServiceError, "Internal server error communicating with AI service.")
	ErrAnalysis    = apperr.New(apperr.KindServiceError, "Internal server error during text analysis")
)

const promptTemplate = `You are an assistant. Summarize the following text in 2-3 sentences and detect its sentiment as Positive, Negative, or Neutral.

Text:
%s

Format your response as JSON like:
{
    "summary": "<your summary>",
    "sentiment": "<Positive/Negative/Neutral>"
}`

// Result is the enrichment applied to a content row.
type Result struct {
	Summary   string `json:"summary"`
	Sentiment string `json:"sentiment"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	apiKey     string
	timeout    time.Duration
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(cfg.GeminiAPIURL, "/"),
		model:      cfg.GeminiModel,
		apiKey:     cfg.GeminiAPIKey,
		timeout:    cfg.AITimeout,
	}
}

// --- Gemini types ---

type generateRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Analyze sends text to the provider and parses the summary and sentiment out
// of its answer. Failures come back as ErrTimeout, ErrRateLimited,
// ErrProvider or ErrAnalysis.
func (c *Client) Analyze(ctx context.Context, text string) (Result, error) {
	start := time.Now()
	res, err := c.analyze(ctx, text)
	metrics.RecordAnalysisCall(outcome(err), time.Since(start))
	if err != nil {
		slog.Error("text analysis failed", "operation", "analyze", "error", err, "latency_ms", time.Since(start).Milliseconds())
		return Result{}, err
	}
	return res, nil
}

func (c *Client) analyze(ctx context.Context, text string) (Result, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	raw, err := c.generate(ctx, fmt.Sprintf(promptTemplate, text))
	if err != nil {
		return Result{}, err
	}
	return ParseResult(raw)
}

func (c *Client) generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAnalysis, err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAnalysis, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return "", fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", ErrProvider, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", providerError(resp.StatusCode, payload)
	}

	var gen generateResponse
	if err := json.Unmarshal(payload, &gen); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrProvider, err)
	}
	if len(gen.Candidates) == 0 || len(gen.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("%w: empty response", ErrAnalysis)
	}

	var sb strings.Builder
	for _, p := range gen.Candidates[0].Content.Parts {
		sb.WriteString(p.Text)
	}
	return sb.String(), nil
}

// providerError maps a non-200 answer onto the error taxonomy using the HTTP
// code and the google.rpc status name in the body.
func providerError(code int, payload []byte) error {
	var e errorResponse
	_ = json.Unmarshal(payload, &e)
	status := e.Error.Status

	switch {
	case code == http.StatusTooManyRequests || status == "RESOURCE_EXHAUSTED":
		return fmt.Errorf("%w: %d %s", ErrRateLimited, code, e.Error.Message)
	case code == http.StatusGatewayTimeout || code == http.StatusRequestTimeout || status == "DEADLINE_EXCEEDED":
		return fmt.Errorf("%w: %d %s", ErrTimeout, code, e.Error.Message)
	default:
		return fmt.Errorf("%w: %d %s", ErrProvider, code, e.Error.Message)
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrTimeout):
		return "timeout"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	default:
		return "error"
	}
}
