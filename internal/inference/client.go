// Package inference provides the HTTP client for the external text/vision
// inference service that turns user input into mood signals.
package inference

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/justestif/go-moodlist/internal/apperr"
)

const (
	defaultBaseURL = "http://127.0.0.1:8600"
	defaultTimeout = 30 * time.Second
	userAgent      = "moodlist/1.0"

	textPath  = "/v1/analyze/text"
	imagePath = "/v1/classify/image"
)

// Options configures a Client.
type Options struct {
	BaseURL string
	Timeout time.Duration
	// BreakerThreshold consecutive failures open the circuit for
	// BreakerCooldown; calls during that window fail fast as unavailable.
	BreakerThreshold uint32
	BreakerCooldown  time.Duration
}

// Client is an inference service client. Safe for concurrent use; holds no
// per-request state and caches nothing across requests.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// NewClient creates an inference client from the given options.
func NewClient(opts Options) *Client {
	baseURL := strings.TrimRight(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	threshold := opts.BreakerThreshold
	if threshold == 0 {
		threshold = 5
	}

	cooldown := opts.BreakerCooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}

	breaker := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "inference",
		Timeout: cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
	})

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: breaker,
	}
}

// AnalyzeText asks the service to analyze a free-text mood prompt. A response
// without a summary and without any score is treated as unusable output.
func (c *Client) AnalyzeText(ctx context.Context, prompt string) (TextAnalysis, error) {
	body, err := c.post(ctx, textPath, textRequest{Prompt: prompt})
	if err != nil {
		return TextAnalysis{}, fmt.Errorf("analyzing text: %w", err)
	}

	var analysis TextAnalysis
	if err := json.Unmarshal(body, &analysis); err != nil {
		return TextAnalysis{}, apperr.Wrap(apperr.ErrUpstreamAnalysis,
			"could not understand the analysis result", err)
	}

	if analysis.Summary == "" && emptyScores(analysis.Scores) {
		return TextAnalysis{}, apperr.New(apperr.ErrUpstreamAnalysis,
			"the analysis returned no usable mood")
	}

	return analysis, nil
}

// ClassifyImage asks the service to classify raw image bytes. A response with
// neither labels nor scores is unusable output.
func (c *Client) ClassifyImage(ctx context.Context, image []byte) (ImageAnalysis, error) {
	body, err := c.post(ctx, imagePath, imageRequest{Image: image})
	if err != nil {
		return ImageAnalysis{}, fmt.Errorf("classifying image: %w", err)
	}

	var analysis ImageAnalysis
	if err := json.Unmarshal(body, &analysis); err != nil {
		return ImageAnalysis{}, apperr.Wrap(apperr.ErrUpstreamAnalysis,
			"could not understand the image analysis result", err)
	}

	if len(analysis.Labels) == 0 && emptyScores(analysis.Scores) {
		return ImageAnalysis{}, apperr.New(apperr.ErrUpstreamAnalysis,
			"the image analysis returned no labels")
	}

	return analysis, nil
}

// post sends one JSON request through the circuit breaker and returns the raw
// response body. Inference calls are never retried here: the orchestration
// layer decides retry policy, and blind inference retries are costly.
func (c *Client) post(ctx context.Context, path string, payload any) ([]byte, error) {
	body, err := c.breaker.Execute(func() ([]byte, error) {
		return c.doRequest(ctx, path, payload)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, apperr.Wrap(apperr.ErrUpstreamUnavailable,
			"the analysis service is temporarily unavailable", err)
	}
	return body, err
}

func (c *Client) doRequest(ctx context.Context, path string, payload any) ([]byte, error) {
	reqBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Transport errors and exceeded timeouts are transient by contract.
		return nil, apperr.Wrap(apperr.ErrUpstreamUnavailable,
			"could not reach the analysis service", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperr.Wrap(apperr.ErrUpstreamUnavailable,
			"could not read the analysis response", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, apperr.Wrap(apperr.ErrUpstreamUnavailable,
			"the analysis service is temporarily unavailable",
			fmt.Errorf("status %d", resp.StatusCode))
	default:
		return nil, apperr.Wrap(apperr.ErrUpstreamAnalysis,
			"the analysis service rejected the request",
			fmt.Errorf("status %d: %s", resp.StatusCode, errorMessage(body)))
	}
}

// errorMessage extracts the service's error string, falling back to a trimmed
// body snippet.
func errorMessage(body []byte) string {
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return apiErr.Error
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 120 {
		s = s[:120]
	}
	return s
}

func emptyScores(s FeatureScores) bool {
	return s.Energy == nil && s.Valence == nil && s.Danceability == nil && s.Acousticness == nil
}
