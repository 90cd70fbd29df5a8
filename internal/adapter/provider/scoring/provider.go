// Package scoring calls the external content scoring service that assigns
// an initial XP value and quality signals to a submission.
package scoring

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/peerxp/peerxp-backend/internal/config"
	"github.com/peerxp/peerxp-backend/internal/domain"
)

// Provider evaluates submissions over the scoring service's HTTP API.
type Provider struct {
	baseURL      string
	apiKey       string
	fetchContent bool
	httpClient   *http.Client
	log          *slog.Logger
}

// NewProvider creates a Provider from the AI section of the config.
func NewProvider(logger *slog.Logger, cfg config.AIConfig) *Provider {
	return &Provider{
		baseURL:      cfg.BaseURL,
		apiKey:       cfg.APIKey,
		fetchContent: cfg.FetchContent,
		httpClient:   &http.Client{Timeout: cfg.RequestBudget},
		log:          logger.With("adapter", "scoring"),
	}
}

// Evaluate scores one submission. The caller bounds the call with a context
// deadline; a single retry covers transient 5xx and network errors.
func (p *Provider) Evaluate(ctx context.Context, sub *domain.Submission) (domain.EvaluationResult, error) {
	payload := apiRequest{
		SubmissionID: sub.ID.String(),
		URL:          sub.URL,
		Platform:     sub.Platform,
		FetchContent: p.fetchContent,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("scoring: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v1/evaluate", bytes.NewReader(body))
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("scoring: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+p.apiKey)
	}

	p.log.DebugContext(ctx, "scoring request",
		slog.String("submission_id", payload.SubmissionID),
		slog.String("platform", sub.Platform),
	)

	resp, err := p.doWithRetry(ctx, req, body)
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("scoring: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.EvaluationResult{}, fmt.Errorf("scoring: unexpected status %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("scoring: read body: %w", err)
	}

	var out apiResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("scoring: decode json: %w", err)
	}

	result := out.toDomain()
	p.log.DebugContext(ctx, "scoring response",
		slog.String("submission_id", payload.SubmissionID),
		slog.Int("base_xp", result.BaseXp),
		slog.Float64("confidence", result.Confidence),
	)
	return result, nil
}

// doWithRetry executes the request with a single retry on 5xx or network
// errors. The request body is rebuilt for the retry because the first
// attempt consumes it.
func (p *Provider) doWithRetry(ctx context.Context, req *http.Request, body []byte) (*http.Response, error) {
	resp, err := p.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}
	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	p.log.WarnContext(ctx, "scoring retry", slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	time.Sleep(500 * time.Millisecond)

	retry := req.Clone(ctx)
	retry.Body = io.NopCloser(bytes.NewReader(body))
	return p.httpClient.Do(retry)
}
