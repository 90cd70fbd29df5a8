// Package notify delivers user-facing notifications to an outbound webhook.
// Delivery is best effort; callers treat failures as warnings.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/peerxp/peerxp-backend/internal/config"
)

// Sink posts notification events to a configured webhook. An empty webhook
// URL turns the sink into a no-op, so callers never branch on configuration.
type Sink struct {
	url        string
	httpClient *http.Client
	log        *slog.Logger
}

// NewSink creates a webhook notification sink.
func NewSink(logger *slog.Logger, cfg config.NotifyConfig) *Sink {
	return &Sink{
		url:        cfg.WebhookURL,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		log:        logger.With("adapter", "notify"),
	}
}

type event struct {
	Type         string `json:"type"`
	UserID       string `json:"user_id"`
	SubmissionID string `json:"submission_id,omitempty"`
	URL          string `json:"url,omitempty"`
	Applied      int    `json:"applied_delta,omitempty"`
	Reason       string `json:"reason,omitempty"`
}

// ReviewAssigned notifies a reviewer about a new assignment.
func (s *Sink) ReviewAssigned(ctx context.Context, reviewerID, submissionID uuid.UUID, url string) error {
	return s.post(ctx, event{
		Type:         "review_assigned",
		UserID:       reviewerID.String(),
		SubmissionID: submissionID.String(),
		URL:          url,
	})
}

// XpAdjusted notifies a user that their XP changed.
func (s *Sink) XpAdjusted(ctx context.Context, userID uuid.UUID, applied int, reason string) error {
	return s.post(ctx, event{
		Type:    "xp_adjusted",
		UserID:  userID.String(),
		Applied: applied,
		Reason:  reason,
	})
}

func (s *Sink) post(ctx context.Context, ev event) error {
	if s.url == "" {
		s.log.DebugContext(ctx, "notification dropped, no webhook configured",
			slog.String("type", ev.Type),
			slog.String("user_id", ev.UserID),
		)
		return nil
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("notify: encode event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("notify: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notify: deliver %s: %w", ev.Type, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("notify: deliver %s: unexpected status %d", ev.Type, resp.StatusCode)
	}
	return nil
}
