package config

import "fmt"

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := c.Review.validate(); err != nil {
		return fmt.Errorf("review: %w", err)
	}
	if err := c.Consensus.validate(); err != nil {
		return fmt.Errorf("consensus: %w", err)
	}
	if err := c.Xp.validate(); err != nil {
		return fmt.Errorf("xp: %w", err)
	}
	if err := c.AI.validate(); err != nil {
		return fmt.Errorf("ai: %w", err)
	}

	return nil
}

func (r *ReviewConfig) validate() error {
	if r.MinimumReviewers < 1 {
		return fmt.Errorf("minimum_reviewers must be >= 1 (got %d)", r.MinimumReviewers)
	}
	if r.MaximumReviewers < r.MinimumReviewers {
		return fmt.Errorf("maximum_reviewers must be >= minimum_reviewers (got %d < %d)",
			r.MaximumReviewers, r.MinimumReviewers)
	}
	if r.MaxActiveAssignments < 1 {
		return fmt.Errorf("max_active_assignments must be >= 1 (got %d)", r.MaxActiveAssignments)
	}
	if r.Deadline <= 0 {
		return fmt.Errorf("deadline must be > 0 (got %v)", r.Deadline)
	}
	if r.SweepInterval <= 0 {
		return fmt.Errorf("sweep_interval must be > 0 (got %v)", r.SweepInterval)
	}
	if r.SweepBatch < 1 {
		return fmt.Errorf("sweep_batch must be >= 1 (got %d)", r.SweepBatch)
	}
	return nil
}

func (c *ConsensusConfig) validate() error {
	if c.StdDevThreshold <= 0 {
		return fmt.Errorf("stddev_threshold must be > 0 (got %v)", c.StdDevThreshold)
	}
	if c.SpamHigh <= c.SpamLow {
		return fmt.Errorf("spam_high must be > spam_low (got %d <= %d)", c.SpamHigh, c.SpamLow)
	}
	return nil
}

func (x *XpConfig) validate() error {
	if x.MaxXp <= 0 {
		return fmt.Errorf("max_xp must be > 0 (got %d)", x.MaxXp)
	}
	if x.MinReasonLength < 1 {
		return fmt.Errorf("min_reason_length must be >= 1 (got %d)", x.MinReasonLength)
	}
	if x.ConfirmationThreshold <= 0 {
		return fmt.Errorf("confirmation_threshold must be > 0 (got %d)", x.ConfirmationThreshold)
	}
	return nil
}

func (a *AIConfig) validate() error {
	if a.Enabled && a.BaseURL == "" {
		return fmt.Errorf("base_url is required when AI evaluation is enabled")
	}
	if a.MaxRetries < 1 {
		return fmt.Errorf("max_retries must be >= 1 (got %d)", a.MaxRetries)
	}
	if a.StallTimeout <= 0 {
		return fmt.Errorf("stall_timeout must be > 0 (got %v)", a.StallTimeout)
	}
	if a.ClaimBatch < 1 {
		return fmt.Errorf("claim_batch must be >= 1 (got %d)", a.ClaimBatch)
	}
	return nil
}
