package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Review    ReviewConfig    `yaml:"review"`
	Consensus ConsensusConfig `yaml:"consensus"`
	Xp        XpConfig        `yaml:"xp"`
	AI        AIConfig        `yaml:"ai"`
	Notify    NotifyConfig    `yaml:"notify"`
	Log       LogConfig       `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// AuthConfig holds JWT settings for the admin API surface.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"peerxp"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// ReviewConfig holds reviewer pool and assignment settings.
type ReviewConfig struct {
	MinimumReviewers     int           `yaml:"minimum_reviewers"      env:"REVIEW_MINIMUM_REVIEWERS"      env-default:"3"`
	MaximumReviewers     int           `yaml:"maximum_reviewers"      env:"REVIEW_MAXIMUM_REVIEWERS"      env-default:"5"`
	AllowPartial         bool          `yaml:"allow_partial"          env:"REVIEW_ALLOW_PARTIAL"          env-default:"false"`
	MaxActiveAssignments int           `yaml:"max_active_assignments" env:"REVIEW_MAX_ACTIVE_ASSIGNMENTS" env-default:"5"`
	MaxMissedReviews     int           `yaml:"max_missed_reviews"     env:"REVIEW_MAX_MISSED_REVIEWS"     env-default:"3"`
	MinReviewerXp        int           `yaml:"min_reviewer_xp"        env:"REVIEW_MIN_REVIEWER_XP"        env-default:"50"`
	Deadline             time.Duration `yaml:"deadline"               env:"REVIEW_DEADLINE"               env-default:"72h"`
	SweepInterval        time.Duration `yaml:"sweep_interval"         env:"REVIEW_SWEEP_INTERVAL"         env-default:"10m"`
	SweepBatch           int           `yaml:"sweep_batch"            env:"REVIEW_SWEEP_BATCH"            env-default:"50"`
}

// ConsensusConfig holds dispute detection thresholds.
// SpamLow/SpamHigh are tied to the current XP scale; they are configuration
// rather than constants so a scale change does not require a code change.
type ConsensusConfig struct {
	StdDevThreshold float64       `yaml:"stddev_threshold" env:"CONSENSUS_STDDEV_THRESHOLD" env-default:"50"`
	SpamLow         int           `yaml:"spam_low"         env:"CONSENSUS_SPAM_LOW"         env-default:"0"`
	SpamHigh        int           `yaml:"spam_high"        env:"CONSENSUS_SPAM_HIGH"        env-default:"150"`
	Lookback        time.Duration `yaml:"lookback"         env:"CONSENSUS_LOOKBACK"         env-default:"2160h"`
}

// XpConfig holds validation bounds for XP corrections.
type XpConfig struct {
	MaxXp                 int `yaml:"max_xp"                  env:"XP_MAX"                    env-default:"10000"`
	MinReasonLength       int `yaml:"min_reason_length"       env:"XP_MIN_REASON_LENGTH"      env-default:"5"`
	ConfirmationThreshold int `yaml:"confirmation_threshold"  env:"XP_CONFIRMATION_THRESHOLD" env-default:"1000"`
}

// AIConfig holds the content scoring oracle settings.
// Enabled=false is the global kill switch: submissions skip scoring and go
// straight to reviewer assignment with zero AI XP.
type AIConfig struct {
	Enabled       bool          `yaml:"enabled"        env:"AI_EVALUATION_ENABLED" env-default:"true"`
	BaseURL       string        `yaml:"base_url"       env:"AI_BASE_URL"`
	APIKey        string        `yaml:"api_key"        env:"AI_API_KEY"`
	FetchContent  bool          `yaml:"fetch_content"  env:"AI_FETCH_CONTENT"      env-default:"true"`
	MaxRetries    int           `yaml:"max_retries"    env:"AI_MAX_RETRIES"        env-default:"3"`
	StallTimeout  time.Duration `yaml:"stall_timeout"  env:"AI_STALL_TIMEOUT"      env-default:"2m"`
	PollInterval  time.Duration `yaml:"poll_interval"  env:"AI_POLL_INTERVAL"      env-default:"15s"`
	ClaimBatch    int           `yaml:"claim_batch"    env:"AI_CLAIM_BATCH"        env-default:"10"`
	RequestBudget time.Duration `yaml:"request_budget" env:"AI_REQUEST_BUDGET"     env-default:"90s"`
}

// NotifyConfig holds the outbound notification sink settings.
// An empty WebhookURL disables delivery; notification failure never blocks
// the primary operation.
type NotifyConfig struct {
	WebhookURL string        `yaml:"webhook_url" env:"NOTIFY_WEBHOOK_URL"`
	Timeout    time.Duration `yaml:"timeout"     env:"NOTIFY_TIMEOUT" env-default:"5s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
