package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Automation modes.
const (
	AutomationGoroutine = "goroutine"
	AutomationRiver     = "river"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	HTTP          HTTPConfig          `yaml:"http"`
	Observability ObservabilityConfig `yaml:"observability"`
	Pipeline      PipelineConfig      `yaml:"pipeline"`
	Calendar      CalendarConfig      `yaml:"calendar"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration. An empty URL keeps events in process.
type NATSConfig struct {
	URL string `yaml:"url"`
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr               string   `yaml:"addr"`
	RateLimitPerSecond float64  `yaml:"rate_limit_per_second"`
	RateLimitBurst     int      `yaml:"rate_limit_burst"`
	AllowedOrigins     []string `yaml:"allowed_origins"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
}

// PipelineConfig holds the hiring automation settings.
type PipelineConfig struct {
	InvitationSecret      string  `yaml:"invitation_secret"`
	CandidatePortalURL    string  `yaml:"candidate_portal_url"`
	MeetingBaseURL        string  `yaml:"meeting_base_url"`
	InterviewSlotRule     string  `yaml:"interview_slot_rule"`
	InterviewTimezone     string  `yaml:"interview_timezone"`
	AutomationMode        string  `yaml:"automation_mode"` // goroutine|river
	DispatchOnAutoAdvance *bool   `yaml:"dispatch_on_auto_advance"`
	DefaultPassThreshold  float64 `yaml:"default_pass_threshold"`
}

// ShouldDispatchOnAutoAdvance reports whether an automatic advance after an
// assessment verdict re-runs the destination round's automation.
func (p PipelineConfig) ShouldDispatchOnAutoAdvance() bool {
	return p.DispatchOnAutoAdvance == nil || *p.DispatchOnAutoAdvance
}

// CalendarConfig holds Google Calendar credentials. Interview scheduling is
// disabled when they are missing.
type CalendarConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	RefreshToken string `yaml:"refresh_token"`
	CalendarID   string `yaml:"calendar_id"`
	TokenURL     string `yaml:"token_url"`
	APIBaseURL   string `yaml:"api_base_url"`
}

// LoadConfig loads the configuration from a YAML file, falling back to
// environment variables when the file cannot be read.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return loadConfigFromEnv()
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	var cfg Config

	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}
	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	applyDefaults(&cfg)
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv overrides cfg with any environment variables that are set.
func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	setString("DATABASE_URL", &cfg.Postgres.DSN)
	setString("NATS_URL", &cfg.NATS.URL)

	setString("HTTP_ADDR", &cfg.HTTP.Addr)
	if v := os.Getenv("RATE_LIMIT_PER_SECOND"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_PER_SECOND value: %v", err)
		}
		cfg.HTTP.RateLimitPerSecond = f
	}
	if v := os.Getenv("RATE_LIMIT_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_BURST value: %v", err)
		}
		cfg.HTTP.RateLimitBurst = n
	}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}

	setString("METRICS_ADDRESS", &cfg.Observability.MetricsAddress)
	setString("ENV", &cfg.Observability.Environment)
	setString("LOG_LEVEL", &cfg.Observability.LogLevel)

	setString("INVITATION_SECRET", &cfg.Pipeline.InvitationSecret)
	setString("CANDIDATE_PORTAL_URL", &cfg.Pipeline.CandidatePortalURL)
	setString("MEETING_BASE_URL", &cfg.Pipeline.MeetingBaseURL)
	setString("INTERVIEW_SLOT_RULE", &cfg.Pipeline.InterviewSlotRule)
	setString("INTERVIEW_TIMEZONE", &cfg.Pipeline.InterviewTimezone)
	setString("AUTOMATION_MODE", &cfg.Pipeline.AutomationMode)
	if v := os.Getenv("DISPATCH_ON_AUTO_ADVANCE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid DISPATCH_ON_AUTO_ADVANCE value: %v", err)
		}
		cfg.Pipeline.DispatchOnAutoAdvance = &b
	}
	if v := os.Getenv("DEFAULT_PASS_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid DEFAULT_PASS_THRESHOLD value: %v", err)
		}
		cfg.Pipeline.DefaultPassThreshold = f
	}

	setString("GOOGLE_CLIENT_ID", &cfg.Calendar.ClientID)
	setString("GOOGLE_CLIENT_SECRET", &cfg.Calendar.ClientSecret)
	setString("GOOGLE_REFRESH_TOKEN", &cfg.Calendar.RefreshToken)
	setString("GOOGLE_CALENDAR_ID", &cfg.Calendar.CalendarID)
	setString("GOOGLE_TOKEN_URL", &cfg.Calendar.TokenURL)
	setString("GOOGLE_CALENDAR_API_URL", &cfg.Calendar.APIBaseURL)
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.HTTP.Addr == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.RateLimitPerSecond <= 0 {
		cfg.HTTP.RateLimitPerSecond = 20
	}
	if cfg.HTTP.RateLimitBurst <= 0 {
		cfg.HTTP.RateLimitBurst = 40
	}
	if cfg.Observability.Environment == "" {
		cfg.Observability.Environment = "development"
	}
	if cfg.Observability.LogLevel == "" {
		cfg.Observability.LogLevel = "info"
	}
	if cfg.Pipeline.InterviewSlotRule == "" {
		cfg.Pipeline.InterviewSlotRule = "tomorrow at 10am"
	}
	if cfg.Pipeline.InterviewTimezone == "" {
		cfg.Pipeline.InterviewTimezone = "UTC"
	}
	if cfg.Pipeline.AutomationMode == "" {
		cfg.Pipeline.AutomationMode = AutomationGoroutine
	}
	if cfg.Pipeline.DispatchOnAutoAdvance == nil {
		dispatch := true
		cfg.Pipeline.DispatchOnAutoAdvance = &dispatch
	}
	if cfg.Pipeline.DefaultPassThreshold <= 0 {
		cfg.Pipeline.DefaultPassThreshold = 70
	}
}

func (c *Config) validate() error {
	switch c.Pipeline.AutomationMode {
	case AutomationGoroutine, AutomationRiver:
	default:
		return fmt.Errorf("unknown automation_mode %q", c.Pipeline.AutomationMode)
	}
	if c.Pipeline.InvitationSecret == "" {
		return fmt.Errorf("pipeline.invitation_secret (INVITATION_SECRET) must be set")
	}
	return nil
}

// SlogLevel maps observability.log_level onto a slog level. Unknown values
// fall back to info.
func (o ObservabilityConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
