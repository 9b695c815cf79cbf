package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
//
//nolint:govet // Field alignment optimization would reduce readability
type Config struct {
	Server        ServerConfig
	CRM           CRMConfig
	Calendly      CalendlyConfig
	Webhook       WebhookConfig
	Segments      SegmentsConfig
	Lead          LeadConfig
	Logging       LoggingConfig
	Observability ObservabilityConfig
	Profiling     ProfilingConfig
}

type ServerConfig struct {
	Port           string
	GinMode        string
	AppEnv         string
	AllowedOrigins []string
}

// CRMConfig describes the downstream lead-intake API.
type CRMConfig struct {
	APIURL         string
	UsergroupID    string
	TimeoutSeconds int
}

// CalendlyConfig describes the provider management API used for the
// event-type lookup and webhook self-registration.
type CalendlyConfig struct {
	APIBaseURL           string
	APIToken             string
	EventTypeCacheTTLSec int
}

type WebhookConfig struct {
	SigningKey        string
	SignatureRequired bool
}

// SegmentsConfig maps event-type names onto CRM segment identifiers.
// ExactNames holds "Event Type Name=segmentid" pairs checked before the
// keyword rules; CRO and Performance are the keyword-matched segments.
type SegmentsConfig struct {
	DefaultID     string
	CROID         string
	PerformanceID string
	ExactNames    map[string]string
}

type LeadConfig struct {
	// KeepConsumedAnswers retains city/address answers in otherparams even
	// after they were promoted to first-class lead fields.
	KeepConsumedAnswers bool
}

type LoggingConfig struct {
	Level string
	Dir   string
}

type ObservabilityConfig struct {
	AlloyEndpoint     string
	ServiceName       string
	ServiceNamespace  string
	ServiceVersion    string
	ServiceInstanceID string
}

type ProfilingConfig struct {
	Enabled               bool
	Endpoint              string
	AppName               string
	SampleTypes           string
	UploadIntervalSeconds int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("PORT", "8080")
	v.SetDefault("GIN_MODE", "release")
	v.SetDefault("APP_ENV", "production")
	v.SetDefault("ALLOWED_CORS_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_DIR", "")
	v.SetDefault("CRM_TIMEOUT_SECONDS", 15)
	v.SetDefault("CALENDLY_API_BASE_URL", "https://api.calendly.com")
	v.SetDefault("EVENT_TYPE_CACHE_TTL", 600) // 10 minutes in seconds
	v.SetDefault("WEBHOOK_SIGNATURE_REQUIRED", false)
	v.SetDefault("LEAD_KEEP_CONSUMED_ANSWERS", false)
	v.SetDefault("O11Y_EXPORTER_ENDPOINT", "")
	v.SetDefault("O11Y_BE_SERVICE_NAME", "leadbridge-api")
	v.SetDefault("O11Y_SERVICE_NAMESPACE", "leadbridge")
	v.SetDefault("O11Y_BE_SERVICE_VERSION", "1.0.0")
	v.SetDefault("O11Y_PROFILING_ENABLED", false)
	v.SetDefault("O11Y_PROFILING_APP_NAME", "leadbridge-api")
	v.SetDefault("O11Y_PROFILING_SAMPLE_TYPES", "cpu,alloc_space,alloc_objects,goroutines,mutex,block")
	v.SetDefault("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS", 15)

	// Automatically read environment variables
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")
	_ = v.ReadInConfig() //nolint:errcheck // Ignore error if .env file doesn't exist

	cfg := &Config{
		Server: ServerConfig{
			Port:           v.GetString("PORT"),
			GinMode:        v.GetString("GIN_MODE"),
			AppEnv:         v.GetString("APP_ENV"),
			AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_CORS_ORIGINS")),
		},
		CRM: CRMConfig{
			APIURL:         v.GetString("CRM_API_URL"),
			UsergroupID:    v.GetString("CRM_USERGROUP_ID"),
			TimeoutSeconds: v.GetInt("CRM_TIMEOUT_SECONDS"),
		},
		Calendly: CalendlyConfig{
			APIBaseURL:           v.GetString("CALENDLY_API_BASE_URL"),
			APIToken:             v.GetString("CALENDLY_API_TOKEN"),
			EventTypeCacheTTLSec: v.GetInt("EVENT_TYPE_CACHE_TTL"),
		},
		Webhook: WebhookConfig{
			SigningKey:        v.GetString("WEBHOOK_SIGNING_KEY"),
			SignatureRequired: v.GetBool("WEBHOOK_SIGNATURE_REQUIRED"),
		},
		Segments: SegmentsConfig{
			DefaultID:     v.GetString("SEGMENT_DEFAULT_ID"),
			CROID:         v.GetString("SEGMENT_CRO_ID"),
			PerformanceID: v.GetString("SEGMENT_PERFORMANCE_ID"),
			ExactNames:    parsePairs(v.GetString("SEGMENT_EXACT_NAMES")),
		},
		Lead: LeadConfig{
			KeepConsumedAnswers: v.GetBool("LEAD_KEEP_CONSUMED_ANSWERS"),
		},
		Logging: LoggingConfig{
			Level: v.GetString("LOG_LEVEL"),
			Dir:   v.GetString("LOG_DIR"),
		},
		Observability: ObservabilityConfig{
			AlloyEndpoint:     v.GetString("O11Y_EXPORTER_ENDPOINT"),
			ServiceName:       v.GetString("O11Y_BE_SERVICE_NAME"),
			ServiceNamespace:  v.GetString("O11Y_SERVICE_NAMESPACE"),
			ServiceVersion:    v.GetString("O11Y_BE_SERVICE_VERSION"),
			ServiceInstanceID: v.GetString("SERVICE_INSTANCE_ID"),
		},
		Profiling: ProfilingConfig{
			Enabled:               v.GetBool("O11Y_PROFILING_ENABLED"),
			Endpoint:              v.GetString("O11Y_PROFILING_ENDPOINT"),
			AppName:               v.GetString("O11Y_PROFILING_APP_NAME"),
			SampleTypes:           v.GetString("O11Y_PROFILING_SAMPLE_TYPES"),
			UploadIntervalSeconds: v.GetInt("O11Y_PROFILING_UPLOAD_INTERVAL_SECONDS"),
		},
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration values are set
func (c *Config) Validate() error {
	if c.CRM.APIURL == "" {
		return fmt.Errorf("CRM_API_URL is required")
	}
	if c.CRM.UsergroupID == "" {
		return fmt.Errorf("CRM_USERGROUP_ID is required")
	}
	if c.CRM.TimeoutSeconds <= 0 {
		return fmt.Errorf("CRM_TIMEOUT_SECONDS must be positive")
	}

	if c.Segments.DefaultID == "" {
		return fmt.Errorf("SEGMENT_DEFAULT_ID is required")
	}

	if c.Webhook.SignatureRequired && c.Webhook.SigningKey == "" {
		return fmt.Errorf("WEBHOOK_SIGNING_KEY is required when signature verification is enabled")
	}

	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Profiling.Enabled && c.Profiling.Endpoint == "" {
		return fmt.Errorf("O11Y_PROFILING_ENDPOINT is required when profiling is enabled")
	}

	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.AppEnv == "development" || c.Server.GinMode == "debug"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production"
}

// splitAndTrim parses a comma-separated list, dropping empty entries.
func splitAndTrim(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

// parsePairs parses comma-separated "Event Type Name=segmentid" pairs.
func parsePairs(s string) map[string]string {
	out := map[string]string{}
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, id, ok := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		id = strings.TrimSpace(id)
		if ok && name != "" && id != "" {
			out[name] = id
		}
	}
	return out
}
