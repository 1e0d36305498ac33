package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server     ServerConfig
	Log        LogConfig
	CORS       CORSConfig
	Recognizer RecognizerConfig
	Render     RenderConfig
	Jobs       JobsConfig
	S3         S3Config
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RecognizerProviderConfig holds settings for a single recognition backend.
type RecognizerProviderConfig struct {
	Provider     string   `mapstructure:"provider"`
	APIKey       string   `mapstructure:"api_key"`
	BaseURL      string   `mapstructure:"base_url"`
	DefaultModel string   `mapstructure:"default_model"`
	TimeoutSecs  int      `mapstructure:"timeout_secs"`
	ProjectID    string   `mapstructure:"project_id"`
	Location     string   `mapstructure:"location"`
	ProcessorID  string   `mapstructure:"processor_id"`
	Languages    []string `mapstructure:"languages"`
}

// RecognizerConfig holds the ordered recognition backends. Secondary and
// tertiary are optional fallbacks.
type RecognizerConfig struct {
	Primary   RecognizerProviderConfig `mapstructure:"primary"`
	Secondary RecognizerProviderConfig `mapstructure:"secondary"`
	Tertiary  RecognizerProviderConfig `mapstructure:"tertiary"`
	// ExtractTimeoutSecs bounds one page's recognition call including fallbacks.
	ExtractTimeoutSecs int `mapstructure:"extract_timeout_secs"`
}

// Chain returns the configured providers in fallback order.
func (r *RecognizerConfig) Chain() []*RecognizerProviderConfig {
	chain := []*RecognizerProviderConfig{&r.Primary}
	if r.Secondary.Provider != "" {
		chain = append(chain, &r.Secondary)
	}
	if r.Tertiary.Provider != "" {
		chain = append(chain, &r.Tertiary)
	}
	return chain
}

// RenderConfig holds page rasterization settings.
type RenderConfig struct {
	DPI          int           `mapstructure:"dpi"`
	PdftoppmPath string        `mapstructure:"pdftoppm_path"`
	Timeout      time.Duration `mapstructure:"timeout"`
	// MaxPixels rejects pages whose decoded raster would exceed this many pixels.
	MaxPixels    int           `mapstructure:"max_pixels"`
}

// JobsConfig holds job orchestration settings.
type JobsConfig struct {
	Concurrency     int             `mapstructure:"concurrency"`
	RetentionTTL    time.Duration   `mapstructure:"retention_ttl"`
	CleanupInterval time.Duration   `mapstructure:"cleanup_interval"`
	JobTimeout      time.Duration   `mapstructure:"job_timeout"`
	Watermark       WatermarkConfig `mapstructure:"watermark"`
}

// WatermarkConfig describes the bottom-right band erased when a request asks
// for watermark removal, as fractions of the page size.
type WatermarkConfig struct {
	WidthFrac  float64 `mapstructure:"width_frac"`
	HeightFrac float64 `mapstructure:"height_frac"`
	MarginFrac float64 `mapstructure:"margin_frac"`
}

// S3Config holds AWS S3 settings for publishing finished decks.
type S3Config struct {
	Enabled       bool   `mapstructure:"enabled"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// Load reads configuration from environment variables with the REPDF_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("REPDF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "60s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.max_upload_mb", 50)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// Recognizer defaults: local Ollama vision model first
	v.SetDefault("recognizer.primary.provider", "ollama")
	v.SetDefault("recognizer.primary.api_key", "")
	v.SetDefault("recognizer.primary.base_url", "http://localhost:11434")
	v.SetDefault("recognizer.primary.default_model", "qwen3-vl:8b")
	v.SetDefault("recognizer.primary.timeout_secs", 120)
	v.SetDefault("recognizer.secondary.provider", "")
	v.SetDefault("recognizer.secondary.timeout_secs", 60)
	v.SetDefault("recognizer.tertiary.provider", "")
	v.SetDefault("recognizer.tertiary.timeout_secs", 60)
	v.SetDefault("recognizer.extract_timeout_secs", 150)

	// Render defaults
	v.SetDefault("render.dpi", 150)
	v.SetDefault("render.pdftoppm_path", "pdftoppm")
	v.SetDefault("render.timeout", "2m")
	v.SetDefault("render.max_pixels", 64_000_000)

	// Job defaults
	v.SetDefault("jobs.concurrency", 4)
	v.SetDefault("jobs.retention_ttl", "1h")
	v.SetDefault("jobs.cleanup_interval", "5m")
	v.SetDefault("jobs.job_timeout", "30m")
	v.SetDefault("jobs.watermark.width_frac", 0.18)
	v.SetDefault("jobs.watermark.height_frac", 0.06)
	v.SetDefault("jobs.watermark.margin_frac", 0.01)

	// S3 defaults (disabled: results are served from memory)
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "repdf-results")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 3600)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                        "REPDF_SERVER_PORT",
		"server.read_timeout":                "REPDF_SERVER_READ_TIMEOUT",
		"server.write_timeout":               "REPDF_SERVER_WRITE_TIMEOUT",
		"server.environment":                 "REPDF_SERVER_ENVIRONMENT",
		"server.max_upload_mb":               "REPDF_SERVER_MAX_UPLOAD_MB",
		"log.level":                          "REPDF_LOG_LEVEL",
		"log.format":                         "REPDF_LOG_FORMAT",
		"cors.allowed_origins":               "REPDF_CORS_ALLOWED_ORIGINS",
		"recognizer.primary.provider":        "REPDF_RECOGNIZER_PRIMARY_PROVIDER",
		"recognizer.primary.api_key":         "REPDF_RECOGNIZER_PRIMARY_API_KEY",
		"recognizer.primary.base_url":        "REPDF_RECOGNIZER_PRIMARY_BASE_URL",
		"recognizer.primary.default_model":   "REPDF_RECOGNIZER_PRIMARY_DEFAULT_MODEL",
		"recognizer.primary.timeout_secs":    "REPDF_RECOGNIZER_PRIMARY_TIMEOUT_SECS",
		"recognizer.primary.project_id":      "REPDF_RECOGNIZER_PRIMARY_PROJECT_ID",
		"recognizer.primary.location":        "REPDF_RECOGNIZER_PRIMARY_LOCATION",
		"recognizer.primary.processor_id":    "REPDF_RECOGNIZER_PRIMARY_PROCESSOR_ID",
		"recognizer.primary.languages":       "REPDF_RECOGNIZER_PRIMARY_LANGUAGES",
		"recognizer.secondary.provider":      "REPDF_RECOGNIZER_SECONDARY_PROVIDER",
		"recognizer.secondary.api_key":       "REPDF_RECOGNIZER_SECONDARY_API_KEY",
		"recognizer.secondary.base_url":      "REPDF_RECOGNIZER_SECONDARY_BASE_URL",
		"recognizer.secondary.default_model": "REPDF_RECOGNIZER_SECONDARY_DEFAULT_MODEL",
		"recognizer.secondary.timeout_secs":  "REPDF_RECOGNIZER_SECONDARY_TIMEOUT_SECS",
		"recognizer.secondary.project_id":    "REPDF_RECOGNIZER_SECONDARY_PROJECT_ID",
		"recognizer.secondary.location":      "REPDF_RECOGNIZER_SECONDARY_LOCATION",
		"recognizer.secondary.processor_id":  "REPDF_RECOGNIZER_SECONDARY_PROCESSOR_ID",
		"recognizer.secondary.languages":     "REPDF_RECOGNIZER_SECONDARY_LANGUAGES",
		"recognizer.tertiary.provider":       "REPDF_RECOGNIZER_TERTIARY_PROVIDER",
		"recognizer.tertiary.api_key":        "REPDF_RECOGNIZER_TERTIARY_API_KEY",
		"recognizer.tertiary.base_url":       "REPDF_RECOGNIZER_TERTIARY_BASE_URL",
		"recognizer.tertiary.default_model":  "REPDF_RECOGNIZER_TERTIARY_DEFAULT_MODEL",
		"recognizer.tertiary.timeout_secs":   "REPDF_RECOGNIZER_TERTIARY_TIMEOUT_SECS",
		"recognizer.tertiary.project_id":     "REPDF_RECOGNIZER_TERTIARY_PROJECT_ID",
		"recognizer.tertiary.location":       "REPDF_RECOGNIZER_TERTIARY_LOCATION",
		"recognizer.tertiary.processor_id":   "REPDF_RECOGNIZER_TERTIARY_PROCESSOR_ID",
		"recognizer.tertiary.languages":      "REPDF_RECOGNIZER_TERTIARY_LANGUAGES",
		"recognizer.extract_timeout_secs":    "REPDF_RECOGNIZER_EXTRACT_TIMEOUT_SECS",
		"render.dpi":                         "REPDF_RENDER_DPI",
		"render.pdftoppm_path":               "REPDF_RENDER_PDFTOPPM_PATH",
		"render.timeout":                     "REPDF_RENDER_TIMEOUT",
		"render.max_pixels":                  "REPDF_RENDER_MAX_PIXELS",
		"jobs.concurrency":                   "REPDF_JOBS_CONCURRENCY",
		"jobs.retention_ttl":                 "REPDF_JOBS_RETENTION_TTL",
		"jobs.cleanup_interval":              "REPDF_JOBS_CLEANUP_INTERVAL",
		"jobs.job_timeout":                   "REPDF_JOBS_JOB_TIMEOUT",
		"jobs.watermark.width_frac":          "REPDF_JOBS_WATERMARK_WIDTH_FRAC",
		"jobs.watermark.height_frac":         "REPDF_JOBS_WATERMARK_HEIGHT_FRAC",
		"jobs.watermark.margin_frac":         "REPDF_JOBS_WATERMARK_MARGIN_FRAC",
		"s3.enabled":                         "REPDF_S3_ENABLED",
		"s3.region":                          "REPDF_S3_REGION",
		"s3.bucket":                          "REPDF_S3_BUCKET",
		"s3.endpoint":                        "REPDF_S3_ENDPOINT",
		"s3.access_key":                      "REPDF_S3_ACCESS_KEY",
		"s3.secret_key":                      "REPDF_S3_SECRET_KEY",
		"s3.presign_expiry":                  "REPDF_S3_PRESIGN_EXPIRY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Container platforms set a PORT env var. Use it if REPDF_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("REPDF_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
		MaxUploadMB:  v.GetInt64("server.max_upload_mb"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}

	cfg.Recognizer = RecognizerConfig{
		Primary:            providerConfig(v, "recognizer.primary"),
		Secondary:          providerConfig(v, "recognizer.secondary"),
		Tertiary:           providerConfig(v, "recognizer.tertiary"),
		ExtractTimeoutSecs: v.GetInt("recognizer.extract_timeout_secs"),
	}

	cfg.Render = RenderConfig{
		DPI:          v.GetInt("render.dpi"),
		PdftoppmPath: v.GetString("render.pdftoppm_path"),
		Timeout:      v.GetDuration("render.timeout"),
		MaxPixels:    v.GetInt("render.max_pixels"),
	}

	cfg.Jobs = JobsConfig{
		Concurrency:     v.GetInt("jobs.concurrency"),
		RetentionTTL:    v.GetDuration("jobs.retention_ttl"),
		CleanupInterval: v.GetDuration("jobs.cleanup_interval"),
		JobTimeout:      v.GetDuration("jobs.job_timeout"),
		Watermark:       WatermarkConfig{
			WidthFrac:  v.GetFloat64("jobs.watermark.width_frac"),
			HeightFrac: v.GetFloat64("jobs.watermark.height_frac"),
			MarginFrac: v.GetFloat64("jobs.watermark.margin_frac"),
		},
	}

	cfg.S3 = S3Config{
		Enabled:       v.GetBool("s3.enabled"),
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}

	return cfg, nil
}

func providerConfig(v *viper.Viper, prefix string) RecognizerProviderConfig {
	return RecognizerProviderConfig{
		Provider:     v.GetString(prefix + ".provider"),
		APIKey:       v.GetString(prefix + ".api_key"),
		BaseURL:      v.GetString(prefix + ".base_url"),
		DefaultModel: v.GetString(prefix + ".default_model"),
		TimeoutSecs:  v.GetInt(prefix + ".timeout_secs"),
		ProjectID:    v.GetString(prefix + ".project_id"),
		Location:     v.GetString(prefix + ".location"),
		ProcessorID:  v.GetString(prefix + ".processor_id"),
		Languages:    splitList(v.GetString(prefix + ".languages")),
	}
}

// splitList parses a comma-separated string, dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
