package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	NATS      NATSConfig      `mapstructure:"nats"`
	Valkey    ValkeyConfig    `mapstructure:"valkey"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
	Temporal  TemporalConfig  `mapstructure:"temporal"`
	LLM       LLMConfig       `mapstructure:"llm"`
	Trips     TripsConfig     `mapstructure:"trips"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type ServerConfig struct {
	Port         int `mapstructure:"port"`
	ReadTimeout  int `mapstructure:"read_timeout"`
	WriteTimeout int `mapstructure:"write_timeout"`
	// BodyLimitMB bounds uploads such as receipt photos.
	BodyLimitMB int `mapstructure:"body_limit_mb"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
	SSLMode  string `mapstructure:"sslmode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.DBName, d.SSLMode,
	)
}

type NATSConfig struct {
	URL string `mapstructure:"url"`
}

type ValkeyConfig struct {
	Addr string `mapstructure:"addr"`
	// Enabled=false uses the in-process cache instead.
	Enabled bool `mapstructure:"enabled"`
}

type TelemetryConfig struct {
	ServiceName string `mapstructure:"service_name"`
	TempoAddr   string `mapstructure:"tempo_addr"`
	Enabled     bool   `mapstructure:"enabled"`
}

type TemporalConfig struct {
	HostPort  string `mapstructure:"host_port"`
	Namespace string `mapstructure:"namespace"`
	TaskQueue string `mapstructure:"task_queue"`
}

// LLMConfig selects the hosted generation provider.
type LLMConfig struct {
	Provider string `mapstructure:"provider"` // gemini | openai
	APIKey   string `mapstructure:"api_key"`
	BaseURL  string `mapstructure:"base_url"`
	// Models per operation.
	TripModel     string `mapstructure:"trip_model"`
	ChatModel     string `mapstructure:"chat_model"`
	ReceiptModel  string `mapstructure:"receipt_model"`
	AnalysisModel string `mapstructure:"analysis_model"`
}

type EnvelopeConfig struct {
	Enabled bool    `mapstructure:"enabled"`
	MinLat  float64 `mapstructure:"min_lat"`
	MaxLat  float64 `mapstructure:"max_lat"`
	MinLon  float64 `mapstructure:"min_lon"`
	MaxLon  float64 `mapstructure:"max_lon"`
}

type RenderConfig struct {
	Stride    int `mapstructure:"stride"`
	Threshold int `mapstructure:"threshold"`
	PaddingPx int `mapstructure:"padding_px"`
}

// TripsConfig tunes the trip planning pipeline.
type TripsConfig struct {
	Marker           string         `mapstructure:"marker"`
	MinWaypoints     int            `mapstructure:"min_waypoints"`
	Language         string         `mapstructure:"language"`
	HistoryLimit     int            `mapstructure:"history_limit"`
	HistoryWaypoints bool           `mapstructure:"history_waypoints"`
	Mode             string         `mapstructure:"mode"` // text | json
	Envelope         EnvelopeConfig `mapstructure:"envelope"`
	Render           RenderConfig   `mapstructure:"render"`
}

type AssistantConfig struct {
	Language string `mapstructure:"language"`
	Greeting string `mapstructure:"greeting"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load(service string) (*Config, error) {
	v := viper.New()
	setDefaults(v, service)

	// Config file (optional)
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	_ = v.ReadInConfig() // OK if missing

	// Environment variables: MOTOSPIRIT_LLM_API_KEY → llm.api_key
	v.SetEnvPrefix("MOTOSPIRIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.LLM.applyModelDefaults()

	return &cfg, nil
}

// providerModels are the per-operation defaults: trip, chat, receipt, analysis.
// An empty entry lets the adapter choose, e.g. a search model for web-grounded trips.
var providerModels = map[string][4]string{
	"gemini": {"gemini-2.5-flash", "gemini-2.5-flash", "gemini-2.5-flash", "gemini-2.5-pro"},
	"openai": {"", "gpt-4o-mini", "gpt-4o-mini", "gpt-4o"},
}

func (l *LLMConfig) applyModelDefaults() {
	d, ok := providerModels[l.Provider]
	if !ok {
		return
	}
	for i, m := range []*string{&l.TripModel, &l.ChatModel, &l.ReceiptModel, &l.AnalysisModel} {
		if *m == "" {
			*m = d[i]
		}
	}
}

func setDefaults(v *viper.Viper, service string) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 120)
	v.SetDefault("server.body_limit_mb", 12)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "moto")
	v.SetDefault("database.password", "")
	v.SetDefault("database.dbname", "motospirit")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("nats.url", "nats://localhost:4222")
	v.SetDefault("valkey.addr", "localhost:6379")
	v.SetDefault("valkey.enabled", true)
	v.SetDefault("telemetry.service_name", service)
	v.SetDefault("telemetry.tempo_addr", "tempo:4317")
	v.SetDefault("telemetry.enabled", true)
	v.SetDefault("temporal.host_port", "localhost:7233")
	v.SetDefault("temporal.namespace", "default")
	v.SetDefault("temporal.task_queue", "maintenance-analysis")

	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	// Empty models resolve to the provider's defaults after loading.
	v.SetDefault("llm.trip_model", "")
	v.SetDefault("llm.chat_model", "")
	v.SetDefault("llm.receipt_model", "")
	v.SetDefault("llm.analysis_model", "")

	v.SetDefault("trips.marker", "[[WAYPOINTS]]")
	v.SetDefault("trips.min_waypoints", 30)
	v.SetDefault("trips.language", "cs")
	v.SetDefault("trips.history_limit", 10)
	v.SetDefault("trips.history_waypoints", false)
	v.SetDefault("trips.mode", "text")
	v.SetDefault("trips.envelope.enabled", true)
	v.SetDefault("trips.envelope.min_lat", 30.0)
	v.SetDefault("trips.envelope.max_lat", 75.0)
	v.SetDefault("trips.envelope.min_lon", -12.0)
	v.SetDefault("trips.envelope.max_lon", 45.0)
	v.SetDefault("trips.render.stride", 10)
	v.SetDefault("trips.render.threshold", 12)
	v.SetDefault("trips.render.padding_px", 40)

	v.SetDefault("assistant.language", "cs")
	v.SetDefault("assistant.greeting", "Ahoj motorkáři! Jsem MotoSpirit. S čím ti dnes můžu pomoct?")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// Validate checks that required configuration fields are present and sane.
func (c *Config) Validate() error {
	var errs []string

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Sprintf("server.port must be 1-65535, got %d", c.Server.Port))
	}
	if c.Database.Host == "" {
		errs = append(errs, "database.host is required")
	}
	if c.Database.Port <= 0 || c.Database.Port > 65535 {
		errs = append(errs, fmt.Sprintf("database.port must be 1-65535, got %d", c.Database.Port))
	}
	if c.Database.User == "" {
		errs = append(errs, "database.user is required")
	}
	if c.Database.DBName == "" {
		errs = append(errs, "database.dbname is required")
	}
	if c.NATS.URL == "" {
		errs = append(errs, "nats.url is required")
	}
	if c.Valkey.Enabled && c.Valkey.Addr == "" {
		errs = append(errs, "valkey.addr is required when valkey is enabled")
	}
	if c.Server.ReadTimeout <= 0 {
		errs = append(errs, "server.read_timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		errs = append(errs, "server.write_timeout must be positive")
	}

	switch c.LLM.Provider {
	case "gemini", "openai":
	default:
		errs = append(errs, fmt.Sprintf("llm.provider must be gemini or openai, got %q", c.LLM.Provider))
	}

	t := c.Trips
	if t.Marker == "" {
		errs = append(errs, "trips.marker is required")
	}
	if t.MinWaypoints < 2 {
		errs = append(errs, fmt.Sprintf("trips.min_waypoints must be at least 2, got %d", t.MinWaypoints))
	}
	if t.HistoryLimit < 1 || t.HistoryLimit > 50 {
		errs = append(errs, fmt.Sprintf("trips.history_limit must be 1-50, got %d", t.HistoryLimit))
	}
	if t.Mode != "text" && t.Mode != "json" {
		errs = append(errs, fmt.Sprintf("trips.mode must be text or json, got %q", t.Mode))
	}
	if t.Render.Stride < 1 {
		errs = append(errs, "trips.render.stride must be at least 1")
	}
	if t.Render.Threshold < 0 || t.Render.PaddingPx < 0 {
		errs = append(errs, "trips.render threshold and padding_px must not be negative")
	}
	if e := t.Envelope; e.Enabled {
		if e.MinLat >= e.MaxLat || e.MinLon >= e.MaxLon {
			errs = append(errs, "trips.envelope min must be below max")
		}
		if e.MinLat < -90 || e.MaxLat > 90 || e.MinLon < -180 || e.MaxLon > 180 {
			errs = append(errs, "trips.envelope must lie inside WGS84 bounds")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
