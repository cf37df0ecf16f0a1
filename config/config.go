package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Scale    ScaleConfig    `yaml:"scale"`
	Branding BrandingConfig `yaml:"branding"`
	Render   RenderConfig   `yaml:"render"`
}

// ServerConfig holds the HTTP server configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// ScaleConfig holds the serial scale reader configuration. An explicitly
// configured Port takes precedence over auto-discovery.
type ScaleConfig struct {
	Enabled           bool   `yaml:"enabled"`
	Port              string `yaml:"port"`
	BaudRate          int    `yaml:"baud_rate"`
	SettleSeconds     int    `yaml:"settle_seconds"`
	BackoffSeconds    int    `yaml:"backoff_seconds"`
	PollMillis        int    `yaml:"poll_millis"`
	ReadTimeoutMillis int    `yaml:"read_timeout_millis"`

	Settle      time.Duration `yaml:"-"`
	Backoff     time.Duration `yaml:"-"`
	Poll        time.Duration `yaml:"-"`
	ReadTimeout time.Duration `yaml:"-"`
}

// BrandingConfig holds the company fields printed on every ticket. The
// backend does not interpret them, it only passes them to the renderer.
type BrandingConfig struct {
	CompanyName string `yaml:"company_name"`
	TaxID       string `yaml:"tax_id"`
	Address     string `yaml:"address"`
	Contact     string `yaml:"contact"`
	LogoPath    string `yaml:"logo_path"`
	ScaleModel  string `yaml:"scale_model"`
}

// RenderConfig holds the PDF output configuration.
type RenderConfig struct {
	OutputDir      string `yaml:"output_dir"`
	WorkerPoolSize int    `yaml:"worker_pool_size"`
	Auto           bool   `yaml:"auto"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 5
	}

	cfg.Scale.ApplyDefaults()

	if cfg.Render.OutputDir == "" {
		cfg.Render.OutputDir = "tickets_pdf"
	}
	if cfg.Render.WorkerPoolSize <= 0 {
		cfg.Render.WorkerPoolSize = 1
	}

	return &cfg, nil
}

// ApplyDefaults fills in the scale timing defaults and derives the duration
// fields from their scalar counterparts.
func (s *ScaleConfig) ApplyDefaults() {
	if s.BaudRate <= 0 {
		s.BaudRate = 9600
	}
	if s.SettleSeconds <= 0 {
		s.SettleSeconds = 2
	}
	if s.BackoffSeconds <= 0 {
		s.BackoffSeconds = 5
	}
	if s.PollMillis <= 0 {
		s.PollMillis = 100
	}
	if s.ReadTimeoutMillis <= 0 {
		s.ReadTimeoutMillis = 1000
	}

	s.Settle = time.Duration(s.SettleSeconds) * time.Second
	s.Backoff = time.Duration(s.BackoffSeconds) * time.Second
	s.Poll = time.Duration(s.PollMillis) * time.Millisecond
	s.ReadTimeout = time.Duration(s.ReadTimeoutMillis) * time.Millisecond
}
