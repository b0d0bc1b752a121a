package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix namespaces environment overrides. Nested keys are separated by "__",
	// e.g. MEDWEB_CONTACT__RELAY_URL maps to contact.relay_url.
	EnvPrefix = "MEDWEB_"

	defaultConfigFile = "config.yaml"
	defaultEnvFile    = ".env"
	defaultPort       = "8080"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Site      SiteConfig      `koanf:"site"`
	Data      DataConfig      `koanf:"data"`
	Contact   ContactConfig   `koanf:"contact"`
	Analytics AnalyticsConfig `koanf:"analytics"`
	Session   SessionConfig   `koanf:"session"`
	Log       LogConfig       `koanf:"log"`
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ReadTimeout       time.Duration `koanf:"read_timeout"`
	WriteTimeout      time.Duration `koanf:"write_timeout"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
	RequestTimeout    time.Duration `koanf:"request_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
}

// SiteConfig holds presentation settings and on-disk locations.
type SiteConfig struct {
	Name          string        `koanf:"name"`
	BaseURL       string        `koanf:"base_url"`
	Environment   string        `koanf:"environment"`
	DefaultLang   string        `koanf:"default_lang"`
	TemplatesDir  string        `koanf:"templates_dir"`
	PublicDir     string        `koanf:"public_dir"`
	ContentDir    string        `koanf:"content_dir"`
	LocalesFile   string        `koanf:"locales_file"`
	DevMode       bool          `koanf:"dev_mode"`
	SlideInterval time.Duration `koanf:"slide_interval"`
}

// DataConfig points at the static catalog document.
type DataConfig struct {
	Source       string        `koanf:"source"`
	FetchTimeout time.Duration `koanf:"fetch_timeout"`
}

// ContactConfig configures the form relay used by the contact page.
type ContactConfig struct {
	RelayURL string        `koanf:"relay_url"`
	Timeout  time.Duration `koanf:"timeout"`
}

// AnalyticsConfig holds client instrumentation identifiers surfaced to templates.
type AnalyticsConfig struct {
	GA4MeasurementID string `koanf:"ga4_measurement_id"`
	GTMContainerID   string `koanf:"gtm_container_id"`
	Debug            bool   `koanf:"debug"`
}

// SessionConfig controls the signed session cookie.
type SessionConfig struct {
	SigningKey string `koanf:"signing_key"`
	Secure     bool   `koanf:"secure"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level string `koanf:"level"`
}

// Default returns the configuration used when no file or environment override is present.
func Default() Config {
	return Config{
		Server: ServerConfig{
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
			RequestTimeout:    30 * time.Second,
			ShutdownTimeout:   10 * time.Second,
		},
		Site: SiteConfig{
			Name:          "Al Noor Medical Mobility",
			BaseURL:       "http://localhost:8080",
			Environment:   "local",
			DefaultLang:   "en",
			TemplatesDir:  "templates",
			PublicDir:     "public",
			ContentDir:    "content",
			LocalesFile:   "locales/strings.yaml",
			SlideInterval: 6 * time.Second,
		},
		Data: DataConfig{
			Source:       "data/data.json",
			FetchTimeout: 10 * time.Second,
		},
		Contact: ContactConfig{
			Timeout: 8 * time.Second,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// ValidationError is returned when configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	out := make([]string, len(e.fields))
	copy(out, e.fields)
	return out
}

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	configFile string
	envFile    string
}

// WithConfigFile overrides the YAML file path. An empty path skips the file.
func WithConfigFile(path string) Option {
	return func(o *loaderOptions) {
		o.configFile = path
	}
}

// WithEnvFile overrides the .env file path. An empty path skips dotenv loading.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) {
		o.envFile = path
	}
}

// Load assembles the configuration: defaults, then .env (never overriding the real
// environment), then the YAML file, then MEDWEB_* environment variables.
func Load(opts ...Option) (Config, error) {
	options := loaderOptions{
		configFile: defaultConfigFile,
		envFile:    defaultEnvFile,
	}
	for _, opt := range opts {
		opt(&options)
	}

	if options.envFile != "" {
		if err := godotenv.Load(options.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: load %s: %w", options.envFile, err)
		}
	}

	k := koanf.New(".")
	if options.configFile != "" {
		if _, err := os.Stat(options.configFile); err == nil {
			if err := k.Load(file.Provider(options.configFile), yaml.Parser()); err != nil {
				return Config{}, fmt.Errorf("config: read %s: %w", options.configFile, err)
			}
		} else if !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("config: access %s: %w", options.configFile, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("config: env overrides: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal: %w", err)
	}
	normalize(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

func normalize(cfg *Config) {
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		port := strings.TrimSpace(os.Getenv("PORT"))
		if port == "" {
			port = defaultPort
		}
		cfg.Server.Addr = ":" + port
	}
	cfg.Site.DefaultLang = strings.ToLower(strings.TrimSpace(cfg.Site.DefaultLang))
	cfg.Site.Environment = strings.ToLower(strings.TrimSpace(cfg.Site.Environment))
	cfg.Site.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.Site.BaseURL), "/")
	cfg.Contact.RelayURL = strings.TrimSpace(cfg.Contact.RelayURL)
	cfg.Data.Source = strings.TrimSpace(cfg.Data.Source)
	if cfg.Site.Environment == "prod" {
		cfg.Session.Secure = true
	}
}

// IsProduction reports whether the site runs with production hardening.
func (c Config) IsProduction() bool {
	return c.Site.Environment == "prod"
}

// Validate checks that the configuration contains usable values.
func (c Config) Validate() error {
	var fields []string
	if c.Server.Addr == "" {
		fields = append(fields, "server.addr")
	}
	if c.Server.ShutdownTimeout <= 0 {
		fields = append(fields, "server.shutdown_timeout")
	}
	switch c.Site.DefaultLang {
	case "en", "ar":
	default:
		fields = append(fields, "site.default_lang")
	}
	if c.Site.SlideInterval < time.Second {
		fields = append(fields, "site.slide_interval")
	}
	if c.Site.TemplatesDir == "" {
		fields = append(fields, "site.templates_dir")
	}
	if c.Site.LocalesFile == "" {
		fields = append(fields, "site.locales_file")
	}
	if c.Data.Source == "" {
		fields = append(fields, "data.source")
	}
	if c.Data.FetchTimeout <= 0 {
		fields = append(fields, "data.fetch_timeout")
	}
	if c.Contact.Timeout <= 0 {
		fields = append(fields, "contact.timeout")
	}
	if c.Contact.RelayURL != "" {
		u, err := url.Parse(c.Contact.RelayURL)
		switch {
		case err != nil || u.Host == "":
			fields = append(fields, "contact.relay_url")
		case u.Scheme == "https":
		case u.Scheme == "http" && !c.IsProduction():
		default:
			fields = append(fields, "contact.relay_url")
		}
	}
	if c.IsProduction() && c.Session.SigningKey == "" {
		fields = append(fields, "session.signing_key")
	}
	if len(fields) > 0 {
		return &ValidationError{fields: fields}
	}
	return nil
}
