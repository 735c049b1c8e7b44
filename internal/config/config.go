package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	folioerrors "github.com/vango-dev/folio/internal/errors"
	"github.com/vango-dev/folio/pkg/fieldstore"
	"github.com/vango-dev/folio/pkg/site"
)

// DefaultFile is the config file looked up when no path is given.
const DefaultFile = "folio.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "FOLIO_"

// Duration is a time.Duration that reads and writes as "1.5s" in YAML.
type Duration time.Duration

// Std returns d as a time.Duration.
func (d Duration) Std() time.Duration { return time.Duration(d) }

// String implements fmt.Stringer.
func (d Duration) String() string { return time.Duration(d).String() }

// MarshalYAML writes the duration in its string form.
func (d Duration) MarshalYAML() (any, error) {
	return d.String(), nil
}

// UnmarshalText parses a Go duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Config is the complete server configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server" koanf:"server"`
	Store   StoreConfig   `yaml:"store" koanf:"store"`
	Contact ContactConfig `yaml:"contact" koanf:"contact"`
	Tracing TracingConfig `yaml:"tracing" koanf:"tracing"`
	Log     LogConfig     `yaml:"log" koanf:"log"`
	Profile site.Profile  `yaml:"profile" koanf:"profile"`
}

// ServerConfig configures the HTTP listener and live sessions.
type ServerConfig struct {
	// Addr is the listen address.
	Addr string `yaml:"addr" koanf:"addr"`

	// AllowedOrigins lists origins allowed to call /api and open the
	// live socket. Empty means same origin only.
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`

	// ReadHeaderTimeout bounds request header reads.
	ReadHeaderTimeout Duration `yaml:"read_header_timeout" koanf:"read_header_timeout"`

	// WriteTimeout bounds each socket write.
	WriteTimeout Duration `yaml:"write_timeout" koanf:"write_timeout"`

	// PingInterval is how often idle sockets are pinged.
	PingInterval Duration `yaml:"ping_interval" koanf:"ping_interval"`

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout Duration `yaml:"shutdown_timeout" koanf:"shutdown_timeout"`

	// MaxSessions caps concurrent live sessions. Zero means unlimited.
	MaxSessions int `yaml:"max_sessions" koanf:"max_sessions"`

	// SecureCookie marks the visitor cookie Secure.
	SecureCookie bool `yaml:"secure_cookie" koanf:"secure_cookie"`
}

// StoreConfig selects the field store backend.
type StoreConfig struct {
	Driver  string      `yaml:"driver" koanf:"driver"`
	DSN     string      `yaml:"dsn" koanf:"dsn"`
	Table   string      `yaml:"table" koanf:"table"`
	Migrate bool        `yaml:"migrate" koanf:"migrate"`
	Timeout Duration    `yaml:"timeout" koanf:"timeout"`
	S3      S3Config    `yaml:"s3" koanf:"s3"`
	Redis   RedisConfig `yaml:"redis" koanf:"redis"`
}

// RedisConfig configures the redis driver.
type RedisConfig struct {
	Addr     string `yaml:"addr" koanf:"addr"`
	Username string `yaml:"username" koanf:"username"`
	Password string `yaml:"password" koanf:"password"`
	DB       int    `yaml:"db" koanf:"db"`
	Prefix   string `yaml:"prefix" koanf:"prefix"`
}

// S3Config configures the s3 driver.
type S3Config struct {
	Bucket          string `yaml:"bucket" koanf:"bucket"`
	Region          string `yaml:"region" koanf:"region"`
	Endpoint        string `yaml:"endpoint" koanf:"endpoint"`
	Prefix          string `yaml:"prefix" koanf:"prefix"`
	AccessKeyID     string `yaml:"access_key_id" koanf:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key" koanf:"secret_access_key"`
	UsePathStyle    bool   `yaml:"use_path_style" koanf:"use_path_style"`
}

// ContactConfig tunes the contact form.
type ContactConfig struct {
	SubmitDelay    Duration `yaml:"submit_delay" koanf:"submit_delay"`
	BannerDuration Duration `yaml:"banner_duration" koanf:"banner_duration"`
	SubmitLabel    string   `yaml:"submit_label" koanf:"submit_label"`
	BusyLabel      string   `yaml:"busy_label" koanf:"busy_label"`
}

// TracingConfig configures OTLP trace export. An empty endpoint disables it.
type TracingConfig struct {
	Endpoint    string  `yaml:"endpoint" koanf:"endpoint"`
	Insecure    bool    `yaml:"insecure" koanf:"insecure"`
	ServiceName string  `yaml:"service_name" koanf:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio" koanf:"sample_ratio"`
}

// LogConfig configures the slog handler.
type LogConfig struct {
	// Level is debug, info, warn or error.
	Level string `yaml:"level" koanf:"level"`

	// Format is text or json.
	Format string `yaml:"format" koanf:"format"`
}

// New returns a Config with defaults applied.
func New() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration(10 * time.Second),
			WriteTimeout:      Duration(10 * time.Second),
			PingInterval:      Duration(30 * time.Second),
			ShutdownTimeout:   Duration(15 * time.Second),
		},
		Store: StoreConfig{
			Driver:  fieldstore.DriverMemory,
			Migrate: true,
			Timeout: Duration(2 * time.Second),
			S3: S3Config{
				Prefix: "fields/",
			},
		},
		Contact: ContactConfig{
			SubmitDelay:    Duration(1500 * time.Millisecond),
			BannerDuration: Duration(5 * time.Second),
			SubmitLabel:    "Send Message",
			BusyLabel:      "Sending...",
		},
		Tracing: TracingConfig{
			ServiceName: "folio",
			SampleRatio: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Profile: site.DefaultProfile(),
	}
}

// Load reads configuration from path and the environment on top of the
// defaults. A missing file is not an error; an empty path means
// DefaultFile.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFile
	}

	k := koanf.New(".")
	cfg := New()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, folioerrors.New(folioerrors.CodeConfigLoad).
				WithDetail(path).
				Wrap(err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, folioerrors.New(folioerrors.CodeConfigLoad).
			WithDetail("environment").
			Wrap(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, folioerrors.New(folioerrors.CodeConfigLoad).
			WithDetail(path).
			Wrap(err)
	}

	return cfg, nil
}

// envKey maps FOLIO_STORE__S3__BUCKET to store.s3.bucket.
func envKey(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(s, "__", ".")
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

// Validate checks the configuration for values the server cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if c.Server.Addr == "" {
		problems = append(problems, "server.addr is required")
	}
	if c.Server.MaxSessions < 0 {
		problems = append(problems, "server.max_sessions must not be negative")
	}

	switch c.Store.Driver {
	case "", fieldstore.DriverMemory:
	case fieldstore.DriverSQLite, fieldstore.DriverPostgres:
		if c.Store.DSN == "" {
			problems = append(problems, fmt.Sprintf("store.dsn is required for the %s driver", c.Store.Driver))
		}
	case fieldstore.DriverS3:
		if c.Store.S3.Bucket == "" {
			problems = append(problems, "store.s3.bucket is required for the s3 driver")
		}
	case fieldstore.DriverRedis:
		if c.Store.Redis.Addr == "" {
			problems = append(problems, "store.redis.addr is required for the redis driver")
		}
	default:
		problems = append(problems, fmt.Sprintf("store.driver %q is not one of memory, sqlite, postgres, s3, redis", c.Store.Driver))
	}

	if c.Contact.SubmitDelay < 0 {
		problems = append(problems, "contact.submit_delay must not be negative")
	}
	if c.Contact.BannerDuration < 0 {
		problems = append(problems, "contact.banner_duration must not be negative")
	}

	if c.Tracing.SampleRatio < 0 || c.Tracing.SampleRatio > 1 {
		problems = append(problems, "tracing.sample_ratio must be between 0 and 1")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is not one of text, json", c.Log.Format))
	}

	if len(problems) == 0 {
		return nil
	}
	return folioerrors.New(folioerrors.CodeInvalidConfig).
		WithDetail(strings.Join(problems, "; "))
}

// StoreOptions converts the store section for fieldstore.Open.
func (c *Config) StoreOptions() fieldstore.Options {
	return fieldstore.Options{
		Driver:  c.Store.Driver,
		DSN:     c.Store.DSN,
		Table:   c.Store.Table,
		Migrate: c.Store.Migrate,
		S3: fieldstore.S3Options{
			Bucket:          c.Store.S3.Bucket,
			Region:          c.Store.S3.Region,
			Endpoint:        c.Store.S3.Endpoint,
			Prefix:          c.Store.S3.Prefix,
			AccessKeyID:     c.Store.S3.AccessKeyID,
			SecretAccessKey: c.Store.S3.SecretAccessKey,
			UsePathStyle:    c.Store.S3.UsePathStyle,
		},
		Redis: fieldstore.RedisOptions{
			Addr:     c.Store.Redis.Addr,
			Username: c.Store.Redis.Username,
			Password: c.Store.Redis.Password,
			DB:       c.Store.Redis.DB,
			Prefix:   c.Store.Redis.Prefix,
		},
	}
}
