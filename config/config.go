package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	s3proxyhttp "github.com/sagarc03/s3proxy/http"
)

// Storage backends.
const (
	BackendS3         = "s3"
	BackendFilesystem = "filesystem"
)

// configKey is the context key for storing the loaded configuration.
type configKey struct{}

// WithContext returns a new context with the config stored.
func WithContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, configKey{}, cfg)
}

// FromContext retrieves the config from context.
// Returns an error if config is not found.
func FromContext(ctx context.Context) (*Config, error) {
	cfg, ok := ctx.Value(configKey{}).(*Config)
	if !ok || cfg == nil {
		return nil, errors.New("config not found in context")
	}
	return cfg, nil
}

// Config is the root configuration struct for s3proxy.
type Config struct {
	Env     string                 `mapstructure:"env" yaml:"env"`
	Server  ServerConfig           `mapstructure:"server" yaml:"server"`
	S3      S3Config               `mapstructure:"s3" yaml:"s3"`
	Storage StorageConfig          `mapstructure:"storage" yaml:"storage"`
	CORS    s3proxyhttp.CORSConfig `mapstructure:"cors" yaml:"cors"`
	Log     LogConfig              `mapstructure:"log" yaml:"log"`
}

// ServerConfig holds HTTP server configuration. Timeouts are in seconds.
type ServerConfig struct {
	Port         int `mapstructure:"port" yaml:"port" validate:"required,min=1,max=65535"`
	ReadTimeout  int `mapstructure:"read_timeout" yaml:"read_timeout" validate:"min=1"`
	WriteTimeout int `mapstructure:"write_timeout" yaml:"write_timeout" validate:"min=1"`
	IdleTimeout  int `mapstructure:"idle_timeout" yaml:"idle_timeout" validate:"min=1"`
}

// ReadTimeoutDuration returns ReadTimeout as a time.Duration.
func (s ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns WriteTimeout as a time.Duration.
func (s ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// IdleTimeoutDuration returns IdleTimeout as a time.Duration.
func (s ServerConfig) IdleTimeoutDuration() time.Duration {
	return time.Duration(s.IdleTimeout) * time.Second
}

// S3Config holds the object store connection settings.
type S3Config struct {
	Bucket      string `mapstructure:"bucket" yaml:"bucket" validate:"required"`
	Region      string `mapstructure:"region" yaml:"region"`
	Endpoint    string `mapstructure:"endpoint" yaml:"endpoint" validate:"omitempty,url"`
	PathStyle   bool   `mapstructure:"path_style" yaml:"path_style"`
	AccessKey   string `mapstructure:"access_key" yaml:"access_key" validate:"required_with=SecretKey"`
	SecretKey   string `mapstructure:"secret_key" yaml:"secret_key" validate:"required_with=AccessKey"`
	MaxAttempts int    `mapstructure:"max_attempts" yaml:"max_attempts" validate:"min=1"`
}

// StorageConfig selects the storage backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend" yaml:"backend" validate:"required,oneof=s3 filesystem"`
	// Path is the filesystem backend root; buckets are directories below it.
	Path string `mapstructure:"path" yaml:"path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level" validate:"required,oneof=debug info warn error"`
	// Format is text or json. Empty picks json when env is prod and text otherwise.
	Format string `mapstructure:"format" yaml:"format,omitempty" validate:"omitempty,oneof=text json"`
}

// Masked returns a copy of the config with secrets replaced, suitable for printing.
func (c Config) Masked() Config {
	if c.S3.SecretKey != "" {
		c.S3.SecretKey = "********"
	}
	return c
}

// flagToViperKey maps CLI flag names to viper configuration keys.
var flagToViperKey = map[string]string{
	"port":         "server.port",
	"bucket":       "s3.bucket",
	"region":       "s3.region",
	"endpoint":     "s3.endpoint",
	"path-style":   "s3.path_style",
	"backend":      "storage.backend",
	"storage-path": "storage.path",
	"log-level":    "log.level",
	"log-format":   "log.format",
}

// envAliases binds the plain environment names used by common deployments in
// addition to the S3PROXY_ prefixed ones. The prefixed name wins.
var envAliases = map[string][]string{
	"server.port": {"S3PROXY_SERVER_PORT", "SERVER_PORT"},
	"s3.region":   {"S3PROXY_S3_REGION", "AWS_REGION"},
	"s3.bucket":   {"S3PROXY_S3_BUCKET", "BUCKET_NAME"},
}

// bindFlags binds CLI flags to viper keys with custom name mapping.
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		// Use custom mapping if it exists, otherwise use flag name as-is
		viperKey := f.Name
		if mapped, ok := flagToViperKey[viperKey]; ok {
			viperKey = mapped
		}

		// Only bind if the flag was explicitly set
		if f.Changed {
			_ = v.BindPFlag(viperKey, f)
		}
	})
}

// setDefaults configures default values on the viper instance.
func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "")

	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)

	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.path_style", false)
	v.SetDefault("s3.access_key", "")
	v.SetDefault("s3.secret_key", "")
	v.SetDefault("s3.max_attempts", 3)

	v.SetDefault("storage.backend", BackendS3)
	v.SetDefault("storage.path", "./data")

	v.SetDefault("cors.enabled", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "")
}

// Load reads configuration and returns a validated Config struct.
// Order of precedence (highest to lowest): flags > env > config files > defaults
//
// Parameters:
//   - configFiles: list of config file paths (later files override earlier ones)
//   - flags: cobra flag set for flag binding (can be nil)
func Load(configFiles []string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Read config files
	if len(configFiles) > 0 {
		v.SetConfigFile(configFiles[0])
		if err := v.ReadInConfig(); err != nil {
			slog.Warn("error reading config file", "file", configFiles[0], "err", err)
		}

		for _, cf := range configFiles[1:] {
			v.SetConfigFile(cf)
			if err := v.MergeInConfig(); err != nil {
				slog.Warn("error merging config file", "file", cf, "err", err)
			}
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var configNotFound viper.ConfigFileNotFoundError
			if !errors.As(err, &configNotFound) {
				slog.Warn("error reading config file", "err", err)
			}
		}
	}

	// 3. Bind environment variables
	v.SetEnvPrefix("S3PROXY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, names := range envAliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	// 4. Bind flags (if provided)
	if flags != nil {
		bindFlags(v, flags)
	}

	// 5. Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// 6. Validate using go-playground/validator
	if err := newValidator().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &cfg, nil
}

func newValidator() *validator.Validate {
	validate := validator.New()
	validate.RegisterStructValidation(validateBackend, Config{})
	return validate
}

// validateBackend enforces the settings each storage backend needs.
func validateBackend(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok {
		return
	}

	switch cfg.Storage.Backend {
	case BackendS3:
		if cfg.S3.Region == "" {
			sl.ReportError(cfg.S3.Region, "S3.Region", "Region", "required_for_s3", "")
		}
	case BackendFilesystem:
		if cfg.Storage.Path == "" {
			sl.ReportError(cfg.Storage.Path, "Storage.Path", "Path", "required_for_filesystem", "")
		}
	}
}
