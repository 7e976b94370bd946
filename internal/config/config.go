package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"flash-fileserver/internal/domain"
)

const (
	defaultDownloadRoute = "/dl"
	defaultMetricsRoute  = "/metrics"
	defaultBufferSize    = 8192
	defaultMaxConcurrent = 4
	defaultMaxPathLength = 255
	defaultShutdown      = 5 * time.Second
	defaultLogLevel      = "info"
	defaultLogFormat     = "text"
)

type ServerConfig struct {
	Port            int           `yaml:"port"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StorageConfig struct {
	BasePath      string `yaml:"base_path"`
	MaxPathLength int    `yaml:"max_path_length"`
}

type TransferConfig struct {
	BufferSize    int    `yaml:"buffer_size"`
	BufferPolicy  string `yaml:"buffer_policy"`
	MaxConcurrent int    `yaml:"max_concurrent"`
}

type ListingConfig struct {
	EscapeNames   *bool  `yaml:"escape_names"`
	DirectorySize string `yaml:"directory_size"`
}

// ShouldEscape экранирование включено, если явно не выключено.
func (c ListingConfig) ShouldEscape() bool {
	return c.EscapeNames == nil || *c.EscapeNames
}

type RoutesConfig struct {
	Download string `yaml:"download"`
	Metrics  string `yaml:"metrics"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type Messages struct {
	NotFound   string `yaml:"not_found"`
	ReadFailed string `yaml:"read_failed"`
	SendFailed string `yaml:"send_failed"`
	Busy       string `yaml:"busy"`
	BadRequest string `yaml:"bad_request"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Transfer TransferConfig `yaml:"transfer"`
	Listing  ListingConfig  `yaml:"listing"`
	Routes   RoutesConfig   `yaml:"routes"`
	Log      LogConfig      `yaml:"log"`
	Messages Messages       `yaml:"messages"`
}

func LoadConfig(filename string) *Config {
	cfg, err := LoadConfigWithError(filename)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

func LoadConfigWithError(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	applyDefaults(&cfg)

	// базовый путь делаю абсолютным, чтобы не зависеть от рабочего каталога.
	if cfg.Storage.BasePath != "" {
		absPath, absErr := filepath.Abs(cfg.Storage.BasePath)
		if absErr != nil {
			return nil, fmt.Errorf("failed to resolve storage base path: %w", absErr)
		}
		cfg.Storage.BasePath = absPath
	}

	if validationErr := validateConfig(&cfg); validationErr != nil {
		return nil, validationErr
	}

	return &cfg, nil
}

// applyDefaults значения как на устройстве: буфер 8 КиБ, один буфер на всех.
func applyDefaults(cfg *Config) {
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = defaultShutdown
	}
	if cfg.Storage.MaxPathLength == 0 {
		cfg.Storage.MaxPathLength = defaultMaxPathLength
	}
	if cfg.Transfer.BufferSize == 0 {
		cfg.Transfer.BufferSize = defaultBufferSize
	}
	if cfg.Transfer.BufferPolicy == "" {
		cfg.Transfer.BufferPolicy = domain.BufferPolicySerialize
	}
	if cfg.Transfer.MaxConcurrent == 0 {
		cfg.Transfer.MaxConcurrent = defaultMaxConcurrent
	}
	if cfg.Listing.DirectorySize == "" {
		cfg.Listing.DirectorySize = domain.DirectorySizeStat
	}
	if cfg.Routes.Download == "" {
		cfg.Routes.Download = defaultDownloadRoute
	}
	cfg.Routes.Download = strings.TrimRight(cfg.Routes.Download, domain.PathSeparator)
	if cfg.Routes.Metrics == "" {
		cfg.Routes.Metrics = defaultMetricsRoute
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = defaultLogLevel
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = defaultLogFormat
	}

	msgDefaults := map[*string]string{
		&cfg.Messages.NotFound:   "Not Found",
		&cfg.Messages.ReadFailed: "Failed to read existing file!",
		&cfg.Messages.SendFailed: "Failed to send file!",
		&cfg.Messages.Busy:       "Server busy",
		&cfg.Messages.BadRequest: "Bad request",
	}
	for field, value := range msgDefaults {
		if *field == "" {
			*field = value
		}
	}
}

type validationError struct {
	field string
	msg   string
}

func (e validationError) Error() string {
	return fmt.Sprintf("%s: %s", e.field, e.msg)
}

func validateConfig(cfg *Config) error {
	type validator func() error

	validators := []validator{
		func() error { return validateRequiredString("storage.base_path", cfg.Storage.BasePath) },
		func() error { return validatePort(cfg.Server.Port) },
		func() error { return validatePositiveInt("storage.max_path_length", cfg.Storage.MaxPathLength) },
		func() error { return validatePositiveInt("transfer.buffer_size", cfg.Transfer.BufferSize) },
		func() error { return validatePositiveInt("transfer.max_concurrent", cfg.Transfer.MaxConcurrent) },
		func() error {
			return validateOneOf("transfer.buffer_policy", cfg.Transfer.BufferPolicy,
				domain.BufferPolicySerialize, domain.BufferPolicyPerRequest)
		},
		func() error {
			return validateOneOf("listing.directory_size", cfg.Listing.DirectorySize,
				domain.DirectorySizeStat, domain.DirectorySizeZero)
		},
		func() error { return validateOneOf("log.format", cfg.Log.Format, "text", "json") },
		func() error { return validateRoute("routes.download", cfg.Routes.Download) },
		func() error { return validateRoute("routes.metrics", cfg.Routes.Metrics) },
	}

	for _, v := range validators {
		if err := v(); err != nil {
			return err
		}
	}

	return nil
}

func validateRequiredString(field, value string) error {
	if value == "" {
		return validationError{field: field, msg: "is required"}
	}
	return nil
}

func validatePositiveInt(field string, value int) error {
	if value <= 0 {
		return validationError{field: field, msg: "must be greater than 0"}
	}
	return nil
}

func validateOneOf(field, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return validationError{
		field: field,
		msg:   fmt.Sprintf("must be one of %s, got %q", strings.Join(allowed, ", "), value),
	}
}

func validateRoute(field, value string) error {
	if !strings.HasPrefix(value, domain.PathSeparator) || len(value) < 2 {
		return validationError{field: field, msg: fmt.Sprintf("must be an absolute non-root route, got %q", value)}
	}
	return nil
}

func validatePort(port int) error {
	if port <= 0 || port > 65535 {
		return validationError{
			field: "server.port",
			msg:   fmt.Sprintf("must be between 1 and 65535, got %d", port),
		}
	}
	return nil
}
