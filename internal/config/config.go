// Package config loads the process-level settings of the adapter host from
// a YAML file. Per-call settings come from the virtual schema properties and
// are layered on top by the dispatcher.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"go.yaml.in/yaml/v3"

	"github.com/koustreak/vschema/internal/errs"
	"github.com/koustreak/vschema/internal/logger"
)

// Config holds all settings of the adapter host.
type Config struct {
	// Adapter is the registered name of the adapter that serves requests.
	Adapter string `yaml:"adapter"`

	// Log is the baseline logging setup; LOG_LEVEL and DEBUG_ADDRESS
	// schema properties override it per call.
	Log LogConfig `yaml:"log"`
}

// LogConfig mirrors logger.Config in YAML form.
type LogConfig struct {
	Level         string `yaml:"level"`          // debug, info, warn, error
	Format        string `yaml:"format"`         // json, console
	TimeFormat    string `yaml:"time_format"`    // rfc3339, unix, unixms, unixmicro
	RemoteAddress string `yaml:"remote_address"` // host:port, optional
}

// DefaultConfig returns the settings used when no file is given.
func DefaultConfig() *Config {
	lc := logger.DefaultConfig()
	return &Config{
		Log: LogConfig{
			Level:      lc.Level,
			Format:     lc.Format,
			TimeFormat: lc.TimeFormat,
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path or a
// missing file yields the defaults; a malformed or invalid file is an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidConfig, "read "+path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errs.Wrap(errs.ErrKindInvalidConfig, "parse "+path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the settings for consistency.
func (c *Config) Validate() error {
	if !logger.ValidLevel(c.Log.Level) {
		return invalid("log.level", c.Log.Level)
	}
	switch c.Log.Format {
	case "json", "console":
	default:
		return invalid("log.format", c.Log.Format)
	}
	switch c.Log.TimeFormat {
	case "", "rfc3339", "unix", "unixms", "unixmicro":
	default:
		return invalid("log.time_format", c.Log.TimeFormat)
	}
	return nil
}

func invalid(field, value string) error {
	return &errs.Error{
		Kind:    errs.ErrKindInvalidConfig,
		Message: "invalid value",
		Field:   field,
		Token:   value,
	}
}

// Logger converts the logging section into a logger.Config writing to out.
func (c LogConfig) Logger(out io.Writer) *logger.Config {
	return &logger.Config{
		Level:         c.Level,
		Format:        c.Format,
		TimeFormat:    c.TimeFormat,
		Output:        out,
		RemoteAddress: c.RemoteAddress,
	}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
