package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"

	minRequestBytes = 1 << 10
)

// Config is everything the server binary needs. It is resolved once at
// startup and passed down explicitly.
type Config struct {
	Addr            string `json:"addr"`
	PublicPath      string `json:"public_path"`
	DataPath        string `json:"data_path"`
	ReadTimeoutMs   int    `json:"read_timeout_ms"`
	WriteTimeoutMs  int    `json:"write_timeout_ms"`
	MaxRequestBytes int    `json:"max_request_bytes"`
	HotReload       bool   `json:"hot_reload"`
	LogLevel        string `json:"log_level"`
	LogFormat       string `json:"log_format"`

	// APIJWTSecret only comes from the environment.
	APIJWTSecret string `json:"-"`
}

func (c Config) ReadTimeout() time.Duration {
	return time.Duration(c.ReadTimeoutMs) * time.Millisecond
}

func (c Config) WriteTimeout() time.Duration {
	return time.Duration(c.WriteTimeoutMs) * time.Millisecond
}

func Default() Config {
	return Config{
		Addr:            "localhost:8080",
		PublicPath:      "public",
		DataPath:        "data",
		ReadTimeoutMs:   5000,
		WriteTimeoutMs:  5000,
		MaxRequestBytes: 64 << 10,
		HotReload:       false,
		LogLevel:        "info",
		LogFormat:       FormatConsole,
	}
}

// Load resolves the configuration from, in increasing priority: defaults,
// the JSON file named by -config, environment variables and flags. Invalid
// values fall back to their defaults; each fallback is reported in the
// returned warnings.
func Load(args []string, getenv func(string) string, output io.Writer) (Config, []string, error) {
	cfg := Default()
	var warnings []string

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(output)

	var flags Config
	path := fs.String("config", "", "path to a JSON config file")
	fs.StringVar(&flags.Addr, "addr", cfg.Addr, "listen address (host:port)")
	fs.StringVar(&flags.PublicPath, "public", cfg.PublicPath, "directory served by the static pages")
	fs.StringVar(&flags.DataPath, "data", cfg.DataPath, "directory holding orders.json")
	fs.IntVar(&flags.ReadTimeoutMs, "read-timeout-ms", cfg.ReadTimeoutMs, "read deadline per connection")
	fs.IntVar(&flags.WriteTimeoutMs, "write-timeout-ms", cfg.WriteTimeoutMs, "write deadline per connection")
	fs.IntVar(&flags.MaxRequestBytes, "max-request-bytes", cfg.MaxRequestBytes, "largest accepted request")
	fs.BoolVar(&flags.HotReload, "hot-reload", cfg.HotReload, "cache content and reload it on change")
	fs.StringVar(&flags.LogLevel, "log-level", cfg.LogLevel, "trace, debug, info, warn or error")
	fs.StringVar(&flags.LogFormat, "log-format", cfg.LogFormat, "console or json")

	if err := fs.Parse(args); err != nil {
		return cfg, nil, err
	}

	if *path != "" {
		if err := cfg.readFile(*path); err != nil {
			return cfg, nil, err
		}
	}

	warnings = append(warnings, cfg.readEnv(getenv)...)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = flags.Addr
		case "public":
			cfg.PublicPath = flags.PublicPath
		case "data":
			cfg.DataPath = flags.DataPath
		case "read-timeout-ms":
			cfg.ReadTimeoutMs = flags.ReadTimeoutMs
		case "write-timeout-ms":
			cfg.WriteTimeoutMs = flags.WriteTimeoutMs
		case "max-request-bytes":
			cfg.MaxRequestBytes = flags.MaxRequestBytes
		case "hot-reload":
			cfg.HotReload = flags.HotReload
		case "log-level":
			cfg.LogLevel = flags.LogLevel
		case "log-format":
			cfg.LogFormat = flags.LogFormat
		}
	})

	warnings = append(warnings, cfg.validate()...)
	return cfg, warnings, nil
}

func (c *Config) readFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("could not read config %s: %w", path, err)
	}

	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("invalid config %s: %w", path, err)
	}

	return nil
}

func (c *Config) readEnv(getenv func(string) string) []string {
	var warnings []string

	if v := getenv("SERVER_ADDR"); v != "" {
		c.Addr = v
	}
	if v := getenv("PUBLIC_PATH"); v != "" {
		c.PublicPath = v
	}
	if v := getenv("DATA_PATH"); v != "" {
		c.DataPath = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := getenv("LOG_FORMAT"); v != "" {
		c.LogFormat = v
	}
	if v := getenv("HOT_RELOAD"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("HOT_RELOAD=%q is not a boolean, ignoring", v))
		} else {
			c.HotReload = b
		}
	}
	c.APIJWTSecret = getenv("API_JWT_SECRET")

	return warnings
}

func (c *Config) validate() []string {
	var warnings []string
	def := Default()

	if c.Addr == "" {
		warnings = append(warnings, fmt.Sprintf("addr is empty, falling back to %s", def.Addr))
		c.Addr = def.Addr
	}

	if c.PublicPath == "" {
		warnings = append(warnings, fmt.Sprintf("public_path is empty, falling back to %s", def.PublicPath))
		c.PublicPath = def.PublicPath
	}

	if c.DataPath == "" {
		warnings = append(warnings, fmt.Sprintf("data_path is empty, falling back to %s", def.DataPath))
		c.DataPath = def.DataPath
	}

	if c.ReadTimeoutMs <= 0 {
		warnings = append(warnings, fmt.Sprintf("read_timeout_ms=%d is invalid, falling back to %dms", c.ReadTimeoutMs, def.ReadTimeoutMs))
		c.ReadTimeoutMs = def.ReadTimeoutMs
	}

	if c.WriteTimeoutMs <= 0 {
		warnings = append(warnings, fmt.Sprintf("write_timeout_ms=%d is invalid, falling back to %dms", c.WriteTimeoutMs, def.WriteTimeoutMs))
		c.WriteTimeoutMs = def.WriteTimeoutMs
	}

	if c.MaxRequestBytes < minRequestBytes {
		warnings = append(warnings, fmt.Sprintf("max_request_bytes=%d is below %d, falling back to %d", c.MaxRequestBytes, minRequestBytes, def.MaxRequestBytes))
		c.MaxRequestBytes = def.MaxRequestBytes
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		warnings = append(warnings, fmt.Sprintf("log_level=%q is unknown, falling back to %s", c.LogLevel, def.LogLevel))
		c.LogLevel = def.LogLevel
	}

	if c.LogFormat != FormatConsole && c.LogFormat != FormatJSON {
		warnings = append(warnings, fmt.Sprintf("log_format=%q is unknown, falling back to %s", c.LogFormat, def.LogFormat))
		c.LogFormat = def.LogFormat
	}

	return warnings
}

// IsHelp reports whether Load stopped because -h or -help was passed.
func IsHelp(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
