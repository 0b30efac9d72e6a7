package bedrock

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/osmarBedrock/bedrock-frontend/internal/backoff"
)

// Config holds the settings needed to reach the reporting backend.
type Config struct {
	// BackendURL is the API base, e.g. http://localhost:8081/api. Required.
	BackendURL string

	Timeout      time.Duration
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
	// Backoff is "exponential" (default) or "decorrelated".
	Backoff string
	Jitter  float64

	CacheTTL time.Duration

	// Env selects the logger flavour: "production" or "development".
	Env string
}

// DefaultConfig returns defaults for everything except BackendURL.
func DefaultConfig() Config {
	return Config{
		Timeout:      30 * time.Second,
		RetryMax:     2,
		RetryWaitMin: 200 * time.Millisecond,
		RetryWaitMax: 5 * time.Second,
		Backoff:      "exponential",
		Jitter:       0.1,
		CacheTTL:     DefaultTTL,
		Env:          "development",
	}
}

// LoadConfig reads configuration from the optional YAML file at path and
// from BEDROCK_* environment variables, which take precedence
// (BEDROCK_BACKEND_URL, BEDROCK_CACHE_TTL, ...). A missing file is not an
// error; a missing backend URL is.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()

	v.SetEnvPrefix("BEDROCK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultConfig()
	v.SetDefault("backend.url", "")
	v.SetDefault("backend.timeout", defaults.Timeout)
	v.SetDefault("backend.retry_max", defaults.RetryMax)
	v.SetDefault("backend.retry_wait_min", defaults.RetryWaitMin)
	v.SetDefault("backend.retry_wait_max", defaults.RetryWaitMax)
	v.SetDefault("backend.backoff", defaults.Backoff)
	v.SetDefault("backend.jitter", defaults.Jitter)
	v.SetDefault("cache.ttl", defaults.CacheTTL)
	v.SetDefault("env", defaults.Env)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !os.IsNotExist(err) {
				return nil, fmt.Errorf("error reading config file: %w", err)
			}
		}
	}

	cfg := &Config{
		BackendURL:   strings.TrimSpace(v.GetString("backend.url")),
		Timeout:      v.GetDuration("backend.timeout"),
		RetryMax:     v.GetInt("backend.retry_max"),
		RetryWaitMin: v.GetDuration("backend.retry_wait_min"),
		RetryWaitMax: v.GetDuration("backend.retry_wait_max"),
		Backoff:      v.GetString("backend.backoff"),
		Jitter:       v.GetFloat64("backend.jitter"),
		CacheTTL:     v.GetDuration("cache.ttl"),
		Env:          v.GetString("env"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is usable. A missing BackendURL
// yields ErrMissingBaseURL.
func (c *Config) Validate() error {
	if c == nil || c.BackendURL == "" {
		return ErrMissingBaseURL
	}

	var problems []string

	u, err := url.Parse(c.BackendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		problems = append(problems, fmt.Sprintf("backend url %q must be absolute", c.BackendURL))
	}
	if c.Timeout <= 0 {
		problems = append(problems, "timeout must be positive")
	}
	if c.RetryMax < 0 {
		problems = append(problems, "retry max must be non-negative")
	}
	if c.RetryWaitMin <= 0 {
		problems = append(problems, "retry wait min must be positive")
	}
	if c.RetryWaitMax < c.RetryWaitMin {
		problems = append(problems, "retry wait max must be >= retry wait min")
	}
	if _, err := backoff.ByName(c.Backoff, c.Jitter); err != nil {
		problems = append(problems, err.Error())
	}
	if c.Jitter < 0 || c.Jitter > 1 {
		problems = append(problems, "jitter must be between 0 and 1")
	}
	if c.CacheTTL <= 0 {
		problems = append(problems, "cache ttl must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w:\n  - %s", ErrInvalidConfig, strings.Join(problems, "\n  - "))
	}
	return nil
}
