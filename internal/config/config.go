package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Scenario scripts how the simulated backend treats queries whose text
// contains Match. Checks takes precedence over Duration when both are set.
type Scenario struct {
	Match    string           `yaml:"match"`
	Duration string           `yaml:"duration"`
	Checks   int              `yaml:"checks"`
	Fail     bool             `yaml:"fail"`
	Rows     []map[string]any `yaml:"rows"`
}

type ScenariosConfig struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

type Config struct {
	Port          string
	LogLevel      string
	MaxAttempts   int
	PollInterval  time.Duration
	QueryDuration time.Duration
	ScenariosFile string
	Scenarios     *ScenariosConfig
}

func Load() (*Config, error) {
	// Optional .env in the working directory, same as the hosted runtime
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		ScenariosFile: getEnv("SCENARIOS_FILE", "./queries.yaml"),
	}

	var err error
	if cfg.MaxAttempts, err = getEnvInt("MAX_ATTEMPTS", 20); err != nil {
		return nil, err
	}
	if cfg.MaxAttempts < 0 {
		return nil, fmt.Errorf("MAX_ATTEMPTS must be >= 0, got %d", cfg.MaxAttempts)
	}
	if cfg.PollInterval, err = getEnvDuration("POLL_INTERVAL", 2*time.Second); err != nil {
		return nil, err
	}
	if cfg.QueryDuration, err = getEnvDuration("QUERY_DURATION", 10*time.Second); err != nil {
		return nil, err
	}

	scenarios, err := loadScenarios(cfg.ScenariosFile)
	if err != nil {
		return nil, fmt.Errorf("loading scenarios config: %w", err)
	}
	cfg.Scenarios = scenarios

	return cfg, nil
}

func loadScenarios(path string) (*ScenariosConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// No scenarios file is fine - every query uses the defaults
			return &ScenariosConfig{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var cfg ScenariosConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return &cfg, nil
}

// ParseDuration accepts Go duration strings and, for compatibility with the
// original env convention, bare integers meaning seconds.
func ParseDuration(v string) (time.Duration, error) {
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	return time.ParseDuration(v)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("%s must not be negative", key)
	}
	return d, nil
}
