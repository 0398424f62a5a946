package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"
)

// Config is the full tally configuration surface. The reporting workflow
// reads credentials fresh at each point of use, so holders of a Config
// should treat it as a snapshot, not a cache.
type Config struct {
	// Accrual
	InactivityToleranceSeconds int    `yaml:"inactivity_tolerance_seconds"`
	ActivityPolicy             string `yaml:"activity_policy"`

	// Rovas credentials and target
	APIKey     string `yaml:"api_key"`
	APIToken   string `yaml:"api_token"`
	ProjectID  string `yaml:"project_id"`
	PaidStatus bool   `yaml:"paid_status"`
	BaseURL    string `yaml:"base_url"`

	// Watched repositories (working-copy paths)
	Repositories []string `yaml:"repositories"`

	PollIntervalSeconds int    `yaml:"poll_interval_seconds"`
	DBPath              string `yaml:"db_path"`
	LogCalls            bool   `yaml:"log_calls"`
}

// Default returns a Config with sensible defaults. Reporting stays disabled
// until credentials and paid status are configured.
func Default() Config {
	return Config{
		InactivityToleranceSeconds: 30,
		ActivityPolicy:             "signal-recency",
		BaseURL:                    "",
		PollIntervalSeconds:        5,
		LogCalls:                   false,
	}
}

// DefaultPath returns the standard config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".config", "tally", "config.yaml"), nil
}

// DefaultDBPath returns the standard database location.
func DefaultDBPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("finding home directory: %w", err)
	}
	return filepath.Join(home, ".tally", "tally.db"), nil
}

// Load reads configuration from the YAML file at path (a missing file is
// not an error) and applies TALLY_* environment overrides on top.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// no file yet; env and defaults apply
		case err != nil:
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	applyEnv(&cfg)

	if cfg.InactivityToleranceSeconds < 0 {
		cfg.InactivityToleranceSeconds = 0
	}
	if cfg.PollIntervalSeconds <= 0 {
		cfg.PollIntervalSeconds = 5
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("TALLY_INACTIVITY_TOLERANCE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.InactivityToleranceSeconds = n
		}
	}
	if v := os.Getenv("TALLY_ACTIVITY_POLICY"); v != "" {
		cfg.ActivityPolicy = v
	}
	if v := os.Getenv("TALLY_API_KEY"); v != "" {
		cfg.APIKey = v
	}
	if v := os.Getenv("TALLY_API_TOKEN"); v != "" {
		cfg.APIToken = v
	}
	if v := os.Getenv("TALLY_PROJECT_ID"); v != "" {
		cfg.ProjectID = v
	}
	if v := os.Getenv("TALLY_PAID_STATUS"); v != "" {
		cfg.PaidStatus, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv("TALLY_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}
	if v := os.Getenv("TALLY_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("TALLY_LOG_CALLS"); v != "" {
		cfg.LogCalls, _ = strconv.ParseBool(v)
	}
}

// Source yields fresh configuration snapshots. The workflow consults it at
// each poll so credential changes apply without a restart.
type Source interface {
	Snapshot() Config
}

// FileSource re-reads the config file on every snapshot, falling back to
// the last good snapshot when a read fails mid-run. Safe for concurrent
// use; every watcher and the reload loop share one instance.
type FileSource struct {
	path string

	mu   sync.Mutex
	last Config
}

// NewFileSource creates a Source for the given path, validating it once.
func NewFileSource(path string) (*FileSource, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &FileSource{path: path, last: cfg}, nil
}

func (s *FileSource) Snapshot() Config {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg, err := Load(s.path)
	if err != nil {
		return s.last
	}
	s.last = cfg
	return cfg
}

// Static is a Source returning a fixed Config, for tests and one-shot
// commands.
type Static struct {
	Config Config
}

func (s Static) Snapshot() Config { return s.Config }
