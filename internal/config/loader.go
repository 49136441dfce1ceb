package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	return Parse(b)
}

// Parse parses raw JSON into Config, applies defaults and validates.
func Parse(raw []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	applyDefaults(&cfg)
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes the config to disk as pretty-printed JSON.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("save config: path is empty")
	}
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func applyDefaults(cfg *Config) {
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Runtime.SettleDelayMs <= 0 {
		cfg.Runtime.SettleDelayMs = 2000
	}
	if cfg.Runtime.DebounceMs < 0 {
		cfg.Runtime.DebounceMs = 0
	}
	if cfg.Runtime.StabilizationMs < 0 {
		cfg.Runtime.StabilizationMs = 0
	}

	if cfg.Paths == nil {
		cfg.Paths = map[string]string{}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	for key, sub := range map[string]string{
		"home":        "",
		"downloads":   "Downloads",
		"documents":   "Documents",
		"desktop":     "Desktop",
		"pictures":    "Pictures",
		"screenshots": filepath.Join("Pictures", "Screenshots"),
	} {
		if _, ok := cfg.Paths[key]; !ok {
			cfg.Paths[key] = filepath.Join(home, sub)
		}
	}
}

func Validate(cfg *Config) error {
	if cfg.Version <= 0 {
		return errors.New("version must be > 0")
	}
	for key, p := range cfg.Paths {
		if p == "" {
			return fmt.Errorf("paths[%s]: value is empty", key)
		}
		if !filepath.IsAbs(p) {
			return fmt.Errorf("paths[%s]: %q must be absolute", key, p)
		}
	}
	if cfg.Runtime.StateDbPath != "" && !filepath.IsAbs(cfg.Runtime.StateDbPath) {
		return errors.New("runtime.stateDbPath must be absolute if set")
	}
	return nil
}

// Provider re-reads the config file on every PlaceholderPaths call so that
// mid-run edits take effect on the next action execution. A read or parse
// failure falls back to the last good config.
type Provider struct {
	path string

	mu   sync.Mutex
	last *Config
}

func NewProvider(path string, initial *Config) *Provider {
	return &Provider{path: path, last: initial}
}

// Current returns a freshly loaded config, or the last good one when the
// file is momentarily unreadable or invalid.
func (p *Provider) Current() *Config {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cfg, err := Load(p.path); err == nil {
		p.last = cfg
	}
	return p.last
}

// PlaceholderPaths returns a copy of the current path placeholder values.
func (p *Provider) PlaceholderPaths() map[string]string {
	cfg := p.Current()
	out := make(map[string]string, len(cfg.Paths))
	for k, v := range cfg.Paths {
		out[k] = v
	}
	return out
}
