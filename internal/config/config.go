package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"blogsearch/internal/domain"
	"blogsearch/internal/eventbus"
)

// DefaultFileName is looked up in the working directory when no path is given
const DefaultFileName = ".blogsearch.toml"

// ErrNotFound is returned when a config file does not exist
var ErrNotFound = errors.New("config file not found")

// Config represents the application configuration
type Config struct {
	Version       int            `toml:"version"`
	ContentDir    string         `toml:"content_dir"`
	BasePath      string         `toml:"base_path"` // deep links are {base_path}/{slug}#{heading}
	DefaultLocale string         `toml:"default_locale"`
	Locales       []string       `toml:"locales"`
	IncludeDrafts bool           `toml:"include_drafts"`
	Search        SearchSettings `toml:"search"`
	UISettings    UISettings     `toml:"ui"`
	Server        ServerSettings `toml:"server"`
	Log           LogSettings    `toml:"log"`
	Watch         WatchSettings  `toml:"watch"`
}

// SearchSettings controls excerpt and highlight output
type SearchSettings struct {
	ExcerptWidth int    `toml:"excerpt_width"`
	Ellipsis     string `toml:"ellipsis"`
	MarkOpen     string `toml:"mark_open"`
	MarkClose    string `toml:"mark_close"`
	CacheSize    int    `toml:"cache_size"` // 0 disables memoization
}

// UISettings represents UI-related configuration
type UISettings struct {
	OpenKeys   []string `toml:"open_keys"`
	DebounceMs int      `toml:"debounce_ms"` // 0 re-runs the search on every keystroke
	AltScreen  bool     `toml:"alt_screen"`
	MaxRows    int      `toml:"max_rows"`
}

// ServerSettings configures the HTTP API
type ServerSettings struct {
	Addr             string `toml:"addr"`
	DefaultLimit     int    `toml:"default_limit"`
	MaxResults       int    `toml:"max_results"`
	ShutdownTimeoutS int    `toml:"shutdown_timeout_seconds"`
}

// LogSettings configures slog output
type LogSettings struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
	File   string `toml:"file"` // used when the terminal is owned by the TUI
}

// WatchSettings configures content reloads
type WatchSettings struct {
	Enabled    bool `toml:"enabled"`
	DebounceMs int  `toml:"debounce_ms"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a config service reading path, or
// DefaultFileName in the working directory when path is empty
func NewConfigService(path string) ConfigService {
	if path == "" {
		path = DefaultFileName
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigService(path).(*configService)
	cs.bus = bus
	return cs
}

func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration file, falling back to defaults when the
// file does not exist
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, ErrNotFound) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigLoadedEvent{Path: cs.filePath})
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path. Missing fields
// keep their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Relative content dirs are relative to the config file
	if cfg.ContentDir != "" && !filepath.IsAbs(cfg.ContentDir) {
		cfg.ContentDir = filepath.Join(filepath.Dir(path), cfg.ContentDir)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	if cs.bus != nil {
		cs.bus.Publish(domain.ConfigSavedEvent{Path: path})
	}
	return nil
}

// Validate checks values that would otherwise break searching or serving
func (c *Config) Validate() error {
	var problems []string

	if c.ContentDir == "" {
		problems = append(problems, "content_dir is empty")
	}
	if c.Search.ExcerptWidth < 0 {
		problems = append(problems, "search.excerpt_width must not be negative")
	}
	if c.Search.CacheSize < 0 {
		problems = append(problems, "search.cache_size must not be negative")
	}
	if c.UISettings.DebounceMs < 0 {
		problems = append(problems, "ui.debounce_ms must not be negative")
	}
	if c.DefaultLocale == "" {
		problems = append(problems, "default_locale is empty")
	}
	if c.BasePath != "" && !strings.HasPrefix(c.BasePath, "/") {
		problems = append(problems, "base_path must start with /")
	}
	if c.Server.DefaultLimit < 1 || c.Server.MaxResults < c.Server.DefaultLimit {
		problems = append(problems, "server limits must satisfy 1 <= default_limit <= max_results")
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// AllLocales returns the default locale followed by the other configured locales
func (c *Config) AllLocales() []string {
	out := []string{c.DefaultLocale}
	for _, l := range c.Locales {
		if l != "" && l != c.DefaultLocale {
			out = append(out, l)
		}
	}
	return out
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version:       1,
		ContentDir:    "content",
		BasePath:      "/blog",
		DefaultLocale: "en",
		Locales:       []string{"en"},
		Search: SearchSettings{
			ExcerptWidth: 80,
			Ellipsis:     "...",
			MarkOpen:     "<mark>",
			MarkClose:    "</mark>",
			CacheSize:    256,
		},
		UISettings: UISettings{
			OpenKeys:  []string{"/", "ctrl+k"},
			AltScreen: true,
			MaxRows:   8,
		},
		Server: ServerSettings{
			Addr:             ":8080",
			DefaultLimit:     20,
			MaxResults:       100,
			ShutdownTimeoutS: 10,
		},
		Log: LogSettings{
			Level:  "info",
			Format: "text",
			File:   "blogsearch.log",
		},
		Watch: WatchSettings{
			Enabled:    true,
			DebounceMs: 200,
		},
	}
}
