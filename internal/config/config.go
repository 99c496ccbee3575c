package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Config holds application configuration.
type Config struct {
	// DefaultStyle is the citation style used when none is requested.
	// One of: apa, mla, chicago, ieee, harvard.
	DefaultStyle string `json:"default_style"`

	// Locale is the citation locale. Accepted and stored, but only en-US
	// is embedded; other values do not yet affect citation output.
	Locale string `json:"locale,omitempty"`

	// StyleCacheTTLDays controls how long fetched style definitions stay
	// fresh in the persistent cache before a refetch.
	StyleCacheTTLDays int `json:"style_cache_ttl_days"`

	// ExcerptMaxChars caps stored prompt/response excerpts.
	ExcerptMaxChars int `json:"excerpt_max_chars"`

	// DBMaxOpenConns limits the maximum number of open database connections.
	// If set to 1, all database access is serialized.
	// 0 means use sql.DB default (unlimited).
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits the maximum number of idle database connections.
	// 0 means use sql.DB default. Typically set equal to DBMaxOpenConns.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultStyle:      "apa",
		Locale:            "en-US",
		StyleCacheTTLDays: 7,
		ExcerptMaxChars:   500,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.artefakt.
func Load(baseDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(baseDir, "config.json"))
	if err != nil {
		return nil, err
	}
	return Merge(DefaultConfig(), cfg), nil
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.DefaultStyle = overlay.DefaultStyle
	if result.DefaultStyle == "" {
		result.DefaultStyle = base.DefaultStyle
	}

	result.Locale = overlay.Locale
	if result.Locale == "" {
		result.Locale = base.Locale
	}

	result.StyleCacheTTLDays = overlay.StyleCacheTTLDays
	if result.StyleCacheTTLDays == 0 {
		result.StyleCacheTTLDays = base.StyleCacheTTLDays
	}

	result.ExcerptMaxChars = overlay.ExcerptMaxChars
	if result.ExcerptMaxChars == 0 {
		result.ExcerptMaxChars = base.ExcerptMaxChars
	}

	result.DBMaxOpenConns = overlay.DBMaxOpenConns
	if result.DBMaxOpenConns == 0 {
		result.DBMaxOpenConns = base.DBMaxOpenConns
	}

	result.DBMaxIdleConns = overlay.DBMaxIdleConns
	if result.DBMaxIdleConns == 0 {
		result.DBMaxIdleConns = base.DBMaxIdleConns
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
