package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// DefaultAPIBaseURL is the backend API root used when no config file overrides it.
const DefaultAPIBaseURL = "http://localhost:8000/api/v1"

// Config holds application configuration.
type Config struct {
	// APIBaseURL is the root of the monitoring backend REST API.
	APIBaseURL string `json:"api_base_url"`

	// RequestTimeoutSecs bounds every backend request. 0 means the default (15s).
	RequestTimeoutSecs int `json:"request_timeout_secs,omitempty"`

	// ExportDir is where CSV exports are written.
	// Empty means <baseDir>/exports.
	ExportDir string `json:"export_dir,omitempty"`

	// DBMaxOpenConns limits open connections to the identity database.
	// If set to 1, all access is serialized. 0 means the sql.DB default.
	DBMaxOpenConns int `json:"db_max_open_conns,omitempty"`

	// DBMaxIdleConns limits idle connections to the identity database.
	DBMaxIdleConns int `json:"db_max_idle_conns,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from registration.
	// Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:         DefaultAPIBaseURL,
		RequestTimeoutSecs: 15,
	}
}

// Load loads configuration from baseDir/config.json.
// Returns default config if the file doesn't exist.
// The baseDir parameter allows tests to use t.TempDir() instead of ~/.rankwatch.
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

	result.APIBaseURL = overlay.APIBaseURL
	if result.APIBaseURL == "" {
		result.APIBaseURL = base.APIBaseURL
	}

	result.RequestTimeoutSecs = overlay.RequestTimeoutSecs
	if result.RequestTimeoutSecs == 0 {
		result.RequestTimeoutSecs = base.RequestTimeoutSecs
	}

	result.ExportDir = overlay.ExportDir
	if result.ExportDir == "" {
		result.ExportDir = base.ExportDir
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
