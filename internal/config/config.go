// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/Hughclaw18/redpill-interface/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete redpill configuration.
type Config struct {
	Version string `toml:"version" json:"version"`

	// Backend is the chat/ingest HTTP service
	Backend BackendConfig `toml:"backend" json:"backend"`

	// Upload controls which files may be attached
	Upload UploadConfig `toml:"upload" json:"upload"`

	Speech SpeechConfig `toml:"speech" json:"speech"`

	UI UIConfig `toml:"ui" json:"ui"`

	Editor EditorConfig `toml:"editor" json:"editor"`
}

// BackendConfig locates the AI backend.
type BackendConfig struct {
	// URL is the base URL; chat and ingest paths are joined onto it
	URL        string `toml:"url" json:"url"`
	ChatPath   string `toml:"chat_path" json:"chat_path"`
	IngestPath string `toml:"ingest_path" json:"ingest_path"`
	// TimeoutSecs bounds each request. Ingesting large documents can be slow.
	TimeoutSecs int `toml:"timeout_secs" json:"timeout_secs"`
}

// Timeout returns the request timeout as a duration.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSecs) * time.Second
}

// UploadConfig contains attachment limits.
type UploadConfig struct {
	// MaxFileSize is the per-file limit in bytes
	MaxFileSize int64 `toml:"max_file_size" json:"max_file_size"`
	// DropDir is watched for new files when set (terminal drop zone)
	DropDir string `toml:"drop_dir" json:"drop_dir"`
}

// SpeechConfig configures the external recognizer. An empty Command means
// speech input is not supported on this machine.
type SpeechConfig struct {
	Command string `toml:"command" json:"command"`
	Lang    string `toml:"lang" json:"lang"`
}

// UIConfig contains UI preferences.
type UIConfig struct {
	SkipLogin        bool   `toml:"skip_login" json:"skip_login"`
	Rain             bool   `toml:"rain" json:"rain"`
	DecodeIntervalMs int    `toml:"decode_interval_ms" json:"decode_interval_ms"`
	RainIntervalMs   int    `toml:"rain_interval_ms" json:"rain_interval_ms"`
	// Theme is "auto", "dark" or "light"
	Theme string `toml:"theme" json:"theme"`
}

// DecodeInterval returns the per-character reveal interval.
func (u UIConfig) DecodeInterval() time.Duration {
	return time.Duration(u.DecodeIntervalMs) * time.Millisecond
}

// RainInterval returns the background frame interval.
func (u UIConfig) RainInterval() time.Duration {
	return time.Duration(u.RainIntervalMs) * time.Millisecond
}

// EditorConfig controls where the editor saves its contents.
type EditorConfig struct {
	SaveName string `toml:"save_name" json:"save_name"`
	// SaveDir defaults to the working directory when empty
	SaveDir string `toml:"save_dir" json:"save_dir"`
}

// SavePath returns the target file for "save as file".
func (e EditorConfig) SavePath() string {
	return filepath.Join(e.SaveDir, e.SaveName)
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Version: "1.0.0",
		Backend: BackendConfig{
			URL:         "http://localhost:8000",
			ChatPath:    "/chat",
			IngestPath:  "/ingest",
			TimeoutSecs: 120,
		},
		Upload: UploadConfig{
			MaxFileSize: 10 * 1024 * 1024,
		},
		Speech: SpeechConfig{
			Lang: "en-US",
		},
		UI: UIConfig{
			Rain:             true,
			DecodeIntervalMs: 30,
			RainIntervalMs:   35,
			Theme:            "auto",
		},
		Editor: EditorConfig{
			SaveName: "ai-response.txt",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the redpill configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".redpill"), nil
}

// ConfigPathTOML returns the path to the TOML config file.
func ConfigPathTOML() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ConfigPathJSON returns the path to the JSON config file.
func ConfigPathJSON() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LogPath returns the debug log location.
func LogPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "redpill.log"), nil
}

// EnsureConfigDir ensures the config directory exists.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0755)
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// LoadDotEnv reads .env files from the working directory and the config
// directory into the process environment. Variables that are already set
// win. Missing files are not an error.
func LoadDotEnv() error {
	var files []string
	if _, err := os.Stat(".env"); err == nil {
		files = append(files, ".env")
	}
	if dir, err := ConfigDir(); err == nil {
		p := filepath.Join(dir, ".env")
		if _, err := os.Stat(p); err == nil {
			files = append(files, p)
		}
	}
	if len(files) == 0 {
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load .env: %w", err)
	}
	return nil
}

// Load loads configuration from the config file(s).
// Tries TOML first, then JSON, and falls back to defaults.
// Environment overrides (including .env files) are applied last.
func Load() (*Config, error) {
	cfg := Default()
	var loadErr error

	if err := LoadDotEnv(); err != nil {
		loadErr = err
	}

	loaded := false
	if tomlPath, err := ConfigPathTOML(); err == nil {
		if _, statErr := os.Stat(tomlPath); statErr == nil {
			if err := LoadTOML(cfg, tomlPath); err != nil {
				loadErr = fmt.Errorf("failed to load TOML config: %w", err)
				cfg = Default()
			} else {
				loaded = true
			}
		}
	}

	if !loaded {
		if jsonPath, err := ConfigPathJSON(); err == nil {
			if _, statErr := os.Stat(jsonPath); statErr == nil {
				if err := LoadJSON(cfg, jsonPath); err != nil {
					loadErr = fmt.Errorf("failed to load JSON config: %w", err)
					cfg = Default()
				}
			}
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// Defaults are still usable; loadErr is informational
	return cfg, loadErr
}

// LoadTOML loads configuration from a TOML file into cfg.
func LoadTOML(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadJSON loads configuration from a JSON file into cfg.
func LoadJSON(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read JSON file: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to decode JSON file: %w", err)
	}
	fillDefaults(cfg)
	return nil
}

// LoadFromPath loads configuration from a specific file path with full
// validation. Used by --config.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	if err := LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	if strings.HasSuffix(path, ".json") {
		if err := LoadJSON(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load JSON config from %s: %w", path, err)
		}
	} else {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, fmt.Errorf("failed to load TOML config from %s: %w", path, err)
		}
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// fillDefaults fills in any zero values a partial file left behind.
// Booleans are left alone: a file that says rain = false means it.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Version == "" {
		cfg.Version = defaults.Version
	}

	if cfg.Backend.URL == "" {
		cfg.Backend.URL = defaults.Backend.URL
	}
	if cfg.Backend.ChatPath == "" {
		cfg.Backend.ChatPath = defaults.Backend.ChatPath
	}
	if cfg.Backend.IngestPath == "" {
		cfg.Backend.IngestPath = defaults.Backend.IngestPath
	}
	if cfg.Backend.TimeoutSecs == 0 {
		cfg.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}

	if cfg.Upload.MaxFileSize == 0 {
		cfg.Upload.MaxFileSize = defaults.Upload.MaxFileSize
	}

	if cfg.Speech.Lang == "" {
		cfg.Speech.Lang = defaults.Speech.Lang
	}

	if cfg.UI.DecodeIntervalMs == 0 {
		cfg.UI.DecodeIntervalMs = defaults.UI.DecodeIntervalMs
	}
	if cfg.UI.RainIntervalMs == 0 {
		cfg.UI.RainIntervalMs = defaults.UI.RainIntervalMs
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	if cfg.Editor.SaveName == "" {
		cfg.Editor.SaveName = defaults.Editor.SaveName
	}
}

// =============================================================================
// SAVE
// =============================================================================

// SaveTOML saves the configuration to a TOML file with a short header.
func SaveTOML(cfg *Config, path string) error {
	var buf bytes.Buffer
	buf.WriteString("# redpill configuration file\n")
	buf.WriteString("# Generated by redpill - edit with care\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ErrConfigExists is returned by WriteDefault when a config file is already
// present.
var ErrConfigExists = errors.New("config file already exists")

// WriteDefault writes the built-in defaults to ~/.redpill/config.toml and
// returns the path. An existing file is only replaced when force is set.
func WriteDefault(force bool) (string, error) {
	path, err := ConfigPathTOML()
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); err == nil && !force {
		return path, fmt.Errorf("%s: %w", path, ErrConfigExists)
	}
	if err := SaveTOML(Default(), path); err != nil {
		return path, err
	}
	return path, nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return strings.Join(msgs, "; ")
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	var errs ValidateErrors

	// Backend
	if u, err := url.Parse(c.Backend.URL); err != nil || u.Host == "" {
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Message: fmt.Sprintf("invalid URL '%s'", c.Backend.URL),
		})
	} else if u.Scheme != "http" && u.Scheme != "https" {
		errs = append(errs, ValidationError{
			Field:   "backend.url",
			Message: fmt.Sprintf("unsupported scheme '%s', must be http or https", u.Scheme),
		})
	}
	for field, p := range map[string]string{
		"backend.chat_path":   c.Backend.ChatPath,
		"backend.ingest_path": c.Backend.IngestPath,
	} {
		if !strings.HasPrefix(p, "/") {
			errs = append(errs, ValidationError{Field: field, Message: "must start with '/'"})
		}
	}
	if c.Backend.TimeoutSecs < 1 || c.Backend.TimeoutSecs > 3600 {
		errs = append(errs, ValidationError{
			Field:   "backend.timeout_secs",
			Message: fmt.Sprintf("value %d out of range, must be between 1 and 3600", c.Backend.TimeoutSecs),
		})
	}

	// Upload
	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, ValidationError{
			Field:   "upload.max_file_size",
			Message: "must be positive",
		})
	}

	// UI
	if c.UI.DecodeIntervalMs < 1 {
		errs = append(errs, ValidationError{Field: "ui.decode_interval_ms", Message: "must be at least 1"})
	}
	if c.UI.RainIntervalMs < 1 {
		errs = append(errs, ValidationError{Field: "ui.rain_interval_ms", Message: "must be at least 1"})
	}
	validThemes := map[string]bool{"auto": true, "dark": true, "light": true}
	if !validThemes[strings.ToLower(c.UI.Theme)] {
		errs = append(errs, ValidationError{
			Field:   "ui.theme",
			Message: fmt.Sprintf("invalid theme '%s', must be one of: auto, dark, light", c.UI.Theme),
		})
	}

	// Editor
	if c.Editor.SaveName == "" || strings.ContainsAny(c.Editor.SaveName, `/\`) {
		errs = append(errs, ValidationError{
			Field:   "editor.save_name",
			Message: "must be a bare file name",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides.
//
//   - REDPILL_BACKEND_URL: overrides backend.url
//   - REDPILL_SPEECH_COMMAND: overrides speech.command
//   - REDPILL_DROP_DIR: overrides upload.drop_dir
//   - REDPILL_SKIP_LOGIN: overrides ui.skip_login
//   - REDPILL_NO_RAIN: disables ui.rain when truthy
func (c *Config) ApplyEnvOverrides() {
	if u := os.Getenv("REDPILL_BACKEND_URL"); u != "" {
		c.Backend.URL = u
	}
	if cmd := os.Getenv("REDPILL_SPEECH_COMMAND"); cmd != "" {
		c.Speech.Command = cmd
	}
	if dir := os.Getenv("REDPILL_DROP_DIR"); dir != "" {
		c.Upload.DropDir = dir
	}
	if skip := os.Getenv("REDPILL_SKIP_LOGIN"); skip != "" {
		c.UI.SkipLogin = isTruthy(skip)
	}
	if noRain := os.Getenv("REDPILL_NO_RAIN"); noRain != "" {
		c.UI.Rain = !isTruthy(noRain)
	}
}

func isTruthy(s string) bool {
	return s == "1" || strings.EqualFold(s, "true") || strings.EqualFold(s, "yes")
}

// =============================================================================
// GET HELPERS (DOT NOTATION)
// =============================================================================

// Get retrieves a configuration value using dot notation (e.g., "backend.url").
func (c *Config) Get(key string) (interface{}, error) {
	if key == "" {
		return nil, errors.New("empty key")
	}
	parts := strings.Split(key, ".")

	v := reflect.ValueOf(c).Elem()
	for i, part := range parts {
		field, ok := fieldByTag(v, part)
		if !ok {
			return nil, fmt.Errorf("unknown field: %s", strings.Join(parts[:i+1], "."))
		}
		if i == len(parts)-1 {
			return field.Interface(), nil
		}
		if field.Kind() != reflect.Struct {
			return nil, fmt.Errorf("field '%s' is not a struct", strings.Join(parts[:i+1], "."))
		}
		v = field
	}
	return nil, fmt.Errorf("invalid key: %s", key)
}

// fieldByTag finds a struct field by its toml tag.
func fieldByTag(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		if t.Field(i).Tag.Get("toml") == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

// GetAllKeys returns every leaf key in dot notation, in declaration order.
func GetAllKeys() []string {
	var keys []string
	var walk func(t reflect.Type, prefix string)
	walk = func(t reflect.Type, prefix string) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := prefix + f.Tag.Get("toml")
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, name+".")
				continue
			}
			keys = append(keys, name)
		}
	}
	walk(reflect.TypeOf(Config{}), "")
	return keys
}

// FormatValue renders a value returned by Get for display.
func FormatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// String returns the config as TOML, as it would be written to disk.
func (c *Config) String() string {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return buf.String()
}
