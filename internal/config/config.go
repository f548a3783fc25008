/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads and persists per-user application settings. Settings
// come from a YAML file in the user's config directory, with environment
// variables taking precedence. The remote library DSN is held in the OS
// keyring, never in the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	keyring "github.com/zalando/go-keyring"
	"gopkg.in/yaml.v3"
)

// AppConfig is the persisted application configuration.
type AppConfig struct {
	ConfigVersion int           `yaml:"config_version"`
	General       GeneralConfig `yaml:"general"`
	Editor        EditorConfig  `yaml:"editor"`
	Storage       StorageConfig `yaml:"storage"`
	Remote        RemoteConfig  `yaml:"remote"`
	Logging       LoggingConfig `yaml:"logging"`
}

type GeneralConfig struct {
	Theme         string `yaml:"theme"`
	ConfirmDelete bool   `yaml:"confirm_delete"`
}

type EditorConfig struct {
	HistoryLimit int  `yaml:"history_limit"`
	CanvasWidth  int  `yaml:"canvas_width"`
	CanvasHeight int  `yaml:"canvas_height"`
	GridSize     int  `yaml:"grid_size"`
	SnapToGrid   bool `yaml:"snap_to_grid"`
}

type StorageConfig struct {
	// TemplatesDir and DocumentsDir override the per-user defaults when set.
	TemplatesDir string `yaml:"templates_dir"`
	DocumentsDir string `yaml:"documents_dir"`
}

type RemoteConfig struct {
	Enabled bool `yaml:"enabled"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Defaults returns the baseline configuration before file and env merging.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General: GeneralConfig{
			Theme:         "dark",
			ConfirmDelete: true,
		},
		Editor: EditorConfig{
			HistoryLimit: 50,
			CanvasWidth:  1920,
			CanvasHeight: 1080,
			GridSize:     10,
			SnapToGrid:   true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Environment variable names for overrides.
const (
	EnvTheme         = "TS_THEME"
	EnvHistoryLimit  = "TS_HISTORY_LIMIT"
	EnvCanvasWidth   = "TS_CANVAS_WIDTH"
	EnvCanvasHeight  = "TS_CANVAS_HEIGHT"
	EnvGridSize      = "TS_GRID_SIZE"
	EnvSnapToGrid    = "TS_SNAP_TO_GRID"
	EnvTemplatesDir  = "TS_TEMPLATES_DIR"
	EnvDocumentsDir  = "TS_DOCUMENTS_DIR"
	EnvRemoteEnabled = "TS_REMOTE_ENABLED"
	EnvRemoteDSN     = "TS_REMOTE_DSN"
	EnvLogLevel      = "TS_LOG_LEVEL"
	EnvLogFormat     = "TS_LOG_FORMAT"
	EnvLogSource     = "TS_LOG_SOURCE"
	EnvLogFile       = "TS_LOG_FILE"
)

// Service/keys for OS keyring.
const (
	keyringService = "TelemetryStudio"
	keyringDSN     = "remote_dsn"
)

// secretStore abstracts keyring, so we can stub in tests.
var secretStore SecretStore = &osKeyring{}

type SecretStore interface {
	Get(service, key string) (string, error)
	Set(service, key, value string) error
	Delete(service, key string) error
}

// osKeyring implements SecretStore using the OS keyring via github.com/zalando/go-keyring.
type osKeyring struct{}

func (k *osKeyring) Get(service, key string) (string, error) {
	v, err := keyring.Get(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	return v, err
}

func (k *osKeyring) Set(service, key, value string) error {
	return keyring.Set(service, key, value)
}

func (k *osKeyring) Delete(service, key string) error {
	err := keyring.Delete(service, key)
	if errors.Is(err, keyring.ErrNotFound) {
		return nil
	}
	return err
}

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" {
			return "", fmt.Errorf("AppData not set")
		}
		base = filepath.Join(base, "TelemetryStudio")
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, "Library", "Application Support", "TelemetryStudio")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config", "telemetrystudio")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// DataPath returns a per-user data subdirectory, used for the default
// template and document locations when the config does not override them.
func DataPath(sub string) (string, error) {
	p, err := ConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(filepath.Dir(p), sub), nil
}

// TemplatesDir resolves the effective template directory for cfg.
func TemplatesDir(cfg AppConfig) (string, error) {
	if cfg.Storage.TemplatesDir != "" {
		return cfg.Storage.TemplatesDir, nil
	}
	return DataPath("templates")
}

// DocumentsDir resolves the effective document directory for cfg.
func DocumentsDir(cfg AppConfig) (string, error) {
	if cfg.Storage.DocumentsDir != "" {
		return cfg.Storage.DocumentsDir, nil
	}
	return DataPath("documents")
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides. The remote DSN comes from TS_REMOTE_DSN when set,
// otherwise from the OS keyring; it is returned separately and never kept in
// the struct.
func Load() (AppConfig, string, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err == nil {
		if data, rerr := os.ReadFile(path); rerr == nil {
			var fileCfg AppConfig
			if uerr := yaml.Unmarshal(data, &fileCfg); uerr != nil {
				return cfg, "", fmt.Errorf("parse %s: %w", path, uerr)
			}
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)

	dsn := os.Getenv(EnvRemoteDSN)
	if dsn == "" {
		dsn, _ = secretStore.Get(keyringService, keyringDSN)
	}
	return cfg, dsn, nil
}

// Save writes the user config YAML and persists the DSN into the OS keyring
// (if non-empty).
func Save(cfg AppConfig, dsn string) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return err
	}
	if dsn != "" {
		if err := secretStore.Set(keyringService, keyringDSN, dsn); err != nil {
			return err
		}
	}
	return nil
}

// ForgetDSN removes the stored remote DSN from the OS keyring.
func ForgetDSN() error {
	return secretStore.Delete(keyringService, keyringDSN)
}

// mergeInto overlays non-zero values from src onto dst.
func mergeInto(dst, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	dst.General.ConfirmDelete = src.General.ConfirmDelete
	if src.Editor.HistoryLimit != 0 {
		dst.Editor.HistoryLimit = src.Editor.HistoryLimit
	}
	if src.Editor.CanvasWidth != 0 {
		dst.Editor.CanvasWidth = src.Editor.CanvasWidth
	}
	if src.Editor.CanvasHeight != 0 {
		dst.Editor.CanvasHeight = src.Editor.CanvasHeight
	}
	if src.Editor.GridSize != 0 {
		dst.Editor.GridSize = src.Editor.GridSize
	}
	dst.Editor.SnapToGrid = src.Editor.SnapToGrid
	if src.Storage.TemplatesDir != "" {
		dst.Storage.TemplatesDir = src.Storage.TemplatesDir
	}
	if src.Storage.DocumentsDir != "" {
		dst.Storage.DocumentsDir = src.Storage.DocumentsDir
	}
	dst.Remote.Enabled = src.Remote.Enabled
	if src.Logging.Level != "" {
		dst.Logging.Level = src.Logging.Level
	}
	if src.Logging.Format != "" {
		dst.Logging.Format = src.Logging.Format
	}
	dst.Logging.Source = src.Logging.Source
	if src.Logging.File != "" {
		dst.Logging.File = src.Logging.File
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := os.Getenv(EnvTheme); v != "" {
		cfg.General.Theme = v
	}
	if n, ok := envInt(EnvHistoryLimit); ok {
		cfg.Editor.HistoryLimit = n
	}
	if n, ok := envInt(EnvCanvasWidth); ok {
		cfg.Editor.CanvasWidth = n
	}
	if n, ok := envInt(EnvCanvasHeight); ok {
		cfg.Editor.CanvasHeight = n
	}
	if n, ok := envInt(EnvGridSize); ok {
		cfg.Editor.GridSize = n
	}
	if b, ok := envBool(EnvSnapToGrid); ok {
		cfg.Editor.SnapToGrid = b
	}
	if v := os.Getenv(EnvTemplatesDir); v != "" {
		cfg.Storage.TemplatesDir = v
	}
	if v := os.Getenv(EnvDocumentsDir); v != "" {
		cfg.Storage.DocumentsDir = v
	}
	if b, ok := envBool(EnvRemoteEnabled); ok {
		cfg.Remote.Enabled = b
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		cfg.Logging.Format = v
	}
	if b, ok := envBool(EnvLogSource); ok {
		cfg.Logging.Source = b
	}
	if v := os.Getenv(EnvLogFile); v != "" {
		cfg.Logging.File = v
	}
}

func envInt(name string) (int, bool) {
	v := os.Getenv(name)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(name string) (bool, bool) {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(name)))
	switch v {
	case "1", "true", "yes", "on":
		return true, true
	case "0", "false", "no", "off":
		return false, true
	}
	return false, false
}
