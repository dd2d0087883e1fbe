/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig is the user-editable configuration persisted to a YAML file in the user scope.
// Environment variables are treated as read-only overrides at runtime.
//
// config_version: bump when the structure changes in a backward-incompatible way.
// Unknown fields are ignored on unmarshal, so older builds read newer files.

type GeneralConfig struct {
	TelemetryOptIn bool   `yaml:"telemetry_opt_in"`
	Theme          string `yaml:"theme"` // "system" | "light" | "dark" (informational for now)
}

// ExportConfig holds the defaults applied when an export command does not
// state a format, quality or size explicitly.
type ExportConfig struct {
	Format      string `yaml:"format"`       // "png" | "jpeg"
	JPEGQuality int    `yaml:"jpeg_quality"` // 1..100
	SizePreset  string `yaml:"size_preset"`  // named preset or "canvas"
}

// PreviewsConfig bounds the sidecar preview cache.
type PreviewsConfig struct {
	MaxCacheBytes int64 `yaml:"max_cache_bytes"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

type AppConfig struct {
	ConfigVersion int            `yaml:"config_version"`
	General       GeneralConfig  `yaml:"general"`
	Export        ExportConfig   `yaml:"export"`
	Previews      PreviewsConfig `yaml:"previews"`
	Logging       LoggingConfig  `yaml:"logging"`
}

// Defaults returns the application defaults.
func Defaults() AppConfig {
	return AppConfig{
		ConfigVersion: 1,
		General:       GeneralConfig{TelemetryOptIn: false, Theme: "system"},
		Export:        ExportConfig{Format: "png", JPEGQuality: 90, SizePreset: "canvas"},
		Previews:      PreviewsConfig{MaxCacheBytes: 256 * 1024 * 1024},
		Logging:       LoggingConfig{Level: "info", Format: "console", Source: false, File: ""},
	}
}

// Env var names used as overrides.
const (
	EnvTelemetryOptIn  = "GSD_TELEMETRY"
	EnvExportFormat    = "GSD_EXPORT_FORMAT"
	EnvJPEGQuality     = "GSD_JPEG_QUALITY"
	EnvSizePreset      = "GSD_SIZE_PRESET"
	EnvPreviewCacheMax = "GSD_PREVIEW_CACHE_MAX_BYTES"

	EnvLogLevel  = "GSD_LOG_LEVEL"
	EnvLogFormat = "GSD_LOG_FORMAT"
	EnvLogSource = "GSD_LOG_SOURCE"
	EnvLogFile   = "GSD_LOG_FILE"
)

// ConfigPath returns the per-user config file path.
func ConfigPath() (string, error) {
	var base string
	switch runtime.GOOS {
	case "windows":
		base = os.Getenv("AppData")
		if base == "" { // fallback
			base = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		base = filepath.Join(base, "GoShotDesigner")
	case "darwin":
		base = filepath.Join(os.Getenv("HOME"), "Library", "Application Support", "GoShotDesigner")
	default: // linux and others
		base = filepath.Join(os.Getenv("HOME"), ".config", "goshotdesigner")
	}
	if base == "" {
		return "", errors.New("cannot resolve config directory")
	}
	return filepath.Join(base, "config.yaml"), nil
}

// Load reads the user config file (if present), applies defaults, and merges
// environment overrides.
func Load() (AppConfig, error) {
	cfg := Defaults()
	path, err := ConfigPath()
	if err != nil {
		return cfg, err
	}
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg AppConfig
		if err := yaml.Unmarshal(data, &fileCfg); err == nil {
			mergeInto(&cfg, &fileCfg)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

// Save writes the user config YAML.
func Save(cfg AppConfig) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func mergeInto(dst *AppConfig, src *AppConfig) {
	if src.ConfigVersion != 0 {
		dst.ConfigVersion = src.ConfigVersion
	}
	if src.General.Theme != "" {
		dst.General.Theme = src.General.Theme
	}
	// booleans: copy directly from src (file) so user preferences persist
	dst.General.TelemetryOptIn = src.General.TelemetryOptIn
	// export defaults
	if strings.TrimSpace(src.Export.Format) != "" {
		dst.Export.Format = strings.ToLower(strings.TrimSpace(src.Export.Format))
	}
	if src.Export.JPEGQuality != 0 {
		dst.Export.JPEGQuality = src.Export.JPEGQuality
	}
	if strings.TrimSpace(src.Export.SizePreset) != "" {
		dst.Export.SizePreset = strings.TrimSpace(src.Export.SizePreset)
	}
	// previews
	if src.Previews.MaxCacheBytes != 0 {
		dst.Previews.MaxCacheBytes = src.Previews.MaxCacheBytes
	}
	// logging
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	if v := strings.TrimSpace(os.Getenv(EnvTelemetryOptIn)); v != "" {
		lv := strings.ToLower(v)
		cfg.General.TelemetryOptIn = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvExportFormat)); v != "" {
		cfg.Export.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvJPEGQuality)); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			cfg.Export.JPEGQuality = n
		}
	}
	if v := strings.TrimSpace(os.Getenv(EnvSizePreset)); v != "" {
		cfg.Export.SizePreset = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvPreviewCacheMax)); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			cfg.Previews.MaxCacheBytes = n
		}
	}
	// logging overrides
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}

// EnvOverrideFor returns the env var name if the field is overridden by environment variables.
func EnvOverrideFor(key string) (string, bool) {
	switch key {
	case "general.telemetry_opt_in":
		if os.Getenv(EnvTelemetryOptIn) != "" {
			return EnvTelemetryOptIn, true
		}
	case "export.format":
		if os.Getenv(EnvExportFormat) != "" {
			return EnvExportFormat, true
		}
	case "export.jpeg_quality":
		if os.Getenv(EnvJPEGQuality) != "" {
			return EnvJPEGQuality, true
		}
	case "export.size_preset":
		if os.Getenv(EnvSizePreset) != "" {
			return EnvSizePreset, true
		}
	case "previews.max_cache_bytes":
		if os.Getenv(EnvPreviewCacheMax) != "" {
			return EnvPreviewCacheMax, true
		}
	case "logging.level":
		if os.Getenv(EnvLogLevel) != "" {
			return EnvLogLevel, true
		}
	case "logging.format":
		if os.Getenv(EnvLogFormat) != "" {
			return EnvLogFormat, true
		}
	case "logging.source":
		if os.Getenv(EnvLogSource) != "" {
			return EnvLogSource, true
		}
	case "logging.file":
		if os.Getenv(EnvLogFile) != "" {
			return EnvLogFile, true
		}
	}
	return "", false
}
