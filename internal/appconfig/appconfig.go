// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/config.json"
	// defaultRecognizerBinary is where a local build of the recognizer lands.
	defaultRecognizerBinary = "./build/src/alpr"
	// defaultJSONFlag asks the recognizer for machine-readable output on stdout.
	defaultJSONFlag = "-j"
	// defaultExporterBinary is the Ultralytics CLI entry point.
	defaultExporterBinary = "yolo"
	defaultLogFile        = "alpreval.log"
)

// Config represents the top-level application configuration.
type Config struct {
	Debug              bool     `json:"debug"`
	LogFile            string   `json:"logFile,omitempty"`
	RecognizerBinary   string   `json:"recognizerBinary,omitempty"`
	RecognizerJSONFlag string   `json:"recognizerJSONFlag,omitempty"`
	RecognizerArgs     []string `json:"recognizerArgs,omitempty"`
	TimeoutSeconds     int      `json:"timeout,omitempty" mapstructure:"timeout"`
	Jobs               int      `json:"jobs,omitempty"`
	Progress           bool     `json:"progress"`
	ExporterBinary     string   `json:"exporterBinary,omitempty"`
	ConfigPath         string   `json:"-" mapstructure:"-"`
}

// SetDefaults registers the fallback value of every configuration key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("debug", false)
	v.SetDefault("logFile", defaultLogFile)
	v.SetDefault("recognizerBinary", defaultRecognizerBinary)
	v.SetDefault("recognizerJSONFlag", defaultJSONFlag)
	v.SetDefault("recognizerArgs", []string{})
	v.SetDefault("timeout", 0)
	v.SetDefault("jobs", 1)
	v.SetDefault("progress", false)
	v.SetDefault("exporterBinary", defaultExporterBinary)
}

// FromViper materializes the merged viper state (flags > file > defaults) into a Config.
func FromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.ConfigPath = v.ConfigFileUsed()
	if cfg.Jobs < 0 {
		return Config{}, fmt.Errorf("invalid configuration: jobs must not be negative (got %d)", cfg.Jobs)
	}
	if cfg.TimeoutSeconds < 0 {
		return Config{}, fmt.Errorf("invalid configuration: timeout must not be negative (got %d)", cfg.TimeoutSeconds)
	}
	return cfg, nil
}

// IsNotFound reports whether err from ReadInConfig means the file is absent.
func IsNotFound(err error) bool {
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}

// InvocationTimeout returns the per-invocation limit; zero means none.
func (c Config) InvocationTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Workers returns how many recognizer processes may run at once.
func (c Config) Workers() int {
	if c.Jobs <= 0 {
		return 1
	}
	return c.Jobs
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// JSONFlag returns the recognizer flag that requests structured output.
func (c Config) JSONFlag() string {
	if f := strings.TrimSpace(c.RecognizerJSONFlag); f != "" {
		return f
	}
	return defaultJSONFlag
}

// RecognizerBinaryPath returns the configured recognizer binary, choosing the
// local build location for the current OS if none is set.
func (c Config) RecognizerBinaryPath() string {
	if b := strings.TrimSpace(c.RecognizerBinary); b != "" {
		return b
	}
	if runtime.GOOS == "windows" {
		return filepath.FromSlash(defaultRecognizerBinary) + ".exe"
	}
	return defaultRecognizerBinary
}

// ExporterBinaryPath resolves the model exporter executable, searching PATH
// when the configured value is a bare command name.
func (c Config) ExporterBinaryPath() string {
	b := strings.TrimSpace(c.ExporterBinary)
	if b == "" {
		b = defaultExporterBinary
	}
	if !strings.ContainsRune(b, filepath.Separator) && !strings.ContainsRune(b, '/') {
		if resolved, err := exec.LookPath(b); err == nil {
			return resolved
		}
	}
	return b
}
