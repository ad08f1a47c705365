package logger

import (
	"os"
	"strconv"
)

// Config holds logging configuration
type Config struct {
	Level          string `yaml:"level"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
	ConsoleFormat  string `yaml:"console_format"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileFormat     string `yaml:"file_format"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
	FileMaxAgeDays int    `yaml:"file_max_age_days"`
}

// DefaultConfig returns the logging defaults: warnings and errors on the console, no file
func DefaultConfig() Config {
	return Config{
		Level:          "WARNING",
		ConsoleEnabled: true,
		ConsoleFormat:  "text",
		FileEnabled:    false,
		FilePath:       "logs/esxforge.log",
		FileFormat:     "text",
		FileMaxSizeMB:  10,
		FileMaxBackups: 5,
		FileMaxAgeDays: 30,
	}
}

// ApplyEnv applies environment variable overrides
func (c Config) ApplyEnv() Config {
	if logLevel := os.Getenv("ESXFORGE_LOG_LEVEL"); logLevel != "" {
		c.Level = logLevel
	}

	if consoleFormat := os.Getenv("ESXFORGE_LOG_FORMAT"); consoleFormat != "" {
		c.ConsoleFormat = consoleFormat
	}

	if fileEnabled := os.Getenv("ESXFORGE_LOG_FILE_ENABLED"); fileEnabled != "" {
		if enabled, err := strconv.ParseBool(fileEnabled); err == nil {
			c.FileEnabled = enabled
		}
	}

	if filePath := os.Getenv("ESXFORGE_LOG_FILE"); filePath != "" {
		c.FilePath = filePath
	}

	return c
}
