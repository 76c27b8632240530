// Package environment reads the environment variables that tune
// yarn-autocomplete without touching its config file.
package environment

import (
	"os"
	"strings"

	"go.uber.org/zap"
)

const (
	HomeVar      = "YARN_AUTOCOMPLETE_HOME"
	LogLevelVar  = "YARN_AUTOCOMPLETE_LOG_LEVEL"
	CleanLogVar  = "YARN_AUTOCOMPLETE_CLEAN_LOG"
	defaultLevel = zap.InfoLevel
)

// DataDirOverride returns the directory set through YARN_AUTOCOMPLETE_HOME,
// or an empty string when unset.
func DataDirOverride() string {
	return strings.TrimSpace(os.Getenv(HomeVar))
}

// LogLevelOverride returns the raw YARN_AUTOCOMPLETE_LOG_LEVEL value.
func LogLevelOverride() string {
	return strings.TrimSpace(os.Getenv(LogLevelVar))
}

// GetLogLevel resolves the logging level. The environment wins over the
// configured value; unparseable values fall back to info.
func GetLogLevel(configured string) zap.AtomicLevel {
	value := LogLevelOverride()
	if value == "" {
		value = configured
	}

	level, err := zap.ParseAtomicLevel(strings.ToLower(value))
	if err != nil || value == "" {
		return zap.NewAtomicLevelAt(defaultLevel)
	}
	return level
}

func ShouldCleanLogFile() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(CleanLogVar))) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
