// Package logging builds the file-backed zap logger shared by the binaries.
// Nothing is ever logged to the terminal: the recorder runs inside the
// user's shell hook.
package logging

import (
	"os"
	"path/filepath"

	"github.com/atinylittleshell/yarn-autocomplete/internal/environment"
	"go.uber.org/zap"
)

// New returns a production logger writing JSON lines to logFile. When the
// file cannot be opened a no-op logger is returned instead of an error.
func New(logFile string, level zap.AtomicLevel) *zap.Logger {
	if environment.ShouldCleanLogFile() {
		os.Remove(logFile)
	}
	_ = os.MkdirAll(filepath.Dir(logFile), 0755)

	loggerConfig := zap.NewProductionConfig()
	loggerConfig.Level = level
	loggerConfig.OutputPaths = []string{logFile}
	loggerConfig.ErrorOutputPaths = []string{logFile}

	logger, err := loggerConfig.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
