package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/atinylittleshell/yarn-autocomplete/internal/bash"
	"github.com/atinylittleshell/yarn-autocomplete/internal/core"
	"github.com/atinylittleshell/yarn-autocomplete/internal/environment"
	"github.com/atinylittleshell/yarn-autocomplete/internal/logging"
	"go.uber.org/zap"
	"mvdan.cc/sh/v3/interp"
)

func main() {
	logger := logging.New(core.LogFile(), environment.GetLogLevel(""))

	code := install(context.Background(), core.InstallScript(), os.Stdin, os.Stdout, os.Stderr, logger)

	logger.Sync()
	os.Exit(code)
}

// install runs the shell install script and returns the exit code to use.
func install(ctx context.Context, script string, stdin io.Reader, stdout, stderr io.Writer, logger *zap.Logger) int {
	logger.Info("running install script", zap.String("script", script))

	err := bash.RunScriptFile(ctx, script, stdin, stdout, stderr)

	var exitStatus interp.ExitStatus
	if errors.As(err, &exitStatus) {
		logger.Warn("install script failed", zap.Int("exitCode", int(exitStatus)))
		return int(exitStatus)
	}
	if err != nil {
		logger.Error("failed to run install script", zap.Error(err))
		fmt.Fprintf(stderr, "yarn-autocomplete-install: %v\n", err)
		return 1
	}

	return 0
}
