package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/atinylittleshell/yarn-autocomplete/internal/config"
	"github.com/atinylittleshell/yarn-autocomplete/internal/core"
	"github.com/atinylittleshell/yarn-autocomplete/internal/environment"
	"github.com/atinylittleshell/yarn-autocomplete/internal/logging"
	"github.com/atinylittleshell/yarn-autocomplete/internal/packagemanager"
	"github.com/atinylittleshell/yarn-autocomplete/internal/populate"
	"github.com/atinylittleshell/yarn-autocomplete/internal/store"
	"github.com/atinylittleshell/yarn-autocomplete/internal/tree"
	"github.com/dustin/go-humanize"
	"go.uber.org/zap"
)

var BUILD_VERSION = "dev"

// main never exits non-zero: it runs from the user's shell hook and a
// failure here must not disturb the shell.
func main() {
	cfg, cfgErr := loadConfig()

	logger := initializeLogger(cfg)
	defer logger.Sync() // Flush any buffered log entries

	defer func() {
		if r := recover(); r != nil {
			report(logger, fmt.Errorf("panic: %v", r))
		}
	}()

	logger.Info("-------- new yarn-autocomplete run --------",
		zap.Strings("args", os.Args), zap.String("version", BUILD_VERSION))

	if cfgErr != nil {
		report(logger, fmt.Errorf("loading config, using defaults: %w", cfgErr))
	}

	cwd, err := os.Getwd()
	if err != nil {
		report(logger, fmt.Errorf("resolving working directory: %w", err))
		return
	}

	s := store.New(storePath(cfg))
	p := initializePopulator(cfg, packagemanager.NewShellTool(cfg.PackageManager), logger)

	if err := run(context.Background(), os.Args[1:], cwd, s, p, cfg, logger); err != nil {
		report(logger, err)
	}
}

// run loads the tree, records args (or populates cwd in auto mode) and saves
// the tree if anything changed. A populate failure does not prevent saving
// what was recorded before it.
func run(
	ctx context.Context,
	args []string,
	cwd string,
	s *store.Store,
	p *populate.Populator,
	cfg *config.Config,
	logger *zap.Logger,
) error {
	t, err := s.Load()
	if err != nil {
		return fmt.Errorf("loading command tree: %w", err)
	}

	var modified bool
	var populateErr error

	if prefix, ok := autoPrefix(args, cfg); ok {
		logger.Debug("populating", zap.String("dir", cwd), zap.Strings("prefix", prefix))
		modified, err = p.Populate(ctx, t, cwd, prefix)
		if err != nil {
			populateErr = fmt.Errorf("populating %s: %w", cwd, err)
		}
	} else {
		modified = tree.Update(t, cwd, args)
	}

	if !modified {
		logger.Debug("command tree unchanged", zap.String("dir", cwd))
		return populateErr
	}

	n, err := s.Save(t)
	if err != nil {
		return errors.Join(populateErr, fmt.Errorf("saving command tree: %w", err))
	}

	logger.Debug("saved command tree",
		zap.String("path", s.Path()),
		zap.String("size", humanize.Bytes(uint64(n))),
		zap.Int("nodes", t.Size()),
	)
	return populateErr
}

// autoPrefix recognizes `<packageManager> [prefix...] <autoFlag>` and returns
// the tokens between the two markers.
func autoPrefix(args []string, cfg *config.Config) ([]string, bool) {
	if len(args) < 2 {
		return nil, false
	}
	if args[0] != cfg.PackageManager || args[len(args)-1] != cfg.AutoFlag {
		return nil, false
	}
	return args[1 : len(args)-1], true
}

func report(logger *zap.Logger, err error) {
	logger.Error("yarn-autocomplete failed", zap.Error(err))
	fmt.Fprintf(os.Stderr, "yarn-autocomplete: %v\n", err)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader(nil).LoadFromFile(core.ConfigFile())
	if err != nil {
		return config.DefaultConfig(), err
	}
	return cfg, nil
}

// storePath resolves a relative storeFile against the data dir, never the
// directory the shell hook happens to run in.
func storePath(cfg *config.Config) string {
	if cfg.StoreFile == "" {
		return core.StoreFile()
	}
	if filepath.IsAbs(cfg.StoreFile) {
		return cfg.StoreFile
	}
	return filepath.Join(core.DataDir(), cfg.StoreFile)
}

func initializeLogger(cfg *config.Config) *zap.Logger {
	logLevel := environment.GetLogLevel(cfg.LogLevel)
	if BUILD_VERSION == "dev" && environment.LogLevelOverride() == "" {
		logLevel = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return logging.New(core.LogFile(), logLevel)
}

func initializePopulator(cfg *config.Config, tool packagemanager.Tool, logger *zap.Logger) *populate.Populator {
	return populate.New(populate.Options{
		Subcommands: initializeSubcommandLister(cfg, tool),
		Workspaces:  packagemanager.New(tool, logger),
		Logger:      logger,
	})
}

func initializeSubcommandLister(cfg *config.Config, tool packagemanager.Tool) packagemanager.SubcommandLister {
	switch cfg.SubcommandSource {
	case config.SubcommandSourceHelp:
		return packagemanager.NewHelpLister(tool, cfg.PackageManager)
	default:
		return packagemanager.NewStaticLister(cfg.Subcommands)
	}
}
