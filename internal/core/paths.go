package core

import (
	"os"
	"path/filepath"

	"github.com/atinylittleshell/yarn-autocomplete/internal/environment"
)

type Paths struct {
	InstallDir string
	DataDir    string
	LogFile    string
	StoreFile  string
	ConfigFile string
}

var defaultPaths *Paths

func ensureDefaultPaths() {
	if defaultPaths == nil {
		installDir := executableDir()

		dataDir := environment.DataDirOverride()
		if dataDir == "" {
			dataDir = installDir
		}

		defaultPaths = &Paths{
			InstallDir: installDir,
			DataDir:    dataDir,
			LogFile:    filepath.Join(dataDir, "yarn-autocomplete.log"),
			StoreFile:  filepath.Join(dataDir, "autocomplete.json"),
			ConfigFile: filepath.Join(dataDir, "config.yaml"),
		}
	}
}

// executableDir returns the directory holding the running binary, with
// symlinks resolved so that a binary linked onto PATH still finds its
// install script and store.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe)
}

func InstallDir() string {
	ensureDefaultPaths()
	return defaultPaths.InstallDir
}

func DataDir() string {
	ensureDefaultPaths()
	return defaultPaths.DataDir
}

func LogFile() string {
	ensureDefaultPaths()
	return defaultPaths.LogFile
}

func StoreFile() string {
	ensureDefaultPaths()
	return defaultPaths.StoreFile
}

func ConfigFile() string {
	ensureDefaultPaths()
	return defaultPaths.ConfigFile
}

// InstallScript is the shell script the installer binary runs.
func InstallScript() string {
	return filepath.Join(InstallDir(), "install.sh")
}

// ResetPaths clears the cached paths, forcing them to be reinitialized.
// This is primarily used for testing purposes.
func ResetPaths() {
	defaultPaths = nil
}
