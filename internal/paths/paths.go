// Package paths resolves the casefile configuration and data directories.
//
// Both directories follow the same precedence: an explicit flag, then the
// environment, then the platform default. The data directory may also be
// named in config.yaml, which sits between the flag and the environment.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "casefile"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "CASEFILE_CONFIG_DIR"
	EnvDataDir   = "CASEFILE_DATA_DIR"
)

// platformDir holds platform lookups that tests replace.
var platformDir = struct {
	goos          string
	getenv        func(string) string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	getenv:        os.Getenv,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/casefile (fallback ~/.config/casefile)
// macOS:   ~/Library/Application Support/casefile
// Windows: %APPDATA%/casefile
func DefaultConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/casefile (fallback ~/.local/share/casefile)
// macOS and Windows: the configuration directory.
func DefaultDataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// xdgDir resolves AppName under an XDG base directory on Linux, and under
// os.UserConfigDir elsewhere.
func xdgDir(env, homeRel string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if base := platformDir.getenv(env); base != "" {
		return filepath.Join(base, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeRel, AppName), nil
}

// ResolveConfigDir returns the configuration directory:
// flag > CASEFILE_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := platformDir.getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory:
// flag > configured (config.yaml data_dir) > CASEFILE_DATA_DIR > DefaultDataDir().
// Relative values are made absolute against the working directory.
func ResolveDataDir(flag, configured string) (string, error) {
	for _, dir := range []string{flag, configured, platformDir.getenv(EnvDataDir)} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	return DefaultDataDir()
}
