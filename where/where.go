// Package where implements a cross-platform resolver for application-specific filesystem paths.
package where

import (
	"os"
	"path/filepath"

	"github.com/samber/lo"
	"github.com/surfplay/surfplay/constant"
	"github.com/surfplay/surfplay/filesystem"
)

// EnvConfigPath is the environment variable identifier used to override the default configuration directory.
const EnvConfigPath = "SURFPLAY_CONFIG_PATH"

// ensureDir guarantees the existence of a directory at the specified path, creating it if necessary.
func ensureDir(path string) string {
	lo.Must0(filesystem.API().MkdirAll(path, os.ModePerm))
	return path
}

// Config resolves the absolute path to the primary application configuration directory.
// It follows XDG_CONFIG_HOME on Linux and the user profile paths on Darwin and Windows.
// SURFPLAY_CONFIG_PATH overrides the result.
func Config() string {
	if custom, ok := os.LookupEnv(EnvConfigPath); ok {
		return ensureDir(custom)
	}

	base := lo.Must(os.UserConfigDir())
	return ensureDir(filepath.Join(base, constant.Surfplay))
}

// Cache resolves the absolute path to the application's persistent cache directory.
func Cache() string {
	base, err := os.UserCacheDir()
	if err != nil {
		base = filepath.Join(".", "cache")
	}
	return ensureDir(filepath.Join(base, constant.Surfplay))
}

// Logs resolves the absolute path to the directory used for application diagnostic logs.
func Logs() string {
	return ensureDir(filepath.Join(Config(), "logs"))
}

// History resolves the absolute path to the resume position registry.
func History() string {
	return filepath.Join(Config(), "history.json")
}

// Temp resolves a volatile filesystem path for transient application artifacts such as IPC sockets.
func Temp() string {
	return ensureDir(filepath.Join(os.TempDir(), constant.Surfplay))
}

// Sockets resolves the directory holding the IPC sockets of running players.
// Unlike the other resolvers it reports a failure to create the directory.
func Sockets() (string, error) {
	dir := filepath.Join(os.TempDir(), constant.Surfplay, "sockets")
	if err := filesystem.API().MkdirAll(dir, os.ModePerm); err != nil {
		return "", err
	}
	return dir, nil
}
