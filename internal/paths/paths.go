// Package paths provides sudo-aware path resolution for aniarr.
//
// When running with sudo, these functions resolve to the original user's
// directories (via SUDO_USER) instead of root's.
package paths

import (
	"os"
	"os/user"
	"path/filepath"
)

const appName = "aniarr"

// UserHomeDir returns the home directory of the actual user.
// If running with sudo, returns the SUDO_USER's home directory, not root's.
func UserHomeDir() (string, error) {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		u, err := user.Lookup(sudoUser)
		if err == nil {
			return u.HomeDir, nil
		}
	}
	return os.UserHomeDir()
}

// UserConfigDir returns ~/.config for the actual user.
func UserConfigDir() (string, error) {
	homeDir, err := UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, ".config"), nil
}

// AppDir returns ~/.config/aniarr.
func AppDir() (string, error) {
	configDir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

func inAppDir(elem ...string) (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{dir}, elem...)...), nil
}

// ConfigPath returns ~/.config/aniarr/config.toml.
func ConfigPath() (string, error) {
	return inAppDir("config.toml")
}

// LegacyConfigPath returns ~/.config/aniarr/aniarr.conf, a JSON config file
// read when config.toml is absent.
func LegacyConfigPath() (string, error) {
	return inAppDir("aniarr.conf")
}

// DatabasePath returns the history database path.
func DatabasePath() (string, error) {
	return inAppDir("history.db")
}

// PlansDir returns the default directory for saved plans.
func PlansDir() (string, error) {
	return inAppDir("plans")
}

// LogPath returns the default log file path.
func LogPath() (string, error) {
	return inAppDir("logs", "aniarr.log")
}

// ActualUser returns the actual username (not root when using sudo).
func ActualUser() string {
	if sudoUser := os.Getenv("SUDO_USER"); sudoUser != "" && sudoUser != "root" {
		return sudoUser
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return "unknown"
}
