// Package config loads matchme's settings and resolves the files it keeps
// under the user's home directory.
package config

import (
	"os"
	"os/user"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a configured file path such as DefaultDatabasePath.
// A leading ~ and any $HOME reference resolve to the user's home directory,
// looked up from the account database when HOME is unset, so the default
// database never lands relative to the filesystem root. Other $VAR
// references expand from the environment.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	home := homeDir()
	if home != "" {
		switch {
		case path == "~":
			path = home
		case strings.HasPrefix(path, "~/"):
			path = filepath.Join(home, path[2:])
		}
	}

	return os.Expand(path, func(name string) string {
		if name == "HOME" && home != "" {
			return home
		}
		return os.Getenv(name)
	})
}

// homeDir returns the current user's home directory, or "" when neither
// HOME nor the account database knows it.
func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	if u, err := user.Current(); err == nil {
		return u.HomeDir
	}
	return ""
}
