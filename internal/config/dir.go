// Package config resolves chatmd's configuration directory and settings.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the chatmd configuration directory.
//
// Resolution:
//   - $CHATMD_CONFIG_HOME if set (explicit override)
//   - $XDG_CONFIG_HOME/chatmd if set (respects XDG on any platform)
//   - %AppData%/chatmd on Windows
//   - ~/.config/chatmd on macOS and Linux
func Dir() string {
	if dir := os.Getenv("CHATMD_CONFIG_HOME"); dir != "" {
		return dir
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "chatmd")
	}

	if runtime.GOOS == "windows" {
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "chatmd")
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "chatmd")
}

// DefaultFile returns the settings file inside Dir, or "" when no
// configuration directory can be determined.
func DefaultFile() string {
	dir := Dir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, "config.yaml")
}
