// Package envfile loads CHATMD_* defaults from .env files.
// Variables already present in the environment take precedence.
package envfile

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load reads a .env file and sets any variables not already in the environment.
// Returns nil if the file doesn't exist.
func Load(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// LoadAll loads each path in order. Earlier files win because a variable
// set by one file is already in the environment when the next is read.
// Missing files are skipped; the first read failure is returned.
func LoadAll(paths ...string) error {
	for _, path := range paths {
		if path == "" {
			continue
		}
		if err := Load(path); err != nil {
			return err
		}
	}
	return nil
}
