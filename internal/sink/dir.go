package sink

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir writes documents beneath a root directory on disk.
type Dir struct {
	root string
}

// NewDir creates a Dir sink rooted at root. The root itself is created on
// the first write.
func NewDir(root string) *Dir {
	return &Dir{root: root}
}

// Root returns the output root directory.
func (d *Dir) Root() string {
	return d.root
}

// Path returns the on-disk location for a document name.
func (d *Dir) Path(name string) string {
	return filepath.Join(d.root, filepath.FromSlash(name))
}

// WriteFile writes data to root/name, creating parent folders as needed.
// An existing folder counts as success, so concurrent writers sharing a
// date folder do not fail each other. The document is replaced atomically.
func (d *Dir) WriteFile(name string, data []byte) error {
	cleaned, err := CleanName(name)
	if err != nil {
		return err
	}

	target := d.Path(cleaned)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create directory for %s: %w", cleaned, err)
	}

	if err := atomicWrite(target, data); err != nil {
		return fmt.Errorf("write %s: %w", cleaned, err)
	}
	return nil
}

// atomicWrite writes data to path using write-to-temp-then-rename.
// The temp file is created in the same directory as path.
func atomicWrite(path string, data []byte) error {
	tmpFile, err := os.CreateTemp(filepath.Dir(path), ".tmp-*"+filepath.Ext(path))
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("write data: %w", err)
	}
	if err := tmpFile.Chmod(0o644); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
