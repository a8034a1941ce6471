// Package sink provides the write targets rendered documents are delivered to.
package sink

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// Sink receives rendered documents by relative, slash-separated name
// (for example "conversation_list.md" or "2024-03/abc.md").
// Implementations create any intermediate folders and overwrite existing
// documents of the same name.
type Sink interface {
	WriteFile(name string, data []byte) error
}

// CleanName validates a relative document name and returns it in canonical form.
// Absolute names and names escaping the root are rejected.
func CleanName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty document name")
	}
	if strings.Contains(name, "\\") || strings.HasPrefix(name, "/") {
		return "", fmt.Errorf("document name %q must be relative and slash-separated", name)
	}
	cleaned := path.Clean(name)
	if cleaned == "." || cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("document name %q escapes the output root", name)
	}
	return cleaned, nil
}

// Memory keeps documents in memory. It is safe for concurrent use.
type Memory struct {
	mu    sync.Mutex
	files map[string][]byte
}

// NewMemory creates an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{files: make(map[string][]byte)}
}

// WriteFile stores a copy of data under name.
func (m *Memory) WriteFile(name string, data []byte) error {
	cleaned, err := CleanName(name)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[cleaned] = append([]byte(nil), data...)
	return nil
}

// Get returns the document stored under name.
func (m *Memory) Get(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	return data, ok
}

// Names returns the stored document names in sorted order.
func (m *Memory) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.files))
	for name := range m.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
