package export

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/chatmd/internal/archive"
)

// FrontmatterSchema identifies the frontmatter layout.
const FrontmatterSchema = "chatmd.conversation/v1"

// frontmatter is the YAML block written ahead of a conversation document.
type frontmatter struct {
	Schema       string   `yaml:"schema"`
	UUID         string   `yaml:"uuid"`
	Name         string   `yaml:"name"`
	CreatedAt    string   `yaml:"created_at"`
	UpdatedAt    string   `yaml:"updated_at"`
	MessageCount int      `yaml:"message_count"`
	Senders      []string `yaml:"senders,omitempty"`
}

// writeFrontmatter writes the YAML frontmatter section. The name is stored
// unescaped; YAML quoting keeps it intact.
func writeFrontmatter(builder *strings.Builder, conv *archive.Conversation, users *archive.Directory, opts Options) error {
	meta := frontmatter{
		Schema:       FrontmatterSchema,
		UUID:         conv.ID,
		Name:         conv.Name,
		CreatedAt:    conv.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    conv.UpdatedAt.Format(time.RFC3339),
		MessageCount: len(conv.Messages),
		Senders:      Participants(conv, directoryFor(users, opts)),
	}

	data, err := yaml.Marshal(&meta)
	if err != nil {
		return fmt.Errorf("marshal frontmatter for %s: %w", conv.ID, err)
	}

	builder.WriteString("---\n")
	builder.Write(data)
	builder.WriteString("---\n\n")
	return nil
}
