package export

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/chatmd/internal/archive"
)

func TestFormatConversation_Frontmatter(t *testing.T) {
	conv := richConversation()
	conv.Name = "Q&A: \"quotes\" | pipes"
	users := archive.NewDirectory([]archive.User{{ID: "u2", FullName: "Grace Hopper"}})

	opts := DefaultOptions()
	opts.Frontmatter = true
	opts.UseFullName = true

	doc, err := FormatConversation(&conv, users, opts)
	if err != nil {
		t.Fatalf("FormatConversation() error = %v", err)
	}

	if !strings.HasPrefix(doc, "---\n") {
		t.Fatalf("document should start with frontmatter\nGot:\n%s", doc)
	}
	block, body, found := strings.Cut(strings.TrimPrefix(doc, "---\n"), "---\n\n")
	if !found {
		t.Fatalf("frontmatter not terminated\nGot:\n%s", doc)
	}

	var meta frontmatter
	if err := yaml.Unmarshal([]byte(block), &meta); err != nil {
		t.Fatalf("frontmatter is not valid YAML: %v\n%s", err, block)
	}

	if meta.Schema != FrontmatterSchema || meta.UUID != "rich" {
		t.Errorf("schema/uuid = %q/%q", meta.Schema, meta.UUID)
	}
	if meta.Name != conv.Name {
		t.Errorf("Name = %q, want raw %q", meta.Name, conv.Name)
	}
	if meta.CreatedAt != "2024-03-05T09:15:42Z" || meta.UpdatedAt != "2024-03-07T18:01:07Z" {
		t.Errorf("timestamps = %q / %q", meta.CreatedAt, meta.UpdatedAt)
	}
	if meta.MessageCount != 2 {
		t.Errorf("MessageCount = %d, want 2", meta.MessageCount)
	}
	if strings.Join(meta.Senders, ",") != "u1,Grace Hopper" {
		t.Errorf("Senders = %v", meta.Senders)
	}
	if !strings.HasPrefix(body, "# Q&amp;A: \"quotes\" \\| pipes\n") {
		t.Errorf("title after frontmatter should be escaped\nGot:\n%s", body)
	}
}

func TestFormatConversation_NoFrontmatterByDefault(t *testing.T) {
	conv := sampleConversation()

	doc, err := FormatConversation(&conv, nil, DefaultOptions())
	if err != nil {
		t.Fatalf("FormatConversation() error = %v", err)
	}
	if strings.HasPrefix(doc, "---") {
		t.Errorf("frontmatter should be opt-in\nGot:\n%s", doc)
	}
}
