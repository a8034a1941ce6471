package export

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/gorewood/chatmd/internal/archive"
)

// nameEscaper neutralizes characters that would break a conversation name
// out of a heading, a table cell or link text.
var nameEscaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	"*", `\*`,
	"_", `\_`,
	"[", `\[`,
	"]", `\]`,
	"|", `\|`,
	"~", `\~`,
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\r\n", " ",
	"\n", " ",
	"\r", " ",
)

// EscapeName escapes a conversation name for embedding in Markdown.
func EscapeName(name string) string {
	return nameEscaper.Replace(name)
}

// displayName is the single place conversation names are prepared for output.
func displayName(name string, opts Options) string {
	if opts.EscapeNames {
		return EscapeName(name)
	}
	return name
}

// Indent re-indents every continuation line of text so a multi-line body
// stays one block under its heading line.
func Indent(text string) string {
	return strings.ReplaceAll(text, "\n", "\n"+contentIndent)
}

// FormatIndex renders the conversation list. Summaries are written in the
// order given; callers sort them with SortByUpdated first.
func FormatIndex(summaries []Summary, opts Options) string {
	return formatIndex(summaries, opts, MarkdownExt)
}

// formatIndex renders the index with links ending in ext.
func formatIndex(summaries []Summary, opts Options, ext string) string {
	var builder strings.Builder

	builder.WriteString("# Conversation List\n\n")
	builder.WriteString("| Conversation Name | Last Update | Created |\n")
	builder.WriteString("| --- | --- | --- |\n")

	for _, summary := range summaries {
		fmt.Fprintf(&builder, "| [%s](%s) | %s | %s |\n",
			displayName(summary.Name, opts),
			documentLink(summary.Document, ext),
			summary.Updated.Format("01-02-06"),
			summary.Created.Format("01-02-06"))
	}

	return builder.String()
}

// documentLink turns a document name into a link target with the given extension.
func documentLink(document, ext string) string {
	target := strings.TrimSuffix(document, MarkdownExt) + ext
	return (&url.URL{Path: target}).String()
}

// FormatConversation renders one conversation as a Markdown document.
// users may be nil; it is only consulted when opts.UseFullName is set.
func FormatConversation(conv *archive.Conversation, users *archive.Directory, opts Options) (string, error) {
	var builder strings.Builder

	if opts.Frontmatter {
		if err := writeFrontmatter(&builder, conv, users, opts); err != nil {
			return "", err
		}
	}
	writeHeader(&builder, conv, opts)
	for i := range conv.Messages {
		writeMessage(&builder, &conv.Messages[i], users, opts)
	}

	return builder.String(), nil
}

// writeHeader writes the title and the Created/Updated lines.
func writeHeader(builder *strings.Builder, conv *archive.Conversation, opts Options) {
	layout := opts.Precision.layout()
	fmt.Fprintf(builder, "# %s\n\n", displayName(conv.Name, opts))
	fmt.Fprintf(builder, "Created: %s\n", conv.CreatedAt.Format(layout))
	fmt.Fprintf(builder, "Updated: %s\n\n", conv.UpdatedAt.Format(layout))
}

// writeMessage writes the sender line, the indented body and any
// attachment or file sections.
func writeMessage(builder *strings.Builder, msg *archive.Message, users *archive.Directory, opts Options) {
	fmt.Fprintf(builder, "%s - **%s** :\n", msg.CreatedAt.Format(opts.Precision.layout()), senderName(msg.Sender, users, opts))
	builder.WriteString(Indent(msg.Text))
	builder.WriteString("\n\n")

	if len(msg.Attachments) > 0 {
		builder.WriteString("Attachments:\n")
		for _, att := range msg.Attachments {
			fmt.Fprintf(builder, "  * %s (%d bytes)\n", att.FileName, att.FileSize)
			fmt.Fprintf(builder, "%s%s\n\n", contentIndent, Indent(att.ExtractedContent))
		}
	}

	if len(msg.Files) > 0 {
		builder.WriteString("Files:\n")
		for _, file := range msg.Files {
			fmt.Fprintf(builder, "  * %s\n", file.FileName)
		}
		builder.WriteString("\n")
	}
}

func senderName(sender string, users *archive.Directory, opts Options) string {
	return directoryFor(users, opts).Resolve(sender)
}

// directoryFor returns users when full names were requested, otherwise nil
// so identifiers stay raw.
func directoryFor(users *archive.Directory, opts Options) *archive.Directory {
	if !opts.UseFullName {
		return nil
	}
	return users
}
